package output

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
)

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>EOL Tool Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; background: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .header { text-align: center; margin-bottom: 30px; border-bottom: 2px solid #333; padding-bottom: 20px; }
        .summary { background: #f8f9fa; padding: 20px; border-radius: 8px; margin-bottom: 25px; }
        .critical { background: #ffebee; border-left: 4px solid #f44336; padding: 15px; margin: 15px 0; }
        .warning { background: #fff3e0; border-left: 4px solid #ff9800; padding: 15px; margin: 15px 0; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background-color: #f8f9fa; font-weight: bold; }
        .status-eol { color: #d32f2f; font-weight: bold; }
        .status-supported { color: #388e3c; font-weight: bold; }
        .status-unknown { color: #f57c00; font-weight: bold; }
        .badge { padding: 4px 8px; border-radius: 12px; font-size: 12px; font-weight: bold; color: white; }
        .badge-critical { background: #d32f2f; }
        .badge-warning { background: #f57c00; }
        .badge-info { background: #1976d2; }
        .footer { text-align: center; margin-top: 40px; padding-top: 20px; border-top: 1px solid #ddd; color: #666; }
        .latest-version { color: #1976d2; font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🛠️ EOL Tool Status Report</h1>
            <p>Generated on: {{.GeneratedOn}}</p>
        </div>

        <div class="summary">
            <h2>📊 Summary</h2>
            <p><strong>Total Tools:</strong> <span id="total">{{.Summary.Total}}</span></p>
            <p><strong>✅ Supported:</strong> <span id="supported">{{.Summary.Supported}}</span></p>
            <p><strong>❌ EOL:</strong> <span id="eol">{{.Summary.EOL}}</span></p>
            <p><strong>❓ Unknown:</strong> <span id="unknown">{{.Summary.Unknown}}</span></p>
            <p><strong>⚠️ Warning:</strong> <span id="warning">{{.Summary.Medium}}</span></p>
        </div>
{{if .CriticalEOL}}
        <div class="critical">
            <h2>🚨 CRITICAL EOL TOOLS ({{len .CriticalEOL}})</h2>
            <ul>
{{- range .CriticalEOL}}
                <li><strong>{{.ToolName}} {{.CurrentVersion}}</strong> - EOL Date: {{.EOLDate}} (Latest: {{.LatestVersion}})</li>
{{- end}}
            </ul>
        </div>
{{end}}
{{- if .WarningEOL}}
        <div class="warning">
            <h2>⚠️ EOL WARNINGS ({{len .WarningEOL}})</h2>
            <ul>
{{- range .WarningEOL}}
                <li><strong>{{.ToolName}} {{.CurrentVersion}}</strong> - EOL Date: {{.EOLDate}} (Latest: {{.LatestVersion}})</li>
{{- end}}
            </ul>
        </div>
{{end}}
        <h2>📋 Detailed Results</h2>
        <table>
            <thead>
                <tr>
                    <th>Tool</th>
                    <th>Current Version</th>
                    <th>Latest Version</th>
                    <th>Status</th>
                    <th>EOL Date</th>
                    <th>Criticality</th>
                    <th>Last Checked</th>
                </tr>
            </thead>
            <tbody>
{{- range .Results}}
                <tr>
                    <td><strong>{{.ToolName}}</strong></td>
                    <td>{{.CurrentVersion}}</td>
                    <td class="latest-version">{{.LatestVersion}}</td>
                    <td class="{{statusClass .Status}}">{{.Status}}</td>
                    <td>{{.EOLDate}}</td>
                    <td>{{badge .Criticality}}</td>
                    <td>{{.LastChecked}}</td>
                </tr>
{{- end}}
            </tbody>
        </table>

        <div class="footer">
            <p>Generated by EOL Tool Checker | {{.GeneratedDate}}</p>
        </div>
    </div>
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"statusClass": func(s eol.Status) string {
		return "status-" + strings.ToLower(string(s))
	},
	"badge": badgeHTML,
}).Parse(htmlTemplate))

type htmlData struct {
	GeneratedOn   string
	GeneratedDate string
	Summary       Summary
	CriticalEOL   []analyzer.CheckResult
	WarningEOL    []analyzer.CheckResult
	Results       []analyzer.CheckResult
}

func badgeHTML(c analyzer.Criticality) template.HTML {
	switch c {
	case analyzer.CriticalityHigh:
		return `<span class="badge badge-critical">CRITICAL</span>`
	case analyzer.CriticalityLow:
		return `<span class="badge badge-info">INFO</span>`
	default:
		return `<span class="badge badge-warning">WARNING</span>`
	}
}

// GenerateHTMLReport renders the human-readable report.
func GenerateHTMLReport(results []analyzer.CheckResult, generated time.Time) ([]byte, error) {
	eolResults := lo.Filter(results, func(r analyzer.CheckResult, _ int) bool { return r.Status == eol.StatusEOL })
	critical, warning := lo.FilterReject(eolResults, func(r analyzer.CheckResult, _ int) bool {
		return r.Criticality == analyzer.CriticalityHigh
	})

	data := htmlData{
		GeneratedOn:   generated.Format(analyzer.LastCheckedLayout),
		GeneratedDate: generated.Format("2006-01-02"),
		Summary:       Summarize(results),
		CriticalEOL:   critical,
		WarningEOL:    warning,
		Results:       results,
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, xerrors.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}
