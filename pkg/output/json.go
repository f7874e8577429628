package output

import (
	"encoding/json"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/analyzer"
)

// Report is the JSON report document.
type Report struct {
	GeneratedOn string                 `json:"generated_on"`
	Tools       []analyzer.CheckResult `json:"tools"`
}

// NewReport stamps results with the generation time.
func NewReport(results []analyzer.CheckResult, generated time.Time) Report {
	if results == nil {
		results = []analyzer.CheckResult{}
	}
	return Report{GeneratedOn: generated.Format(analyzer.LastCheckedLayout), Tools: results}
}

// GenerateJSONReport renders the report with two-space indentation.
func GenerateJSONReport(report Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// ReadJSONReport loads a report written by GenerateJSONReport.
func ReadJSONReport(fs afero.Fs, path string) (Report, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Report{}, xerrors.Errorf("unable to read report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, xerrors.Errorf("unable to parse report %s: %w", path, err)
	}
	return report, nil
}
