package issues

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
)

func TestTitle(t *testing.T) {
	r := analyzer.CheckResult{ToolName: "Node.js", CurrentVersion: "16", Status: eol.StatusEOL}
	assert.Equal(t, "EOL Alert: Node.js 16 - EOL", Title(r))
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  TitleInfo
		ok    bool
	}{
		{
			name:  "simple",
			title: "EOL Alert: Node.js 16 - EOL",
			want:  TitleInfo{ToolName: "Node.js", Version: "16", Status: eol.StatusEOL},
			ok:    true,
		},
		{
			name:  "tool name with spaces",
			title: "EOL Alert: Amazon Linux 2 - Supported",
			want:  TitleInfo{ToolName: "Amazon Linux", Version: "2", Status: eol.StatusSupported},
			ok:    true,
		},
		{
			name:  "not an alert",
			title: "Bump dependencies",
			ok:    false,
		},
		{
			name:  "missing status",
			title: "EOL Alert: Node.js 16",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTitle(tt.title)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTitle_RoundTrip(t *testing.T) {
	r := analyzer.CheckResult{ToolName: "Microsoft SQL Server", CurrentVersion: "2019", Status: eol.StatusUnknown}
	info, ok := ParseTitle(Title(r))
	assert.True(t, ok)
	assert.Equal(t, r.ToolName, info.ToolName)
	assert.Equal(t, r.CurrentVersion, info.Version)
	assert.Equal(t, r.Status, info.Status)
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, "critical", LabelFor(analyzer.CriticalityHigh))
	assert.Equal(t, "warning", LabelFor(analyzer.CriticalityMedium))
	assert.Equal(t, "info", LabelFor(analyzer.CriticalityLow))
	assert.Equal(t, "warning", LabelFor(analyzer.Criticality("")))
}

func TestAlertBody(t *testing.T) {
	r := analyzer.CheckResult{
		ToolName: "Python", CurrentVersion: "3.8", Status: eol.StatusEOL, EOLDate: "2024-10-07",
		LatestVersion: "3.13", Criticality: analyzer.CriticalityHigh,
	}
	body := alertBody(r, syncTime)
	assert.Contains(t, body, "**Tool:** Python")
	assert.Contains(t, body, "**EOL Date:** 2024-10-07")
	assert.Contains(t, body, "- [ ] Upgrade to latest version (3.13)")
	assert.Contains(t, body, "**Report Generated:** 2026-10-15 08:00:00")
}
