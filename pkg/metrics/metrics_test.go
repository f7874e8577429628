package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
)

var ranAt = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

func days(n int) *int { return &n }

func results() []analyzer.CheckResult {
	return []analyzer.CheckResult{
		{ToolName: "Node.js", CurrentVersion: "16", Status: eol.StatusEOL, Criticality: analyzer.CriticalityHigh},
		{ToolName: "Python", CurrentVersion: "3.10", Status: eol.StatusSupported, DaysUntilEOL: days(77), Criticality: analyzer.CriticalityMedium},
		{ToolName: "Python", CurrentVersion: "3.10", Status: eol.StatusSupported, DaysUntilEOL: days(77), Criticality: analyzer.CriticalityMedium},
		{ToolName: "Go", CurrentVersion: "1.25", Status: eol.StatusSupported, Criticality: analyzer.CriticalityLow},
	}
}

func TestResultCollector(t *testing.T) {
	expected := `
# HELP eolcheck_tools Number of checked tools by EOL status
# TYPE eolcheck_tools gauge
eolcheck_tools{status="EOL"} 1
eolcheck_tools{status="Supported"} 3
eolcheck_tools{status="Unknown"} 0
# HELP eolcheck_tools_by_criticality Number of checked tools by criticality
# TYPE eolcheck_tools_by_criticality gauge
eolcheck_tools_by_criticality{criticality="high"} 1
eolcheck_tools_by_criticality{criticality="low"} 1
eolcheck_tools_by_criticality{criticality="medium"} 2
# HELP eolcheck_days_until_eol Days until the EOL date of a supported tool version
# TYPE eolcheck_days_until_eol gauge
eolcheck_days_until_eol{tool="Python",version="3.10"} 77
`
	c := NewResultCollector(results(), ranAt)
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"eolcheck_tools", "eolcheck_tools_by_criticality", "eolcheck_days_until_eol")
	assert.NoError(t, err)
	assert.Equal(t, 8, testutil.CollectAndCount(c))
}

func TestResultCollector_Empty(t *testing.T) {
	c := NewResultCollector(nil, ranAt)
	assert.Equal(t, 7, testutil.CollectAndCount(c))
	assert.Equal(t, 0, testutil.CollectAndCount(c, "eolcheck_days_until_eol"))
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eolcheck.prom")
	require.NoError(t, WriteTextfile(path, results(), ranAt))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `eolcheck_tools{status="EOL"} 1`)
	assert.Contains(t, string(data), "eolcheck_last_run_timestamp_seconds 1.7920224e+09")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "eolcheck.prom"), results(), ranAt)
	assert.Error(t, err)
}
