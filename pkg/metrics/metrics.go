// Package metrics exposes a run's results in the Prometheus text format so a
// node_exporter textfile collector can scrape them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
)

var (
	toolsDesc = prometheus.NewDesc(
		"eolcheck_tools",
		"Number of checked tools by EOL status",
		[]string{"status"},
		nil,
	)
	criticalityDesc = prometheus.NewDesc(
		"eolcheck_tools_by_criticality",
		"Number of checked tools by criticality",
		[]string{"criticality"},
		nil,
	)
	daysDesc = prometheus.NewDesc(
		"eolcheck_days_until_eol",
		"Days until the EOL date of a supported tool version",
		[]string{"tool", "version"},
		nil,
	)
	lastRunDesc = prometheus.NewDesc(
		"eolcheck_last_run_timestamp_seconds",
		"Unix time of the last completed check",
		nil,
		nil,
	)
)

// ResultCollector emits gauges for one batch of check results.
type ResultCollector struct {
	results []analyzer.CheckResult
	ranAt   time.Time
}

func NewResultCollector(results []analyzer.CheckResult, ranAt time.Time) *ResultCollector {
	return &ResultCollector{results: results, ranAt: ranAt}
}

// Describe sends the metric descriptors to the channel.
func (c *ResultCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- toolsDesc
	ch <- criticalityDesc
	ch <- daysDesc
	ch <- lastRunDesc
}

// Collect emits every status and criticality, including zero counts.
func (c *ResultCollector) Collect(ch chan<- prometheus.Metric) {
	byStatus := map[eol.Status]int{eol.StatusEOL: 0, eol.StatusSupported: 0, eol.StatusUnknown: 0}
	byCriticality := map[analyzer.Criticality]int{
		analyzer.CriticalityHigh: 0, analyzer.CriticalityMedium: 0, analyzer.CriticalityLow: 0,
	}
	seen := make(map[[2]string]bool)

	for _, r := range c.results {
		byStatus[r.Status]++
		byCriticality[r.Criticality]++
		if r.DaysUntilEOL == nil {
			continue
		}
		key := [2]string{r.ToolName, r.CurrentVersion}
		if seen[key] {
			continue
		}
		seen[key] = true
		ch <- prometheus.MustNewConstMetric(daysDesc, prometheus.GaugeValue,
			float64(*r.DaysUntilEOL), r.ToolName, r.CurrentVersion)
	}

	for status, n := range byStatus {
		ch <- prometheus.MustNewConstMetric(toolsDesc, prometheus.GaugeValue, float64(n), string(status))
	}
	for crit, n := range byCriticality {
		ch <- prometheus.MustNewConstMetric(criticalityDesc, prometheus.GaugeValue, float64(n), string(crit))
	}
	ch <- prometheus.MustNewConstMetric(lastRunDesc, prometheus.GaugeValue, float64(c.ranAt.Unix()))
}

// WriteTextfile writes the metrics for results to path atomically.
func WriteTextfile(path string, results []analyzer.CheckResult, ranAt time.Time) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewResultCollector(results, ranAt)); err != nil {
		return xerrors.Errorf("failed to register collector: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return xerrors.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
