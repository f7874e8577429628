package output

import (
	"github.com/samber/lo"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
)

// Summary holds the per-status and per-criticality counts of a run.
type Summary struct {
	Total     int
	Supported int
	EOL       int
	Unknown   int
	High      int
	Medium    int
	Low       int
}

func Summarize(results []analyzer.CheckResult) Summary {
	byStatus := lo.CountValuesBy(results, func(r analyzer.CheckResult) eol.Status { return r.Status })
	byCriticality := lo.CountValuesBy(results, func(r analyzer.CheckResult) analyzer.Criticality { return r.Criticality })
	return Summary{
		Total:     len(results),
		Supported: byStatus[eol.StatusSupported],
		EOL:       byStatus[eol.StatusEOL],
		Unknown:   byStatus[eol.StatusUnknown],
		High:      byCriticality[analyzer.CriticalityHigh],
		Medium:    byCriticality[analyzer.CriticalityMedium],
		Low:       byCriticality[analyzer.CriticalityLow],
	}
}

// WithCriticality keeps the results of one tier, in order.
func WithCriticality(results []analyzer.CheckResult, c analyzer.Criticality) []analyzer.CheckResult {
	return lo.Filter(results, func(r analyzer.CheckResult, _ int) bool { return r.Criticality == c })
}
