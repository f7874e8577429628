package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
)

const ruleWidth = 100

// pad fills s with spaces up to the given display width. Emoji count double.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func latestOf(r analyzer.CheckResult) string {
	if r.LatestVersion == "" {
		return eol.UnknownLatestVersion
	}
	return r.LatestVersion
}

// PrintResults writes one line per tool, or an aligned table when verbose.
func PrintResults(w io.Writer, results []analyzer.CheckResult, verbose bool) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", ruleWidth))
	if verbose {
		fmt.Fprintln(w, pad("Status", 9)+pad("Tool", 19)+pad("Version", 11)+pad("Latest", 11)+pad("EOL Date", 13)+"Criticality")
		fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
		for _, r := range results {
			fmt.Fprintln(w, pad(statusIcon(r.Status, true), 9)+
				pad(r.ToolName, 19)+
				pad(r.CurrentVersion, 11)+
				pad(latestOf(r), 11)+
				pad(r.EOLDate, 13)+
				strings.ToUpper(string(r.Criticality)))
		}
	} else {
		for _, r := range results {
			fmt.Fprintf(w, "%s %s %s : %s%s\n",
				statusIcon(r.Status, false),
				pad(r.ToolName, 15),
				pad(r.CurrentVersion, 8),
				pad(string(r.Status), 10),
				compactDetail(r))
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
}

func statusIcon(s eol.Status, labelled bool) string {
	switch s {
	case eol.StatusEOL:
		if labelled {
			return "🔴 EOL"
		}
		return "🔴"
	case eol.StatusSupported:
		if labelled {
			return "🟢 OK"
		}
		return "🟢"
	default:
		if labelled {
			return "🟡 ???"
		}
		return "🟡"
	}
}

func compactDetail(r analyzer.CheckResult) string {
	latest := latestOf(r)
	switch r.Status {
	case eol.StatusEOL:
		return fmt.Sprintf(" (EOL: %s, Latest: %s)", r.EOLDate, latest)
	case eol.StatusSupported:
		if r.DaysUntilEOL != nil {
			days := *r.DaysUntilEOL
			switch {
			case days <= analyzer.HighThresholdDays:
				return fmt.Sprintf(" (🚨 EOL in %d days: %s, Latest: %s)", days, r.EOLDate, latest)
			case days <= analyzer.MediumThresholdDays:
				return fmt.Sprintf(" (⚠️ EOL in %d days: %s, Latest: %s)", days, r.EOLDate, latest)
			default:
				return fmt.Sprintf(" (EOL: %s, Latest: %s)", r.EOLDate, latest)
			}
		}
		if r.EOLDate == eol.NotSpecifiedLatest && latest != eol.UnknownLatestVersion {
			return fmt.Sprintf(" (✅ Latest version: %s)", latest)
		}
		return fmt.Sprintf(" (Latest: %s)", latest)
	default:
		return fmt.Sprintf(" (%s, Latest: %s)", r.EOLDate, latest)
	}
}

func sectionLine(w io.Writer, r analyzer.CheckResult, status string) {
	fmt.Fprintf(w, "   • %s %s (%s: %s, Latest: %s)\n", r.ToolName, r.CurrentVersion, status, r.EOLDate, latestOf(r))
}

func daysStatus(r analyzer.CheckResult, fallback string) string {
	if r.DaysUntilEOL != nil {
		return fmt.Sprintf("EOL in %d days", *r.DaysUntilEOL)
	}
	return fallback
}

// PrintSummary writes the per-tier sections, totals and usage tips.
func PrintSummary(w io.Writer, results []analyzer.CheckResult) {
	critical := WithCriticality(results, analyzer.CriticalityHigh)
	warning := WithCriticality(results, analyzer.CriticalityMedium)
	info := WithCriticality(results, analyzer.CriticalityLow)

	if len(critical) > 0 {
		fmt.Fprintf(w, "\n🚨 CRITICAL ITEMS (%d):\n", len(critical))
		for _, r := range critical {
			status := "EOL"
			if r.Status != eol.StatusEOL {
				status = daysStatus(r, "Approaching EOL")
			}
			sectionLine(w, r, status)
		}
	}

	if len(warning) > 0 {
		fmt.Fprintf(w, "\n⚠️  WARNING ITEMS (%d):\n", len(warning))
		for _, r := range warning {
			status := string(r.Status)
			if r.Status == eol.StatusSupported {
				switch {
				case r.DaysUntilEOL != nil:
					status = daysStatus(r, "")
				case r.EOLDate == eol.NotSpecifiedLatest:
					status = "Latest version"
				default:
					status = "Supported (no EOL date)"
				}
			}
			sectionLine(w, r, status)
		}
	}

	if len(info) > 0 {
		fmt.Fprintf(w, "\n✅  Info (%d):\n", len(info))
		for _, r := range info {
			status := daysStatus(r, "Supported")
			if r.Status == eol.StatusSupported && r.EOLDate == eol.NotSpecifiedLatest {
				status = "Latest version"
			}
			sectionLine(w, r, status)
		}
	}

	s := Summarize(results)
	fmt.Fprintln(w, "\n📈 Summary:")
	fmt.Fprintf(w, "   • Total Tools: %d\n", s.Total)
	fmt.Fprintf(w, "   • 🔴 EOL (End-of-Life): %d\n", s.EOL)
	fmt.Fprintf(w, "   • 🟢 Supported: %d\n", s.Supported)
	if s.Unknown > 0 {
		fmt.Fprintf(w, "   • 🟡 Unknown: %d\n", s.Unknown)
	}
	fmt.Fprintf(w, "   • 🚨 Critical: %d\n", s.High)
	fmt.Fprintf(w, "   • ⚠️ Warnings: %d\n", s.Medium)
	if s.Low > 0 {
		fmt.Fprintf(w, "   • ✅  Info: %d\n", s.Low)
	}

	fmt.Fprintln(w, "\n💡 Tips:")
	fmt.Fprintln(w, "   • Use --verbose (-v) for detailed table view with all EOL dates")
	fmt.Fprintln(w, "   • Open the HTML report in your browser for complete details")
	if s.High > 0 {
		fmt.Fprintln(w, "   • Prioritize updating critical items (EOL or EOL within 30 days)")
	}
}
