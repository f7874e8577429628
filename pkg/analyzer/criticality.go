package analyzer

import (
	"github.com/sambabib/eol-checker/pkg/eol"
	"github.com/sambabib/eol-checker/pkg/version"
)

// Day thresholds for Supported versions with a known EOL date.
const (
	HighThresholdDays   = 30
	MediumThresholdDays = 90
)

// Classify maps a resolved status to an urgency tier.
func Classify(status eol.Status, eolDate string, daysUntilEOL *int, latestVersion, currentVersion string) Criticality {
	switch status {
	case eol.StatusEOL:
		return CriticalityHigh
	case eol.StatusSupported:
		// On the newest release with no EOL horizon: nothing to do.
		if eol.IsNotSpecified(eolDate) && latestVersion != version.Unknown &&
			version.Compare(currentVersion, latestVersion) == 0 {
			return CriticalityLow
		}

		if daysUntilEOL != nil {
			days := *daysUntilEOL
			switch {
			case days <= 0:
				// Contradicts Supported, but treat it as urgent.
				return CriticalityHigh
			case days <= HighThresholdDays:
				return CriticalityHigh
			case days <= MediumThresholdDays:
				return CriticalityMedium
			default:
				return CriticalityLow
			}
		}
		return CriticalityMedium
	default:
		return CriticalityMedium
	}
}

// ClassifyInfo is Classify for a resolved Info.
func ClassifyInfo(info eol.Info, currentVersion string) Criticality {
	return Classify(info.Status, info.EOLDate, info.DaysUntilEOL, info.LatestVersion, currentVersion)
}
