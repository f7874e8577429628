package eol

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/sambabib/eol-checker/pkg/logger"
	"github.com/sambabib/eol-checker/pkg/version"
)

// eolLayout accepts one or two digit months and days, like 2024-1-5.
const eolLayout = "2006-1-2"

// Resolver derives an Info from a product's release cycles. Now defaults to
// time.Now; tests pin it.
type Resolver struct {
	Now func() time.Time
}

// Resolve uses the wall clock. See Resolver.Resolve.
func Resolve(cycles []Cycle, currentVersion, toolName string) Info {
	return Resolver{}.Resolve(cycles, currentVersion, toolName)
}

// Resolve derives the status of currentVersion from cycles. toolName only
// appears in debug output.
func (r Resolver) Resolve(cycles []Cycle, currentVersion, toolName string) Info {
	info := r.resolve(cycles, currentVersion)
	logger.Debugf("EOL: %s %s resolved to %s (eol: %s, latest: %s)",
		toolName, currentVersion, info.Status, info.EOLDate, info.LatestVersion)
	return info
}

// resolve applies, in order: no data, current newer than latest, current is
// the latest release, any matching cycle, no match.
func (r Resolver) resolve(cycles []Cycle, currentVersion string) Info {
	if len(cycles) == 0 {
		return Info{Status: StatusUnknown, EOLDate: NoDataAvailable, LatestVersion: UnknownLatestVersion}
	}

	now := r.now()
	latest := LatestVersion(cycles, now.Location())
	known := latest != version.Unknown && currentVersion != version.Unknown

	if known && version.Compare(currentVersion, latest) == 1 {
		// Not catalogued yet; do not report it as EOL.
		return Info{Status: StatusUnknown, EOLDate: VersionNewerThanLatest, LatestVersion: latest}
	}

	if known && version.Compare(currentVersion, latest) == 0 {
		if c, ok := findCycle(cycles, currentVersion); ok {
			return interpretEOL(c, latest, now, true)
		}
	}

	if c, ok := findCycle(cycles, currentVersion); ok {
		return interpretEOL(c, latest, now, false)
	}

	return Info{Status: StatusUnknown, EOLDate: VersionNotFound, LatestVersion: latest}
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// LatestVersion returns the cycle flagged latest, else the cycle with the
// newest parseable release date, else version.Unknown.
func LatestVersion(cycles []Cycle, loc *time.Location) string {
	for _, c := range cycles {
		if c.Latest {
			if c.Cycle != "" {
				return string(c.Cycle)
			}
			break
		}
	}

	latest := version.Unknown
	var newest time.Time
	found := false
	for _, c := range cycles {
		released, ok := parseReleaseDate(string(c.ReleaseDate), loc)
		if !ok {
			continue
		}
		if !found || released.After(newest) {
			newest, found = released, true
			latest = version.Unknown
			if c.Cycle != "" {
				latest = string(c.Cycle)
			}
		}
	}
	return latest
}

// findCycle returns the first cycle equal to v under version.Compare.
func findCycle(cycles []Cycle, v string) (Cycle, bool) {
	for _, c := range cycles {
		if version.Compare(string(c.Cycle), v) == 0 {
			return c, true
		}
	}
	return Cycle{}, false
}

// interpretEOL reads the eol field of a matched cycle. An unreadable date is
// Supported when the match is the latest release and Unknown otherwise.
func interpretEOL(c Cycle, latest string, now time.Time, isLatest bool) Info {
	if !c.EOL.Set {
		date := NotSpecified
		if isLatest {
			date = NotSpecifiedLatest
		}
		return Info{Status: StatusSupported, EOLDate: date, LatestVersion: latest}
	}

	if c.EOL.Flag {
		return Info{Status: StatusEOL, EOLDate: AlreadyEOL, LatestVersion: latest}
	}

	eolDate, err := time.ParseInLocation(eolLayout, c.EOL.Date, now.Location())
	if err != nil {
		status := StatusUnknown
		if isLatest {
			status = StatusSupported
		}
		return Info{Status: status, EOLDate: c.EOL.Date, LatestVersion: latest}
	}

	if eolDate.Before(now) {
		return Info{Status: StatusEOL, EOLDate: c.EOL.Date, LatestVersion: latest}
	}

	days := int(eolDate.Sub(now) / (24 * time.Hour))
	return Info{Status: StatusSupported, EOLDate: c.EOL.Date, LatestVersion: latest, DaysUntilEOL: &days}
}

// parseReleaseDate tries the catalogue's YYYY-MM-DD first and then any layout
// dateparse recognises.
func parseReleaseDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(eolLayout, s, loc); err == nil {
		return t, true
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
