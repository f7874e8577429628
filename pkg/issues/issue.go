// Package issues keeps one tracker issue per problematic tool version in
// step with the latest EOL report.
package issues

import (
	"fmt"
	"regexp"
	"time"

	"github.com/samber/lo"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
)

const (
	AlertLabel  = "eol-alert"
	titlePrefix = "EOL Alert: "
	stampLayout = "2006-01-02 15:04:05"
)

type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

// Issue is an alert issue as seen by a Tracker.
type Issue struct {
	ID     string
	Number int
	Title  string
	State  State
	Labels []string
}

func (i Issue) HasLabel(name string) bool {
	return lo.Contains(i.Labels, name)
}

// criticalityLabels maps criticality to the tier label. Low results are
// never opened but the label is still recognised on existing issues.
var criticalityLabels = map[analyzer.Criticality]string{
	analyzer.CriticalityHigh:   "critical",
	analyzer.CriticalityMedium: "warning",
	analyzer.CriticalityLow:    "info",
}

// LabelFor returns the tier label for c. Unrecognised values count as warning.
func LabelFor(c analyzer.Criticality) string {
	if l, ok := criticalityLabels[c]; ok {
		return l
	}
	return criticalityLabels[analyzer.CriticalityMedium]
}

func isTierLabel(name string) bool {
	return lo.Contains(lo.Values(criticalityLabels), name)
}

func Title(r analyzer.CheckResult) string {
	return fmt.Sprintf("%s%s %s - %s", titlePrefix, r.ToolName, r.CurrentVersion, r.Status)
}

// The tool name may contain spaces; the version is the last token before " - ".
var titlePattern = regexp.MustCompile(`^` + regexp.QuoteMeta(titlePrefix) + `(.+) (\S+) - (.+)$`)

// TitleInfo is what an alert title records about the tool it was opened for.
type TitleInfo struct {
	ToolName string
	Version  string
	Status   eol.Status
}

func (t TitleInfo) key() string {
	return toolKey(t.ToolName, t.Version)
}

// ParseTitle reverses Title. ok is false for titles not written by Title.
func ParseTitle(title string) (TitleInfo, bool) {
	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return TitleInfo{}, false
	}
	return TitleInfo{ToolName: m[1], Version: m[2], Status: eol.Status(m[3])}, true
}

func toolKey(name, version string) string {
	return name + "_" + version
}

func resultKey(r analyzer.CheckResult) string {
	return toolKey(r.ToolName, r.CurrentVersion)
}

func alertBody(r analyzer.CheckResult, now time.Time) string {
	return fmt.Sprintf(`## EOL Status Alert

**Tool:** %s
**Current Version:** %s
**Latest Version:** %s
**Status:** %s
**EOL Date:** %s
**Criticality:** %s
**Report Generated:** %s

### Recommended Actions:
- [ ] Upgrade to latest version (%s)
- [ ] Review dependency compatibility
- [ ] Update documentation
- [ ] Test new version in staging environment

### Additional Context:
This alert was automatically generated by the EOL check workflow.`,
		r.ToolName, r.CurrentVersion, r.LatestVersion, r.Status, r.EOLDate, r.Criticality,
		now.Format(stampLayout), r.LatestVersion)
}

func resolvedComment(t TitleInfo, resolution string, now time.Time) string {
	return fmt.Sprintf(`✅ **EOL Issue Resolved**

**Tool:** %s
**Version:** %s
**Resolution:** %s
**Resolved on:** %s

This issue has been automatically closed because the EOL status has been resolved.`,
		t.ToolName, t.Version, resolution, now.Format(stampLayout))
}

func updateComment(r analyzer.CheckResult, now time.Time) string {
	return fmt.Sprintf(`📊 **Status Update**

**Tool:** %s
**Version:** %s
**New Status:** %s
**New Criticality:** %s
**EOL Date:** %s
**Latest Version:** %s
**Updated on:** %s

The status of this EOL issue has changed. Please review the updated information.`,
		r.ToolName, r.CurrentVersion, r.Status, r.Criticality, r.EOLDate, r.LatestVersion,
		now.Format(stampLayout))
}
