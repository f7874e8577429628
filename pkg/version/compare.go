// Package version orders release identifiers taken from tool inventories and
// the endoflife.date catalogue. Identifiers are compared as semantic versions
// when both sides parse, and through a lossy numeric fallback otherwise.
package version

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Unknown is the sentinel used for versions that could not be determined.
const Unknown = "Unknown"

// Strategy identifies which comparison tier produced a Result.
type Strategy int

const (
	// StrategyUnknown means one side was the Unknown sentinel; the order is always 0.
	StrategyUnknown Strategy = iota
	// StrategySemver means both sides parsed as (possibly partial) semantic versions.
	StrategySemver
	// StrategyFallback means at least one side did not parse and the
	// string/numeric tie-breaker was used. Its ordering is best effort only.
	StrategyFallback
	// StrategyNumeric means semver rejected a side but both are plain dotted
	// integers ("22.04", "1.10.0.0"), compared segment by segment.
	StrategyNumeric
)

func (s Strategy) String() string {
	switch s {
	case StrategySemver:
		return "semver"
	case StrategyFallback:
		return "fallback"
	case StrategyNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Result is the outcome of a comparison: Order is -1, 0 or 1.
type Result struct {
	Order    int
	Strategy Strategy
}

var (
	nonNumeric    = regexp.MustCompile(`[^\d.]`)
	numericDotted = regexp.MustCompile(`^[vV]?\d+(\.\d+)*$`)
)

// Compare returns -1, 0 or 1 depending on whether a is older than, equal to
// or newer than b. Unknown on either side compares equal, so callers must not
// rely on ordering for unknown values.
func Compare(a, b string) int {
	return CompareDetailed(a, b).Order
}

// CompareDetailed is Compare that also reports the tier used.
func CompareDetailed(a, b string) Result {
	if a == Unknown || b == Unknown {
		return Result{Order: 0, Strategy: StrategyUnknown}
	}

	// semver.NewVersion accepts partial versions ("12", "12.4"), a "v" prefix,
	// pre-release and build suffixes.
	va, errA := semver.NewVersion(strings.TrimSpace(a))
	vb, errB := semver.NewVersion(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		return Result{Order: va.Compare(vb), Strategy: StrategySemver}
	}

	// Leading zeros and a fourth segment make semver give up on otherwise
	// ordinary release numbers.
	sa, okA := numericSegments(a)
	sb, okB := numericSegments(b)
	if okA && okB {
		return Result{Order: compareSegments(sa, sb), Strategy: StrategyNumeric}
	}

	return Result{Order: fallbackCompare(a, b), Strategy: StrategyFallback}
}

// numericSegments splits a dotted integer version into its parts with
// leading zeros dropped: "22.04" reads as [22 4].
func numericSegments(s string) ([]int, bool) {
	s = strings.TrimSpace(s)
	if !numericDotted.MatchString(s) {
		return nil, false
	}
	parts := strings.Split(strings.TrimLeft(s, "vV"), ".")
	segments := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		segments[i] = n
	}
	return segments, true
}

// compareSegments pads the shorter side with zeros, so "1.2" equals "1.2.0.0".
func compareSegments(a, b []int) int {
	for i := 0; i < max(len(a), len(b)); i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := cmp.Compare(x, y); c != 0 {
			return c
		}
	}
	return 0
}

// fallbackCompare checks case-insensitive equality, then compares the digits
// and first dot of each string as a float. Anything it cannot read is equal.
func fallbackCompare(a, b string) int {
	if strings.EqualFold(a, b) {
		return 0
	}

	na, okA := numericValue(a)
	nb, okB := numericValue(b)
	if !okA || !okB {
		return 0
	}
	return cmp.Compare(na, nb)
}

// numericValue keeps digits and dots, collapses every dot after the first
// one, and parses the rest: "1.2.3" reads as 1.23.
func numericValue(s string) (float64, bool) {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		cleaned = cleaned[:i+1] + strings.ReplaceAll(cleaned[i+1:], ".", "")
	}
	if cleaned == "" || cleaned == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
