package analyzer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iancoleman/orderedmap"
	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/sambabib/eol-checker/pkg/eol"
)

// ToolSpec is one entry of the input inventory.
type ToolSpec struct {
	Name    string
	Version string
	// Extra holds every other input field, in input order. May be nil.
	Extra *orderedmap.OrderedMap
}

// Criticality is the urgency tier of a tool's EOL exposure.
type Criticality string

const (
	CriticalityHigh   Criticality = "high"
	CriticalityMedium Criticality = "medium"
	CriticalityLow    Criticality = "low"
)

// NotAvailable is written in place of days_until_eol when there is no day count.
const NotAvailable = "N/A"

// LastCheckedLayout formats CheckResult.LastChecked and report timestamps.
const LastCheckedLayout = "2006-01-02 15:04:05"

// Result field names, in the order they are written.
const (
	keyToolName       = "tool_name"
	keyCurrentVersion = "current_version"
	keyStatus         = "eol_status"
	keyEOLDate        = "eol_date"
	keyDaysUntilEOL   = "days_until_eol"
	keyLatestVersion  = "latest_version"
	keyCriticality    = "criticality"
	keyLastChecked    = "last_checked"
)

var resultKeys = []string{
	keyToolName, keyCurrentVersion, keyStatus, keyEOLDate,
	keyDaysUntilEOL, keyLatestVersion, keyCriticality, keyLastChecked,
}

// CheckResult is the outcome of checking one tool. It is built once and not
// modified afterwards.
type CheckResult struct {
	ToolName       string
	CurrentVersion string
	Status         eol.Status
	EOLDate        string
	DaysUntilEOL   *int
	LatestVersion  string
	Criticality    Criticality
	LastChecked    string
	// Extra carries input fields that are not result fields. May be nil.
	Extra *orderedmap.OrderedMap
}

// NewCheckResult assembles a result. Input extras never overwrite result fields.
func NewCheckResult(tool ToolSpec, info eol.Info, criticality Criticality, checked string) CheckResult {
	return CheckResult{
		ToolName:       tool.Name,
		CurrentVersion: tool.Version,
		Status:         info.Status,
		EOLDate:        info.EOLDate,
		DaysUntilEOL:   info.DaysUntilEOL,
		LatestVersion:  info.LatestVersion,
		Criticality:    criticality,
		LastChecked:    checked,
		Extra:          passThrough(tool.Extra),
	}
}

func passThrough(extra *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	if extra == nil {
		return nil
	}
	out := orderedmap.New()
	for _, k := range extra.Keys() {
		if lo.Contains(resultKeys, k) {
			continue
		}
		v, _ := extra.Get(k)
		out.Set(k, v)
	}
	if len(out.Keys()) == 0 {
		return nil
	}
	return out
}

// MarshalJSON writes the result fields in a fixed order followed by extras.
func (r CheckResult) MarshalJSON() ([]byte, error) {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	m.Set(keyToolName, r.ToolName)
	m.Set(keyCurrentVersion, r.CurrentVersion)
	m.Set(keyStatus, string(r.Status))
	m.Set(keyEOLDate, r.EOLDate)
	if r.DaysUntilEOL != nil {
		m.Set(keyDaysUntilEOL, *r.DaysUntilEOL)
	} else {
		m.Set(keyDaysUntilEOL, NotAvailable)
	}
	m.Set(keyLatestVersion, r.LatestVersion)
	m.Set(keyCriticality, string(r.Criticality))
	m.Set(keyLastChecked, r.LastChecked)
	if r.Extra != nil {
		for _, k := range r.Extra.Keys() {
			if _, taken := m.Get(k); taken {
				continue
			}
			v, _ := r.Extra.Get(k)
			m.Set(k, v)
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a result written by MarshalJSON, e.g. from a saved report.
func (r *CheckResult) UnmarshalJSON(b []byte) error {
	m := orderedmap.New()
	if err := json.Unmarshal(b, m); err != nil {
		return xerrors.Errorf("invalid check result: %w", err)
	}

	str := func(key, def string) string {
		v, ok := m.Get(key)
		if !ok || v == nil {
			return def
		}
		return Stringify(v)
	}

	*r = CheckResult{
		ToolName:       str(keyToolName, "Unknown"),
		CurrentVersion: str(keyCurrentVersion, "Unknown"),
		Status:         eol.Status(str(keyStatus, string(eol.StatusUnknown))),
		EOLDate:        str(keyEOLDate, "Unknown"),
		LatestVersion:  str(keyLatestVersion, eol.UnknownLatestVersion),
		Criticality:    Criticality(str(keyCriticality, string(CriticalityMedium))),
		LastChecked:    str(keyLastChecked, ""),
	}
	if v, ok := m.Get(keyDaysUntilEOL); ok {
		if f, isNum := v.(float64); isNum {
			days := int(f)
			r.DaysUntilEOL = &days
		}
	}

	extra := orderedmap.New()
	for _, k := range m.Keys() {
		if lo.Contains(resultKeys, k) {
			continue
		}
		v, _ := m.Get(k)
		extra.Set(k, v)
	}
	if len(extra.Keys()) > 0 {
		r.Extra = extra
	}
	return nil
}

// DaysString renders DaysUntilEOL, or N/A when there is none.
func (r CheckResult) DaysString() string {
	if r.DaysUntilEOL == nil {
		return NotAvailable
	}
	return strconv.Itoa(*r.DaysUntilEOL)
}

// Stringify renders a decoded JSON scalar the way it appeared in the input:
// 3.1 stays "3.1", 17 stays "17".
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
