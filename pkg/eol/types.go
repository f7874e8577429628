package eol

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/xerrors"
)

// Status is the support status derived for a tool version.
type Status string

const (
	StatusEOL       Status = "EOL"
	StatusSupported Status = "Supported"
	StatusUnknown   Status = "Unknown"
)

// Sentinels stored in Info.EOLDate when no concrete date applies.
const (
	NoDataAvailable        = "No data available"
	APINotAvailable        = "API not available"
	CheckFailed            = "Check failed"
	VersionNotFound        = "Version not found"
	VersionNewerThanLatest = "Version not found (current > latest)"
	AlreadyEOL             = "Already EOL"
	NotSpecified           = "Not specified"
	NotSpecifiedLatest     = "Not specified (latest version)"
	UnknownLatestVersion   = "Unknown"
)

// Info is the EOL status resolved for one tool version. DaysUntilEOL is nil
// unless the matched cycle has a parseable EOL date that is not yet past.
type Info struct {
	Status        Status
	EOLDate       string
	LatestVersion string
	DaysUntilEOL  *int
}

// IsNotSpecified reports whether date is one of the "no EOL date" sentinels.
func IsNotSpecified(date string) bool {
	return date == NotSpecified || date == NotSpecifiedLatest
}

// Cycle is one release cycle record from endoflife.date. Only the fields the
// resolver reads are decoded; the remaining fields are ignored.
type Cycle struct {
	Cycle       FlexString `json:"cycle"`
	Latest      FlexBool   `json:"latest"`
	ReleaseDate FlexString `json:"releaseDate"`
	EOL         EOLField   `json:"eol"`
}

// FlexString accepts a JSON string or number. Numbers keep their literal text,
// so a cycle of 3.10 stays "3.10".
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = FlexString(str)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return xerrors.Errorf("expected string or number, got %s", string(b))
		}
		*s = FlexString(n.String())
	}
	return nil
}

// FlexBool accepts true/false or a string; "true" in any case is true.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = FlexBool(t)
	case string:
		*f = FlexBool(strings.EqualFold(strings.TrimSpace(t), "true"))
	default:
		*f = false
	}
	return nil
}

// EOLField is the polymorphic "eol" value: absent, a boolean, or a date string.
type EOLField struct {
	// Set is true when the field holds a truthy value.
	Set bool
	// Flag is true for a boolean true or a boolean-like "true" string.
	Flag bool
	// Date is the raw string for any other non-empty string, "false"
	// included: the catalogue only sends booleans as JSON booleans.
	Date string
}

func (e *EOLField) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*e = EOLField{}
	switch t := v.(type) {
	case bool:
		e.Set, e.Flag = t, t
	case string:
		switch s := strings.TrimSpace(t); {
		case s == "":
		case strings.EqualFold(s, "true"):
			e.Set, e.Flag = true, true
		default:
			e.Set, e.Date = true, t
		}
	case float64:
		// endoflife.date never sends numbers here; treat non-zero as an unreadable date.
		if t != 0 {
			e.Set, e.Date = true, string(bytes.TrimSpace(b))
		}
	}
	return nil
}

// ErrMalformedDataset is returned by ParseDataset when the body is valid JSON
// but not an array of release cycle objects.
var ErrMalformedDataset = xerrors.New("malformed dataset")

// ParseDataset decodes an endoflife.date product response. Invalid JSON is a
// plain decode error; valid JSON of the wrong shape is ErrMalformedDataset.
func ParseDataset(body []byte) ([]Cycle, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, xerrors.Errorf("unable to parse JSON: %w", err)
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, ErrMalformedDataset
	}
	for _, item := range items {
		if _, ok := item.(map[string]interface{}); !ok {
			return nil, ErrMalformedDataset
		}
	}

	var cycles []Cycle
	if err := json.Unmarshal(body, &cycles); err != nil {
		return nil, xerrors.Errorf("%v: %w", err, ErrMalformedDataset)
	}
	return cycles, nil
}

// IsMalformed reports whether err came from a dataset of the wrong shape.
func IsMalformed(err error) bool {
	return xerrors.Is(err, ErrMalformedDataset)
}
