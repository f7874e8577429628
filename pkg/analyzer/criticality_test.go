package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sambabib/eol-checker/pkg/eol"
)

func intPtr(i int) *int { return &i }

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  eol.Status
		eolDate string
		days    *int
		latest  string
		current string
		want    Criticality
	}{
		{name: "eol is always high", status: eol.StatusEOL, eolDate: eol.AlreadyEOL, latest: "3.0", current: "1.0", want: CriticalityHigh},
		{name: "eol with days is still high", status: eol.StatusEOL, eolDate: "2020-01-01", days: intPtr(400), latest: "3.0", current: "1.0", want: CriticalityHigh},
		{name: "latest release without eol date", status: eol.StatusSupported, eolDate: eol.NotSpecifiedLatest, latest: "3.0", current: "3.0", want: CriticalityLow},
		{name: "not specified sentinel on latest", status: eol.StatusSupported, eolDate: eol.NotSpecified, latest: "3.0", current: "3.0.0", want: CriticalityLow},
		{name: "not specified on older release", status: eol.StatusSupported, eolDate: eol.NotSpecified, latest: "3.0", current: "2.0", want: CriticalityMedium},
		{name: "not specified with unknown latest", status: eol.StatusSupported, eolDate: eol.NotSpecified, latest: "Unknown", current: "2.0", want: CriticalityMedium},
		{name: "zero days", status: eol.StatusSupported, eolDate: "2026-10-16", days: intPtr(0), latest: "3.0", current: "2.0", want: CriticalityHigh},
		{name: "negative days", status: eol.StatusSupported, eolDate: "2026-10-01", days: intPtr(-3), latest: "3.0", current: "2.0", want: CriticalityHigh},
		{name: "25 days", status: eol.StatusSupported, eolDate: "2026-11-09", days: intPtr(25), latest: "3.0", current: "2.0", want: CriticalityHigh},
		{name: "30 days", status: eol.StatusSupported, eolDate: "2026-11-14", days: intPtr(30), latest: "3.0", current: "2.0", want: CriticalityHigh},
		{name: "31 days", status: eol.StatusSupported, eolDate: "2026-11-15", days: intPtr(31), latest: "3.0", current: "2.0", want: CriticalityMedium},
		{name: "60 days", status: eol.StatusSupported, eolDate: "2026-12-14", days: intPtr(60), latest: "3.0", current: "2.0", want: CriticalityMedium},
		{name: "90 days", status: eol.StatusSupported, eolDate: "2027-01-13", days: intPtr(90), latest: "3.0", current: "2.0", want: CriticalityMedium},
		{name: "200 days", status: eol.StatusSupported, eolDate: "2027-05-03", days: intPtr(200), latest: "3.0", current: "2.0", want: CriticalityLow},
		{name: "latest release with far eol", status: eol.StatusSupported, eolDate: "2099-01-01", days: intPtr(26376), latest: "3.0", current: "3.0", want: CriticalityLow},
		{name: "supported with unreadable date", status: eol.StatusSupported, eolDate: "when 6 ships", latest: "5", current: "5", want: CriticalityMedium},
		{name: "unknown status", status: eol.StatusUnknown, eolDate: eol.VersionNotFound, latest: "3.0", current: "2.5", want: CriticalityMedium},
		{name: "unknown newer than latest", status: eol.StatusUnknown, eolDate: eol.VersionNewerThanLatest, latest: "2.0", current: "9.9", want: CriticalityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, tt.eolDate, tt.days, tt.latest, tt.current))
		})
	}
}

func TestClassifyInfo(t *testing.T) {
	info := eol.Info{Status: eol.StatusSupported, EOLDate: "2027-01-01", LatestVersion: "4", DaysUntilEOL: intPtr(60)}
	assert.Equal(t, CriticalityMedium, ClassifyInfo(info, "3"))
}
