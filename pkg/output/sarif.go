package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/sambabib/eol-checker/pkg/analyzer"
	"github.com/sambabib/eol-checker/pkg/eol"
)

// SARIF format specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	RuleEOL            = "eol"
	RuleEOLApproaching = "eol-approaching"
	RuleEOLUnknown     = "eol-unknown"
)

type SarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

type SarifRun struct {
	Tool        SarifTool         `json:"tool"`
	Results     []SarifResult     `json:"results"`
	Invocations []SarifInvocation `json:"invocations"`
}

type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

type SarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SarifRule `json:"rules"`
}

type SarifRule struct {
	ID               string            `json:"id"`
	ShortDescription SarifMessage      `json:"shortDescription"`
	FullDescription  SarifMessage      `json:"fullDescription"`
	Help             SarifMessage      `json:"help"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type SarifResult struct {
	RuleID     string            `json:"ruleId"`
	Level      string            `json:"level"`
	Message    SarifMessage      `json:"message"`
	Locations  []SarifLocation   `json:"locations"`
	Properties map[string]string `json:"properties,omitempty"`
}

type SarifMessage struct {
	Text string `json:"text"`
}

type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
}

type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

type SarifInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	EndTimeUtc          string `json:"endTimeUtc"`
}

var sarifRules = []SarifRule{
	{
		ID:               RuleEOL,
		ShortDescription: SarifMessage{Text: "Tool version is end-of-life"},
		FullDescription:  SarifMessage{Text: "The release cycle of this tool version no longer receives support or security fixes."},
		Help:             SarifMessage{Text: "Upgrade to a supported release cycle."},
		Properties:       map[string]string{"security-severity": "7.0"},
	},
	{
		ID:               RuleEOLApproaching,
		ShortDescription: SarifMessage{Text: "Tool version approaching end-of-life"},
		FullDescription:  SarifMessage{Text: "The release cycle of this tool version reaches end-of-life soon."},
		Help:             SarifMessage{Text: "Plan an upgrade before the EOL date."},
	},
	{
		ID:               RuleEOLUnknown,
		ShortDescription: SarifMessage{Text: "Tool EOL status unknown"},
		FullDescription:  SarifMessage{Text: "No lifecycle data could be determined for this tool version."},
		Help:             SarifMessage{Text: "Verify the tool name and version or check the vendor lifecycle manually."},
	},
}

func sarifRuleFor(r analyzer.CheckResult) (string, string) {
	switch {
	case r.Status == eol.StatusEOL:
		return RuleEOL, "error"
	case r.Status == eol.StatusUnknown:
		return RuleEOLUnknown, "note"
	case r.Criticality == analyzer.CriticalityHigh:
		return RuleEOLApproaching, "error"
	default:
		return RuleEOLApproaching, "warning"
	}
}

// GenerateSarifReport emits a SARIF log with one result per high or medium
// criticality tool, located at the input inventory file.
func GenerateSarifReport(results []analyzer.CheckResult, inputPath, toolVersion string, now time.Time) ([]byte, error) {
	flagged := lo.Filter(results, func(r analyzer.CheckResult, _ int) bool {
		return r.Criticality == analyzer.CriticalityHigh || r.Criticality == analyzer.CriticalityMedium
	})

	sarifResults := lo.Map(flagged, func(r analyzer.CheckResult, _ int) SarifResult {
		ruleID, level := sarifRuleFor(r)
		return SarifResult{
			RuleID: ruleID,
			Level:  level,
			Message: SarifMessage{Text: fmt.Sprintf("%s %s: status %s, EOL date %s, latest version %s",
				r.ToolName, r.CurrentVersion, r.Status, r.EOLDate, r.LatestVersion)},
			Locations: []SarifLocation{{
				PhysicalLocation: SarifPhysicalLocation{
					ArtifactLocation: SarifArtifactLocation{URI: inputPath},
				},
			}},
			Properties: map[string]string{
				"criticality":    string(r.Criticality),
				"days_until_eol": r.DaysString(),
			},
		}
	})

	report := SarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []SarifRun{{
			Tool: SarifTool{Driver: SarifDriver{
				Name:           "EOL Checker",
				Version:        toolVersion,
				InformationURI: "https://github.com/sambabib/eol-checker",
				Rules:          sarifRules,
			}},
			Results: sarifResults,
			Invocations: []SarifInvocation{{
				ExecutionSuccessful: true,
				EndTimeUtc:          now.UTC().Format(time.RFC3339),
			}},
		}},
	}

	return json.MarshalIndent(report, "", "  ")
}
