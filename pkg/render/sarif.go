package render

import (
	"encoding/json"
	"sort"

	"github.com/gh-audit/gh-audit/pkg/finding"
)

// No SARIF-producing library appears anywhere in the example corpus;
// encoding/json against the handful of SARIF 2.1.0 structs below is the
// whole of what's needed, so there's nothing an ecosystem dependency
// would buy here.

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

func sarifLevel(sev finding.Severity) string {
	switch sev {
	case finding.Critical:
		return "error"
	case finding.High, finding.Medium:
		return "warning"
	default:
		return "note"
	}
}

// SARIF renders findings as a single-run SARIF 2.1.0 log, suitable for
// GitHub code scanning upload. Ignored findings are omitted, as ExitCode
// leaves them out; the JSON renderer keeps them with their ignored flag.
func SARIF(findings []finding.Finding, toolName string) ([]byte, error) {
	ruleSet := map[string]bool{}
	var results []sarifResult

	for _, f := range findings {
		if f.Ignored {
			continue
		}
		ruleSet[f.AuditID] = true
		results = append(results, sarifResult{
			RuleID:  f.AuditID,
			Level:   sarifLevel(f.Severity),
			Message: sarifMessage{Text: f.Title},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.PrimarySpan.Path},
					Region: sarifRegion{
						StartLine:   f.PrimarySpan.StartLine,
						StartColumn: f.PrimarySpan.StartCol,
						EndLine:     f.PrimarySpan.EndLine,
						EndColumn:   f.PrimarySpan.EndCol,
					},
				},
			}},
		})
	}

	rules := make([]sarifRule, 0, len(ruleSet))
	for id := range ruleSet {
		rules = append(rules, sarifRule{ID: id})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: toolName, Rules: rules}},
			Results: results,
		}},
	}
	return json.MarshalIndent(log, "", "  ")
}
