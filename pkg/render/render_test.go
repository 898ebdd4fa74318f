package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/span"
)

func sampleFinding(ignored bool) finding.Finding {
	return finding.Finding{
		AuditID:    "unpinned-uses",
		Severity:   finding.High,
		Confidence: finding.ConfidenceHigh,
		Persona:    finding.PersonaRegular,
		Title:      "action is not pinned to a commit SHA",
		PrimarySpan: span.Span{
			Path: "ci.yml", StartLine: 4, StartCol: 7, EndLine: 4, EndCol: 30,
		},
		Ignored: ignored,
	}
}

func TestJSONIncludesPrimaryLocation(t *testing.T) {
	out, err := JSON([]finding.Finding{sampleFinding(false)})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "unpinned-uses", decoded[0]["audit_id"])
	assert.Equal(t, "high", decoded[0]["severity"])
	locs := decoded[0]["locations"].([]any)
	require.Len(t, locs, 1)
	assert.Equal(t, "primary", locs[0].(map[string]any)["role"])
}

func TestSARIFOmitsIgnoredFindings(t *testing.T) {
	out, err := SARIF([]finding.Finding{sampleFinding(false), sampleFinding(true)}, "gh-audit")
	require.NoError(t, err)

	var log sarifLog
	require.NoError(t, json.Unmarshal(out, &log))
	require.Len(t, log.Runs, 1)
	assert.Len(t, log.Runs[0].Results, 1)
	assert.Equal(t, "warning", log.Runs[0].Results[0].Level)
	assert.Equal(t, "gh-audit", log.Runs[0].Tool.Driver.Name)
}

func TestSARIFLevelMapping(t *testing.T) {
	assert.Equal(t, "error", sarifLevel(finding.Critical))
	assert.Equal(t, "warning", sarifLevel(finding.High))
	assert.Equal(t, "warning", sarifLevel(finding.Medium))
	assert.Equal(t, "note", sarifLevel(finding.Low))
	assert.Equal(t, "note", sarifLevel(finding.Informational))
}

func TestHumanSkipsIgnoredAndSummarizes(t *testing.T) {
	src := func(string) []string {
		return []string{"on: push", "jobs:", "  build:", "    uses: owner/repo@v1"}
	}
	out := Human([]finding.Finding{sampleFinding(false), sampleFinding(true)}, src, false)
	assert.Contains(t, out, "high[unpinned-uses]")
	assert.Contains(t, out, "ci.yml:4:7")
	assert.Contains(t, out, "1 high")
	assert.Contains(t, out, "1 suppressed")
}

func TestHumanNoFindings(t *testing.T) {
	out := Human(nil, nil, false)
	assert.Contains(t, out, "no findings")
}
