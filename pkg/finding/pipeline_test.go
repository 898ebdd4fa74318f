package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gh-audit/gh-audit/pkg/cst"
	"github.com/gh-audit/gh-audit/pkg/span"
)

func mkSpan(path string, start, end int) span.Span {
	return span.Span{Path: path, Start: start, End: end, StartLine: 1, EndLine: 1}
}

func TestNormalizeDedupKeepsHigherConfidence(t *testing.T) {
	sp := mkSpan("a.yml", 10, 20)
	findings := []Finding{
		{AuditID: "unpinned-uses", PrimarySpan: sp, Confidence: ConfidenceLow, Title: "first"},
		{AuditID: "unpinned-uses", PrimarySpan: sp, Confidence: ConfidenceHigh, Title: "second"},
	}
	out := Normalize(findings)
	require.Len(t, out, 1)
	assert.Equal(t, "second", out[0].Title)
	assert.Equal(t, ConfidenceHigh, out[0].Confidence)
}

func TestNormalizeDedupTieKeepsFirst(t *testing.T) {
	sp := mkSpan("a.yml", 10, 20)
	findings := []Finding{
		{AuditID: "unpinned-uses", PrimarySpan: sp, Confidence: ConfidenceMedium, Title: "first"},
		{AuditID: "unpinned-uses", PrimarySpan: sp, Confidence: ConfidenceMedium, Title: "second"},
	}
	out := Normalize(findings)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Title)
}

func TestNormalizeSortOrder(t *testing.T) {
	findings := []Finding{
		{AuditID: "z-audit", PrimarySpan: mkSpan("b.yml", 5, 6)},
		{AuditID: "a-audit", PrimarySpan: mkSpan("a.yml", 100, 101)},
		{AuditID: "b-audit", PrimarySpan: mkSpan("a.yml", 1, 2)},
	}
	out := Normalize(findings)
	require.Len(t, out, 3)
	assert.Equal(t, "b-audit", out[0].AuditID)
	assert.Equal(t, "a.yml", out[0].PrimarySpan.Path)
	assert.Equal(t, "a-audit", out[1].AuditID)
	assert.Equal(t, "z-audit", out[2].AuditID)
}

func TestApplySuppressionsMarksIgnored(t *testing.T) {
	src := []byte("on: push\njobs:\n  build:\n    runs-on: ubuntu-latest  # zizmor: ignore[unpinned-uses]\n    steps:\n      - uses: actions/checkout@v4\n")
	doc, perr := cst.Load(1, "ci.yml", src)
	require.Nil(t, perr)

	stepFeature := doc.FeatureAt(cst.Path{cst.Key("jobs"), cst.Key("build"), cst.Key("runs-on")})
	findings := []Finding{
		{AuditID: "unpinned-uses", PrimarySpan: stepFeature.Span},
		{AuditID: "other-audit", PrimarySpan: stepFeature.Span},
	}
	out := ApplySuppressions(doc, findings)
	require.Len(t, out, 2)
	assert.True(t, out[0].Ignored)
	assert.False(t, out[1].Ignored)
}

func TestApplySuppressionsIdempotence(t *testing.T) {
	suppressed := []byte("on: push\njobs:\n  build:\n    runs-on: ubuntu-latest  # zizmor: ignore[unpinned-uses]\n")
	unsuppressed := []byte("on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n")

	for _, tc := range []struct {
		src      []byte
		expected bool
	}{
		{suppressed, true},
		{unsuppressed, false},
	} {
		doc, perr := cst.Load(1, "ci.yml", tc.src)
		require.Nil(t, perr)
		f := doc.FeatureAt(cst.Path{cst.Key("jobs"), cst.Key("build"), cst.Key("runs-on")})
		out := ApplySuppressions(doc, []Finding{{AuditID: "unpinned-uses", PrimarySpan: f.Span}})
		assert.Equal(t, tc.expected, out[0].Ignored)
	}
}

func TestParseSuppressionCommentWhitespace(t *testing.T) {
	ids, ok := parseSuppressionComment("zizmor: ignore[ foo , bar ]")
	require.True(t, ok)
	assert.True(t, ids["foo"])
	assert.True(t, ids["bar"])
}

func TestParseSuppressionCommentRequiresClosingBracket(t *testing.T) {
	_, ok := parseSuppressionComment("zizmor: ignore[foo")
	assert.False(t, ok)
}

func TestExitCode(t *testing.T) {
	findings := []Finding{
		{Severity: Low},
		{Severity: High, Ignored: true},
	}
	assert.Equal(t, 0, ExitCode(findings, Medium))

	findings[1].Ignored = false
	assert.Equal(t, 1, ExitCode(findings, Medium))
}
