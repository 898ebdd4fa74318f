package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// runWorkflow drives src through the full offline registry (no network
// audits, no forbidden-uses policy) and returns the resulting findings,
// normalized and suppression-filtered exactly as the CLI would see them.
func runWorkflow(t *testing.T, src string) []finding.Finding {
	t.Helper()
	reg := NewRegistry(nil, nil)
	driver := NewDriver(reg, nil, true, 0)
	results := driver.Run(context.Background(), 1, []Document{{Path: "ci.yml", Source: []byte(src)}})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	return results[0].Findings
}

func findingsByAudit(findings []finding.Finding, auditID string) []finding.Finding {
	var out []finding.Finding
	for _, f := range findings {
		if f.AuditID == auditID {
			out = append(out, f)
		}
	}
	return out
}

// S1 — bot-conditions: a step-level actor comparison is flagged exactly
// once, High confidence.
func TestS1BotConditionsStepLevel(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - if: github.actor == 'dependabot[bot]'\n        run: echo hi\n"
	findings := runWorkflow(t, src)
	got := findingsByAudit(findings, "bot-conditions")
	require.Len(t, got, 1)
	assert.Equal(t, finding.High, got[0].Severity)
	assert.Equal(t, finding.ConfidenceHigh, got[0].Confidence)
}

// S2 — bot-conditions is case-insensitive on the context name.
func TestS2BotConditionsCaseInsensitiveActor(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - if: github.ACTOR == 'dependabot[bot]'\n        run: echo hi\n"
	findings := runWorkflow(t, src)
	got := findingsByAudit(findings, "bot-conditions")
	require.Len(t, got, 1)
	assert.Equal(t, finding.ConfidenceHigh, got[0].Confidence)
}

// S3 — bot-conditions recognizes bracket-form context access.
func TestS3BotConditionsIndexFormActor(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - if: github['actor'] == 'dependabot[bot]'\n        run: echo hi\n"
	findings := runWorkflow(t, src)
	got := findingsByAudit(findings, "bot-conditions")
	require.Len(t, got, 1)
	assert.Equal(t, finding.ConfidenceHigh, got[0].Confidence)
}

// S4 — a dangerous trigger combined with an unpinned action each produce
// their own, independent finding.
func TestS4DangerousTriggerAndUnpinnedUses(t *testing.T) {
	src := "on: pull_request_target\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: readthedocs/actions/preview@v1\n"
	findings := runWorkflow(t, src)

	dangerous := findingsByAudit(findings, "dangerous-triggers")
	require.Len(t, dangerous, 1)
	assert.Equal(t, finding.Medium, dangerous[0].Severity)

	unpinned := findingsByAudit(findings, "unpinned-uses")
	require.Len(t, unpinned, 1)
	assert.Equal(t, finding.High, unpinned[0].Severity)
}

// S5 — use-trusted-publishing fires only when a credential is actually
// supplied against a known trusted-publishing-capable registry.
func TestS5TrustedPublishing(t *testing.T) {
	withPassword := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: pypa/gh-action-pypi-publish@release/v1\n        with:\n          password: ${{ secrets.PYPI_TOKEN }}\n"
	findings := runWorkflow(t, withPassword)
	got := findingsByAudit(findings, "use-trusted-publishing")
	require.Len(t, got, 1)
	assert.Equal(t, finding.High, got[0].Severity)

	noPassword := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: pypa/gh-action-pypi-publish@release/v1\n"
	findings = runWorkflow(t, noPassword)
	assert.Empty(t, findingsByAudit(findings, "use-trusted-publishing"))

	unknownRegistry := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: pypa/gh-action-pypi-publish@release/v1\n        with:\n          password: ${{ secrets.TOKEN }}\n          repository-url: https://example.com/legacy/\n"
	findings = runWorkflow(t, unknownRegistry)
	assert.Empty(t, findingsByAudit(findings, "use-trusted-publishing"))
}

// S6 — an interpolation that statically evaluates to the empty string is
// pure obfuscation.
func TestS6ObfuscationNoOp(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo Windows MSI${{ '' }}\n"
	findings := runWorkflow(t, src)
	got := findingsByAudit(findings, "obfuscation")
	require.Len(t, got, 1)
	assert.Equal(t, finding.High, got[0].Severity)
	assert.Equal(t, finding.ConfidenceHigh, got[0].Confidence)
}

// S7 — a container image's tag drives unpinned-uses' severity: digest-
// pinned is clean, "latest" (explicit or implied) is High, any other
// explicit tag is Medium.
func TestS7ContainerImageTagSeverity(t *testing.T) {
	digest := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    container:\n      image: fake.example.com/example@sha256:" +
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd\n"
	findings := runWorkflow(t, digest)
	assert.Empty(t, findingsByAudit(findings, "unpinned-uses"))

	latest := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    container:\n      image: fake.example.com/example:latest\n"
	findings = runWorkflow(t, latest)
	got := findingsByAudit(findings, "unpinned-uses")
	require.Len(t, got, 1)
	assert.Equal(t, finding.High, got[0].Severity)

	pinnedTag := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    container:\n      image: fake.example.com/example:0.0.348\n"
	findings = runWorkflow(t, pinnedTag)
	got = findingsByAudit(findings, "unpinned-uses")
	require.Len(t, got, 1)
	assert.Equal(t, finding.Medium, got[0].Severity)
}

// A "# zizmor: ignore[...]" comment suppresses a finding on the workflow
// path; driver_test.go's action-path counterpart lives in this same file
// to keep the two documented side by side.
func TestSuppressionCommentIgnoresWorkflowFinding(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: readthedocs/actions/preview@v1 # zizmor: ignore[unpinned-uses]\n"
	findings := runWorkflow(t, src)
	got := findingsByAudit(findings, "unpinned-uses")
	require.Len(t, got, 1)
	assert.True(t, got[0].Ignored)
}

// fakeActionAudit reports a single, fixed finding from OnAction, so the
// suppression test below doesn't depend on any built-in audit actually
// reaching into composite-action steps.
type fakeActionAudit struct{ Base }

func (a *fakeActionAudit) OnAction(ctx context.Context, act *model.Action, sink finding.Sink) {
	sink.Report(finding.Medium, finding.ConfidenceHigh, "fake finding", act.Runs.Feature.Span, nil)
}

// A reusable workflow's `inputs.*` is only ever reported at Low
// confidence, and never promoted to the High-confidence path that fires
// for triggers a human directly supplies (like workflow_dispatch).
func TestWorkflowCallInputsAreLowConfidenceNotHigh(t *testing.T) {
	src := "on:\n  workflow_call:\n    inputs:\n      target:\n        type: string\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo ${{ inputs.target }}\n"
	findings := runWorkflow(t, src)
	got := findingsByAudit(findings, "template-injection")
	require.Len(t, got, 1)
	assert.Equal(t, finding.Medium, got[0].Severity)
	assert.Equal(t, finding.ConfidenceLow, got[0].Confidence)
}

// analyzeAction must apply suppression comments the same way the workflow
// path does: a finding anchored to an action.yml node still honors a
// trailing "zizmor: ignore[...]" comment on that node.
func TestSuppressionCommentIgnoresActionFinding(t *testing.T) {
	reg := &Registry{}
	reg.Register(&fakeActionAudit{Base: NewBase("fake-action-audit", finding.Medium, false, finding.PersonaRegular)})
	driver := NewDriver(reg, nil, true, 0)

	src := "runs: # zizmor: ignore[fake-action-audit]\n  using: composite\n  steps:\n    - uses: actions/checkout@v4\n"
	results := driver.Run(context.Background(), 1, []Document{{Path: "action.yml", Source: []byte(src), IsAction: true}})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	got := findingsByAudit(results[0].Findings, "fake-action-audit")
	require.Len(t, got, 1)
	assert.True(t, got[0].Ignored)
}
