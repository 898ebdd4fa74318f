package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripInterpolation(t *testing.T) {
	body, ok := stripInterpolation("${{ github.actor == 'foo' }}")
	assert.True(t, ok)
	assert.Equal(t, "github.actor == 'foo'", body)

	_, ok = stripInterpolation("github.actor == 'foo'")
	assert.False(t, ok)
}

func TestDecodeExprFieldImplicitSyntax(t *testing.T) {
	w, perr := LoadWorkflow(1, "ci.yml", []byte(
		"on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n        if: github.event_name == 'push'\n"))
	require.Nil(t, perr)

	step := w.Jobs["build"].Steps[0]
	require.True(t, step.If.ParseOK)
	assert.Equal(t, "github.event_name == 'push'", step.If.Raw)
}

func TestDecodeExprFieldWrappedSyntax(t *testing.T) {
	w, perr := LoadWorkflow(1, "ci.yml", []byte(
		"on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n        if: ${{ github.event_name == 'push' }}\n"))
	require.Nil(t, perr)

	step := w.Jobs["build"].Steps[0]
	require.True(t, step.If.ParseOK)
}

func TestDecodeUsesMalformed(t *testing.T) {
	w, perr := LoadWorkflow(1, "ci.yml", []byte(
		"on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - uses: not-a-valid-ref\n"))
	require.Nil(t, perr)

	step := w.Jobs["build"].Steps[0]
	require.True(t, step.IsUses())
	assert.Error(t, step.Uses.Err)
}

func TestJobUsesXorSteps(t *testing.T) {
	w, perr := LoadWorkflow(1, "ci.yml", []byte(
		"on: push\njobs:\n"+
			"  normal:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"+
			"  reusable:\n    uses: ./.github/workflows/other.yml\n"))
	require.Nil(t, perr)

	normal := w.Jobs["normal"]
	assert.False(t, normal.IsReusable())
	assert.Nil(t, normal.Uses)
	assert.NotEmpty(t, normal.Steps)

	reusable := w.Jobs["reusable"]
	assert.True(t, reusable.IsReusable())
	assert.Empty(t, reusable.Steps)
}
