package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrecedence(t *testing.T) {
	e, err := Parse("1 + 2 * 3 == 7 && !false || github.actor == 'foo'")
	require.NoError(t, err)

	or, ok := e.(Binary)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)

	and, ok := or.Left.(Binary)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Op)

	eq, ok := and.Left.(Binary)
	require.True(t, ok)
	assert.Equal(t, "==", eq.Op)

	sum, ok := eq.Left.(Binary)
	require.True(t, ok)
	assert.Equal(t, "+", sum.Op)
	mul, ok := sum.Right.(Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestBracketEquivalentToDot(t *testing.T) {
	dot, err := Parse("github.event.issue.number")
	require.NoError(t, err)
	bracket, err := Parse("github['event']['issue']['number']")
	require.NoError(t, err)

	assert.Equal(t, dot, bracket)
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"github.actor",
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"toJSON(github.event)",
		"contains(fromJSON(needs.plan.outputs.matrix), 'x')",
		"!success()",
		"github.actor_id == 49699333",
		"github.actor_id == '49699333'",
		"a == b && c != d || e",
	}
	for _, src := range cases {
		e1, err := Parse(src)
		require.NoErrorf(t, err, "parsing %q", src)
		printed := Print(e1)
		e2, err := Parse(printed)
		require.NoErrorf(t, err, "re-parsing printed form %q of %q", printed, src)
		assert.Equalf(t, e1, e2, "round trip mismatch for %q (printed %q)", src, printed)
	}
}

func TestContextsAndCalls(t *testing.T) {
	e, err := Parse("contains(github.event.pull_request.title, 'safe') && toJSON(inputs)")
	require.NoError(t, err)

	ctxs := Contexts(e)
	assert.True(t, ctxs["github.event.pull_request.title"])
	assert.True(t, ctxs["inputs"])

	calls := Calls(e, "ToJSON")
	require.Len(t, calls, 1)
	assert.Equal(t, "toJSON", calls[0].Name)
}

func TestIsStatic(t *testing.T) {
	static, err := Parse("1 + 2 == 3")
	require.NoError(t, err)
	assert.True(t, IsStatic(static))

	dynamic, err := Parse("github.actor == 'foo'")
	require.NoError(t, err)
	assert.False(t, IsStatic(dynamic))

	nondet, err := Parse("success()")
	require.NoError(t, err)
	assert.False(t, IsStatic(nondet))
}

func TestEvaluateStaticActorIDSubtlety(t *testing.T) {
	e1, err := Parse("49699333 == '49699333'")
	require.NoError(t, err)
	v1, ok := EvaluateStatic(e1)
	require.True(t, ok)
	assert.True(t, v1.Bool)

	e2, err := Parse("'FOO' == 'foo'")
	require.NoError(t, err)
	v2, ok := EvaluateStatic(e2)
	require.True(t, ok)
	assert.True(t, v2.Bool)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("github.actor ==")
	require.Error(t, err)

	_, err = Parse("'unterminated")
	require.Error(t, err)

	var exprErr *Error
	_, err = Parse("1 +")
	require.Error(t, err)
	require.ErrorAs(t, err, &exprErr)
}
