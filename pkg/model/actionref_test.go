package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionRefRepo(t *testing.T) {
	ar, err := ParseActionRef("actions/checkout@v4")
	require.NoError(t, err)
	assert.Equal(t, RefRepo, ar.Kind)
	assert.Equal(t, "actions", ar.Owner)
	assert.Equal(t, "checkout", ar.Repo)
	assert.Equal(t, "v4", ar.Ref)
	assert.Empty(t, ar.Subpath)
	assert.False(t, ar.IsSHA())
}

func TestParseActionRefRepoWithSubpath(t *testing.T) {
	ar, err := ParseActionRef("github/codeql-action/init@8a470fddafa5cbe3eab4c0cf5c3f53a1b1fa8bb5")
	require.NoError(t, err)
	assert.Equal(t, "github", ar.Owner)
	assert.Equal(t, "codeql-action", ar.Repo)
	assert.Equal(t, "init", ar.Subpath)
	assert.True(t, ar.IsSHA())
}

func TestParseActionRefDocker(t *testing.T) {
	ar, err := ParseActionRef("docker://alpine:3.18")
	require.NoError(t, err)
	assert.Equal(t, RefDocker, ar.Kind)
	assert.Equal(t, "alpine:3.18", ar.Image)
}

func TestParseActionRefLocal(t *testing.T) {
	ar, err := ParseActionRef("./.github/actions/build")
	require.NoError(t, err)
	assert.Equal(t, RefLocal, ar.Kind)
	assert.Equal(t, "./.github/actions/build", ar.Path)
}

func TestParseActionRefMalformed(t *testing.T) {
	cases := []string{"", "actions/checkout", "actions/checkout@", "justaname@v1"}
	for _, c := range cases {
		_, err := ParseActionRef(c)
		require.Errorf(t, err, "expected error for %q", c)
		var malformed *MalformedUsesError
		require.ErrorAsf(t, err, &malformed, "expected MalformedUsesError for %q", c)
	}
}

func TestActionRefStringRoundTrip(t *testing.T) {
	cases := []string{
		"actions/checkout@v4",
		"github/codeql-action/init@v3",
		"docker://alpine:3.18",
		"./.github/actions/build",
	}
	for _, c := range cases {
		ar, err := ParseActionRef(c)
		require.NoError(t, err)
		assert.Equal(t, c, ar.String())
	}
}
