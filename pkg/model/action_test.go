package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCompositeAction = `
name: My Action
description: Does a thing
inputs:
  who-to-greet:
    description: who to greet
    required: true
    default: World
outputs:
  greeting:
    description: the greeting
runs:
  using: composite
  steps:
    - run: echo "hello ${{ inputs.who-to-greet }}"
      shell: bash
`

const sampleDockerAction = `
name: Docker Action
runs:
  using: docker
  image: Dockerfile
  args:
    - ${{ inputs.who-to-greet }}
`

func TestLoadActionComposite(t *testing.T) {
	a, perr := LoadAction(1, "action.yml", []byte(sampleCompositeAction))
	require.Nil(t, perr)

	name, ok := a.Name.Raw().Value()
	require.True(t, ok)
	assert.Equal(t, "My Action", name)

	assert.Equal(t, RunsComposite, a.Runs.Using)
	require.Len(t, a.Runs.Steps, 1)
	runVal, ok := a.Runs.Steps[0].Run.Raw().Value()
	require.True(t, ok)
	assert.Contains(t, runVal, "inputs.who-to-greet")

	who := a.Inputs.Mapping["who-to-greet"]
	assert.Equal(t, "World", who.Mapping["default"].Str)
}

func TestLoadActionDocker(t *testing.T) {
	a, perr := LoadAction(1, "action.yml", []byte(sampleDockerAction))
	require.Nil(t, perr)

	assert.Equal(t, RunsDocker, a.Runs.Using)
	image, ok := a.Runs.Image.Raw().Value()
	require.True(t, ok)
	assert.Equal(t, "Dockerfile", image)
	require.Equal(t, ValueSequence, a.Runs.Args.Kind)
	require.Len(t, a.Runs.Args.Seq, 1)
}

func TestSchemaMismatchFlagsUnknownTopLevelKey(t *testing.T) {
	raw, err := DecodeRawYAML([]byte("name: My Action\nrunz: {using: composite}\n"))
	require.NoError(t, err)
	assert.Error(t, SchemaMismatch(raw, true))
}

func TestSchemaMismatchAcceptsValidAction(t *testing.T) {
	raw, err := DecodeRawYAML([]byte(sampleCompositeAction))
	require.NoError(t, err)
	assert.NoError(t, SchemaMismatch(raw, true))
}
