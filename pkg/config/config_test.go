package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gh-audit/gh-audit/pkg/finding"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gh-audit.yml")
	src := "persona: pedantic\nmin_severity: medium\noffline: true\nconfidence_floor: high\naudits:\n  disable: [stale-action-refs]\nforbidden_uses:\n  deny: [evil/action]\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, finding.PersonaPedantic, cfg.Persona)
	assert.Equal(t, finding.Medium, cfg.MinSeverity)
	assert.True(t, cfg.Offline)
	assert.Equal(t, finding.ConfidenceHigh, cfg.ConfidenceFloor)
	assert.True(t, cfg.DisabledSet()["stale-action-refs"])

	fu := cfg.ForbiddenUsesConfig()
	require.NotNil(t, fu)
	assert.Equal(t, []string{"evil/action"}, fu.Deny)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gh-audit.yml")
	require.NoError(t, os.WriteFile(path, []byte("persona: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestForbiddenUsesConfigNilWhenUnset(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.ForbiddenUsesConfig())
}

func TestParsePersonaUnknownDefaultsToRegular(t *testing.T) {
	assert.Equal(t, finding.PersonaRegular, parsePersona("nonsense"))
	assert.Equal(t, finding.PersonaAuditor, parsePersona("auditor"))
}

func TestParseConfidenceUnknownDefaultsToLow(t *testing.T) {
	assert.Equal(t, finding.ConfidenceLow, parseConfidence("nonsense"))
	assert.Equal(t, finding.ConfidenceMedium, parseConfidence("medium"))
}
