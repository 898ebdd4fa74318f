// Package config loads the YAML configuration file that controls persona,
// severity/confidence floors, audit enable/disable sets, output mode, and
// per-audit rule configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gh-audit/gh-audit/pkg/audit"
	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/logger"
)

var configLog = logger.New("config")

// OutputMode selects how the driver's results are rendered.
type OutputMode string

const (
	OutputPlain OutputMode = "plain"
	OutputRich  OutputMode = "rich"
	OutputJSON  OutputMode = "json"
	OutputSARIF OutputMode = "sarif"
	OutputBoth  OutputMode = "both"
)

// ForbiddenUsesRule is the on-disk shape of the forbidden-uses audit's
// allow/deny configuration.
type ForbiddenUsesRule struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny"`
}

// Config is the fully decoded configuration, independent of how it was
// sourced (file, flags, or defaults).
type Config struct {
	Persona         finding.Persona  `yaml:"-"`
	PersonaName     string           `yaml:"persona"`
	MinSeverity     finding.Severity `yaml:"-"`
	MinSeverityName string           `yaml:"min_severity"`
	Offline         bool             `yaml:"offline"`
	Audits          struct {
		Enable  []string `yaml:"enable"`
		Disable []string `yaml:"disable"`
	} `yaml:"audits"`
	OutputMode          OutputMode         `yaml:"output_mode"`
	ConfidenceFloor     finding.Confidence `yaml:"-"`
	ConfidenceFloorName string             `yaml:"confidence_floor"`
	ForbiddenUses       *ForbiddenUsesRule `yaml:"forbidden_uses"`
	NetworkTimeoutSecs  int                `yaml:"network_timeout_seconds"`
}

// Default returns a Config with the spec's baseline defaults: Regular
// persona, High minimum severity, online, every built-in audit enabled,
// Rich output, Low confidence floor.
func Default() Config {
	return Config{
		Persona:            finding.PersonaRegular,
		MinSeverity:        finding.High,
		OutputMode:         OutputRich,
		ConfidenceFloor:    finding.ConfidenceLow,
		NetworkTimeoutSecs: 10,
	}
}

// Load reads and decodes a YAML configuration file at path, layering it
// over Default(). A missing file is not an error: Default() is returned
// unchanged, since a config file is optional.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			configLog.Printf("no config file at %s, using defaults", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.PersonaName != "" {
		cfg.Persona = parsePersona(cfg.PersonaName)
	}
	if cfg.MinSeverityName != "" {
		cfg.MinSeverity = finding.ParseSeverity(cfg.MinSeverityName)
	}
	if cfg.ConfidenceFloorName != "" {
		cfg.ConfidenceFloor = parseConfidence(cfg.ConfidenceFloorName)
	}
	if cfg.OutputMode == "" {
		cfg.OutputMode = OutputRich
	}
	if cfg.NetworkTimeoutSecs <= 0 {
		cfg.NetworkTimeoutSecs = 10
	}

	configLog.Printf("loaded config from %s: persona=%s min_severity=%s offline=%v", path, cfg.Persona, cfg.MinSeverity, cfg.Offline)
	return cfg, nil
}

// DisabledSet returns Audits.Disable as a lookup set, suitable for
// audit.Registry.Enabled.
func (c Config) DisabledSet() map[string]bool {
	out := make(map[string]bool, len(c.Audits.Disable))
	for _, id := range c.Audits.Disable {
		out[id] = true
	}
	return out
}

// ForbiddenUsesConfig converts the on-disk rule into the shape
// pkg/audit.NewForbiddenUses expects.
func (c Config) ForbiddenUsesConfig() *audit.ForbiddenUsesConfig {
	if c.ForbiddenUses == nil {
		return nil
	}
	return &audit.ForbiddenUsesConfig{Allow: c.ForbiddenUses.Allow, Deny: c.ForbiddenUses.Deny}
}

func parsePersona(s string) finding.Persona {
	switch s {
	case "auditor":
		return finding.PersonaAuditor
	case "pedantic":
		return finding.PersonaPedantic
	default:
		return finding.PersonaRegular
	}
}

func parseConfidence(s string) finding.Confidence {
	switch s {
	case "medium":
		return finding.ConfidenceMedium
	case "high":
		return finding.ConfidenceHigh
	default:
		return finding.ConfidenceLow
	}
}
