package audit

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/controllability.yml
var controllabilityYAML []byte

// controllabilityEntry is one row of the trigger → attacker-controllable
// context-prefix table: under trigger Trigger, any context whose dotted
// path starts with one of Prefixes is writable by whoever caused the
// trigger to fire.
type controllabilityEntry struct {
	Trigger  string   `yaml:"trigger"`
	Prefixes []string `yaml:"prefixes"`
}

var controllabilityTable = mustLoadControllability(controllabilityYAML)

func mustLoadControllability(raw []byte) []controllabilityEntry {
	var entries []controllabilityEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		panic("audit: invalid embedded controllability.yml: " + err.Error())
	}
	return entries
}

// IsControllable reports whether contextPath (already lowercased, as
// returned by expr.Contexts) is attacker-controllable under trigger, per
// the static table in data/controllability.yml.
func IsControllable(trigger, contextPath string) bool {
	trigger = strings.ToLower(trigger)
	for _, e := range controllabilityTable {
		if strings.ToLower(e.Trigger) != trigger {
			continue
		}
		for _, p := range e.Prefixes {
			if strings.HasPrefix(contextPath, strings.ToLower(p)) {
				return true
			}
		}
	}
	return false
}

// ControllablePrefixesAnyTrigger reports whether contextPath is
// attacker-controllable under any trigger at all, used when the audit
// doesn't know which trigger fired a given workflow (e.g. a reusable
// workflow's workflow_call.inputs.*, which spec.md's open question says
// to treat conservatively).
func ControllablePrefixesAnyTrigger(contextPath string) bool {
	for _, e := range controllabilityTable {
		for _, p := range e.Prefixes {
			if strings.HasPrefix(contextPath, strings.ToLower(p)) {
				return true
			}
		}
	}
	return false
}
