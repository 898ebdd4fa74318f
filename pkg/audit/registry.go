package audit

import "github.com/gh-audit/gh-audit/pkg/ghclient"

// Registry is an ordered, named collection of audits. Declaration order is
// the order the driver invokes them in, per spec.md §4.4's "in declared
// order" contract.
type Registry struct {
	audits []Audit
}

// NewRegistry builds a Registry containing every built-in audit in a fixed
// order. client is used by the network-requiring audits and may be nil
// (e.g. when gh has no ambient credentials); those audits then no-op
// regardless of offline mode. forbiddenUses configures the local
// allow/deny audit and may also be nil.
func NewRegistry(client *ghclient.Client, forbiddenUses *ForbiddenUsesConfig) *Registry {
	r := &Registry{}
	r.Register(
		NewUnpinnedUses(),
		NewDangerousTriggers(),
		NewBotConditions(),
		NewTemplateInjection(),
		NewObfuscation(),
		NewUseTrustedPublishing(),
		NewImpostorCommit(client),
		NewRefConfusion(client),
		NewKnownVulnerableActions(client),
		NewStaleActionRefs(client),
		NewForbiddenUses(forbiddenUses),
		NewActionlintDiagnostics(),
	)
	return r
}

// Register appends audits to the registry, preserving call order.
func (r *Registry) Register(audits ...Audit) {
	r.audits = append(r.audits, audits...)
}

// Audits returns the registered audits in declaration order.
func (r *Registry) Audits() []Audit {
	return r.audits
}

// Enabled returns the subset of the registry's audits that should run
// given a set of disabled ids and whether network audits are allowed.
func (r *Registry) Enabled(disabled map[string]bool, offline bool) []Audit {
	var out []Audit
	for _, a := range r.audits {
		if disabled[a.ID()] {
			continue
		}
		if offline && a.RequiresNetwork() {
			continue
		}
		out = append(out, a)
	}
	return out
}
