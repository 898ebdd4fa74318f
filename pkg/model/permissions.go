package model

import "github.com/gh-audit/gh-audit/pkg/cst"

// PermissionLevel is one of the three values GitHub Actions accepts for a
// scope under `permissions:`.
type PermissionLevel int

const (
	PermissionNone PermissionLevel = iota
	PermissionRead
	PermissionWrite
)

// allScopes are the token scopes GitHub Actions recognizes under
// `permissions:`. Kept as a slice (not derived from a schema) since the set
// is small and stable; see https://docs.github.com/actions/security-guide/automatic-token-authentication.
var allScopes = []string{
	"actions", "attestations", "checks", "contents", "deployments",
	"discussions", "id-token", "issues", "models", "packages", "pages",
	"pull-requests", "repository-projects", "security-events", "statuses",
}

// PermissionMap is a normalized `permissions:` block: every recognized
// scope mapped to an explicit level, after expanding the `read-all` /
// `write-all` / absent shortcuts spec.md §4.2 requires.
type PermissionMap struct {
	Scopes  map[string]PermissionLevel
	Feature Feature

	// Explicit is true when the workflow wrote out an explicit
	// `permissions:` block (mapping or read-all/write-all/{} ), as opposed
	// to omitting the field entirely and inheriting the repository
	// default, which most audits treat very differently.
	Explicit bool
}

// decodePermissions normalizes a `permissions:` field (or its absence, via
// a Missing Feature) into a PermissionMap.
func decodePermissions(doc *cst.Document, path cst.Path, f cst.Feature) PermissionMap {
	pm := PermissionMap{Scopes: map[string]PermissionLevel{}, Feature: featureOf(f)}
	if f.Missing {
		return pm
	}
	pm.Explicit = true
	n := f.Node()

	switch n.Kind() {
	case cst.ScalarNode:
		switch n.Value() {
		case "read-all":
			setAll(pm.Scopes, PermissionRead)
		case "write-all":
			setAll(pm.Scopes, PermissionWrite)
		}
	case cst.MappingNode:
		for _, pair := range n.MappingPairs() {
			scope := pair.Key.Value()
			switch pair.Value.Value() {
			case "read":
				pm.Scopes[scope] = PermissionRead
			case "write":
				pm.Scopes[scope] = PermissionWrite
			default:
				pm.Scopes[scope] = PermissionNone
			}
		}
	}
	return pm
}

func setAll(scopes map[string]PermissionLevel, level PermissionLevel) {
	for _, s := range allScopes {
		scopes[s] = level
	}
}

// Get returns the effective level for a scope; scopes never mentioned
// default to PermissionNone once the block is Explicit, and to "unknown"
// (also PermissionNone, the safe assumption for audits) when the block is
// absent entirely — callers that care about the absent-vs-none distinction
// should check Explicit first.
func (pm PermissionMap) Get(scope string) PermissionLevel {
	return pm.Scopes[scope]
}
