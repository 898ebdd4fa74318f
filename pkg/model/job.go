package model

import "github.com/gh-audit/gh-audit/pkg/cst"

// Job is one entry of a workflow's `jobs:` map. Per spec.md's invariant a
// job is either normal (it has Steps) or reusable (it has Uses), never
// both; IsReusable reports which.
type Job struct {
	ID          string
	Name        Feature
	RunsOn      Feature
	Needs       []string
	If          ExprField
	Permissions PermissionMap
	Env         Value
	Container   Value
	Services    Value
	Steps       []Step

	// Reusable-job-only fields.
	Uses    *UsesField
	With    Value
	Secrets Value

	Feature Feature
}

// IsReusable reports whether this job calls a reusable workflow (`uses:`)
// rather than running its own `steps:`.
func (j Job) IsReusable() bool { return j.Uses != nil }

func decodeJob(doc *cst.Document, path cst.Path, n cst.Node, id string) Job {
	j := Job{ID: id, Feature: featureOf(doc.FeatureAt(path))}

	j.Name = featureOf(doc.FeatureAt(child(path, "name")))
	j.RunsOn = featureOf(doc.FeatureAt(child(path, "runs-on")))
	j.If = decodeExprField(doc.FeatureAt(child(path, "if")))
	j.Permissions = decodePermissions(doc, child(path, "permissions"), doc.FeatureAt(child(path, "permissions")))

	if needsNode, ok := n.Get("needs"); ok {
		j.Needs = decodeStringList(needsNode)
	}
	if envNode, ok := n.Get("env"); ok {
		j.Env = valueOf(doc, child(path, "env"), envNode)
	}
	if containerNode, ok := n.Get("container"); ok {
		j.Container = valueOf(doc, child(path, "container"), containerNode)
	}
	if servicesNode, ok := n.Get("services"); ok {
		j.Services = valueOf(doc, child(path, "services"), servicesNode)
	}

	if usesF := doc.FeatureAt(child(path, "uses")); !usesF.Missing {
		uf := decodeUses(usesF)
		j.Uses = &uf
		if withNode, ok := n.Get("with"); ok {
			j.With = valueOf(doc, child(path, "with"), withNode)
		}
		if secretsNode, ok := n.Get("secrets"); ok {
			j.Secrets = valueOf(doc, child(path, "secrets"), secretsNode)
		}
		return j
	}

	if stepsNode, ok := n.Get("steps"); ok && stepsNode.Kind() == cst.SequenceNode {
		stepsPath := child(path, "steps")
		for i, stepNode := range stepsNode.Elements() {
			j.Steps = append(j.Steps, decodeStep(doc, append(append(cst.Path{}, stepsPath...), cst.Index(i)), stepNode, i))
		}
	}

	return j
}

// decodeStringList reads a field that may be a bare string or a sequence
// of strings, such as `needs:`.
func decodeStringList(n cst.Node) []string {
	switch n.Kind() {
	case cst.ScalarNode:
		return []string{n.Value()}
	case cst.SequenceNode:
		var out []string
		for _, e := range n.Elements() {
			if e.Kind() == cst.ScalarNode {
				out = append(out, e.Value())
			}
		}
		return out
	default:
		return nil
	}
}
