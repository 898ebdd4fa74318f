package model

import "github.com/gh-audit/gh-audit/pkg/cst"

// Trigger is one entry of a workflow's `on:` set: a name (push,
// pull_request, workflow_dispatch, ...) plus whatever filter mapping was
// given for it (branches, paths, types, inputs, ...), carried as a raw
// Value since the filter shape differs per trigger name.
type Trigger struct {
	Name    string
	Filters Value // ValueMapping, or ValueNull for a bare trigger name
	Feature Feature
}

// TriggerSet is a workflow's normalized `on:` field: a name-keyed set of
// Triggers, regardless of which of the three syntactic forms (bare string,
// sequence of strings, mapping of name to filters) produced it.
type TriggerSet struct {
	Triggers map[string]Trigger
	Feature  Feature
}

// Has reports whether the set contains a trigger with the given name.
func (t TriggerSet) Has(name string) bool {
	_, ok := t.Triggers[name]
	return ok
}

// decodeTriggerSet normalizes the three syntactic forms GitHub Actions
// allows for `on:` into one TriggerSet:
//
//	on: push                     -- bare string
//	on: [push, pull_request]     -- sequence of strings
//	on:
//	  push:
//	    branches: [main]         -- mapping of name to filter mapping
func decodeTriggerSet(doc *cst.Document, path cst.Path, n cst.Node) TriggerSet {
	ts := TriggerSet{Triggers: map[string]Trigger{}, Feature: featureOf(doc.FeatureAt(path))}

	switch n.Kind() {
	case cst.ScalarNode:
		name := n.Value()
		ts.Triggers[name] = Trigger{Name: name, Feature: ts.Feature}
	case cst.SequenceNode:
		for i, e := range n.Elements() {
			if e.Kind() != cst.ScalarNode {
				continue
			}
			name := e.Value()
			ep := append(append(cst.Path{}, path...), cst.Index(i))
			f := featureOf(doc.FeatureAt(ep))
			ts.Triggers[name] = Trigger{Name: name, Feature: f}
		}
	case cst.MappingNode:
		for _, pair := range n.MappingPairs() {
			name := pair.Key.Value()
			fp := append(append(cst.Path{}, path...), cst.Key(name))
			f := featureOf(doc.FeatureAt(fp))
			filters := valueOf(doc, fp, pair.Value)
			ts.Triggers[name] = Trigger{Name: name, Filters: filters, Feature: f}
		}
	}
	return ts
}
