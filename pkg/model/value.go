// Package model maps the cst package's format-preserving tree into a typed
// workflow/action document: Workflow, Job, Step, ActionRef, TriggerSet, and
// the free-form Value union for fields the upstream schema leaves open.
package model

import (
	"github.com/gh-audit/gh-audit/pkg/cst"
	"github.com/gh-audit/gh-audit/pkg/span"
)

// ValueKind discriminates the shape a free-form field was written in.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueBool
	ValueMapping
	ValueSequence
)

// Value is a minimal discriminated union over a scalar/mapping/sequence
// YAML fragment, for fields the model doesn't give a dedicated type (job
// `with:` values, `env:` values, custom `on:` filters). Every Value keeps
// its Feature so audits can still point at exactly where it came from.
type Value struct {
	Kind    ValueKind
	Str     string
	Bool    bool
	Mapping map[string]Value
	Seq     []Value

	Feature Feature
}

// Feature pairs a decoded model field with the CST locations that produced
// it: KeySpan for "this field" diagnostics, Span for "this value"
// diagnostics. A Feature for an absent field has Missing set, per
// cst.Feature's own contract.
type Feature struct {
	Path    cst.Path
	Span    span.Span
	KeySpan span.Span
	Missing bool

	raw cst.Feature
}

func featureOf(f cst.Feature) Feature {
	return Feature{Path: f.Path, Span: f.Span, KeySpan: f.KeySpan, Missing: f.Missing, raw: f}
}

// Raw returns the underlying cst.Feature, for audits that need to re-query
// the CST (e.g. to look up comments or subfeatures).
func (f Feature) Raw() cst.Feature { return f.raw }

// valueOf decodes an arbitrary cst.Node into a Value, recursively.
func valueOf(doc *cst.Document, path cst.Path, n cst.Node) Value {
	f := doc.FeatureAt(path)
	v := Value{Feature: featureOf(f)}
	switch n.Kind() {
	case cst.MappingNode:
		v.Kind = ValueMapping
		v.Mapping = map[string]Value{}
		for _, pair := range n.MappingPairs() {
			key := pair.Key.Value()
			v.Mapping[key] = valueOf(doc, append(append(cst.Path{}, path...), cst.Key(key)), pair.Value)
		}
	case cst.SequenceNode:
		v.Kind = ValueSequence
		for i, e := range n.Elements() {
			v.Seq = append(v.Seq, valueOf(doc, append(append(cst.Path{}, path...), cst.Index(i)), e))
		}
	case cst.ScalarNode:
		s := n.Value()
		v.Str = s
		switch s {
		case "true":
			v.Kind, v.Bool = ValueBool, true
		case "false":
			v.Kind, v.Bool = ValueBool, false
		default:
			v.Kind = ValueString
		}
	default:
		v.Kind = ValueNull
	}
	return v
}

// StringMap decodes a ValueMapping whose entries are all plain strings,
// such as a step's `with:` block before with-specific handling is applied.
// Non-string entries are dropped.
func (v Value) StringMap() map[string]string {
	out := map[string]string{}
	for k, child := range v.Mapping {
		if child.Kind == ValueString {
			out[k] = child.Str
		}
	}
	return out
}
