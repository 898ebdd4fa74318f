package model

import (
	"github.com/gh-audit/gh-audit/pkg/cst"
	"github.com/gh-audit/gh-audit/pkg/expr"
)

// ExprField is a field whose value is a GitHub Actions expression, such as
// `if:`. Raw is kept even when parsing fails, since an audit scanning for
// literal substrings (template-injection sinks) still wants the text.
type ExprField struct {
	Raw     string
	Parsed  expr.Expr
	ParseOK bool
	Feature Feature
}

func decodeExprField(f cst.Feature) ExprField {
	ef := ExprField{Feature: featureOf(f)}
	if f.Missing {
		return ef
	}
	raw, ok := f.Value()
	if !ok {
		return ef
	}
	ef.Raw = raw
	body, isInterp := stripInterpolation(raw)
	if !isInterp {
		// A bare `if:` value without "${{ }}" is still a GitHub Actions
		// expression body (the implicit-expression-syntax shorthand for
		// `if:`); parse it the same way.
		body = raw
	}
	if e, err := expr.Parse(body); err == nil {
		ef.Parsed = e
		ef.ParseOK = true
	}
	return ef
}

// stripInterpolation removes a single "${{ ... }}" wrapper if the whole
// string is exactly one interpolation, reporting whether it found one.
func stripInterpolation(s string) (body string, ok bool) {
	trimmed := trimSpace(s)
	if len(trimmed) >= 6 && trimmed[:3] == "${{" && trimmed[len(trimmed)-2:] == "}}" {
		return trimSpace(trimmed[3 : len(trimmed)-2]), true
	}
	return s, false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

// UsesField carries both the parsed ActionRef and the field location, or
// the parse error if `uses:` couldn't be understood.
type UsesField struct {
	Ref     ActionRef
	Err     error
	Feature Feature
}

func decodeUses(f cst.Feature) UsesField {
	uf := UsesField{Feature: featureOf(f)}
	if f.Missing {
		return uf
	}
	raw, ok := f.Value()
	if !ok {
		return uf
	}
	ref, err := ParseActionRef(raw)
	uf.Ref, uf.Err = ref, err
	return uf
}

// Step is one entry of a job's `steps:` sequence. A step is either a
// "uses" step (it runs an action) or a "run" step (it runs a shell
// command); per spec.md's invariant, never both.
type Step struct {
	Index            int
	Name             Feature
	ID               Feature
	If               ExprField
	Uses             *UsesField
	With             Value
	Run              Feature
	Shell            Feature
	Env              Value
	WorkingDirectory Feature

	Feature Feature
}

// IsUses reports whether this step runs an action.
func (s Step) IsUses() bool { return s.Uses != nil }

func decodeStep(doc *cst.Document, path cst.Path, n cst.Node, index int) Step {
	s := Step{Index: index, Feature: featureOf(doc.FeatureAt(path))}

	s.Name = featureOf(doc.FeatureAt(child(path, "name")))
	s.ID = featureOf(doc.FeatureAt(child(path, "id")))
	s.If = decodeExprField(doc.FeatureAt(child(path, "if")))
	s.Run = featureOf(doc.FeatureAt(child(path, "run")))
	s.Shell = featureOf(doc.FeatureAt(child(path, "shell")))
	s.WorkingDirectory = featureOf(doc.FeatureAt(child(path, "working-directory")))

	if usesF := doc.FeatureAt(child(path, "uses")); !usesF.Missing {
		uf := decodeUses(usesF)
		s.Uses = &uf
	}

	if withNode, ok := n.Get("with"); ok {
		s.With = valueOf(doc, child(path, "with"), withNode)
	}
	if envNode, ok := n.Get("env"); ok {
		s.Env = valueOf(doc, child(path, "env"), envNode)
	}

	return s
}

func child(path cst.Path, key string) cst.Path {
	return append(append(cst.Path{}, path...), cst.Key(key))
}
