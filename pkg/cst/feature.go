package cst

import (
	"strconv"

	"github.com/gh-audit/gh-audit/pkg/span"
)

// SelectorKind distinguishes the two ways a Feature path can step into a
// CST node: by mapping key, or by sequence index.
type SelectorKind int

const (
	// SelectKey steps into a mapping child by its string key.
	SelectKey SelectorKind = iota
	// SelectIndex steps into a sequence child by its 0-based index.
	SelectIndex
)

// Selector is one segment of a Feature path.
type Selector struct {
	Kind SelectorKind
	Key  string
	Idx  int
}

// Key builds a by-key selector.
func Key(name string) Selector { return Selector{Kind: SelectKey, Key: name} }

// Index builds a by-index selector.
func Index(i int) Selector { return Selector{Kind: SelectIndex, Idx: i} }

func (s Selector) String() string {
	if s.Kind == SelectKey {
		return "." + s.Key
	}
	return "[" + strconv.Itoa(s.Idx) + "]"
}

// Path is a sequence of selectors from the document root to a node.
type Path []Selector

func (p Path) String() string {
	out := ""
	for _, s := range p {
		out += s.String()
	}
	return out
}

// Feature is a handle into the CST: the path used to reach it, its span,
// and (for mapping entries) the separate span of its key token.
//
// A Feature produced for a mapping entry carries two useful spans: KeySpan
// covers the key token ("this field"), Span covers the value ("this
// value"). Features for sequence elements and the root only set Span.
// A Feature for a path with no corresponding node in the document is
// Missing, and Span is the nearest existing ancestor's span — the place
// an insertion would go.
type Feature struct {
	Path    Path
	Span    span.Span
	KeySpan span.Span
	Missing bool

	node *cstNode
	doc  *Document
}

// Node returns the underlying CST node this Feature points at. The zero
// Node is returned for a Missing Feature.
func (f Feature) Node() Node {
	if f.Missing || f.node == nil {
		return Node{}
	}
	return Node{c: f.node, doc: f.doc}
}

// IsScalar reports whether the Feature resolves to a YAML scalar.
func (f Feature) IsScalar() bool {
	return !f.Missing && f.node != nil && f.node.kind == ScalarNode
}

// Value returns the decoded scalar string for a scalar Feature; ok is
// false for anything else, including Missing.
func (f Feature) Value() (string, bool) {
	if !f.IsScalar() {
		return "", false
	}
	return f.node.yaml.Value, true
}
