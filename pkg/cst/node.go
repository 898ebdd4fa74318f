package cst

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gh-audit/gh-audit/pkg/span"
)

// Kind mirrors the subset of yaml.v3 node kinds the analyzer cares about.
type Kind int

const (
	InvalidNode Kind = iota
	DocumentNode
	MappingNode
	SequenceNode
	ScalarNode
	AliasNode
)

func kindOf(n *yaml.Node) Kind {
	switch n.Kind {
	case yaml.DocumentNode:
		return DocumentNode
	case yaml.MappingNode:
		return MappingNode
	case yaml.SequenceNode:
		return SequenceNode
	case yaml.ScalarNode:
		return ScalarNode
	case yaml.AliasNode:
		return AliasNode
	default:
		return InvalidNode
	}
}

// cstNode is the internal CST representation: a yaml.Node plus its
// pre-computed spans and parsed children, so repeated Feature lookups
// never re-walk the tree from scratch.
type cstNode struct {
	yaml *yaml.Node
	kind Kind

	fullSpan  span.Span // the whole node, including quotes/indicators
	valueSpan span.Span // for scalars: the literal value, quotes/indentation excluded

	// For MappingNode: parallel key/value children, document order.
	keys   []*cstNode
	values []*cstNode

	// For SequenceNode: ordered elements.
	elems []*cstNode

	parent *cstNode
}

// Node is the public, read-only view of a cstNode handed to audits that
// need to scan raw CST structure (e.g. the suppression-comment scanner,
// or iter()).
type Node struct {
	c   *cstNode
	doc *Document
}

// Kind returns the node's structural kind. The zero Node has kind
// InvalidNode.
func (n Node) Kind() Kind {
	if n.c == nil {
		return InvalidNode
	}
	return n.c.kind
}

// Value returns the scalar's decoded value, or "" for non-scalars.
func (n Node) Value() string {
	if n.c == nil || n.c.kind != ScalarNode {
		return ""
	}
	return n.c.yaml.Value
}

// Span returns the node's full span.
func (n Node) Span() span.Span {
	if n.c == nil {
		return span.Span{}
	}
	return n.c.fullSpan
}

// ValueSpan returns the literal value span for a scalar node (quotes and
// surrounding indentation excluded); for non-scalars it equals Span().
func (n Node) ValueSpan() span.Span {
	if n.c == nil {
		return span.Span{}
	}
	if n.c.kind == ScalarNode {
		return n.c.valueSpan
	}
	return n.c.fullSpan
}

// Comments returns the head, line, and foot comment text attached to this
// node by yaml.v3, each with its leading "#" and whitespace trimmed.
func (n Node) Comments() (head, line, foot string) {
	if n.c == nil {
		return "", "", ""
	}
	y := n.c.yaml
	return trimComment(y.HeadComment), trimComment(y.LineComment), trimComment(y.FootComment)
}

func trimComment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	return strings.TrimSpace(s)
}

// MappingPairs returns the key/value child nodes of a mapping, in document
// order. Returns nil for non-mappings.
func (n Node) MappingPairs() []Pair {
	if n.c == nil || n.c.kind != MappingNode {
		return nil
	}
	pairs := make([]Pair, len(n.c.keys))
	for i := range n.c.keys {
		pairs[i] = Pair{
			Key:   Node{c: n.c.keys[i], doc: n.doc},
			Value: Node{c: n.c.values[i], doc: n.doc},
		}
	}
	return pairs
}

// Pair is one key/value entry of a mapping.
type Pair struct {
	Key   Node
	Value Node
}

// Elements returns the child nodes of a sequence, in document order.
// Returns nil for non-sequences.
func (n Node) Elements() []Node {
	if n.c == nil || n.c.kind != SequenceNode {
		return nil
	}
	out := make([]Node, len(n.c.elems))
	for i, e := range n.c.elems {
		out[i] = Node{c: e, doc: n.doc}
	}
	return out
}

// Get looks up a mapping child by key, case-sensitively (GitHub Actions
// workflow keys are written lower-case by convention; case-insensitive
// matching is only a property of expression context names, handled by
// pkg/expr).
func (n Node) Get(key string) (Node, bool) {
	if n.c == nil || n.c.kind != MappingNode {
		return Node{}, false
	}
	for i, k := range n.c.keys {
		if k.yaml.Value == key {
			return Node{c: n.c.values[i], doc: n.doc}, true
		}
	}
	return Node{}, false
}

// IsZero reports whether this Node points at nothing.
func (n Node) IsZero() bool { return n.c == nil }
