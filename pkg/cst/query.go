package cst

import (
	"strings"

	"github.com/gh-audit/gh-audit/pkg/span"
)

// FeatureAt resolves a Path against the document, returning a Feature that
// carries the resolved node's span, or (if the path doesn't exist in this
// document) a Missing Feature whose Span is the nearest ancestor that does
// exist — the location a diagnostic should point at when the field itself
// is simply absent.
func (d *Document) FeatureAt(path Path) Feature {
	if d.root == nil {
		return Feature{Path: path, Missing: true}
	}

	cur := d.root
	var curKeySpan span.Span
	for _, sel := range path {
		next, keySpan, ok := step(cur, sel)
		if !ok {
			return Feature{Path: path, Span: cur.fullSpan, Missing: true, node: cur, doc: d}
		}
		cur = next
		curKeySpan = keySpan
	}
	return Feature{Path: path, Span: cur.fullSpan, KeySpan: curKeySpan, node: cur, doc: d}
}

func step(c *cstNode, sel Selector) (next *cstNode, keySpan span.Span, ok bool) {
	switch sel.Kind {
	case SelectKey:
		if c.kind != MappingNode {
			return nil, span.Span{}, false
		}
		for i, k := range c.keys {
			if k.yaml.Value == sel.Key {
				return c.values[i], k.fullSpan, true
			}
		}
		return nil, span.Span{}, false
	case SelectIndex:
		if c.kind != SequenceNode || sel.Idx < 0 || sel.Idx >= len(c.elems) {
			return nil, span.Span{}, false
		}
		return c.elems[sel.Idx], span.Span{}, true
	default:
		return nil, span.Span{}, false
	}
}

// Subfeature locates a literal occurrence of needle inside a scalar
// Feature's value text, such as a single "${{ ... }}" interpolation among
// several on the same line. Matching is exact-literal (the caller is
// expected to have already sliced out the substring it cares about), finds
// the first occurrence, and ties are impossible since String search always
// returns the lowest offset.
type Subfeature struct {
	Parent Feature
	Span   span.Span
	Text   string
}

// FindSubfeature returns the first occurrence of needle within f's scalar
// value, or ok=false if f isn't a scalar or doesn't contain needle.
func FindSubfeature(f Feature, needle string) (Subfeature, bool) {
	if needle == "" || !f.IsScalar() {
		return Subfeature{}, false
	}
	value := f.node.yaml.Value
	idx := strings.Index(value, needle)
	if idx < 0 {
		return Subfeature{}, false
	}

	doc := f.doc
	valStart := f.node.valueSpan.Start
	start := valStart + byteOffsetForRuneOffset(value, idx)
	end := start + len(needle)

	sp := spanFromOffsets(start, end, doc.lines)
	return Subfeature{Parent: f, Span: sp, Text: needle}, true
}

// byteOffsetForRuneOffset is a no-op today: Feature values are decoded
// strings whose bytes already line up 1:1 with the indices strings.Index
// returns, since YAML decoding never changes UTF-8 byte layout within a
// scalar's printable content. Kept as a named step so a future multi-byte
// escape-aware search path has a single place to change.
func byteOffsetForRuneOffset(_ string, byteIdx int) int { return byteIdx }

// Iter walks the document in a deterministic pre-order (mapping keys and
// values interleaved in document order, then sequence elements in order)
// and returns every node visited, including the root.
func Iter(d *Document) []Node {
	if d.root == nil {
		return nil
	}
	var out []Node
	var walk func(c *cstNode)
	walk = func(c *cstNode) {
		out = append(out, Node{c: c, doc: d})
		switch c.kind {
		case MappingNode:
			for i := range c.keys {
				walk(c.keys[i])
				walk(c.values[i])
			}
		case SequenceNode:
			for _, e := range c.elems {
				walk(e)
			}
		}
	}
	walk(d.root)
	return out
}
