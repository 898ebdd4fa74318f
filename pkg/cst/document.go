// Package cst loads a YAML document into a format-preserving concrete
// syntax tree (backed by gopkg.in/yaml.v3's Node graph, which already
// retains comments, quote style, and anchors/aliases) and layers a
// Feature/Subfeature path index on top, so every part of the workflow and
// action model can carry a precise byte span back to the original source.
package cst

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gh-audit/gh-audit/pkg/span"
)

// Document is a loaded, indexed YAML file. It is immutable after Load
// returns: every accessor is pure and safe to call concurrently from
// multiple audits.
type Document struct {
	FileID int
	Path   string
	Source []byte

	lines *lineIndex
	root  *cstNode // the single top-level document's root value (mapping, usually)
}

// ParseError is a fatal YAML syntax error, reported with as precise a
// byte/line/column location as the parser could recover.
type ParseError struct {
	Path    string
	Span    span.Span
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.String(), e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Load parses source into a Document. On a YAML syntax error it returns a
// *ParseError instead, with the most precise location available (see
// parseerror.go).
func Load(fileID int, path string, source []byte) (*Document, *ParseError) {
	var root yaml.Node
	if err := yaml.Unmarshal(source, &root); err != nil {
		return nil, newParseError(path, source, err)
	}

	li := newLineIndex(source)
	li.fileID, li.path = fileID, path
	doc := &Document{FileID: fileID, Path: path, Source: source, lines: li}

	if len(root.Content) == 0 {
		// An entirely empty document is syntactically valid; model
		// deserialization will report it as a schema mismatch instead.
		return doc, nil
	}

	anchors := map[*yaml.Node]*cstNode{}
	doc.root = buildNode(root.Content[0], li, nil, anchors)
	resolveAliases(root.Content[0], anchors)
	return doc, nil
}

// Root returns the document's top-level node.
func (d *Document) Root() Node {
	if d.root == nil {
		return Node{}
	}
	return Node{c: d.root, doc: d}
}

func buildNode(n *yaml.Node, li *lineIndex, parent *cstNode, anchors map[*yaml.Node]*cstNode) *cstNode {
	c := &cstNode{yaml: n, kind: kindOf(n), parent: parent}

	switch n.Kind {
	case yaml.ScalarNode:
		c.fullSpan, c.valueSpan = scalarSpans(n, li)
	case yaml.AliasNode:
		c.fullSpan = spanFromOffsets(li.offset(n.Line, n.Column), li.offset(n.Line, n.Column)+len(n.Value)+1, li)
		c.valueSpan = c.fullSpan
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyN, valN := n.Content[i], n.Content[i+1]
			keyC := buildNode(keyN, li, c, anchors)
			valC := buildNode(valN, li, c, anchors)
			c.keys = append(c.keys, keyC)
			c.values = append(c.values, valC)
		}
		c.fullSpan = containerSpan(c, li)
	case yaml.SequenceNode:
		for _, e := range n.Content {
			c.elems = append(c.elems, buildNode(e, li, c, anchors))
		}
		c.fullSpan = containerSpan(c, li)
	default:
		c.fullSpan = spanFromOffsets(li.offset(n.Line, n.Column), li.offset(n.Line, n.Column), li)
	}
	c.valueSpan = orElse(c.valueSpan, c.fullSpan)

	if n.Anchor != "" {
		anchors[n] = c
	}
	return c
}

func orElse(s, fallback span.Span) span.Span {
	if s.Zero() {
		return fallback
	}
	return s
}

// resolveAliases walks the tree a second time (anchors must already be
// indexed) and records, on each alias cstNode, which cstNode it refers to.
// We can't do this in the same pass as buildNode because a *yaml.Node
// Content slice is shared, so we re-walk from the raw yaml tree and look
// nodes up by pointer identity; the result is stashed in aliasTargets,
// keyed by the alias cstNode's own yaml.Node pointer.
func resolveAliases(n *yaml.Node, anchors map[*yaml.Node]*cstNode) {
	switch n.Kind {
	case yaml.AliasNode:
		if target, ok := anchors[n.Alias]; ok {
			aliasTargets[n] = target
		}
	case yaml.MappingNode, yaml.SequenceNode, yaml.DocumentNode:
		for _, c := range n.Content {
			resolveAliases(c, anchors)
		}
	}
}

// aliasTargets is a process-wide weak table from alias yaml.Node to the
// cstNode it resolves to. It is only ever written during Load and only
// ever read afterward, so concurrent analysis of already-loaded documents
// is safe; each yaml.Node pointer is unique to the Document that produced
// it.
var aliasTargets = map[*yaml.Node]*cstNode{}

// aliasTarget returns the cstNode an AliasNode points to, or nil.
func (c *cstNode) aliasTarget() *cstNode {
	if c.kind != AliasNode {
		return nil
	}
	return aliasTargets[c.yaml]
}

// Alias returns the node an alias resolves to, or the zero Node if n is
// not an alias or the anchor could not be found.
func (n Node) Alias() Node {
	if n.c == nil {
		return Node{}
	}
	if t := n.c.aliasTarget(); t != nil {
		return Node{c: t, doc: n.doc}
	}
	return Node{}
}

func containerSpan(c *cstNode, li *lineIndex) span.Span {
	start := li.offset(c.yaml.Line, c.yaml.Column)
	end := start
	walkMax := func(child *cstNode) {
		if child.fullSpan.End > end {
			end = child.fullSpan.End
		}
	}
	for _, k := range c.keys {
		walkMax(k)
	}
	for _, v := range c.values {
		walkMax(v)
	}
	for _, e := range c.elems {
		walkMax(e)
	}
	if end < start {
		end = start
	}
	return spanFromOffsets(start, end, li)
}

func spanFromOffsets(start, end int, li *lineIndex) span.Span {
	if end < start {
		end = start
	}
	sl, sc := li.lineCol(start)
	el, ec := li.lineCol(end)
	return span.Span{
		FileID: li.fileID, Path: li.path,
		Start: start, End: end,
		StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec,
	}
}

// scalarSpans computes the full span (including quotes/indicators) and the
// value span (the literal decoded text only) of a scalar node.
func scalarSpans(n *yaml.Node, li *lineIndex) (full, value span.Span) {
	start := li.offset(n.Line, n.Column)
	src := li.src()

	switch {
	case n.Style&yaml.DoubleQuotedStyle != 0:
		end := scanQuoted(src, start+1, '"', true)
		full = spanFromOffsets(start, end+1, li)
		value = spanFromOffsets(start+1, end, li)
	case n.Style&yaml.SingleQuotedStyle != 0:
		end := scanQuoted(src, start+1, '\'', false)
		full = spanFromOffsets(start, end+1, li)
		value = spanFromOffsets(start+1, end, li)
	case n.Style&yaml.LiteralStyle != 0 || n.Style&yaml.FoldedStyle != 0:
		end := blockScalarEnd(li, n.Line)
		full = spanFromOffsets(start, end, li)
		vstart := li.offset(n.Line+1, 1)
		for vstart < end && src[vstart] == ' ' {
			vstart++
		}
		value = spanFromOffsets(vstart, end, li)
	default:
		end := start + len(n.Value)
		if strings.Contains(n.Value, "\n") {
			// A multi-line plain scalar folds its source newlines into
			// spaces, so the decoded length no longer matches the raw
			// byte span. Plain scalars spanning multiple lines are rare
			// in workflow YAML (run steps use block scalars); fall back
			// to the rest of the starting line, which is enough for
			// diagnostics to point at the right place.
			if nl := nextNewline(src, start); nl >= 0 {
				end = nl
			}
		}
		if end > len(src) {
			end = len(src)
		}
		full = spanFromOffsets(start, end, li)
		value = full
	}
	return full, value
}

func (l *lineIndex) src() []byte { return l.src }

func nextNewline(src []byte, from int) int {
	if from >= len(src) {
		return -1
	}
	i := bytes.IndexByte(src[from:], '\n')
	if i < 0 {
		return -1
	}
	return from + i
}

// scanQuoted finds the byte offset of the closing quote starting the scan
// at start (the first byte after the opening quote). For double-quoted
// scalars, backslash escapes the next byte; for single-quoted scalars, a
// doubled quote ('') escapes a literal quote.
func scanQuoted(src []byte, start int, quote byte, backslashEscapes bool) int {
	i := start
	for i < len(src) {
		if backslashEscapes && src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == quote {
			if !backslashEscapes && i+1 < len(src) && src[i+1] == quote {
				i += 2
				continue
			}
			return i
		}
		i++
	}
	return len(src)
}

// blockScalarEnd finds the byte offset where a literal/folded block scalar
// ends: the content begins on the line after the indicator and continues
// while lines are blank or indented at least as deeply as the first
// non-blank content line.
func blockScalarEnd(li *lineIndex, indicatorLine int) int {
	src := li.src()
	indent := -1
	line := indicatorLine + 1
	for line-1 < len(li.starts) {
		s, e := lineBounds(li, line)
		trimmed := bytes.TrimRight(src[s:e], "\r\n")
		if len(bytes.TrimSpace(trimmed)) != 0 {
			indent = countLeadingSpaces(trimmed)
			break
		}
		line++
	}
	if indent == -1 {
		return li.offset(indicatorLine+1, 1)
	}

	end := li.offset(indicatorLine+1, 1)
	line = indicatorLine + 1
	for line-1 < len(li.starts) {
		s, e := lineBounds(li, line)
		trimmed := bytes.TrimRight(src[s:e], "\r\n")
		if len(bytes.TrimSpace(trimmed)) == 0 {
			end = e
			line++
			continue
		}
		if countLeadingSpaces(trimmed) < indent {
			break
		}
		end = e
		line++
	}
	return end
}

func lineBounds(li *lineIndex, line int) (start, end int) {
	idx := line - 1
	if idx < 0 || idx >= len(li.starts) {
		return len(li.src()), len(li.src())
	}
	start = li.starts[idx]
	if idx+1 < len(li.starts) {
		end = li.starts[idx+1]
	} else {
		end = len(li.src())
	}
	return start, end
}

func countLeadingSpaces(b []byte) int {
	n := 0
	for n < len(b) && (b[n] == ' ' || b[n] == '\t') {
		n++
	}
	return n
}
