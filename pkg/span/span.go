// Package span defines the byte-range location type shared by every layer
// of the analyzer: the CST index, the workflow model, the expression
// parser, and the finding/render pipeline all anchor to a Span.
package span

import "fmt"

// Span is a half-open byte range [Start, End) within a single input file,
// plus the derived line/column of its start, computed once by the file's
// line index and carried alongside the byte offsets so renderers never
// need to re-scan the source.
type Span struct {
	FileID int
	Path   string

	Start int
	End   int

	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.FileID == other.FileID && s.Start <= other.Start && other.End <= s.End
}

// Intersects reports whether s and other share at least one byte, or
// their line ranges overlap at all (used by suppression-comment matching,
// where the comment's span and the finding's primary span share a line
// rather than nesting).
func (s Span) Intersects(other Span) bool {
	if s.FileID != other.FileID {
		return false
	}
	if s.Start < other.End && other.Start < s.End {
		return true
	}
	return s.StartLine <= other.EndLine && other.StartLine <= s.EndLine
}

// String renders "path:line:col" for diagnostics.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.Path, s.StartLine, s.StartCol)
}

// Zero reports whether the span was never assigned a real location.
func (s Span) Zero() bool {
	return s.Path == "" && s.Start == 0 && s.End == 0
}
