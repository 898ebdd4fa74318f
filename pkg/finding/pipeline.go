package finding

import (
	"sort"
	"strings"

	"github.com/gh-audit/gh-audit/pkg/cst"
	"github.com/gh-audit/gh-audit/pkg/span"
)

// Normalize deduplicates findings by (AuditID, PrimarySpan) — keeping the
// higher-confidence one, and on a tie the first emitted — then sorts the
// result by (file path, primary span start, audit id).
func Normalize(findings []Finding) []Finding {
	type key struct {
		auditID string
		fileID  int
		start   int
		end     int
	}
	keyOf := func(f Finding) key {
		return key{auditID: f.AuditID, fileID: f.PrimarySpan.FileID, start: f.PrimarySpan.Start, end: f.PrimarySpan.End}
	}

	best := map[key]int{} // key -> index into kept
	var kept []Finding
	for _, f := range findings {
		k := keyOf(f)
		if idx, ok := best[k]; ok {
			if f.Confidence > kept[idx].Confidence {
				kept[idx] = f
			}
			continue
		}
		best[k] = len(kept)
		kept = append(kept, f)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.PrimarySpan.Path != b.PrimarySpan.Path {
			return a.PrimarySpan.Path < b.PrimarySpan.Path
		}
		if a.PrimarySpan.Start != b.PrimarySpan.Start {
			return a.PrimarySpan.Start < b.PrimarySpan.Start
		}
		return a.AuditID < b.AuditID
	})
	return kept
}

// suppressionPrefix is the exact token that opens a suppression comment,
// per spec.md §6: "zizmor: ignore[id1,id2]".
const suppressionPrefix = "zizmor: ignore["

// ApplySuppressions scans every comment attached to a node in doc and, for
// each "zizmor: ignore[id1,id2]" comment found, marks Ignored any finding
// in findings whose AuditID is listed and whose PrimarySpan intersects the
// comment's line. It mutates and returns the same slice.
func ApplySuppressions(doc *cst.Document, findings []Finding) []Finding {
	suppressions := collectSuppressions(doc)
	if len(suppressions) == 0 {
		return findings
	}
	for i := range findings {
		f := &findings[i]
		for _, s := range suppressions {
			if s.ids[f.AuditID] && s.span.Intersects(f.PrimarySpan) {
				f.Ignored = true
				break
			}
		}
	}
	return findings
}

type parsedSuppression struct {
	ids  map[string]bool
	span span.Span
}

func collectSuppressions(doc *cst.Document) []parsedSuppression {
	var out []parsedSuppression
	for _, n := range cst.Iter(doc) {
		head, line, foot := n.Comments()
		for _, c := range []string{head, line, foot} {
			if ids, ok := parseSuppressionComment(c); ok {
				out = append(out, parsedSuppression{ids: ids, span: n.Span()})
			}
		}
	}
	return out
}

// parseSuppressionComment parses a single trimmed comment body (the
// Comments() accessor already strips the leading "#") looking for the
// exact "zizmor: ignore[id1,id2]" token spec.md §6 specifies: IDs are
// comma-separated, case-sensitive kebab-case, whitespace around commas is
// allowed, and the closing "]" is required.
func parseSuppressionComment(comment string) (map[string]bool, bool) {
	idx := strings.Index(comment, suppressionPrefix)
	if idx < 0 {
		return nil, false
	}
	rest := comment[idx+len(suppressionPrefix):]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return nil, false
	}
	ids := map[string]bool{}
	for _, part := range strings.Split(rest[:end], ",") {
		id := strings.TrimSpace(part)
		if id != "" {
			ids[id] = true
		}
	}
	if len(ids) == 0 {
		return nil, false
	}
	return ids, true
}
