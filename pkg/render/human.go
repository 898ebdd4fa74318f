// Package render turns a normalized slice of findings into output: a
// Rust-style annotated diagnostic stream for terminals, JSON, or SARIF
// 2.1.0.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/logger"
	"github.com/gh-audit/gh-audit/pkg/stringutil"
	"github.com/gh-audit/gh-audit/pkg/styles"
	"github.com/gh-audit/gh-audit/pkg/tty"
)

var renderLog = logger.New("render:human")

// maxTitleWidth bounds a finding's header line; a few audits (notably
// known-vulnerable-actions, which joins every matching advisory ID) can
// otherwise produce a title that dwarfs the excerpt it introduces.
const maxTitleWidth = 160

// SourceLookup returns the lines of a loaded document's source, used to
// build the excerpt window around a finding's spans.
type SourceLookup func(path string) []string

// Human renders findings as a sequence of Rust-like diagnostic blocks
// (header, location, code excerpt with carets/dashes, confidence note),
// followed by a one-line summary. ansi controls whether styling is
// applied; callers pass tty.IsStdoutTerminal() to decide.
func Human(findings []finding.Finding, src SourceLookup, ansi bool) string {
	var out strings.Builder
	shown := 0
	for _, f := range findings {
		if f.Ignored {
			continue
		}
		shown++
		out.WriteString(renderBlock(f, src, ansi))
		out.WriteString("\n")
	}
	out.WriteString(summaryLine(findings))
	return out.String()
}

// AutoDetectANSI is a convenience wrapper around Human that decides
// styling from the real terminal.
func AutoDetectANSI(findings []finding.Finding, src SourceLookup) string {
	return Human(findings, src, tty.IsStdoutTerminal())
}

func severityStyle(sev finding.Severity) lipgloss.Style {
	switch sev {
	case finding.Critical, finding.High:
		return styles.Error
	case finding.Medium:
		return styles.Warning
	default:
		return styles.Info
	}
}

func applyStyle(ansi bool, style lipgloss.Style, text string) string {
	if ansi {
		return style.Render(text)
	}
	return text
}

func renderBlock(f finding.Finding, src SourceLookup, ansi bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%s[%s]: %s", f.Severity, f.AuditID, stringutil.Truncate(f.Title, maxTitleWidth))
	b.WriteString(applyStyle(ansi, severityStyle(f.Severity), header))
	b.WriteString("\n")

	loc := fmt.Sprintf(" --> %s:%d:%d", f.PrimarySpan.Path, f.PrimarySpan.StartLine, f.PrimarySpan.StartCol)
	b.WriteString(applyStyle(ansi, styles.FilePath, loc))
	b.WriteString("\n")

	if src != nil {
		b.WriteString(renderExcerpt(f, src, ansi))
	}

	b.WriteString(applyStyle(ansi, styles.LineNumber, fmt.Sprintf("  = note: audit confidence → %s", f.Confidence)))
	b.WriteString("\n")
	return b.String()
}

// renderExcerpt draws one window per distinct line touched by the primary
// span and every related span, widened by one line of context on each
// side, with gaps between non-adjacent windows elided by a "..." marker.
func renderExcerpt(f finding.Finding, src SourceLookup, ansi bool) string {
	lines := src(f.PrimarySpan.Path)
	if lines == nil {
		return ""
	}

	type annotated struct {
		line int
		col0 int // 0-based start col
		col1 int // 0-based end col (same line only)
		role string
		msg  string
	}
	var marks []annotated
	marks = append(marks, annotated{line: f.PrimarySpan.StartLine, col0: f.PrimarySpan.StartCol - 1, col1: f.PrimarySpan.EndCol - 1, role: "primary"})
	for _, r := range f.RelatedSpans {
		marks = append(marks, annotated{line: r.Span.StartLine, col0: r.Span.StartCol - 1, col1: r.Span.EndCol - 1, role: r.Role.String(), msg: r.Message})
	}

	lineSet := map[int]bool{}
	for _, m := range marks {
		for l := m.line - 1; l <= m.line+1; l++ {
			if l >= 1 && l <= len(lines) {
				lineSet[l] = true
			}
		}
	}

	gutterWidth := len(fmt.Sprintf("%d", f.PrimarySpan.StartLine+1))

	var b strings.Builder
	prev := 0
	for l := 1; l <= len(lines); l++ {
		if !lineSet[l] {
			continue
		}
		if prev != 0 && l != prev+1 {
			b.WriteString(strings.Repeat(" ", gutterWidth))
			b.WriteString(" ...\n")
		}
		prev = l

		numStr := fmt.Sprintf("%*d", gutterWidth, l)
		b.WriteString(applyStyle(ansi, styles.LineNumber, numStr))
		b.WriteString(" | ")
		b.WriteString(lines[l-1])
		b.WriteString("\n")

		for _, m := range marks {
			if m.line != l {
				continue
			}
			pad := strings.Repeat(" ", gutterWidth+3+m.col0)
			markWidth := m.col1 - m.col0
			if markWidth < 1 {
				markWidth = 1
			}
			marker := "^"
			if m.role != "primary" {
				marker = "-"
			}
			underline := strings.Repeat(marker, markWidth)
			label := ""
			if m.msg != "" {
				label = " " + m.role + ": " + m.msg
			}
			b.WriteString(pad)
			b.WriteString(applyStyle(ansi, severityStyle(f.Severity), underline))
			b.WriteString(label)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func summaryLine(findings []finding.Finding) string {
	counts := finding.CountsBySeverity(findings)
	suppressed := finding.SuppressedCount(findings)
	renderLog.Printf("rendering summary: %d findings, %d suppressed", len(findings), suppressed)

	parts := make([]string, 0, 6)
	for _, sev := range []finding.Severity{finding.Critical, finding.High, finding.Medium, finding.Low, finding.Informational} {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("no findings (%d suppressed)\n", suppressed)
	}
	return fmt.Sprintf("%s (%d suppressed)\n", strings.Join(parts, ", "), suppressed)
}
