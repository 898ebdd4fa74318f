package render

import (
	"encoding/json"

	"github.com/gh-audit/gh-audit/pkg/finding"
)

type jsonLocation struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
	Role      string `json:"role"`
	Message   string `json:"message,omitempty"`
}

type jsonFinding struct {
	AuditID    string         `json:"audit_id"`
	Severity   string         `json:"severity"`
	Confidence string         `json:"confidence"`
	Persona    string         `json:"persona"`
	Title      string         `json:"title"`
	Locations  []jsonLocation `json:"locations"`
	Ignored    bool           `json:"ignored"`
}

// JSON renders findings as the flat array of objects described by
// spec.md §6: one entry per finding, every span (primary plus related)
// flattened into its locations list, the primary location carrying the
// role "primary".
func JSON(findings []finding.Finding) ([]byte, error) {
	out := make([]jsonFinding, 0, len(findings))
	for _, f := range findings {
		locs := make([]jsonLocation, 0, 1+len(f.RelatedSpans))
		locs = append(locs, jsonLocation{
			Path:      f.PrimarySpan.Path,
			StartLine: f.PrimarySpan.StartLine,
			StartCol:  f.PrimarySpan.StartCol,
			EndLine:   f.PrimarySpan.EndLine,
			EndCol:    f.PrimarySpan.EndCol,
			Role:      "primary",
		})
		for _, r := range f.RelatedSpans {
			locs = append(locs, jsonLocation{
				Path:      r.Span.Path,
				StartLine: r.Span.StartLine,
				StartCol:  r.Span.StartCol,
				EndLine:   r.Span.EndLine,
				EndCol:    r.Span.EndCol,
				Role:      r.Role.String(),
				Message:   r.Message,
			})
		}
		out = append(out, jsonFinding{
			AuditID:    f.AuditID,
			Severity:   f.Severity.String(),
			Confidence: f.Confidence.String(),
			Persona:    f.Persona.String(),
			Title:      f.Title,
			Locations:  locs,
			Ignored:    f.Ignored,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
