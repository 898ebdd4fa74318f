// Package finding defines the Finding type audits emit and the Sink
// interface they report through, plus the pipeline that normalizes a raw
// stream of findings into the deduplicated, sorted, suppression-filtered
// set a renderer consumes.
package finding

import "github.com/gh-audit/gh-audit/pkg/span"

// Severity is one of the fixed, ordered severity levels a Finding carries.
// Order matters: rendering and min-severity filtering both depend on it.
type Severity int

const (
	Unknown Severity = iota
	Informational
	Low
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Informational:
		return "informational"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a lower-case severity name, defaulting to Unknown
// for anything unrecognized.
func ParseSeverity(s string) Severity {
	switch s {
	case "informational":
		return Informational
	case "low":
		return Low
	case "medium":
		return Medium
	case "high":
		return High
	case "critical":
		return Critical
	default:
		return Unknown
	}
}

// Confidence is one of the fixed, ordered confidence levels a Finding
// carries, independent of Severity.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "low"
	}
}

// Persona is the consumer viewpoint controlling which audits/severities
// get surfaced by default.
type Persona int

const (
	PersonaRegular Persona = iota
	PersonaAuditor
	PersonaPedantic
)

func (p Persona) String() string {
	switch p {
	case PersonaAuditor:
		return "auditor"
	case PersonaPedantic:
		return "pedantic"
	default:
		return "regular"
	}
}

// RelatedRole distinguishes a related span's purpose in a diagnostic:
// Primary spans get carets, Note/Help spans get dashed underlines.
type RelatedRole int

const (
	RoleNote RelatedRole = iota
	RoleHelp
)

func (r RelatedRole) String() string {
	if r == RoleHelp {
		return "help"
	}
	return "note"
}

// Related is one extra span attached to a Finding beyond its primary span,
// such as the workflow-level `on:` trigger a step-level finding refers
// back to.
type Related struct {
	Span    span.Span
	Role    RelatedRole
	Message string
}

// Finding is one reported issue. Findings are immutable once emitted;
// ApplySuppressions only ever flips Ignored, via suppression comments.
type Finding struct {
	AuditID      string
	Severity     Severity
	Confidence   Confidence
	Persona      Persona
	Title        string
	PrimarySpan  span.Span
	RelatedSpans []Related
	Ignored      bool
}

// Sink is what an Audit reports findings through. An audit never
// constructs a Finding directly: the Sink fills in AuditID and Persona
// (the audit's own declared identity) so audits can't misattribute a
// finding to another audit's id.
type Sink interface {
	Report(severity Severity, confidence Confidence, title string, primary span.Span, related []Related)
}

// sink is the concrete Sink handed to one audit's entry-point calls for
// one document; NewSink constructs it, and the audit driver builds one per
// audit entry-point call.
type sink struct {
	auditID string
	persona Persona
	out     *[]Finding
}

// NewSink builds a Sink that tags every Finding it receives with auditID
// and persona, appending to collected.
func NewSink(auditID string, persona Persona, collected *[]Finding) Sink {
	return &sink{auditID: auditID, persona: persona, out: collected}
}

func (s *sink) Report(severity Severity, confidence Confidence, title string, primary span.Span, related []Related) {
	*s.out = append(*s.out, Finding{
		AuditID:      s.auditID,
		Severity:     severity,
		Confidence:   confidence,
		Persona:      s.persona,
		Title:        title,
		PrimarySpan:  primary,
		RelatedSpans: related,
	})
}
