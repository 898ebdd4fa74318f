package audit

import (
	"context"

	"github.com/gh-audit/gh-audit/pkg/cst"
	"github.com/gh-audit/gh-audit/pkg/expr"
	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// Obfuscation flags interpolations whose value is statically known and
// contributes nothing — most commonly "${{ '' }}" spliced into the middle
// of a literal string to break up a recognizable pattern (e.g. a secret
// name or command) from static scanners.
type Obfuscation struct{ Base }

func NewObfuscation() *Obfuscation {
	return &Obfuscation{Base: NewBase("obfuscation", finding.High, false, finding.PersonaRegular)}
}

func (a *Obfuscation) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if run, ok := s.Run.Raw().Value(); ok {
		a.scan(run, s.Run, sink)
	}
	for _, v := range s.With.Mapping {
		if v.Kind == model.ValueString {
			a.scan(v.Str, v.Feature, sink)
		}
	}
}

func (a *Obfuscation) scan(text string, field model.Feature, sink finding.Sink) {
	for _, match := range interpolationPattern.FindAllString(text, -1) {
		inner := trimInterpolation(match)
		e, err := expr.Parse(inner)
		if err != nil {
			continue
		}
		if !expr.IsStatic(e) {
			continue
		}
		v, ok := expr.EvaluateStatic(e)
		if !ok {
			continue
		}
		if v.Kind != expr.LitString || v.Str != "" {
			continue
		}

		subSpan := field.Span
		if sub, ok := cst.FindSubfeature(field.Raw(), match); ok {
			subSpan = sub.Span
		}
		sink.Report(finding.High, finding.ConfidenceHigh,
			"interpolation evaluates to an empty string and contributes nothing but obfuscation",
			subSpan, nil)
	}
}

func trimInterpolation(raw string) string {
	inner := raw
	inner = inner[3 : len(inner)-2] // strip "${{" and "}}"
	for len(inner) > 0 && (inner[0] == ' ' || inner[0] == '\t') {
		inner = inner[1:]
	}
	for len(inner) > 0 && (inner[len(inner)-1] == ' ' || inner[len(inner)-1] == '\t') {
		inner = inner[:len(inner)-1]
	}
	return inner
}
