package audit

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gh-audit/gh-audit/pkg/cst"
	"github.com/gh-audit/gh-audit/pkg/expr"
	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// interpolationPattern finds every "${{ ... }}" occurrence in a scalar, so
// each one can be classified and pointed at individually.
var interpolationPattern = regexp.MustCompile(`\$\{\{[^}]*\}\}`)

// TemplateInjection scans `run:` scripts and the script-bearing `with:`
// inputs of known arbitrary-code actions for expression interpolations
// whose referenced context an attacker can influence on the workflow's
// active triggers.
type TemplateInjection struct{ Base }

func NewTemplateInjection() *TemplateInjection {
	return &TemplateInjection{Base: NewBase("template-injection", finding.High, false, finding.PersonaRegular)}
}

func (a *TemplateInjection) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if run, ok := s.Run.Raw().Value(); ok {
		a.scanScalar(run, s.Run, w, sink)
	}

	if s.IsUses() && s.Uses.Err == nil && s.Uses.Ref.Kind == model.RefRepo {
		ownerRepo := s.Uses.Ref.Owner + "/" + s.Uses.Ref.Repo
		if IsArbitraryCodeAction(ownerRepo) {
			for key, v := range s.With.Mapping {
				if v.Kind == model.ValueString {
					a.scanScalarValue(v.Str, v.Feature, w, sink, key)
				}
			}
		}
	}
}

func (a *TemplateInjection) scanScalar(text string, field model.Feature, w *model.Workflow, sink finding.Sink) {
	a.scanScalarValue(text, field, w, sink, "")
}

func (a *TemplateInjection) scanScalarValue(text string, field model.Feature, w *model.Workflow, sink finding.Sink, inputName string) {
	for _, match := range interpolationPattern.FindAllString(text, -1) {
		a.classifyInterpolation(match, field, w, sink, inputName)
	}
}

func (a *TemplateInjection) classifyInterpolation(raw string, field model.Feature, w *model.Workflow, sink finding.Sink, inputName string) {
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, "${{"), "}}"))
	e, err := expr.Parse(inner)
	if err != nil {
		return
	}

	subSpan := field.Span
	if sub, ok := cst.FindSubfeature(field.Raw(), raw); ok {
		subSpan = sub.Span
	}

	// A toJSON(...) wrapper is a common (incomplete) sanitizer: the value is
	// serialized but can itself break out if it contains its own
	// expression-like syntax once re-interpreted downstream, so it's still
	// flagged, just not promoted to High.
	sanitized := len(expr.Calls(e, "toJSON")) > 0

	contexts := expr.Contexts(e)
	for ctxPath := range contexts {
		label := ctxPath
		if inputName != "" {
			label = fmt.Sprintf("%s (via with.%s)", ctxPath, inputName)
		}

		if sanitized {
			sink.Report(finding.Informational, finding.ConfidenceLow,
				fmt.Sprintf("interpolation of %s is wrapped in toJSON(), which does not fully prevent injection", label),
				subSpan, nil)
			continue
		}

		if controllableUnderAnyActiveTrigger(w, ctxPath) {
			sink.Report(finding.High, finding.ConfidenceHigh,
				fmt.Sprintf("interpolation of attacker-controllable %s may allow script injection", label),
				subSpan, nil)
			continue
		}

		// A reusable workflow's inputs.* is only as controllable as whatever
		// caller supplies it, which this audit can't see from here. Report
		// it, but never at High confidence and never suppressed outright.
		if w.On.Has("workflow_call") && strings.HasPrefix(ctxPath, "inputs.") && ControllablePrefixesAnyTrigger(ctxPath) {
			sink.Report(finding.Medium, finding.ConfidenceLow,
				fmt.Sprintf("interpolation of reusable-workflow %s depends on a caller-supplied input whose trust this audit cannot verify", label),
				subSpan, nil)
			continue
		}

		if strings.HasPrefix(ctxPath, "inputs.") || strings.HasPrefix(ctxPath, "env.") {
			sink.Report(finding.Medium, finding.ConfidenceLow,
				fmt.Sprintf("interpolation of %s may be injection-controllable depending on how it was populated", label),
				subSpan, nil)
		}
	}
}

func controllableUnderAnyActiveTrigger(w *model.Workflow, ctxPath string) bool {
	for name := range w.On.Triggers {
		if IsControllable(name, ctxPath) {
			return true
		}
	}
	return false
}
