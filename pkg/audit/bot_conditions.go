package audit

import (
	"context"
	"strings"

	"github.com/gh-audit/gh-audit/pkg/expr"
	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// BotConditions flags `if:` expressions that compare an actor-identity
// context against a literal — a pattern attackers can spoof by renaming
// themselves or forging the compared field, unless the comparison is
// actually gating on something else entirely.
type BotConditions struct{ Base }

func NewBotConditions() *BotConditions {
	return &BotConditions{Base: NewBase("bot-conditions", finding.High, false, finding.PersonaRegular)}
}

func (a *BotConditions) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	a.check(s.If, sink)
}

func (a *BotConditions) OnJob(ctx context.Context, j *model.Job, w *model.Workflow, sink finding.Sink) {
	a.check(j.If, sink)
}

func (a *BotConditions) check(field model.ExprField, sink finding.Sink) {
	if !field.ParseOK {
		return
	}
	e := unwrapGroup(field.Parsed)

	if isActorComparison(e) {
		sink.Report(finding.High, finding.ConfidenceHigh,
			"condition checks an actor identity that an attacker can spoof", field.Feature.Span, nil)
		return
	}

	if bin, ok := e.(expr.Binary); ok && bin.Op == "&&" {
		// Per spec.md §9's open-question resolution: any non-bot-identity
		// clause combined via "&&" still doesn't neutralize the spoofable
		// comparison, since an attacker who controls the side-clause can
		// satisfy it too. Flag Medium, not suppressed.
		if containsActorComparison(bin) {
			sink.Report(finding.Medium, finding.ConfidenceMedium,
				"condition combines an actor-identity check with another clause via \"&&\", which does not prevent spoofing",
				field.Feature.Span, nil)
		}
	}
}

func unwrapGroup(e expr.Expr) expr.Expr {
	for {
		g, ok := e.(expr.Group)
		if !ok {
			return e
		}
		e = g.Inner
	}
}

// containsActorComparison walks a chain of "&&"-joined clauses (not
// crossing into "||", which changes the logical shape entirely) looking
// for an actor-identity comparison in any position.
func containsActorComparison(e expr.Expr) bool {
	e = unwrapGroup(e)
	if isActorComparison(e) {
		return true
	}
	if bin, ok := e.(expr.Binary); ok && bin.Op == "&&" {
		return containsActorComparison(bin.Left) || containsActorComparison(bin.Right)
	}
	return false
}

// isActorComparison reports whether e is an "=="/"!=" comparison between a
// context whose final dotted segment (case-insensitive) is "actor" or
// "actor_id" and a literal, in either operand order. Bracket-form access
// like github['actor'] is already folded into a Context by the parser, so
// it's covered without extra cases here.
func isActorComparison(e expr.Expr) bool {
	bin, ok := e.(expr.Binary)
	if !ok || (bin.Op != "==" && bin.Op != "!=") {
		return false
	}
	return isActorContext(bin.Left) && isLiteral(bin.Right) ||
		isActorContext(bin.Right) && isLiteral(bin.Left)
}

func isActorContext(e expr.Expr) bool {
	ctx, ok := e.(expr.Context)
	if !ok || len(ctx.Parts) == 0 {
		return false
	}
	last := strings.ToLower(ctx.Parts[len(ctx.Parts)-1])
	return last == "actor" || last == "actor_id"
}

func isLiteral(e expr.Expr) bool {
	_, ok := e.(expr.Literal)
	return ok
}
