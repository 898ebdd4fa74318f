package audit

import (
	"context"
	"fmt"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/ghclient"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// RefConfusion flags a symbolic `uses:` ref (a tag or branch name, not a
// SHA) that is ambiguous: a branch and a tag of the same name both exist
// in the referenced repository, so which commit actually runs depends on
// git's and GitHub's resolution order rather than anything declared in
// the workflow.
type RefConfusion struct {
	Base
	client *ghclient.Client
}

func NewRefConfusion(client *ghclient.Client) *RefConfusion {
	return &RefConfusion{
		Base:   NewBase("ref-confusion", finding.Medium, true, finding.PersonaRegular),
		client: client,
	}
}

func (a *RefConfusion) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if a.client == nil || !s.IsUses() || s.Uses.Err != nil {
		return
	}
	ref := s.Uses.Ref
	if ref.Kind != model.RefRepo || ref.IsSHA() {
		return
	}

	hasBranch, hasTag, err := a.client.RefKinds(ctx, ref.Owner, ref.Repo, ref.Ref)
	if err != nil {
		return // can't assert ambiguity exists; stay silent rather than guess
	}
	if !hasBranch || !hasTag {
		return
	}
	sink.Report(finding.Medium, finding.ConfidenceHigh,
		fmt.Sprintf("%q resolves to both a branch and a tag in %s/%s; the running commit depends on resolution order, not the workflow", ref.Ref, ref.Owner, ref.Repo),
		s.Uses.Feature.Span, nil)
}
