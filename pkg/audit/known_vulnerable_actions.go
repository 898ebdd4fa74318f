package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/ghclient"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// KnownVulnerableActions flags a `uses:` pointing at a repository that
// carries a published GitHub security advisory, regardless of which ref
// is pinned: an advisory against the repo usually means the action's
// runtime behavior is unsafe across a range of historical refs, not just
// the latest one.
type KnownVulnerableActions struct {
	Base
	client *ghclient.Client
}

func NewKnownVulnerableActions(client *ghclient.Client) *KnownVulnerableActions {
	return &KnownVulnerableActions{
		Base:   NewBase("known-vulnerable-actions", finding.High, true, finding.PersonaRegular),
		client: client,
	}
}

func (a *KnownVulnerableActions) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if a.client == nil || !s.IsUses() || s.Uses.Err != nil {
		return
	}
	ref := s.Uses.Ref
	if ref.Kind != model.RefRepo {
		return
	}

	ids, err := a.client.SecurityAdvisoryIDs(ctx, ref.Owner, ref.Repo)
	if err != nil || len(ids) == 0 {
		return
	}
	sink.Report(finding.High, finding.ConfidenceMedium,
		fmt.Sprintf("%s/%s has a published security advisory (%s)", ref.Owner, ref.Repo, strings.Join(ids, ", ")),
		s.Uses.Feature.Span, nil)
}
