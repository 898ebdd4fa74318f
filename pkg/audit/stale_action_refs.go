package audit

import (
	"context"
	"fmt"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/ghclient"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// StaleActionRefs flags a symbolic `uses:` ref (a tag, not a SHA) that is
// not the repository's latest release tag, surfacing actions pinned to a
// version that has since received fixes.
type StaleActionRefs struct {
	Base
	client *ghclient.Client
}

func NewStaleActionRefs(client *ghclient.Client) *StaleActionRefs {
	return &StaleActionRefs{
		Base:   NewBase("stale-action-refs", finding.Low, true, finding.PersonaPedantic),
		client: client,
	}
}

func (a *StaleActionRefs) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if a.client == nil || !s.IsUses() || s.Uses.Err != nil {
		return
	}
	ref := s.Uses.Ref
	if ref.Kind != model.RefRepo || ref.IsSHA() {
		return
	}

	latest, err := a.client.LatestRelease(ctx, ref.Owner, ref.Repo)
	if err != nil || latest == "" || latest == ref.Ref {
		return
	}
	sink.Report(finding.Low, finding.ConfidenceMedium,
		fmt.Sprintf("%s/%s is pinned to %q, but the latest release is %q", ref.Owner, ref.Repo, ref.Ref, latest),
		s.Uses.Feature.Span, nil)
}
