package audit

import (
	"context"
	"fmt"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/ghclient"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// ImpostorCommit flags a SHA-pinned `uses:` whose commit does not actually
// belong to the reachable history of the repository it claims to come
// from — the action has been deleted and its name squatted, or the SHA
// was never part of that repo to begin with.
type ImpostorCommit struct {
	Base
	client *ghclient.Client
}

// NewImpostorCommit builds the audit against client. client may be nil,
// in which case the audit reports nothing; the driver still invokes it
// whenever the run is not offline.
func NewImpostorCommit(client *ghclient.Client) *ImpostorCommit {
	return &ImpostorCommit{
		Base:   NewBase("impostor-commit", finding.High, true, finding.PersonaRegular),
		client: client,
	}
}

func (a *ImpostorCommit) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if a.client == nil || !s.IsUses() || s.Uses.Err != nil {
		return
	}
	ref := s.Uses.Ref
	if ref.Kind != model.RefRepo || !ref.IsSHA() {
		return
	}

	exists, err := a.client.CommitExists(ctx, ref.Owner, ref.Repo, ref.Ref)
	if err != nil {
		// A NetworkError is not the same claim as a confirmed impostor: say
		// so at low confidence rather than staying silent or failing the
		// whole audit run.
		sink.Report(finding.High, finding.ConfidenceLow,
			fmt.Sprintf("could not verify that %s belongs to %s/%s's history: %v", ref.Ref, ref.Owner, ref.Repo, err),
			s.Uses.Feature.Span, nil)
		return
	}
	if exists {
		return
	}
	sink.Report(finding.High, finding.ConfidenceHigh,
		fmt.Sprintf("%s is not a commit reachable from %s/%s", ref.Ref, ref.Owner, ref.Repo),
		s.Uses.Feature.Span, nil)
}
