package audit

import (
	"context"
	"fmt"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
	"github.com/gh-audit/gh-audit/pkg/sliceutil"
)

// ForbiddenUsesConfig is the config-supplied allow/deny policy ForbiddenUses
// enforces. A non-empty Allow makes the audit allowlist-only: anything not
// listed is flagged. Deny is checked regardless of Allow. Entries are
// "owner/repo" for repo refs or a Docker image name for "docker://" refs,
// matched case-insensitively.
type ForbiddenUsesConfig struct {
	Allow []string
	Deny  []string
}

func (c *ForbiddenUsesConfig) allowed(name string) bool {
	if c == nil || len(c.Allow) == 0 {
		return true
	}
	return sliceutil.ContainsFold(c.Allow, name)
}

func (c *ForbiddenUsesConfig) denied(name string) bool {
	if c == nil {
		return false
	}
	return sliceutil.ContainsFold(c.Deny, name)
}

// ForbiddenUses flags `uses:` references against a locally configured
// allow/deny policy, rather than any intrinsic property of the reference
// itself. With a nil config it never reports anything.
type ForbiddenUses struct {
	Base
	cfg *ForbiddenUsesConfig
}

func NewForbiddenUses(cfg *ForbiddenUsesConfig) *ForbiddenUses {
	return &ForbiddenUses{
		Base: NewBase("forbidden-uses", finding.Medium, false, finding.PersonaRegular),
		cfg:  cfg,
	}
}

func (a *ForbiddenUses) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if a.cfg == nil || !s.IsUses() || s.Uses.Err != nil {
		return
	}
	ref := s.Uses.Ref

	var name string
	switch ref.Kind {
	case model.RefRepo:
		name = ref.Owner + "/" + ref.Repo
	case model.RefDocker:
		name = ref.Image
	default:
		return
	}

	if a.cfg.denied(name) {
		sink.Report(finding.Medium, finding.ConfidenceHigh,
			fmt.Sprintf("%q is on the configured deny list", name), s.Uses.Feature.Span, nil)
		return
	}
	if !a.cfg.allowed(name) {
		sink.Report(finding.Medium, finding.ConfidenceHigh,
			fmt.Sprintf("%q is not on the configured allow list", name), s.Uses.Feature.Span, nil)
	}
}
