package audit

import (
	"context"
	"fmt"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// UseTrustedPublishing flags package-publish steps that authenticate with
// a long-lived credential instead of the registry's trusted-publishing
// (OIDC) support, when that registry is known to support it.
type UseTrustedPublishing struct{ Base }

func NewUseTrustedPublishing() *UseTrustedPublishing {
	return &UseTrustedPublishing{Base: NewBase("use-trusted-publishing", finding.High, false, finding.PersonaRegular)}
}

func (a *UseTrustedPublishing) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if !s.IsUses() || s.Uses.Err != nil || s.Uses.Ref.Kind != model.RefRepo {
		return
	}
	ownerRepo := s.Uses.Ref.Owner + "/" + s.Uses.Ref.Repo
	entry, ok := TrustedPublisherFor(ownerRepo)
	if !ok {
		return
	}

	if !hasAnyKey(s.With, entry.CredentialKeys) {
		return // no credential supplied: either already using OIDC, or nothing to flag
	}

	server, hasServer := firstValue(s.With, entry.RegistryKeys)
	if !hasServer {
		// No explicit registry URL means the action's own default, which
		// for every action in the registry today is its default
		// trusted-publishing-capable server.
		sink.Report(finding.High, finding.ConfidenceHigh,
			fmt.Sprintf("%s is configured with a credential instead of trusted publishing", ownerRepo),
			s.Uses.Feature.Span, nil)
		return
	}

	if !entry.SupportsServer(server) {
		return // unknown/unsupported registry: can't assert TP is even an option
	}

	sink.Report(finding.High, finding.ConfidenceHigh,
		fmt.Sprintf("%s is configured with a credential for %s, which supports trusted publishing", ownerRepo, server),
		s.Uses.Feature.Span, nil)
}

func hasAnyKey(v model.Value, keys []string) bool {
	if v.Kind != model.ValueMapping {
		return false
	}
	for _, k := range keys {
		if _, ok := v.Mapping[k]; ok {
			return true
		}
	}
	return false
}

func firstValue(v model.Value, keys []string) (string, bool) {
	if v.Kind != model.ValueMapping {
		return "", false
	}
	for _, k := range keys {
		if val, ok := v.Mapping[k]; ok && val.Kind == model.ValueString {
			return val.Str, true
		}
	}
	return "", false
}
