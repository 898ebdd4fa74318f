package audit

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
	"github.com/gh-audit/gh-audit/pkg/span"
)

// UnpinnedUses emits High confidence, High severity for any `uses:` whose
// ref is not a 40-char commit SHA, and High/Medium for unpinned/loosely
// pinned container and service images.
type UnpinnedUses struct{ Base }

func NewUnpinnedUses() *UnpinnedUses {
	return &UnpinnedUses{Base: NewBase("unpinned-uses", finding.High, false, finding.PersonaRegular)}
}

func (a *UnpinnedUses) OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink) {
	if !s.IsUses() {
		return
	}
	if s.Uses.Err != nil {
		return // MalformedUses is its own concern, not unpinned-uses'
	}
	ref := s.Uses.Ref
	if ref.Kind != model.RefRepo {
		return // docker:// and ./local aren't pinned by a git ref
	}
	if ref.IsSHA() {
		return
	}
	sink.Report(finding.High, finding.ConfidenceHigh,
		fmt.Sprintf("action %q is not pinned to a full-length commit SHA", ref.String()),
		s.Uses.Feature.Span, nil)
}

func (a *UnpinnedUses) OnJob(ctx context.Context, j *model.Job, w *model.Workflow, sink finding.Sink) {
	checkImageValue(sink, j.Container)
	checkServiceImages(sink, j.Services)
}

var digestSuffix = regexp.MustCompile(`@sha256:[0-9a-fA-F]{64}$`)

// checkImageValue inspects a `container:` field, which may be a bare image
// string or a mapping with an `image:` key.
func checkImageValue(sink finding.Sink, v model.Value) {
	switch v.Kind {
	case model.ValueString:
		reportImageTag(sink, v.Str, v.Feature.Span)
	case model.ValueMapping:
		if img, ok := v.Mapping["image"]; ok && img.Kind == model.ValueString {
			reportImageTag(sink, img.Str, img.Feature.Span)
		}
	}
}

func checkServiceImages(sink finding.Sink, v model.Value) {
	if v.Kind != model.ValueMapping {
		return
	}
	for _, svc := range v.Mapping {
		checkImageValue(sink, svc)
	}
}

// reportImageTag classifies an image reference per spec.md §4.4/S7:
// digest-pinned ("@sha256:...") is fine; missing tag or ":latest" is High;
// any other explicit tag is Medium (pinned, but a tag can be repointed).
func reportImageTag(sink finding.Sink, image string, sp span.Span) {
	if digestSuffix.MatchString(image) {
		return
	}

	// Strip a leading "docker://" if present, then split off the tag from
	// the trailing "image:tag" (ignoring a "@digest" suffix, already ruled
	// out above, and registry ports like "host:5000/image").
	name := strings.TrimPrefix(image, "docker://")
	lastSlash := strings.LastIndex(name, "/")
	tagPart := name
	if lastSlash >= 0 {
		tagPart = name[lastSlash+1:]
	}
	colon := strings.LastIndex(tagPart, ":")

	if colon < 0 {
		sink.Report(finding.High, finding.ConfidenceHigh,
			fmt.Sprintf("image %q has no tag and defaults to the mutable latest", image), sp, nil)
		return
	}
	tag := tagPart[colon+1:]
	if tag == "latest" {
		sink.Report(finding.High, finding.ConfidenceHigh,
			fmt.Sprintf("image %q is pinned to the mutable \"latest\" tag", image), sp, nil)
		return
	}
	sink.Report(finding.Medium, finding.ConfidenceHigh,
		fmt.Sprintf("image %q is pinned to a mutable tag, not a content digest", image), sp, nil)
}
