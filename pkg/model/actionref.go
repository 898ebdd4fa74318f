package model

import (
	"fmt"
	"strings"

	"github.com/gh-audit/gh-audit/pkg/gitutil"
)

// ActionRefKind distinguishes the three forms a `uses:` value can take.
type ActionRefKind int

const (
	RefRepo ActionRefKind = iota
	RefDocker
	RefLocal
)

// ActionRef is a parsed `uses:` value.
type ActionRef struct {
	Kind ActionRefKind

	Owner   string // Repo only
	Repo    string // Repo only
	Subpath string // Repo only: a monorepo action path after the repo, e.g. "actions/setup-node/.github/actions/foo"

	Image string // Docker only: everything after "docker://"

	Path string // Local only: the "./..." path

	Ref string // Repo/Docker only: the text after '@' (a SHA, tag, or branch)

	Raw string // the full original string, unparsed
}

// IsSHA reports whether Ref is a 40-character hex commit SHA, as opposed to
// a symbolic ref (tag, branch, or alias like "main" or "v1").
func (a ActionRef) IsSHA() bool {
	return len(a.Ref) == 40 && gitutil.IsHexString(a.Ref)
}

// MalformedUsesError reports a `uses:` value the parser could not make
// sense of: missing "@ref" on a repo reference, or an empty value.
type MalformedUsesError struct {
	Raw    string
	Reason string
}

func (e *MalformedUsesError) Error() string {
	return fmt.Sprintf("malformed uses %q: %s", e.Raw, e.Reason)
}

// ParseActionRef parses a `uses:` field value into an ActionRef.
func ParseActionRef(raw string) (ActionRef, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ActionRef{}, &MalformedUsesError{Raw: raw, Reason: "empty"}
	}

	switch {
	case strings.HasPrefix(trimmed, "docker://"):
		return ActionRef{Kind: RefDocker, Image: strings.TrimPrefix(trimmed, "docker://"), Raw: raw}, nil
	case strings.HasPrefix(trimmed, "./") || strings.HasPrefix(trimmed, "../"):
		return ActionRef{Kind: RefLocal, Path: trimmed, Raw: raw}, nil
	default:
		return parseRepoRef(trimmed, raw)
	}
}

// parseRepoRef parses "owner/repo[/subpath]@ref".
func parseRepoRef(trimmed, raw string) (ActionRef, error) {
	at := strings.LastIndex(trimmed, "@")
	if at < 0 {
		return ActionRef{}, &MalformedUsesError{Raw: raw, Reason: "missing @ref"}
	}
	path, ref := trimmed[:at], trimmed[at+1:]
	if ref == "" {
		return ActionRef{}, &MalformedUsesError{Raw: raw, Reason: "empty @ref"}
	}

	parts := strings.SplitN(path, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ActionRef{}, &MalformedUsesError{Raw: raw, Reason: "expected owner/repo"}
	}

	ar := ActionRef{Kind: RefRepo, Owner: parts[0], Repo: parts[1], Ref: ref, Raw: raw}
	if len(parts) == 3 {
		ar.Subpath = parts[2]
	}
	return ar, nil
}

// String renders the ActionRef back to the "owner/repo@ref" (or
// equivalent) surface form, ignoring comment-level annotations such as a
// pin's trailing "# v4" tag comment.
func (a ActionRef) String() string {
	switch a.Kind {
	case RefDocker:
		return "docker://" + a.Image
	case RefLocal:
		return a.Path
	default:
		p := a.Owner + "/" + a.Repo
		if a.Subpath != "" {
			p += "/" + a.Subpath
		}
		return p + "@" + a.Ref
	}
}
