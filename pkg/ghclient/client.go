// Package ghclient is a thin, context-aware wrapper over the gh CLI's
// REST and GraphQL clients, used by the audits that need to consult
// GitHub itself (commit reachability, ref ambiguity, advisory data).
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/gh-audit/gh-audit/pkg/gitutil"
	"github.com/gh-audit/gh-audit/pkg/ratelimit"
)

// DefaultTimeout is the per-call timeout applied when a Client is built
// with a zero or negative timeout.
const DefaultTimeout = 10 * time.Second

// Client wraps gh's default REST and GraphQL clients with a fixed
// per-call timeout, so a caller never needs to thread that bookkeeping
// through every method.
type Client struct {
	rest    *api.RESTClient
	gql     *api.GraphQLClient
	timeout time.Duration
	limiter *ratelimit.TokenBucket
}

// New builds a Client using gh's ambient authentication (the same
// credentials `gh` itself would use). timeout <= 0 falls back to
// DefaultTimeout. Outbound calls are throttled against
// ratelimit.OperationGitHubAPI's default budget, since a large scan can
// issue one request per `uses:` reference across every audited document.
func New(timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rest, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("ghclient: building REST client: %w", err)
	}
	gql, err := api.DefaultGraphQLClient()
	if err != nil {
		return nil, fmt.Errorf("ghclient: building GraphQL client: %w", err)
	}
	limiter, err := ratelimit.NewTokenBucket(ratelimit.OperationGitHubAPI, nil)
	if err != nil {
		return nil, fmt.Errorf("ghclient: building rate limiter: %w", err)
	}
	return &Client{rest: rest, gql: gql, timeout: timeout, limiter: limiter}, nil
}

// NotFound reports whether err is the "404" a REST call returns for a
// missing resource, as opposed to a transient or auth failure.
func NotFound(err error) bool {
	var herr *api.HTTPError
	return errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound
}

// IsAuthError reports whether err looks like a missing or rejected
// credential rather than a resource-not-found or transient failure, so
// callers can surface a clearer diagnostic than a bare network error.
func IsAuthError(err error) bool {
	return err != nil && gitutil.IsAuthError(err.Error())
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("ghclient: %s: %w", path, err)
		}
	}
	err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, out)
	if err != nil && IsAuthError(err) {
		return fmt.Errorf("ghclient: %s: not authenticated (run `gh auth login`): %w", path, err)
	}
	return err
}

// CommitExists reports whether sha is reachable commit history of
// owner/repo.
func (c *Client) CommitExists(ctx context.Context, owner, repo, sha string) (bool, error) {
	var resp struct {
		SHA string `json:"sha"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("repos/%s/%s/commits/%s", owner, repo, sha), &resp)
	if err != nil {
		if NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RefKinds reports which of a branch and a tag named ref exist in
// owner/repo, so a caller can detect the ambiguous case where both do.
func (c *Client) RefKinds(ctx context.Context, owner, repo, ref string) (hasBranch, hasTag bool, err error) {
	var branchResp struct {
		Name string `json:"name"`
	}
	berr := c.getJSON(ctx, fmt.Sprintf("repos/%s/%s/branches/%s", owner, repo, ref), &branchResp)
	switch {
	case berr == nil:
		hasBranch = true
	case !NotFound(berr):
		return false, false, berr
	}

	var tagResp []struct {
		Name string `json:"name"`
	}
	terr := c.getJSON(ctx, fmt.Sprintf("repos/%s/%s/tags", owner, repo), &tagResp)
	if terr != nil {
		if !NotFound(terr) {
			return hasBranch, false, terr
		}
		return hasBranch, false, nil
	}
	for _, t := range tagResp {
		if t.Name == ref {
			hasTag = true
			break
		}
	}
	return hasBranch, hasTag, nil
}

// LatestRelease returns the tag name of owner/repo's latest release.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (string, error) {
	var resp struct {
		TagName string `json:"tag_name"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("repos/%s/%s/releases/latest", owner, repo), &resp); err != nil {
		return "", err
	}
	return resp.TagName, nil
}

// SecurityAdvisoryIDs returns the GHSA identifiers affecting owner/repo,
// via the public security advisories REST endpoint.
func (c *Client) SecurityAdvisoryIDs(ctx context.Context, owner, repo string) ([]string, error) {
	var resp []struct {
		GHSAID string `json:"ghsa_id"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("repos/%s/%s/security-advisories", owner, repo), &resp)
	if err != nil {
		if NotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(resp))
	for _, a := range resp {
		ids = append(ids, a.GHSAID)
	}
	return ids, nil
}
