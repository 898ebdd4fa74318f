// Package ghcli shells out to the gh CLI binary, used by the command-line
// front end to resolve an "owner/repo@ref" input into file contents.
package ghcli

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/cli/go-gh/v2"

	"github.com/gh-audit/gh-audit/pkg/logger"
)

var ghcliLog = logger.New("ghcli")

// ExecGH builds a `gh` invocation, propagating GH_TOKEN from GITHUB_TOKEN
// when only the latter is set (the common case inside a GitHub Actions
// run invoking this analyzer on itself).
func ExecGH(args ...string) *exec.Cmd {
	ghToken := os.Getenv("GH_TOKEN")
	githubToken := os.Getenv("GITHUB_TOKEN")

	if ghToken != "" || githubToken != "" {
		cmd := exec.Command("gh", args...)
		if ghToken == "" && githubToken != "" {
			ghcliLog.Printf("GH_TOKEN not set, using GITHUB_TOKEN for gh CLI")
			cmd.Env = append(os.Environ(), "GH_TOKEN="+githubToken)
		}
		return cmd
	}

	ghcliLog.Printf("no token available, using default gh CLI credentials for: gh %v", args)
	return exec.Command("gh", args...)
}

// ExecGHWithOutput runs a gh CLI command via go-gh/v2's own exec path,
// which handles locating the gh binary and its ambient auth.
func ExecGHWithOutput(args ...string) (stdout, stderr bytes.Buffer, err error) {
	ghcliLog.Printf("executing: gh %v", args)
	return gh.Exec(args...)
}

// FetchRepoFile resolves "owner/repo@ref" plus a path within it into file
// contents, via `gh api repos/{owner}/{repo}/contents/{path}?ref={ref}`
// with the raw media type, so the response body is the file's bytes.
func FetchRepoFile(owner, repo, ref, path string) ([]byte, error) {
	endpoint := "repos/" + owner + "/" + repo + "/contents/" + path + "?ref=" + ref
	stdout, stderr, err := ExecGHWithOutput("api", endpoint, "-H", "Accept: application/vnd.github.raw+json")
	if err != nil {
		ghcliLog.Printf("fetching %s failed: %v (%s)", endpoint, err, stderr.String())
		return nil, err
	}
	return stdout.Bytes(), nil
}
