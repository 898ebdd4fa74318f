package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gh-audit/gh-audit/pkg/audit"
	"github.com/gh-audit/gh-audit/pkg/ghcli"
	"github.com/gh-audit/gh-audit/pkg/repoutil"
)

// stdinPath is the synthetic path used for a document piped in on stdin,
// per spec.md §6.
const stdinPath = "@@INPUT@@"

var ownerRepoRefPattern = regexp.MustCompile(`^[\w.-]+/[\w.-]+@[\w./-]+$`)

// discover resolves a mix of file paths, directories, "-" (stdin), and
// "owner/repo@ref" identifiers into loadable documents.
func discover(inputs []string) ([]audit.Document, error) {
	var docs []audit.Document
	for _, in := range inputs {
		switch {
		case in == "-":
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return nil, fmt.Errorf("reading stdin: %w", err)
			}
			docs = append(docs, audit.Document{Path: stdinPath, Source: data, IsAction: false})

		case ownerRepoRefPattern.MatchString(in):
			d, err := discoverRemote(in)
			if err != nil {
				return nil, err
			}
			docs = append(docs, d...)

		default:
			info, err := os.Stat(in)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", in, err)
			}
			if info.IsDir() {
				d, err := discoverDir(in)
				if err != nil {
					return nil, err
				}
				docs = append(docs, d...)
				continue
			}
			data, err := os.ReadFile(in)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", in, err)
			}
			docs = append(docs, audit.Document{Path: in, Source: data, IsAction: isActionFile(in)})
		}
	}
	return docs, nil
}

func isActionFile(path string) bool {
	base := filepath.Base(path)
	return base == "action.yml" || base == "action.yaml"
}

func discoverDir(dir string) ([]audit.Document, error) {
	var docs []audit.Document

	workflowsDir := filepath.Join(dir, ".github", "workflows")
	if entries, err := os.ReadDir(workflowsDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
				continue
			}
			path := filepath.Join(workflowsDir, name)
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			docs = append(docs, audit.Document{Path: path, Source: data, IsAction: false})
		}
	}

	for _, name := range []string{"action.yml", "action.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		docs = append(docs, audit.Document{Path: path, Source: data, IsAction: true})
	}

	return docs, nil
}

// discoverRemote resolves "owner/repo@ref" into its workflow and action
// documents via the gh CLI, without requiring a local clone.
func discoverRemote(spec string) ([]audit.Document, error) {
	at := strings.LastIndex(spec, "@")
	ownerRepo, ref := spec[:at], spec[at+1:]
	owner, repo, err := repoutil.SplitRepoSlug(ownerRepo)
	if err != nil {
		return nil, fmt.Errorf("invalid owner/repo@ref: %q: %w", spec, err)
	}

	var docs []audit.Document
	names, err := listRemoteDir(owner, repo, ref, ".github/workflows")
	if err == nil {
		for _, name := range names {
			if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
				continue
			}
			path := ".github/workflows/" + name
			data, ferr := ghcli.FetchRepoFile(owner, repo, ref, path)
			if ferr != nil {
				continue
			}
			docs = append(docs, audit.Document{Path: spec + ":" + path, Source: data})
		}
	}

	for _, name := range []string{"action.yml", "action.yaml"} {
		data, ferr := ghcli.FetchRepoFile(owner, repo, ref, name)
		if ferr != nil {
			continue
		}
		docs = append(docs, audit.Document{Path: spec + ":" + name, Source: data, IsAction: true})
	}

	return docs, nil
}

func listRemoteDir(owner, repo, ref, path string) ([]string, error) {
	endpoint := "repos/" + owner + "/" + repo + "/contents/" + path + "?ref=" + ref
	stdout, _, err := ghcli.ExecGHWithOutput("api", endpoint, "--jq", ".[].name")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}
