// Command gh-audit is the command-line front end for the GitHub Actions
// security analyzer: it resolves inputs (paths, directories, or
// "owner/repo@ref" identifiers), loads them, drives the audit registry,
// and renders the resulting findings.
package main

import (
	"fmt"
	"os"

	"github.com/gh-audit/gh-audit/pkg/console"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		os.Exit(2)
	}
}
