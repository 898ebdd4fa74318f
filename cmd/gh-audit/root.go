package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gh-audit/gh-audit/pkg/audit"
	"github.com/gh-audit/gh-audit/pkg/config"
	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/ghclient"
	"github.com/gh-audit/gh-audit/pkg/logger"
	"github.com/gh-audit/gh-audit/pkg/render"
)

var rootLog = logger.New("cmd:root")

func newRootCommand() *cobra.Command {
	var (
		configPath  string
		personaFlag string
		minSevFlag  string
		offline     bool
		disableIDs  []string
		outputFlag  string
		maxWorkers  int
	)

	cmd := &cobra.Command{
		Use:     "gh-audit [paths...]",
		Short:   "Static security analyzer for GitHub Actions workflows",
		Version: version,
		Long: `gh-audit scans GitHub Actions workflow and action definitions for
security findings: unpinned action references, dangerous triggers,
template-injection sinks, spoofable bot-identity checks, impostor
commits, obfuscated expressions, and missing trusted-publishing setup.

Paths may be workflow/action files, directories (recursed for
.github/workflows/*.yml and action.yml), "-" for stdin, or an
"owner/repo@ref" identifier resolved via the gh CLI.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if personaFlag != "" {
				cfg.PersonaName = personaFlag
			}
			if minSevFlag != "" {
				cfg.MinSeverityName = minSevFlag
				cfg.MinSeverity = finding.ParseSeverity(minSevFlag)
			}
			if offline {
				cfg.Offline = true
			}
			cfg.Audits.Disable = append(cfg.Audits.Disable, disableIDs...)
			if outputFlag != "" {
				cfg.OutputMode = config.OutputMode(outputFlag)
			}

			inputs := args
			if len(inputs) == 0 {
				inputs = []string{"."}
			}
			docs, err := discover(inputs)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				rootLog.Printf("no workflow or action files found among: %v", inputs)
				return nil
			}

			var client *ghclient.Client
			if !cfg.Offline {
				c, cerr := ghclient.New(time.Duration(cfg.NetworkTimeoutSecs) * time.Second)
				if cerr != nil {
					rootLog.Printf("network audits disabled: %v", cerr)
				} else {
					client = c
				}
			}

			reg := audit.NewRegistry(client, cfg.ForbiddenUsesConfig())
			driver := audit.NewDriver(reg, cfg.DisabledSet(), cfg.Offline, maxWorkers)

			results := driver.Run(cmd.Context(), 1, docs)

			var all []finding.Finding
			sources := map[string][]byte{}
			for i, r := range results {
				all = append(all, r.Findings...)
				sources[r.Path] = docs[i].Source
			}

			return emit(cfg, all, sources)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&personaFlag, "persona", "", "auditor|regular|pedantic")
	cmd.Flags().StringVar(&minSevFlag, "min-severity", "", "minimum severity for exit code (default high)")
	cmd.Flags().BoolVar(&offline, "offline", false, "disable network-requiring audits")
	cmd.Flags().StringSliceVar(&disableIDs, "disable", nil, "audit ids to disable")
	cmd.Flags().StringVar(&outputFlag, "output", "", "plain|rich|json|sarif|both")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "bound on concurrent document analysis (0 = unbounded)")

	return cmd
}

func emit(cfg config.Config, findings []finding.Finding, sources map[string][]byte) error {
	findings = finding.Normalize(findings)

	lookup := func(path string) []string {
		src, ok := sources[path]
		if !ok {
			return nil
		}
		return strings.Split(string(src), "\n")
	}

	switch cfg.OutputMode {
	case config.OutputJSON:
		b, err := render.JSON(findings)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	case config.OutputSARIF:
		b, err := render.SARIF(findings, "gh-audit")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	case config.OutputBoth:
		fmt.Print(render.AutoDetectANSI(findings, lookup))
		b, err := render.JSON(findings)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	case config.OutputPlain:
		fmt.Print(render.Human(findings, lookup, false))
	default:
		fmt.Print(render.AutoDetectANSI(findings, lookup))
	}

	code := finding.ExitCode(findings, cfg.MinSeverity)
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
