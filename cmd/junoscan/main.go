package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "junoscan",
		Usage:     "Find unused policy objects in Junos XML configurations",
		Version:   version,
		ArgsUsage: "<config.xml> [entity-filter]",
		Description: `junoscan reads a Junos configuration exported with
"show configuration | display xml" and reports prefix-lists, communities,
as-paths, as-path-groups, policy-statements and BGP groups that no active
BGP group can reach. It also partitions the reference graph into
independent components.

Running junoscan with a file and no command runs "analyze".`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"JUNOSCAN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, toon, yaml",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "clear-cache",
				Usage: "Remove cached results before analyzing",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Only log diagnostics about entities whose type.name contains this string",
			},
		},
		Action: runAnalyzeCmd,
		Commands: []*cli.Command{
			analyzeCmd(),
			unusedCmd(),
			componentsCmd(),
			graphCmd(),
			treeCmd(),
			initCmd(),
			watchCmd(),
			mcpCmd(),
		},
	}
}
