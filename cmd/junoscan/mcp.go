package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/junoscan/internal/logging"
	"github.com/panbanda/junoscan/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start an MCP server on stdio exposing the analysis as tools",
		Description: `Serves analyze_config, find_unused, find_components and export_graph
over the Model Context Protocol. Diagnostics go to stderr; stdout carries
the protocol.`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, logging.Options{
		Verbose:      c.Bool("verbose") || cfg.Output.Verbose,
		EntityFilter: c.String("filter"),
		JSON:         cfg.Output.JSONLog,
	})
	return mcpserver.NewServer(version, cfg, logger).Run(c.Context)
}
