package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/junoscan/internal/output"
	"github.com/panbanda/junoscan/pkg/config"
)

func initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Initialize a new junoscan configuration file",
		ArgsUsage: "[path]",
		Description: `Creates junoscan.toml in the current directory with the default
settings, or at the given path.

Examples:
  junoscan init                          # Creates junoscan.toml
  junoscan init .junoscan/junoscan.toml  # Creates config in .junoscan directory
  junoscan init --force                  # Overwrite existing config file`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite existing config file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	outputPath := "junoscan.toml"
	if c.Args().Len() > 0 {
		outputPath = c.Args().First()
	}

	exists := false
	if _, err := os.Stat(outputPath); err == nil {
		if !c.Bool("force") {
			return fmt.Errorf("config file %q already exists (use --force to overwrite)", outputPath)
		}
		exists = true
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	content, err := generateDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	formatter, err := output.NewFormatter(output.FormatText, c.String("output"), true)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if exists {
		formatter.Warning("Overwrote existing %s", outputPath)
	}
	formatter.Success("Created %s", outputPath)
	return nil
}

func generateDefaultConfig() (string, error) {
	content, err := toml.Marshal(config.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# junoscan configuration\n")
	buf.WriteString("# exclude.names maps an entity type (or \"*\") to name globs never reported as unused.\n\n")
	buf.Write(content)
	return buf.String(), nil
}
