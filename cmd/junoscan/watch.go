package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/junoscan/internal/output"
	"github.com/panbanda/junoscan/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-run the unused report whenever the configuration file changes",
		ArgsUsage: "<config.xml> [entity-filter]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 0,
				Usage: "Quiet period before re-analyzing (default 500ms)",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	r, err := newRun(c)
	if err != nil {
		return err
	}
	r.quiet = true

	report := func(ctx context.Context) {
		res, err := r.analyze(ctx)
		if err != nil {
			color.Red("Error: %v", err)
			return
		}
		formatter := output.NewWriterFormatter(r.format(c), os.Stdout, r.cfg.Output.Color)
		if err := formatter.Output(&output.Report{
			Sections: []output.Renderable{unusedSection(res), componentsSection(res)},
			Data:     res,
		}); err != nil {
			color.Red("Error: %v", err)
		}
		fmt.Println()
	}

	watcher, err := watch.NewWatcher(r.path, c.Duration("debounce"), r.logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report(ctx)
	watcher.SetCallback(func(path string) {
		color.Yellow("File changed: %s", path)
		report(ctx)
	})

	if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
