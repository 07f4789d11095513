package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/junoscan/internal/cache"
	"github.com/panbanda/junoscan/internal/logging"
	"github.com/panbanda/junoscan/internal/output"
	"github.com/panbanda/junoscan/internal/progress"
	"github.com/panbanda/junoscan/internal/service/analysis"
	"github.com/panbanda/junoscan/pkg/config"
)

// run carries the per-invocation state shared by the commands.
type run struct {
	path   string
	cfg    *config.Config
	logger *slog.Logger
	// quiet suppresses the stage bar.
	quiet      bool
	clearCache bool
}

// newRun resolves the document path, configuration and logger for c.
// The first positional argument is the document; a second one is an
// entity log filter, equivalent to --filter. Flags must come before the
// document: anything after it is positional.
func newRun(c *cli.Context) (*run, error) {
	if c.Args().Len() == 0 {
		return nil, fmt.Errorf("missing configuration file argument")
	}
	for _, arg := range c.Args().Tail() {
		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("flag %s after %s: flags must come before the configuration file", arg, c.Args().First())
		}
	}
	if c.Args().Len() > 2 {
		return nil, fmt.Errorf("unexpected arguments after entity filter: %s", strings.Join(c.Args().Slice()[2:], " "))
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	filter := cfg.Analysis.LogFilter
	if c.IsSet("filter") {
		filter = c.String("filter")
	}
	if c.Args().Len() > 1 {
		filter = c.Args().Get(1)
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}

	logger := logging.New(os.Stderr, logging.Options{
		Verbose:      cfg.Output.Verbose,
		EntityFilter: filter,
		JSON:         cfg.Output.JSONLog,
	})

	return &run{
		path:       c.Args().First(),
		cfg:        cfg,
		logger:     logger,
		clearCache: c.Bool("clear-cache"),
	}, nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

// analyze runs the analysis service over the run's document, showing a
// stage bar on stderr unless debug logging is on.
func (r *run) analyze(ctx context.Context) (*analysis.Result, error) {
	c, err := cache.New(r.cfg.Cache.Dir, r.cfg.Cache.TTL, r.cfg.Cache.Enabled)
	if err != nil {
		r.logger.Warn("cache unavailable", "dir", r.cfg.Cache.Dir, "error", err)
		c, _ = cache.New("", 0, false)
	}
	if r.clearCache {
		if err := c.Clear(); err != nil {
			r.logger.Warn("cache clear failed", "dir", r.cfg.Cache.Dir, "error", err)
		}
	}

	svc := analysis.New(
		analysis.WithConfig(r.cfg),
		analysis.WithCache(c),
		analysis.WithLogger(r.logger),
	)

	var tracker *progress.Tracker
	if !r.quiet && !r.cfg.Output.Verbose {
		tracker = progress.NewStages("Analyzing", analysis.StageCount)
	}
	res, err := svc.AnalyzeFile(ctx, r.path, analysis.Options{OnStage: tracker.Stage})
	if err != nil {
		tracker.FinishError(err)
		return nil, err
	}
	tracker.FinishSuccess()
	return res, nil
}

// formatter opens the output selected by --format and --output, falling
// back to the configured format.
func (r *run) formatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(r.format(c), c.String("output"), r.cfg.Output.Color)
}

func (r *run) format(c *cli.Context) output.Format {
	format := r.cfg.Output.Format
	if c.IsSet("format") || format == "" {
		format = c.String("format")
	}
	return output.ParseFormat(format)
}
