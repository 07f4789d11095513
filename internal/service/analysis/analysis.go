package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/panbanda/junoscan/internal/cache"
	"github.com/panbanda/junoscan/pkg/analyzer/policy"
	"github.com/panbanda/junoscan/pkg/analyzer/refgraph"
	"github.com/panbanda/junoscan/pkg/config"
	"github.com/panbanda/junoscan/pkg/junos"
)

// Stages reported through Options.OnStage, in order.
const (
	StageLoad    = "load"
	StageExtract = "extract"
	StageResolve = "resolve"
	StageGraph   = "graph"
)

// StageCount is the number of stages a full run reports.
const StageCount = 4

// Service orchestrates one analysis run over a configuration document.
type Service struct {
	config *config.Config
	cache  *cache.Cache
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache sets the result cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the run-scoped logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache, _ = cache.New("", 0, false)
	}
	return s
}

// Options configures a single run.
type Options struct {
	OnStage func(stage string)
}

func (o Options) stage(name string) {
	if o.OnStage != nil {
		o.OnStage(name)
	}
}

// TypeSummary counts the entities of one type.
type TypeSummary struct {
	Type    policy.EntityType `json:"type" yaml:"type" toon:"type"`
	Defined int               `json:"defined" yaml:"defined" toon:"defined"`
	Used    int               `json:"used" yaml:"used" toon:"used"`
	Unused  int               `json:"unused" yaml:"unused" toon:"unused"`
}

// Result is the outcome of one run.
type Result struct {
	Path        string                         `json:"path" yaml:"path" toon:"path"`
	Census      map[string]int                 `json:"census,omitempty" yaml:"census,omitempty" toon:"census,omitempty"`
	EntryPoints []string                       `json:"entry_points" yaml:"entry_points" toon:"entry_points"`
	Summary     []TypeSummary                  `json:"summary" yaml:"summary" toon:"summary"`
	Unused      map[policy.EntityType][]string `json:"unused" yaml:"unused" toon:"unused"`
	Excluded    []string                       `json:"excluded,omitempty" yaml:"excluded,omitempty" toon:"excluded,omitempty"`
	Components  [][]string                     `json:"independent_components" yaml:"independent_components" toon:"independent_components"`
	Cycles      [][]string                     `json:"cycles,omitempty" yaml:"cycles,omitempty" toon:"cycles,omitempty"`
	Dangling    []policy.Reference             `json:"dangling,omitempty" yaml:"dangling,omitempty" toon:"dangling,omitempty"`
	Warnings    int                            `json:"warnings" yaml:"warnings" toon:"warnings"`
	Graph       *refgraph.Graph                `json:"graph" yaml:"graph" toon:"graph"`
	Cached      bool                           `json:"-" yaml:"-" toon:"-"`
}

// AnalyzeFile loads the document at path and analyzes it. Input errors
// (missing file, malformed XML, missing configuration envelope) are
// returned wrapped around the junos sentinel errors.
func (s *Service) AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.stage(StageLoad)
	data, err := junos.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key := cacheKey(path)
	hash := cache.HashParts(data, s.fingerprint())
	if cached, ok := s.cache.GetWithHash(key, hash); ok {
		var res Result
		if err := json.Unmarshal(cached, &res); err == nil {
			s.logger.Debug("cache hit", "path", path)
			res.Cached = true
			return &res, nil
		}
	}

	doc, err := junos.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	s.logger.Debug("document loaded", "path", path, "bytes", doc.Size, "namespaces", fmt.Sprint(doc.Namespaces))

	res, err := s.AnalyzeDocument(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		if encoded, err := json.Marshal(res); err == nil {
			if err := s.cache.SetWithHash(key, hash, encoded); err != nil {
				s.logger.Warn("cache write failed", "path", path, "error", err)
			}
		}
	}
	return res, nil
}

// AnalyzeDocument runs extraction, reachability, unused detection and
// component partitioning over an already parsed document.
func (s *Service) AnalyzeDocument(ctx context.Context, doc *junos.Document, opts Options) (*Result, error) {
	opts.stage(StageExtract)
	cat := policy.Extract(doc, s.logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.stage(StageResolve)
	entryPoints := cat.EntryPoints()
	if len(entryPoints) == 0 {
		s.logger.Info("no active bgp groups; every declaration is unused")
	}
	used := policy.NewResolver(cat, s.logger).Resolve(entryPoints)
	unused := policy.DetectUnused(cat, used)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.stage(StageGraph)
	g := refgraph.Build(cat, s.logger)

	res := &Result{
		Path:        doc.Path,
		Census:      cat.Census,
		EntryPoints: entryPoints,
		Unused:      make(map[policy.EntityType][]string),
		Components:  refgraph.IndependentComponents(g),
		Warnings:    cat.Warnings,
		Graph:       g,
	}
	if s.config.Analysis.Cycles {
		res.Cycles = refgraph.Cycles(g)
	}
	if s.config.Analysis.Dangling {
		res.Dangling = cat.Dangling()
	}

	for _, t := range policy.AllTypes {
		names := unused[t]
		res.Summary = append(res.Summary, TypeSummary{
			Type:    t,
			Defined: int(cat.DefinedBitmap(t).GetCardinality()),
			Used:    used.Len(t),
			Unused:  len(names),
		})

		if !s.config.ReportsType(string(t)) {
			continue
		}
		for _, name := range names {
			if s.config.ShouldExclude(string(t), name) {
				res.Excluded = append(res.Excluded, policy.Key{Type: t, Name: name}.ID())
				continue
			}
			res.Unused[t] = append(res.Unused[t], name)
		}
	}

	s.logger.Debug("analysis complete",
		"entry_points", len(entryPoints),
		"components", len(res.Components),
		"nodes", len(g.Nodes),
		"edges", len(g.Edges))
	return res, nil
}

// fingerprint captures the settings that change a result, so cached
// results are not reused across different settings.
func (s *Service) fingerprint() []byte {
	a := s.config.Analysis
	parts := []string{
		fmt.Sprintf("cycles=%t", a.Cycles),
		fmt.Sprintf("dangling=%t", a.Dangling),
		"types=" + strings.Join(a.Types, ","),
	}
	if names, err := json.Marshal(s.config.Exclude.Names); err == nil {
		parts = append(parts, "exclude="+string(names))
	}
	return []byte(strings.Join(parts, ";"))
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return "analysis:" + abs
	}
	return "analysis:" + path
}
