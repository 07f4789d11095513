package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/panbanda/junoscan/internal/output"
	"github.com/panbanda/junoscan/internal/service/analysis"
	"github.com/panbanda/junoscan/pkg/analyzer/policy"
	"github.com/panbanda/junoscan/pkg/config"
)

// AnalyzeInput is the base input for all tools.
type AnalyzeInput struct {
	Path   string `json:"path" jsonschema:"Path to a Junos configuration exported as XML."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// UnusedInput adds unused-report options.
type UnusedInput struct {
	AnalyzeInput
	Types []string `json:"types,omitempty" jsonschema:"Entity types to report, e.g. policy-statement. Defaults to all."`
}

// GraphInput adds graph rendering options.
type GraphInput struct {
	AnalyzeInput
	Render string `json:"render,omitempty" jsonschema:"Graph rendering: data (default), mermaid, or dot."`
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// analyze runs the service with cfg. Input errors become tool errors, not
// protocol errors.
func (s *Server) analyze(ctx context.Context, input AnalyzeInput, cfg *config.Config) (*analysis.Result, error) {
	if input.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(s.logger))
	return svc.AnalyzeFile(ctx, input.Path, analysis.Options{})
}

func (s *Server) handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	res, err := s.analyze(ctx, input, s.config)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(res, getFormat(input))
}

func (s *Server) handleUnused(ctx context.Context, req *mcp.CallToolRequest, input UnusedInput) (*mcp.CallToolResult, any, error) {
	cfg := *s.config
	if len(input.Types) > 0 {
		for _, t := range input.Types {
			if _, ok := policy.ParseEntityType(t); !ok {
				return toolError(fmt.Sprintf("unknown entity type %q", t))
			}
		}
		cfg.Analysis.Types = input.Types
	}

	res, err := s.analyze(ctx, input.AnalyzeInput, &cfg)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(struct {
		Unused   map[policy.EntityType][]string `json:"unused" toon:"unused"`
		Summary  []analysis.TypeSummary         `json:"summary" toon:"summary"`
		Excluded []string                       `json:"excluded,omitempty" toon:"excluded,omitempty"`
	}{res.Unused, res.Summary, res.Excluded}, getFormat(input.AnalyzeInput))
}

func (s *Server) handleComponents(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	res, err := s.analyze(ctx, input, s.config)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(struct {
		Components [][]string `json:"independent_components" toon:"independent_components"`
		Cycles     [][]string `json:"cycles,omitempty" toon:"cycles,omitempty"`
	}{res.Components, res.Cycles}, getFormat(input))
}

func (s *Server) handleGraph(ctx context.Context, req *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, any, error) {
	res, err := s.analyze(ctx, input.AnalyzeInput, s.config)
	if err != nil {
		return toolError(err.Error())
	}

	switch input.Render {
	case "", "data":
		return toolResult(res.Graph, getFormat(input.AnalyzeInput))
	case "mermaid":
		return textResult(res.Graph.ToMermaid()), nil, nil
	case "dot":
		return textResult(res.Graph.ToDOT()), nil, nil
	default:
		return toolError(fmt.Sprintf("unknown render %q (want data, mermaid or dot)", input.Render))
	}
}
