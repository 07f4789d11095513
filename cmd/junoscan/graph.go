package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/junoscan/internal/output"
	"github.com/panbanda/junoscan/pkg/analyzer/refgraph"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"dag"},
		Usage:     "Export the reference graph",
		ArgsUsage: "<config.xml> [entity-filter]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "as",
				Value: "edges",
				Usage: "Graph rendering: edges, mermaid, dot",
			},
			&cli.StringFlag{
				Name:  "node",
				Usage: "Show what one entity (type.name) depends on and what references it",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	as := c.String("as")
	switch as {
	case "edges", "mermaid", "dot":
	default:
		return fmt.Errorf("unknown graph rendering %q (want edges, mermaid or dot)", as)
	}

	r, err := newRun(c)
	if err != nil {
		return err
	}
	res, err := r.analyze(c.Context)
	if err != nil {
		return err
	}

	formatter, err := r.formatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	g := res.Graph
	if id := c.String("node"); id != "" {
		return nodeDependencies(formatter, g, id)
	}

	switch as {
	case "mermaid":
		return formatter.Output(&output.Raw{Text: g.ToMermaid(), Language: "mermaid", Data: g})
	case "dot":
		return formatter.Output(&output.Raw{Text: g.ToDOT(), Language: "dot", Data: g})
	}

	rows := make([][]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		rows = append(rows, []string{e.From, e.To, e.Form})
	}
	return formatter.Output(output.NewTable(
		fmt.Sprintf("Reference graph (%d nodes, %d edges)", len(g.Nodes), len(g.Edges)),
		[]string{"From", "To", "Form"},
		rows,
		nil,
		g,
	))
}

// nodeDependencies lists the direct successors and predecessors of id.
func nodeDependencies(formatter *output.Formatter, g *refgraph.Graph, id string) error {
	if !g.HasNode(id) {
		return fmt.Errorf("no graph node %q (expected type.name, e.g. policy-statement.EXPORT)", id)
	}

	deps := struct {
		Node         string   `json:"node" toon:"node" yaml:"node"`
		DependsOn    []string `json:"depends_on" toon:"depends_on" yaml:"depends_on"`
		ReferencedBy []string `json:"referenced_by" toon:"referenced_by" yaml:"referenced_by"`
	}{
		Node:         id,
		DependsOn:    g.Successors(id),
		ReferencedBy: g.Predecessors(id),
	}

	rows := make([][]string, 0, len(deps.DependsOn)+len(deps.ReferencedBy))
	for _, to := range deps.DependsOn {
		rows = append(rows, []string{"depends on", to})
	}
	for _, from := range deps.ReferencedBy {
		rows = append(rows, []string{"referenced by", from})
	}
	return formatter.Output(output.NewTable(
		"Dependencies of "+id,
		[]string{"Relation", "Entity"},
		rows,
		nil,
		deps,
	))
}
