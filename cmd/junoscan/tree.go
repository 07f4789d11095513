package main

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/junoscan/internal/output"
	"github.com/panbanda/junoscan/pkg/junos"
)

func treeCmd() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the configuration hierarchy",
		ArgsUsage: "<config.xml>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "depth",
				Value: 0,
				Usage: "Maximum depth to print (0 for unlimited)",
			},
			&cli.StringFlag{
				Name:  "find",
				Usage: "List the location of every node whose label contains this string",
			},
		},
		Action: runTreeCmd,
	}
}

func runTreeCmd(c *cli.Context) error {
	r, err := newRun(c)
	if err != nil {
		return err
	}

	doc, err := junos.Load(r.path)
	if err != nil {
		return err
	}
	tree := junos.BuildTree(doc.Configuration)
	r.logger.Debug("tree built", "path", r.path, "nodes", len(tree.Nodes))

	formatter, err := r.formatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if find := c.String("find"); find != "" {
		return formatter.Output(findNodes(tree, find))
	}

	var b strings.Builder
	tree.Render(&b, c.Int("depth"))
	return formatter.Output(&output.Raw{Text: b.String(), Data: tree})
}

type nodeLocation struct {
	ID   junos.NodeID `json:"id" toon:"id" yaml:"id"`
	Path string       `json:"path" toon:"path" yaml:"path"`
}

func findNodes(tree *junos.Tree, find string) *output.Raw {
	locs := make([]nodeLocation, 0)
	var b strings.Builder
	tree.Walk(func(n *junos.TreeNode, depth int) bool {
		if n.Parent != junos.NoParent && strings.Contains(n.Label(), find) {
			loc := nodeLocation{ID: n.ID, Path: tree.Path(n.ID)}
			locs = append(locs, loc)
			b.WriteString(loc.Path + "\n")
		}
		return true
	})
	if len(locs) == 0 {
		b.WriteString("No nodes match " + find + ".\n")
	}
	return &output.Raw{Text: b.String(), Data: locs}
}
