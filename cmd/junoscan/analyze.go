package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/junoscan/internal/output"
	"github.com/panbanda/junoscan/internal/service/analysis"
	"github.com/panbanda/junoscan/pkg/analyzer/policy"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Report unused elements, independent components and diagnostics",
		ArgsUsage: "<config.xml> [entity-filter]",
		Action:    runAnalyzeCmd,
	}
}

func unusedCmd() *cli.Command {
	return &cli.Command{
		Name:      "unused",
		Usage:     "Report only unused elements",
		ArgsUsage: "<config.xml> [entity-filter]",
		Action:    runUnusedCmd,
	}
}

func componentsCmd() *cli.Command {
	return &cli.Command{
		Name:      "components",
		Aliases:   []string{"comp"},
		Usage:     "Report only independent components of the reference graph",
		ArgsUsage: "<config.xml> [entity-filter]",
		Action:    runComponentsCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
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

	sections := []output.Renderable{
		unusedSection(res),
		componentsSection(res),
		summaryTable(res),
	}
	if len(res.Cycles) > 0 {
		sections = append(sections, cyclesSection(res))
	}
	if len(res.Dangling) > 0 {
		sections = append(sections, danglingSection(res))
	}

	return formatter.Output(&output.Report{
		Title:    "Configuration analysis: " + res.Path,
		Sections: sections,
		Data:     res,
	})
}

func runUnusedCmd(c *cli.Context) error {
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

	return formatter.Output(unusedSection(res))
}

func runComponentsCmd(c *cli.Context) error {
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

	return formatter.Output(componentsSection(res))
}

// unusedSection lists unused names per type, one "type: a, b" line each.
func unusedSection(res *analysis.Result) *output.Section {
	var lines []string
	for _, t := range policy.AllTypes {
		if names := res.Unused[t]; len(names) > 0 {
			lines = append(lines, fmt.Sprintf("%s: %s", t, strings.Join(names, ", ")))
		}
	}
	content := strings.Join(lines, "\n")
	if content == "" {
		content = "No unused elements."
	}
	if len(res.EntryPoints) == 0 {
		content = "No active BGP groups; nothing is reachable.\n" + content
	}
	return &output.Section{
		Title:   "Unused elements",
		Content: content,
		Data:    res.Unused,
	}
}

// componentsSection numbers the independent components from 1.
func componentsSection(res *analysis.Result) *output.Section {
	lines := make([]string, 0, len(res.Components))
	for i, comp := range res.Components {
		lines = append(lines, fmt.Sprintf("Component %d: %s", i+1, strings.Join(comp, ", ")))
	}
	content := strings.Join(lines, "\n")
	if content == "" {
		content = "No components."
	}
	return &output.Section{
		Title:   "Independent components",
		Content: content,
		Data:    res.Components,
	}
}

func summaryTable(res *analysis.Result) *output.Table {
	rows := make([][]string, 0, len(res.Summary))
	var defined, used, unused int
	for _, s := range res.Summary {
		rows = append(rows, []string{
			string(s.Type),
			strconv.Itoa(s.Defined),
			strconv.Itoa(s.Used),
			strconv.Itoa(s.Unused),
		})
		defined += s.Defined
		used += s.Used
		unused += s.Unused
	}
	return output.NewTable(
		"Summary",
		[]string{"Type", "Defined", "Used", "Unused"},
		rows,
		[]string{"Total", strconv.Itoa(defined), strconv.Itoa(used), strconv.Itoa(unused)},
		res.Summary,
	)
}

func cyclesSection(res *analysis.Result) *output.Section {
	lines := make([]string, 0, len(res.Cycles))
	for _, cycle := range res.Cycles {
		lines = append(lines, strings.Join(cycle, " <-> "))
	}
	return &output.Section{
		Title:   "Reference cycles",
		Content: strings.Join(lines, "\n"),
		Data:    res.Cycles,
	}
}

func danglingSection(res *analysis.Result) *output.Section {
	lines := make([]string, 0, len(res.Dangling))
	for _, ref := range res.Dangling {
		lines = append(lines, fmt.Sprintf("%s -> %s (%s)", ref.Source, ref.Target, ref.Form))
	}
	return &output.Section{
		Title:   "Undeclared references",
		Content: strings.Join(lines, "\n"),
		Data:    res.Dangling,
	}
}
