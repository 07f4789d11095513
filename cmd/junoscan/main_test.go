package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/junoscan/pkg/junos"
)

const fixture = "testdata/router.xml"

// runApp runs the CLI with args and returns what it wrote to --output.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	argv := append([]string{"junoscan", "--no-cache", "-o", out}, args...)
	err := newApp().Run(argv)
	data, _ := os.ReadFile(out)
	return string(data), err
}

func TestDefaultActionAnalyzes(t *testing.T) {
	out, err := runApp(t, fixture)
	require.NoError(t, err)

	assert.Contains(t, out, "Unused elements")
	assert.Contains(t, out, "policy-statement: A")
	assert.NotContains(t, out, "prefix-list: PL1")
	assert.Contains(t, out, "Independent components")
	assert.Contains(t, out, "Component 1: bgp-group.G, policy-statement.B, prefix-list.PL1")
	assert.Contains(t, out, "Component 2: policy-statement.A")
	assert.Contains(t, out, "Summary")
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := runApp(t, "-f", "json", "analyze", fixture)
	require.NoError(t, err)

	var res struct {
		EntryPoints []string            `json:"entry_points"`
		Unused      map[string][]string `json:"unused"`
		Components  [][]string          `json:"independent_components"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"G"}, res.EntryPoints)
	assert.Equal(t, map[string][]string{"policy-statement": {"A"}}, res.Unused)
	assert.Len(t, res.Components, 2)
}

func TestUnusedCommand(t *testing.T) {
	out, err := runApp(t, "unused", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "policy-statement: A")
	assert.NotContains(t, out, "Independent components")
}

func TestComponentsCommand(t *testing.T) {
	out, err := runApp(t, "-f", "markdown", "components", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "## Independent components")
	assert.Contains(t, out, "Component 2: policy-statement.A")
}

func TestGraphCommand(t *testing.T) {
	tests := []struct {
		name string
		as   string
		want []string
	}{
		{"edges", "edges", []string{"bgp-group.G", "policy-statement.B", "prefix-list.PL1"}},
		{"mermaid", "mermaid", []string{"graph LR", "-->"}},
		{"dot", "dot", []string{"digraph", "->"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, "graph", "--as", tt.as, fixture)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestGraphCommandRejectsUnknownRendering(t *testing.T) {
	_, err := runApp(t, "graph", "--as", "svg", fixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "svg")
}

func TestGraphNodeDependencies(t *testing.T) {
	out, err := runApp(t, "-f", "json", "graph", "--node", "policy-statement.B", fixture)
	require.NoError(t, err)

	var deps struct {
		Node         string   `json:"node"`
		DependsOn    []string `json:"depends_on"`
		ReferencedBy []string `json:"referenced_by"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &deps))
	assert.Equal(t, "policy-statement.B", deps.Node)
	assert.Equal(t, []string{"prefix-list.PL1"}, deps.DependsOn)
	assert.Equal(t, []string{"bgp-group.G"}, deps.ReferencedBy)

	out, err = runApp(t, "graph", "--node", "prefix-list.PL1", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Dependencies of prefix-list.PL1")
	assert.Contains(t, out, "referenced by")
	assert.Contains(t, out, "policy-statement.B")
}

func TestGraphNodeUnknown(t *testing.T) {
	_, err := runApp(t, "graph", "--node", "policy-statement.NOPE", fixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy-statement.NOPE")
}

func TestFlagsAfterDocumentRejected(t *testing.T) {
	_, err := runApp(t, "graph", fixture, "--as", "dot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flags must come before the configuration file")

	_, err = runApp(t, "analyze", fixture, "bgp-group", "extra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extra")
}

func TestTreeFind(t *testing.T) {
	out, err := runApp(t, "tree", "--find", "PL1", fixture)
	require.NoError(t, err)
	assert.Equal(t,
		"policy-options > prefix-list PL1\n"+
			"policy-options > policy-statement B > term allow > from > prefix-list PL1\n",
		out)

	out, err = runApp(t, "tree", "--find", "nothing-here", fixture)
	require.NoError(t, err)
	assert.Equal(t, "No nodes match nothing-here.\n", out)
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "junoscan.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[cache]\nenabled = true\ndir = \""+filepath.ToSlash(cacheDir)+"\"\nttl = 1\n"), 0o644))
	out := filepath.Join(dir, "out")

	require.NoError(t, newApp().Run([]string{"junoscan", "-c", cfgPath, "-o", out, "unused", fixture}))
	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stale := filepath.Join(cacheDir, "stale.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o600))

	require.NoError(t, newApp().Run([]string{"junoscan", "-c", cfgPath, "-o", out, "--clear-cache", "unused", fixture}))
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale entry should be removed")
	entries, err = os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the run writes a fresh entry")
}

func TestTreeCommand(t *testing.T) {
	out, err := runApp(t, "tree", "--depth", "2", fixture)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "configuration\n"))
	assert.Contains(t, out, "  policy-options")
	assert.NotContains(t, out, "policy-statement")
}

func TestInputErrors(t *testing.T) {
	dir := t.TempDir()
	malformed := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(malformed, []byte("<rpc-reply><configuration>"), 0o644))
	bare := filepath.Join(dir, "bare.xml")
	require.NoError(t, os.WriteFile(bare, []byte("<configuration/>"), 0o644))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", filepath.Join(dir, "absent.xml"), junos.ErrNotFound},
		{"malformed", malformed, junos.ErrMalformed},
		{"no envelope", bare, junos.ErrNoConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMissingArgument(t *testing.T) {
	_, err := runApp(t, "unused")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing configuration file")
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "junoscan.toml")

	out, err := runApp(t, "init", path)
	require.NoError(t, err)
	assert.Equal(t, "Created "+path+"\n", out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[analysis]")
	assert.Contains(t, string(data), "[cache]")

	_, err = runApp(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, err = runApp(t, "init", "--force", path)
	require.NoError(t, err)
	assert.Equal(t, "WARNING: Overwrote existing "+path+"\nCreated "+path+"\n", out)
}

func TestConfigFileExcludes(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "junoscan.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("exclude:\n  names:\n    policy-statement: [\"A\"]\n"), 0o644))

	out, err := runApp(t, "-c", cfgPath, "unused", fixture)
	require.NoError(t, err)
	assert.NotContains(t, out, "policy-statement: A")
	assert.Contains(t, out, "No unused elements.")
}
