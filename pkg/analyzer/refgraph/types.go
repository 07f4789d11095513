package refgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/panbanda/junoscan/pkg/analyzer/policy"
)

// Node is one entity in the reference graph.
type Node struct {
	ID   string            `json:"id" toon:"id" yaml:"id"`
	Name string            `json:"name" toon:"name" yaml:"name"`
	Type policy.EntityType `json:"type" toon:"type" yaml:"type"`
}

// Edge is a reference from one entity to another.
type Edge struct {
	From string `json:"from" toon:"from" yaml:"from"`
	To   string `json:"to" toon:"to" yaml:"to"`
	Form string `json:"form,omitempty" toon:"form,omitempty" yaml:"form,omitempty"`
}

type edgeKey struct {
	from, to string
}

// Graph is a directed reference graph. Nodes and edges are sets: adding an
// existing node or edge is a no-op.
type Graph struct {
	Nodes []Node `json:"nodes" toon:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" toon:"edges" yaml:"edges"`

	nodeIndex map[string]int
	edgeIndex map[edgeKey]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Nodes:     make([]Node, 0),
		Edges:     make([]Edge, 0),
		nodeIndex: make(map[string]int),
		edgeIndex: make(map[edgeKey]bool),
	}
}

// ensureIndex rebuilds the lookup indexes, which are not serialized.
func (g *Graph) ensureIndex() {
	if g.nodeIndex != nil {
		return
	}
	g.nodeIndex = make(map[string]int, len(g.Nodes))
	g.edgeIndex = make(map[edgeKey]bool, len(g.Edges))
	for i, n := range g.Nodes {
		g.nodeIndex[n.ID] = i
	}
	for _, e := range g.Edges {
		g.edgeIndex[edgeKey{e.From, e.To}] = true
	}
}

// AddNode adds the node for k if it is not already present.
func (g *Graph) AddNode(k policy.Key) string {
	g.ensureIndex()
	id := k.ID()
	if _, ok := g.nodeIndex[id]; ok {
		return id
	}
	g.nodeIndex[id] = len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{ID: id, Name: k.Name, Type: k.Type})
	return id
}

// AddEdge adds an edge between from and to, adding both nodes as needed.
// It reports whether the edge was new.
func (g *Graph) AddEdge(from, to policy.Key, form string) bool {
	g.ensureIndex()
	f, t := g.AddNode(from), g.AddNode(to)
	key := edgeKey{f, t}
	if g.edgeIndex[key] {
		return false
	}
	g.edgeIndex[key] = true
	g.Edges = append(g.Edges, Edge{From: f, To: t, Form: form})
	return true
}

// HasNode reports whether id is a node.
func (g *Graph) HasNode(id string) bool {
	g.ensureIndex()
	_, ok := g.nodeIndex[id]
	return ok
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	g.ensureIndex()
	return g.edgeIndex[edgeKey{from, to}]
}

// Successors returns the sorted targets of edges leaving id.
func (g *Graph) Successors(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	sort.Strings(out)
	return out
}

// Predecessors returns the sorted sources of edges entering id.
func (g *Graph) Predecessors(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	sort.Strings(out)
	return out
}

// ToMermaid renders the graph as a Mermaid flowchart. Mermaid node IDs
// are positional (n0, n1, ...) so that distinct entity names never share
// an ID; the entity ID is the node label.
func (g *Graph) ToMermaid() string {
	g.ensureIndex()
	var b strings.Builder
	b.WriteString("graph LR\n")
	for i, n := range g.Nodes {
		fmt.Fprintf(&b, "    n%d[\"%s\"]\n", i, mermaidLabel.Replace(n.ID))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "    n%d --> n%d\n", g.nodeIndex[e.From], g.nodeIndex[e.To])
	}
	return b.String()
}

// ToDOT renders the graph in Graphviz DOT syntax.
func (g *Graph) ToDOT() string {
	var b strings.Builder
	b.WriteString("digraph references {\n")
	b.WriteString("    rankdir=LR;\n")
	for _, n := range g.Nodes {
		b.WriteString("    " + dotQuote(n.ID) + " [shape=" + dotShape(n.Type) + "];\n")
	}
	for _, e := range g.Edges {
		b.WriteString("    " + dotQuote(e.From) + " -> " + dotQuote(e.To) + ";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func dotShape(t policy.EntityType) string {
	switch t {
	case policy.TypeBGPGroup:
		return "doubleoctagon"
	case policy.TypePolicyStatement:
		return "box"
	default:
		return "ellipse"
	}
}

var (
	dotEscaper   = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	mermaidLabel = strings.NewReplacer(`"`, "#quot;")
)

func dotQuote(id string) string {
	return `"` + dotEscaper.Replace(id) + `"`
}
