package refgraph

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// gonumGraph holds the gonum representation and mappings.
type gonumGraph struct {
	directed   *simple.DirectedGraph
	undirected *simple.UndirectedGraph
	nodeIDToID map[string]int64
	idToNodeID map[int64]string
}

// toGonumGraph converts g to gonum graph types. Self-loops are dropped
// because gonum simple graphs do not support them; they do not affect
// connectivity.
func toGonumGraph(g *Graph) *gonumGraph {
	gg := &gonumGraph{
		directed:   simple.NewDirectedGraph(),
		undirected: simple.NewUndirectedGraph(),
		nodeIDToID: make(map[string]int64),
		idToNodeID: make(map[int64]string),
	}

	for i, n := range g.Nodes {
		id := int64(i)
		gg.nodeIDToID[n.ID] = id
		gg.idToNodeID[id] = n.ID
		gg.directed.AddNode(simple.Node(id))
		gg.undirected.AddNode(simple.Node(id))
	}

	for _, e := range g.Edges {
		from, fromOK := gg.nodeIDToID[e.From]
		to, toOK := gg.nodeIDToID[e.To]
		if !fromOK || !toOK || from == to {
			continue
		}
		gg.directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		if !gg.undirected.HasEdgeBetween(from, to) {
			gg.undirected.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	return gg
}

func (gg *gonumGraph) ids(nodes []graph.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, gg.idToNodeID[n.ID()])
	}
	sort.Strings(out)
	return out
}

// WeakComponents returns the weakly-connected components of g, each sorted,
// ordered largest first and then by first node.
func WeakComponents(g *Graph) [][]string {
	if len(g.Nodes) == 0 {
		return nil
	}
	gg := toGonumGraph(g)

	var comps [][]string
	for _, c := range topo.ConnectedComponents(gg.undirected) {
		comps = append(comps, gg.ids(c))
	}
	sortComponents(comps)
	return comps
}

// IsIndependent reports whether no edge of g enters comp from a node outside
// comp. Outbound edges leaving comp are not considered.
func IsIndependent(g *Graph, comp []string) bool {
	in := make(map[string]bool, len(comp))
	for _, id := range comp {
		in[id] = true
	}
	for _, e := range g.Edges {
		if in[e.To] && !in[e.From] {
			return false
		}
	}
	return true
}

// IndependentComponents returns the weakly-connected components of g that
// have no inbound edge from outside themselves.
func IndependentComponents(g *Graph) [][]string {
	var out [][]string
	for _, comp := range WeakComponents(g) {
		if IsIndependent(g, comp) {
			out = append(out, comp)
		}
	}
	return out
}

// Cycles returns the reference cycles of g: strongly-connected components
// with more than one node, plus nodes with a self-loop.
func Cycles(g *Graph) [][]string {
	if len(g.Nodes) == 0 {
		return nil
	}
	gg := toGonumGraph(g)

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(gg.directed) {
		if len(scc) > 1 {
			cycles = append(cycles, gg.ids(scc))
		}
	}
	for _, e := range g.Edges {
		if e.From == e.To {
			cycles = append(cycles, []string{e.From})
		}
	}
	sortComponents(cycles)
	return cycles
}

func sortComponents(comps [][]string) {
	sort.SliceStable(comps, func(i, j int) bool {
		if len(comps[i]) != len(comps[j]) {
			return len(comps[i]) > len(comps[j])
		}
		return comps[i][0] < comps[j][0]
	})
}
