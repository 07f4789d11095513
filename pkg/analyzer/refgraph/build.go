package refgraph

import (
	"log/slog"

	"github.com/panbanda/junoscan/pkg/analyzer/policy"
)

// sourceTypes are the entity types whose outgoing references become edges.
// Every declaration of these types is a node, referenced or not.
var sourceTypes = []policy.EntityType{
	policy.TypePolicyStatement,
	policy.TypeBGPGroup,
	policy.TypeASPathGroup,
}

// Build creates the reference graph of the whole configuration, regardless
// of which BGP groups are active. References to undeclared entities produce
// no edge. A nil logger discards diagnostics.
func Build(cat *policy.Catalog, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := New()

	for _, t := range sourceTypes {
		for _, name := range cat.Defined(t) {
			src := policy.Key{Type: t, Name: name}
			g.AddNode(src)

			for _, ref := range cat.Refs(src) {
				if !cat.IsDefined(ref.Target) {
					continue
				}
				if g.AddEdge(src, ref.Target, ref.Form) {
					logger.Debug("edge added", "entity", src.ID(), "target", ref.Target.ID(), "form", ref.Form)
				}
			}
		}
	}

	logger.Debug("graph built", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g
}
