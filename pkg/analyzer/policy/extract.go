package policy

import (
	"log/slog"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/panbanda/junoscan/pkg/junos"
)

var (
	policyOptionsExpr = map[EntityType]*xpath.Expr{
		TypePrefixList:      xpath.MustCompile(`//*[local-name()="policy-options"]/*[local-name()="prefix-list"]`),
		TypeCommunity:       xpath.MustCompile(`//*[local-name()="policy-options"]/*[local-name()="community"]`),
		TypeASPath:          xpath.MustCompile(`//*[local-name()="policy-options"]/*[local-name()="as-path"]`),
		TypeASPathGroup:     xpath.MustCompile(`//*[local-name()="policy-options"]/*[local-name()="as-path-group"]`),
		TypePolicyStatement: xpath.MustCompile(`//*[local-name()="policy-options"]/*[local-name()="policy-statement"]`),
	}
	bgpGroupExpr = xpath.MustCompile(`//*[local-name()="bgp"]/*[local-name()="group"]`)
)

// censusSections are counted for diagnostics only.
var censusSections = []string{"groups", "policy-options", "routing-options", "protocols", "bgp", "apply-groups"}

// Extract scans doc for declarations of every entity type and the
// references each declaration makes. A nil logger discards diagnostics.
func Extract(doc *junos.Document, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	x := &extractor{cat: newCatalog(), logger: logger}

	for _, section := range censusSections {
		n := doc.CountElements(section)
		x.cat.Census[section] = n
		logger.Debug("section census", "section", section, "count", n)
	}

	for _, t := range []EntityType{TypePrefixList, TypeCommunity, TypeASPath} {
		for _, el := range doc.Select(policyOptionsExpr[t]) {
			x.declare(t, el)
		}
	}
	for _, el := range doc.Select(policyOptionsExpr[TypeASPathGroup]) {
		x.declareASPathGroup(el)
	}
	for _, el := range doc.Select(policyOptionsExpr[TypePolicyStatement]) {
		if e := x.declare(TypePolicyStatement, el); e != nil {
			e.Refs = policyRefs(e.Key, el)
		}
	}
	for _, el := range doc.Select(bgpGroupExpr) {
		x.declareBGPGroup(el)
	}

	for _, t := range AllTypes {
		logger.Debug("declarations", "type", t, "count", x.cat.DefinedBitmap(t).GetCardinality())
	}
	return x.cat
}

type extractor struct {
	cat    *Catalog
	logger *slog.Logger
}

// declare registers el as a declaration of type t. Declarations without a
// name are logged and skipped.
func (x *extractor) declare(t EntityType, el *xmlquery.Node) *Entity {
	name := junos.Name(el)
	if name == "" {
		x.cat.Warnings++
		x.logger.Warn("declaration without name skipped", "type", t, "path", junos.Path(el))
		return nil
	}

	prov := ProvenanceGlobal
	if junos.HasAncestor(el, "groups") {
		prov = ProvenanceInGroups
	}
	e := &Entity{
		Key:        Key{Type: t, Name: name},
		Location:   junos.Path(el),
		Provenance: prov,
	}
	x.cat.add(e)
	x.logger.Debug("declaration", "entity", e.ID(), "path", e.Location, "provenance", string(prov))
	return e
}

func (x *extractor) declareASPathGroup(el *xmlquery.Node) {
	g := x.declare(TypeASPathGroup, el)
	if g == nil {
		return
	}
	for _, ap := range junos.Children(el, "as-path") {
		member := x.declare(TypeASPath, ap)
		if member == nil {
			continue
		}
		g.Members = append(g.Members, member.Name)
		g.Refs = append(g.Refs, Reference{
			Source: g.Key,
			Target: member.Key,
			Form:   FormGroupMember,
		})
	}
}

func (x *extractor) declareBGPGroup(el *xmlquery.Node) {
	g := x.declare(TypeBGPGroup, el)
	if g == nil {
		return
	}

	g.Refs = append(g.Refs, chainRefs(g.Key, el)...)
	for _, nb := range junos.Children(el, "neighbor") {
		if junos.Name(nb) == "" {
			continue
		}
		g.Active = true
		g.Refs = append(g.Refs, chainRefs(g.Key, nb)...)
	}
	if !g.Active {
		x.logger.Debug("bgp group has no neighbors", "entity", g.ID())
	}
}

// chainRefs collects the import and export policy chains configured
// directly on el.
func chainRefs(src Key, el *xmlquery.Node) []Reference {
	var refs []Reference
	for _, field := range []string{FormImport, FormExport} {
		for _, clause := range junos.Children(el, field) {
			var raw []string
			if names := junos.Children(clause, "policy-name"); len(names) > 0 {
				for _, n := range names {
					raw = append(raw, junos.Text(n))
				}
			} else {
				raw = append(raw, junos.Text(clause))
			}
			for _, r := range raw {
				for _, name := range NormalizeChain(r) {
					refs = append(refs, Reference{
						Source: src,
						Target: Key{Type: TypePolicyStatement, Name: name},
						Form:   field,
					})
				}
			}
		}
	}
	return refs
}

// policyRefs collects every reference made anywhere inside a
// policy-statement element.
func policyRefs(src Key, ps *xmlquery.Node) []Reference {
	var refs []Reference
	add := func(t EntityType, name, form string) {
		if name == "" {
			return
		}
		refs = append(refs, Reference{Source: src, Target: Key{Type: t, Name: name}, Form: form})
	}
	addChain := func(raw, form string) {
		for _, name := range NormalizeChain(raw) {
			add(TypePolicyStatement, name, form)
		}
	}

	junos.Walk(ps, func(el *xmlquery.Node) bool {
		inFrom := junos.ParentName(el) == "from"
		switch el.Data {
		case "prefix-list-name":
			add(TypePrefixList, junos.Text(el), FormPrefixListName)
		case "prefix-list":
			if inFrom {
				add(TypePrefixList, nameOrText(el), FormFromPrefixList)
			}
		case "prefix-list-filter":
			add(TypePrefixList, junos.Text(junos.Child(el, "list_name")), FormPrefixListFilter)
		case "community":
			if inFrom && junos.IsLeaf(el) {
				add(TypeCommunity, junos.Text(el), FormFromCommunity)
			}
		case "community-name":
			add(TypeCommunity, junos.Text(el), FormCommunityName)
		case "as-path":
			if inFrom {
				add(TypeASPath, nameOrText(el), FormFromASPath)
			}
		case "as-path-group":
			if inFrom {
				add(TypeASPathGroup, nameOrText(el), FormFromASPathGroup)
			}
		case "policy":
			if inFrom {
				addChain(junos.Text(el), FormFromPolicy)
			}
		case "apply-policy":
			addChain(junos.Text(el), FormApplyPolicy)
		case "policy-name":
			addChain(junos.Text(el), FormPolicyName)
		}
		return true
	})
	return refs
}

// nameOrText returns the <name> child of el, or el's own text for the leaf
// form.
func nameOrText(el *xmlquery.Node) string {
	if junos.IsLeaf(el) {
		return junos.Text(el)
	}
	return junos.Text(junos.Child(el, "name"))
}
