package policy

import (
	"log/slog"

	"github.com/RoaringBitmap/roaring/v2"
)

// UsedSet holds, per entity type, the IDs of entities reachable from the
// active entry points. It only ever grows during a resolution.
type UsedSet struct {
	symbols *Symbols
	bits    map[EntityType]*roaring.Bitmap
}

func newUsedSet(symbols *Symbols) *UsedSet {
	u := &UsedSet{symbols: symbols, bits: make(map[EntityType]*roaring.Bitmap)}
	for _, t := range AllTypes {
		u.bits[t] = roaring.New()
	}
	return u
}

func (u *UsedSet) mark(k Key) {
	u.bits[k.Type].Add(u.symbols.Intern(k))
}

// Contains reports whether k was reached.
func (u *UsedSet) Contains(k Key) bool {
	id, ok := u.symbols.Lookup(k)
	if !ok {
		return false
	}
	return u.bits[k.Type].Contains(id)
}

// Bitmap returns the used IDs of type t.
func (u *UsedSet) Bitmap(t EntityType) *roaring.Bitmap {
	if bm, ok := u.bits[t]; ok {
		return bm
	}
	return roaring.New()
}

// Names returns the sorted used names of type t.
func (u *UsedSet) Names(t EntityType) []string {
	return u.symbols.Names(u.bits[t])
}

// Len returns the number of used entities of type t.
func (u *UsedSet) Len(t EntityType) int {
	return int(u.Bitmap(t).GetCardinality())
}

// Resolver computes reachability over a catalog.
type Resolver struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewResolver creates a resolver for cat. A nil logger discards diagnostics.
func NewResolver(cat *Catalog, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{catalog: cat, logger: logger}
}

// Resolve marks every entity reachable from the named BGP groups. Groups
// that are not declared or have no neighbor are skipped.
func (r *Resolver) Resolve(entryPoints []string) *UsedSet {
	pass := &resolution{
		catalog: r.catalog,
		logger:  r.logger,
		used:    newUsedSet(r.catalog.symbols),
		visited: make(map[Key]bool),
	}

	for _, name := range entryPoints {
		group := Key{Type: TypeBGPGroup, Name: name}
		if !r.catalog.IsDefined(group) {
			r.logger.Warn("entry point not declared", "entity", group.ID())
			continue
		}
		if !r.catalog.IsActive(name) {
			r.logger.Debug("inactive bgp group ignored", "entity", group.ID())
			continue
		}
		pass.used.mark(group)
		pass.expand(group)
	}
	return pass.used
}

// Resolve is shorthand for resolving cat from its own active BGP groups.
func Resolve(cat *Catalog, logger *slog.Logger) *UsedSet {
	return NewResolver(cat, logger).Resolve(cat.EntryPoints())
}

// resolution is the state of one Resolve call. The visited set guards
// against reference cycles between policies.
type resolution struct {
	catalog *Catalog
	logger  *slog.Logger
	used    *UsedSet
	visited map[Key]bool
}

func (p *resolution) expand(src Key) {
	if p.visited[src] {
		return
	}
	p.visited[src] = true

	for _, ref := range p.catalog.Refs(src) {
		target := ref.Target
		if !p.catalog.IsDefined(target) {
			p.logger.Debug("reference to undeclared entity",
				"entity", src.ID(), "target", target.ID(), "form", ref.Form)
			continue
		}
		p.used.mark(target)
		p.logger.Debug("reference resolved", "entity", target.ID(), "from", src.ID(), "form", ref.Form)

		switch target.Type {
		case TypePolicyStatement, TypeASPathGroup:
			p.expand(target)
		}
	}
}
