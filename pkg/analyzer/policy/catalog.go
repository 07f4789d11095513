package policy

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Symbols interns entity keys into dense uint32 IDs so that per-type name
// sets can be held in bitmaps.
type Symbols struct {
	ids  map[Key]uint32
	keys []Key
}

// NewSymbols creates an empty symbol table.
func NewSymbols() *Symbols {
	return &Symbols{ids: make(map[Key]uint32)}
}

// Intern returns the ID of k, assigning one if needed.
func (s *Symbols) Intern(k Key) uint32 {
	if id, ok := s.ids[k]; ok {
		return id
	}
	id := uint32(len(s.keys))
	s.ids[k] = id
	s.keys = append(s.keys, k)
	return id
}

// Lookup returns the ID of k if it has been interned.
func (s *Symbols) Lookup(k Key) (uint32, bool) {
	id, ok := s.ids[k]
	return id, ok
}

// Key returns the key for id.
func (s *Symbols) Key(id uint32) Key {
	return s.keys[id]
}

// Names returns the sorted names of the keys in bm.
func (s *Symbols) Names(bm *roaring.Bitmap) []string {
	if bm == nil || bm.IsEmpty() {
		return nil
	}
	names := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		names = append(names, s.keys[it.Next()].Name)
	}
	sort.Strings(names)
	return names
}

// Catalog holds every declaration found in one configuration. Declarations
// sharing a type and name are merged into one logical entity.
type Catalog struct {
	symbols  *Symbols
	decls    map[Key][]*Entity
	defined  map[EntityType]*roaring.Bitmap
	Census   map[string]int `json:"census,omitempty"`
	Warnings int            `json:"warnings"`
}

func newCatalog() *Catalog {
	c := &Catalog{
		symbols: NewSymbols(),
		decls:   make(map[Key][]*Entity),
		defined: make(map[EntityType]*roaring.Bitmap),
		Census:  make(map[string]int),
	}
	for _, t := range AllTypes {
		c.defined[t] = roaring.New()
	}
	return c
}

func (c *Catalog) add(e *Entity) {
	c.decls[e.Key] = append(c.decls[e.Key], e)
	c.defined[e.Type].Add(c.symbols.Intern(e.Key))
}

// Symbols returns the catalog's symbol table.
func (c *Catalog) Symbols() *Symbols {
	return c.symbols
}

// IsDefined reports whether k has at least one declaration.
func (c *Catalog) IsDefined(k Key) bool {
	return len(c.decls[k]) > 0
}

// Lookup returns every declaration of k.
func (c *Catalog) Lookup(k Key) []*Entity {
	return c.decls[k]
}

// DefinedBitmap returns the set of declared IDs of type t.
func (c *Catalog) DefinedBitmap(t EntityType) *roaring.Bitmap {
	if bm, ok := c.defined[t]; ok {
		return bm
	}
	return roaring.New()
}

// Defined returns the sorted declared names of type t.
func (c *Catalog) Defined(t EntityType) []string {
	return c.symbols.Names(c.defined[t])
}

// Entities returns every declaration of type t ordered by name.
func (c *Catalog) Entities(t EntityType) []*Entity {
	var out []*Entity
	for _, name := range c.Defined(t) {
		out = append(out, c.decls[Key{Type: t, Name: name}]...)
	}
	return out
}

// Refs returns the merged outgoing references of k across all of its
// declarations.
func (c *Catalog) Refs(k Key) []Reference {
	var out []Reference
	for _, e := range c.decls[k] {
		out = append(out, e.Refs...)
	}
	return out
}

// IsActive reports whether any declaration of the BGP group is active.
func (c *Catalog) IsActive(name string) bool {
	for _, e := range c.decls[Key{Type: TypeBGPGroup, Name: name}] {
		if e.Active {
			return true
		}
	}
	return false
}

// EntryPoints returns the sorted names of active BGP groups.
func (c *Catalog) EntryPoints() []string {
	var out []string
	for _, name := range c.Defined(TypeBGPGroup) {
		if c.IsActive(name) {
			out = append(out, name)
		}
	}
	return out
}

// Dangling returns every reference, from anywhere in the configuration,
// whose target has no declaration. Duplicates are removed.
func (c *Catalog) Dangling() []Reference {
	seen := make(map[[2]Key]bool)
	var out []Reference
	for _, t := range AllTypes {
		for _, e := range c.Entities(t) {
			for _, ref := range e.Refs {
				if c.IsDefined(ref.Target) {
					continue
				}
				pair := [2]Key{ref.Source, ref.Target}
				if seen[pair] {
					continue
				}
				seen[pair] = true
				out = append(out, ref)
			}
		}
	}
	return out
}
