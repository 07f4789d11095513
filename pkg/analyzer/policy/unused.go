package policy

import "github.com/RoaringBitmap/roaring/v2"

// DetectUnused returns, per entity type, the declared names that were not
// reached. Types with nothing unused are omitted. Names are sorted.
func DetectUnused(cat *Catalog, used *UsedSet) map[EntityType][]string {
	out := make(map[EntityType][]string)
	for _, t := range AllTypes {
		diff := roaring.AndNot(cat.DefinedBitmap(t), used.Bitmap(t))
		if names := cat.symbols.Names(diff); len(names) > 0 {
			out[t] = names
		}
	}
	return out
}
