package ecs

import "github.com/milk9111/rengine/ecs/component"

// Query returns the entities carrying every given kind. The result follows
// the dense order of the first kind's storage, so it is stable between
// frames as long as that storage is not mutated.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	first := w.store(kinds[0].ID(), false)
	if first.Len() == 0 {
		return nil
	}
	rest := make([]*SparseSet, 0, len(kinds)-1)
	for _, k := range kinds[1:] {
		s := w.store(k.ID(), false)
		if s.Len() == 0 {
			return nil
		}
		rest = append(rest, s)
	}

	out := make([]Entity, 0, first.Len())
outer:
	for _, e := range first.Entities() {
		for _, s := range rest {
			if !s.Has(e) {
				continue outer
			}
		}
		out = append(out, e)
	}
	return out
}

// First returns the first entity carrying kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	ents := w.store(kind.ID(), false).Entities()
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
