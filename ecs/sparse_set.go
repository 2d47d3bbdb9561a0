package ecs

import "github.com/kamstrup/intmap"

// SparseSet stores components for one kind keyed by entity slot. Values are
// kept densely packed in insertion order; removal swaps the last element in.
type SparseSet struct {
	index         *intmap.Map[uint32, int]
	denseEntities []Entity
	denseValues   []any
}

func newSparseSet() *SparseSet {
	return &SparseSet{index: intmap.New[uint32, int](64)}
}

// Has returns true if the entity owns a value in the set.
func (s *SparseSet) Has(e Entity) bool {
	if s == nil {
		return false
	}
	idx, ok := s.index.Get(uint32(e.id()))
	return ok && s.denseEntities[idx] == e
}

// Get returns the value for e, or nil.
func (s *SparseSet) Get(e Entity) (any, bool) {
	if !s.Has(e) {
		return nil, false
	}
	idx, _ := s.index.Get(uint32(e.id()))
	return s.denseValues[idx], true
}

// Set inserts or replaces the value for e.
func (s *SparseSet) Set(e Entity, v any) {
	if idx, ok := s.index.Get(uint32(e.id())); ok {
		s.denseEntities[idx] = e
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.index.Put(uint32(e.id()), len(s.denseEntities)-1)
}

// Remove deletes the value for e if present.
func (s *SparseSet) Remove(e Entity) bool {
	if !s.Has(e) {
		return false
	}
	idx, _ := s.index.Get(uint32(e.id()))
	last := len(s.denseEntities) - 1
	moved := s.denseEntities[last]

	s.denseEntities[idx] = moved
	s.denseValues[idx] = s.denseValues[last]
	s.index.Put(uint32(moved.id()), idx)

	s.denseEntities[last] = 0
	s.denseValues[last] = nil
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.index.Del(uint32(e.id()))
	return true
}

// removeSlot drops whatever generation currently occupies the slot of e.
func (s *SparseSet) removeSlot(e Entity) {
	idx, ok := s.index.Get(uint32(e.id()))
	if !ok {
		return
	}
	s.Remove(s.denseEntities[idx])
}

// Entities returns the dense entity list. Callers must not mutate it.
func (s *SparseSet) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

// Len reports how many values the set holds.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}
