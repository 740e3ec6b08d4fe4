package catalog

import (
	"sort"

	"github.com/metacore-io/metacore/models"
)

// Snapshot is one immutable generation of the catalog. Readers resolve types
// against whichever snapshot they loaded; writers build a successor and swap
// it in atomically, so a reader never observes a half-applied metadata
// change.
type Snapshot struct {
	version uint64
	byName  map[string]*models.Type
	byID    map[models.KID]*models.Type
}

func newSnapshot(version uint64, types []*models.Type) *Snapshot {
	s := &Snapshot{
		version: version,
		byName:  make(map[string]*models.Type, len(types)),
		byID:    make(map[models.KID]*models.Type, len(types)),
	}
	for _, t := range types {
		s.byName[t.QualifiedName()] = t
		s.byID[t.ID] = t
	}
	return s
}

// Version returns the snapshot generation, monotonically increasing per
// environment. Compiled-statement caches key on it.
func (s *Snapshot) Version() uint64 { return s.version }

// TypeByName resolves a type by its package-qualified api name.
func (s *Snapshot) TypeByName(qualifiedName string) (*models.Type, bool) {
	t, ok := s.byName[qualifiedName]
	return t, ok
}

// TypeByID resolves a type by its catalog identifier.
func (s *Snapshot) TypeByID(id models.KID) (*models.Type, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Types returns every registered type ordered by qualified name.
func (s *Snapshot) Types() []*models.Type {
	out := make([]*models.Type, 0, len(s.byName))
	for _, t := range s.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QualifiedName() < out[j].QualifiedName()
	})
	return out
}

// successor builds the next generation: the current types with one replaced,
// added or removed. A nil replacement removes the named type.
func (s *Snapshot) successor(qualifiedName string, replacement *models.Type) *Snapshot {
	next := &Snapshot{
		version: s.version + 1,
		byName:  make(map[string]*models.Type, len(s.byName)+1),
		byID:    make(map[models.KID]*models.Type, len(s.byID)+1),
	}
	for name, t := range s.byName {
		if name == qualifiedName {
			continue
		}
		next.byName[name] = t
		next.byID[t.ID] = t
	}
	if replacement != nil {
		// drop a stale registration when the type was renamed
		if old, ok := s.byID[replacement.ID]; ok {
			delete(next.byName, old.QualifiedName())
		}
		next.byName[replacement.QualifiedName()] = replacement
		next.byID[replacement.ID] = replacement
	}
	return next
}
