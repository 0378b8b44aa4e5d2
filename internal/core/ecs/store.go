package ecs

// Removable is implemented by all stores so the World can bulk-remove an
// entity's data on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a typed pointer store that remembers insertion order, so Each
// walks entities in the order they were first added.
type Store[T any] struct {
	data  map[EntityID]*T
	order []EntityID
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data:  make(map[EntityID]*T, 256),
		order: make([]EntityID, 0, 256),
	}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	if _, ok := s.data[id]; !ok {
		s.order = append(s.order, id)
	}
	s.data[id] = c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits entries in insertion order. fn may not add or remove entries.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.order {
		fn(id, s.data[id])
	}
}

// IDs returns a snapshot of the ids in insertion order. Safe to use when the
// caller mutates the store while walking.
func (s *Store[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.order))
	copy(out, s.order)
	return out
}
