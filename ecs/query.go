package ecs

import "iter"

// Query is a View that caches its matching archetypes and a per-tick snapshot
// of matches. The Scheduler refreshes queries held in system fields before
// each Execute; standalone queries refresh on Execute or on the first Iter.
//
// The snapshot holds pointers into storage, so writes through it are visible
// to later readers in the same tick. Entities spawned or deleted through
// Commands appear in the next snapshot.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops all caches.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute rebuilds the snapshot from the current storage contents.
func (q *Query[T]) Execute() {
	if currentCount := len(q.storage.archetypes); currentCount != q.lastArchetypeCount {
		q.cachedArchetypes = nil
		q.lastArchetypeCount = currentCount
	}
	if q.cachedArchetypes == nil {
		q.cachedArchetypes = make([]*Archetype, 0)
		for _, archetype := range q.storage.archetypes {
			if q.view.matchesArchetype(archetype) {
				q.cachedArchetypes = append(q.cachedArchetypes, archetype)
			}
		}
	}

	q.cachedComponents = q.cachedComponents[:0]
	for _, archetype := range q.cachedArchetypes {
		q.view.iterArchetype(archetype, func(_ EntityId, item T) bool {
			q.cachedComponents = append(q.cachedComponents, item)
			return true
		})
	}

	q.cacheValid = true
}

// Iter yields the snapshot. Add an EntityId field to T to learn which entity
// each item belongs to.
func (q *Query[T]) Iter() iter.Seq[T] {
	if !q.cacheValid {
		q.Execute()
	}

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Len returns the number of matches in the snapshot.
func (q *Query[T]) Len() int {
	if !q.cacheValid {
		q.Execute()
	}
	return len(q.cachedComponents)
}
