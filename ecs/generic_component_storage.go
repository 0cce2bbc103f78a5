package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry records which component types an ECS instance may store
// and how to build a column for each. Every Storage owns one registry, so
// independent worlds never share type registrations.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a registry with the built-in Parent component
// already registered.
func NewComponentRegistry() *ComponentRegistry {
	r := &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
	RegisterComponent[Parent](r)
	return r
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &columnStorage[T]{}
	}
}

// Registered reports whether the component type has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const columnBlockSize = 64

type columnBlock[T any] struct {
	items  [columnBlockSize]T
	filled [columnBlockSize]bool
}

// columnStorage stores components of one type in fixed-size heap blocks.
// Blocks are never moved once allocated, so pointers handed out by Get stay
// valid until the slot is deleted.
type columnStorage[T any] struct {
	blocks    []*columnBlock[T]
	freeSlots []int
	nextIndex int
	count     int
}

func (cs *columnStorage[T]) slot(index int) (*columnBlock[T], int) {
	if index < 0 {
		return nil, 0
	}
	b := index / columnBlockSize
	if b >= len(cs.blocks) {
		return nil, 0
	}
	return cs.blocks[b], index % columnBlockSize
}

func unwrap[T any](item any) (T, bool) {
	switch v := item.(type) {
	case *T:
		return *v, true
	case T:
		return v, true
	}
	var zero T
	return zero, false
}

// Append adds a component to storage and returns its index, or -1 when the
// item is not a T.
func (cs *columnStorage[T]) Append(item any) int {
	value, ok := unwrap[T](item)
	if !ok {
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/columnBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, &columnBlock[T]{})
		}
	}

	block, pos := cs.slot(index)
	block.items[pos] = value
	block.filled[pos] = true
	cs.count++
	return index
}

// Set overwrites an occupied slot in place.
func (cs *columnStorage[T]) Set(index int, item any) bool {
	value, ok := unwrap[T](item)
	if !ok {
		return false
	}
	block, pos := cs.slot(index)
	if block == nil || !block.filled[pos] {
		return false
	}
	block.items[pos] = value
	return true
}

// Get returns a *T for the slot, or nil when the slot is empty.
func (cs *columnStorage[T]) Get(index int) any {
	block, pos := cs.slot(index)
	if block == nil || !block.filled[pos] {
		return nil
	}
	return &block.items[pos]
}

func (cs *columnStorage[T]) Delete(index int) {
	block, pos := cs.slot(index)
	if block == nil || !block.filled[pos] {
		return
	}
	var zero T
	block.items[pos] = zero
	block.filled[pos] = false
	cs.freeSlots = append(cs.freeSlots, index)
	cs.count--
}

func (cs *columnStorage[T]) Has(index int) bool {
	block, pos := cs.slot(index)
	return block != nil && block.filled[pos]
}

// Len returns the number of occupied slots.
func (cs *columnStorage[T]) Len() int {
	return cs.count
}

// Iter yields occupied slot indices in ascending order.
func (cs *columnStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			block := cs.blocks[i/columnBlockSize]
			if !block.filled[i%columnBlockSize] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
