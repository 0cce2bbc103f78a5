package ecs

import "reflect"

// RecordWriter is the write side of the record store as seen by systems and
// tasks: create, update, destroy and destroy-with-descendants. *Commands
// implements it by deferring every operation to the end of the tick.
type RecordWriter interface {
	Spawn(components ...any)
	AddComponent(entity EntityId, component any)
	Delete(entity EntityId)
	DeleteRecursive(entity EntityId)
}

// Commands buffers structural changes made during a tick. Nothing touches
// storage until Flush, so queries stay consistent while systems run.
type Commands struct {
	spawns  []spawnCommand
	deletes []deleteCommand
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

var _ RecordWriter = (*Commands)(nil)

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type deleteCommand struct {
	entity    EntityId
	recursive bool
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues fn to run after all other commands have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, deleteCommand{entity: entity})
}

// DeleteRecursive queues deletion of entity and everything parented under it.
func (c *Commands) DeleteRecursive(entity EntityId) {
	c.deletes = append(c.deletes, deleteCommand{entity: entity, recursive: true})
}

// AddComponent queues adding or overwriting a component.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies deletes, removals, additions, spawns and deferred functions
// in that order, then resets the buffer. Operations targeting an entity
// deleted in the same flush are dropped. An entity moved to another
// archetype by an earlier removal or addition keeps receiving the later
// ones under its new id.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	// Keyed by the id the command was queued with. Freed slots can be reused
	// by later moves in the same flush, so ids are never chained.
	moved := make(map[EntityId]EntityId)
	current := func(id EntityId) EntityId {
		if next, ok := moved[id]; ok {
			return next
		}
		return id
	}

	for _, cmd := range c.deletes {
		if cmd.recursive {
			for _, d := range storage.Descendants(cmd.entity) {
				deleted[d] = true
			}
			storage.DeleteRecursive(cmd.entity)
		} else {
			storage.Delete(cmd.entity)
		}
		deleted[cmd.entity] = true
	}

	for _, cmd := range c.removes {
		if id := current(cmd.entity); !deleted[cmd.entity] && id != 0 {
			moved[cmd.entity] = storage.RemoveComponent(id, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if id := current(cmd.entity); !deleted[cmd.entity] && id != 0 {
			moved[cmd.entity] = storage.AddComponent(id, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		storage.Spawn(cmd.components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
