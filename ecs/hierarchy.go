package ecs

import "reflect"

// Parent links an entity to the entity it hangs under. It is registered in
// every ComponentRegistry.
type Parent struct {
	Ref *EntityRef
}

var parentType = reflect.TypeFor[Parent]()

// SetParent attaches child under parent and returns the child's new id.
func (s *Storage) SetParent(child, parent EntityId) EntityId {
	ref := s.CreateEntityRef(parent)
	if ref == nil {
		return child
	}
	return s.AddComponent(child, Parent{Ref: ref})
}

// ParentOf returns the live parent of id.
func (s *Storage) ParentOf(id EntityId) (EntityId, bool) {
	p := ReadComponent[Parent](s, id)
	if p == nil {
		return 0, false
	}
	return s.ResolveEntityRef(p.Ref)
}

// Children returns the direct children of id.
func (s *Storage) Children(id EntityId) []EntityId {
	var children []EntityId
	for _, archetype := range s.archetypes {
		col := archetype.column(parentType)
		if col == -1 {
			continue
		}
		for index := range archetype.storages[col].Iter() {
			p := archetype.storages[col].Get(index).(*Parent)
			if parentId, ok := s.ResolveEntityRef(p.Ref); ok && parentId == id {
				children = append(children, NewEntityId(archetype.id, uint32(index)))
			}
		}
	}
	return children
}

// Descendants returns every entity below id, breadth first.
func (s *Storage) Descendants(id EntityId) []EntityId {
	var out []EntityId
	queue := []EntityId{id}
	for len(queue) > 0 {
		next := s.Children(queue[0])
		queue = queue[1:]
		out = append(out, next...)
		queue = append(queue, next...)
	}
	return out
}

// DeleteRecursive deletes id and all of its descendants.
func (s *Storage) DeleteRecursive(id EntityId) {
	if !s.Alive(id) {
		return
	}
	// Collect first: deleting a parent invalidates the refs used to find its children.
	doomed := s.Descendants(id)
	for i := len(doomed) - 1; i >= 0; i-- {
		s.Delete(doomed[i])
	}
	s.Delete(id)
}
