package ecs

// EntityId packs the owning archetype (upper 32 bits) and the slot index
// inside that archetype (lower 32 bits). Ids change when an entity moves
// between archetypes; hold an EntityRef when a stable handle is needed.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and entity index
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the entity index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e)
}

// EntityRef is a stable reference to an entity. The storage keeps it pointed
// at the entity when the entity changes archetype and zeroes Id on deletion.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Valid reports whether the referenced entity still exists.
func (r *EntityRef) Valid() bool {
	return r != nil && r.Id != 0
}
