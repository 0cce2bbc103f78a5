package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/orrery/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetParentAndParentOf(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Name{Value: "root"})
	child := storage.Spawn(Position{X: 1})
	child = storage.SetParent(child, root)

	parent, ok := storage.ParentOf(child)
	require.True(t, ok)
	assert.Equal(t, root, parent)

	_, ok = storage.ParentOf(root)
	assert.False(t, ok, "root has no parent")

	pos := ecs.ReadComponent[Position](storage, child)
	require.NotNil(t, pos, "components survive the archetype move")
	assert.Equal(t, float32(1), pos.X)
}

func TestParentFollowsArchetypeMove(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Name{Value: "root"})
	child := storage.SetParent(storage.Spawn(Position{}), root)

	root = storage.AddComponent(root, Health{Current: 3})

	parent, ok := storage.ParentOf(child)
	require.True(t, ok)
	assert.Equal(t, root, parent)
}

func TestChildrenAndDescendants(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Name{Value: "root"})
	a := storage.SetParent(storage.Spawn(Position{X: 1}), root)
	b := storage.SetParent(storage.Spawn(Position{X: 2}), root)
	leaf := storage.SetParent(storage.Spawn(Velocity{}), a)
	other := storage.Spawn(Name{Value: "other"})

	assert.ElementsMatch(t, []ecs.EntityId{a, b}, storage.Children(root))
	assert.ElementsMatch(t, []ecs.EntityId{leaf}, storage.Children(a))
	assert.Empty(t, storage.Children(other))

	assert.ElementsMatch(t, []ecs.EntityId{a, b, leaf}, storage.Descendants(root))
}

func TestDeleteRecursive(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Name{Value: "root"})
	a := storage.SetParent(storage.Spawn(Position{X: 1}), root)
	leaf := storage.SetParent(storage.Spawn(Velocity{}), a)
	other := storage.Spawn(Name{Value: "other"})

	storage.DeleteRecursive(root)

	assert.False(t, storage.Alive(root))
	assert.False(t, storage.Alive(a))
	assert.False(t, storage.Alive(leaf))
	assert.True(t, storage.Alive(other))
}

func TestDeleteParentLeavesDanglingChild(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Name{Value: "root"})
	child := storage.SetParent(storage.Spawn(Position{}), root)

	storage.Delete(root)

	assert.True(t, storage.Alive(child))
	_, ok := storage.ParentOf(child)
	assert.False(t, ok, "a deleted parent resolves to no parent")
}

func TestSetParentOnDeadParentIsNoop(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	root := storage.Spawn(Name{Value: "root"})
	storage.Delete(root)

	child := storage.Spawn(Position{})
	assert.Equal(t, child, storage.SetParent(child, root))
	assert.False(t, storage.HasComponent(child, reflect.TypeFor[ecs.Parent]()))
}
