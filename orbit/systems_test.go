package orbit_test

import (
	"math"
	"testing"

	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/orbit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrbitAfterTenTicks(t *testing.T) {
	storage := newStorage()
	body := storage.Spawn(
		orbit.Orbit{Radius: 2, Speed: math.Pi},
		orbit.Translation{},
	)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.OrbitProgressSystem{})
	scheduler.Register(&orbit.OrbitPositionSystem{})

	for i := 0; i < 10; i++ {
		scheduler.Once(0.1)
	}

	o := ecs.ReadComponent[orbit.Orbit](storage, body)
	require.NotNil(t, o)
	assert.InDelta(t, math.Pi, o.Progress, 1e-5)

	pos := ecs.ReadComponent[orbit.Translation](storage, body)
	require.NotNil(t, pos)
	assert.InDelta(t, -2, pos.X, 1e-4)
	assert.InDelta(t, 0, pos.Y, 1e-4)
	assert.Zero(t, pos.Z)
}

func TestPositionUsesThisTicksProgress(t *testing.T) {
	storage := newStorage()
	body := storage.Spawn(
		orbit.Orbit{Radius: 3, Speed: 1},
		orbit.Translation{},
	)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.OrbitProgressSystem{})
	scheduler.Register(&orbit.OrbitPositionSystem{})
	scheduler.Once(0.5)

	o := ecs.ReadComponent[orbit.Orbit](storage, body)
	pos := ecs.ReadComponent[orbit.Translation](storage, body)
	want := orbit.PositionFor(3, o.Progress)
	assert.Equal(t, float32(0.5), o.Progress)
	assert.Equal(t, want, pos.Vec3)
}

func TestMarkerShrinksAndExpires(t *testing.T) {
	storage := newStorage()
	storage.AddSingleton(orbit.DefaultSettings())
	marker := storage.Spawn(orbit.NewMarker(orbit.Vec3{X: 1}, orbit.Color{A: 1}, orbit.DefaultSettings())...)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.LifespanSystem{})

	scheduler.Once(1)
	assert.Equal(t, orbit.Lifespan(4), *ecs.ReadComponent[orbit.Lifespan](storage, marker))
	assert.InDelta(t, 0.8, float32(*ecs.ReadComponent[orbit.Scale](storage, marker)), 1e-6)

	scheduler.Once(4)
	require.True(t, storage.Alive(marker), "a lifespan of exactly zero is still alive")
	assert.Zero(t, *ecs.ReadComponent[orbit.Scale](storage, marker))

	scheduler.Once(0.01)
	assert.False(t, storage.Alive(marker))
}

func TestMarkerGoneAfterFiveSeconds(t *testing.T) {
	storage := newStorage()
	storage.AddSingleton(orbit.DefaultSettings())
	stats := ecs.NewSingleton[orbit.TrailStats](storage)
	marker := storage.Spawn(orbit.NewMarker(orbit.Vec3{}, orbit.Color{A: 1}, orbit.DefaultSettings())...)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.LifespanSystem{})
	for i := 0; i < 501; i++ {
		scheduler.Once(0.01)
	}

	assert.False(t, storage.Alive(marker))
	assert.Empty(t, markers(storage))
	assert.Equal(t, int64(1), stats.Get().Expired)
}

func TestMarkerWithoutScaleGainsOne(t *testing.T) {
	storage := newStorage()
	storage.Spawn(orbit.Marker{}, orbit.Lifespan(2.5))

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.LifespanSystem{})
	scheduler.Once(0)

	var scales []orbit.Scale
	for m := range ecs.NewQuery[struct {
		*orbit.Lifespan
		*orbit.Scale
	}](storage).Iter() {
		scales = append(scales, *m.Scale)
	}
	require.Len(t, scales, 1)
	assert.InDelta(t, 0.5, float32(scales[0]), 1e-6, "no Settings singleton falls back to the default lifespan")
}

func TestExpiredMarkerTakesDescendants(t *testing.T) {
	storage := newStorage()
	marker := storage.Spawn(orbit.Marker{}, orbit.Lifespan(0.1), orbit.Scale(1))
	child := storage.SetParent(storage.Spawn(orbit.Translation{}), marker)
	bystander := storage.Spawn(orbit.Translation{})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.LifespanSystem{})
	scheduler.Once(0.2)

	assert.False(t, storage.Alive(marker))
	assert.False(t, storage.Alive(child))
	assert.True(t, storage.Alive(bystander))
}

func TestTransformComposesParents(t *testing.T) {
	storage := newStorage()
	root := storage.Spawn(orbit.Translation{orbit.Vec3{X: 1}}, orbit.WorldTranslation{})
	mid := storage.SetParent(storage.Spawn(orbit.Translation{orbit.Vec3{Y: 2}}, orbit.WorldTranslation{}), root)
	leaf := storage.SetParent(storage.Spawn(orbit.Translation{orbit.Vec3{Z: 3}}), mid)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.TransformSystem{})
	scheduler.Once(0.1)

	assert.Equal(t, orbit.Vec3{X: 1}, ecs.ReadComponent[orbit.WorldTranslation](storage, root).Vec3)
	assert.Equal(t, orbit.Vec3{X: 1, Y: 2}, ecs.ReadComponent[orbit.WorldTranslation](storage, mid).Vec3)

	// leaf had no WorldTranslation; it is added at the end of the tick.
	var leafWorld []orbit.Vec3
	for node := range ecs.NewQuery[struct {
		*orbit.Translation
		*orbit.WorldTranslation
		*ecs.Parent
	}](storage).Iter() {
		if node.Translation.Z == 3 {
			leafWorld = append(leafWorld, node.WorldTranslation.Vec3)
		}
	}
	require.Len(t, leafWorld, 1)
	assert.Equal(t, orbit.Vec3{X: 1, Y: 2, Z: 3}, leafWorld[0])
	assert.False(t, storage.Alive(leaf), "adding a component moves the record")
}

func TestTransformDanglingParentIsOrigin(t *testing.T) {
	storage := newStorage()
	parent := storage.Spawn(orbit.Translation{orbit.Vec3{X: 10}})
	child := storage.SetParent(storage.Spawn(orbit.Translation{orbit.Vec3{X: 1}}, orbit.WorldTranslation{}), parent)
	storage.Delete(parent)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.TransformSystem{})
	scheduler.Once(0.1)

	assert.Equal(t, orbit.Vec3{X: 1}, ecs.ReadComponent[orbit.WorldTranslation](storage, child).Vec3)
}

func TestPlanetWorldFollowsSun(t *testing.T) {
	storage, scheduler, scene := newScene(1)
	defer scheduler.Close()

	ecs.ReadComponent[orbit.Translation](storage, scene.Sun).Vec3 = orbit.Vec3{Z: 5}
	scheduler.Once(0.25)

	local := ecs.ReadComponent[orbit.Translation](storage, scene.Planets[0]).Vec3
	world := ecs.ReadComponent[orbit.WorldTranslation](storage, scene.Planets[0]).Vec3
	assert.Equal(t, local.Add(orbit.Vec3{Z: 5}), world)
}

func TestBareMarkerGainsScaleAndWorldInOneTick(t *testing.T) {
	storage := newStorage()
	storage.Spawn(orbit.Marker{}, orbit.Lifespan(2), orbit.Translation{Vec3: orbit.Vec3{X: 3}})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&orbit.TransformSystem{})
	scheduler.Register(&orbit.LifespanSystem{})
	scheduler.Once(0.1)

	complete := ecs.NewQuery[struct {
		*orbit.Marker
		*orbit.Scale
		*orbit.WorldTranslation
	}](storage)
	require.Equal(t, 1, complete.Len())
	for m := range complete.Iter() {
		assert.InDelta(t, 3, m.WorldTranslation.X, 1e-6)
		assert.InDelta(t, 1.9/orbit.DefaultMarkerLifespan, float32(*m.Scale), 1e-6)
	}
}
