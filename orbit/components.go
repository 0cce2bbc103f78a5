package orbit

import (
	"github.com/plus3/orrery/ecs"
)

// Orbit is the orbital state of a body. Radius and Speed are fixed at spawn;
// Progress is the current angle in radians and grows without bound.
type Orbit struct {
	Radius   float32
	Speed    float32
	Progress float32
}

// Planet tags the bodies that leave trails.
type Planet struct{}

// Sun tags the root body every planet is parented under.
type Sun struct{}

// Marker tags a trail particle.
type Marker struct{}

// Translation is a position relative to the parent, or to the world origin
// for unparented records.
type Translation struct {
	Vec3
}

// WorldTranslation is Translation composed with every ancestor's.
type WorldTranslation struct {
	Vec3
}

type Color struct {
	R, G, B, A float32
}

// Sphere asks the renderer to draw a sphere of the given radius.
type Sphere struct {
	Radius float32
}

type Scale float32

// Lifespan is the number of simulated seconds a marker has left.
type Lifespan float32

// Camera is a perspective camera looking from Eye towards Target.
type Camera struct {
	Eye    Vec3
	Target Vec3
	Up     Vec3
	FovY   float32
}

// Settings holds the trail parameters for the running scene.
type Settings struct {
	TrailPeriod    float64
	MarkerLifespan float32
	MarkerRadius   float32
}

// TrailStats counts markers over the life of the scene.
type TrailStats struct {
	Spawned int64
	Expired int64
}

// RegisterComponents adds every orbit component to registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Orbit](registry)
	ecs.RegisterComponent[Planet](registry)
	ecs.RegisterComponent[Sun](registry)
	ecs.RegisterComponent[Marker](registry)
	ecs.RegisterComponent[Translation](registry)
	ecs.RegisterComponent[WorldTranslation](registry)
	ecs.RegisterComponent[Color](registry)
	ecs.RegisterComponent[Sphere](registry)
	ecs.RegisterComponent[Scale](registry)
	ecs.RegisterComponent[Lifespan](registry)
	ecs.RegisterComponent[Camera](registry)
}
