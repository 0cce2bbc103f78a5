package orbit

import (
	"iter"

	"github.com/plus3/orrery/ecs"
)

const (
	DefaultTrailPeriod    = 0.1
	DefaultMarkerLifespan = 5.0
	DefaultMarkerRadius   = 0.1
)

// DefaultSettings returns the trail parameters of the stock scene.
func DefaultSettings() Settings {
	return Settings{
		TrailPeriod:    DefaultTrailPeriod,
		MarkerLifespan: DefaultMarkerLifespan,
		MarkerRadius:   DefaultMarkerRadius,
	}
}

// Advance returns the orbital angle after dt seconds at speed radians per
// second.
func Advance(progress, speed, dt float32) float32 {
	return progress + speed*dt
}

// PositionFor returns the point on a circular orbit of the given radius at
// angle progress. The orbit lies in the XY plane.
func PositionFor(radius, progress float32) Vec3 {
	x, y := Vec2FromAngle(progress)
	return Vec3{X: x * radius, Y: y * radius}
}

// Decay ages a marker by dt. It returns the new lifespan and the matching
// scale, or alive == false once the lifespan has dropped below zero. A
// lifespan of exactly zero is still alive.
func Decay(lifespan, dt, full float32) (next, scale float32, alive bool) {
	next = lifespan - dt
	if next < 0 {
		return next, 0, false
	}
	return next, next / full, true
}

// Body is the part of a planet a trail marker is copied from.
type Body struct {
	Position Vec3
	Color    Color
}

// NewMarker returns the components of a fresh trail marker at position.
func NewMarker(position Vec3, color Color, settings Settings) []any {
	return []any{
		Marker{},
		Translation{position},
		WorldTranslation{position},
		color,
		Sphere{Radius: settings.MarkerRadius},
		Lifespan(settings.MarkerLifespan),
		Scale(1),
	}
}

// EmitTrail spawns one marker per body through writer and returns how many
// were spawned.
func EmitTrail(bodies iter.Seq[Body], settings Settings, writer ecs.RecordWriter) int {
	n := 0
	for body := range bodies {
		writer.Spawn(NewMarker(body.Position, body.Color, settings)...)
		n++
	}
	return n
}
