package orbit_test

import (
	"math"
	"slices"
	"testing"

	"github.com/plus3/orrery/orbit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionFor(t *testing.T) {
	tests := []struct {
		name     string
		radius   float32
		progress float32
		want     orbit.Vec3
	}{
		{"start", 2, 0, orbit.Vec3{X: 2}},
		{"quarter", 2, math.Pi / 2, orbit.Vec3{Y: 2}},
		{"half", 4, math.Pi, orbit.Vec3{X: -4}},
		{"past full turn", 1, 2*math.Pi + math.Pi/2, orbit.Vec3{Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orbit.PositionFor(tt.radius, tt.progress)
			assert.InDelta(t, tt.want.X, got.X, 1e-5)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-5)
			assert.Zero(t, got.Z)
			assert.InDelta(t, tt.radius, got.Length(), 1e-5)
		})
	}
}

func TestAdvanceIsMonotonic(t *testing.T) {
	progress := float32(0)
	for i := 0; i < 100; i++ {
		next := orbit.Advance(progress, 0.7, 0.016)
		require.GreaterOrEqual(t, next, progress)
		progress = next
	}

	assert.Equal(t, float32(1), orbit.Advance(1, 0, 0.5), "zero speed holds still")
	assert.Equal(t, float32(1), orbit.Advance(1, 3, 0), "zero dt holds still")
}

func TestDecay(t *testing.T) {
	next, scale, alive := orbit.Decay(5, 1, 5)
	assert.True(t, alive)
	assert.Equal(t, float32(4), next)
	assert.InDelta(t, 0.8, scale, 1e-6)

	next, scale, alive = orbit.Decay(0.5, 0.5, 5)
	assert.True(t, alive, "exactly zero is still alive")
	assert.Zero(t, next)
	assert.Zero(t, scale)

	_, _, alive = orbit.Decay(0.5, 0.51, 5)
	assert.False(t, alive)
}

func TestNewMarker(t *testing.T) {
	pos := orbit.Vec3{X: 1, Y: 2}
	color := orbit.Color{R: 0.6, G: 0.7, B: 0.8, A: 1}

	components := orbit.NewMarker(pos, color, orbit.DefaultSettings())

	assert.Contains(t, components, orbit.Marker{})
	assert.Contains(t, components, orbit.Translation{Vec3: pos})
	assert.Contains(t, components, orbit.WorldTranslation{Vec3: pos})
	assert.Contains(t, components, color)
	assert.Contains(t, components, orbit.Sphere{Radius: 0.1})
	assert.Contains(t, components, orbit.Lifespan(5))
	assert.Contains(t, components, orbit.Scale(1))
}

func TestEmitTrailTwiceGivesIndependentMarkers(t *testing.T) {
	bodies := []orbit.Body{
		{Position: orbit.Vec3{X: 2}, Color: orbit.Color{R: 1, A: 1}},
		{Position: orbit.Vec3{Y: 4}, Color: orbit.Color{G: 1, A: 1}},
	}
	writer := &recordingWriter{}

	n := orbit.EmitTrail(slices.Values(bodies), orbit.DefaultSettings(), writer)
	n += orbit.EmitTrail(slices.Values(bodies), orbit.DefaultSettings(), writer)

	assert.Equal(t, 4, n)
	require.Len(t, writer.spawned, 4)
	assert.Equal(t, writer.spawned[0], writer.spawned[2])
	assert.Equal(t, writer.spawned[1], writer.spawned[3])

	// Components are values, so the two emissions never share a lifespan.
	lifespan := func(components []any) orbit.Lifespan {
		for _, c := range components {
			if l, ok := c.(orbit.Lifespan); ok {
				return l
			}
		}
		return -1
	}
	assert.Equal(t, orbit.Lifespan(5), lifespan(writer.spawned[0]))
	assert.Equal(t, orbit.Lifespan(5), lifespan(writer.spawned[2]))
	assert.Empty(t, writer.deleted)
	assert.Empty(t, writer.recursive)
}

func TestEmitTrailWithoutBodies(t *testing.T) {
	writer := &recordingWriter{}
	assert.Zero(t, orbit.EmitTrail(slices.Values([]orbit.Body(nil)), orbit.DefaultSettings(), writer))
	assert.Empty(t, writer.spawned)
}

func TestVec3(t *testing.T) {
	a := orbit.Vec3{X: 1, Y: 2, Z: 3}
	b := orbit.Vec3{X: 4, Y: 5, Z: 6}

	assert.Equal(t, orbit.Vec3{X: 5, Y: 7, Z: 9}, a.Add(b))
	assert.Equal(t, orbit.Vec3{X: -3, Y: -3, Z: -3}, a.Sub(b))
	assert.Equal(t, orbit.Vec3{X: 2, Y: 4, Z: 6}, a.Scale(2))
	assert.Equal(t, float32(32), a.Dot(b))
	assert.Equal(t, orbit.Vec3{Z: 1}, orbit.Vec3{X: 1}.Cross(orbit.Vec3{Y: 1}))
	assert.InDelta(t, 1, a.Normalize().Length(), 1e-6)
	assert.Equal(t, orbit.Vec3{}, orbit.Vec3{}.Normalize())
}
