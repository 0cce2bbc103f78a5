package host

import (
	"image/color"
	"iter"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/orrery/ecs"
	"github.com/plus3/orrery/orbit"
)

var background = color.RGBA{R: 8, G: 8, B: 16, A: 255}

// minPixelRadius keeps far markers visible.
const minPixelRadius = 0.75

type drawable struct {
	*orbit.WorldTranslation
	*orbit.Sphere
	*orbit.Color
	Scale *orbit.Scale `ecs:"optional"`
}

type disc struct {
	x, y, r, depth float32
	color          color.NRGBA
}

// RenderSystem draws every sphere as a filled circle, far to near, seen
// through the first camera in storage. It runs on its own scheduler so
// drawing never advances the simulation.
type RenderSystem struct {
	Cameras   ecs.Query[struct{ *orbit.Camera }]
	Drawables ecs.Query[drawable]

	screen *ebiten.Image
	discs  []disc
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	if s.screen == nil {
		return
	}
	s.screen.Fill(background)

	var camera *orbit.Camera
	for c := range s.Cameras.Iter() {
		camera = c.Camera
		break
	}
	if camera == nil {
		return
	}

	bounds := s.screen.Bounds()
	s.discs = collectDiscs(s.discs[:0], NewProjector(*camera, bounds.Dx(), bounds.Dy()), s.Drawables.Iter())

	for _, d := range s.discs {
		vector.DrawFilledCircle(s.screen, d.x, d.y, d.r, d.color, true)
	}
}

// collectDiscs projects every drawable and orders the result far to near.
func collectDiscs(out []disc, projector Projector, drawables iter.Seq[drawable]) []disc {
	for d := range drawables {
		radius := d.Sphere.Radius
		if d.Scale != nil {
			radius *= float32(*d.Scale)
		}
		if radius <= 0 {
			continue
		}

		x, y, r, depth, ok := projector.Project(d.WorldTranslation.Vec3, radius)
		if !ok {
			continue
		}
		out = append(out, disc{
			x:     x,
			y:     y,
			r:     max(r, minPixelRadius),
			depth: depth,
			color: toNRGBA(*d.Color),
		})
	}

	slices.SortStableFunc(out, func(a, b disc) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
	return out
}

func toNRGBA(c orbit.Color) color.NRGBA {
	channel := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}
