package host

import (
	"math"

	"github.com/plus3/orrery/orbit"
)

// nearPlane is the closest view depth that is still drawn.
const nearPlane = 0.05

// Projector maps world points to screen pixels for one camera and viewport.
type Projector struct {
	eye     orbit.Vec3
	forward orbit.Vec3
	right   orbit.Vec3
	up      orbit.Vec3
	focal   float32
	cx, cy  float32
}

// NewProjector builds a perspective projection for camera onto a viewport of
// width by height pixels. FovY is the vertical field of view in radians.
func NewProjector(camera orbit.Camera, width, height int) Projector {
	forward := camera.Target.Sub(camera.Eye).Normalize()
	right := forward.Cross(camera.Up).Normalize()
	up := right.Cross(forward)

	fov := camera.FovY
	if fov <= 0 || fov >= math.Pi {
		fov = orbit.CameraFovY
	}
	halfHeight := float32(height) / 2

	return Projector{
		eye:     camera.Eye,
		forward: forward,
		right:   right,
		up:      up,
		focal:   halfHeight / float32(math.Tan(float64(fov)/2)),
		cx:      float32(width) / 2,
		cy:      halfHeight,
	}
}

// Project returns the screen position and pixel radius of a sphere at point
// with the given world radius, and its distance along the view direction.
// ok is false for points behind the near plane.
func (p Projector) Project(point orbit.Vec3, radius float32) (x, y, r, depth float32, ok bool) {
	rel := point.Sub(p.eye)
	depth = rel.Dot(p.forward)
	if depth < nearPlane {
		return 0, 0, 0, depth, false
	}

	scale := p.focal / depth
	x = p.cx + rel.Dot(p.right)*scale
	y = p.cy - rel.Dot(p.up)*scale
	r = radius * scale
	return x, y, r, depth, true
}
