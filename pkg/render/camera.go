// Package render draws an assembled pack scene. It is a collaborator of
// pkg/pack, never a dependency of it: the scene data flows in, artifacts
// (SVG, PNG, PDF, JSON bytes) flow out.
//
// The SVG sink projects every instanced triangle through a simple orbit
// camera, sorts back-to-front, and emits flat-shaded polygons, a painter's
// algorithm. PNG and PDF are produced from the SVG via the external
// rsvg-convert tool, mirroring how the rest of the toolchain treats SVG as
// the canonical drawing.
package render

import (
	"github.com/chewxy/math32"

	"github.com/packlab/rollpack/pkg/geometry"
)

// Camera orbit defaults, chosen to show a pack three-quarter on with a
// slight downward look.
const (
	DefaultYaw      = 35.0
	DefaultPitch    = 25.0
	DefaultDistance = 2.8
	DefaultFOV      = 40.0
)

// Camera is an orbit camera aimed at the origin (packs are always centered
// there). Yaw and Pitch are in degrees; Distance is a multiple of the
// scene's bounding radius, so the same camera frames any pack size.
type Camera struct {
	Yaw      float64
	Pitch    float64
	Distance float64
	FOV      float64
}

// DefaultCamera returns the standard three-quarter view.
func DefaultCamera() Camera {
	return Camera{
		Yaw:      DefaultYaw,
		Pitch:    DefaultPitch,
		Distance: DefaultDistance,
		FOV:      DefaultFOV,
	}
}

// normalized fills zero fields with defaults so a partially specified
// camera still frames the scene.
func (c Camera) normalized() Camera {
	if c.Distance <= 0 {
		c.Distance = DefaultDistance
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		c.FOV = DefaultFOV
	}
	return c
}

// view is the resolved projection state for one frame.
type view struct {
	eye     geometry.Vec3
	right   geometry.Vec3
	up      geometry.Vec3
	forward geometry.Vec3

	focal    float32
	centerX  float32
	centerY  float32
	nearClip float32
}

// newView places the camera around a scene of the given bounding radius
// and prepares projection onto a width×height viewport.
func newView(c Camera, sceneRadius float32, width, height int) view {
	c = c.normalized()
	if sceneRadius <= 0 {
		sceneRadius = 1
	}

	yaw := float32(c.Yaw) * math32.Pi / 180
	pitch := float32(c.Pitch) * math32.Pi / 180
	dist := float32(c.Distance) * sceneRadius

	eye := geometry.Vec3{
		X: dist * math32.Cos(pitch) * math32.Cos(yaw),
		Y: dist * math32.Sin(pitch),
		Z: dist * math32.Cos(pitch) * math32.Sin(yaw),
	}

	forward := eye.Negated().Normalized() // toward the origin
	worldUp := geometry.Vec3{Y: 1}
	right := forward.Cross(worldUp).Normalized()
	if right.Length() == 0 {
		// Looking straight up or down; pick an arbitrary horizontal right.
		right = geometry.Vec3{X: 1}
	}
	up := right.Cross(forward)

	fov := float32(c.FOV) * math32.Pi / 180
	focal := float32(height) / 2 / math32.Tan(fov/2)

	return view{
		eye:      eye,
		right:    right,
		up:       up,
		forward:  forward,
		focal:    focal,
		centerX:  float32(width) / 2,
		centerY:  float32(height) / 2,
		nearClip: sceneRadius * 1e-3,
	}
}

// project maps a world point to viewport coordinates plus its view-space
// depth. Points behind the near plane report ok = false.
func (v view) project(p geometry.Vec3) (x, y, depth float32, ok bool) {
	rel := p.Sub(v.eye)
	depth = rel.Dot(v.forward)
	if depth <= v.nearClip {
		return 0, 0, depth, false
	}
	x = v.centerX + v.focal*rel.Dot(v.right)/depth
	y = v.centerY - v.focal*rel.Dot(v.up)/depth
	return x, y, depth, true
}
