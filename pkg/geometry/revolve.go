package geometry

import "github.com/chewxy/math32"

// MinSegments is the lowest radial resolution Tube and Ring will accept.
// Anything below this renders as a visibly faceted polygon prism.
const MinSegments = 3

// Tube appends an open cylindrical band of the given radius to m, spanning
// x0..x1 along the X axis with segs radial segments. With inward set, the
// normals point toward the axis and the winding is reversed, so the surface
// reads correctly when seen from inside a bore.
//
// The band shares no vertices with previously appended geometry; the seam
// column is duplicated so texture coordinates can wrap cleanly.
func Tube(m *Mesh, radius, x0, x1 float32, segs int, inward bool) {
	if segs < MinSegments {
		segs = MinSegments
	}

	ring0 := make([]uint32, segs+1)
	ring1 := make([]uint32, segs+1)
	for i := 0; i <= segs; i++ {
		u := float32(i) / float32(segs)
		theta := u * 2 * math32.Pi
		cos, sin := math32.Cos(theta), math32.Sin(theta)

		normal := Vec3{0, cos, sin}
		if inward {
			normal = normal.Negated()
		}
		ring0[i] = m.AddVertex(Vec3{x0, radius * cos, radius * sin}, normal, Vec2{u, 0})
		ring1[i] = m.AddVertex(Vec3{x1, radius * cos, radius * sin}, normal, Vec2{u, 1})
	}

	for i := 0; i < segs; i++ {
		if inward {
			m.AddQuad(ring0[i], ring0[i+1], ring1[i+1], ring1[i])
		} else {
			m.AddQuad(ring0[i], ring1[i], ring1[i+1], ring0[i+1])
		}
	}
}

// Ring appends a flat annulus at the given x, spanning innerRadius to
// outerRadius with segs radial segments. facing selects the normal
// direction along the X axis: +1 faces +X, -1 faces -X.
//
// A zero innerRadius produces a full disc (the inner ring collapses onto
// the axis but keeps per-segment vertices for uniform texturing).
func Ring(m *Mesh, innerRadius, outerRadius, x float32, segs int, facing int) {
	if segs < MinSegments {
		segs = MinSegments
	}
	normal := Vec3{1, 0, 0}
	if facing < 0 {
		normal = Vec3{-1, 0, 0}
	}

	inner := make([]uint32, segs+1)
	outer := make([]uint32, segs+1)
	for i := 0; i <= segs; i++ {
		u := float32(i) / float32(segs)
		theta := u * 2 * math32.Pi
		cos, sin := math32.Cos(theta), math32.Sin(theta)

		inner[i] = m.AddVertex(Vec3{x, innerRadius * cos, innerRadius * sin}, normal, Vec2{u, 0})
		outer[i] = m.AddVertex(Vec3{x, outerRadius * cos, outerRadius * sin}, normal, Vec2{u, 1})
	}

	for i := 0; i < segs; i++ {
		if facing < 0 {
			m.AddQuad(inner[i], inner[i+1], outer[i+1], outer[i])
		} else {
			m.AddQuad(inner[i], outer[i], outer[i+1], inner[i+1])
		}
	}
}
