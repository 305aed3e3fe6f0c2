// Package geometry builds the procedural 3D surfaces for a single paper
// roll: an outer shell, a genuinely hollow core (inner and outer tube plus
// end rings), the visible end cross-sections, and short bevel bands at the
// roll edges.
//
// All surfaces are surfaces of revolution about the X axis (the roll's
// length axis) and are emitted as indexed triangle meshes with per-vertex
// positions, normals, and texture coordinates. The package is unit-agnostic;
// callers are expected to convert real-world millimeters to scene units
// before building.
//
// # Usage
//
//	roll := geometry.BuildRoll(0.60, 0.225, 1.0)
//	for _, patch := range roll.Patches() {
//	    // hand patch.Positions / patch.Normals / patch.Indices to a renderer
//	}
//
// Degenerate inputs (core wider than the roll, paper-thin walls) are clamped
// rather than rejected; BuildRoll never fails. See [ClampRadii].
package geometry

import "github.com/chewxy/math32"

// Vec3 is a 3-component vector in scene units.
type Vec3 struct {
	X, Y, Z float32
}

// Vec2 is a 2-component vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product of v and w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Negated returns -v.
func (v Vec3) Negated() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Mesh is an indexed triangle mesh. Positions, Normals, and UVs run in
// parallel; Indices holds triangles as consecutive vertex-index triples.
type Mesh struct {
	// Name identifies the surface patch (e.g. "outer", "core-inner").
	// Renderers key decoration such as color off this name.
	Name string

	Positions []Vec3
	Normals   []Vec3
	UVs       []Vec2
	Indices   []uint32
}

// NewMesh creates an empty named mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal Vec3, uv Vec2) uint32 {
	idx := uint32(len(m.Positions))
	m.Positions = append(m.Positions, pos)
	m.Normals = append(m.Normals, normal)
	m.UVs = append(m.UVs, uv)
	return idx
}

// AddTriangle appends one triangle given three vertex indices.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// AddQuad appends a quad as two triangles. Vertices are expected in
// counter-clockwise order when viewed from the front face.
func (m *Mesh) AddQuad(a, b, c, d uint32) {
	m.AddTriangle(a, b, c)
	m.AddTriangle(a, c, d)
}

// Bounds returns the axis-aligned bounding box of the mesh as (min, max).
// An empty mesh returns two zero vectors.
func (m *Mesh) Bounds() (Vec3, Vec3) {
	if len(m.Positions) == 0 {
		return Vec3{}, Vec3{}
	}
	min, max := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		min.X = math32.Min(min.X, p.X)
		min.Y = math32.Min(min.Y, p.Y)
		min.Z = math32.Min(min.Z, p.Z)
		max.X = math32.Max(max.X, p.X)
		max.Y = math32.Max(max.Y, p.Y)
		max.Z = math32.Max(max.Z, p.Z)
	}
	return min, max
}
