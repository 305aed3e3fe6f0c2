package geometry

import "github.com/chewxy/math32"

const (
	// DefaultSegments is the radial resolution used for all roll surfaces.
	DefaultSegments = 48

	// coreWallThickness is the cardboard tube wall in scene units
	// (2 mm at the canonical 0.01 units/mm scale).
	coreWallThickness = 0.02

	// coreWallFraction floors the inner core radius at this fraction of the
	// outer core radius, so very small cores stay hollow instead of
	// collapsing to a solid cylinder.
	coreWallFraction = 0.6

	// coreClampRatio is the last-resort outer core radius when the input
	// core is as wide as (or wider than) the roll itself.
	coreClampRatio = 0.99

	// coreRecess shortens the core tube by this fraction of the roll length
	// at each end, modeling the cardboard sitting slightly inside the paper.
	coreRecess = 0.01

	// bevelFraction is the depth of each edge bevel band as a fraction of
	// the roll length.
	bevelFraction = 0.02

	// minDimension guards against zero or negative radii and lengths so the
	// builder always returns renderable geometry.
	minDimension = 1e-4
)

// Patch names emitted by BuildRoll. Renderers use these to pick surface
// decoration (paper vs. cardboard vs. bore shading).
const (
	PatchOuter        = "outer"
	PatchBevelFront   = "bevel-front"
	PatchBevelBack    = "bevel-back"
	PatchEndFront     = "end-front"
	PatchEndBack      = "end-back"
	PatchCoreOuter    = "core-outer"
	PatchCoreInner    = "core-inner"
	PatchCoreEndFront = "core-end-front"
	PatchCoreEndBack  = "core-end-back"
)

// RollParams records the resolved dimensions a RollGeometry was built from,
// after clamping. All values are in scene units; the roll spans
// [-Length/2, +Length/2] along the X axis.
type RollParams struct {
	OuterRadius     float32
	CoreOuterRadius float32
	CoreInnerRadius float32
	Length          float32
}

// RollGeometry is the full surface set for one hollow paper roll. One
// instance is built per distinct dimension triple and shared by every
// placed roll in a pack; the meshes are never mutated after construction.
type RollGeometry struct {
	Params RollParams

	// Outer paper surface, with the bevel band depth carved off each end.
	OuterShell *Mesh

	// Short cylindrical bands at full outer radius closing the gap between
	// the outer shell and the end faces.
	BevelFront *Mesh
	BevelBack  *Mesh

	// Visible paper cross-section rings, core to outer radius.
	EndFront *Mesh
	EndBack  *Mesh

	// The hollow cardboard core: outer wall, inward-facing bore wall, and
	// the two rings closing the tube ends.
	CoreOuterShell *Mesh
	CoreInnerShell *Mesh
	CoreEndFront   *Mesh
	CoreEndBack    *Mesh
}

// Patches returns all surface patches in a fixed, documented order:
// outer shell, bevels, paper ends, core outer, core inner, core ends.
func (g *RollGeometry) Patches() []*Mesh {
	return []*Mesh{
		g.OuterShell,
		g.BevelFront, g.BevelBack,
		g.EndFront, g.EndBack,
		g.CoreOuterShell, g.CoreInnerShell,
		g.CoreEndFront, g.CoreEndBack,
	}
}

// TriangleCount returns the total triangle count across all patches.
func (g *RollGeometry) TriangleCount() int {
	n := 0
	for _, p := range g.Patches() {
		n += p.TriangleCount()
	}
	return n
}

// VertexCount returns the total vertex count across all patches.
func (g *RollGeometry) VertexCount() int {
	n := 0
	for _, p := range g.Patches() {
		n += p.VertexCount()
	}
	return n
}

// ClampRadii resolves a raw (outer, core) radius pair into a non-degenerate
// (coreOuter, coreInner) pair:
//
//   - a core at or above the outer radius is clamped to 99% of it,
//   - the inner radius is coreOuter - wall, floored at a fixed fraction of
//     coreOuter so the bore never collapses.
//
// The result always satisfies 0 < coreInner < coreOuter < outer.
func ClampRadii(outerRadius, coreOuterRadius float32) (coreOuter, coreInner float32) {
	coreOuter = coreOuterRadius
	if coreOuter >= outerRadius {
		coreOuter = outerRadius * coreClampRatio
	}
	if coreOuter < minDimension {
		coreOuter = outerRadius * 0.5
	}
	coreInner = math32.Max(coreOuter-coreWallThickness, coreOuter*coreWallFraction)
	return coreOuter, coreInner
}

// BuildRoll constructs the geometry for one roll with the given outer
// radius, outer core radius, and length, using DefaultSegments radial
// segments. Inputs are clamped rather than rejected: BuildRoll never
// returns nil and the result is always renderable.
func BuildRoll(outerRadius, coreOuterRadius, length float32) *RollGeometry {
	return BuildRollSegs(outerRadius, coreOuterRadius, length, DefaultSegments)
}

// BuildRollSegs is BuildRoll with an explicit radial segment count.
func BuildRollSegs(outerRadius, coreOuterRadius, length float32, segs int) *RollGeometry {
	outerRadius = math32.Max(outerRadius, minDimension)
	length = math32.Max(length, minDimension)
	coreOuter, coreInner := ClampRadii(outerRadius, coreOuterRadius)

	half := length / 2
	bevel := length * bevelFraction
	coreHalf := half - length*coreRecess

	g := &RollGeometry{
		Params: RollParams{
			OuterRadius:     outerRadius,
			CoreOuterRadius: coreOuter,
			CoreInnerRadius: coreInner,
			Length:          length,
		},
		OuterShell:     NewMesh(PatchOuter),
		BevelFront:     NewMesh(PatchBevelFront),
		BevelBack:      NewMesh(PatchBevelBack),
		EndFront:       NewMesh(PatchEndFront),
		EndBack:        NewMesh(PatchEndBack),
		CoreOuterShell: NewMesh(PatchCoreOuter),
		CoreInnerShell: NewMesh(PatchCoreInner),
		CoreEndFront:   NewMesh(PatchCoreEndFront),
		CoreEndBack:    NewMesh(PatchCoreEndBack),
	}

	// Paper body: main shell plus a short band at each end. The bands carry
	// the same radius; they exist so styles can shade the roll edges
	// separately from the wound surface.
	Tube(g.OuterShell, outerRadius, -half+bevel, half-bevel, segs, false)
	Tube(g.BevelBack, outerRadius, -half, -half+bevel, segs, false)
	Tube(g.BevelFront, outerRadius, half-bevel, half, segs, false)

	// Paper cross-sections.
	Ring(g.EndFront, coreOuter, outerRadius, half, segs, +1)
	Ring(g.EndBack, coreOuter, outerRadius, -half, segs, -1)

	// Hollow core. The inner shell faces the bore so the tube reads as
	// genuinely hollow when the pack is viewed end-on.
	Tube(g.CoreOuterShell, coreOuter, -coreHalf, coreHalf, segs, false)
	Tube(g.CoreInnerShell, coreInner, -coreHalf, coreHalf, segs, true)
	Ring(g.CoreEndFront, coreInner, coreOuter, coreHalf, segs, +1)
	Ring(g.CoreEndBack, coreInner, coreOuter, -coreHalf, segs, -1)

	return g
}
