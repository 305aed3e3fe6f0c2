// Package layout computes where each roll of a pack sits in 3D space.
//
// The pack is a fixed regular grid: lanes run along the X axis (the roll
// length direction), layers stack along Y, and channels run along Z. The
// grid is always centered on the origin, so a renderer can orbit the pack
// without recentering, and the placement order is deterministic
// (lane → channel → layer, innermost last).
//
// The configured gap widens spacing along the lane axis only; channels and
// layers stay packed at exact roll diameter. A small epsilon is added to
// every axis purely to keep adjacent surfaces from z-fighting; it is a
// rendering-quality guard, not a physical clearance.
package layout

import "github.com/packlab/rollpack/pkg/geometry"

// Epsilon is the fixed per-axis spacing pad in scene units (0.1 mm at the
// canonical 0.01 units/mm scale). It keeps touching roll surfaces from
// rendering as coincident geometry.
const Epsilon = 0.001

// Params are the grid extents and roll dimensions the engine positions by.
// Dimensions are in scene units; counts must already be validated (> 0) by
// the configuration layer.
type Params struct {
	Lanes    int
	Channels int
	Layers   int

	RollLength   float32 // along the lane (X) axis
	RollDiameter float32 // channel (Z) and layer (Y) pitch
	Gap          float32 // extra lane-axis spacing only
}

// Placement is one grid cell resolved to a world-space translation.
// Placements are value types: computed fresh per request and never mutated.
type Placement struct {
	Lane    int
	Channel int
	Layer   int

	Position geometry.Vec3
}

// Spacing returns the center-to-center pitch along the lane, channel, and
// layer axes. Only the lane axis carries the configured gap.
func Spacing(p Params) (lane, channel, layer float32) {
	lane = p.RollLength + p.Gap + Epsilon
	channel = p.RollDiameter + Epsilon
	layer = p.RollDiameter + Epsilon
	return lane, channel, layer
}

// offset returns the centering offset for an axis: the coordinate of index
// zero such that the whole row is symmetric about the origin. A count of
// one collapses to zero.
func offset(count int, spacing float32) float32 {
	return -float32(count-1) * spacing / 2
}

// Compute returns one Placement per grid cell, length
// Lanes × Channels × Layers, ordered lane → channel → layer. The same
// Params always produce an element-wise identical slice.
func Compute(p Params) []Placement {
	laneSp, chanSp, layerSp := Spacing(p)
	laneOff := offset(p.Lanes, laneSp)
	chanOff := offset(p.Channels, chanSp)
	layerOff := offset(p.Layers, layerSp)

	placements := make([]Placement, 0, p.Lanes*p.Channels*p.Layers)
	for lane := 0; lane < p.Lanes; lane++ {
		for channel := 0; channel < p.Channels; channel++ {
			for layer := 0; layer < p.Layers; layer++ {
				placements = append(placements, Placement{
					Lane:    lane,
					Channel: channel,
					Layer:   layer,
					Position: geometry.Vec3{
						X: laneOff + float32(lane)*laneSp,
						Y: layerOff + float32(layer)*layerSp,
						Z: chanOff + float32(channel)*chanSp,
					},
				})
			}
		}
	}
	return placements
}
