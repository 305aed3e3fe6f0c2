package pack

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/packlab/rollpack/pkg/geometry"
	"github.com/packlab/rollpack/pkg/pack/layout"
)

// Instance pairs the pack's shared roll geometry with one placement. Every
// instance of a scene references the same *RollGeometry; geometry is owned
// once per configuration, not per roll.
type Instance struct {
	Geometry  *geometry.RollGeometry
	Placement layout.Placement
}

// Scene is a fully assembled pack: the shared roll geometry, the ordered
// placement list, and the instance pairing of the two. A Scene wholly
// replaces any previous scene; callers release the prior one as the new one
// is installed (see [Scene.Release]).
type Scene struct {
	// ID identifies this assembly, so holders of a stale scene can tell it
	// apart from its replacement.
	ID uuid.UUID

	// Config is the normalized configuration the scene was built from.
	Config Config

	// Roll is the single geometry shared by all instances.
	Roll *geometry.RollGeometry

	// Placements in deterministic lane → channel → layer order.
	Placements []layout.Placement

	// Instances pairs Roll with each placement, in placement order.
	Instances []Instance

	// TotalRollCount = lanes × channels × layers = len(Placements).
	TotalRollCount int

	released bool
}

// Assemble builds a Scene from cfg. The config is normalized first, so any
// raw Config is acceptable; Assemble never fails. Equal configs produce
// equivalent scenes (same placements, same geometry parameters); only the
// scene ID differs.
func Assemble(cfg Config) *Scene {
	cfg = cfg.Normalize()

	roll := geometry.BuildRoll(
		cfg.RollOuterRadiusUnits(),
		cfg.CoreOuterRadiusUnits(),
		cfg.RollLengthUnits(),
	)
	placements := layout.Compute(cfg.LayoutParams())

	// A count mismatch is a layout engine defect, not a runtime condition.
	if len(placements) != cfg.TotalRollCount() {
		panic(fmt.Sprintf("pack: layout produced %d placements for a %s pack (want %d)",
			len(placements), cfg, cfg.TotalRollCount()))
	}

	instances := make([]Instance, len(placements))
	for i, p := range placements {
		instances[i] = Instance{Geometry: roll, Placement: p}
	}

	return &Scene{
		ID:             uuid.New(),
		Config:         cfg,
		Roll:           roll,
		Placements:     placements,
		Instances:      instances,
		TotalRollCount: len(placements),
	}
}

// Release marks the scene as replaced and drops its geometry references so
// the meshes can be collected once no renderer holds them. Release is
// idempotent. Reading a released scene is a caller bug; renderers should
// check Released when holding scenes across regenerations.
func (s *Scene) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	s.Roll = nil
	s.Instances = nil
	s.Placements = nil
}

// Released reports whether Release has been called.
func (s *Scene) Released() bool {
	return s != nil && s.released
}

// TriangleCount returns the total rendered triangle count of the scene
// (shared geometry times instance count).
func (s *Scene) TriangleCount() int {
	if s.Roll == nil {
		return 0
	}
	return s.Roll.TriangleCount() * len(s.Instances)
}
