package render

import (
	"encoding/json"

	apperrors "github.com/packlab/rollpack/pkg/errors"
	"github.com/packlab/rollpack/pkg/pack"
)

// SceneJSON is the serialized form of an assembled pack, for downstream
// tooling that wants positions and dimensions rather than pixels. The full
// triangle data is deliberately omitted: geometry is cheap to rebuild from
// the recorded parameters and dominates the payload otherwise.
type SceneJSON struct {
	ID             string          `json:"id"`
	Config         pack.Config     `json:"config"`
	TotalRollCount int             `json:"total_roll_count"`
	Roll           RollJSON        `json:"roll"`
	Placements     []PlacementJSON `json:"placements"`
}

// RollJSON records the resolved (post-clamp) roll dimensions in scene
// units, plus mesh statistics.
type RollJSON struct {
	OuterRadius     float32  `json:"outer_radius"`
	CoreOuterRadius float32  `json:"core_outer_radius"`
	CoreInnerRadius float32  `json:"core_inner_radius"`
	Length          float32  `json:"length"`
	Patches         []string `json:"patches"`
	VertexCount     int      `json:"vertex_count"`
	TriangleCount   int      `json:"triangle_count"`
}

// PlacementJSON is one grid cell with its world translation.
type PlacementJSON struct {
	Lane     int        `json:"lane"`
	Channel  int        `json:"channel"`
	Layer    int        `json:"layer"`
	Position [3]float32 `json:"position"`
}

// MarshalScene serializes a live scene. Released scenes are rejected: their
// geometry is gone and a partial export would be misleading.
func MarshalScene(s *pack.Scene) ([]byte, error) {
	if s == nil || s.Released() {
		return nil, apperrors.New(apperrors.ErrCodeSceneReleased, "marshal scene: scene is released")
	}

	patches := s.Roll.Patches()
	names := make([]string, len(patches))
	for i, p := range patches {
		names[i] = p.Name
	}

	out := SceneJSON{
		ID:             s.ID.String(),
		Config:         s.Config,
		TotalRollCount: s.TotalRollCount,
		Roll: RollJSON{
			OuterRadius:     s.Roll.Params.OuterRadius,
			CoreOuterRadius: s.Roll.Params.CoreOuterRadius,
			CoreInnerRadius: s.Roll.Params.CoreInnerRadius,
			Length:          s.Roll.Params.Length,
			Patches:         names,
			VertexCount:     s.Roll.VertexCount(),
			TriangleCount:   s.Roll.TriangleCount(),
		},
		Placements: make([]PlacementJSON, len(s.Placements)),
	}
	for i, p := range s.Placements {
		out.Placements[i] = PlacementJSON{
			Lane:     p.Lane,
			Channel:  p.Channel,
			Layer:    p.Layer,
			Position: [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
		}
	}

	return json.MarshalIndent(out, "", "  ")
}
