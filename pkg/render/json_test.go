package render

import (
	"encoding/json"
	"testing"

	"github.com/packlab/rollpack/pkg/pack"
)

func TestMarshalScene(t *testing.T) {
	s := pack.Assemble(pack.DefaultConfig())

	data, err := MarshalScene(s)
	if err != nil {
		t.Fatalf("MarshalScene() error: %v", err)
	}

	var out SceneJSON
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if out.ID != s.ID.String() {
		t.Errorf("ID = %q, want %q", out.ID, s.ID)
	}
	if out.TotalRollCount != 24 {
		t.Errorf("TotalRollCount = %d, want 24", out.TotalRollCount)
	}
	if len(out.Placements) != 24 {
		t.Errorf("len(Placements) = %d, want 24", len(out.Placements))
	}
	if len(out.Roll.Patches) != 9 {
		t.Errorf("len(Roll.Patches) = %d, want 9", len(out.Roll.Patches))
	}
	if !(0 < out.Roll.CoreInnerRadius && out.Roll.CoreInnerRadius < out.Roll.CoreOuterRadius &&
		out.Roll.CoreOuterRadius < out.Roll.OuterRadius) {
		t.Errorf("roll radii %+v not ordered", out.Roll)
	}
}

func TestMarshalSceneReleased(t *testing.T) {
	s := pack.Assemble(pack.DefaultConfig())
	s.Release()

	if _, err := MarshalScene(s); err == nil {
		t.Error("MarshalScene() on released scene: want error, got nil")
	}
	if _, err := MarshalScene(nil); err == nil {
		t.Error("MarshalScene(nil): want error, got nil")
	}
}
