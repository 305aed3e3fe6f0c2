package geometry

import "testing"

func TestBuildRollPatches(t *testing.T) {
	g := BuildRoll(0.60, 0.225, 1.0)

	patches := g.Patches()
	if len(patches) != 9 {
		t.Fatalf("Patches() returned %d patches, want 9", len(patches))
	}

	wantNames := []string{
		PatchOuter,
		PatchBevelFront, PatchBevelBack,
		PatchEndFront, PatchEndBack,
		PatchCoreOuter, PatchCoreInner,
		PatchCoreEndFront, PatchCoreEndBack,
	}
	for i, p := range patches {
		if p == nil {
			t.Fatalf("patch %d is nil", i)
		}
		if p.Name != wantNames[i] {
			t.Errorf("patch %d name = %q, want %q", i, p.Name, wantNames[i])
		}
		if p.TriangleCount() == 0 {
			t.Errorf("patch %q has no triangles", p.Name)
		}
		if len(p.Positions) != len(p.Normals) || len(p.Positions) != len(p.UVs) {
			t.Errorf("patch %q has mismatched attribute lengths", p.Name)
		}
	}
}

func TestClampRadii(t *testing.T) {
	tests := []struct {
		name      string
		outer     float32
		coreOuter float32
	}{
		{"normal", 0.60, 0.225},
		{"core equals outer", 0.60, 0.60},
		{"core exceeds outer", 0.60, 1.0},
		{"tiny core", 0.60, 0.001},
		{"zero core", 0.60, 0},
		{"thin roll", 0.05, 0.0225},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coreOuter, coreInner := ClampRadii(tt.outer, tt.coreOuter)
			if !(0 < coreInner && coreInner < coreOuter && coreOuter < tt.outer) {
				t.Errorf("ClampRadii(%v, %v) = (%v, %v): want 0 < inner < coreOuter < outer",
					tt.outer, tt.coreOuter, coreOuter, coreInner)
			}
		})
	}
}

func TestBuildRollCoreLargerThanRoll(t *testing.T) {
	// Invalid input: 200mm core on a 120mm roll (scene units at 0.01/mm).
	g := BuildRoll(0.60, 1.0, 1.0)

	p := g.Params
	if p.CoreOuterRadius >= p.OuterRadius {
		t.Errorf("CoreOuterRadius = %v, want < OuterRadius %v", p.CoreOuterRadius, p.OuterRadius)
	}
	want := 0.60 * float32(coreClampRatio)
	if diff := p.CoreOuterRadius - want; diff < -1e-5 || diff > 1e-5 {
		t.Errorf("CoreOuterRadius = %v, want %v (0.99 * outer)", p.CoreOuterRadius, want)
	}
	if p.CoreInnerRadius <= 0 || p.CoreInnerRadius >= p.CoreOuterRadius {
		t.Errorf("CoreInnerRadius = %v, want in (0, %v)", p.CoreInnerRadius, p.CoreOuterRadius)
	}

	// All four core shells must still exist and carry triangles.
	for _, patch := range []*Mesh{g.CoreOuterShell, g.CoreInnerShell, g.CoreEndFront, g.CoreEndBack} {
		if patch.TriangleCount() == 0 {
			t.Errorf("patch %q degenerate after clamping", patch.Name)
		}
	}
}

func TestBuildRollNonDegenerate(t *testing.T) {
	// Hostile dimension combinations must all come out renderable.
	tests := []struct {
		name                string
		outer, core, length float32
	}{
		{"zero everything", 0, 0, 0},
		{"negative length", 0.6, 0.2, -1},
		{"huge core", 0.6, 50, 1},
		{"hairline roll", 0.001, 0.0009, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := BuildRollSegs(tt.outer, tt.core, tt.length, 8)
			p := g.Params
			if !(0 < p.CoreInnerRadius && p.CoreInnerRadius < p.CoreOuterRadius && p.CoreOuterRadius < p.OuterRadius) {
				t.Errorf("params %+v violate 0 < inner < coreOuter < outer", p)
			}
			if p.Length <= 0 {
				t.Errorf("Length = %v, want > 0", p.Length)
			}
			if g.TriangleCount() == 0 {
				t.Error("no triangles generated")
			}
		})
	}
}

func TestBuildRollSpan(t *testing.T) {
	const length = 1.0
	g := BuildRoll(0.60, 0.225, length)

	var min, max float32
	for _, p := range g.Patches() {
		lo, hi := p.Bounds()
		if lo.X < min {
			min = lo.X
		}
		if hi.X > max {
			max = hi.X
		}
	}
	if min != -length/2 || max != length/2 {
		t.Errorf("roll X span = [%v, %v], want [-%v, %v]", min, max, length/2, length/2)
	}

	// Core is recessed: strictly inside the paper span.
	coreLo, coreHi := g.CoreOuterShell.Bounds()
	if coreLo.X <= -length/2 || coreHi.X >= length/2 {
		t.Errorf("core X span = [%v, %v], want strictly inside [-%v, %v]",
			coreLo.X, coreHi.X, length/2, length/2)
	}
}

func TestBuildRollDeterministic(t *testing.T) {
	a := BuildRoll(0.60, 0.225, 1.0)
	b := BuildRoll(0.60, 0.225, 1.0)

	if a.Params != b.Params {
		t.Fatalf("Params differ: %+v vs %+v", a.Params, b.Params)
	}
	ap, bp := a.Patches(), b.Patches()
	for i := range ap {
		if ap[i].VertexCount() != bp[i].VertexCount() || ap[i].TriangleCount() != bp[i].TriangleCount() {
			t.Errorf("patch %q differs between identical builds", ap[i].Name)
		}
		for j := range ap[i].Positions {
			if ap[i].Positions[j] != bp[i].Positions[j] {
				t.Fatalf("patch %q vertex %d differs", ap[i].Name, j)
			}
		}
	}
}
