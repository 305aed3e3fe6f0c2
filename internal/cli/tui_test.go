package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/packlab/rollpack/pkg/pack"
)

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditorNavigation(t *testing.T) {
	m := newEditorModel(pack.DefaultConfig(), "pack.svg")

	// Cursor starts at the top and cannot go above it.
	next, _ := m.Update(keyMsg("up"))
	m = next.(editorModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	next, _ = m.Update(keyMsg("down"))
	m = next.(editorModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	// Cursor is clamped at the last field.
	for range editorFields {
		next, _ = m.Update(keyMsg("down"))
		m = next.(editorModel)
	}
	if m.cursor != len(editorFields)-1 {
		t.Errorf("cursor = %d, want %d", m.cursor, len(editorFields)-1)
	}
}

func TestEditorAdjustsValues(t *testing.T) {
	m := newEditorModel(pack.DefaultConfig(), "pack.svg")

	// First field is lanes.
	next, _ := m.Update(keyMsg("right"))
	m = next.(editorModel)
	if m.cfg.LaneCount != pack.DefaultLaneCount+1 {
		t.Errorf("LaneCount = %d, want %d", m.cfg.LaneCount, pack.DefaultLaneCount+1)
	}

	next, _ = m.Update(keyMsg("left"))
	m = next.(editorModel)
	if m.cfg.LaneCount != pack.DefaultLaneCount {
		t.Errorf("LaneCount = %d, want %d", m.cfg.LaneCount, pack.DefaultLaneCount)
	}
}

func TestEditorCountsNeverBelowOne(t *testing.T) {
	cfg := pack.DefaultConfig()
	cfg.LaneCount = 1
	m := newEditorModel(cfg, "pack.svg")

	next, _ := m.Update(keyMsg("left"))
	m = next.(editorModel)
	if m.cfg.LaneCount != 1 {
		t.Errorf("LaneCount = %d, want clamped at 1", m.cfg.LaneCount)
	}
}

func TestEditorResetDefaults(t *testing.T) {
	cfg := pack.DefaultConfig()
	cfg.LaneCount = 9
	m := newEditorModel(cfg, "pack.svg")

	next, _ := m.Update(keyMsg("d"))
	m = next.(editorModel)
	if m.cfg != pack.DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", m.cfg)
	}
}

func TestEditorQuit(t *testing.T) {
	m := newEditorModel(pack.DefaultConfig(), "pack.svg")
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
}

func TestEditorWriteSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	m := newEditorModel(pack.DefaultConfig(), path)

	next, _ := m.Update(keyMsg("enter"))
	m = next.(editorModel)

	if !m.written {
		t.Error("written should be true after a successful write")
	}
	if m.kind != statusOK {
		t.Errorf("status kind = %v, want statusOK", m.kind)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output should be an SVG document")
	}
}

func TestEditorWriteFailureStatus(t *testing.T) {
	m := newEditorModel(pack.DefaultConfig(), filepath.Join(t.TempDir(), "missing", "out.svg"))

	next, _ := m.Update(keyMsg("enter"))
	m = next.(editorModel)

	if m.written {
		t.Error("written should stay false after a failed write")
	}
	if m.kind != statusErr {
		t.Errorf("status kind = %v, want statusErr", m.kind)
	}
}

func TestEditorViewShowsRollCount(t *testing.T) {
	m := newEditorModel(pack.DefaultConfig(), "pack.svg")
	view := m.View()
	if !strings.Contains(view, "24 rolls") {
		t.Errorf("view should show the total roll count, got:\n%s", view)
	}
}
