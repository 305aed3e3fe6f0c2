package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/packlab/rollpack/pkg/pack"
)

// newFlagCommand builds a throwaway command with the pack flags registered
// and the given arguments parsed.
func newFlagCommand(t *testing.T, f *configFlags, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error: %v", args, err)
	}
	return cmd
}

func TestConfigFlagsDefaults(t *testing.T) {
	f := &configFlags{}
	cmd := newFlagCommand(t, f)

	cfg, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if cfg != pack.DefaultConfig() {
		t.Errorf("resolve() = %+v, want defaults %+v", cfg, pack.DefaultConfig())
	}
}

func TestConfigFlagsOverride(t *testing.T) {
	f := &configFlags{}
	cmd := newFlagCommand(t, f, "--lanes", "2", "--gap", "0", "--roll-diameter", "200")

	cfg, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if cfg.LaneCount != 2 {
		t.Errorf("LaneCount = %d, want 2", cfg.LaneCount)
	}
	if cfg.GapMm != 0 {
		t.Errorf("GapMm = %v, want explicit 0 preserved", cfg.GapMm)
	}
	if cfg.RollOuterDiameterMm != 200 {
		t.Errorf("RollOuterDiameterMm = %v, want 200", cfg.RollOuterDiameterMm)
	}
	// Untouched fields keep defaults.
	if cfg.ChannelCount != pack.DefaultChannelCount {
		t.Errorf("ChannelCount = %d, want default %d", cfg.ChannelCount, pack.DefaultChannelCount)
	}
}

func TestConfigFlagsHostileValuesNormalized(t *testing.T) {
	f := &configFlags{}
	cmd := newFlagCommand(t, f, "--lanes", "-4", "--roll-length", "-1")

	cfg, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if cfg.LaneCount != pack.DefaultLaneCount {
		t.Errorf("LaneCount = %d, want default %d", cfg.LaneCount, pack.DefaultLaneCount)
	}
	if cfg.RollLengthMm != pack.DefaultRollLengthMm {
		t.Errorf("RollLengthMm = %v, want default %v", cfg.RollLengthMm, pack.DefaultRollLengthMm)
	}
}

func TestConfigFlagsTOMLBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.toml")
	content := "lane_count = 6\nroll_length_mm = 150.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	f := &configFlags{}
	cmd := newFlagCommand(t, f, "--config", path, "--lanes", "2")

	cfg, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	// Explicit flag beats the file.
	if cfg.LaneCount != 2 {
		t.Errorf("LaneCount = %d, want flag value 2", cfg.LaneCount)
	}
	// File beats defaults.
	if cfg.RollLengthMm != 150 {
		t.Errorf("RollLengthMm = %v, want file value 150", cfg.RollLengthMm)
	}
	// Everything else stays default.
	if cfg.LayerCount != pack.DefaultLayerCount {
		t.Errorf("LayerCount = %d, want default %d", cfg.LayerCount, pack.DefaultLayerCount)
	}
}

func TestConfigFlagsMissingFile(t *testing.T) {
	f := &configFlags{}
	cmd := newFlagCommand(t, f, "--config", filepath.Join(t.TempDir(), "nope.toml"))

	if _, err := f.resolve(cmd); err == nil {
		t.Error("resolve() should fail for a missing config file")
	}
}
