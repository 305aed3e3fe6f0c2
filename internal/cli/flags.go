package cli

import (
	"github.com/spf13/cobra"

	"github.com/packlab/rollpack/pkg/pack"
)

// configFlags binds the pack parameters to cobra flags. Flag defaults
// mirror the pack defaults, and a TOML config file can supply a base that
// explicitly set flags override.
type configFlags struct {
	configPath string

	lanes    int
	channels int
	layers   int

	rollDiameter float64
	coreDiameter float64
	rollLength   float64
	gap          float64
}

// register adds the pack parameter flags to cmd.
func (f *configFlags) register(cmd *cobra.Command) {
	defs := pack.DefaultConfig()

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "pack configuration file (TOML)")

	cmd.Flags().IntVar(&f.lanes, "lanes", defs.LaneCount, "rolls per layer along the roll axis")
	cmd.Flags().IntVar(&f.channels, "channels", defs.ChannelCount, "rows of rolls per layer")
	cmd.Flags().IntVar(&f.layers, "layers", defs.LayerCount, "stacked layers of rolls")

	cmd.Flags().Float64Var(&f.rollDiameter, "roll-diameter", defs.RollOuterDiameterMm, "roll outer diameter in mm")
	cmd.Flags().Float64Var(&f.coreDiameter, "core-diameter", defs.CoreOuterDiameterMm, "core outer diameter in mm")
	cmd.Flags().Float64Var(&f.rollLength, "roll-length", defs.RollLengthMm, "roll length in mm")
	cmd.Flags().Float64Var(&f.gap, "gap", defs.GapMm, "gap between rolls along the roll axis in mm")
}

// resolve builds the effective pack configuration: defaults, then the TOML
// file if given, then any explicitly set flags. Hostile values fall back to
// field defaults per the config contract.
func (f *configFlags) resolve(cmd *cobra.Command) (pack.Config, error) {
	cfg := pack.DefaultConfig()

	if f.configPath != "" {
		loaded, err := pack.LoadTOML(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("lanes") {
		cfg.LaneCount = f.lanes
	}
	if flags.Changed("channels") {
		cfg.ChannelCount = f.channels
	}
	if flags.Changed("layers") {
		cfg.LayerCount = f.layers
	}
	if flags.Changed("roll-diameter") {
		cfg.RollOuterDiameterMm = f.rollDiameter
	}
	if flags.Changed("core-diameter") {
		cfg.CoreOuterDiameterMm = f.coreDiameter
	}
	if flags.Changed("roll-length") {
		cfg.RollLengthMm = f.rollLength
	}
	if flags.Changed("gap") {
		cfg.GapMm = f.gap
	}

	return cfg.Normalize(), nil
}
