// Package pack assembles a palletized pack of cylindrical rolls: it turns a
// small set of numeric parameters into a centered 3D grid of placements,
// builds the shared hollow-cylinder geometry for one roll, and pairs the two
// into a Scene a renderer can draw.
//
// # Pipeline position
//
// pack sits between the input surfaces (CLI flags, TOML files, HTTP query
// parameters, all funneled through [ParseConfig] / [Config.Normalize]) and
// the rendering collaborator in pkg/render. It performs no I/O and holds no
// global state: [Assemble] is a pure function of its Config, and calling it
// twice with equal configs yields equivalent scenes.
//
// # Fallback-only validation
//
// Configuration parsing never fails. Every field has a documented default
// that silently replaces missing, malformed, non-finite, or out-of-range
// input, so there is always a renderable pack. Geometric degeneracy (a core
// wider than its roll) is likewise clamped downstream by pkg/geometry.
package pack

import (
	"fmt"
	"math"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/packlab/rollpack/pkg/pack/layout"
)

// Field defaults. These are the documented fallbacks applied whenever a raw
// input value is missing, non-numeric, non-finite, or out of range.
const (
	DefaultLaneCount    = 4
	DefaultChannelCount = 3
	DefaultLayerCount   = 2

	DefaultRollOuterDiameterMm = 120.0
	DefaultCoreOuterDiameterMm = 45.0
	DefaultRollLengthMm        = 100.0
	DefaultGapMm               = 1.0
)

// UnitsPerMm converts millimeter inputs to scene units. All geometry and
// layout math downstream of Config runs in scene units.
const UnitsPerMm = 0.01

// Config describes one pack: grid extents along the three axes plus the
// dimensions shared by every roll. Counts are rolls per axis; dimensions
// are millimeters. The gap applies along the lane (roll length) axis only;
// channels and layers always pack at exact diameter.
type Config struct {
	LaneCount    int `toml:"lane_count" json:"lane_count"`
	ChannelCount int `toml:"channel_count" json:"channel_count"`
	LayerCount   int `toml:"layer_count" json:"layer_count"`

	RollOuterDiameterMm float64 `toml:"roll_outer_diameter_mm" json:"roll_outer_diameter_mm"`
	CoreOuterDiameterMm float64 `toml:"core_outer_diameter_mm" json:"core_outer_diameter_mm"`
	RollLengthMm        float64 `toml:"roll_length_mm" json:"roll_length_mm"`
	GapMm               float64 `toml:"gap_mm" json:"gap_mm"`
}

// DefaultConfig returns the reference 4×3×2 pack of 120mm rolls.
func DefaultConfig() Config {
	return Config{
		LaneCount:           DefaultLaneCount,
		ChannelCount:        DefaultChannelCount,
		LayerCount:          DefaultLayerCount,
		RollOuterDiameterMm: DefaultRollOuterDiameterMm,
		CoreOuterDiameterMm: DefaultCoreOuterDiameterMm,
		RollLengthMm:        DefaultRollLengthMm,
		GapMm:               DefaultGapMm,
	}
}

// Normalize returns a copy of c with every invalid field replaced by its
// default. Counts must be positive integers; diameters and length must be
// positive finite reals; the gap must be a non-negative finite real (zero
// is a valid, deliberate choice). Normalize is idempotent.
func (c Config) Normalize() Config {
	if c.LaneCount < 1 {
		c.LaneCount = DefaultLaneCount
	}
	if c.ChannelCount < 1 {
		c.ChannelCount = DefaultChannelCount
	}
	if c.LayerCount < 1 {
		c.LayerCount = DefaultLayerCount
	}
	if !isPositiveFinite(c.RollOuterDiameterMm) {
		c.RollOuterDiameterMm = DefaultRollOuterDiameterMm
	}
	if !isPositiveFinite(c.CoreOuterDiameterMm) {
		c.CoreOuterDiameterMm = DefaultCoreOuterDiameterMm
	}
	if !isPositiveFinite(c.RollLengthMm) {
		c.RollLengthMm = DefaultRollLengthMm
	}
	if c.GapMm < 0 || math.IsNaN(c.GapMm) || math.IsInf(c.GapMm, 0) {
		c.GapMm = DefaultGapMm
	}
	return c
}

// TotalRollCount returns the number of rolls the grid holds.
func (c Config) TotalRollCount() int {
	return c.LaneCount * c.ChannelCount * c.LayerCount
}

// LayoutParams converts the config to scene-unit layout parameters.
func (c Config) LayoutParams() layout.Params {
	return layout.Params{
		Lanes:        c.LaneCount,
		Channels:     c.ChannelCount,
		Layers:       c.LayerCount,
		RollLength:   float32(c.RollLengthMm * UnitsPerMm),
		RollDiameter: float32(c.RollOuterDiameterMm * UnitsPerMm),
		Gap:          float32(c.GapMm * UnitsPerMm),
	}
}

// RollOuterRadiusUnits returns the roll's outer radius in scene units.
func (c Config) RollOuterRadiusUnits() float32 {
	return float32(c.RollOuterDiameterMm / 2 * UnitsPerMm)
}

// CoreOuterRadiusUnits returns the core's outer radius in scene units,
// before any degeneracy clamping by the geometry builder.
func (c Config) CoreOuterRadiusUnits() float32 {
	return float32(c.CoreOuterDiameterMm / 2 * UnitsPerMm)
}

// RollLengthUnits returns the roll length in scene units.
func (c Config) RollLengthUnits() float32 {
	return float32(c.RollLengthMm * UnitsPerMm)
}

// String returns a compact single-line summary, used in logs.
func (c Config) String() string {
	return fmt.Sprintf("%dx%dx%d rolls Ø%.0fmm core Ø%.0fmm len %.0fmm gap %.1fmm",
		c.LaneCount, c.ChannelCount, c.LayerCount,
		c.RollOuterDiameterMm, c.CoreOuterDiameterMm, c.RollLengthMm, c.GapMm)
}

// Recognized raw-input field names, matching the external contract. These
// are the keys accepted by ParseConfig (HTTP query parameters use the same
// names).
const (
	FieldLaneCount           = "laneCount"
	FieldChannelCount        = "channelCount"
	FieldLayerCount          = "layerCount"
	FieldRollOuterDiameterMm = "rollOuterDiameterMm"
	FieldCoreOuterDiameterMm = "coreOuterDiameterMm"
	FieldRollLengthMm        = "rollLengthMm"
	FieldGapMm               = "gapMm"
)

// ParseConfig builds a Config from raw string inputs, one entry per
// recognized field name. Missing keys keep their defaults; present keys
// that fail to parse, are non-finite, or are out of range are silently
// replaced by the field default. ParseConfig never fails.
func ParseConfig(raw map[string]string) Config {
	c := DefaultConfig()

	parseCount(raw, FieldLaneCount, &c.LaneCount, DefaultLaneCount)
	parseCount(raw, FieldChannelCount, &c.ChannelCount, DefaultChannelCount)
	parseCount(raw, FieldLayerCount, &c.LayerCount, DefaultLayerCount)

	parseDim(raw, FieldRollOuterDiameterMm, &c.RollOuterDiameterMm, DefaultRollOuterDiameterMm)
	parseDim(raw, FieldCoreOuterDiameterMm, &c.CoreOuterDiameterMm, DefaultCoreOuterDiameterMm)
	parseDim(raw, FieldRollLengthMm, &c.RollLengthMm, DefaultRollLengthMm)

	if s, ok := raw[FieldGapMm]; ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			c.GapMm = v
		}
	}

	return c.Normalize()
}

// LoadTOML reads a pack config file, applying field defaults for anything
// the file omits or sets to an invalid value.
func LoadTOML(path string) (Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return c.Normalize(), nil
}

func parseCount(raw map[string]string, key string, dst *int, fallback int) {
	s, ok := raw[key]
	if !ok {
		return
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		*dst = fallback
		return
	}
	*dst = v
}

func parseDim(raw map[string]string, key string, dst *float64, fallback float64) {
	s, ok := raw[key]
	if !ok {
		return
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isPositiveFinite(v) {
		*dst = fallback
		return
	}
	*dst = v
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
