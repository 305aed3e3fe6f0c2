// Package pipeline provides the core assemble → render pipeline for Rollpack.
//
// This package implements the complete config → scene → artifact flow that
// can be used by CLI, server, and TUI components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Assemble: Normalize a pack configuration and build the scene (shared
//     roll geometry plus per-roll placements)
//  2. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Config:  pack.DefaultConfig(),
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/packlab/rollpack/pkg/cache"
	apperrors "github.com/packlab/rollpack/pkg/errors"
	"github.com/packlab/rollpack/pkg/pack"
	"github.com/packlab/rollpack/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and TUI
// =============================================================================

const (
	// DefaultWidth is the default artifact width in pixels.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default artifact height in pixels.
	DefaultHeight = render.DefaultHeight

	// DefaultPNGScale is the default raster scale factor for PNG output.
	DefaultPNGScale = 2.0

	// Default orbit camera, re-exported so flag surfaces can show real
	// defaults instead of zero sentinels.
	DefaultYaw      = render.DefaultYaw
	DefaultPitch    = render.DefaultPitch
	DefaultDistance = render.DefaultDistance
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Pack configuration. Hostile values are normalized, never rejected.
	Config pack.Config `json:"config"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	Background string   `json:"background,omitempty"`
	PNGScale   float64  `json:"png_scale,omitempty"`

	// Camera options. Nil Yaw or Pitch means the default orbit angle;
	// pointing at zero requests a head-on view, which is distinct from
	// leaving the angle unset. Zero Distance means the default orbit
	// distance (a zero distance has no geometric meaning).
	Yaw      *float64 `json:"yaw,omitempty"`
	Pitch    *float64 `json:"pitch,omitempty"`
	Distance float64  `json:"distance,omitempty"`

	// Refresh bypasses the artifact cache and re-renders.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the assembled pack scene. It is owned by the Runner and is
	// released when a later Execute call replaces it.
	Scene *pack.Scene

	// ConfigHash is the content hash of the normalized configuration.
	ConfigHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RollCount     int
	TriangleCount int
	AssembleTime  time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks render fields and applies defaults.
// The pack configuration itself is normalized, never validated: hostile
// values fall back to defaults per the config contract.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.Config = o.Config.Normalize()

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Camera returns the orbit camera for this run. Unset fields fall back to
// the render package defaults.
func (o *Options) Camera() render.Camera {
	cam := render.DefaultCamera()
	if o.Yaw != nil {
		cam.Yaw = *o.Yaw
	}
	if o.Pitch != nil {
		cam.Pitch = *o.Pitch
	}
	if o.Distance > 0 {
		cam.Distance = o.Distance
	}
	return cam
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	cam := o.Camera()
	return cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Yaw:      cam.Yaw,
		Pitch:    cam.Pitch,
		Distance: cam.Distance,
	}
}
