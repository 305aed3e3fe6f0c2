package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/packlab/rollpack/pkg/cache"
	"github.com/packlab/rollpack/pkg/observability"
	"github.com/packlab/rollpack/pkg/pack"
	"github.com/packlab/rollpack/pkg/render"
)

// Runner encapsulates pipeline execution with artifact caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner owns at most one live scene at a time: each Execute call
// assembles a fresh scene, installs it, and releases the one it replaces.
// Callers that hold a *Result must treat its Scene as borrowed.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu    sync.Mutex
	scene *pack.Scene
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete assemble → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts:  make(map[string][]byte),
		ConfigHash: cache.HashJSON(opts.Config),
	}

	// Stage 1: Assemble
	assembleStart := time.Now()
	observability.Pipeline().OnAssembleStart(ctx, opts.Config.TotalRollCount())
	scene := r.Assemble(opts.Config)
	result.Scene = scene
	result.Stats.AssembleTime = time.Since(assembleStart)
	result.Stats.RollCount = scene.TotalRollCount
	result.Stats.TriangleCount = scene.TriangleCount()
	observability.Pipeline().OnAssembleComplete(ctx,
		scene.TotalRollCount, scene.TriangleCount(), result.Stats.AssembleTime, nil)

	r.Logger.Info("assembled pack",
		"rolls", scene.TotalRollCount,
		"triangles", result.Stats.TriangleCount,
		"duration", result.Stats.AssembleTime)

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, scene, result.ConfigHash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Assemble builds a scene from a configuration and installs it as the
// runner's current scene, releasing the one it replaces.
func (r *Runner) Assemble(cfg pack.Config) *pack.Scene {
	scene := pack.Assemble(cfg)

	r.mu.Lock()
	prev := r.scene
	r.scene = scene
	r.mu.Unlock()

	if prev != nil {
		prev.Release()
	}
	return scene
}

// Scene returns the runner's current scene, or nil before the first
// Execute or Assemble call.
func (r *Runner) Scene() *pack.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scene
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// configHash keys the cache; pass cache.HashJSON of the normalized config.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scene *pack.Scene, configHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache (unless refresh requested)
	if !opts.Refresh {
		allCached := true
		artifacts := make(map[string][]byte)

		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(configHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := r.renderArtifacts(scene, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(configHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, scene *pack.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, scene, cache.HashJSON(opts.Config.Normalize()), opts)
	return artifacts, err
}

// renderArtifacts produces every requested format. SVG is the canonical
// drawing; PNG and PDF are converted from it on demand.
func (r *Runner) renderArtifacts(scene *pack.Scene, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgFor := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(scene,
				render.WithSize(opts.Width, opts.Height),
				render.WithCamera(opts.Camera()),
				render.WithBackground(opts.Background))
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgFor()
		case FormatPNG:
			data, err = render.ToPNG(svgFor(), opts.PNGScale)
		case FormatPDF:
			data, err = render.ToPDF(svgFor())
		case FormatJSON:
			data, err = render.MarshalScene(scene)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// Close releases the current scene and the resources held by the cache.
func (r *Runner) Close() error {
	r.mu.Lock()
	scene := r.scene
	r.scene = nil
	r.mu.Unlock()

	if scene != nil {
		scene.Release()
	}
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
