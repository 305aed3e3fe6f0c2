package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/packlab/rollpack/pkg/pack"
	"github.com/packlab/rollpack/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: "svg", "png", "pdf", "json"
	width      int      // viewport width in pixels
	height     int      // viewport height in pixels
	yaw        float64  // camera yaw in degrees
	pitch      float64  // camera pitch in degrees
	distance   float64  // camera distance as a multiple of the scene radius
	background string   // background fill color (empty = transparent)
	pngScale   float64  // raster scale factor for PNG output
	noCache    bool     // disable the artifact cache
	refresh    bool     // bypass cached artifacts and re-render
}

// renderCommand creates the render command for generating pack artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	cfgFlags := &configFlags{}
	opts := renderOpts{
		width:    pipeline.DefaultWidth,
		height:   pipeline.DefaultHeight,
		yaw:      pipeline.DefaultYaw,
		pitch:    pipeline.DefaultPitch,
		distance: pipeline.DefaultDistance,
		pngScale: pipeline.DefaultPNGScale,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a pack to SVG, PNG, PDF, or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := cfgFlags.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, &opts)
		},
	}

	cfgFlags.register(cmd)

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "frame width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "frame height in pixels")
	cmd.Flags().Float64Var(&opts.yaw, "yaw", opts.yaw, "camera yaw in degrees (0 = head-on)")
	cmd.Flags().Float64Var(&opts.pitch, "pitch", opts.pitch, "camera pitch in degrees (0 = level)")
	cmd.Flags().Float64Var(&opts.distance, "distance", opts.distance, "camera distance (multiple of scene radius)")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color (any SVG color, empty = transparent)")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", opts.pngScale, "raster scale factor for PNG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if a cached artifact exists")

	return cmd
}

// runRender executes the pipeline and writes one file per requested format.
func (c *CLI) runRender(ctx context.Context, cfg pack.Config, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d rolls...", cfg.TotalRollCount()))
	spin.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Config:     cfg,
		Formats:    opts.formats,
		Width:      opts.width,
		Height:     opts.height,
		Yaw:        &opts.yaw,
		Pitch:      &opts.pitch,
		Distance:   opts.distance,
		Background: opts.background,
		PNGScale:   opts.pngScale,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	})
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	if spin.Cancelled() {
		spin.Stop()
		printWarning("Render cancelled")
		return ctx.Err()
	}

	spin.StopWithSuccess(fmt.Sprintf("Rendered %s", cfg))
	printStats(result.Stats.RollCount, result.Stats.TriangleCount, result.CacheInfo.RenderHit)

	base := outputBase(opts.output)
	for _, format := range opts.formats {
		path := outputPath(base, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	return nil
}

// outputBase derives the base output path. An explicit output with a known
// format extension has that extension stripped; an empty output defaults
// to "pack".
func outputBase(output string) string {
	if output == "" {
		return "pack"
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// outputPath builds the file path for one format. A single format with an
// explicit output keeps the output verbatim so "pack render -o out.svg"
// writes exactly out.svg.
func outputPath(base, output, format string, multi bool) string {
	if !multi && output != "" {
		if strings.TrimPrefix(filepath.Ext(output), ".") == format {
			return output
		}
	}
	return base + "." + format
}
