package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/packlab/rollpack/pkg/cache"
	apperrors "github.com/packlab/rollpack/pkg/errors"
	"github.com/packlab/rollpack/pkg/pack"
	"github.com/packlab/rollpack/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string // listen address
	redisAddr   string // Redis address for a shared artifact cache (empty = local file cache)
	cachePrefix string // cache key prefix isolating this deployment in a shared backend
	noCache     bool   // disable the artifact cache
}

// serveCommand creates the serve command for the artifact HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered pack artifacts over HTTP",
		Long: `Serve starts an HTTP server exposing rendered pack artifacts.

Endpoints:
  GET /pack.svg   rendered scene as SVG
  GET /pack.png   rendered scene as PNG
  GET /pack.pdf   rendered scene as PDF
  GET /pack.json  scene data as JSON
  GET /healthz    liveness probe

Pack parameters are query parameters using the raw config field names
(laneCount, channelCount, layerCount, rollOuterDiameterMm,
coreOuterDiameterMm, rollLengthMm, gapMm). Missing or invalid values fall
back to defaults, so every request yields a scene. Camera and size are
tuned with yaw, pitch, distance, width, and height.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for a shared artifact cache")
	cmd.Flags().StringVar(&opts.cachePrefix, "cache-prefix", "", "cache key prefix (namespaces a shared backend per deployment)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	store, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, serveKeyer(opts), c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:         opts.addr,
		Handler:      c.routes(runner),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	c.Logger.Info("listening", "addr", opts.addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serveCache picks the artifact cache backend: Redis when requested, the
// local file cache otherwise.
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	}
	return newCache(false)
}

// serveKeyer picks the cache keyer. A prefix namespaces keys so several
// deployments can share one Redis without colliding; nil lets the runner
// fall back to its default keyer.
func serveKeyer(opts *serveOpts) cache.Keyer {
	if opts.cachePrefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, opts.cachePrefix)
}

// routes builds the HTTP routing table.
func (c *CLI) routes(runner *pipeline.Runner) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(c.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/pack.svg", c.artifactHandler(runner, pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/pack.png", c.artifactHandler(runner, pipeline.FormatPNG, "image/png"))
	r.Get("/pack.pdf", c.artifactHandler(runner, pipeline.FormatPDF, "application/pdf"))
	r.Get("/pack.json", c.artifactHandler(runner, pipeline.FormatJSON, "application/json"))

	return r
}

// logRequests attaches the CLI logger to the request context and logs one
// line per request.
func (c *CLI) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), c.Logger)))

		c.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// artifactHandler renders one format per request. The scene is assembled
// per request and released afterwards; only the artifact cache is shared.
func (c *CLI) artifactHandler(runner *pipeline.Runner, format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := loggerFromContext(r.Context())
		query := r.URL.Query()

		cfg := pack.ParseConfig(queryConfig(query))
		opts := pipeline.Options{
			Config:   cfg,
			Formats:  []string{format},
			Width:    queryInt(query, "width"),
			Height:   queryInt(query, "height"),
			Yaw:      queryFloatPtr(query, "yaw"),
			Pitch:    queryFloatPtr(query, "pitch"),
			Distance: queryFloat(query, "distance"),
			Logger:   logger,
		}

		scene := pack.Assemble(cfg)
		defer scene.Release()

		prog := newProgress(logger)
		artifacts, hit, err := runner.RenderWithCacheInfo(r.Context(), scene, cache.HashJSON(cfg), opts)
		if err != nil {
			logger.Error("render failed", "format", format, "err", err)
			status := http.StatusInternalServerError
			if apperrors.Is(err, apperrors.ErrCodeConverterMissing) {
				status = http.StatusNotImplemented
			}
			http.Error(w, apperrors.UserMessage(err), status)
			return
		}

		w.Header().Set("Content-Type", contentType)
		if hit {
			w.Header().Set("X-Cache", "hit")
		} else {
			w.Header().Set("X-Cache", "miss")
			prog.done(fmt.Sprintf("rendered %s for %d rolls", format, cfg.TotalRollCount()))
		}
		_, _ = w.Write(artifacts[format])
	}
}

// queryConfig extracts the recognized pack parameters from the query string.
func queryConfig(q url.Values) map[string]string {
	raw := make(map[string]string)
	for _, key := range []string{
		pack.FieldLaneCount,
		pack.FieldChannelCount,
		pack.FieldLayerCount,
		pack.FieldRollOuterDiameterMm,
		pack.FieldCoreOuterDiameterMm,
		pack.FieldRollLengthMm,
		pack.FieldGapMm,
	} {
		if v := q.Get(key); v != "" {
			raw[key] = v
		}
	}
	return raw
}

// queryInt parses an integer query parameter; absent or invalid yields 0,
// which downstream option defaults replace.
func queryInt(q url.Values, key string) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}
	return v
}

// queryFloat parses a float query parameter; absent or invalid yields 0.
func queryFloat(q url.Values, key string) float64 {
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return 0
	}
	return v
}

// queryFloatPtr parses an optional float query parameter. Absent or
// invalid yields nil, so an explicit "yaw=0" stays distinguishable from no
// yaw at all.
func queryFloatPtr(q url.Values, key string) *float64 {
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return nil
	}
	return &v
}
