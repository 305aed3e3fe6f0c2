package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/packlab/rollpack/pkg/cache"
	"github.com/packlab/rollpack/pkg/pack"
	"github.com/packlab/rollpack/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c := New(io.Discard, LogInfo)
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	t.Cleanup(func() { runner.Close() })
	srv := httptest.NewServer(c.routes(runner))
	t.Cleanup(srv.Close)
	return srv
}

func TestServeHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestServePackSVG(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/pack.svg?laneCount=2&layerCount=1")
	if err != nil {
		t.Fatalf("GET /pack.svg error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if xc := resp.Header.Get("X-Cache"); xc != "hit" && xc != "miss" {
		t.Errorf("X-Cache = %q, want hit or miss", xc)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<svg") {
		t.Error("body should contain an SVG document")
	}
}

func TestServePackSVGHostileParams(t *testing.T) {
	srv := newTestServer(t)

	// Hostile values never fail; they fall back to defaults.
	resp, err := http.Get(srv.URL + "/pack.svg?laneCount=abc&gapMm=-5&yaw=bogus")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 for hostile params", resp.StatusCode)
	}
}

func TestServePackJSON(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/pack.json?laneCount=1&channelCount=1&layerCount=1")
	if err != nil {
		t.Fatalf("GET /pack.json error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		TotalRollCount int `json:"total_roll_count"`
		Config         struct {
			LaneCount int `json:"lane_count"`
		} `json:"config"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.TotalRollCount != 1 {
		t.Errorf("total_roll_count = %d, want 1", payload.TotalRollCount)
	}
	if payload.Config.LaneCount != 1 {
		t.Errorf("config.lane_count = %d, want 1", payload.Config.LaneCount)
	}
}

func TestServeNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestQueryConfig(t *testing.T) {
	q := url.Values{}
	q.Set(pack.FieldLaneCount, "5")
	q.Set(pack.FieldGapMm, "2.5")
	q.Set("unrelated", "x")

	raw := queryConfig(q)
	if len(raw) != 2 {
		t.Errorf("queryConfig() kept %d keys, want 2", len(raw))
	}

	cfg := pack.ParseConfig(raw)
	if cfg.LaneCount != 5 {
		t.Errorf("LaneCount = %d, want 5", cfg.LaneCount)
	}
	if cfg.GapMm != 2.5 {
		t.Errorf("GapMm = %v, want 2.5", cfg.GapMm)
	}
}

func TestQueryHelpers(t *testing.T) {
	q := url.Values{}
	q.Set("width", "640")
	q.Set("yaw", "12.5")
	q.Set("junk", "abc")

	if got := queryInt(q, "width"); got != 640 {
		t.Errorf("queryInt(width) = %d, want 640", got)
	}
	if got := queryInt(q, "junk"); got != 0 {
		t.Errorf("queryInt(junk) = %d, want 0", got)
	}
	if got := queryFloat(q, "yaw"); got != 12.5 {
		t.Errorf("queryFloat(yaw) = %v, want 12.5", got)
	}
	if got := queryFloat(q, "missing"); got != 0 {
		t.Errorf("queryFloat(missing) = %v, want 0", got)
	}
}

func TestQueryFloatPtr(t *testing.T) {
	q := url.Values{}
	q.Set("yaw", "0")
	q.Set("pitch", "-12.5")
	q.Set("junk", "abc")

	// An explicit zero angle must survive as a value, not collapse to
	// "unset".
	if got := queryFloatPtr(q, "yaw"); got == nil || *got != 0 {
		t.Errorf("queryFloatPtr(yaw) = %v, want pointer to 0", got)
	}
	if got := queryFloatPtr(q, "pitch"); got == nil || *got != -12.5 {
		t.Errorf("queryFloatPtr(pitch) = %v, want pointer to -12.5", got)
	}
	if got := queryFloatPtr(q, "junk"); got != nil {
		t.Errorf("queryFloatPtr(junk) = %v, want nil", got)
	}
	if got := queryFloatPtr(q, "missing"); got != nil {
		t.Errorf("queryFloatPtr(missing) = %v, want nil", got)
	}
}

func TestServeKeyer(t *testing.T) {
	if k := serveKeyer(&serveOpts{}); k != nil {
		t.Errorf("serveKeyer without prefix = %v, want nil", k)
	}

	k := serveKeyer(&serveOpts{cachePrefix: "east-1:"})
	if k == nil {
		t.Fatal("serveKeyer with prefix returned nil")
	}
	key := k.ArtifactKey("abc", cache.ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(key, "east-1:") {
		t.Errorf("key = %q, want east-1: prefix", key)
	}
}
