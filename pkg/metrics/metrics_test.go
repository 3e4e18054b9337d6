package metrics

import (
	"context"
	stderrors "errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/lenslayout/pkg/errors"
	"github.com/matzehuels/lenslayout/pkg/observability"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.SolvesTotal == nil || r.HTTPRequestsTotal == nil || r.CacheHitsTotal == nil {
		t.Fatal("collectors not initialized")
	}
	if r.Gatherer() == nil {
		t.Fatal("Gatherer() returned nil")
	}
}

func TestSolveHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnSolveStart(ctx, "fr", 16)
	if got := testutil.ToFloat64(r.ActiveSolves.WithLabelValues("fr")); got != 1 {
		t.Errorf("active = %v, want 1", got)
	}
	r.OnSolveComplete(ctx, "fr", 120, 50*time.Millisecond, true, nil)
	if got := testutil.ToFloat64(r.ActiveSolves.WithLabelValues("fr")); got != 0 {
		t.Errorf("active = %v, want 0", got)
	}

	r.OnSolveStart(ctx, "fr", 16)
	r.OnSolveComplete(ctx, "fr", 3, time.Millisecond, false, errors.New(errors.ErrCodeCanceled, "stop"))

	tests := []struct {
		outcome string
		want    float64
	}{
		{"converged", 1},
		{"canceled", 1},
		{"error", 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(r.SolvesTotal.WithLabelValues("fr", tt.outcome)); got != tt.want {
			t.Errorf("solves{%s} = %v, want %v", tt.outcome, got, tt.want)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		converged bool
		err       error
		want      string
	}{
		{true, nil, "converged"},
		{false, nil, "stopped"},
		{false, stderrors.New("boom"), "error"},
		{false, errors.New(errors.ErrCodeCanceled, "x"), "canceled"},
	}
	for _, tt := range tests {
		if got := outcome(tt.converged, tt.err); got != tt.want {
			t.Errorf("outcome(%v, %v) = %q, want %q", tt.converged, tt.err, got, tt.want)
		}
	}
}

func TestCacheAndHTTPHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnCacheHit(ctx, "layout")
	r.OnCacheHit(ctx, "layout")
	r.OnCacheMiss(ctx, "layout")
	r.OnCacheSet(ctx, "layout", 512)

	if got := testutil.ToFloat64(r.CacheHitsTotal.WithLabelValues("layout")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CacheBytesWritten.WithLabelValues("layout")); got != 512 {
		t.Errorf("bytes = %v, want 512", got)
	}

	r.OnRequest(ctx, "POST", "/v1/layout")
	r.OnResponse(ctx, "POST", "/v1/layout", 200, 10*time.Millisecond)
	if got := testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("POST", "/v1/layout", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.HTTPInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	r := NewRegistry()
	r.OnCacheMiss(context.Background(), "layout")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lenslayout_cache_misses_total") {
		t.Error("exposition is missing lenslayout_cache_misses_total")
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	r := NewRegistry()
	r.Install()
	if observability.Layout() != r {
		t.Error("Install() should register layout hooks")
	}
	if observability.HTTP() != r {
		t.Error("Install() should register HTTP hooks")
	}
}
