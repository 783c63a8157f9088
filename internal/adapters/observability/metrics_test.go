package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hbnb_web/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so the vectors show up in the exposition
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveBackend("places.list", 200, 30*time.Millisecond)
	observability.ObserveFragment(errors.New("boom"))

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"hbnb_http_requests_total",
		`hbnb_backend_requests_total{endpoint="places.list",status="200"}`,
		`hbnb_fragment_loads_total{outcome="error"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}
