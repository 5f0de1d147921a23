package adminhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"go.uber.org/zap"

	"github.com/nexaddr/getapr/internal/addrx"
	"github.com/nexaddr/getapr/internal/anchor"
	"github.com/nexaddr/getapr/internal/engine"
)

type discardResolver struct{}

func (discardResolver) Resolve(ctx context.Context, name string) ([]netip.Addr, error) {
	return nil, nil
}

type discardCatalog struct{}

func (discardCatalog) Probe(ctx context.Context, id int) (anchor.Info, error) {
	return anchor.Info{}, nil
}

type discardEnum struct{}

func (discardEnum) Sources(ctx context.Context) ([]addrx.Address, error) { return nil, nil }
func (discardEnum) DefaultGateways(ctx context.Context) (*addrx.Address, *addrx.Address, error) {
	return nil, nil, nil
}

func newTestEngine() *engine.Engine {
	return engine.New(zap.NewNop(), discardResolver{}, discardCatalog{}, discardEnum{}, engine.Config{})
}

func TestHealthzOK(t *testing.T) {
	r := NewRouter(zap.NewNop(), newTestEngine())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStatusReturnsFlagMap(t *testing.T) {
	r := NewRouter(zap.NewNop(), newTestEngine())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected valid JSON: %v", err)
	}
	if _, ok := body["IPv4_ok"]; !ok {
		t.Error("expected IPv4_ok key in status response")
	}
}

func TestSourcesReturnsOK(t *testing.T) {
	r := NewRouter(zap.NewNop(), newTestEngine())

	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPairsReturnsOK(t *testing.T) {
	r := NewRouter(zap.NewNop(), newTestEngine())

	req := httptest.NewRequest(http.MethodGet, "/pairs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminRoutesSetRequestID(t *testing.T) {
	r := NewRouter(zap.NewNop(), newTestEngine())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}
