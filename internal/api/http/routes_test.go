package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mrnez/weewx-ecowitt-API/internal/record"
	"github.com/mrnez/weewx-ecowitt-API/internal/store"
)

// TestHistoryRangeValidation verifies that the history endpoint enforces
// its from/to query parameters.
func TestHistoryRangeValidation(t *testing.T) {
	app := fiber.New()

	memStore := store.NewMemoryStore(10, time.Hour)
	RegisterRoutes(app, memStore)

	// Missing range parameters should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/record/history", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// An inverted range should also return 400.
	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/record/history?from=2026-01-02T00:00:00Z&to=2026-01-01T00:00:00Z", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCurrentRecordEndpoint(t *testing.T) {
	app := fiber.New()

	memStore := store.NewMemoryStore(10, time.Hour)
	RegisterRoutes(app, memStore)

	// Empty store should return 404.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/record/current", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	rec := record.NewArchiveRecord(record.UnitSystemMetricWX, time.Now())
	rec.SetField("barometer", 1013.25)
	memStore.Save(rec.Snapshot())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/record/current", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
