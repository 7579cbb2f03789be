package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/chansched/chansched/internal/diagnostics"
)

func TestHandler_Health(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandler_Metrics(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandler_DiagnosticsRunsWithoutStore(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/diagnostics/runs", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHandler_DiagnosticsRunsWithStore(t *testing.T) {
	db, err := diagnostics.Open(filepath.Join(t.TempDir(), "diag.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.RecordRun(context.Background(), diagnostics.Run{
		RunID:           "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		Algorithm:       "bnb",
		NTasks:          2,
		NChannels:       1,
		Loss:            1.5,
		Optimal:         true,
		DurationSeconds: 0.01,
		RecordedAt:      time.Now().UTC(),
	}); err != nil {
		t.Fatal(err)
	}

	s := &Server{Diagnostics: db}
	req := httptest.NewRequest(http.MethodGet, "/diagnostics/runs", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var runs []diagnostics.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa" {
		t.Errorf("runs = %+v, want one run with the recorded ID", runs)
	}
}

func TestHandler_DiagnosticsRunsRespectsLimitParam(t *testing.T) {
	db, err := diagnostics.Open(filepath.Join(t.TempDir(), "diag.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := db.RecordRun(context.Background(), diagnostics.Run{
			RunID:           string(rune('a' + i)),
			Algorithm:       "bnb",
			NTasks:          1,
			NChannels:       1,
			RecordedAt:      time.Now().UTC(),
			DurationSeconds: 0.01,
		}); err != nil {
			t.Fatal(err)
		}
	}

	s := &Server{Diagnostics: db}
	req := httptest.NewRequest(http.MethodGet, "/diagnostics/runs?limit=1", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var runs []diagnostics.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("len(runs) = %d, want 1", len(runs))
	}
}
