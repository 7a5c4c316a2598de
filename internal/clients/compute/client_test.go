package compute

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/slateline/slateline-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestLoadRegistry_DefaultsAndOverride(t *testing.T) {
	reg, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if path, ok := reg.Lookup(FnScenarioProjections); !ok || path != "/functions/scenario-projections" {
		t.Fatalf("expected default projection path, got %q ok=%v", path, ok)
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "functions.yaml")
	content := "functions:\n  scenario-projections: v2/projections\n  custom-fn: /custom\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	reg, err = LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry override: %v", err)
	}
	if path, _ := reg.Lookup(FnScenarioProjections); path != "/v2/projections" {
		t.Fatalf("expected overridden path with leading slash, got %q", path)
	}
	if path, ok := reg.Lookup("custom-fn"); !ok || path != "/custom" {
		t.Fatalf("expected custom function registered, got %q ok=%v", path, ok)
	}
	if _, ok := reg.Lookup(FnScenarioBranch); !ok {
		t.Fatal("defaults must survive a partial override file")
	}
}

func TestClient_InvokeDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functions/recommendation-compute" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sekret" {
			t.Errorf("missing bearer header, got %q", got)
		}
		rank := 75.0
		json.NewEncoder(w).Encode(RecommendationResult{RankScore: &rank})
	}))
	defer srv.Close()

	reg, _ := LoadRegistry("")
	client, err := New(testLogger(t), reg, Options{BaseURL: srv.URL, APIKey: "sekret"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out RecommendationResult
	if err := client.Invoke(context.Background(), FnRecommendationCompute, RecommendationRequest{}, &out); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.RankScore == nil || *out.RankScore != 75 {
		t.Fatalf("expected rank 75, got %v", out.RankScore)
	}
}

func TestClient_InvokeSurfacesFunctionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"insufficient_history","message":"not enough projections"}}`))
	}))
	defer srv.Close()

	reg, _ := LoadRegistry("")
	client, err := New(testLogger(t), reg, Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = client.Invoke(context.Background(), FnScenarioStressTest, StressTestRequest{}, nil)
	var fnErr *FunctionError
	if !errors.As(err, &fnErr) {
		t.Fatalf("expected FunctionError, got %v", err)
	}
	if fnErr.Code != "insufficient_history" {
		t.Fatalf("expected decoded error code, got %q", fnErr.Code)
	}
}

func TestClient_UnregisteredFunction(t *testing.T) {
	reg, _ := LoadRegistry("")
	client, err := New(testLogger(t), reg, Options{BaseURL: "http://localhost:9"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.Invoke(context.Background(), "does-not-exist", nil, nil); err == nil {
		t.Fatal("expected error for unregistered function")
	}
}
