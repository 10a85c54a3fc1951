package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	handler "github.com/kottageio/kottage/internal/adapter/http"
	"github.com/kottageio/kottage/internal/adapter/sqlite"
	"github.com/kottageio/kottage/internal/app"
	"github.com/kottageio/kottage/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if config.Port != 8080 {
		t.Errorf("Port = %d, want 8080", config.Port)
	}
	if config.DatabasePath != "kottage.db" {
		t.Errorf("DatabasePath = %q, want %q", config.DatabasePath, "kottage.db")
	}
	if config.S3Bucket != "kottage-uploads" {
		t.Errorf("S3Bucket = %q, want %q", config.S3Bucket, "kottage-uploads")
	}
	if config.S3PublicBaseURL != "https://kottage-uploads.s3.amazonaws.com" {
		t.Errorf("S3PublicBaseURL = %q", config.S3PublicBaseURL)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("KOTTAGE_PORT", "9090")
	t.Setenv("KOTTAGE_DATABASE_PATH", "/tmp/custom.db")
	t.Setenv("KOTTAGE_S3_BUCKET", "custom-bucket")
	t.Setenv("KOTTAGE_S3_PUBLIC_BASE_URL", "https://cdn.example.com")

	config, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if config.Port != 9090 {
		t.Errorf("Port = %d, want 9090", config.Port)
	}
	if config.DatabasePath != "/tmp/custom.db" {
		t.Errorf("DatabasePath = %q, want %q", config.DatabasePath, "/tmp/custom.db")
	}
	if config.S3Bucket != "custom-bucket" {
		t.Errorf("S3Bucket = %q, want %q", config.S3Bucket, "custom-bucket")
	}
	if config.S3PublicBaseURL != "https://cdn.example.com" {
		t.Errorf("S3PublicBaseURL = %q, want %q", config.S3PublicBaseURL, "https://cdn.example.com")
	}
}

// testPublisher is a local EventPublisher for the smoke test.
// The smoke test verifies HTTP wiring, not River.
type testPublisher struct{}

func (p *testPublisher) Publish(_ context.Context, _ domain.Event, _ domain.Property) error {
	return nil
}

// testValidator is a local TransitionValidator for the smoke test.
type testValidator struct{}

func (v *testValidator) Apply(_ context.Context, current domain.ApprovalStatus, event domain.Event) (domain.ApprovalStatus, error) {
	for _, tr := range domain.Transitions {
		if tr.Event == event && tr.Src == current {
			return tr.Dst, nil
		}
	}
	return "", &domain.TransitionError{Event: event, Current: current}
}

// testStore is a local ObjectStore for the smoke test.
type testStore struct{}

func (s *testStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	return "https://cdn.test/" + key, nil
}

// TestSmoke wires the full stack like main() and verifies it responds.
func TestSmoke(t *testing.T) {
	dbPath := t.TempDir() + "/test.db"

	repo, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("database: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := app.NewListingService(repo, &testStore{}, &testValidator{}, &testPublisher{})

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("kottage", "0.1.0"))
	handler.Register(api, svc)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	// Verify the server responds to the public listings endpoint.
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/api/v1/listings", nil)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/v1/listings failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listings []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(listings) != 0 {
		t.Errorf("got %d listings, want 0 (empty database)", len(listings))
	}
}

// TestRun exercises the real run() function end-to-end: OTel, River, HTTP
// server, and graceful shutdown. It uses the stdout OTel exporter and a temp
// database to avoid external dependencies.
func TestRun(t *testing.T) {
	t.Setenv("KOTTAGE_DATABASE_PATH", t.TempDir()+"/test-run.db")
	t.Setenv("KOTTAGE_PORT", "19876")
	t.Setenv("OTEL_EXPORTER", "stdout")
	t.Setenv("OTEL_ENVIRONMENT", "test")

	// Discard OTel stdout exporter output during the test.
	origStdout := os.Stdout
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("opening /dev/null: %v", err)
	}
	os.Stdout = devNull
	t.Cleanup(func() {
		os.Stdout = origStdout
		devNull.Close()
	})

	errCh := make(chan error, 1)
	go func() { errCh <- run() }()

	// Wait for the HTTP server to become ready.
	serverURL := "http://localhost:19876"
	ready := false
	for i := 0; i < 50; i++ {
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, serverURL+"/api/v1/listings", nil)
		resp, reqErr := http.DefaultClient.Do(req)
		if reqErr == nil {
			resp.Body.Close()
			ready = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ready {
		t.Fatal("server did not start within 5 seconds")
	}

	// Verify the API responds correctly.
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, serverURL+"/api/v1/listings", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/v1/listings failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// Send SIGINT to trigger graceful shutdown.
	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("finding process: %v", err)
	}
	if err := proc.Signal(syscall.SIGINT); err != nil {
		t.Fatalf("sending SIGINT: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run() returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run() did not exit within 10 seconds")
	}
}

// TestRun_InvalidDB verifies run() returns an error for an invalid database path.
func TestRun_InvalidDB(t *testing.T) {
	t.Setenv("KOTTAGE_DATABASE_PATH", "/nonexistent/path/db.sqlite")
	t.Setenv("KOTTAGE_PORT", "19877")
	t.Setenv("OTEL_EXPORTER", "stdout")
	t.Setenv("OTEL_ENVIRONMENT", "test")

	// Discard OTel stdout output.
	origStdout := os.Stdout
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("opening /dev/null: %v", err)
	}
	os.Stdout = devNull
	t.Cleanup(func() {
		os.Stdout = origStdout
		devNull.Close()
	})

	if err := run(); err == nil {
		t.Fatal("expected error for invalid database path, got nil")
	}
}
