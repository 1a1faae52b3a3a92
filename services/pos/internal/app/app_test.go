package app

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/appetiteclub/pos/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(values map[string]any) *config.Config {
	merged := Defaults()
	merged["web.port"] = "127.0.0.1:0"
	for k, v := range values {
		merged[k] = v
	}
	return config.NewFromMap(merged)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestInitializeServesRoutes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"order_id":"ORD-1","table":"T3","items":"Parotta x2","total":35,"status":"pending","created_at":"2026-03-14T11:55:00Z"}]`))
	}))
	defer backend.Close()

	a, err := New(testConfig(map[string]any{
		"webhook.base_url": backend.URL,
		"board.timezone":   "UTC",
	}), nil)
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background()))

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "health", path: "/healthz", status: http.StatusOK},
		{name: "menu", path: "/api/menu", status: http.StatusOK},
		{name: "kitchenOrders", path: "/api/kitchen/orders", status: http.StatusOK},
		{name: "unknownTable", path: "/api/tables/T42/cart", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kitchen/orders", nil))
	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ORD-1", body.Data[0]["order_id"])
	assert.Equal(t, "PENDING", body.Data[0]["status"])
}

func TestInitializeErrors(t *testing.T) {
	t.Run("badTimezone", func(t *testing.T) {
		a, err := New(testConfig(map[string]any{"board.timezone": "Mars/Olympus"}), nil)
		require.NoError(t, err)
		assert.Error(t, a.Initialize(context.Background()))
	})

	t.Run("missingMenu", func(t *testing.T) {
		a, err := New(testConfig(map[string]any{"menu.file": filepath.Join(t.TempDir(), "nope.yaml")}), nil)
		require.NoError(t, err)
		assert.Error(t, a.Initialize(context.Background()))
	})
}

func TestInitializeLoadsMenuFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - id: x1\n    name: Tea\n    price: 10\n    category: Drinks\n"), 0o600))

	a, err := New(testConfig(map[string]any{"menu.file": path}), nil)
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background()))

	assert.Equal(t, 1, a.catalog.Len())
}

func TestRunStopsOnCancel(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	a, err := New(testConfig(map[string]any{"webhook.base_url": backend.URL}), nil)
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunEndsOpenStreamsOnCancel(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer backend.Close()

	a, err := New(testConfig(map[string]any{"webhook.base_url": backend.URL}), nil)
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.Addr() != nil }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + a.Addr().String() + "/api/kitchen/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	scanner := bufio.NewScanner(resp.Body)
	require.True(t, scanner.Scan())
	require.Equal(t, ": connected", scanner.Text())

	start := time.Now()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), shutdownTimeout/2)
	case <-time.After(shutdownTimeout):
		t.Fatal("Run did not return while a stream was open")
	}
}

func TestRunRequiresInitialize(t *testing.T) {
	a, err := New(testConfig(nil), nil)
	require.NoError(t, err)
	assert.Error(t, a.Run(context.Background()))
}
