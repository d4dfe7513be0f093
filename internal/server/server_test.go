package server_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vm75/nginx-manager/internal/api"
	"github.com/vm75/nginx-manager/internal/server"
	svcmocks "github.com/vm75/nginx-manager/internal/service/mocks"
	"github.com/vm75/nginx-manager/internal/telemetry"
)

const indexHTML = `<!doctype html><html><head><title>nginx manager</title></head><body><div id="app"></div></body></html>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServer(t *testing.T, cfg server.Config, frontend fstest.MapFS) http.Handler {
	t.Helper()
	apiSrv := api.New(new(svcmocks.MockConfigService), new(svcmocks.MockNginxService), new(svcmocks.MockHistoryService), new(svcmocks.MockLogService), new(svcmocks.MockCertService), testLogger())

	var srv *server.Server
	var err error
	if frontend == nil {
		srv, err = server.New(apiSrv, nil, cfg, testLogger())
	} else {
		srv, err = server.New(apiSrv, frontend, cfg, testLogger())
	}
	require.NoError(t, err)
	return srv.Handler()
}

func frontendFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":    {Data: []byte(indexHTML)},
		"assets/app.js": {Data: []byte("console.log('app')")},
		"favicon.svg":   {Data: []byte("<svg/>")},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServer_RootMount(t *testing.T) {
	h := newServer(t, server.Config{Port: 8080}, frontendFS())

	tests := []struct {
		name       string
		path       string
		wantStatus int
		contains   string
	}{
		{"health", "/health", http.StatusOK, `{"status":"ok"}`},
		{"api version", "/api/version", http.StatusOK, `"version"`},
		{"index", "/", http.StatusOK, `<script>window.BASE_PATH="";</script></head>`},
		{"asset", "/assets/app.js", http.StatusOK, "console.log('app')"},
		{"spa fallback", "/sites/edit", http.StatusOK, `window.BASE_PATH=""`},
		{"directory falls back to index", "/assets", http.StatusOK, `window.BASE_PATH=""`},
		{"explicit index", "/index.html", http.StatusOK, `window.BASE_PATH=""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestServer_BasePath(t *testing.T) {
	h := newServer(t, server.Config{BasePath: "/nginx"}, frontendFS())

	tests := []struct {
		name       string
		path       string
		wantStatus int
		contains   string
	}{
		{"health under base", "/nginx/health", http.StatusOK, `"ok"`},
		{"api under base", "/nginx/api/version", http.StatusOK, `"version"`},
		{"index under base", "/nginx/", http.StatusOK, `<script>window.BASE_PATH="/nginx";</script>`},
		{"base without slash", "/nginx", http.StatusOK, `window.BASE_PATH="/nginx"`},
		{"asset under base", "/nginx/assets/app.js", http.StatusOK, "console.log('app')"},
		{"client route under base", "/nginx/files/sites-enabled", http.StatusOK, `window.BASE_PATH="/nginx"`},
		{"api outside base", "/api/version", http.StatusNotFound, ""},
		{"asset outside base", "/assets/app.js", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}

	t.Run("root redirects to base", func(t *testing.T) {
		w := get(t, h, "/")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/nginx/", w.Header().Get("Location"))
	})
}

func TestServer_MissingIndex(t *testing.T) {
	h := newServer(t, server.Config{}, fstest.MapFS{"assets/app.js": {Data: []byte("x")}})

	assert.Equal(t, http.StatusNotFound, get(t, h, "/").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/assets/app.js").Code)
}

func TestServer_Metrics(t *testing.T) {
	h := newServer(t, server.Config{}, frontendFS())

	require.Equal(t, http.StatusOK, get(t, h, "/api/version").Code)

	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "nginx_manager_http_requests_total")
	assert.Contains(t, body, `route="/api/version"`)
	assert.Contains(t, body, "nginx_manager_http_request_duration_seconds")
	assert.Contains(t, body, "go_goroutines")
}

func TestServer_OTelMetricsShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	tel, err := telemetry.Setup(context.Background(), telemetry.Config{Registerer: reg})
	require.NoError(t, err)
	defer func() { _ = tel.Shutdown(context.Background()) }()

	h := newServer(t, server.Config{
		Registry:       reg,
		TracerProvider: tel.TracerProvider,
		MeterProvider:  tel.MeterProvider,
	}, frontendFS())

	require.Equal(t, http.StatusOK, get(t, h, "/health").Code)

	body := get(t, h, "/metrics").Body.String()
	assert.Contains(t, body, "nginx_manager_http_requests_total")
	assert.Contains(t, body, "http_server_request_duration_seconds")
}

func TestServer_DevMode(t *testing.T) {
	vite := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "vite:"+r.URL.Path)
	}))
	defer vite.Close()

	h := newServer(t, server.Config{DevURL: vite.URL}, nil)

	w := get(t, h, "/src/main.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "vite:/src/main.js", w.Body.String())

	// API stays local.
	w = get(t, h, "/api/version")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version"`)

	t.Run("cors preflight from dev origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/file/write", nil)
		req.Header.Set("Origin", vite.URL)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, vite.URL, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origins are not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/file/write", nil)
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_DevModeBadURL(t *testing.T) {
	apiSrv := api.New(new(svcmocks.MockConfigService), new(svcmocks.MockNginxService), new(svcmocks.MockHistoryService), new(svcmocks.MockLogService), new(svcmocks.MockCertService), testLogger())
	_, err := server.New(apiSrv, nil, server.Config{DevURL: "localhost:5173"}, testLogger())
	assert.Error(t, err)
}
