package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vm75/nginx-manager/internal/apiclient"
	"github.com/vm75/nginx-manager/internal/models"
)

// recordedRequest is what the test server saw for one call.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec.mu.Lock()
	rec.requests = append(rec.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	status, respBody := rec.status, rec.body
	rec.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(respBody))
}

func (rec *recorder) respondWith(body string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.body = body
}

func (rec *recorder) last(t *testing.T) recordedRequest {
	t.Helper()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.requests)
	return rec.requests[len(rec.requests)-1]
}

func newClient(t *testing.T, rec *recorder, base string) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return apiclient.New(apiclient.Config{ServerURL: srv.URL, BasePath: base})
}

func TestFetch_ResolvesPathAgainstBasePath(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		path     string
		wantPath string
	}{
		{"no base path", "", "/api/files", "/api/files"},
		{"no base path, relative", "", "api/files", "/api/files"},
		{"subfolder", "/app", "/users", "/app/users"},
		{"subfolder, relative", "/app", "users", "/app/users"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c := newClient(t, rec, tt.base)

			_, err := c.Fetch(context.Background(), tt.path, apiclient.Options{})
			require.NoError(t, err)

			got := rec.last(t)
			assert.Equal(t, http.MethodGet, got.Method)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}
}

func TestFetch_ForwardsOptionsUnchanged(t *testing.T) {
	rec := &recorder{}
	c := newClient(t, rec, "/app")

	opts := apiclient.Options{
		Method: http.MethodPut,
		Header: http.Header{
			"X-Trace":      {"abc"},
			"X-Multi":      {"one", "two"},
			"Content-Type": {"text/plain"},
		},
		Query:    url.Values{"path": {"/conf.d/site.conf"}, "tag": {"a", "b"}},
		Body:     "server { listen 80; }",
		Username: "admin",
		Password: "secret",
		Cookies:  []*http.Cookie{{Name: "session", Value: "s1"}},
	}

	resp, err := c.Fetch(context.Background(), "api/file/write", opts)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	got := rec.last(t)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/app/api/file/write", got.Path)
	assert.Equal(t, "abc", got.Header.Get("X-Trace"))
	assert.Equal(t, []string{"one", "two"}, got.Header.Values("X-Multi"))
	assert.Equal(t, "text/plain", got.Header.Get("Content-Type"))
	assert.Equal(t, "/conf.d/site.conf", got.Query.Get("path"))
	assert.Equal(t, []string{"a", "b"}, got.Query["tag"])
	assert.Equal(t, "server { listen 80; }", string(got.Body))
	assert.Contains(t, got.Header.Get("Cookie"), "session=s1")

	user, pass, ok := (&http.Request{Header: got.Header}).BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "secret", pass)
}

func TestFetch_NonSuccessStatusIsNotAnError(t *testing.T) {
	rec := &recorder{status: http.StatusInternalServerError, body: `{"error":"boom"}`}
	c := newClient(t, rec, "")

	resp, err := c.Fetch(context.Background(), "/api/files", apiclient.Options{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.JSONEq(t, `{"error":"boom"}`, string(resp.Body()))
}

func TestFetch_TransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	serverURL := srv.URL
	srv.Close()

	c := apiclient.New(apiclient.Config{ServerURL: serverURL})
	_, err := c.Fetch(context.Background(), "/api/files", apiclient.Options{})
	require.Error(t, err)
}

func TestFetch_ContextCanceled(t *testing.T) {
	rec := &recorder{}
	c := newClient(t, rec, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, "/api/files", apiclient.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_BasePathAndURL(t *testing.T) {
	c := apiclient.New(apiclient.Config{BasePath: "/app"})
	assert.Equal(t, "/app", c.BasePath())
	assert.Equal(t, "/app/users", c.URL("users"))
}

// ── typed API ────────────────────────────────────────────────────────────────

func TestListFiles(t *testing.T) {
	want := []models.FileInfo{
		{Name: "nginx.conf", Path: "/nginx.conf", Size: 42},
		{Name: "sites-enabled", Path: "/sites-enabled", IsDir: true},
	}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	rec := &recorder{body: string(payload)}
	c := newClient(t, rec, "/app")

	got, err := c.ListFiles(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	req := rec.last(t)
	assert.Equal(t, "/app/api/files", req.Path)
	assert.Equal(t, "/", req.Query.Get("path"))
}

func TestReadFile(t *testing.T) {
	rec := &recorder{body: "worker_processes auto;"}
	c := newClient(t, rec, "")

	got, err := c.ReadFile(context.Background(), "/nginx.conf")
	require.NoError(t, err)
	assert.Equal(t, "worker_processes auto;", got)
	assert.Equal(t, "/api/file/read", rec.last(t).Path)
}

func TestWriteFile_SendsJSON(t *testing.T) {
	rec := &recorder{body: `{"status":"ok"}`}
	c := newClient(t, rec, "")

	require.NoError(t, c.WriteFile(context.Background(), "/nginx.conf", "events {}"))

	req := rec.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/file/write", req.Path)
	assert.JSONEq(t, `{"path":"/nginx.conf","content":"events {}"}`, string(req.Body))
}

func TestMutations_HitExpectedRoutes(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *apiclient.Client) error
		wantPath string
		wantBody string
	}{
		{
			name:     "create",
			call:     func(c *apiclient.Client) error { return c.CreateFile(context.Background(), "/conf.d", true) },
			wantPath: "/api/file/create",
			wantBody: `{"path":"/conf.d","isDir":true}`,
		},
		{
			name:     "delete",
			call:     func(c *apiclient.Client) error { return c.DeleteFile(context.Background(), "/old.conf") },
			wantPath: "/api/file/delete",
			wantBody: `{"path":"/old.conf"}`,
		},
		{
			name:     "rename",
			call:     func(c *apiclient.Client) error { return c.RenameFile(context.Background(), "/a.conf", "/b.conf") },
			wantPath: "/api/file/rename",
			wantBody: `{"oldPath":"/a.conf","newPath":"/b.conf"}`,
		},
		{
			name:     "move",
			call:     func(c *apiclient.Client) error { return c.MoveFile(context.Background(), "/a.conf", "/conf.d") },
			wantPath: "/api/file/move",
			wantBody: `{"sourcePath":"/a.conf","targetPath":"/conf.d"}`,
		},
		{
			name: "symlink",
			call: func(c *apiclient.Client) error {
				return c.CreateSymlink(context.Background(), "/sites-available/app", "/sites-enabled/app")
			},
			wantPath: "/api/file/symlink",
			wantBody: `{"targetPath":"/sites-available/app","linkPath":"/sites-enabled/app"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{body: `{"status":"ok"}`}
			c := newClient(t, rec, "")

			require.NoError(t, tt.call(c))

			req := rec.last(t)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.JSONEq(t, tt.wantBody, string(req.Body))
		})
	}
}

func TestTypedCalls_MapErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{"bad request", http.StatusBadRequest, `{"error":"path is required"}`, apiclient.ErrBadRequest, "path is required"},
		{"forbidden", http.StatusForbidden, `{"error":"invalid path"}`, apiclient.ErrForbidden, "invalid path"},
		{"not found", http.StatusNotFound, `{"error":"file not found"}`, apiclient.ErrNotFound, "file not found"},
		{"conflict", http.StatusConflict, `{"error":"already exists"}`, apiclient.ErrConflict, "already exists"},
		{"plain body", http.StatusInternalServerError, "oops", nil, "oops"},
		{"empty body", http.StatusBadGateway, "", nil, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{status: tt.status, body: tt.body}
			c := newClient(t, rec, "")

			_, err := c.ReadFile(context.Background(), "/nginx.conf")
			require.Error(t, err)

			var apiErr *apiclient.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNginxCommands(t *testing.T) {
	rec := &recorder{body: `{"success":false,"output":"nginx: [emerg] unexpected \"}\""}`}
	c := newClient(t, rec, "/app")

	got, err := c.TestConfig(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Success)
	assert.Contains(t, got.Output, "emerg")
	assert.Equal(t, "/app/api/nginx/test", rec.last(t).Path)
	assert.Equal(t, http.MethodPost, rec.last(t).Method)

	rec.respondWith(`{"success":true,"output":""}`)
	got, err = c.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Equal(t, "/app/api/nginx/reload", rec.last(t).Path)
}

func TestVersion(t *testing.T) {
	rec := &recorder{body: `{"version":"v1.2.3","commit":"abc","build_date":"2026-01-01"}`}
	c := newClient(t, rec, "")

	got, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.VersionInfo{Version: "v1.2.3", Commit: "abc", BuildDate: "2026-01-01"}, got)
}

func TestListAudit(t *testing.T) {
	rec := &recorder{body: `[{"id":"e1","type":"config.file.written","payload":{"path":"/nginx.conf"},"created_at":"2026-01-02T03:04:05Z"}]`}
	c := newClient(t, rec, "/app")

	got, err := c.ListAudit(context.Background(), "config.", 25)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/nginx.conf", got[0].Payload["path"])

	req := rec.last(t)
	assert.Equal(t, "/app/api/audit", req.Path)
	assert.Equal(t, "config.", req.Query.Get("type"))
	assert.Equal(t, "25", req.Query.Get("limit"))

	_, err = c.ListAudit(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Query)
}

func TestListNotifications(t *testing.T) {
	rec := &recorder{body: `[{"id":3,"event_type":"nginx.reloaded","provider":"smtp","status":"failed","error_msg":"timeout"}]`}
	c := newClient(t, rec, "")

	got, err := c.ListNotifications(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationFailed, got[0].Status)
	assert.Equal(t, "/api/notifications/log", rec.last(t).Path)
	assert.Equal(t, "10", rec.last(t).Query.Get("limit"))

	rec.mu.Lock()
	rec.status = http.StatusBadRequest
	rec.body = `{"error":"limit must be a number"}`
	rec.mu.Unlock()
	_, err = c.ListNotifications(context.Background(), 10)
	assert.ErrorIs(t, err, apiclient.ErrBadRequest)
}

func TestTailLog(t *testing.T) {
	tests := []struct {
		name      string
		kind      string
		lines     int
		wantPath  string
		wantLines string
	}{
		{name: "with line count", kind: models.LogError, lines: 20, wantPath: "/app/api/logs/error", wantLines: "20"},
		{name: "server default", kind: models.LogAccess, lines: 0, wantPath: "/app/api/logs/access", wantLines: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{body: "GET / 200\n"}
			c := newClient(t, rec, "/app")

			got, err := c.TailLog(context.Background(), tt.kind, tt.lines)
			require.NoError(t, err)
			assert.Equal(t, "GET / 200\n", got)

			req := rec.last(t)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, tt.wantLines, req.Query.Get("lines"))
		})
	}
}

func TestTailLog_NotFound(t *testing.T) {
	rec := &recorder{status: http.StatusNotFound, body: `{"error":"access log not found"}`}
	c := newClient(t, rec, "")

	_, err := c.TailLog(context.Background(), models.LogAccess, 0)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestListCertificates(t *testing.T) {
	want := []models.CertificateInfo{{
		Domain:    "example.com",
		CertFile:  "/ssl/example.com.crt",
		KeyFile:   "/ssl/example.com.key",
		NotBefore: "2026-01-01T00:00:00Z",
		NotAfter:  "2026-04-01T00:00:00Z",
		DaysLeft:  12,
	}}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	rec := &recorder{body: string(payload)}
	c := newClient(t, rec, "/app")

	got, err := c.ListCertificates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "/app/api/certificates", rec.last(t).Path)
}
