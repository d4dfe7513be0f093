package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

// spa serves static assets from the frontend build and falls back to
// index.html for client-side routes. index.html is rendered once with the
// deployment base path exposed as window.BASE_PATH.
type spa struct {
	fsys       fs.FS
	base       string
	index      []byte
	fileServer http.Handler
}

// NewSPAHandler serves the frontend build in fsys under base. A missing
// index.html is tolerated; client routes then answer 404.
func NewSPAHandler(fsys fs.FS, base string) (http.Handler, error) {
	raw, err := fs.ReadFile(fsys, "index.html")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading index.html: %w", err)
	}
	var index []byte
	if raw != nil {
		index = injectBasePath(raw, base)
	}
	return &spa{
		fsys:       fsys,
		base:       base,
		index:      index,
		fileServer: http.FileServer(http.FS(fsys)),
	}, nil
}

func (h *spa) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, h.base), "/")
	if path == "" || path == "index.html" {
		h.serveIndex(w)
		return
	}

	info, err := fs.Stat(h.fsys, path)
	if err != nil || info.IsDir() {
		// Unknown path: let the client-side router handle it.
		h.serveIndex(w)
		return
	}

	r2 := r.Clone(r.Context())
	r2.URL.Path = "/" + path
	r2.URL.RawPath = ""
	h.fileServer.ServeHTTP(w, r2)
}

func (h *spa) serveIndex(w http.ResponseWriter) {
	if h.index == nil {
		http.Error(w, "frontend not built", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.index)
}

// injectBasePath inserts a script defining window.BASE_PATH before </head>,
// or at the top of the document when there is no head element.
func injectBasePath(index []byte, base string) []byte {
	// json.Marshal escapes <, > and & so the value cannot close the script.
	value, _ := json.Marshal(base)
	tag := []byte(`<script>window.BASE_PATH=` + string(value) + `;</script>`)

	i := bytes.Index(bytes.ToLower(index), []byte("</head>"))
	if i < 0 {
		return append(tag, index...)
	}
	out := make([]byte, 0, len(index)+len(tag))
	out = append(out, index[:i]...)
	out = append(out, tag...)
	return append(out, index[i:]...)
}
