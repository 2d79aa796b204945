package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const placeholderPage = `<!doctype html>
<html><head><meta charset="utf-8"><title>SkillArena</title></head>
<body><div id="root"></div></body></html>
`

// PageHandler serves the single-page frontend. Unknown paths fall back to
// index.html so client-side routes resolve.
type PageHandler struct {
	staticDir string
	files     http.Handler
}

func NewPageHandler(staticDir string) *PageHandler {
	h := &PageHandler{staticDir: staticDir}
	if staticDir != "" {
		h.files = http.FileServer(http.Dir(staticDir))
	}
	return h
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(placeholderPage))
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	if clean != "/" && !strings.HasSuffix(clean, "/") {
		full := filepath.Join(h.staticDir, filepath.FromSlash(clean))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}
