package gateway

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extensions the web client ships; anything else falls back to the
// platform MIME table, then text/plain.
var contentTypes = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".json": "application/json",
	".css":  "text/css",
	".svg":  "image/svg+xml",
}

func contentTypeFor(p string) string {
	ext := strings.ToLower(filepath.Ext(p))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "text/plain"
}

// serveStatic resolves rel (a /static/... path) under the application root
// and serves it. The resolved path must stay inside the root.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, rel string) {
	trimmed := strings.TrimPrefix(rel, "/static/")
	target := filepath.Join(s.cfg.AppRoot, filepath.FromSlash(trimmed))

	root, err := filepath.Abs(s.cfg.AppRoot)
	if err == nil {
		target, err = filepath.Abs(target)
	}
	if err != nil || !isEqualOrParent(root, target) {
		writePlain(w, http.StatusBadRequest, "Bad request")
		return
	}

	var extra map[string]string
	if s.isImmutableAsset(trimmed) {
		extra = map[string]string{"Cache-Control": "public, max-age=31536000, immutable"}
	}
	s.serveFile(w, r, target, extra)
}

// isEqualOrParent reports whether child equals parent or lives beneath it.
// Comparison is case-insensitive on platforms whose filesystems usually
// are.
func isEqualOrParent(parent, child string) bool {
	p, c := filepath.Clean(parent), filepath.Clean(child)
	if ignoreCaseFilesystem() {
		p, c = strings.ToLower(p), strings.ToLower(c)
	}
	if p == c {
		return true
	}
	if !strings.HasSuffix(p, string(filepath.Separator)) {
		p += string(filepath.Separator)
	}
	return strings.HasPrefix(c, p)
}

func ignoreCaseFilesystem() bool {
	return runtime.GOOS == "darwin" || runtime.GOOS == "windows"
}

func (s *Server) isImmutableAsset(rel string) bool {
	for _, pattern := range s.cfg.ImmutableGlobs {
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			return true
		}
	}
	return false
}

// serveFile streams a single file with conditional-GET support. extra
// headers are applied only to 200 responses.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path string, extra map[string]string) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Error().Err(err).Str("path", path).Msg("stat failed")
		}
		writePlain(w, http.StatusNotFound, "Not found")
		return
	}

	etag := fileETag(fi)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error().Err(err).Str("path", path).Msg("open failed")
		}
		writePlain(w, http.StatusNotFound, "Not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypeFor(path))
	w.Header().Set("Etag", etag)
	for k, v := range extra {
		w.Header().Set(k, v)
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, f); err != nil {
		// Client went away mid-stream; nothing to answer anymore.
		s.log.Debug().Err(err).Str("path", path).Msg("stream aborted")
	}
}

// fileETag builds the weak validator from inode, size and mtime. A zero
// inode (non-unix stat) still yields a usable size+mtime validator.
func fileETag(fi os.FileInfo) string {
	return fmt.Sprintf(`W/"%d-%d-%d"`, fileInode(fi), fi.Size(), fi.ModTime().UnixMilli())
}
