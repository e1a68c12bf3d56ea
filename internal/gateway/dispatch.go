package gateway

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/webcode-dev/webcode/internal/event"
)

// requestContext is the parsed, immutable view of one inbound request used
// by the route predicates.
type requestContext struct {
	pathname string
	filename string
}

func newRequestContext(r *http.Request) *requestContext {
	p := r.URL.Path
	if p == "" {
		p = "/"
	}
	return &requestContext{
		pathname: p,
		filename: path.Base(p),
	}
}

// route pairs a predicate with its handler. Routes are evaluated top to
// bottom and the first match wins; later predicates assume earlier ones
// have been excluded, so the order is load-bearing.
type route struct {
	match  func(c *requestContext) bool
	handle func(w http.ResponseWriter, r *http.Request, c *requestContext)
}

// Icons served without any token requirement. The PWA install flow and
// browser tab fetch these before any cookie exists.
var fixedIcons = map[string]string{
	"favicon.ico":  "resources/server/favicon.ico",
	"code-192.png": "resources/server/code-192.png",
	"code-512.png": "resources/server/code-512.png",
}

func (s *Server) routes() []route {
	return []route{
		{
			match: func(c *requestContext) bool {
				return c.filename == "manifest.json" || c.filename == "webmanifest.json"
			},
			handle: s.serveManifest,
		},
		{
			match: func(c *requestContext) bool {
				_, ok := fixedIcons[c.filename]
				return ok
			},
			handle: func(w http.ResponseWriter, r *http.Request, c *requestContext) {
				s.serveFile(w, r, filepath.Join(s.cfg.AppRoot, filepath.FromSlash(fixedIcons[c.filename])), nil)
			},
		},
		{
			match: func(c *requestContext) bool {
				return c.filename == s.cfg.ServiceWorkerFileName
			},
			handle: func(w http.ResponseWriter, r *http.Request, c *requestContext) {
				// The worker may control every page under the prefix it
				// was fetched from, not only its own directory.
				scope := "/"
				if i := strings.LastIndexByte(c.pathname, '/'); i >= 0 {
					scope = c.pathname[:i+1]
				}
				s.serveFile(w, r, filepath.Join(s.cfg.AppRoot, filepath.FromSlash(s.cfg.ServiceWorkerPath)), map[string]string{
					"Service-Worker-Allowed": scope,
				})
			},
		},
		{
			match: func(c *requestContext) bool {
				return strings.Contains(c.pathname, "/static/") && path.Ext(c.pathname) != ""
			},
			handle: func(w http.ResponseWriter, r *http.Request, c *requestContext) {
				// Rewrite so deployment path prefixes in front of
				// /static/ are transparent to the asset server.
				rel := c.pathname[strings.Index(c.pathname, "/static/"):]
				s.serveStatic(w, r, rel)
			},
		},
		{
			match:  func(c *requestContext) bool { return c.filename == "callback" },
			handle: s.handleCallback,
		},
		{
			match:  func(c *requestContext) bool { return c.filename == "fetch-callback" },
			handle: s.handleFetchCallback,
		},
		{
			match:  func(c *requestContext) bool { return strings.HasSuffix(c.pathname, "/") },
			handle: s.serveRoot,
		},
	}
}

// dispatch is the top-level entry point for all gateway paths. Unexpected
// panics become themed 500 responses; an unmatched path is handed to the
// fallback handler when one is installed, else answered 404.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
			s.serveError(w, r, http.StatusInternalServerError, "Internal Server Error")
		}
	}()

	c := newRequestContext(r)
	for _, rt := range s.routes() {
		if rt.match(c) {
			rt.handle(w, r, c)
			return
		}
	}

	s.bus.Publish(event.RequestRejected, event.RequestRejectedData{
		Path:   c.pathname,
		Status: http.StatusNotFound,
		Reason: "no route",
	})
	if s.fallback != nil {
		s.fallback.ServeHTTP(w, r)
		return
	}
	writePlain(w, http.StatusNotFound, "Not found")
}
