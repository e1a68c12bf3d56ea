package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/webcode-dev/webcode/internal/theme"
)

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Commit  string `json:"commit,omitempty"`
}

// serveError renders a failure response. Paths ending in .json get a
// machine-readable envelope; everything else gets the themed error page.
// A raw stack trace never reaches the client.
func (s *Server) serveError(w http.ResponseWriter, r *http.Request, code int, message string) {
	if r != nil {
		s.log.Debug().Int("code", code).Str("path", r.URL.Path).Str("message", message).Msg("request failed")
	}

	if r != nil && strings.HasSuffix(r.URL.Path, ".json") {
		writeJSON(w, code, errorEnvelope{Code: code, Message: message, Commit: s.product.Commit})
		return
	}

	colors := theme.DefaultColors()
	if r != nil {
		if c, err := s.theme.FetchColors(r.Context()); err == nil {
			colors = c
		}
	} else {
		if c, err := s.theme.FetchColors(context.Background()); err == nil {
			colors = c
		}
	}

	page := s.assets.errorPage
	page = strings.ReplaceAll(page, "{{ERROR_HEADER}}", s.product.NameLong)
	page = strings.ReplaceAll(page, "{{ERROR_CODE}}", fmt.Sprintf("%d", code))
	page = strings.ReplaceAll(page, "{{ERROR_MESSAGE}}", message)
	page = strings.ReplaceAll(page, "{{ERROR_FOOTER}}", s.product.NameShort+" "+s.product.Version)
	page = strings.ReplaceAll(page, "{{ERROR_BACKGROUND_COLOR}}", colors.BackgroundColor)
	page = strings.ReplaceAll(page, "{{ERROR_FOREGROUND_COLOR}}", colors.ForegroundColor)

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(code)
	w.Write([]byte(page))
}
