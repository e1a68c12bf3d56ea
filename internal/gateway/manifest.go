package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type manifestIcon struct {
	Src   string `json:"src"`
	Type  string `json:"type"`
	Sizes string `json:"sizes"`
}

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	StartURL        string         `json:"start_url"`
	Lang            string         `json:"lang"`
	Display         string         `json:"display"`
	Description     string         `json:"description"`
	BackgroundColor string         `json:"background_color,omitempty"`
	Icons           []manifestIcon `json:"icons"`
}

var manifestIconSizes = []int{192, 512}

// serveManifest answers manifest.json/webmanifest.json requests. Icon URLs
// are absolute so an installed PWA resolves them through the same proxy
// the page was loaded from.
func (s *Server) serveManifest(w http.ResponseWriter, r *http.Request, c *requestContext) {
	authority := parseRemoteAuthority(r)

	// Everything up to and including the final slash: installing from
	// /some/prefix/manifest.json starts the app at /some/prefix/.
	startPath := "/"
	if i := strings.LastIndexByte(c.pathname, '/'); i >= 0 {
		startPath = c.pathname[:i+1]
	}

	m := webManifest{
		Name:        s.product.NameLong,
		ShortName:   s.product.NameShort,
		StartURL:    startPath,
		Lang:        "en-US",
		Display:     "fullscreen",
		Description: "Edit code in the browser.",
	}
	if colors, err := s.theme.FetchColors(r.Context()); err == nil {
		m.BackgroundColor = colors.BackgroundColor
	}
	for _, size := range manifestIconSizes {
		m.Icons = append(m.Icons, manifestIcon{
			Src:   authority.URL(fmt.Sprintf("%s/code-%d.png", strings.TrimSuffix(startPath, "/"), size)),
			Type:  "image/png",
			Sizes: fmt.Sprintf("%dx%d", size, size),
		})
	}

	w.Header().Set("Content-Type", "application/manifest+json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(m)
}
