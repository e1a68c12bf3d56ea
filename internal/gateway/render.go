package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/webcode-dev/webcode/internal/workspace"
	"github.com/webcode-dev/webcode/pkg/types"
)

const (
	tokenQueryParam = "tkn"
	tokenCookieName = "vscode-tkn"
	tokenCookieAge  = 7 * 24 * 60 * 60
)

type serviceWorkerDescriptor struct {
	URL   string `json:"url"`
	Scope string `json:"scope"`
}

type settingsSyncOptions struct {
	Enabled bool `json:"enabled"`
}

type developmentOptions struct {
	EnableSmokeTestDriver bool `json:"enableSmokeTestDriver,omitempty"`
}

type productConfiguration struct {
	NameShort         string `json:"nameShort"`
	NameLong          string `json:"nameLong"`
	ApplicationName   string `json:"applicationName"`
	Version           string `json:"version"`
	Commit            string `json:"commit,omitempty"`
	URLProtocol       string `json:"urlProtocol"`
	WebEndpointURL    string `json:"webEndpointUrl"`
	UpdateURL         string `json:"updateUrl"`
	LogoutEndpointURL string `json:"logoutEndpointUrl"`
}

// webConfiguration is the JSON blob the web client bootstraps from,
// injected into the data-settings attribute of the rendered page.
type webConfiguration struct {
	RemoteAuthority      string                   `json:"remoteAuthority"`
	ProductConfiguration *productConfiguration    `json:"productConfiguration"`
	ServiceWorker        *serviceWorkerDescriptor `json:"serviceWorker"`
	FolderURI            *types.URIComponents     `json:"folderUri,omitempty"`
	WorkspaceURI         *types.URIComponents     `json:"workspaceUri,omitempty"`
	SettingsSyncOptions  *settingsSyncOptions     `json:"settingsSyncOptions,omitempty"`
	DevelopmentOptions   *developmentOptions      `json:"developmentOptions,omitempty"`

	// Forced to false when an automation driver is attached: driver runs
	// execute against unpublished build artifacts, and the iframe URL
	// the isolated worker host would load does not exist there.
	WrapWebWorkerExtHostInIframe *bool `json:"_wrapWebWorkerExtHostInIframe,omitempty"`
}

// serveRoot renders the bootstrap HTML document for the web client.
func (s *Server) serveRoot(w http.ResponseWriter, r *http.Request, c *requestContext) {
	if r.Host == "" {
		writePlain(w, http.StatusBadRequest, "Bad request")
		return
	}

	colors, err := s.theme.FetchColors(r.Context())
	if err != nil {
		s.serveError(w, r, http.StatusInternalServerError, "theme unavailable")
		return
	}

	// One-time token-to-cookie upgrade so the token does not stay in
	// browsable URL history.
	if token := r.URL.Query().Get(tokenQueryParam); token != "" {
		http.SetCookie(w, tokenCookie(token))
		location := c.pathname
		if rest := stripQueryParam(r.URL.RawQuery, tokenQueryParam); rest != "" {
			location += "?" + rest
		}
		w.Header().Set("Location", location)
		w.WriteHeader(http.StatusFound)
		return
	}

	authority := parseRemoteAuthority(r)
	basePath := strings.TrimSuffix(c.pathname, "/")
	res := workspace.Resolve(s.cfg.Workspace, s.cfg.Folder)

	cfg := &webConfiguration{
		RemoteAuthority: authority.Authority(),
		ProductConfiguration: &productConfiguration{
			NameShort:         s.product.NameShort,
			NameLong:          s.product.NameLong,
			ApplicationName:   s.product.ApplicationName,
			Version:           s.product.Version,
			Commit:            s.product.Commit,
			URLProtocol:       s.product.URLProtocol,
			WebEndpointURL:    authority.URL(basePath + "/static"),
			UpdateURL:         authority.URL(basePath + "/update/check"),
			LogoutEndpointURL: authority.URL(basePath + "/logout"),
		},
		ServiceWorker: &serviceWorkerDescriptor{
			URL:   authority.URL(basePath + "/" + s.cfg.ServiceWorkerFileName),
			Scope: c.pathname,
		},
	}
	switch {
	case res.WorkspacePath != "":
		cfg.WorkspaceURI = &types.URIComponents{Scheme: "file", Path: res.WorkspacePath}
	case res.FolderPath != "":
		cfg.FolderURI = &types.URIComponents{Scheme: "file", Path: res.FolderPath}
	}
	if s.cfg.EnableSync {
		cfg.SettingsSyncOptions = &settingsSyncOptions{Enabled: true}
	}
	if s.cfg.DriverHandle != "" {
		cfg.DevelopmentOptions = &developmentOptions{EnableSmokeTestDriver: true}
		noIframe := false
		cfg.WrapWebWorkerExtHostInIframe = &noIframe
	}

	configJSON, err := json.Marshal(cfg)
	if err != nil {
		s.serveError(w, r, http.StatusInternalServerError, "configuration marshal failed")
		return
	}

	authSession := ""
	if s.cfg.GithubAuth != "" {
		session := types.AuthSession{
			ID:          ulid.Make().String(),
			ProviderID:  "github",
			AccessToken: s.cfg.GithubAuth,
			Scopes:      [][]string{{"read:user", "user:email", "repo"}},
		}
		if data, err := json.Marshal(session); err == nil {
			authSession = escapeAttribute(string(data))
		}
	}

	template := s.assets.workbench
	if s.cfg.DevMode {
		template = s.assets.workbenchDev
	}

	page := template
	page = strings.Replace(page, "{{WORKBENCH_WEB_CONFIGURATION}}", escapeAttribute(string(configJSON)), 1)
	page = strings.Replace(page, "{{WORKBENCH_AUTH_SESSION}}", authSession, 1)
	page = strings.ReplaceAll(page, "{{WORKBENCH_WEB_BASE_URL}}", basePath)
	page = strings.ReplaceAll(page, "{{WORKBENCH_BACKGROUND_COLOR}}", colors.BackgroundColor)
	page = strings.ReplaceAll(page, "{{WORKBENCH_FOREGROUND_COLOR}}", colors.ForegroundColor)

	// Hashes must cover the document as served, so compute them after
	// every substitution.
	csp := contentSecurityPolicy(extractInlineScriptHashes(page))

	if s.cfg.ConnectionToken != "" {
		// Re-affirm the cookie's validity window on every render.
		http.SetCookie(w, tokenCookie(s.cfg.ConnectionToken))
	}
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Security-Policy", csp)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

func tokenCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   tokenCookieAge,
		SameSite: http.SameSiteStrictMode,
	}
}

// escapeAttribute makes a string safe for a double-quoted HTML attribute.
func escapeAttribute(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}

// stripQueryParam removes every pair with the given key from a raw query
// string while preserving the order and encoding of everything else.
func stripQueryParam(rawQuery, key string) string {
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			k = pair[:i]
		}
		if k == key {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}
