package gateway

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// RemoteAuthority is the externally visible origin a client should use to
// reach this server, derived once per request from proxy headers.
type RemoteAuthority struct {
	Scheme string
	Host   string
	Port   int
}

// parseRemoteAuthority derives the authority from the RFC 7239 Forwarded
// header when present, else the X-Forwarded-* pair, else the Host header,
// falling back to http://localhost.
func parseRemoteAuthority(r *http.Request) RemoteAuthority {
	scheme := "http"
	host := ""

	if fwd := r.Header.Get("Forwarded"); fwd != "" {
		proto, fwdHost := parseForwarded(fwd)
		if proto != "" {
			scheme = proto
		}
		host = fwdHost
	}
	if host == "" {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.ToLower(strings.TrimSpace(proto))
		}
		host = r.Header.Get("X-Forwarded-Host")
	}
	if host == "" {
		host = r.Host
	}
	if host == "" {
		host = "localhost"
	}

	auth := RemoteAuthority{Scheme: scheme, Host: host}
	if h, p, err := net.SplitHostPort(host); err == nil {
		auth.Host = h
		fmt.Sscanf(p, "%d", &auth.Port)
	}
	if auth.Port == 0 {
		if scheme == "https" {
			auth.Port = 443
		} else {
			auth.Port = 80
		}
	}
	return auth
}

// parseForwarded extracts proto and host from the first element of an
// RFC 7239 Forwarded header.
func parseForwarded(value string) (proto, host string) {
	first := value
	if i := strings.IndexByte(first, ','); i >= 0 {
		first = first[:i]
	}
	for _, part := range strings.Split(first, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		v = strings.Trim(strings.TrimSpace(v), `"`)
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "proto":
			proto = strings.ToLower(v)
		case "host":
			host = v
		}
	}
	return proto, host
}

// Authority returns host:port with the port always explicit. Behind a
// proxy the client cannot infer the port from its own connection, so the
// default ports are spelled out.
func (a RemoteAuthority) Authority() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// Origin returns scheme://host[:port], omitting default ports.
func (a RemoteAuthority) Origin() string {
	if (a.Scheme == "https" && a.Port == 443) || (a.Scheme == "http" && a.Port == 80) {
		return fmt.Sprintf("%s://%s", a.Scheme, a.Host)
	}
	return fmt.Sprintf("%s://%s:%d", a.Scheme, a.Host, a.Port)
}

// URL builds an absolute URL for path under this authority.
func (a RemoteAuthority) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return a.Origin() + path
}
