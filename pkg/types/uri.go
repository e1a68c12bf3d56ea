// Package types contains the shared wire types exchanged between the
// WebCode gateway and its clients.
package types

import "strings"

// URIComponents is the decomposed form of a URI as exchanged over the
// callback protocol. Fields mirror the client-side URI representation so
// the JSON round-trips without translation.
type URIComponents struct {
	Scheme    string `json:"scheme"`
	Authority string `json:"authority,omitempty"`
	Path      string `json:"path,omitempty"`
	Query     string `json:"query,omitempty"`
	Fragment  string `json:"fragment,omitempty"`
}

// String renders the components back into URI syntax. Intended for logging
// and CLI output, not for strict RFC 3986 serialization.
func (u URIComponents) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	b.WriteString(u.Authority)
	b.WriteString(u.Path)
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// AuthSession describes a pre-authorized session handed to the web client
// at bootstrap time, typically sourced from a --github-auth token.
type AuthSession struct {
	ID          string     `json:"id"`
	ProviderID  string     `json:"providerId"`
	AccessToken string     `json:"accessToken"`
	Scopes      [][]string `json:"scopes"`
}
