// Package product exposes the product metadata embedded into the web
// client bootstrap configuration.
package product

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// Metadata describes the product served by this gateway.
type Metadata struct {
	NameShort       string `json:"nameShort"`
	NameLong        string `json:"nameLong"`
	ApplicationName string `json:"applicationName"`
	Version         string `json:"version"`
	Commit          string `json:"commit,omitempty"`
	Quality         string `json:"quality,omitempty"`
	URLProtocol     string `json:"urlProtocol"`
	WebEndpointURL  string `json:"webEndpointUrl,omitempty"`
}

// Default returns the built-in product identity. Version and Commit are
// normally stamped at build time by the CLI.
func Default() *Metadata {
	return &Metadata{
		NameShort:       "WebCode",
		NameLong:        "WebCode - Web Editor",
		ApplicationName: "webcode",
		Version:         "0.1.0",
		URLProtocol:     "webcode",
	}
}

// Load reads a product.json override (JSONC allowed) on top of the
// defaults. Missing fields keep their default values.
func Load(path string) (*Metadata, error) {
	meta := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("product: read %s: %w", path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), meta); err != nil {
		return nil, fmt.Errorf("product: parse %s: %w", path, err)
	}
	return meta, nil
}
