// Package config holds the gateway's runtime configuration: listen address,
// application root, service-worker descriptor, and the CLI passthrough
// arguments the web client bootstrap depends on.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config is the environment/configuration provider consumed by the gateway.
type Config struct {
	// Host and Port form the listen address.
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`

	// AppRoot is the directory containing the built web client. All
	// /static/ requests are sandboxed to this directory.
	AppRoot string `json:"appRoot" yaml:"appRoot"`

	// ConnectionToken is the access token handed out via the one-time
	// tkn query upgrade. Generated when left empty.
	ConnectionToken string `json:"connectionToken" yaml:"connectionToken"`

	// ServiceWorkerFileName is the basename requests are matched against;
	// ServiceWorkerPath locates the worker script relative to AppRoot.
	ServiceWorkerFileName string `json:"serviceWorkerFileName" yaml:"serviceWorkerFileName"`
	ServiceWorkerPath     string `json:"serviceWorkerPath" yaml:"serviceWorkerPath"`

	// Folder and Workspace are the mutually exclusive open targets
	// passed on the command line.
	Folder    string `json:"folder" yaml:"folder"`
	Workspace string `json:"workspace" yaml:"workspace"`

	// GithubAuth carries a pre-authorized GitHub token that becomes the
	// bootstrap auth session.
	GithubAuth string `json:"githubAuth" yaml:"githubAuth"`

	// EnableSync toggles settings sync in the web client.
	EnableSync bool `json:"enableSync" yaml:"enableSync"`

	// DriverHandle is set when an automation driver is attached; it
	// forces worker isolation off in the rendered page.
	DriverHandle string `json:"driverHandle" yaml:"driverHandle"`

	// DevMode serves the unbundled development template.
	DevMode bool `json:"devMode" yaml:"devMode"`

	// ImmutableGlobs are doublestar patterns (relative to AppRoot) whose
	// matches are served with an immutable Cache-Control header.
	ImmutableGlobs []string `json:"immutableGlobs" yaml:"immutableGlobs"`

	// ThemeFile points at the color theme definition used when rendering.
	ThemeFile string `json:"themeFile" yaml:"themeFile"`
}

// Default returns the baseline configuration before file and environment
// overrides are applied.
func Default() *Config {
	return &Config{
		Host:                  "127.0.0.1",
		Port:                  9888,
		ServiceWorkerFileName: "service-worker.js",
		ServiceWorkerPath:     "out/service-worker.js",
	}
}

// Load builds the configuration from an optional config file plus
// environment overrides. The file format follows its extension: .yaml/.yml
// is parsed as YAML, anything else as JSONC.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Folder != "" && cfg.Workspace != "" {
		return nil, fmt.Errorf("config: folder and workspace are mutually exclusive")
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return nil
}

// Environment variables take precedence over the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEBCODE_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("WEBCODE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("WEBCODE_APP_ROOT"); v != "" {
		cfg.AppRoot = v
	}
	if v := os.Getenv("WEBCODE_CONNECTION_TOKEN"); v != "" {
		cfg.ConnectionToken = v
	}
	if v := os.Getenv("WEBCODE_GITHUB_AUTH"); v != "" {
		cfg.GithubAuth = v
	}
}

// EnsureConnectionToken fills in a generated token when none was supplied
// and returns the active token.
func (c *Config) EnsureConnectionToken() string {
	if c.ConnectionToken == "" {
		c.ConnectionToken = strings.ToLower(ulid.Make().String())
	}
	return c.ConnectionToken
}
