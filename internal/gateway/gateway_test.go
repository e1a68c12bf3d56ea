package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webcode-dev/webcode/internal/config"
	"github.com/webcode-dev/webcode/internal/theme"
)

// newTestServer builds a gateway with a temp application root and a fixed
// theme. mutate tweaks the config before construction.
func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.AppRoot = t.TempDir()
	cfg.ConnectionToken = "test-token"
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := New(cfg, nil, theme.Static{Colors: theme.Colors{
		BackgroundColor: "#112233",
		ForegroundColor: "#AABBCC",
	}})
	require.NoError(t, err)
	t.Cleanup(func() { srv.bus.Close() })
	return srv
}

// writeAppFile creates a file under the server's application root.
func writeAppFile(t *testing.T, srv *Server, rel, content string) string {
	t.Helper()
	path := filepath.Join(srv.cfg.AppRoot, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
