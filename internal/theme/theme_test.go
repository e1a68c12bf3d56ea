package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProviderDefaults(t *testing.T) {
	p := NewFileProvider("")
	defer p.Close()

	colors, err := p.FetchColors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultColors(), colors)
}

func TestFileProviderLoadsTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.json")
	content := `{
		// solarized-ish
		"backgroundColor": "#002B36",
		"foregroundColor": "#839496",
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p := NewFileProvider(path)
	defer p.Close()

	colors, err := p.FetchColors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "#002B36", colors.BackgroundColor)
	assert.Equal(t, "#839496", colors.ForegroundColor)
}

func TestFileProviderMissingFileFallsBack(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), "absent.json"))
	defer p.Close()

	colors, err := p.FetchColors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultColors(), colors)
}

func TestFileProviderReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backgroundColor": "#000000"}`), 0o644))

	p := NewFileProvider(path)
	defer p.Close()

	colors, err := p.FetchColors(context.Background())
	require.NoError(t, err)
	require.Equal(t, "#000000", colors.BackgroundColor)

	require.NoError(t, os.WriteFile(path, []byte(`{"backgroundColor": "#FFFFFF"}`), 0o644))

	assert.Eventually(t, func() bool {
		colors, err := p.FetchColors(context.Background())
		return err == nil && colors.BackgroundColor == "#FFFFFF"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestStaticProvider(t *testing.T) {
	want := Colors{BackgroundColor: "#111", ForegroundColor: "#eee"}
	p := Static{Colors: want}

	require.NoError(t, p.Ready(context.Background()))
	colors, err := p.FetchColors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, colors)
}
