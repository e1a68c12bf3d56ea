// Package workspace resolves the open target for the root page from the
// CLI-supplied --workspace/--folder arguments.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/webcode-dev/webcode/internal/logging"
)

// Resolution is the validated open target. At most one of WorkspacePath or
// FolderPath is set; both empty means an empty-window start.
type Resolution struct {
	WorkspacePath string
	FolderPath    string
}

// IsEmpty reports whether no target was resolved.
func (r Resolution) IsEmpty() bool {
	return r.WorkspacePath == "" && r.FolderPath == ""
}

// Resolve validates the supplied paths against the filesystem. A target
// that does not exist is dropped with a warning rather than failing the
// request, matching the empty-window fallback of the web client.
func Resolve(workspace, folder string) Resolution {
	if workspace != "" {
		if abs, ok := verify(workspace, false); ok {
			return Resolution{WorkspacePath: abs}
		}
	}
	if folder != "" {
		if abs, ok := verify(folder, true); ok {
			return Resolution{FolderPath: abs}
		}
	}
	return Resolution{}
}

func verify(path string, wantDir bool) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	log := logging.For("workspace")
	fi, err := os.Stat(abs)
	if err != nil {
		log.Warn().Str("path", abs).Msg("open target does not exist")
		return "", false
	}
	if wantDir != fi.IsDir() {
		log.Warn().Str("path", abs).Msg("open target has wrong type")
		return "", false
	}
	return abs, true
}
