package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// workspace is the per-run temp directory holding intermediate files
type workspace struct {
	dir   string
	files []string
	out   io.Writer
	log   zerolog.Logger
}

func newWorkspace(parent string, out io.Writer, log zerolog.Logger) (*workspace, error) {
	dir, err := os.MkdirTemp(parent, "printbase-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return &workspace{dir: dir, out: out, log: log}, nil
}

// file reserves a path inside the workspace and tracks it for cleanup
func (w *workspace) file(name string) string {
	path := filepath.Join(w.dir, name)
	w.files = append(w.files, path)
	return path
}

// cleanup removes every tracked file once, then the directory. Failures are
// logged and otherwise ignored. It returns the files actually removed.
func (w *workspace) cleanup() []string {
	var removed []string
	for _, path := range w.files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := os.Remove(path); err != nil {
			w.log.Warn().Err(err).Str("file", path).Msg("failed to clean up temp file")
			continue
		}
		removed = append(removed, path)
		fmt.Fprintf(w.out, "Cleaned up: %s\n", path)
	}
	if err := os.Remove(w.dir); err != nil && !os.IsNotExist(err) {
		w.log.Warn().Err(err).Str("dir", w.dir).Msg("failed to remove temp directory")
	}
	return removed
}
