// Package writer puts rendered adapter sources on disk and records them in
// the generation manifest.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// File is one rendered output file.
type File struct {
	Path    string // slash separated, relative to the project root
	Content []byte
	// Language is the renderer that produced the file, e.g. "dart".
	Language string
}

// WriteError reports a failure to create or write a generated file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Write stores files below root, creating parent directories and replacing
// earlier generated versions. Files whose content did not change are left
// untouched. It returns the paths that were actually written.
func Write(logger *slog.Logger, root string, files []File) ([]string, error) {
	var written []string
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f.Path))

		existing, err := os.ReadFile(path)
		switch {
		case err == nil && bytes.Equal(existing, f.Content):
			logger.Debug("Generated file unchanged", "path", f.Path)
			continue
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return written, &WriteError{Path: path, Err: err}
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, &WriteError{Path: path, Err: err}
		}
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return written, &WriteError{Path: path, Err: err}
		}
		logger.Debug("Wrote generated file", "path", f.Path, "bytes", len(f.Content))
		written = append(written, f.Path)
	}
	return written, nil
}
