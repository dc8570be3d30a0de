package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Alia5/klutter-gen/internal/codegen/meta"
)

// ScanSource extracts controllers, adaptee functions, messages and enums from
// the Kotlin source of one file.
func ScanSource(path string, src []byte) (*meta.Metadata, error) {
	tokens, err := NewLexer(path, src).ScanTokens()
	if err != nil {
		return nil, err
	}
	md, err := newParser(path, src, tokens).parse()
	if err != nil {
		return nil, err
	}
	md.Files = []string{path}
	return md, nil
}

// ScanFile reads and scans one Kotlin source file.
func ScanFile(path string) (*meta.Metadata, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return ScanSource(path, src)
}

// ScanDir scans every *.kt file below dirs in lexical path order.
// The first malformed declaration stops the scan.
func ScanDir(logger *slog.Logger, dirs ...string) (*meta.Metadata, error) {
	var files []string
	for _, dir := range dirs {
		found, err := FindSources(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	sort.Strings(files)

	md := &meta.Metadata{}
	for _, file := range files {
		fileMd, err := ScanFile(file)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", file, err)
		}
		logger.Debug("Scanned source file",
			"file", file,
			"controllers", len(fileMd.Controllers),
			"messages", len(fileMd.Messages),
			"enums", len(fileMd.Enums))
		md.Merge(fileMd)
	}
	return md, nil
}

// FindSources lists the Kotlin source files below dir.
func FindSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".kt") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk source directory %s: %w", dir, err)
	}
	return files, nil
}
