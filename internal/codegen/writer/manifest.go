package writer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
)

// ManifestPath is where the manifest lives, relative to the project root.
const ManifestPath = ".klutter/manifest.yaml"

// Manifest lists every file produced by the last generation run.
type Manifest struct {
	Generator string          `yaml:"generator"`
	Version   string          `yaml:"version"`
	Channel   string          `yaml:"channel"`
	Files     []ManifestEntry `yaml:"files"`
}

// ManifestEntry is one generated file and the BLAKE2b-256 digest of its content.
type ManifestEntry struct {
	Path     string `yaml:"path"`
	Language string `yaml:"language,omitempty"`
	Digest   string `yaml:"blake2b"`
}

// Digest returns the hex encoded BLAKE2b-256 sum of content.
func Digest(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// NewManifest describes files, sorted by path.
func NewManifest(channel string, files []File) *Manifest {
	version, err := common.GetVersion()
	if err != nil {
		version = "unknown"
	}
	m := &Manifest{
		Generator: "klutter-gen",
		Version:   version,
		Channel:   channel,
		Files:     make([]ManifestEntry, 0, len(files)),
	}
	for _, f := range files {
		m.Files = append(m.Files, ManifestEntry{Path: f.Path, Language: f.Language, Digest: Digest(f.Content)})
	}
	m.sort()
	return m
}

func (m *Manifest) sort() {
	sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Path < m.Files[j].Path })
}

// CarryOver copies the entries of prev selected by keep that m does not
// list yet. Files of renderers skipped in this run stay recorded that way
// and are never treated as stale.
func (m *Manifest) CarryOver(prev *Manifest, keep func(ManifestEntry) bool) {
	if prev == nil {
		return
	}
	for _, e := range prev.Files {
		if _, ok := m.Lookup(e.Path); ok || !keep(e) {
			continue
		}
		m.Files = append(m.Files, e)
	}
	m.sort()
}

// Lookup returns the entry for path.
func (m *Manifest) Lookup(path string) (ManifestEntry, bool) {
	for _, e := range m.Files {
		if e.Path == path {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// WrittenByNewer reports whether m was produced by a klutter-gen release
// newer than version.
func (m *Manifest) WrittenByNewer(version string) bool {
	if m == nil || m.Version == "" || m.Version == "unknown" {
		return false
	}
	have, running := versionCore(m.Version), versionCore(version)
	for i := range have {
		if have[i] != running[i] {
			return have[i] > running[i]
		}
	}
	return false
}

// versionCore is the numeric x.y.z of v. Missing or malformed parts are zero.
func versionCore(v string) [3]int {
	core, _, _ := strings.Cut(strings.TrimPrefix(v, "v"), "-")
	var out [3]int
	for i, part := range strings.SplitN(core, ".", 3) {
		out[i], _ = strconv.Atoi(part)
	}
	return out
}

// WriteManifest stores m below root.
func WriteManifest(logger *slog.Logger, root string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if _, err := Write(logger, root, []File{{Path: ManifestPath, Content: data}}); err != nil {
		return err
	}
	return nil
}

// ReadManifest loads the manifest below root. A missing manifest yields
// (nil, nil).
func ReadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ManifestPath)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// RemoveStale deletes files recorded in prev that next no longer produces.
// A file is only removed when its content still matches the recorded digest,
// so hand edits survive. It returns the removed paths.
func RemoveStale(logger *slog.Logger, root string, prev, next *Manifest) ([]string, error) {
	if prev == nil {
		return nil, nil
	}
	var removed []string
	for _, e := range prev.Files {
		if _, ok := next.Lookup(e.Path); ok {
			continue
		}
		path := filepath.Join(root, filepath.FromSlash(e.Path))
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, &WriteError{Path: path, Err: err}
		}
		if Digest(content) != e.Digest {
			logger.Warn("Keeping modified stale file", "path", e.Path)
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, &WriteError{Path: path, Err: err}
		}
		logger.Info("Removed stale generated file", "path", e.Path)
		removed = append(removed, e.Path)
	}
	return removed, nil
}
