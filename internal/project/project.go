// Package project locates the parts of a Klutter plugin project and reads its
// pubspec.yaml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
)

// PubspecFile is the Flutter package descriptor at the project root.
const PubspecFile = "pubspec.yaml"

// DefaultSourceDir holds the Kotlin Multiplatform sources scanned by default.
const DefaultSourceDir = "platform/src/commonMain"

// ErrMissingName is returned for a pubspec.yaml without a name.
var ErrMissingName = errors.New("missing 'name' in pubspec.yaml")

// Pubspec is the subset of pubspec.yaml the generator reads.
type Pubspec struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Version     string  `yaml:"version,omitempty"`
	Flutter     Flutter `yaml:"flutter,omitempty"`
}

type Flutter struct {
	Plugin Plugin `yaml:"plugin,omitempty"`
}

type Plugin struct {
	Platforms Platforms `yaml:"platforms,omitempty"`
}

type Platforms struct {
	Android *AndroidPlatform `yaml:"android,omitempty"`
	IOS     *IOSPlatform     `yaml:"ios,omitempty"`
}

type AndroidPlatform struct {
	Package     string `yaml:"package"`
	PluginClass string `yaml:"pluginClass"`
}

type IOSPlatform struct {
	PluginClass string `yaml:"pluginClass"`
}

// ParsePubspec decodes pubspec.yaml content.
func ParsePubspec(data []byte) (*Pubspec, error) {
	var p Pubspec
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", PubspecFile, err)
	}
	if p.Name == "" {
		return nil, ErrMissingName
	}
	return &p, nil
}

// Project is a plugin project on disk.
type Project struct {
	Root    string
	Pubspec *Pubspec
}

// Load reads the pubspec.yaml below root.
func Load(root string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(root, PubspecFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", PubspecFile, err)
	}
	pubspec, err := ParsePubspec(data)
	if err != nil {
		return nil, err
	}
	return &Project{Root: root, Pubspec: pubspec}, nil
}

// Name is the plugin name from pubspec.yaml.
func (p *Project) Name() string {
	return p.Pubspec.Name
}

// ChannelName is the primary method channel. It is the Android plugin package
// when one is configured, "<name>.klutter" otherwise.
func (p *Project) ChannelName() string {
	if a := p.Pubspec.Flutter.Plugin.Platforms.Android; a != nil && a.Package != "" {
		return a.Package
	}
	return common.DefaultChannelName(p.Name())
}

// AndroidPackage is the package of the generated Android plugin class.
func (p *Project) AndroidPackage() string {
	if a := p.Pubspec.Flutter.Plugin.Platforms.Android; a != nil && a.Package != "" {
		return a.Package
	}
	return p.Name()
}

// AndroidPluginClass is the generated Android plugin class name.
func (p *Project) AndroidPluginClass() string {
	if a := p.Pubspec.Flutter.Plugin.Platforms.Android; a != nil && a.PluginClass != "" {
		return a.PluginClass
	}
	return p.defaultPluginClass()
}

// IOSPluginClass is the generated iOS plugin class name.
func (p *Project) IOSPluginClass() string {
	if i := p.Pubspec.Flutter.Plugin.Platforms.IOS; i != nil && i.PluginClass != "" {
		return i.PluginClass
	}
	return p.defaultPluginClass()
}

func (p *Project) defaultPluginClass() string {
	return common.ToPascalCase(p.Name()) + "Plugin"
}

// Path resolves a slash separated project relative path.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// SourceDirs resolves the Kotlin source directories, DefaultSourceDir when
// none are given.
func (p *Project) SourceDirs(dirs []string) []string {
	if len(dirs) == 0 {
		dirs = []string{DefaultSourceDir}
	}
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if filepath.IsAbs(d) {
			out = append(out, d)
			continue
		}
		out = append(out, p.Path(d))
	}
	return out
}
