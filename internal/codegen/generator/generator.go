package generator

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/generator/android"
	"github.com/Alia5/klutter-gen/internal/codegen/generator/dart"
	"github.com/Alia5/klutter-gen/internal/codegen/generator/ios"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
	"github.com/Alia5/klutter-gen/internal/codegen/scanner"
	"github.com/Alia5/klutter-gen/internal/codegen/validator"
	"github.com/Alia5/klutter-gen/internal/codegen/writer"
	"github.com/Alia5/klutter-gen/internal/project"
)

// Options configures one generation run.
type Options struct {
	Root         string   // plugin project root holding pubspec.yaml
	SourceDirs   []string // Kotlin source directories, relative to Root
	Channel      string   // primary channel override
	Languages    []string // renderers to run, all when empty
	DartClass    string
	IOSFramework string
	DryRun       bool // render without touching the project
}

type Generator struct {
	opts   Options
	logger *slog.Logger
}

type LanguageGenerator func(logger *slog.Logger, md *meta.Metadata, target common.Target) ([]writer.File, error)

var generators = map[string]LanguageGenerator{
	"dart":    dart.Render,
	"android": android.Render,
	"ios":     ios.Render,
}

// Languages returns the supported renderer names in sorted order.
func Languages() []string {
	var supported []string
	for k := range generators {
		supported = append(supported, k)
	}
	sort.Strings(supported)
	return supported
}

// ValidationFailedError aggregates every problem found by the validator.
// Nothing is written when it is returned.
type ValidationFailedError struct {
	Diagnostics []validator.Diagnostic
}

func (e *ValidationFailedError) Error() string {
	if len(e.Diagnostics) == 1 {
		return "validation failed: " + e.Diagnostics[0].String()
	}
	return fmt.Sprintf("validation failed with %d problems", len(e.Diagnostics))
}

// Result describes a finished run.
type Result struct {
	Metadata *meta.Metadata
	Files    []writer.File
	Written  []string // paths whose content changed
	Removed  []string // stale generated paths deleted
}

func New(opts Options, logger *slog.Logger) *Generator {
	return &Generator{
		opts:   opts,
		logger: logger,
	}
}

// Run scans, validates, renders and writes. Generation is skipped entirely
// when validation reports any problem.
func (g *Generator) Run() (*Result, error) {
	proj, err := project.Load(g.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	md, err := g.ScanAll(proj)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("Validating metadata")
	target := g.Target(proj)
	res := validator.ValidateFor(g.logger, md, target)
	if !res.OK() {
		for _, d := range res.Invalid {
			g.logger.Error("Invalid declaration", "pos", d.Pos.String(), "subject", d.Subject, "error", d.Err)
		}
		return nil, &ValidationFailedError{Diagnostics: res.Invalid}
	}

	files, err := g.Render(res.Valid, target)
	if err != nil {
		return nil, err
	}
	result := &Result{Metadata: res.Valid, Files: files}

	if g.opts.DryRun {
		g.logger.Info("Dry run, nothing written", "files", len(files))
		return result, nil
	}

	prev, err := writer.ReadManifest(proj.Root)
	if err != nil {
		return nil, err
	}
	if version, err := common.GetVersion(); err == nil && prev.WrittenByNewer(version) {
		g.logger.Warn("Adapters were generated by a newer klutter-gen", "manifest", prev.Version, "current", version)
	}
	result.Written, err = writer.Write(g.logger, proj.Root, files)
	if err != nil {
		return nil, err
	}
	next := writer.NewManifest(md.ChannelName, files)
	next.CarryOver(prev, g.skipped())
	result.Removed, err = writer.RemoveStale(g.logger, proj.Root, prev, next)
	if err != nil {
		return nil, err
	}
	if err := writer.WriteManifest(g.logger, proj.Root, next); err != nil {
		return nil, err
	}

	g.logger.Info("Adapter generation complete",
		"files", len(files),
		"written", len(result.Written),
		"removed", len(result.Removed))
	return result, nil
}

// ScanAll scans every configured source directory of proj and assigns
// channel names.
func (g *Generator) ScanAll(proj *project.Project) (*meta.Metadata, error) {
	dirs := proj.SourceDirs(g.opts.SourceDirs)
	g.logger.Info("Scanning Kotlin sources", "dirs", strings.Join(dirs, ","))

	md, err := scanner.ScanDir(g.logger, dirs...)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sources: %w", err)
	}

	md.ChannelName = g.opts.Channel
	if md.ChannelName == "" {
		md.ChannelName = proj.ChannelName()
	}
	AssignChannels(md)

	g.logger.Info("Found controllers", "count", len(md.Controllers))
	g.logger.Info("Found messages", "count", len(md.Messages))
	g.logger.Info("Found enums", "count", len(md.Enums))
	return md, nil
}

// AssignChannels sets the channel of every controller from md.ChannelName.
func AssignChannels(md *meta.Metadata) {
	for _, c := range md.Controllers {
		switch c := c.(type) {
		case *meta.SimpleController:
			if c.Annotated {
				c.ChannelName = common.ControllerChannel(md.ChannelName, c.Name)
			} else {
				c.ChannelName = md.ChannelName
			}
		case *meta.BroadcastController:
			c.ChannelName = common.ControllerChannel(md.ChannelName, c.Name)
		}
	}
}

// Target derives the rendered artifact names from proj.
func (g *Generator) Target(proj *project.Project) common.Target {
	return common.Target{
		PluginName:     proj.Name(),
		DartClass:      g.opts.DartClass,
		AndroidPackage: proj.AndroidPackage(),
		AndroidClass:   proj.AndroidPluginClass(),
		IOSClass:       proj.IOSPluginClass(),
		IOSFramework:   g.opts.IOSFramework,
	}
}

func (g *Generator) languages() []string {
	if len(g.opts.Languages) == 0 {
		return Languages()
	}
	return g.opts.Languages
}

// skipped selects the manifest entries of languages this run does not
// render. Entries without a language are only dropped by a full run.
func (g *Generator) skipped() func(writer.ManifestEntry) bool {
	rendered := make(map[string]bool)
	for _, lang := range g.languages() {
		rendered[lang] = true
	}
	full := true
	for lang := range generators {
		full = full && rendered[lang]
	}
	return func(e writer.ManifestEntry) bool {
		if e.Language == "" {
			return !full
		}
		return !rendered[e.Language]
	}
}

// Render runs the selected language generators over validated metadata.
func (g *Generator) Render(md *meta.Metadata, target common.Target) ([]writer.File, error) {
	langs := g.languages()
	var files []writer.File
	for _, lang := range langs {
		gen, ok := generators[lang]
		if !ok {
			return nil, fmt.Errorf("unsupported language '%s' (supported: %v)", lang, Languages())
		}
		g.logger.Debug("Rendering adapter", "language", lang)
		out, err := gen(g.logger, md, target)
		if err != nil {
			return nil, fmt.Errorf("render %s adapter: %w", lang, err)
		}
		for i := range out {
			out[i].Language = lang
		}
		files = append(files, out...)
	}
	return files, nil
}
