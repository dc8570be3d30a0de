package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Alia5/klutter-gen/internal/codegen/generator"
	"github.com/Alia5/klutter-gen/internal/log"
	"github.com/Alia5/klutter-gen/internal/report"
)

// ProjectFlags locate the plugin project and its Kotlin sources.
type ProjectFlags struct {
	Root    string   `help:"Plugin project root containing pubspec.yaml" default:"." type:"path" env:"KLUTTER_GEN_ROOT"`
	Source  []string `help:"Kotlin source directories, relative to the project root" default:"platform/src/commonMain" env:"KLUTTER_GEN_SOURCE"`
	Channel string   `help:"Primary method channel name. Defaults to the Android package from pubspec.yaml, else <name>.klutter" env:"KLUTTER_GEN_CHANNEL"`
}

type Generate struct {
	ProjectFlags `embed:""`
	Lang         []string `help:"Adapters to render: dart, android, ios" default:"dart,android,ios" enum:"dart,android,ios" env:"KLUTTER_GEN_LANG"`
	DartClass    string   `name:"dart-class" help:"Name of the generated Dart adapter class" default:"Adapter" env:"KLUTTER_GEN_DART_CLASS"`
	IOSFramework string   `name:"ios-framework" help:"Kotlin Multiplatform framework imported by the iOS plugin" default:"Platform" env:"KLUTTER_GEN_IOS_FRAMEWORK"`
	DryRun       bool     `name:"dry-run" help:"Render adapters without writing them"`
	NoColor      bool     `name:"no-color" help:"Disable colored output"`

	stdout io.Writer
	stderr io.Writer
}

// Run is called by Kong when the generate command is executed.
func (c *Generate) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	_, err := c.generate(logger, rawLogger)
	return err
}

func (c *Generate) options() generator.Options {
	return generator.Options{
		Root:         c.Root,
		SourceDirs:   c.Source,
		Channel:      c.Channel,
		Languages:    c.Lang,
		DartClass:    c.DartClass,
		IOSFramework: c.IOSFramework,
		DryRun:       c.DryRun,
	}
}

func (c *Generate) generate(logger *slog.Logger, rawLogger log.RawLogger) (*generator.Result, error) {
	logger.Info("Starting adapter generation", "root", c.Root, "lang", strings.Join(c.Lang, ","))

	res, err := generator.New(c.options(), logger).Run()
	if err != nil {
		errOut := c.errOut()
		report.New(errOut, c.NoColor || !report.UseColor(errOut)).Error(err)
		return nil, err
	}
	for _, f := range res.Files {
		rawLogger.Log(f.Path, f.Content)
	}
	out := c.out()
	report.New(out, c.NoColor || !report.UseColor(out)).Summary(res, c.DryRun)
	return res, nil
}

func (c *Generate) out() io.Writer {
	if c.stdout != nil {
		return c.stdout
	}
	return os.Stdout
}

func (c *Generate) errOut() io.Writer {
	if c.stderr != nil {
		return c.stderr
	}
	return os.Stderr
}
