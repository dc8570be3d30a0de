package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/klutter-gen/internal/codegen/generator"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
	"github.com/Alia5/klutter-gen/internal/codegen/validator"
	"github.com/Alia5/klutter-gen/internal/configpaths"
	"github.com/Alia5/klutter-gen/internal/project"
	"github.com/Alia5/klutter-gen/internal/report"
)

// Scan prints the declarations found in the Kotlin sources without rendering
// anything.
type Scan struct {
	ProjectFlags `embed:""`
	Format       string `help:"Output format" enum:"json,yaml" default:"yaml"`
	Output       string `help:"Write the dump to this file instead of stdout" type:"path"`
	Validate     bool   `help:"Validate the declarations and fail on problems"`
	NoColor      bool   `name:"no-color" help:"Disable colored output"`

	stdout io.Writer
	stderr io.Writer
}

type scanDump struct {
	ChannelName          string                      `json:"channelName"`
	SimpleControllers    []*meta.SimpleController    `json:"simpleControllers"`
	BroadcastControllers []*meta.BroadcastController `json:"broadcastControllers"`
	Messages             []meta.Message              `json:"messages"`
	Enums                []meta.Enum                 `json:"enums"`
	Files                []string                    `json:"files"`
}

// Run is called by Kong when the scan command is executed.
func (c *Scan) Run(logger *slog.Logger) error {
	proj, err := project.Load(c.Root)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	gen := generator.New(generator.Options{
		Root:       c.Root,
		SourceDirs: c.Source,
		Channel:    c.Channel,
	}, logger)

	md, err := gen.ScanAll(proj)
	if err != nil {
		c.printError(err)
		return err
	}

	if c.Validate {
		res := validator.ValidateFor(logger, md, gen.Target(proj))
		if !res.OK() {
			err := &generator.ValidationFailedError{Diagnostics: res.Invalid}
			c.printError(err)
			return err
		}
	}

	data, err := encodeDump(md, c.Format)
	if err != nil {
		return err
	}
	if c.Output == "" {
		_, err = c.out().Write(data)
		return err
	}
	if err := configpaths.EnsureDir(c.Output); err != nil {
		return err
	}
	logger.Info("Writing scan result", "file", c.Output)
	return os.WriteFile(c.Output, data, 0o644)
}

func (c *Scan) printError(err error) {
	errOut := c.stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	report.New(errOut, c.NoColor || !report.UseColor(errOut)).Error(err)
}

func (c *Scan) out() io.Writer {
	if c.stdout != nil {
		return c.stdout
	}
	return os.Stdout
}

// encodeDump renders md as JSON or YAML. YAML keys follow the JSON tags.
func encodeDump(md *meta.Metadata, format string) ([]byte, error) {
	dump := scanDump{
		ChannelName:          md.ChannelName,
		SimpleControllers:    md.SimpleControllers(),
		BroadcastControllers: md.BroadcastControllers(),
		Messages:             md.Messages,
		Enums:                md.Enums,
		Files:                md.Files,
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return nil, err
	}
	switch format {
	case "", "json":
		return append(data, '\n'), nil
	case "yaml", "yml":
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(generic)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
