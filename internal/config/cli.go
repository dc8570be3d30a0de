// Package config defines the command line surface. Every flag can also be
// set from a JSON, YAML or TOML config file or from the environment.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/Alia5/klutter-gen/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"KLUTTER_GEN_LOG_LEVEL"`
	Format  string `help:"Log format" enum:"text,json" default:"text" env:"KLUTTER_GEN_LOG_FORMAT"`
	File    string `help:"Also write logs to this file" type:"path" env:"KLUTTER_GEN_LOG_FILE"`
	RawFile string `help:"Dump every rendered file to this path" type:"path" env:"KLUTTER_GEN_LOG_RAW_FILE"`
}

type CLI struct {
	ConfigFile string           `name:"config" help:"Path to a JSON, YAML or TOML config file" type:"path" env:"KLUTTER_GEN_CONFIG"`
	Log        Log              `embed:"" prefix:"log."`
	Version    kong.VersionFlag `help:"Print version and exit"`

	Generate cmd.Generate      `cmd:"" default:"withargs" help:"Generate the Dart, Android and iOS adapters"`
	Scan     cmd.Scan          `cmd:"" help:"Print the annotated declarations found in the Kotlin sources"`
	Watch    cmd.Watch         `cmd:"" help:"Regenerate the adapters whenever the Kotlin sources change"`
	Config   cmd.ConfigCommand `cmd:"" help:"Manage configuration files"`
}
