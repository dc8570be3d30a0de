// Package dart renders the Flutter side of the bridge: the adapter class that
// talks to the platform over method and event channels, the message and enum
// classes, and the library export file.
package dart

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
	"github.com/Alia5/klutter-gen/internal/codegen/writer"
)

// AdapterPath is the adapter source relative to the plugin root.
const AdapterPath = "lib/src/adapter.dart"

// LibraryPath is the library export list of the plugin.
func LibraryPath(plugin string) string {
	return "lib/" + plugin + ".dart"
}

type channelView struct {
	Name        string
	ChannelName string
	Field       string
}

type methodView struct {
	meta.Method
	Field string
}

type broadcastView struct {
	*meta.BroadcastController
	Field  string
	Getter string
}

type adapterData struct {
	Class       string
	Plugin      string
	Export      string
	ChannelName string
	Primary     bool
	Simple      []channelView
	Methods     []methodView
	Broadcasts  []broadcastView
	Messages    []meta.Message
	Enums       []meta.Enum
}

func newAdapterData(md *meta.Metadata, target common.Target) *adapterData {
	data := &adapterData{
		Class:       target.DartClass,
		Plugin:      target.PluginName,
		Export:      "src/adapter.dart",
		ChannelName: md.ChannelName,
		Messages:    md.Messages,
		Enums:       md.Enums,
	}
	for _, c := range md.Controllers {
		switch c := c.(type) {
		case *meta.SimpleController:
			field := "_channel"
			if c.Annotated {
				field = channelField(c.Name)
				data.Simple = append(data.Simple, channelView{Name: c.Name, ChannelName: c.ChannelName, Field: field})
			} else if len(c.Methods) > 0 {
				data.Primary = true
			}
			for _, m := range c.Methods {
				data.Methods = append(data.Methods, methodView{Method: m, Field: field})
			}
		case *meta.BroadcastController:
			data.Broadcasts = append(data.Broadcasts, broadcastView{
				BroadcastController: c,
				Field:               channelField(c.Name),
				Getter:              common.ToCamelCase(c.Name),
			})
		}
	}
	return data
}

// Render produces the Dart adapter and the library export list for md.
// md is expected to have passed validation.
func Render(logger *slog.Logger, md *meta.Metadata, target common.Target) ([]writer.File, error) {
	if target.PluginName == "" {
		return nil, errors.New("dart: plugin name is required")
	}
	target = target.WithDefaults()
	data := newAdapterData(md, target)

	funcMap := template.FuncMap{
		"writeFileHeaderDart": writeFileHeaderDart,
		"dartString":          common.DartString,
		"dartType":            dartType,
		"decode":              decode,
		"encode":              encode,
		"jsonKey":             jsonKey,
		"orderedFields":       orderedFields,
		"memberName":          memberName,
	}

	adapter, err := execute("adapter", adapterTemplate, funcMap, data)
	if err != nil {
		return nil, err
	}
	library, err := execute("library", libraryTemplate, funcMap, data)
	if err != nil {
		return nil, err
	}

	logger.Info("Rendered Dart adapter",
		"methods", len(data.Methods),
		"broadcasts", len(data.Broadcasts),
		"messages", len(data.Messages),
		"enums", len(data.Enums))

	return []writer.File{
		{Path: AdapterPath, Content: adapter},
		{Path: LibraryPath(target.PluginName), Content: library},
	}, nil
}

func execute(name, text string, funcMap template.FuncMap, data any) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(funcMap).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}
