// Package ios renders the Flutter plugin class of the iOS host.
package ios

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

// PluginPath is the plugin source relative to the plugin root.
func PluginPath(class string) string {
	return "ios/Classes/" + class + ".swift"
}

type simpleView struct {
	*meta.SimpleController
	Field    string
	Dispatch string
}

type broadcastView struct {
	*meta.BroadcastController
	Field       string
	Handler     string
	HandlerType string
}

type pluginData struct {
	Class       string
	Framework   string
	ChannelName string
	Primary     []meta.Method
	Simple      []simpleView
	Broadcasts  []broadcastView
	Encoder     bool
	Messages    []meta.Message
	Enums       []meta.Enum
}

func newPluginData(md *meta.Metadata, target common.Target) *pluginData {
	data := &pluginData{
		Class:       target.IOSClass,
		Framework:   target.IOSFramework,
		ChannelName: md.ChannelName,
		Messages:    md.Messages,
		Enums:       md.Enums,
	}
	for _, c := range md.Controllers {
		switch c := c.(type) {
		case *meta.SimpleController:
			if c.Annotated {
				data.Simple = append(data.Simple, simpleView{
					SimpleController: c,
					Field:            common.ToCamelCase(c.Name) + "Channel",
					Dispatch:         "handle" + common.ToPascalCase(c.Name),
				})
			} else {
				data.Primary = append(data.Primary, c.Methods...)
			}
			for _, m := range c.Methods {
				data.Encoder = data.Encoder || m.ReturnType.Custom
			}
		case *meta.BroadcastController:
			data.Broadcasts = append(data.Broadcasts, broadcastView{
				BroadcastController: c,
				Field:               common.ToCamelCase(c.Name) + "Channel",
				Handler:             common.ToCamelCase(c.Name) + "Handler",
				HandlerType:         common.ToPascalCase(c.Name) + "StreamHandler",
			})
			data.Encoder = data.Encoder || c.Response.Custom
		}
	}
	return data
}

// Render produces the iOS plugin class for md. md is expected to have passed
// validation.
func Render(logger *slog.Logger, md *meta.Metadata, target common.Target) ([]writer.File, error) {
	if target.PluginName == "" && target.IOSClass == "" {
		return nil, errors.New("ios: plugin name or class is required")
	}
	target = target.WithDefaults()
	data := newPluginData(md, target)

	funcMap := template.FuncMap{
		"writeFileHeaderSwift": writeFileHeaderSwift,
		"swiftString":          common.SwiftString,
		"encodeValue":          encodeValue,
		"completionCall":       completionCall,
		"swiftCall":            swiftCall,
		"swiftReceiver":        swiftReceiver,
		"wireLiteral":          wireLiteral,
		"memberName":           memberName,
	}
	tmpl, err := template.New("plugin").Funcs(funcMap).Parse(pluginTemplate + caseTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse plugin template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute plugin template: %w", err)
	}

	path := PluginPath(data.Class)
	logger.Info("Rendered iOS plugin",
		"file", path,
		"channels", len(data.Simple)+1,
		"broadcasts", len(data.Broadcasts))
	return []writer.File{{Path: path, Content: buf.Bytes()}}, nil
}
