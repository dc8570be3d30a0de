// Package android renders the Flutter plugin class of the Android host.
package android

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"text/template"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
	"github.com/Alia5/klutter-gen/internal/codegen/writer"
)

// PluginPath is the plugin source relative to the plugin root.
func PluginPath(pkg, class string) string {
	return "android/src/main/kotlin/" + common.PackagePath(pkg) + "/" + class + ".kt"
}

type simpleView struct {
	*meta.SimpleController
	Field   string
	Handler string
}

type broadcastView struct {
	*meta.BroadcastController
	Field string
	Job   string
}

type pluginData struct {
	Package     string
	Class       string
	ChannelName string
	Imports     []string
	Primary     []meta.Method
	Simple      []simpleView
	Broadcasts  []broadcastView
	Encoder     bool
	Messages    []meta.Message
	Enums       []meta.Enum
}

func newPluginData(md *meta.Metadata, target common.Target) *pluginData {
	data := &pluginData{
		Package:     target.AndroidPackage,
		Class:       target.AndroidClass,
		ChannelName: md.ChannelName,
		Messages:    md.Messages,
		Enums:       md.Enums,
	}
	imports := map[string]bool{}
	for _, c := range md.Controllers {
		switch c := c.(type) {
		case *meta.SimpleController:
			if c.Annotated {
				data.Simple = append(data.Simple, simpleView{
					SimpleController: c,
					Field:            common.ToCamelCase(c.Name) + "Channel",
					Handler:          "on" + common.ToPascalCase(c.Name) + "Call",
				})
			} else {
				data.Primary = append(data.Primary, c.Methods...)
			}
			for _, m := range c.Methods {
				imports[m.Import] = true
				data.Encoder = data.Encoder || m.ReturnType.Custom
			}
		case *meta.BroadcastController:
			data.Broadcasts = append(data.Broadcasts, broadcastView{
				BroadcastController: c,
				Field:               common.ToCamelCase(c.Name) + "Channel",
				Job:                 common.ToCamelCase(c.Name) + "Job",
			})
			imports[c.Import] = true
			data.Encoder = data.Encoder || c.Response.Custom
		}
	}
	if data.Encoder {
		for _, m := range md.Messages {
			imports[qualified(m.Package, m.Name)] = true
		}
		for _, e := range md.Enums {
			imports[qualified(e.Package, e.Name)] = true
		}
	}
	for imp := range imports {
		if pkg := packageOf(imp); pkg == "" || pkg == target.AndroidPackage {
			continue
		}
		data.Imports = append(data.Imports, imp)
	}
	sort.Strings(data.Imports)
	return data
}

// Render produces the Android plugin class for md. md is expected to have
// passed validation.
func Render(logger *slog.Logger, md *meta.Metadata, target common.Target) ([]writer.File, error) {
	if target.PluginName == "" && target.AndroidPackage == "" {
		return nil, errors.New("android: plugin name or package is required")
	}
	target = target.WithDefaults()
	data := newPluginData(md, target)

	funcMap := template.FuncMap{
		"writeFileHeaderKotlin": writeFileHeaderKotlin,
		"kotlinString":          common.KotlinString,
		"encodeValue":           encodeValue,
		"wireLiteral":           wireLiteral,
	}
	tmpl, err := template.New("plugin").Funcs(funcMap).Parse(pluginTemplate + caseTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse plugin template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute plugin template: %w", err)
	}

	path := PluginPath(data.Package, data.Class)
	logger.Info("Rendered Android plugin",
		"file", path,
		"channels", len(data.Simple)+1,
		"broadcasts", len(data.Broadcasts))
	return []writer.File{{Path: path, Content: buf.Bytes()}}, nil
}
