// Package validator checks scanned metadata before anything is rendered and
// splits it into a valid and an invalid partition.
package validator

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
)

// reservedEnumMembers are static members every generated Dart enum class has.
var reservedEnumMembers = map[string]bool{
	"none":   true,
	"values": true,
	"string": true,
}

// responseClass is the Dart result wrapper emitted for every adapter.
const responseClass = "AdapterResponse"

// Diagnostic is one problem found in the metadata.
type Diagnostic struct {
	Subject string
	Pos     meta.Pos
	Err     error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %v", d.Pos, d.Subject, d.Err)
}

// Result is the outcome of Validate.
type Result struct {
	// Valid holds the controllers, messages and enums that passed every check.
	Valid   *meta.Metadata
	Invalid []Diagnostic
}

// OK reports whether nothing was rejected.
func (r *Result) OK() bool {
	return len(r.Invalid) == 0
}

type validation struct {
	md          *meta.Metadata
	generated   map[string]string // Dart class name -> what generates it
	known       map[string]bool
	diagnostics []Diagnostic
	badCtrl     map[meta.Controller]bool
	badMessage  map[int]bool
	badEnum     map[int]bool
}

// Validate runs every consistency check over md, assuming the default
// Dart adapter class name. md is not modified.
func Validate(logger *slog.Logger, md *meta.Metadata) *Result {
	return ValidateFor(logger, md, common.Target{})
}

// ValidateFor is Validate for the adapter names of target.
func ValidateFor(logger *slog.Logger, md *meta.Metadata, target common.Target) *Result {
	v := &validation{
		md:         md,
		generated:  generatedClasses(md, target.WithDefaults().DartClass),
		known:      md.KnownTypes(),
		badCtrl:    make(map[meta.Controller]bool),
		badMessage: make(map[int]bool),
		badEnum:    make(map[int]bool),
	}

	v.checkDuplicateTypes()
	v.checkMessages()
	v.checkEnums()
	v.checkControllers()
	v.checkCommands()
	v.checkAdapterMembers()

	sort.SliceStable(v.diagnostics, func(i, j int) bool {
		a, b := v.diagnostics[i].Pos, v.diagnostics[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	res := &Result{Valid: v.valid(), Invalid: v.diagnostics}
	logger.Debug("Validated metadata",
		"controllers", len(res.Valid.Controllers),
		"messages", len(res.Valid.Messages),
		"enums", len(res.Valid.Enums),
		"problems", len(res.Invalid))
	return res
}

// generatedClasses lists the Dart classes the adapter emits besides the
// messages and enums.
func generatedClasses(md *meta.Metadata, adapterClass string) map[string]string {
	out := map[string]string{
		responseClass: "the generated " + responseClass + " class",
		adapterClass:  "the generated adapter class",
	}
	for _, bc := range md.BroadcastControllers() {
		out[bc.Name+"Subscriber"] = "the generated subscriber widget of " + bc.Name
	}
	return out
}

func (v *validation) report(subject string, pos meta.Pos, err error) {
	v.diagnostics = append(v.diagnostics, Diagnostic{Subject: subject, Pos: pos, Err: err})
}

// checkType reports unresolved custom types and lists of nullable elements.
func (v *validation) checkType(ref meta.TypeRef, subject string, pos meta.Pos) bool {
	ok := true
	if ref.ElementNullable {
		v.report(subject, pos, &InvalidListNullabilityError{Type: ref.String(), Subject: subject})
		ok = false
	}
	if ref.Custom && !v.known[ref.Name] {
		v.report(subject, pos, &UnresolvedTypeError{Type: ref.Name, Subject: subject})
		ok = false
	}
	return ok
}

func (v *validation) checkDuplicateTypes() {
	type decl struct {
		pos     meta.Pos
		message int
		enum    int
	}
	byName := make(map[string][]decl)
	var order []string
	add := func(name string, d decl) {
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], d)
	}
	for i, m := range v.md.Messages {
		add(m.Name, decl{pos: m.Pos, message: i, enum: -1})
	}
	for i, e := range v.md.Enums {
		add(e.Name, decl{pos: e.Pos, message: -1, enum: i})
	}

	for _, name := range order {
		decls := byName[name]
		for i, d := range decls {
			subject := "type " + name
			var err error
			switch {
			case len(decls) > 1:
				var others []meta.Pos
				for j, o := range decls {
					if j != i {
						others = append(others, o.pos)
					}
				}
				err = &DuplicateTypeError{Name: name, Others: others}
			case v.generated[name] != "":
				err = &NameCollisionError{Name: name, With: v.generated[name]}
			case v.isPrimitiveName(name):
				err = &NameCollisionError{Name: name, With: "the built-in type " + name}
			default:
				continue
			}
			v.report(subject, d.pos, err)
			if d.message >= 0 {
				v.badMessage[d.message] = true
			} else {
				v.badEnum[d.enum] = true
			}
		}
	}
}

func (v *validation) isPrimitiveName(name string) bool {
	switch name {
	case "Boolean", "Double", "Int", "String":
		return true
	}
	return false
}

func (v *validation) checkMessages() {
	for i, m := range v.md.Messages {
		for _, f := range m.Fields {
			subject := fmt.Sprintf("field %s.%s", m.Name, f.Name)
			if !v.checkType(f.Type, subject, m.Pos) {
				v.badMessage[i] = true
			}
		}
	}
}

func (v *validation) checkEnums() {
	for i, e := range v.md.Enums {
		seen := make(map[string]string)
		for _, member := range e.Members {
			subject := fmt.Sprintf("enum member %s.%s", e.Name, member.Name)
			if !common.IsIdentifier(member.Name) {
				v.report(subject, e.Pos, &InvalidIdentifierError{Kind: "enum member", Name: member.Name})
				v.badEnum[i] = true
				continue
			}
			dartName := common.ToCamelCase(member.Name)
			if reservedEnumMembers[dartName] {
				v.report(subject, e.Pos, &NameCollisionError{Name: dartName, With: "a built-in member of enum " + e.Name})
				v.badEnum[i] = true
				continue
			}
			if other, dup := seen[dartName]; dup {
				v.report(subject, e.Pos, &NameCollisionError{Name: dartName, With: "enum member " + e.Name + "." + other})
				v.badEnum[i] = true
				continue
			}
			seen[dartName] = member.Name
		}
	}
}

func (v *validation) checkControllers() {
	for _, c := range v.md.Controllers {
		switch c := c.(type) {
		case *meta.SimpleController:
			for _, m := range c.Methods {
				subject := fmt.Sprintf("command %s (%s.%s)", m.Command, m.Owner, m.Function)
				if !common.IsIdentifier(m.Command) {
					v.report(subject, m.Pos, &InvalidIdentifierError{Kind: "command", Name: m.Command})
					v.badCtrl[c] = true
				}
				if !v.checkType(m.ReturnType, subject, m.Pos) {
					v.badCtrl[c] = true
				}
			}
		case *meta.BroadcastController:
			subject := "broadcast controller " + c.Name
			if !v.checkType(c.Response, subject, c.Pos) {
				v.badCtrl[c] = true
			}
		}
	}
}

func (v *validation) checkCommands() {
	type entry struct {
		ctrl   *meta.SimpleController
		method meta.Method
	}
	byChannel := make(map[string]map[string][]entry)
	for _, c := range v.md.SimpleControllers() {
		commands := byChannel[c.ChannelName]
		if commands == nil {
			commands = make(map[string][]entry)
			byChannel[c.ChannelName] = commands
		}
		for _, m := range c.Methods {
			commands[m.Command] = append(commands[m.Command], entry{ctrl: c, method: m})
		}
	}

	for channel, commands := range byChannel {
		for command, entries := range commands {
			if len(entries) < 2 {
				continue
			}
			for i, e := range entries {
				var others []meta.Pos
				for j, o := range entries {
					if j != i {
						others = append(others, o.method.Pos)
					}
				}
				subject := fmt.Sprintf("command %s (%s.%s)", command, e.method.Owner, e.method.Function)
				v.report(subject, e.method.Pos, &DuplicateCommandError{Command: command, Channel: channel, Others: others})
				v.badCtrl[e.ctrl] = true
			}
		}
	}
}

// checkAdapterMembers finds declarations that would produce the same static
// member of the Dart adapter class or the same controller channel.
func (v *validation) checkAdapterMembers() {
	type member struct {
		name    string
		ctrl    meta.Controller
		channel string
		subject string
		pos     meta.Pos
	}
	var getters, classes []member
	for _, c := range v.md.Controllers {
		classes = append(classes, member{
			name:    c.ControllerName(),
			ctrl:    c,
			subject: "controller " + c.ControllerName(),
			pos:     c.Position(),
		})
		switch c := c.(type) {
		case *meta.SimpleController:
			for _, m := range c.Methods {
				getters = append(getters, member{
					name:    m.Command,
					ctrl:    c,
					channel: c.ChannelName,
					subject: fmt.Sprintf("command %s (%s.%s)", m.Command, m.Owner, m.Function),
					pos:     m.Pos,
				})
			}
		case *meta.BroadcastController:
			getters = append(getters, member{
				name:    common.ToCamelCase(c.Name),
				ctrl:    c,
				channel: "broadcast " + c.Name,
				subject: "broadcast controller " + c.Name,
				pos:     c.Pos,
			})
		}
	}

	// Controllers with the same name clash on their derived channel and on
	// the generated imports, wherever they are declared.
	for i, m := range classes {
		for j, other := range classes {
			if i == j || m.name != other.name {
				continue
			}
			v.report(m.subject, m.pos, &NameCollisionError{Name: m.name, With: "controller " + other.name + " at " + other.pos.String()})
			v.badCtrl[m.ctrl] = true
			break
		}
	}

	// Getters with the same name on one channel are duplicate commands,
	// already reported above.
	for i, m := range getters {
		for j, other := range getters {
			if i == j || m.name != other.name || m.channel == other.channel {
				continue
			}
			v.report(m.subject, m.pos, &NameCollisionError{Name: m.name, With: other.subject + " at " + other.pos.String()})
			v.badCtrl[m.ctrl] = true
			break
		}
	}
}

func (v *validation) valid() *meta.Metadata {
	out := &meta.Metadata{
		ChannelName: v.md.ChannelName,
		Files:       v.md.Files,
	}
	for _, c := range v.md.Controllers {
		if !v.badCtrl[c] {
			out.Controllers = append(out.Controllers, c)
		}
	}
	for i, m := range v.md.Messages {
		if !v.badMessage[i] {
			out.Messages = append(out.Messages, m)
		}
	}
	for i, e := range v.md.Enums {
		if !v.badEnum[i] {
			out.Enums = append(out.Enums, e)
		}
	}
	return out
}
