package meta

import (
	"fmt"
	"strings"
)

// Metadata holds everything scanned in one generation run.
// Shared between the generator orchestrator, the validator and the renderers.
type Metadata struct {
	ChannelName string       `json:"channelName"` // primary method channel, e.g. "my_plugin.klutter"
	Controllers []Controller `json:"controllers"`
	Messages    []Message    `json:"messages"`
	Enums       []Enum       `json:"enums"`
	Files       []string     `json:"files"` // scanned source files
}

// Pos is a location in a scanned source file.
type Pos struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// TypeRef is a normalized type reference.
type TypeRef struct {
	Name            string `json:"name"`            // Kotlin primitive name or custom class name
	Nullable        bool   `json:"nullable"`        // T? or List<T>?
	List            bool   `json:"list"`            // List<T>
	ElementNullable bool   `json:"elementNullable"` // List<T?>, always rejected
	Custom          bool   `json:"custom"`          // not one of the primitives
	Raw             string `json:"raw"`             // type as written in source
}

func (t TypeRef) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	var b strings.Builder
	if t.List {
		b.WriteString("List<")
		b.WriteString(t.Name)
		if t.ElementNullable {
			b.WriteByte('?')
		}
		b.WriteByte('>')
	} else {
		b.WriteString(t.Name)
	}
	if t.Nullable {
		b.WriteByte('?')
	}
	return b.String()
}

// ReceiverKind tells how Kotlin code obtains the instance methods are
// called on. Swift sees each kind under a different expression.
type ReceiverKind string

const (
	ReceiverClass     ReceiverKind = "class"     // Path()
	ReceiverObject    ReceiverKind = "object"    // object declaration Path
	ReceiverCompanion ReceiverKind = "companion" // companion object of Path
)

// Receiver is the declaration a Method is called on, or a broadcast
// controller is read from.
type Receiver struct {
	Kind ReceiverKind `json:"kind"`
	Path string       `json:"path"` // dotted class path, the outer class for companions
}

// Method is one backend function exposed over a method channel.
type Method struct {
	Command                 string   `json:"command"`        // method-channel method name
	Import                  string   `json:"import"`         // e.g. "com.example.Greeting"
	CallExpression          string   `json:"callExpression"` // e.g. "Greeting().greeting()"
	Async                   bool     `json:"async"`
	ReturnType              TypeRef  `json:"returnType"`
	RequiresPlatformContext bool     `json:"requiresPlatformContext"`
	Receiver                Receiver `json:"receiver"`
	Owner                   string   `json:"owner"`    // enclosing class name
	Function                string   `json:"function"` // Kotlin function name
	Pos                     Pos      `json:"pos"`
}

// Controller is either a *SimpleController or a *BroadcastController.
// The set of implementations is closed; renderers switch over it.
type Controller interface {
	ControllerName() string
	Channel() string
	Position() Pos
	controller()
}

// SimpleController groups request/response methods served on one method channel.
type SimpleController struct {
	Name    string   `json:"name"`
	Package string   `json:"package"`
	Import  string   `json:"import"`
	Methods []Method `json:"methods"`
	// Annotated is true for @Controller classes. Classes that only carry
	// @KlutterAdaptee functions share the primary channel.
	Annotated   bool   `json:"annotated"`
	ChannelName string `json:"channelName"`
	Pos         Pos    `json:"pos"`
}

func (c *SimpleController) ControllerName() string { return c.Name }
func (c *SimpleController) Channel() string        { return c.ChannelName }
func (c *SimpleController) Position() Pos          { return c.Pos }
func (*SimpleController) controller()              {}

// BroadcastController publishes a continuous stream of Response values on an
// event channel.
type BroadcastController struct {
	Name        string   `json:"name"`
	Package     string   `json:"package"`
	Import      string   `json:"import"`
	Instance    string   `json:"instance"` // e.g. "Counter()" or "Counter" for objects
	Receiver    Receiver `json:"receiver"`
	Response    TypeRef  `json:"response"`
	ChannelName string   `json:"channelName"`
	Pos         Pos      `json:"pos"`
}

func (c *BroadcastController) ControllerName() string { return c.Name }
func (c *BroadcastController) Channel() string        { return c.ChannelName }
func (c *BroadcastController) Position() Pos          { return c.Pos }
func (*BroadcastController) controller()              {}

// Field is one property of a Message.
type Field struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Optional reports whether the field may be omitted (nullable in Kotlin).
func (f Field) Optional() bool { return f.Type.Nullable }

// Message is a data class crossing the wire as JSON.
type Message struct {
	Name    string  `json:"name"`
	Package string  `json:"package"`
	Fields  []Field `json:"fields"`
	Pos     Pos     `json:"pos"`
}

// EnumMember is one enum constant and its serialized value.
type EnumMember struct {
	Name      string `json:"name"`
	WireValue string `json:"wireValue"`
}

// Enum is an enumeration crossing the wire as its wire value string.
type Enum struct {
	Name    string       `json:"name"`
	Package string       `json:"package"`
	Members []EnumMember `json:"members"`
	Pos     Pos          `json:"pos"`
}

// Merge appends the declarations of other to md.
func (md *Metadata) Merge(other *Metadata) {
	if other == nil {
		return
	}
	md.Controllers = append(md.Controllers, other.Controllers...)
	md.Messages = append(md.Messages, other.Messages...)
	md.Enums = append(md.Enums, other.Enums...)
	md.Files = append(md.Files, other.Files...)
}

// KnownTypes returns the names of all Messages and Enums.
func (md *Metadata) KnownTypes() map[string]bool {
	known := make(map[string]bool, len(md.Messages)+len(md.Enums))
	for _, m := range md.Messages {
		known[m.Name] = true
	}
	for _, e := range md.Enums {
		known[e.Name] = true
	}
	return known
}

// IsEnum reports whether name is a known Enum.
func (md *Metadata) IsEnum(name string) bool {
	for _, e := range md.Enums {
		if e.Name == name {
			return true
		}
	}
	return false
}

// SimpleControllers returns the request/response controllers in scan order.
func (md *Metadata) SimpleControllers() []*SimpleController {
	var out []*SimpleController
	for _, c := range md.Controllers {
		if sc, ok := c.(*SimpleController); ok {
			out = append(out, sc)
		}
	}
	return out
}

// BroadcastControllers returns the broadcast controllers in scan order.
func (md *Metadata) BroadcastControllers() []*BroadcastController {
	var out []*BroadcastController
	for _, c := range md.Controllers {
		if bc, ok := c.(*BroadcastController); ok {
			out = append(out, bc)
		}
	}
	return out
}

// Methods returns every method of every simple controller in scan order.
func (md *Metadata) Methods() []Method {
	var out []Method
	for _, c := range md.SimpleControllers() {
		out = append(out, c.Methods...)
	}
	return out
}
