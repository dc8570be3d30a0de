// Package typemap maps the primitive types that can cross the method channel
// between Kotlin and Dart.
package typemap

import "strings"

// Primitive is one row of the Kotlin <-> Dart primitive table.
type Primitive struct {
	Kotlin string // e.g. "Int"
	Dart   string // e.g. "int"
	// Cast coerces a dynamically typed decoded JSON value into the Dart type.
	Cast string
}

var (
	Boolean = Primitive{Kotlin: "Boolean", Dart: "bool", Cast: ""}
	Double  = Primitive{Kotlin: "Double", Dart: "double", Cast: ".toDouble()"}
	Integer = Primitive{Kotlin: "Int", Dart: "int", Cast: ".toInt()"}
	String  = Primitive{Kotlin: "String", Dart: "String", Cast: ".toString()"}
)

// All lists the supported primitives in a stable order.
var All = []Primitive{Boolean, Double, Integer, String}

var byName = func() map[string]Primitive {
	m := make(map[string]Primitive, len(All)*2)
	for _, p := range All {
		m[p.Kotlin] = p
		m[p.Dart] = p
	}
	return m
}()

// Lookup finds the primitive for a Kotlin or Dart type name. Qualified names
// such as "kotlin.String" are reduced to their last segment. ok is false when
// the name is not a primitive, which callers treat as a custom type.
func Lookup(name string) (p Primitive, ok bool) {
	p, ok = byName[baseName(name)]
	return
}

// IsPrimitive reports whether name is one of the four primitives.
func IsPrimitive(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Dart returns the Dart counterpart of name, or name itself for custom types.
func Dart(name string) string {
	if p, ok := Lookup(name); ok {
		return p.Dart
	}
	return baseName(name)
}

// Kotlin returns the Kotlin counterpart of name, or name itself for custom types.
func Kotlin(name string) string {
	if p, ok := Lookup(name); ok {
		return p.Kotlin
	}
	return baseName(name)
}

// CastSuffix returns the Dart cast suffix for a primitive and "" otherwise.
func CastSuffix(name string) string {
	if p, ok := Lookup(name); ok {
		return p.Cast
	}
	return ""
}

func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
