package android

import (
	"strings"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
)

// encodeValue passes primitives through and JSON-encodes custom types.
func encodeValue(ref meta.TypeRef, name string) string {
	if ref.Custom {
		return "encodeKJson(" + name + ")"
	}
	return name
}

// wireLiteral is the Kotlin literal of an enum's JSON form, e.g. "\"bla\"".
func wireLiteral(wire string) string {
	return common.KotlinString(common.JSONString(wire))
}

func qualified(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func packageOf(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[:i]
	}
	return ""
}

func writeFileHeaderKotlin() string { return common.FileHeader("//", "Kotlin") }
