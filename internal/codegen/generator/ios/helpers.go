package ios

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

// swiftReceiver is the Swift expression Kotlin/Native exports for r:
// "Greeting()", "Registry.shared" or "Outer.companion".
func swiftReceiver(r meta.Receiver) string {
	switch r.Kind {
	case meta.ReceiverObject:
		return r.Path + ".shared"
	case meta.ReceiverCompanion:
		return r.Path + ".companion"
	default:
		return r.Path + "()"
	}
}

// swiftCall is the Swift form of m's call expression.
func swiftCall(m meta.Method) string {
	args := ""
	if m.RequiresPlatformContext {
		args = "context"
	}
	return swiftReceiver(m.Receiver) + "." + m.Function + "(" + args + ")"
}

// completionCall opens the completion handler form of a suspend call:
// "Greeting().greet(context)" becomes "Greeting().greet(context, completionHandler: ".
func completionCall(call string) string {
	call = strings.TrimSuffix(call, ")")
	if strings.HasSuffix(call, "(") {
		return call + "completionHandler: "
	}
	return call + ", completionHandler: "
}

// wireLiteral is the Swift literal of an enum's JSON form, e.g. "\"bla\"".
func wireLiteral(wire string) string {
	return common.SwiftString(common.JSONString(wire))
}

// memberName is the Swift name Kotlin/Native gives an enum entry.
func memberName(name string) string {
	return common.ToCamelCase(name)
}

func writeFileHeaderSwift() string { return common.FileHeader("//", "Swift") }
