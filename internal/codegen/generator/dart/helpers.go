package dart

import (
	"fmt"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
	"github.com/Alia5/klutter-gen/internal/codegen/typemap"
)

// dartType renders ref as a Dart type, e.g. "List<int>?".
func dartType(ref meta.TypeRef) string {
	t := typemap.Dart(ref.Name)
	if ref.List {
		t = "List<" + t + ">"
	}
	if ref.Nullable {
		t += "?"
	}
	return t
}

// decode converts the dynamically typed JSON value src into ref.
//
//	primitive          json.toInt()
//	primitive?         json?.toInt()
//	List<primitive>    List<int>.from(json.map((o) => o.toInt()))
//	List<primitive>?   json == null ? null : List<int>.from(...)
//	Custom             Custom.fromJson(json)
//	Custom?            json == null ? null : Custom.fromJson(json)
//	List<Custom>       List<Custom>.from(json.map((o) => Custom.fromJson(o)))
//	List<Custom>?      json == null ? null : List<Custom>.from(...)
func decode(ref meta.TypeRef, src string) string {
	if !ref.List {
		if !ref.Custom && ref.Nullable {
			cast := typemap.CastSuffix(ref.Name)
			if cast == "" {
				return src
			}
			return src + "?" + cast
		}
		return nullGuard(ref, src, decodeElement(ref, src))
	}
	elem := typemap.Dart(ref.Name)
	var expr string
	if !ref.Custom && typemap.CastSuffix(ref.Name) == "" {
		expr = fmt.Sprintf("List<%s>.from(%s)", elem, src)
	} else {
		expr = fmt.Sprintf("List<%s>.from(%s.map((o) => %s))", elem, src, decodeElement(ref, "o"))
	}
	return nullGuard(ref, src, expr)
}

func decodeElement(ref meta.TypeRef, src string) string {
	if ref.Custom {
		return fmt.Sprintf("%s.fromJson(%s)", typemap.Dart(ref.Name), src)
	}
	return src + typemap.CastSuffix(ref.Name)
}

func nullGuard(ref meta.TypeRef, src, expr string) string {
	if !ref.Nullable {
		return expr
	}
	return fmt.Sprintf("%s == null ? null : %s", src, expr)
}

// encode converts the field name of type ref into a JSON-encodable value.
func encode(ref meta.TypeRef, name string) string {
	if !ref.Custom {
		return name
	}
	q := ""
	if ref.Nullable {
		q = "?"
	}
	if ref.List {
		return fmt.Sprintf("%s%s.map((o) => o.toJson()).toList()", name, q)
	}
	return fmt.Sprintf("%s%s.toJson()", name, q)
}

// jsonKey indexes the decoded JSON object of a message.
func jsonKey(name string) string {
	return "json[" + common.DartString(name) + "]"
}

// orderedFields puts required fields before optional ones, keeping
// declaration order within each group.
func orderedFields(fields []meta.Field) []meta.Field {
	out := make([]meta.Field, 0, len(fields))
	for _, f := range fields {
		if !f.Optional() {
			out = append(out, f)
		}
	}
	for _, f := range fields {
		if f.Optional() {
			out = append(out, f)
		}
	}
	return out
}

func channelField(controller string) string {
	return "_" + common.ToCamelCase(controller) + "Channel"
}

func memberName(name string) string {
	return common.ToCamelCase(name)
}

func writeFileHeaderDart() string { return common.FileHeader("//", "Dart") }
