package dart

import (
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
	fixtures "github.com/Alia5/klutter-gen/internal/testing"
)

func renderAdapter(t *testing.T, md *meta.Metadata) string {
	t.Helper()
	files, err := Render(slog.Default(), md, fixtures.ExampleTarget())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, AdapterPath, files[0].Path)
	return string(files[0].Content)
}

// classBody returns the source of the named top-level Dart class.
func classBody(t *testing.T, src, name string) string {
	t.Helper()
	start := strings.Index(src, "\nclass "+name+" {")
	require.NotEqual(t, -1, start, "class %s not rendered", name)
	end := strings.Index(src[start:], "\n}\n")
	require.NotEqual(t, -1, end)
	return src[start : start+end+3]
}

func TestRenderDoFooBar(t *testing.T) {
	out := renderAdapter(t, fixtures.ExampleMetadata())

	assert.Contains(t, out, "static const MethodChannel _channel = MethodChannel('com.example.my_plugin');")
	assert.Contains(t, out, `  static Future<AdapterResponse<String>> get doFooBar async {
    try {
      final json = await _channel.invokeMethod('doFooBar');
      return AdapterResponse.success(json.toString());
    } catch (e) {
      return AdapterResponse.failure(_toException(e));
    }
  }`)
}

func TestRenderMethodShapes(t *testing.T) {
	out := renderAdapter(t, fixtures.ExampleMetadata())

	assert.Contains(t, out, "static const MethodChannel _mySimpleControllerChannel = MethodChannel('com.example.my_plugin/channel/my_simple_controller');")
	assert.Contains(t, out, "get greetWithContext async")
	assert.Contains(t, out, "AdapterResponse.success(json?.toString())")
	assert.Contains(t, out, `      final json = await _mySimpleControllerChannel.invokeMethod('foo');
      return AdapterResponse.success(List<int>.from(json.map((o) => o.toInt())));`)
	assert.Contains(t, out, `      final response = await _mySimpleControllerChannel.invokeMethod('getChakka');
      final json = jsonDecode(response);
      return AdapterResponse.success(MyResponse.fromJson(json));`)
	assert.Contains(t, out, "static Future<AdapterResponse<List<SomeValue>?>> get someValues async")
	assert.Contains(t, out, "final json = response == null ? null : jsonDecode(response);")
	assert.Contains(t, out, "json == null ? null : List<SomeValue>.from(json.map((o) => SomeValue.fromJson(o)))")
}

func TestRenderMessageOrdering(t *testing.T) {
	out := renderAdapter(t, fixtures.ExampleMetadata())
	body := classBody(t, out, "MyResponse")

	assert.Contains(t, body, `  MyResponse({
    required this.y,
    required this.tags,
    required this.children,
    this.x,
    this.value,
  });`)
	assert.Contains(t, body, "      y: json['y'].toInt(),")
	assert.Contains(t, body, "      x: json['x']?.toString(),")
	assert.Contains(t, body, "      'x': x,")
	assert.Contains(t, body, "      'y': y,")
	assert.Contains(t, body, "  final int y;")
	assert.Contains(t, body, "  final String? x;")
	assert.Less(t, strings.Index(body, "final int y;"), strings.Index(body, "final String? x;"))

	child := classBody(t, out, "Child")
	assert.Contains(t, child, "      flag: json['flag'],")
	assert.Contains(t, child, "      ratio: json['ratio']?.toDouble(),")
}

var (
	fromJSONEntry = regexp.MustCompile(`(?m)^      (\w+): (.+),$`)
	toJSONEntry   = regexp.MustCompile(`(?m)^      '(\w+)': (.+),$`)
)

func TestRenderMessageRoundTripKeys(t *testing.T) {
	md := fixtures.ExampleMetadata()
	out := renderAdapter(t, md)

	for _, msg := range md.Messages {
		t.Run(msg.Name, func(t *testing.T) {
			body := classBody(t, out, msg.Name)
			split := strings.Index(body, "toJson()")
			require.NotEqual(t, -1, split)

			decoders := map[string]string{}
			for _, m := range fromJSONEntry.FindAllStringSubmatch(body[:split], -1) {
				decoders[m[1]] = m[2]
			}
			encoders := map[string]string{}
			for _, m := range toJSONEntry.FindAllStringSubmatch(body[split:], -1) {
				encoders[m[1]] = m[2]
			}
			require.Len(t, decoders, len(msg.Fields))
			require.Len(t, encoders, len(msg.Fields))

			for _, f := range msg.Fields {
				dec, ok := decoders[f.Name]
				require.True(t, ok, "fromJson misses %s", f.Name)
				enc, ok := encoders[f.Name]
				require.True(t, ok, "toJson misses %s", f.Name)

				assert.Contains(t, dec, "json['"+f.Name+"']")
				assert.True(t, strings.HasPrefix(enc, f.Name), "toJson of %s reads %q", f.Name, enc)
				assert.Equal(t, strings.Contains(dec, ".fromJson("), strings.Contains(enc, ".toJson()"),
					"codec shape of %s: %q / %q", f.Name, dec, enc)
				assert.Equal(t, f.Optional(), strings.Contains(dec, "null") || strings.Contains(dec, "?."),
					"nullability of %s: %q", f.Name, dec)
			}
		})
	}
}

func TestRenderEnumCodec(t *testing.T) {
	md := fixtures.ExampleMetadata()
	out := renderAdapter(t, md)
	body := classBody(t, out, "SomeValue")

	for _, m := range md.Enums[0].Members {
		member := common.ToCamelCase(m.Name)
		assert.Contains(t, body, "  static const "+member+" = SomeValue._('"+m.WireValue+"');")
		assert.Contains(t, body, "      case '"+m.WireValue+"':\n        return SomeValue."+member+";")
		assert.Contains(t, body, "      case SomeValue."+member+":\n        return '"+m.WireValue+"';")
	}
	assert.Contains(t, body, "  static const none = SomeValue._('none');")
	assert.Contains(t, body, "  static const values = [bla, die, blabla];")
	assert.Contains(t, body, "      default:\n        return SomeValue.none;")
	assert.Contains(t, body, "      default:\n        return null;")
}

func TestRenderBroadcasts(t *testing.T) {
	out := renderAdapter(t, fixtures.ExampleMetadata())

	assert.Contains(t, out, "import 'package:flutter/widgets.dart';")
	assert.Contains(t, out, "static const EventChannel _myBroadcastControllerChannel = EventChannel('com.example.my_plugin/channel/my_broadcast_controller');")
	assert.Contains(t, out, "static Stream<AdapterResponse<MyResponse>> get myBroadcastController {")
	assert.Contains(t, out, "static Stream<AdapterResponse<int>> get counter {")
	assert.Contains(t, out, `        final json = response;
        return AdapterResponse.success(json.toInt());`)
	assert.Contains(t, out, "class MyBroadcastControllerSubscriber extends StatefulWidget {")
	assert.Contains(t, out, "_subscription = Adapter.counter.listen((response) {")
}

func TestRenderWithoutBroadcasts(t *testing.T) {
	md := fixtures.ExampleMetadata()
	md.Controllers = []meta.Controller{md.SimpleControllers()[0]}

	out := renderAdapter(t, md)
	assert.NotContains(t, out, "package:flutter/widgets.dart")
	assert.NotContains(t, out, "EventChannel")
	assert.NotContains(t, out, "_mySimpleControllerChannel")
}

func TestRenderEmptyMessage(t *testing.T) {
	md := &meta.Metadata{
		ChannelName: fixtures.ExampleChannel,
		Messages:    []meta.Message{{Name: "Empty"}},
	}
	out := renderAdapter(t, md)
	body := classBody(t, out, "Empty")
	assert.Contains(t, body, "  Empty();")
	assert.NotContains(t, out, "_channel")
}

func TestRenderLibrary(t *testing.T) {
	files, err := Render(slog.Default(), fixtures.ExampleMetadata(), fixtures.ExampleTarget())
	require.NoError(t, err)

	lib := files[1]
	assert.Equal(t, "lib/my_plugin.dart", lib.Path)
	assert.Contains(t, string(lib.Content), "DO NOT EDIT")
	assert.Contains(t, string(lib.Content), "library my_plugin;\n\nexport 'src/adapter.dart';\n")
}

func TestRenderCustomClassName(t *testing.T) {
	target := fixtures.ExampleTarget()
	target.DartClass = "MyPluginAdapter"
	files, err := Render(slog.Default(), fixtures.ExampleMetadata(), target)
	require.NoError(t, err)

	out := string(files[0].Content)
	assert.Contains(t, out, "class MyPluginAdapter {")
	assert.Contains(t, out, "MyPluginAdapter.counter.listen(")
}

func TestRenderRequiresPluginName(t *testing.T) {
	_, err := Render(slog.Default(), fixtures.ExampleMetadata(), common.Target{})
	assert.Error(t, err)
}

func TestDecodeShapes(t *testing.T) {
	tests := []struct {
		name string
		ref  meta.TypeRef
		want string
	}{
		{"primitive", meta.TypeRef{Name: "Int"}, "json.toInt()"},
		{"optional primitive", meta.TypeRef{Name: "Double", Nullable: true}, "json?.toDouble()"},
		{"optional bool", meta.TypeRef{Name: "Boolean", Nullable: true}, "json"},
		{"primitive list", meta.TypeRef{Name: "String", List: true}, "List<String>.from(json.map((o) => o.toString()))"},
		{"bool list", meta.TypeRef{Name: "Boolean", List: true}, "List<bool>.from(json)"},
		{"optional primitive list", meta.TypeRef{Name: "Int", List: true, Nullable: true}, "json == null ? null : List<int>.from(json.map((o) => o.toInt()))"},
		{"custom", meta.TypeRef{Name: "Foo", Custom: true}, "Foo.fromJson(json)"},
		{"optional custom", meta.TypeRef{Name: "Foo", Custom: true, Nullable: true}, "json == null ? null : Foo.fromJson(json)"},
		{"custom list", meta.TypeRef{Name: "Foo", Custom: true, List: true}, "List<Foo>.from(json.map((o) => Foo.fromJson(o)))"},
		{"optional custom list", meta.TypeRef{Name: "Foo", Custom: true, List: true, Nullable: true}, "json == null ? null : List<Foo>.from(json.map((o) => Foo.fromJson(o)))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decode(tt.ref, "json"))
		})
	}
}

func TestEncodeShapes(t *testing.T) {
	assert.Equal(t, "x", encode(meta.TypeRef{Name: "String", Nullable: true}, "x"))
	assert.Equal(t, "tags", encode(meta.TypeRef{Name: "String", List: true}, "tags"))
	assert.Equal(t, "value.toJson()", encode(meta.TypeRef{Name: "Foo", Custom: true}, "value"))
	assert.Equal(t, "value?.toJson()", encode(meta.TypeRef{Name: "Foo", Custom: true, Nullable: true}, "value"))
	assert.Equal(t, "items?.map((o) => o.toJson()).toList()", encode(meta.TypeRef{Name: "Foo", Custom: true, List: true, Nullable: true}, "items"))
}
