package ios

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/klutter-gen/internal/codegen/common"
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
	fixtures "github.com/Alia5/klutter-gen/internal/testing"
)

func renderPlugin(t *testing.T, md *meta.Metadata) string {
	t.Helper()
	files, err := Render(slog.Default(), md, fixtures.ExampleTarget())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "ios/Classes/MyPluginPlugin.swift", files[0].Path)
	return string(files[0].Content)
}

func TestRenderDoFooBar(t *testing.T) {
	out := renderPlugin(t, fixtures.ExampleMetadata())

	assert.Contains(t, out, `        case "doFooBar":
            let value = Greeting().doFooBar()
            result(value)`)
}

func TestRenderPluginStructure(t *testing.T) {
	out := renderPlugin(t, fixtures.ExampleMetadata())

	assert.True(t, strings.HasPrefix(out, "// Code generated by klutter-gen"))
	assert.Contains(t, out, "import Flutter\nimport UIKit\nimport Platform\n")
	assert.Contains(t, out, "public class MyPluginPlugin: NSObject, FlutterPlugin {")
	assert.Contains(t, out, `let channel = FlutterMethodChannel(name: "com.example.my_plugin", binaryMessenger: messenger)`)
	assert.Contains(t, out, `let mySimpleControllerChannel = FlutterMethodChannel(name: "com.example.my_plugin/channel/my_simple_controller", binaryMessenger: messenger)`)
	assert.Contains(t, out, "mySimpleControllerChannel.setMethodCallHandler(instance.handleMySimpleController)")
	assert.Contains(t, out, "private func handleMySimpleController(_ call: FlutterMethodCall, result: @escaping FlutterResult) {")
	assert.Equal(t, 2, strings.Count(out, "result(FlutterMethodNotImplemented)"))
	assert.Contains(t, out, "registrar.publish(instance)")
	assert.Contains(t, out, "public func detachFromEngine(for registrar: FlutterPluginRegistrar) {")
}

func TestRenderAsyncAndContext(t *testing.T) {
	out := renderPlugin(t, fixtures.ExampleMetadata())

	assert.Contains(t, out, `        case "greetWithContext":
            let context = UIApplication.shared
            Greeting().greet(context, completionHandler: { value, error in
                DispatchQueue.main.async {
                    if let error = error {
                        result(FlutterError(code: "greetWithContext", message: error.localizedDescription, details: nil))
                    } else {
                        result(value)
                    }
                }
            })`)
	assert.Contains(t, out, "MySimpleController().chakka(completionHandler: { value, error in")
	assert.Contains(t, out, "result(encodeKJson(value))")
}

func TestRenderBroadcastHandlers(t *testing.T) {
	out := renderPlugin(t, fixtures.ExampleMetadata())

	assert.Contains(t, out, "private let counterHandler = CounterStreamHandler()")
	assert.Contains(t, out, `let counterChannel = FlutterEventChannel(name: "com.example.my_plugin/channel/counter", binaryMessenger: messenger)`)
	assert.Contains(t, out, "counterChannel.setStreamHandler(instance.counterHandler)")
	assert.Contains(t, out, "private class CounterStreamHandler: NSObject, FlutterStreamHandler {")
	assert.Contains(t, out, "subscription = Counter.shared.receiveBroadcastIOS().collect(onEach: { value in")
	assert.Contains(t, out, "events(value)")
	assert.Contains(t, out, "events(encodeKJson(value))")
	assert.Contains(t, out, "        counterHandler.cancel()\n        counterChannel?.setStreamHandler(nil)")
}

func TestRenderEncoder(t *testing.T) {
	out := renderPlugin(t, fixtures.ExampleMetadata())

	assert.Contains(t, out, "private func encodeKJson(_ value: Any?) -> String? {")
	assert.Contains(t, out, "    case let v as MyResponse:\n        return v.toKJson()")
	assert.Contains(t, out, "        case SomeValue.bla:\n            return \"\\\"bla\\\"\"")
	assert.Contains(t, out, "        case SomeValue.blabla:\n            return \"\\\"BLABLA\\\"\"")
	assert.Contains(t, out, `return "[" + v.map { encodeKJson($0) ?? "null" }.joined(separator: ",") + "]"`)
}

func TestRenderPrimitivesOnly(t *testing.T) {
	md := &meta.Metadata{
		ChannelName: fixtures.ExampleChannel,
		Controllers: []meta.Controller{fixtures.ExampleMetadata().SimpleControllers()[0]},
	}
	out := renderPlugin(t, md)

	assert.NotContains(t, out, "encodeKJson")
	assert.NotContains(t, out, "FlutterEventChannel")
	assert.NotContains(t, out, "StreamHandler")
}

func TestRenderCustomFramework(t *testing.T) {
	target := fixtures.ExampleTarget()
	target.IOSFramework = "Shared"
	target.IOSClass = "SwiftMyPlugin"
	files, err := Render(slog.Default(), fixtures.ExampleMetadata(), target)
	require.NoError(t, err)

	assert.Equal(t, "ios/Classes/SwiftMyPlugin.swift", files[0].Path)
	assert.Contains(t, string(files[0].Content), "import Shared\n")
	assert.Contains(t, string(files[0].Content), "let instance = SwiftMyPlugin()")
}

func TestRenderRequiresTarget(t *testing.T) {
	_, err := Render(slog.Default(), fixtures.ExampleMetadata(), common.Target{})
	assert.Error(t, err)
}

func TestCompletionCall(t *testing.T) {
	assert.Equal(t, "Greeting().greeting(completionHandler: ", completionCall("Greeting().greeting()"))
	assert.Equal(t, "Greeting().greet(context, completionHandler: ", completionCall("Greeting().greet(context)"))
}

func TestRenderSingletonReceivers(t *testing.T) {
	str := meta.TypeRef{Name: "String", Raw: "String"}
	md := &meta.Metadata{
		ChannelName: fixtures.ExampleChannel,
		Controllers: []meta.Controller{
			&meta.SimpleController{
				Name:    "Registry",
				Package: "com.example",
				Methods: []meta.Method{
					{
						Command:        "lookup",
						CallExpression: "Registry.lookup()",
						ReturnType:     str,
						Receiver:       meta.Receiver{Kind: meta.ReceiverObject, Path: "Registry"},
						Function:       "lookup",
					},
					{
						Command:        "create",
						CallExpression: "Factory.create()",
						Async:          true,
						ReturnType:     str,
						Receiver:       meta.Receiver{Kind: meta.ReceiverCompanion, Path: "Factory"},
						Function:       "create",
					},
				},
				Annotated:   true,
				ChannelName: common.ControllerChannel(fixtures.ExampleChannel, "Registry"),
			},
			&meta.BroadcastController{
				Name:        "Ticker",
				Package:     "com.example",
				Instance:    "Clock.Ticker",
				Receiver:    meta.Receiver{Kind: meta.ReceiverObject, Path: "Clock.Ticker"},
				Response:    meta.TypeRef{Name: "Int", Raw: "Int"},
				ChannelName: common.ControllerChannel(fixtures.ExampleChannel, "Ticker"),
			},
		},
	}
	out := renderPlugin(t, md)

	assert.Contains(t, out, "let value = Registry.shared.lookup()")
	assert.Contains(t, out, "Factory.companion.create(completionHandler: { value, error in")
	assert.Contains(t, out, "subscription = Clock.Ticker.shared.receiveBroadcastIOS().collect(onEach: { value in")
	assert.NotContains(t, out, "Registry.lookup()")
}

func TestSwiftReceiver(t *testing.T) {
	assert.Equal(t, "Greeting()", swiftReceiver(meta.Receiver{Kind: meta.ReceiverClass, Path: "Greeting"}))
	assert.Equal(t, "Outer.Nested()", swiftReceiver(meta.Receiver{Kind: meta.ReceiverClass, Path: "Outer.Nested"}))
	assert.Equal(t, "Registry.shared", swiftReceiver(meta.Receiver{Kind: meta.ReceiverObject, Path: "Registry"}))
	assert.Equal(t, "Outer.companion", swiftReceiver(meta.Receiver{Kind: meta.ReceiverCompanion, Path: "Outer"}))
}
