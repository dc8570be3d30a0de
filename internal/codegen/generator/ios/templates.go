package ios

const pluginTemplate = `{{writeFileHeaderSwift}}
import Flutter
import UIKit
import {{.Framework}}

public class {{.Class}}: NSObject, FlutterPlugin {
    private var channel: FlutterMethodChannel?
{{- range .Simple}}
    private var {{.Field}}: FlutterMethodChannel?
{{- end}}
{{- range .Broadcasts}}
    private var {{.Field}}: FlutterEventChannel?
    private let {{.Handler}} = {{.HandlerType}}()
{{- end}}

    public static func register(with registrar: FlutterPluginRegistrar) {
        let instance = {{.Class}}()
        let messenger = registrar.messenger()

        let channel = FlutterMethodChannel(name: {{swiftString .ChannelName}}, binaryMessenger: messenger)
        channel.setMethodCallHandler(instance.handle)
        instance.channel = channel
{{- range .Simple}}

        let {{.Field}} = FlutterMethodChannel(name: {{swiftString .ChannelName}}, binaryMessenger: messenger)
        {{.Field}}.setMethodCallHandler(instance.{{.Dispatch}})
        instance.{{.Field}} = {{.Field}}
{{- end}}
{{- range .Broadcasts}}

        let {{.Field}} = FlutterEventChannel(name: {{swiftString .ChannelName}}, binaryMessenger: messenger)
        {{.Field}}.setStreamHandler(instance.{{.Handler}})
        instance.{{.Field}} = {{.Field}}
{{- end}}

        registrar.publish(instance)
    }

    public func handle(_ call: FlutterMethodCall, result: @escaping FlutterResult) {
        switch call.method {
{{- range .Primary}}
{{template "case" .}}
{{- end}}
        default:
            result(FlutterMethodNotImplemented)
        }
    }
{{- range .Simple}}

    private func {{.Dispatch}}(_ call: FlutterMethodCall, result: @escaping FlutterResult) {
        switch call.method {
{{- range .Methods}}
{{template "case" .}}
{{- end}}
        default:
            result(FlutterMethodNotImplemented)
        }
    }
{{- end}}

    public func detachFromEngine(for registrar: FlutterPluginRegistrar) {
        channel?.setMethodCallHandler(nil)
        channel = nil
{{- range .Simple}}
        {{.Field}}?.setMethodCallHandler(nil)
        {{.Field}} = nil
{{- end}}
{{- range .Broadcasts}}
        {{.Handler}}.cancel()
        {{.Field}}?.setStreamHandler(nil)
        {{.Field}} = nil
{{- end}}
    }
}
{{- range .Broadcasts}}

private class {{.HandlerType}}: NSObject, FlutterStreamHandler {
    private var subscription: Closeable?

    func onListen(withArguments arguments: Any?, eventSink events: @escaping FlutterEventSink) -> FlutterError? {
        cancel()
        subscription = {{swiftReceiver .Receiver}}.receiveBroadcastIOS().collect(onEach: { value in
            DispatchQueue.main.async {
                events({{encodeValue .Response "value"}})
            }
        })
        return nil
    }

    func onCancel(withArguments arguments: Any?) -> FlutterError? {
        cancel()
        return nil
    }

    func cancel() {
        subscription?.close()
        subscription = nil
    }
}
{{- end}}
{{- if .Encoder}}

private func encodeKJson(_ value: Any?) -> String? {
    guard let value = value else {
        return nil
    }
    switch value {
{{- range .Messages}}
    case let v as {{.Name}}:
        return v.toKJson()
{{- end}}
{{- range .Enums}}
{{- $enum := .Name}}
    case let v as {{.Name}}:
        switch v {
{{- range .Members}}
        case {{$enum}}.{{memberName .Name}}:
            return {{wireLiteral .WireValue}}
{{- end}}
        default:
            return nil
        }
{{- end}}
    case let v as [Any]:
        return "[" + v.map { encodeKJson($0) ?? "null" }.joined(separator: ",") + "]"
    default:
        return nil
    }
}
{{- end}}
`

const caseTemplate = `{{define "case"}}        case {{swiftString .Command}}:
{{- if .RequiresPlatformContext}}
            let context = UIApplication.shared
{{- end}}
{{- if .Async}}
            {{completionCall (swiftCall .)}}{ value, error in
                DispatchQueue.main.async {
                    if let error = error {
                        result(FlutterError(code: {{swiftString .Command}}, message: error.localizedDescription, details: nil))
                    } else {
                        result({{encodeValue .ReturnType "value"}})
                    }
                }
            })
{{- else}}
            let value = {{swiftCall .}}
            result({{encodeValue .ReturnType "value"}})
{{- end}}{{end}}`
