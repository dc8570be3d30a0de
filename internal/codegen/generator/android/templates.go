package android

const pluginTemplate = `{{writeFileHeaderKotlin}}
package {{.Package}}

import android.app.Activity
import android.content.Context
import io.flutter.embedding.engine.plugins.FlutterPlugin
import io.flutter.embedding.engine.plugins.activity.ActivityAware
import io.flutter.embedding.engine.plugins.activity.ActivityPluginBinding
{{- if .Broadcasts}}
import io.flutter.plugin.common.EventChannel
{{- end}}
import io.flutter.plugin.common.MethodCall
import io.flutter.plugin.common.MethodChannel
import io.flutter.plugin.common.MethodChannel.MethodCallHandler
import io.flutter.plugin.common.MethodChannel.Result
import kotlinx.coroutines.CoroutineScope
import kotlinx.coroutines.Dispatchers
{{- if .Broadcasts}}
import kotlinx.coroutines.Job
{{- end}}
import kotlinx.coroutines.launch
import kotlinx.coroutines.withContext
{{- range .Imports}}
import {{.}}
{{- end}}

/** Dispatches method channel calls to the Kotlin Multiplatform library. */
class {{.Class}}: FlutterPlugin, MethodCallHandler, ActivityAware {

    private val mainScope = CoroutineScope(Dispatchers.Main)
    private lateinit var context: Context
    private var activity: Activity? = null
    private lateinit var channel: MethodChannel
{{- range .Simple}}
    private lateinit var {{.Field}}: MethodChannel
{{- end}}
{{- range .Broadcasts}}
    private lateinit var {{.Field}}: EventChannel
    private var {{.Job}}: Job? = null
{{- end}}

    override fun onAttachedToEngine(binding: FlutterPlugin.FlutterPluginBinding) {
        context = binding.applicationContext
        channel = MethodChannel(binding.binaryMessenger, {{kotlinString .ChannelName}})
        channel.setMethodCallHandler(this)
{{- range .Simple}}
        {{.Field}} = MethodChannel(binding.binaryMessenger, {{kotlinString .ChannelName}})
        {{.Field}}.setMethodCallHandler { call, result -> {{.Handler}}(call, result) }
{{- end}}
{{- range .Broadcasts}}
        {{.Field}} = EventChannel(binding.binaryMessenger, {{kotlinString .ChannelName}})
        {{.Field}}.setStreamHandler(object : EventChannel.StreamHandler {
            override fun onListen(arguments: Any?, events: EventChannel.EventSink) {
                {{.Job}}?.cancel()
                {{.Job}} = mainScope.launch {
                    {{.Instance}}.receiveBroadcastAndroid().collect { value ->
                        events.success({{encodeValue .Response "value"}})
                    }
                }
            }

            override fun onCancel(arguments: Any?) {
                {{.Job}}?.cancel()
                {{.Job}} = null
            }
        })
{{- end}}
    }

    override fun onMethodCall(call: MethodCall, result: Result) {
        mainScope.launch {
            when (call.method) {
{{- range .Primary}}
{{template "case" .}}
{{- end}}
                else -> result.notImplemented()
            }
        }
    }
{{- range .Simple}}

    private fun {{.Handler}}(call: MethodCall, result: Result) {
        mainScope.launch {
            when (call.method) {
{{- range .Methods}}
{{template "case" .}}
{{- end}}
                else -> result.notImplemented()
            }
        }
    }
{{- end}}

    override fun onDetachedFromEngine(binding: FlutterPlugin.FlutterPluginBinding) {
        channel.setMethodCallHandler(null)
{{- range .Simple}}
        {{.Field}}.setMethodCallHandler(null)
{{- end}}
{{- range .Broadcasts}}
        {{.Job}}?.cancel()
        {{.Job}} = null
        {{.Field}}.setStreamHandler(null)
{{- end}}
    }

    override fun onAttachedToActivity(binding: ActivityPluginBinding) {
        activity = binding.activity
    }

    override fun onReattachedToActivityForConfigChanges(binding: ActivityPluginBinding) {
        activity = binding.activity
    }

    override fun onDetachedFromActivityForConfigChanges() {
        activity = null
    }

    override fun onDetachedFromActivity() {
        activity = null
    }
{{- if .Encoder}}

    private fun encodeKJson(value: Any?): String? = when (value) {
        null -> null
{{- range .Messages}}
        is {{.Name}} -> value.toKJson()
{{- end}}
{{- range .Enums}}
{{- $enum := .Name}}
{{- if .Members}}
        is {{.Name}} -> when (value) {
{{- range .Members}}
            {{$enum}}.{{.Name}} -> {{wireLiteral .WireValue}}
{{- end}}
        }
{{- else}}
        is {{.Name}} -> null
{{- end}}
{{- end}}
        is List<*> -> value.joinToString(",", "[", "]") { encodeKJson(it) ?: "null" }
        else -> null
    }
{{- end}}
}
`

const caseTemplate = `{{define "case"}}                {{kotlinString .Command}} -> {
                    try {
                        val value = {{if .Async}}withContext(Dispatchers.Default) { {{.CallExpression}} }{{else}}{{.CallExpression}}{{end}}
                        result.success({{encodeValue .ReturnType "value"}})
                    } catch (e: Exception) {
                        result.error({{kotlinString .Command}}, e.message, null)
                    }
                }{{end}}`
