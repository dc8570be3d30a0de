package dart

const adapterTemplate = `{{writeFileHeaderDart}}
import 'dart:async';
import 'dart:convert';

import 'package:flutter/services.dart';
{{- if .Broadcasts}}
import 'package:flutter/widgets.dart';
{{- end}}

/// Adapter class which handles communication with the KMP library.
class {{.Class}} {
{{- if .Primary}}
  static const MethodChannel _channel = MethodChannel({{dartString .ChannelName}});
{{- end}}
{{- range .Simple}}
  static const MethodChannel {{.Field}} = MethodChannel({{dartString .ChannelName}});
{{- end}}
{{- range .Broadcasts}}
  static const EventChannel {{.Field}} = EventChannel({{dartString .ChannelName}});
{{- end}}
{{- range .Methods}}

  static Future<AdapterResponse<{{dartType .ReturnType}}>> get {{.Command}} async {
    try {
{{- if .ReturnType.Custom}}
      final response = await {{.Field}}.invokeMethod({{dartString .Command}});
      final json = {{if .ReturnType.Nullable}}response == null ? null : {{end}}jsonDecode(response);
{{- else}}
      final json = await {{.Field}}.invokeMethod({{dartString .Command}});
{{- end}}
      return AdapterResponse.success({{decode .ReturnType "json"}});
    } catch (e) {
      return AdapterResponse.failure(_toException(e));
    }
  }
{{- end}}
{{- range .Broadcasts}}

  static Stream<AdapterResponse<{{dartType .Response}}>> get {{.Getter}} {
    return {{.Field}}
        .receiveBroadcastStream()
        .map<AdapterResponse<{{dartType .Response}}>>((response) {
      try {
{{- if .Response.Custom}}
        final json = {{if .Response.Nullable}}response == null ? null : {{end}}jsonDecode(response);
{{- else}}
        final json = response;
{{- end}}
        return AdapterResponse.success({{decode .Response "json"}});
      } catch (e) {
        return AdapterResponse.failure(_toException(e));
      }
    });
  }
{{- end}}
}

Exception _toException(Object e) {
  if (e is Exception) {
    return e;
  }
  if (e is Error) {
    return Exception(e.stackTrace);
  }
  return Exception(e);
}

/// Wraps an [exception] if calling the platform method has failed, or an
/// [object] of type T when the platform method returned a response and
/// deserialization was successful.
class AdapterResponse<T> {
  AdapterResponse._(this._object, this._exception, this._success);

  factory AdapterResponse.success(T t) => AdapterResponse._(t, null, true);

  factory AdapterResponse.failure(Exception e) => AdapterResponse._(null, e, false);

  final T? _object;
  final Exception? _exception;
  final bool _success;

  /// The deserialized response.
  T get object => _object as T;

  /// Exception which occurred when calling a platform method failed.
  Exception get exception => _exception!;

  bool isSuccess() => _success;
}
{{- range .Broadcasts}}

/// Rebuilds [builder] with every value published by {{.Name}}.
class {{.Name}}Subscriber extends StatefulWidget {
  const {{.Name}}Subscriber({
    required this.builder,
    Key? key,
  }) : super(key: key);

  final Widget Function(AdapterResponse<{{dartType .Response}}>? response) builder;

  @override
  State<{{.Name}}Subscriber> createState() => _{{.Name}}SubscriberState();
}

class _{{.Name}}SubscriberState extends State<{{.Name}}Subscriber> {
  StreamSubscription<AdapterResponse<{{dartType .Response}}>>? _subscription;
  AdapterResponse<{{dartType .Response}}>? _response;

  @override
  void initState() {
    super.initState();
    _subscription = {{$.Class}}.{{.Getter}}.listen((response) {
      setState(() => _response = response);
    });
  }

  @override
  void dispose() {
    _subscription?.cancel();
    super.dispose();
  }

  @override
  Widget build(BuildContext context) => widget.builder(_response);
}
{{- end}}
{{- range .Messages}}

class {{.Name}} {
{{- if .Fields}}
  {{.Name}}({
{{- range orderedFields .Fields}}
    {{if not .Optional}}required {{end}}this.{{.Name}},
{{- end}}
  });
{{- else}}
  {{.Name}}();
{{- end}}

  factory {{.Name}}.fromJson(dynamic json) {
    return {{.Name}}(
{{- range .Fields}}
      {{.Name}}: {{decode .Type (jsonKey .Name)}},
{{- end}}
    );
  }
{{- if .Fields}}
{{range orderedFields .Fields}}
  final {{dartType .Type}} {{.Name}};
{{- end}}
{{- end}}

  Map<String, dynamic> toJson() {
    return {
{{- range .Fields}}
      {{dartString .Name}}: {{encode .Type .Name}},
{{- end}}
    };
  }
}
{{- end}}
{{- range .Enums}}
{{$enum := .Name}}
class {{.Name}} {
  const {{.Name}}._(this.string);

  final String string;
{{range .Members}}
  static const {{memberName .Name}} = {{$enum}}._({{dartString .WireValue}});
{{- end}}
  static const none = {{.Name}}._('none');

  static const values = [{{range $i, $m := .Members}}{{if $i}}, {{end}}{{memberName $m.Name}}{{end}}];

  static {{.Name}} fromJson(dynamic value) {
    switch (value) {
{{- range .Members}}
      case {{dartString .WireValue}}:
        return {{$enum}}.{{memberName .Name}};
{{- end}}
      default:
        return {{.Name}}.none;
    }
  }

  String? toJson() {
    switch (this) {
{{- range .Members}}
      case {{$enum}}.{{memberName .Name}}:
        return {{dartString .WireValue}};
{{- end}}
      default:
        return null;
    }
  }

  @override
  String toString() => '{{.Name}}.$string';
}
{{- end}}
`

const libraryTemplate = `{{writeFileHeaderDart}}
library {{.Plugin}};

export '{{.Export}}';
`
