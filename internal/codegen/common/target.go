package common

// Target names the plugin artifacts the renderers emit.
type Target struct {
	PluginName     string // pubspec name, e.g. "my_plugin"
	DartClass      string // adapter class in lib/src/adapter.dart
	AndroidPackage string // e.g. "com.example.my_plugin"
	AndroidClass   string // e.g. "MyPluginPlugin"
	IOSClass       string // e.g. "SwiftMyPluginPlugin"
	IOSFramework   string // Kotlin Multiplatform framework imported by the iOS plugin
}

const (
	DefaultDartClass    = "Adapter"
	DefaultIOSFramework = "Platform"
)

// WithDefaults fills every empty name derived from PluginName.
func (t Target) WithDefaults() Target {
	if t.DartClass == "" {
		t.DartClass = DefaultDartClass
	}
	if t.AndroidPackage == "" {
		t.AndroidPackage = t.PluginName
	}
	if t.AndroidClass == "" {
		t.AndroidClass = ToPascalCase(t.PluginName) + "Plugin"
	}
	if t.IOSClass == "" {
		t.IOSClass = ToPascalCase(t.PluginName) + "Plugin"
	}
	if t.IOSFramework == "" {
		t.IOSFramework = DefaultIOSFramework
	}
	return t
}
