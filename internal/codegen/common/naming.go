package common

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
)

// ToPascalCase converts "my_plugin" or "myPlugin" to "MyPlugin".
func ToPascalCase(s string) string {
	return strcase.ToCamel(s)
}

// ToCamelCase converts "MY_VALUE" to "myValue" and "MyController" to "myController".
func ToCamelCase(s string) string {
	return strcase.ToLowerCamel(s)
}

// ToSnakeCase converts "MyBroadcastController" to "my_broadcast_controller".
func ToSnakeCase(s string) string {
	return strcase.ToSnake(s)
}

// ControllerChannel derives the channel of a @Controller class from the
// primary channel name. All renderers must use this so channel names match.
func ControllerChannel(channelName, controllerName string) string {
	return channelName + "/channel/" + ToSnakeCase(controllerName)
}

// DefaultChannelName is the primary channel used when no plugin package is known.
func DefaultChannelName(pluginName string) string {
	return pluginName + ".klutter"
}

// IsIdentifier reports whether s is usable as an identifier in Dart, Kotlin
// and Swift alike: a letter or underscore followed by letters, digits or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// PackagePath turns "com.example.plugin" into "com/example/plugin".
func PackagePath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}
