package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		in     string
		dart   string
		kotlin string
		swift  string
	}{
		{"doFooBar", `'doFooBar'`, `"doFooBar"`, `"doFooBar"`},
		{"it's", `'it\'s'`, `"it's"`, `"it's"`},
		{`say "hi"`, `'say "hi"'`, `"say \"hi\""`, `"say \"hi\""`},
		{"$name", `'\$name'`, `"\$name"`, `"$name"`},
		{"a\\b", `'a\\b'`, `"a\\b"`, `"a\\b"`},
		{"line\nbreak", `'line\nbreak'`, `"line\nbreak"`, `"line\nbreak"`},
		{"bell\a", `'bell\u{7}'`, `"bell\u0007"`, `"bell\u{7}"`},
		{"café", `'café'`, `"café"`, `"café"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.dart, DartString(tt.in))
			assert.Equal(t, tt.kotlin, KotlinString(tt.in))
			assert.Equal(t, tt.swift, SwiftString(tt.in))
		})
	}
}

func TestJSONString(t *testing.T) {
	assert.Equal(t, `"bla"`, JSONString("bla"))
	assert.Equal(t, `"a\"b"`, JSONString(`a"b`))
}

func TestTargetWithDefaults(t *testing.T) {
	got := Target{PluginName: "my_plugin"}.WithDefaults()
	assert.Equal(t, Target{
		PluginName:     "my_plugin",
		DartClass:      "Adapter",
		AndroidPackage: "my_plugin",
		AndroidClass:   "MyPluginPlugin",
		IOSClass:       "MyPluginPlugin",
		IOSFramework:   "Platform",
	}, got)

	kept := Target{PluginName: "my_plugin", DartClass: "Bridge", IOSClass: "SwiftBridge"}.WithDefaults()
	assert.Equal(t, "Bridge", kept.DartClass)
	assert.Equal(t, "SwiftBridge", kept.IOSClass)
}
