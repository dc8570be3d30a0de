package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DartString quotes s as a single-quoted Dart literal.
func DartString(s string) string {
	return quote(s, '\'', true, func(r rune) string { return fmt.Sprintf(`\u{%x}`, r) })
}

// KotlinString quotes s as a double-quoted Kotlin literal.
func KotlinString(s string) string {
	return quote(s, '"', true, func(r rune) string { return fmt.Sprintf(`\u%04x`, r) })
}

// SwiftString quotes s as a double-quoted Swift literal.
func SwiftString(s string) string {
	return quote(s, '"', false, func(r rune) string { return fmt.Sprintf(`\u{%x}`, r) })
}

// JSONString returns s encoded as a JSON string, quotes included.
func JSONString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		panic(err)
	}
	return string(b)
}

func quote(s string, q rune, dollar bool, control func(rune) string) string {
	var b strings.Builder
	b.WriteRune(q)
	for _, r := range s {
		switch {
		case r == q || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '$' && dollar:
			b.WriteString(`\$`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(control(r))
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}
