package common

import (
	"fmt"
	"strings"
)

// FileHeader returns the "do not edit" banner for a generated file, using the
// given line-comment prefix ("//" or "///").
func FileHeader(commentPrefix, lang string) string {
	version, err := GetVersion()
	if err != nil {
		version = "unknown"
	}
	lines := []string{
		fmt.Sprintf("Code generated by klutter-gen %s. DO NOT EDIT.", version),
		fmt.Sprintf("%s adapter for the Kotlin Multiplatform bridge.", lang),
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(commentPrefix)
		b.WriteByte(' ')
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
