package scanner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenSummary struct {
	Kind TokenKind
	Text string
}

func summarize(tokens []Token) []tokenSummary {
	out := make([]tokenSummary, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tokenSummary{Kind: tok.Kind, Text: tok.Text})
	}
	return out
}

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []tokenSummary
	}{
		{
			name:   "adaptee signature",
			source: `@Event(name = "foo") suspend fun foo(): String?`,
			want: []tokenSummary{
				{TokenAnnotation, "Event"},
				{TokenLParen, "("},
				{TokenIdent, "name"},
				{TokenAssign, "="},
				{TokenString, `"foo"`},
				{TokenRParen, ")"},
				{TokenIdent, "suspend"},
				{TokenIdent, "fun"},
				{TokenIdent, "foo"},
				{TokenLParen, "("},
				{TokenRParen, ")"},
				{TokenColon, ":"},
				{TokenIdent, "String"},
				{TokenQuestion, "?"},
				{TokenEOF, ""},
			},
		},
		{
			name:   "label is not an annotation",
			source: `return@forEach`,
			want: []tokenSummary{
				{TokenIdent, "return"},
				{TokenOperator, "@"},
				{TokenIdent, "forEach"},
				{TokenEOF, ""},
			},
		},
		{
			name:   "generic closing brackets stay separate",
			source: `List<List<Int>>`,
			want: []tokenSummary{
				{TokenIdent, "List"},
				{TokenLess, "<"},
				{TokenIdent, "List"},
				{TokenLess, "<"},
				{TokenIdent, "Int"},
				{TokenGreater, ">"},
				{TokenGreater, ">"},
				{TokenEOF, ""},
			},
		},
		{
			name:   "comments are skipped",
			source: "/* a /* nested */ still comment */ x // trailing\ny",
			want: []tokenSummary{
				{TokenIdent, "x"},
				{TokenIdent, "y"},
				{TokenEOF, ""},
			},
		},
		{
			name:   "numbers",
			source: `1.5e-3 0xFF 1_000L .5`,
			want: []tokenSummary{
				{TokenNumber, "1.5e-3"},
				{TokenNumber, "0xFF"},
				{TokenNumber, "1_000L"},
				{TokenNumber, ".5"},
				{TokenEOF, ""},
			},
		},
		{
			name:   "quoted identifier and char literal",
			source: "`is` '\\''",
			want: []tokenSummary{
				{TokenIdent, "is"},
				{TokenChar, `'\''`},
				{TokenEOF, ""},
			},
		},
		{
			name:   "use-site annotation",
			source: `@file:JvmName("Names")`,
			want: []tokenSummary{
				{TokenAnnotation, "file"},
				{TokenColon, ":"},
				{TokenIdent, "JvmName"},
				{TokenLParen, "("},
				{TokenString, `"Names"`},
				{TokenRParen, ")"},
				{TokenEOF, ""},
			},
		},
		{
			name:   "shebang line",
			source: "#!/usr/bin/env kotlin\nval x",
			want: []tokenSummary{
				{TokenIdent, "val"},
				{TokenIdent, "x"},
				{TokenEOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer("test.kt", []byte(tt.source)).ScanTokens()
			require.NoError(t, err)
			assert.Equal(t, tt.want, summarize(tokens))
		})
	}
}

func TestLexerStringValues(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "plain", source: `"greeting"`, want: "greeting"},
		{name: "escapes", source: `"a\"b\nA\$"`, want: "a\"b\nA$"},
		{name: "template with nested string", source: `"x ${foo("}")} y"`, want: `x ${foo("}")} y`},
		{name: "simple template", source: `"Hello, $name"`, want: "Hello, $name"},
		{name: "raw", source: `"""a "quoted" """"`, want: `a "quoted" "`},
		{name: "raw multi-line", source: "\"\"\"line1\nline2\"\"\"", want: "line1\nline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewLexer("test.kt", []byte(tt.source)).ScanTokens()
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, TokenString, tokens[0].Kind)
			assert.Equal(t, tt.want, tokens[0].Value)
		})
	}
}

func TestLexerPositions(t *testing.T) {
	src := "class A {\n  /* multi\n line */ fun b(): Int = 1\n}"
	tokens, err := NewLexer("test.kt", []byte(src)).ScanTokens()
	require.NoError(t, err)

	var fun Token
	for _, tok := range tokens {
		if tok.Is("fun") {
			fun = tok
		}
	}
	assert.Equal(t, 3, fun.Line)
	assert.Equal(t, 10, fun.Column)
	assert.Equal(t, "fun", src[fun.Start:fun.End])

	last := tokens[len(tokens)-2]
	assert.Equal(t, TokenRBrace, last.Kind)
	assert.Equal(t, 4, last.Line)
	assert.Equal(t, 1, last.Column)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		line     int
		expected string
	}{
		{name: "unterminated string", source: "val a = 1\nval x = \"abc\n", line: 2, expected: `closing '"' of string literal`},
		{name: "unterminated raw string", source: `val x = """abc`, line: 1, expected: `closing """ of raw string`},
		{name: "unterminated comment", source: "/* open", line: 1, expected: "closing */ of block comment"},
		{name: "unterminated template", source: `"${foo(`, line: 1, expected: "closing '}' of string template"},
		{name: "bad unicode escape", source: `"\uZZZZ"`, line: 1, expected: "four hex digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer("broken.kt", []byte(tt.source)).ScanTokens()
			require.Error(t, err)
			var malformed *MalformedAnnotationError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "broken.kt", malformed.File)
			assert.Equal(t, tt.line, malformed.Line)
			assert.Equal(t, tt.expected, malformed.Expected)
		})
	}
}
