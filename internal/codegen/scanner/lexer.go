package scanner

import (
	"strconv"
	"strings"
)

// Lexer tokenizes Kotlin source. Comments and whitespace are dropped; string
// templates are kept verbatim inside the literal.
type Lexer struct {
	file        string
	source      []byte
	start       int
	current     int
	line        int
	column      int
	startLine   int
	startColumn int
	tokens      []Token
	err         error
}

// NewLexer creates a Lexer for one source file.
func NewLexer(file string, source []byte) *Lexer {
	return &Lexer{
		file:   file,
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, len(source)/6),
	}
}

// ScanTokens scans the whole file. The returned slice always ends with a
// TokenEOF token. The first lexical error stops scanning.
func (l *Lexer) ScanTokens() ([]Token, error) {
	if len(l.source) >= 2 && l.source[0] == '#' && l.source[1] == '!' {
		l.skipLine()
	}
	for !l.isAtEnd() && l.err == nil {
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.column
		l.scanToken()
	}
	if l.err != nil {
		return nil, l.err
	}
	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Line:   l.line,
		Column: l.column,
		Start:  l.current,
		End:    l.current,
	})
	return l.tokens, nil
}

func (l *Lexer) scanToken() {
	c := l.advance()
	switch c {
	case ' ', '\t', '\r', '\n', '\f':
	case '(':
		l.addToken(TokenLParen)
	case ')':
		l.addToken(TokenRParen)
	case '{':
		l.addToken(TokenLBrace)
	case '}':
		l.addToken(TokenRBrace)
	case '[':
		l.addToken(TokenLBracket)
	case ']':
		l.addToken(TokenRBracket)
	case '<':
		l.addToken(TokenLess)
	case '>':
		l.addToken(TokenGreater)
	case ',':
		l.addToken(TokenComma)
	case ':':
		l.addToken(TokenColon)
	case ';':
		l.addToken(TokenSemicolon)
	case '.':
		if isDigit(l.peek()) {
			l.scanNumber()
		} else {
			l.addToken(TokenDot)
		}
	case '?':
		l.addToken(TokenQuestion)
	case '=':
		l.addToken(TokenAssign)
	case '/':
		switch {
		case l.match('/'):
			l.skipLine()
		case l.match('*'):
			l.skipBlockComment()
		default:
			l.addToken(TokenOperator)
		}
	case '@':
		l.scanAt()
	case '"':
		l.scanString()
	case '\'':
		l.scanChar()
	case '`':
		l.scanQuotedIdentifier()
	default:
		switch {
		case isDigit(c):
			l.scanNumber()
		case isIdentStart(c):
			l.scanIdentifier()
		default:
			l.addToken(TokenOperator)
		}
	}
}

// scanAt distinguishes annotations from labels such as return@forEach.
func (l *Lexer) scanAt() {
	if l.start > 0 && isIdentPart(l.source[l.start-1]) {
		l.addToken(TokenOperator)
		return
	}
	if !isIdentStart(l.peek()) {
		l.addToken(TokenOperator)
		return
	}
	for isIdentPart(l.peek()) {
		l.advance()
	}
	tok := l.makeToken(TokenAnnotation)
	tok.Text = string(l.source[l.start+1 : l.current])
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) scanIdentifier() {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	l.addToken(TokenIdent)
}

func (l *Lexer) scanQuotedIdentifier() {
	for !l.isAtEnd() && l.peek() != '`' && l.peek() != '\n' {
		l.advance()
	}
	if l.peek() != '`' {
		l.fail("closing '`'", "end of line")
		return
	}
	l.advance()
	tok := l.makeToken(TokenIdent)
	tok.Text = string(l.source[l.start+1 : l.current-1])
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) scanNumber() {
	for {
		c := l.peek()
		if isIdentPart(c) || (c == '.' && isDigit(l.peekNext())) {
			l.advance()
			continue
		}
		if (c == '+' || c == '-') && l.current > l.start {
			prev := l.source[l.current-1]
			if (prev == 'e' || prev == 'E') && !strings.HasPrefix(string(l.source[l.start:l.current]), "0x") {
				l.advance()
				continue
			}
		}
		break
	}
	l.addToken(TokenNumber)
}

func (l *Lexer) scanChar() {
	for !l.isAtEnd() && l.peek() != '\'' && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() != '\'' {
		l.fail("closing quote of character literal", "end of line")
		return
	}
	l.advance()
	l.addToken(TokenChar)
}

func (l *Lexer) scanString() {
	if l.peek() == '"' && l.peekNext() == '"' {
		l.advance()
		l.advance()
		l.scanRawString()
		return
	}
	var value strings.Builder
	if !l.stringBody(&value) {
		return
	}
	tok := l.makeToken(TokenString)
	tok.Value = value.String()
	l.tokens = append(l.tokens, tok)
}

// stringBody consumes an escaped string up to and including the closing
// quote, writing the unescaped contents to value. The opening quote has
// already been consumed.
func (l *Lexer) stringBody(value *strings.Builder) bool {
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			l.fail("closing '\"' of string literal", "end of line")
			return false
		}
		c := l.advance()
		switch c {
		case '"':
			return true
		case '\\':
			if !l.escape(value) {
				return false
			}
		case '$':
			value.WriteByte('$')
			if l.peek() == '{' {
				start := l.current
				if !l.skipTemplate() {
					return false
				}
				value.Write(l.source[start:l.current])
			}
		default:
			value.WriteByte(c)
		}
	}
}

func (l *Lexer) escape(value *strings.Builder) bool {
	if l.isAtEnd() {
		l.fail("escape sequence", "end of file")
		return false
	}
	c := l.advance()
	switch c {
	case 'n':
		value.WriteByte('\n')
	case 't':
		value.WriteByte('\t')
	case 'r':
		value.WriteByte('\r')
	case 'b':
		value.WriteByte('\b')
	case 'u':
		if l.current+4 > len(l.source) {
			l.fail("four hex digits", "end of file")
			return false
		}
		code, err := strconv.ParseUint(string(l.source[l.current:l.current+4]), 16, 32)
		if err != nil {
			l.fail("four hex digits", strconv.Quote(string(l.source[l.current:l.current+4])))
			return false
		}
		for range 4 {
			l.advance()
		}
		value.WriteRune(rune(code))
	default:
		value.WriteByte(c)
	}
	return true
}

// skipTemplate consumes a ${...} template expression, including nested
// strings and braces. The '$' has already been consumed.
func (l *Lexer) skipTemplate() bool {
	l.advance()
	depth := 1
	for depth > 0 {
		if l.isAtEnd() {
			l.fail("closing '}' of string template", "end of file")
			return false
		}
		c := l.advance()
		switch c {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			var discard strings.Builder
			if l.peek() == '"' && l.peekNext() == '"' {
				l.advance()
				l.advance()
				if !l.rawStringBody(&discard) {
					return false
				}
			} else if !l.stringBody(&discard) {
				return false
			}
		}
	}
	return true
}

func (l *Lexer) scanRawString() {
	var value strings.Builder
	if !l.rawStringBody(&value) {
		return
	}
	tok := l.makeToken(TokenString)
	tok.Value = value.String()
	l.tokens = append(l.tokens, tok)
}

// rawStringBody consumes a triple-quoted string. Extra quotes before the
// closing delimiter belong to the contents.
func (l *Lexer) rawStringBody(value *strings.Builder) bool {
	for {
		if l.isAtEnd() {
			l.fail(`closing """ of raw string`, "end of file")
			return false
		}
		if l.peek() == '"' && l.peekNext() == '"' && l.peekAt(2) == '"' {
			for l.peekAt(3) == '"' {
				value.WriteByte(l.advance())
			}
			l.advance()
			l.advance()
			l.advance()
			return true
		}
		c := l.advance()
		value.WriteByte(c)
		if c == '$' && l.peek() == '{' {
			start := l.current
			if !l.skipTemplate() {
				return false
			}
			value.Write(l.source[start:l.current])
		}
	}
}

func (l *Lexer) skipLine() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment consumes a possibly nested block comment.
func (l *Lexer) skipBlockComment() {
	depth := 1
	for depth > 0 {
		if l.isAtEnd() {
			l.fail("closing */ of block comment", "end of file")
			return
		}
		switch {
		case l.peek() == '/' && l.peekNext() == '*':
			l.advance()
			l.advance()
			depth++
		case l.peek() == '*' && l.peekNext() == '/':
			l.advance()
			l.advance()
			depth--
		default:
			l.advance()
		}
	}
}

func (l *Lexer) makeToken(kind TokenKind) Token {
	return Token{
		Kind:   kind,
		Text:   string(l.source[l.start:l.current]),
		Line:   l.startLine,
		Column: l.startColumn,
		Start:  l.start,
		End:    l.current,
	}
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, l.makeToken(kind))
}

func (l *Lexer) fail(expected, found string) {
	if l.err != nil {
		return
	}
	l.err = &MalformedAnnotationError{
		File:     l.file,
		Line:     l.startLine,
		Column:   l.startColumn,
		Expected: expected,
		Found:    found,
	}
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	c := l.source[l.current]
	l.current++
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.peek() != expected || l.isAtEnd() {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekNext() byte {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(n int) byte {
	if l.current+n >= len(l.source) {
		return 0
	}
	return l.source[l.current+n]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Bytes of multi-byte UTF-8 sequences are accepted so non-ASCII identifiers
// stay in one token.
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
