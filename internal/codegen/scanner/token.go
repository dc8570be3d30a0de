package scanner

import "fmt"

// TokenKind is the category of a Kotlin token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenAnnotation // @Name, Text holds the name without '@'
	TokenString     // Value holds the unescaped contents
	TokenChar
	TokenNumber
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLess
	TokenGreater
	TokenComma
	TokenColon
	TokenSemicolon
	TokenDot
	TokenQuestion
	TokenAssign
	TokenOperator // any other punctuation, one character per token
)

var tokenNames = map[TokenKind]string{
	TokenEOF:        "end of file",
	TokenIdent:      "identifier",
	TokenAnnotation: "annotation",
	TokenString:     "string literal",
	TokenChar:       "character literal",
	TokenNumber:     "number",
	TokenLParen:     "'('",
	TokenRParen:     "')'",
	TokenLBrace:     "'{'",
	TokenRBrace:     "'}'",
	TokenLBracket:   "'['",
	TokenRBracket:   "']'",
	TokenLess:       "'<'",
	TokenGreater:    "'>'",
	TokenComma:      "','",
	TokenColon:      "':'",
	TokenSemicolon:  "';'",
	TokenDot:        "'.'",
	TokenQuestion:   "'?'",
	TokenAssign:     "'='",
	TokenOperator:   "operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical element of a Kotlin source file.
// Start and End are byte offsets into the source.
type Token struct {
	Kind   TokenKind
	Text   string
	Value  string
	Line   int
	Column int
	Start  int
	End    int
}

// Is reports whether t is the identifier or soft keyword word.
func (t Token) Is(word string) bool {
	return t.Kind == TokenIdent && t.Text == word
}

// Describe renders the token for diagnostics.
func (t Token) Describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of file"
	case TokenString:
		return fmt.Sprintf("string %q", t.Value)
	case TokenAnnotation:
		return "@" + t.Text
	default:
		return fmt.Sprintf("%q", t.Text)
	}
}
