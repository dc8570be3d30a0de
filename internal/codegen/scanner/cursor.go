package scanner

import (
	"github.com/Alia5/klutter-gen/internal/codegen/meta"
)

var declarationKeywords = map[string]bool{
	"fun": true, "val": true, "var": true, "class": true, "interface": true,
	"object": true, "typealias": true,
}

func (p *parser) peek() Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *parser) prev() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) atEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *parser) expect(kind TokenKind, ann, expected string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.malformed(tok, ann, expected)
	}
	return p.advance(), nil
}

func (p *parser) malformed(tok Token, ann, expected string) error {
	return p.malformedAt(tok, ann, expected, tok.Describe())
}

func (p *parser) malformedAt(tok Token, ann, expected, found string) error {
	return &MalformedAnnotationError{
		File:       p.file,
		Line:       tok.Line,
		Column:     tok.Column,
		Annotation: ann,
		Expected:   expected,
		Found:      found,
	}
}

func (p *parser) pos2meta(tok Token) meta.Pos {
	return meta.Pos{File: p.file, Line: tok.Line, Column: tok.Column}
}

func closerOf(kind TokenKind) TokenKind {
	switch kind {
	case TokenLParen:
		return TokenRParen
	case TokenLBracket:
		return TokenRBracket
	case TokenLBrace:
		return TokenRBrace
	}
	return TokenEOF
}

func isOpener(kind TokenKind) bool {
	return kind == TokenLParen || kind == TokenLBracket || kind == TokenLBrace
}

func isCloser(kind TokenKind) bool {
	return kind == TokenRParen || kind == TokenRBracket || kind == TokenRBrace
}

// skipBalanced consumes a bracketed group starting at the current opener.
func (p *parser) skipBalanced() error {
	open := p.advance()
	stack := []TokenKind{closerOf(open.Kind)}
	for len(stack) > 0 {
		tok := p.advance()
		switch {
		case tok.Kind == TokenEOF:
			return p.malformedAt(open, "", "closing "+stack[len(stack)-1].String()+" for "+open.Describe(), "end of file")
		case isOpener(tok.Kind):
			stack = append(stack, closerOf(tok.Kind))
		case isCloser(tok.Kind):
			if tok.Kind != stack[len(stack)-1] {
				return p.malformedAt(tok, "", stack[len(stack)-1].String(), tok.Describe())
			}
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// skipAngles consumes a type parameter or argument list.
func (p *parser) skipAngles() error {
	open := p.advance()
	depth := 1
	for depth > 0 {
		tok := p.advance()
		switch tok.Kind {
		case TokenEOF:
			return p.malformedAt(open, "", "closing '>'", "end of file")
		case TokenLess:
			depth++
		case TokenGreater:
			depth--
		}
	}
	return nil
}

// skipUntil consumes tokens up to, not including, the first token of one of
// the given kinds outside any brackets. An unmatched closer also stops it.
func (p *parser) skipUntil(kinds ...TokenKind) error {
	for {
		tok := p.peek()
		for _, k := range kinds {
			if tok.Kind == k {
				return nil
			}
		}
		switch {
		case tok.Kind == TokenEOF, isCloser(tok.Kind):
			return nil
		case isOpener(tok.Kind):
			if err := p.skipBalanced(); err != nil {
				return err
			}
		default:
			p.advance()
		}
	}
}

// skipToDeclarationEnd consumes an initializer or expression body up to the
// start of the next declaration, a ';' or the closing brace of the body.
func (p *parser) skipToDeclarationEnd() error {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenEOF, tok.Kind == TokenSemicolon, isCloser(tok.Kind):
			return nil
		case p.startsDeclaration():
			return nil
		case isOpener(tok.Kind):
			if err := p.skipBalanced(); err != nil {
				return err
			}
		default:
			p.advance()
		}
	}
}

func (p *parser) startsDeclaration() bool {
	tok := p.peek()
	switch tok.Kind {
	case TokenAnnotation:
		return true
	case TokenIdent:
	default:
		return false
	}
	if p.pos > 0 {
		prev := p.tokens[p.pos-1]
		if prev.Kind == TokenDot || (prev.Kind == TokenColon && p.pos > 1 && p.tokens[p.pos-2].Kind == TokenColon) {
			return false
		}
	}
	switch {
	case declarationKeywords[tok.Text]:
		return true
	case tok.Text == "init":
		return p.peekAt(1).Kind == TokenLBrace
	case tok.Text == "constructor":
		return p.peekAt(1).Kind == TokenLParen
	case modifierWords[tok.Text]:
		return p.followedByWord(1)
	}
	return false
}
