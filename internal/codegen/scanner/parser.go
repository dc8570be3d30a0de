package scanner

import (
	"fmt"
	"strings"

	"github.com/Alia5/klutter-gen/internal/codegen/meta"
	"github.com/Alia5/klutter-gen/internal/codegen/typemap"
)

var (
	adapteeAnnotations  = []string{"KlutterAdaptee", "Event"}
	responseAnnotations = []string{"Response", "KlutterResponse"}
)

const (
	contextAnnotation    = "AndroidContext"
	controllerAnnotation = "Controller"
	serialNameAnnotation = "SerialName"
	publisherType        = "Publisher"
)

var modifierWords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"open": true, "abstract": true, "final": true, "sealed": true,
	"override": true, "suspend": true, "data": true, "enum": true,
	"inline": true, "value": true, "inner": true, "annotation": true,
	"companion": true, "lateinit": true, "const": true, "external": true,
	"operator": true, "infix": true, "tailrec": true, "actual": true,
	"expect": true, "vararg": true, "noinline": true, "crossinline": true,
	"reified": true,
}

var useSiteTargets = map[string]bool{
	"file": true, "field": true, "get": true, "set": true, "param": true,
	"property": true, "setparam": true, "receiver": true, "delegate": true,
}

type annotationArg struct {
	name     string // empty for positional arguments
	value    string
	isString bool
}

type annotation struct {
	name string // last segment of the annotation name
	args []annotationArg
	tok  Token
}

// stringArg returns the first positional argument or the argument called
// name, if it is a constant string literal.
func (a annotation) stringArg(name string) (string, bool) {
	for i, arg := range a.args {
		if arg.name == name || (arg.name == "" && i == 0) {
			return arg.value, arg.isString
		}
	}
	return "", false
}

type modifiers struct {
	annotations []annotation
	words       map[string]bool
}

func (m modifiers) annotation(names ...string) (annotation, bool) {
	for _, a := range m.annotations {
		for _, n := range names {
			if a.name == n {
				return a, true
			}
		}
	}
	return annotation{}, false
}

func (m modifiers) has(word string) bool {
	return m.words[word]
}

func (m modifiers) empty() bool {
	return len(m.annotations) == 0 && len(m.words) == 0
}

type typeNode struct {
	name     string // last segment of the base name
	args     []*typeNode
	star     bool
	nullable bool
	raw      string
}

type param struct {
	name     string
	typ      *typeNode
	property bool
	mods     modifiers
	tok      Token
}

type supertype struct {
	typ *typeNode
	tok Token
}

type classDecl struct {
	kind       string // "class", "interface" or "object"
	name       string
	path       []string
	mods       modifiers
	ctor       []param
	hasCtor    bool
	supertypes []supertype
	entries    []meta.EnumMember
	methods    []meta.Method
	tok        Token
	enumClass  bool
	anonymous  bool
	outer      *classDecl
}

// instance is the Kotlin expression that yields a receiver for calls on c.
func (c *classDecl) instance() string {
	owner := strings.Join(c.path, ".")
	if c.kind == "object" {
		return owner
	}
	return owner + "()"
}

// receiver describes how generated code reaches an instance of c.
func (c *classDecl) receiver() meta.Receiver {
	switch {
	case c.kind == "object" && c.mods.has("companion") && c.outer != nil:
		return meta.Receiver{Kind: meta.ReceiverCompanion, Path: strings.Join(c.outer.path, ".")}
	case c.kind == "object":
		return meta.Receiver{Kind: meta.ReceiverObject, Path: strings.Join(c.path, ".")}
	default:
		return meta.Receiver{Kind: meta.ReceiverClass, Path: strings.Join(c.path, ".")}
	}
}

type parser struct {
	file   string
	src    []byte
	tokens []Token
	pos    int
	pkg    string
	md     *meta.Metadata
}

func newParser(file string, src []byte, tokens []Token) *parser {
	return &parser{
		file:   file,
		src:    src,
		tokens: tokens,
		md:     &meta.Metadata{},
	}
}

func (p *parser) parse() (*meta.Metadata, error) {
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	for !p.atEnd() {
		if p.peek().Kind == TokenRBrace {
			return nil, p.malformed(p.peek(), "", "declaration")
		}
		if err := p.parseDeclaration(nil); err != nil {
			return nil, err
		}
	}
	return p.md, nil
}

// parseHeader consumes file annotations, the package directive and imports.
func (p *parser) parseHeader() error {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenAnnotation && tok.Text == "file":
			if _, err := p.parseAnnotation(); err != nil {
				return err
			}
		case tok.Is("package"):
			p.advance()
			name, err := p.qualifiedName()
			if err != nil {
				return err
			}
			p.pkg = name
		case tok.Is("import"):
			p.advance()
			if _, err := p.qualifiedName(); err != nil {
				return err
			}
			if p.peek().Kind == TokenDot && p.peekAt(1).Text == "*" {
				p.advance()
				p.advance()
			}
			if p.peek().Is("as") {
				p.advance()
				p.advance()
			}
		case tok.Kind == TokenSemicolon:
			p.advance()
		default:
			return nil
		}
	}
}

func (p *parser) qualifiedName() (string, error) {
	tok, err := p.expect(TokenIdent, "", "qualified name")
	if err != nil {
		return "", err
	}
	parts := []string{tok.Text}
	for p.peek().Kind == TokenDot && p.peekAt(1).Kind == TokenIdent {
		p.advance()
		parts = append(parts, p.advance().Text)
	}
	return strings.Join(parts, "."), nil
}

// parseModifiers collects annotations and modifier keywords preceding a
// declaration. A modifier word only counts as such when another word or
// annotation follows it, so "data: String" stays a parameter name.
func (p *parser) parseModifiers() (modifiers, error) {
	var m modifiers
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenAnnotation:
			a, err := p.parseAnnotation()
			if err != nil {
				return m, err
			}
			m.annotations = append(m.annotations, a)
		case tok.Kind == TokenIdent && modifierWords[tok.Text] && p.followedByWord(1):
			if m.words == nil {
				m.words = make(map[string]bool)
			}
			m.words[tok.Text] = true
			p.advance()
		default:
			return m, nil
		}
	}
}

func (p *parser) followedByWord(offset int) bool {
	next := p.peekAt(offset)
	return next.Kind == TokenIdent || next.Kind == TokenAnnotation
}

func (p *parser) parseAnnotation() (annotation, error) {
	tok := p.advance()
	a := annotation{name: tok.Text, tok: tok}
	last := tok
	if useSiteTargets[tok.Text] && p.peek().Kind == TokenColon && p.peek().Start == tok.End {
		p.advance()
		if p.peek().Kind == TokenLBracket {
			if err := p.skipBalanced(); err != nil {
				return a, err
			}
			return a, nil
		}
		name, err := p.expect(TokenIdent, "@"+tok.Text, "annotation name")
		if err != nil {
			return a, err
		}
		a.name = name.Text
		last = name
	}
	for p.peek().Kind == TokenDot && p.peekAt(1).Kind == TokenIdent {
		p.advance()
		last = p.advance()
		a.name = last.Text
	}
	if p.peek().Kind == TokenLParen && p.peek().Start == last.End {
		args, err := p.parseAnnotationArgs(a.name)
		if err != nil {
			return a, err
		}
		a.args = args
	}
	return a, nil
}

func (p *parser) parseAnnotationArgs(name string) ([]annotationArg, error) {
	open := p.advance()
	var args []annotationArg
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenRParen:
			p.advance()
			return args, nil
		case TokenComma:
			p.advance()
			continue
		case TokenEOF:
			return nil, p.malformedAt(open, "@"+name, "closing ')' of annotation arguments", "end of file")
		}
		var arg annotationArg
		if tok.Kind == TokenIdent && p.peekAt(1).Kind == TokenAssign {
			arg.name = tok.Text
			p.advance()
			p.advance()
		}
		start := p.pos
		if err := p.skipUntil(TokenComma, TokenRParen); err != nil {
			return nil, err
		}
		value := p.tokens[start:p.pos]
		if len(value) == 1 && value[0].Kind == TokenString && !strings.Contains(value[0].Text, "${") {
			arg.value = value[0].Value
			arg.isString = true
		} else if len(value) > 0 {
			arg.value = string(p.src[value[0].Start:value[len(value)-1].End])
		}
		args = append(args, arg)
	}
}

func (p *parser) parseDeclaration(enclosing *classDecl) error {
	mods, err := p.parseModifiers()
	if err != nil {
		return err
	}
	tok := p.peek()
	switch {
	case tok.Is("class"), tok.Is("interface"), tok.Is("object"):
		return p.parseClass(mods, enclosing)
	case tok.Is("fun") && p.peekAt(1).Is("interface"):
		p.advance()
		return p.parseClass(mods, enclosing)
	case tok.Is("fun"):
		return p.parseFun(mods, enclosing)
	}
	if err := p.rejectMisplaced(mods, tok); err != nil {
		return err
	}
	switch {
	case tok.Kind == TokenRBrace, tok.Kind == TokenEOF:
		return nil
	case tok.Kind == TokenSemicolon:
		p.advance()
		return nil
	case tok.Is("init") && p.peekAt(1).Kind == TokenLBrace:
		p.advance()
		return p.skipBalanced()
	case tok.Is("constructor") && p.peekAt(1).Kind == TokenLParen:
		p.advance()
		if err := p.skipBalanced(); err != nil {
			return err
		}
		if p.peek().Kind == TokenColon {
			p.advance()
			p.advance()
			if p.peek().Kind == TokenLParen {
				if err := p.skipBalanced(); err != nil {
					return err
				}
			}
		}
		if p.peek().Kind == TokenLBrace {
			return p.skipBalanced()
		}
		return nil
	default:
		p.advance()
		return p.skipToDeclarationEnd()
	}
}

// rejectMisplaced reports generator annotations that sit on something other
// than the declaration kind they apply to.
func (p *parser) rejectMisplaced(mods modifiers, tok Token) error {
	if a, ok := mods.annotation(adapteeAnnotations...); ok {
		return p.malformedAt(tok, "@"+a.name, "fun declaration", tok.Describe())
	}
	if a, ok := mods.annotation(controllerAnnotation); ok {
		return p.malformedAt(tok, "@"+a.name, "class declaration", tok.Describe())
	}
	if a, ok := mods.annotation(responseAnnotations...); ok {
		return p.malformedAt(tok, "@"+a.name, "class declaration", tok.Describe())
	}
	return nil
}

func (p *parser) parseClass(mods modifiers, enclosing *classDecl) error {
	kw := p.advance()
	c := &classDecl{
		kind:      kw.Text,
		mods:      mods,
		tok:       kw,
		enumClass: mods.has("enum"),
		outer:     enclosing,
	}
	if enclosing != nil {
		c.path = append(c.path, enclosing.path...)
	}
	if p.peek().Kind == TokenIdent && !p.peek().Is("constructor") {
		name := p.advance()
		c.name = name.Text
		c.tok = name
		c.path = append(c.path, name.Text)
	} else if c.kind == "object" {
		c.anonymous = !mods.has("companion")
	} else {
		if err := p.rejectMisplaced(mods, p.peek()); err != nil {
			return err
		}
		return p.skipToDeclarationEnd()
	}

	if p.peek().Kind == TokenLess {
		if err := p.skipAngles(); err != nil {
			return err
		}
	}
	if err := p.parsePrimaryConstructor(c); err != nil {
		return err
	}
	if p.peek().Kind == TokenColon {
		p.advance()
		if err := p.parseSupertypes(c); err != nil {
			return err
		}
	}
	if p.peek().Is("where") {
		if err := p.skipUntil(TokenLBrace); err != nil {
			return err
		}
	}
	if p.peek().Kind == TokenLBrace {
		if err := p.parseClassBody(c); err != nil {
			return err
		}
	}
	return p.finishClass(c)
}

func (p *parser) parsePrimaryConstructor(c *classDecl) error {
	if p.peek().Kind != TokenLParen {
		save := p.pos
		if _, err := p.parseModifiers(); err != nil {
			return err
		}
		if !p.peek().Is("constructor") || p.peekAt(1).Kind != TokenLParen {
			p.pos = save
			return nil
		}
		p.advance()
	}
	params, err := p.parseParams()
	if err != nil {
		return err
	}
	c.ctor = params
	c.hasCtor = true
	return nil
}

func (p *parser) parseSupertypes(c *classDecl) error {
	for {
		tok := p.peek()
		t, err := p.parseType("")
		if err != nil {
			return err
		}
		c.supertypes = append(c.supertypes, supertype{typ: t, tok: tok})
		if p.peek().Kind == TokenLParen {
			if err := p.skipBalanced(); err != nil {
				return err
			}
		}
		if p.peek().Is("by") {
			p.advance()
			if err := p.skipUntil(TokenComma, TokenLBrace); err != nil {
				return err
			}
		}
		if p.peek().Kind != TokenComma {
			return nil
		}
		p.advance()
	}
}

func (p *parser) parseClassBody(c *classDecl) error {
	open := p.advance()
	if c.enumClass {
		if err := p.parseEnumEntries(c); err != nil {
			return err
		}
	}
	for {
		switch p.peek().Kind {
		case TokenRBrace:
			p.advance()
			return nil
		case TokenEOF:
			return p.malformedAt(open, "", fmt.Sprintf("closing '}' of %s %s", c.kind, c.name), "end of file")
		}
		if err := p.parseDeclaration(c); err != nil {
			return err
		}
	}
}

func (p *parser) parseEnumEntries(c *classDecl) error {
	for {
		mods, err := p.parseModifiers()
		if err != nil {
			return err
		}
		tok := p.peek()
		switch tok.Kind {
		case TokenSemicolon:
			p.advance()
			return nil
		case TokenRBrace:
			return nil
		case TokenIdent:
		default:
			return p.malformed(tok, "", "enum entry")
		}
		p.advance()
		member := meta.EnumMember{Name: tok.Text, WireValue: tok.Text}
		if a, ok := mods.annotation(serialNameAnnotation); ok {
			value, isString := a.stringArg("value")
			if !isString {
				return p.malformedAt(a.tok, "@"+a.name, `@SerialName("value")`, describeArg(a))
			}
			member.WireValue = value
		}
		c.entries = append(c.entries, member)
		if p.peek().Kind == TokenLParen {
			if err := p.skipBalanced(); err != nil {
				return err
			}
		}
		if p.peek().Kind == TokenLBrace {
			if err := p.skipBalanced(); err != nil {
				return err
			}
		}
		if p.peek().Kind == TokenComma {
			p.advance()
		}
	}
}

func (p *parser) finishClass(c *classDecl) error {
	if c.mods.has("companion") && c.name == "" && c.outer != nil {
		c.name = c.outer.name
	}
	if a, ok := c.mods.annotation(controllerAnnotation); ok {
		if err := p.addController(c, a); err != nil {
			return err
		}
	} else if c.mods.has("companion") && c.outer != nil {
		c.outer.methods = append(c.outer.methods, c.methods...)
	} else if len(c.methods) > 0 {
		p.md.Controllers = append(p.md.Controllers, &meta.SimpleController{
			Name:    c.name,
			Package: p.pkg,
			Import:  p.importPath(c),
			Methods: c.methods,
			Pos:     p.pos2meta(c.tok),
		})
	}
	if a, ok := c.mods.annotation(responseAnnotations...); ok {
		return p.addResponse(c, a)
	}
	return nil
}

func (p *parser) addController(c *classDecl, a annotation) error {
	ann := "@" + a.name
	if c.kind == "interface" || c.anonymous {
		return p.malformedAt(c.tok, ann, "class or object declaration", c.kind)
	}
	for _, st := range c.supertypes {
		if st.typ.name != publisherType {
			continue
		}
		if len(st.typ.args) != 1 || st.typ.args[0].star {
			return p.malformedAt(st.tok, ann, "Publisher<T> with one type argument", st.typ.raw)
		}
		if len(c.methods) > 0 {
			m := c.methods[0]
			return p.malformedAt(Token{Line: m.Pos.Line, Column: m.Pos.Column}, ann,
				"no adaptee functions on a Publisher controller", "function "+m.Function)
		}
		p.md.Controllers = append(p.md.Controllers, &meta.BroadcastController{
			Name:     c.name,
			Package:  p.pkg,
			Import:   p.importPath(c),
			Instance: c.instance(),
			Receiver: c.receiver(),
			Response: toTypeRef(st.typ.args[0]),
			Pos:      p.pos2meta(c.tok),
		})
		return nil
	}
	p.md.Controllers = append(p.md.Controllers, &meta.SimpleController{
		Name:      c.name,
		Package:   p.pkg,
		Import:    p.importPath(c),
		Methods:   c.methods,
		Annotated: true,
		Pos:       p.pos2meta(c.tok),
	})
	return nil
}

func (p *parser) addResponse(c *classDecl, a annotation) error {
	ann := "@" + a.name
	if c.enumClass {
		p.md.Enums = append(p.md.Enums, meta.Enum{
			Name:    c.name,
			Package: p.pkg,
			Members: c.entries,
			Pos:     p.pos2meta(c.tok),
		})
		return nil
	}
	if c.kind != "class" || !c.hasCtor {
		return p.malformedAt(c.tok, ann, "class with a primary constructor", c.kind+" "+c.name)
	}
	msg := meta.Message{
		Name:    c.name,
		Package: p.pkg,
		Pos:     p.pos2meta(c.tok),
	}
	for _, prm := range c.ctor {
		if !prm.property {
			continue
		}
		msg.Fields = append(msg.Fields, meta.Field{Name: prm.name, Type: toTypeRef(prm.typ)})
	}
	p.md.Messages = append(p.md.Messages, msg)
	return nil
}

func (p *parser) importPath(c *classDecl) string {
	if p.pkg == "" {
		return c.path[0]
	}
	return p.pkg + "." + c.path[0]
}

func (p *parser) parseFun(mods modifiers, enclosing *classDecl) error {
	kw := p.advance()
	if p.peek().Kind == TokenLess {
		if err := p.skipAngles(); err != nil {
			return err
		}
	}
	adaptee, isAdaptee := mods.annotation(adapteeAnnotations...)
	ann := "@" + adaptee.name

	var name Token
	for p.peek().Kind == TokenIdent {
		name = p.advance()
		if p.peek().Kind == TokenLess {
			if err := p.skipAngles(); err != nil {
				return err
			}
		}
		if p.peek().Kind == TokenQuestion {
			p.advance()
		}
		if p.peek().Kind != TokenDot {
			break
		}
		p.advance()
	}
	if name.Kind != TokenIdent || p.peek().Kind != TokenLParen {
		if isAdaptee {
			return p.malformed(p.peek(), ann, "function name and parameter list")
		}
		return p.skipToDeclarationEnd()
	}

	params, err := p.parseParams()
	if err != nil {
		return err
	}
	var ret *typeNode
	afterParams := p.peek()
	if afterParams.Kind == TokenColon {
		p.advance()
		if ret, err = p.parseType(ann); err != nil {
			return err
		}
	}
	if p.peek().Is("where") {
		if err := p.skipUntil(TokenLBrace, TokenAssign); err != nil {
			return err
		}
	}
	switch p.peek().Kind {
	case TokenLBrace:
		if err := p.skipBalanced(); err != nil {
			return err
		}
	case TokenAssign:
		p.advance()
		if err := p.skipToDeclarationEnd(); err != nil {
			return err
		}
	}
	if !isAdaptee {
		if _, ok := mods.annotation(contextAnnotation); ok {
			return p.malformedAt(kw, "@"+contextAnnotation, "@Event or @KlutterAdaptee on the same function", "fun "+name.Text)
		}
		return nil
	}

	if enclosing == nil {
		return p.malformedAt(kw, ann, "function inside a class or object", "top-level fun "+name.Text)
	}
	if enclosing.kind == "interface" || enclosing.anonymous {
		return p.malformedAt(kw, ann, "function inside a class or object", "fun "+name.Text+" in "+enclosing.kind)
	}
	command, ok := adaptee.stringArg("name")
	if !ok {
		return p.malformedAt(adaptee.tok, ann, ann+`("command") or `+ann+`(name = "command")`, describeArg(adaptee))
	}
	if ret == nil {
		return p.malformedAt(afterParams, ann, "explicit return type ': Type'", afterParams.Describe())
	}
	_, needsContext := mods.annotation(contextAnnotation)
	if len(params) == 1 {
		if _, ok := params[0].mods.annotation(contextAnnotation); ok {
			needsContext = true
		}
	}
	switch {
	case len(params) > 1:
		return p.malformedAt(params[1].tok, ann, "no parameters or a single context parameter", fmt.Sprintf("%d parameters", len(params)))
	case len(params) == 1 && !needsContext:
		return p.malformedAt(params[0].tok, ann, "@AndroidContext for parameter "+params[0].name, "parameter without @AndroidContext")
	case len(params) == 0 && needsContext:
		return p.malformedAt(afterParams, "@"+contextAnnotation, "a single context parameter", "no parameters")
	}

	args := ""
	if needsContext {
		args = "context"
	}
	enclosing.methods = append(enclosing.methods, meta.Method{
		Command:                 command,
		Import:                  p.importPath(enclosing),
		CallExpression:          fmt.Sprintf("%s.%s(%s)", enclosing.instance(), name.Text, args),
		Async:                   mods.has("suspend"),
		ReturnType:              toTypeRef(ret),
		RequiresPlatformContext: needsContext,
		Receiver:                enclosing.receiver(),
		Owner:                   strings.Join(enclosing.path, "."),
		Function:                name.Text,
		Pos:                     p.pos2meta(adaptee.tok),
	})
	return nil
}

func (p *parser) parseParams() ([]param, error) {
	open, err := p.expect(TokenLParen, "", "'('")
	if err != nil {
		return nil, err
	}
	var params []param
	for {
		switch p.peek().Kind {
		case TokenRParen:
			p.advance()
			return params, nil
		case TokenComma:
			p.advance()
			continue
		case TokenEOF:
			return nil, p.malformedAt(open, "", "closing ')' of parameter list", "end of file")
		}
		mods, err := p.parseModifiers()
		if err != nil {
			return nil, err
		}
		prm := param{mods: mods, tok: p.peek()}
		if p.peek().Is("val") || p.peek().Is("var") {
			prm.property = true
			p.advance()
		}
		name, err := p.expect(TokenIdent, "", "parameter name")
		if err != nil {
			return nil, err
		}
		prm.name = name.Text
		if _, err := p.expect(TokenColon, "", "':' after parameter "+name.Text); err != nil {
			return nil, err
		}
		if prm.typ, err = p.parseType(""); err != nil {
			return nil, err
		}
		if p.peek().Kind == TokenAssign {
			p.advance()
			if err := p.skipUntil(TokenComma, TokenRParen); err != nil {
				return nil, err
			}
		}
		params = append(params, prm)
	}
}

// parseType reads a type reference. ann names the annotation the type
// belongs to, for diagnostics.
func (p *parser) parseType(ann string) (*typeNode, error) {
	for p.peek().Kind == TokenAnnotation {
		if _, err := p.parseAnnotation(); err != nil {
			return nil, err
		}
	}
	first := p.peek()
	t := &typeNode{}
	switch {
	case first.Is("suspend") && p.peekAt(1).Kind == TokenLParen:
		p.advance()
		fallthrough
	case p.peek().Kind == TokenLParen:
		if err := p.skipBalanced(); err != nil {
			return nil, err
		}
		if p.peek().Text == "-" && p.peekAt(1).Kind == TokenGreater {
			p.advance()
			p.advance()
			if _, err := p.parseType(ann); err != nil {
				return nil, err
			}
		}
		t.name = string(p.src[first.Start:p.prev().End])
	case first.Kind == TokenIdent:
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		t.name = name[strings.LastIndex(name, ".")+1:]
		if p.peek().Kind == TokenLess {
			if t.args, err = p.parseTypeArgs(ann); err != nil {
				return nil, err
			}
		}
	default:
		return nil, p.malformed(first, ann, "type")
	}
	if p.peek().Kind == TokenQuestion {
		p.advance()
		t.nullable = true
	}
	t.raw = string(p.src[first.Start:p.prev().End])
	return t, nil
}

func (p *parser) parseTypeArgs(ann string) ([]*typeNode, error) {
	open := p.advance()
	var args []*typeNode
	for {
		switch tok := p.peek(); {
		case tok.Kind == TokenGreater:
			p.advance()
			return args, nil
		case tok.Kind == TokenComma:
			p.advance()
		case tok.Kind == TokenOperator && tok.Text == "*":
			p.advance()
			args = append(args, &typeNode{name: "*", star: true, raw: "*"})
		case tok.Kind == TokenEOF:
			return nil, p.malformedAt(open, ann, "closing '>' of type arguments", "end of file")
		default:
			if (tok.Is("out") || tok.Is("in")) && p.peekAt(1).Kind == TokenIdent {
				p.advance()
			}
			arg, err := p.parseType(ann)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
}

// toTypeRef normalizes a parsed type. List<T> and MutableList<T> become list
// references; other generic types keep their source text as name and are
// resolved (and rejected) like any unknown custom type.
func toTypeRef(t *typeNode) meta.TypeRef {
	ref := meta.TypeRef{
		Name:     t.name,
		Nullable: t.nullable,
		Raw:      t.raw,
	}
	switch {
	case (t.name == "List" || t.name == "MutableList") && len(t.args) == 1 && !t.args[0].star:
		el := t.args[0]
		ref.List = true
		ref.ElementNullable = el.nullable
		ref.Name = el.name
		if len(el.args) > 0 {
			ref.Name = strings.TrimSuffix(el.raw, "?")
		}
	case len(t.args) > 0:
		ref.Name = strings.TrimSuffix(t.raw, "?")
	}
	ref.Custom = !typemap.IsPrimitive(ref.Name)
	return ref
}

func describeArg(a annotation) string {
	if len(a.args) == 0 {
		return "no arguments"
	}
	arg := a.args[0]
	if arg.value == "" {
		return "empty argument"
	}
	return arg.value
}
