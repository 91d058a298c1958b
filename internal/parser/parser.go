package parser

import (
	"errors"
	"io"
	"slices"

	"github.com/nilq/icecream/internal/ast"
	"github.com/nilq/icecream/internal/compiler_errors"
	"github.com/nilq/icecream/internal/lexer"
)

const DefaultMaxDepth = 256

// Consumer receives each top-level item as soon as it has been parsed.
// The code generator is the usual consumer.
type Consumer interface {
	ConsumeFunc(fn *ast.FuncDeclStmt) error
	ConsumeStmt(stmt ast.Stmt) error
}

type Option func(*Parser)

func WithFileName(fileName string) Option {
	return func(p *Parser) {
		p.fileName = fileName
	}
}

// WithMaxDepth bounds statement and expression nesting. Values below one
// keep the default.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// bailout carries the first error up to the public entry point that
// started the parse.
type bailout struct {
	err *compiler_errors.Error
}

type Parser struct {
	fileName string

	scanner lexer.TokenScanner

	curr *lexer.Token
	err  error

	depth    int
	maxDepth int
}

func NewParser(scanner lexer.TokenScanner, opts ...Option) *Parser {
	p := &Parser{
		scanner:  scanner,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseSource parses a whole compilation unit.
func ParseSource(src []byte, opts ...Option) (*ast.TranslationUnit, error) {
	return newSourceParser(src, opts...).Parse()
}

// ParseExprSource parses src as exactly one expression.
func ParseExprSource(src []byte, opts ...Option) (ast.Expr, error) {
	p := newSourceParser(src, opts...)

	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}

	return expr, nil
}

func newSourceParser(src []byte, opts ...Option) *Parser {
	return NewParser(lexer.NewLexerTokenScanner(lexer.NewLexer(src)), opts...)
}

// Parse consumes the rest of the input as a sequence of top-level items.
func (p *Parser) Parse() (*ast.TranslationUnit, error) {
	translationUnit := &ast.TranslationUnit{
		Stmts: make([]ast.Stmt, 0),
	}

	for {
		stmt, err := p.Next()
		if errors.Is(err, io.EOF) {
			return translationUnit, nil
		}
		if err != nil {
			return nil, err
		}

		translationUnit.Stmts = append(translationUnit.Stmts, stmt)
	}
}

// Next parses the next top-level item. It returns io.EOF once the input
// is exhausted between items.
func (p *Parser) Next() (stmt ast.Stmt, err error) {
	if p.err != nil {
		return nil, p.err
	}
	defer p.recover(&err)

	p.prime()
	if p.curr.Kind == lexer.EOF {
		return nil, io.EOF
	}

	return p.parseStmt(), nil
}

// Stream hands every top-level item to c in source order. Parsing stops
// at the first parse error or the first error returned by c.
func (p *Parser) Stream(c Consumer) error {
	for {
		stmt, err := p.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if funcDecl, ok := stmt.(*ast.FuncDeclStmt); ok {
			err = c.ConsumeFunc(funcDecl)
		} else {
			err = c.ConsumeStmt(stmt)
		}
		if err != nil {
			return err
		}
	}
}

func (p *Parser) ParseExpr() (expr ast.Expr, err error) {
	if p.err != nil {
		return nil, p.err
	}
	defer p.recover(&err)

	p.prime()
	return p.parseExpr(), nil
}

func (p *Parser) ParseStmt() (stmt ast.Stmt, err error) {
	if p.err != nil {
		return nil, p.err
	}
	defer p.recover(&err)

	p.prime()
	return p.parseStmt(), nil
}

func (p *Parser) ParseFunc() (funcDecl *ast.FuncDeclStmt, err error) {
	if p.err != nil {
		return nil, p.err
	}
	defer p.recover(&err)

	p.prime()
	return p.parseFuncDeclStmt(), nil
}

// ExpectEOF fails unless every token has been consumed.
func (p *Parser) ExpectEOF() (err error) {
	if p.err != nil {
		return p.err
	}
	defer p.recover(&err)

	p.prime()
	if p.curr.Kind != lexer.EOF {
		p.fail(compiler_errors.UnexpectedToken, "unexpected token: '%s', expected end of input", describe(p.curr))
	}

	return nil
}

func (p *Parser) parseStmt() ast.Stmt {
	p.enter()
	defer p.leave()

	switch p.curr.Kind {
	case lexer.IF, lexer.UNLESS:
		return p.parseIfStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.FUNC:
		return p.parseFuncDeclStmt()
	case lexer.VAR:
		return p.parseVarDeclStmt()
	case lexer.LBRACE:
		return p.parseBraceBlockStmt()
	case lexer.END, lexer.ELSE, lexer.RBRACE:
		p.fail(compiler_errors.UnexpectedToken, "unexpected token: '%s' outside of a block", describe(p.curr))
	}

	return p.parseExprStmt()
}

// parseIfStmt handles both if and unless. The condition of an unless is
// stored negated, so consumers only ever see if statements.
func (p *Parser) parseIfStmt() ast.Stmt {
	p.expectAny(lexer.IF, lexer.UNLESS)
	startToken := p.curr
	p.read()

	cond := p.parseExpr()
	if startToken.Kind == lexer.UNLESS {
		cond = &ast.PrefixExpr{
			StartToken: startToken,

			Op:    ast.PrefixNot,
			Right: cond,
		}
	}

	body := p.parseBlock(lexer.ELSE, lexer.END)

	if p.curr.Kind != lexer.ELSE {
		p.expectEnd(startToken)
		p.read()

		return &ast.IfStmt{
			StartToken: startToken,

			Cond: cond,
			Body: body,
		}
	}

	p.read()
	elseBody := p.parseBlock(lexer.END)

	p.expectEnd(startToken)
	p.read()

	return &ast.IfElseStmt{
		StartToken: startToken,

		Cond: cond,
		Body: body,
		Else: elseBody,
	}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	p.expect(lexer.RETURN)
	startToken := p.curr
	p.read()

	if !p.startsExpr() {
		return &ast.ReturnStmt{
			StartToken: startToken,
		}
	}

	return &ast.ReturnValueStmt{
		StartToken: startToken,

		Expr: p.parseExpr(),
	}
}

func (p *Parser) parseFuncDeclStmt() *ast.FuncDeclStmt {
	p.expect(lexer.FUNC)
	startToken := p.curr
	p.read()

	name := p.parseFuncName()
	args := p.parseFuncArgs("function declaration is missing parameters")
	returnType := p.parseReturnType()

	body := p.parseBlock(lexer.END)
	p.expectEnd(startToken)
	p.read()

	return &ast.FuncDeclStmt{
		StartToken: startToken,

		Name:       name,
		Args:       args,
		ReturnType: returnType,
		Body:       body,
	}
}

func (p *Parser) parseFuncName() string {
	if p.curr.Kind != lexer.IDENT {
		p.fail(compiler_errors.FnMissingName, "function declaration is missing name")
	}
	name := p.curr.Value
	p.read()

	for p.curr.Kind == lexer.DOT {
		p.read()

		if p.curr.Kind != lexer.IDENT {
			p.fail(compiler_errors.FnMissingName, "expected name after '.' in function name '%s'", name)
		}
		name += "." + p.curr.Value
		p.read()
	}

	return name
}

func (p *Parser) parseFuncArgs(missingMessage string) []ast.FuncArg {
	if p.curr.Kind != lexer.LPAREN {
		p.fail(compiler_errors.FnMissingParameters, "%s", missingMessage)
	}
	p.read()

	args := make([]ast.FuncArg, 0)
	if p.curr.Kind != lexer.RPAREN {
		for {
			p.expect(lexer.IDENT)
			argName := p.curr.Value
			p.read()

			p.expect(lexer.COLON)
			p.read()

			p.expect(lexer.IDENT)
			argType := p.curr.Value
			p.read()

			args = append(args, ast.FuncArg{
				Name: argName,
				Type: argType,
			})

			if p.curr.Kind != lexer.COMMA {
				break
			}
			p.read()
		}
	}

	p.expectClosingParen()
	p.read()

	return args
}

func (p *Parser) parseReturnType() string {
	if p.curr.Kind != lexer.ARROW {
		return ""
	}
	p.read()

	p.expect(lexer.IDENT)
	returnType := p.curr.Value
	p.read()

	return returnType
}

func (p *Parser) parseVarDeclStmt() *ast.VarDeclStmt {
	p.expect(lexer.VAR)
	startToken := p.curr
	p.read()

	p.expect(lexer.IDENT)
	name := p.curr.Value
	p.read()

	var value ast.Expr
	if p.curr.Kind == lexer.ASSIGN {
		p.read()
		value = p.parseExpr()
	}

	return &ast.VarDeclStmt{
		StartToken: startToken,

		Name:  name,
		Value: value,
	}
}

func (p *Parser) parseBraceBlockStmt() *ast.BlockStmt {
	p.expect(lexer.LBRACE)
	startToken := p.curr
	p.read()

	block := p.parseBlock(lexer.RBRACE)
	block.StartToken = startToken

	if p.curr.Kind == lexer.EOF {
		p.fail(compiler_errors.UnexpectedEOF, "unexpected end of input, expected '}'")
	}
	p.expect(lexer.RBRACE)
	p.read()

	return block
}

// parseBlock collects statements up to, not including, one of the
// terminators or the end of input.
func (p *Parser) parseBlock(terminators ...lexer.TokenKind) *ast.BlockStmt {
	startToken := p.curr

	stmts := make([]ast.Stmt, 0)
	for p.curr.Kind != lexer.EOF && !p.isCurrAny(terminators...) {
		stmts = append(stmts, p.parseStmt())
	}

	return &ast.BlockStmt{
		StartToken: startToken,

		Stmts: stmts,
	}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	return &ast.ExprStmt{
		Expr: p.parseExpr(),
	}
}

func (p *Parser) startsExpr() bool {
	return p.isCurrAny(
		lexer.INT,
		lexer.FLOAT,
		lexer.TEXT,
		lexer.IDENT,
		lexer.TRUE,
		lexer.FALSE,
		lexer.LPAREN,
		lexer.TILDE,
		lexer.MINUS,
		lexer.LAMBDA,
	)
}

func (p *Parser) prime() {
	if p.curr == nil {
		p.read()
	}
}

func (p *Parser) read() *lexer.Token {
	token, err := p.scanner.Read()
	if err != nil {
		p.failWith(err)
	}
	p.curr = &token

	if token.Kind == lexer.ILLEGAL {
		p.fail(compiler_errors.InvalidCharacter, "illegal character in input stream: '%s'", token.Value)
	}

	return p.curr
}

func (p *Parser) expect(kind lexer.TokenKind) {
	if p.curr.Kind == kind {
		return
	}

	if p.curr.Kind == lexer.EOF {
		p.fail(compiler_errors.UnexpectedEOF, "unexpected end of input, expected: '%s'", kind)
	}

	p.fail(compiler_errors.UnexpectedToken, "unexpected token: '%s', expected: '%s'", describe(p.curr), kind)
}

func (p *Parser) expectAny(kinds ...lexer.TokenKind) {
	if p.isCurrAny(kinds...) {
		return
	}

	p.fail(compiler_errors.UnexpectedToken, "unexpected token: '%s', expected one of: %v", describe(p.curr), kinds)
}

func (p *Parser) expectClosingParen() {
	if p.curr.Kind != lexer.RPAREN {
		p.fail(compiler_errors.MissingRParen, "expected ')', but got: '%s'", describe(p.curr))
	}
}

func (p *Parser) expectEnd(opener *lexer.Token) {
	if p.curr.Kind == lexer.END {
		return
	}

	if p.curr.Kind == lexer.EOF {
		p.fail(compiler_errors.UnexpectedEOF,
			"unexpected end of input, expected 'end' to close '%s' at %d:%d",
			opener.Value, opener.Metadata.Line, opener.Metadata.Column)
	}

	p.fail(compiler_errors.UnexpectedToken, "unexpected token: '%s', expected: 'end'", describe(p.curr))
}

func (p *Parser) isCurrAny(kinds ...lexer.TokenKind) bool {
	return slices.Contains(kinds, p.curr.Kind)
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > p.maxDepth {
		p.fail(compiler_errors.NestingTooDeep, "nesting exceeds %d levels", p.maxDepth)
	}
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) fail(kind compiler_errors.ErrorKind, format string, args ...any) {
	err := compiler_errors.New(kind, format, args...).InFile(p.fileName)
	if p.curr != nil {
		err.At(p.curr.Metadata.Line, p.curr.Metadata.Column, p.curr.Metadata.Length)
	}

	panic(bailout{err: err})
}

func (p *Parser) failWith(err error) {
	var compilerErr *compiler_errors.Error
	if !errors.As(err, &compilerErr) {
		p.fail(compiler_errors.Internal, "%v", err)
	}

	panic(bailout{err: compilerErr.InFile(p.fileName)})
}

// recover turns a bailout into the entry point's error and makes it
// sticky. Any other panic is a bug and keeps unwinding.
func (p *Parser) recover(err *error) {
	r := recover()
	if r == nil {
		return
	}

	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}

	p.depth = 0
	p.err = b.err
	*err = b.err
}

func describe(token *lexer.Token) string {
	if token.Value == "" {
		return token.Kind.String()
	}
	return token.Value
}
