package parser

import (
	"github.com/nilq/icecream/internal/ast"
	"github.com/nilq/icecream/internal/compiler_errors"
	"github.com/nilq/icecream/internal/lexer"
)

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinaryExpr(0)
}

// parseBinaryExpr is precedence climbing over lexer.TokenKind.Precedence.
// Operators bind left to right except assignment, whose right side is
// parsed at its own precedence so that a = b = c is a = (b = c).
func (p *Parser) parseBinaryExpr(minPrecedence int) ast.Expr {
	p.enter()
	defer p.leave()

	left := p.parseUnaryExpr()

	for {
		op := p.curr
		precedence := op.Kind.Precedence()
		if precedence < 0 {
			if isStrayOperator(op.Kind) {
				p.fail(compiler_errors.UnknownOperator, "unknown operator: '%s'", describe(op))
			}
			return left
		}

		if precedence < minPrecedence {
			return left
		}
		p.read()

		nextPrecedence := precedence + 1
		if op.Kind == lexer.ASSIGN {
			nextPrecedence = precedence
		}
		right := p.parseBinaryExpr(nextPrecedence)

		left = p.combine(op, left, right)
	}
}

func (p *Parser) combine(op *lexer.Token, left, right ast.Expr) ast.Expr {
	switch op.Kind {
	case lexer.ASSIGN:
		return &ast.AssignExpr{
			StartToken: left.FirstToken(),

			Left:  left,
			Right: right,
		}
	case lexer.DOT:
		return &ast.FieldAccessExpr{
			StartToken: left.FirstToken(),

			Left:  left,
			Right: right,
		}
	}

	binaryOp, ok := ast.BinaryOpFor(op.Kind)
	if !ok {
		p.fail(compiler_errors.Internal, "operator '%s' has a precedence but no expression node", describe(op))
	}

	return &ast.BinaryExpr{
		StartToken: left.FirstToken(),

		Op:    binaryOp,
		Left:  left,
		Right: right,
	}
}

// isStrayOperator reports operator tokens that have no infix meaning.
// Seeing one right after an expression is an error rather than the end
// of the expression.
func isStrayOperator(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.BAND, lexer.ARROW, lexer.COLON:
		return true
	}
	return false
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	if !p.isCurrAny(lexer.TILDE, lexer.MINUS) {
		return p.parsePrimaryExpr()
	}

	p.enter()
	defer p.leave()

	op := p.curr
	p.read()

	prefixOp := ast.PrefixNot
	if op.Kind == lexer.MINUS {
		prefixOp = ast.PrefixNeg
	}

	return &ast.PrefixExpr{
		StartToken: op,

		Op:    prefixOp,
		Right: p.parseUnaryExpr(),
	}
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	startToken := p.curr

	switch startToken.Kind {
	case lexer.INT:
		p.read()
		return &ast.IntExpr{
			StartToken: startToken,

			Value: startToken.Int,
		}
	case lexer.FLOAT:
		p.read()
		return &ast.FloatExpr{
			StartToken: startToken,

			Value: startToken.Float,
		}
	case lexer.TEXT:
		p.read()
		return &ast.TextExpr{
			StartToken: startToken,

			Value: startToken.Value,
		}
	case lexer.TRUE, lexer.FALSE:
		p.read()
		return &ast.BoolExpr{
			StartToken: startToken,

			Value: startToken.Kind == lexer.TRUE,
		}
	case lexer.IDENT:
		return p.parseIdentLedExpr()
	case lexer.LPAREN:
		return p.parseParenExpr()
	case lexer.LAMBDA:
		return p.parseLambdaExpr()
	case lexer.EOF:
		p.fail(compiler_errors.UnexpectedEOF, "unexpected end of input, expected expression")
	}

	p.fail(compiler_errors.UnexpectedToken, "unexpected token: '%s', expected expression", describe(startToken))
	panic("unreachable")
}

// parseIdentLedExpr parses an identifier and the call or index suffix
// that may follow it.
func (p *Parser) parseIdentLedExpr() ast.Expr {
	p.expect(lexer.IDENT)
	startToken := p.curr
	name := p.curr.Value
	p.read()

	switch p.curr.Kind {
	case lexer.LPAREN:
		return &ast.CallExpr{
			StartToken: startToken,

			Name: name,
			Args: p.parseCallArgs(),
		}
	case lexer.LBRACKET:
		p.read()
		index := p.parseExpr()

		p.expect(lexer.RBRACKET)
		p.read()

		return &ast.IndexExpr{
			StartToken: startToken,

			Name:  name,
			Index: index,
		}
	}

	return &ast.IdentExpr{
		StartToken: startToken,

		Value: name,
	}
}

func (p *Parser) parseCallArgs() []ast.Expr {
	p.expect(lexer.LPAREN)
	p.read()

	args := make([]ast.Expr, 0)
	if p.curr.Kind != lexer.RPAREN {
		for {
			args = append(args, p.parseExpr())

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

func (p *Parser) parseParenExpr() ast.Expr {
	p.expect(lexer.LPAREN)
	p.read()

	expr := p.parseExpr()

	p.expectClosingParen()
	p.read()

	return expr
}

func (p *Parser) parseLambdaExpr() *ast.LambdaExpr {
	p.expect(lexer.LAMBDA)
	startToken := p.curr
	p.read()

	args := p.parseFuncArgs("lambda is missing parameters")
	returnType := p.parseReturnType()

	body := p.parseBlock(lexer.END)
	p.expectEnd(startToken)
	p.read()

	return &ast.LambdaExpr{
		StartToken: startToken,

		Args:       args,
		ReturnType: returnType,
		Body:       body,
	}
}
