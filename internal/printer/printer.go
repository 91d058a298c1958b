package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nilq/icecream/internal/ast"
	"github.com/nilq/icecream/internal/lexer"
)

const indentUnit = "    "

// Precedence of nodes that never need parentheses.
const atomPrecedence = 1000

type printer struct {
	sb     strings.Builder
	indent int
}

// Print renders a node back to source text. Parentheses are emitted only
// where the precedence table would otherwise regroup the tree.
func Print(node ast.AstNode) string {
	p := &printer{}

	switch node := node.(type) {
	case ast.Stmt:
		p.printStmt(node, false)
	case ast.Expr:
		p.printExpr(node)
	default:
		panic(fmt.Sprintf("printer: unknown node %T", node))
	}

	return p.sb.String()
}

// PrintUnit renders every top-level item of tu, one per line.
func PrintUnit(tu *ast.TranslationUnit) string {
	p := &printer{}
	p.printStmts(tu.Stmts, false)
	return p.sb.String()
}

// printStmts writes stmts one per line. afterExpr reports whether the
// text just before the first statement ends in an expression.
func (p *printer) printStmts(stmts []ast.Stmt, afterExpr bool) {
	layouts, _ := layoutStmts(stmts, afterExpr)
	for i, stmt := range stmts {
		p.writeIndent()
		if layouts[i].wrap {
			// Without parentheses the statement would continue the
			// previous expression as a subtraction.
			p.sb.WriteString("(")
			p.printExpr(stmt.(*ast.ExprStmt).Expr)
			p.sb.WriteString(")")
		} else {
			p.printStmt(stmt, layouts[i].guard)
		}
		p.sb.WriteString("\n")
	}
}

// printStmt writes stmt. guard closes off a trailing identifier that the
// next statement's '(' would otherwise turn into a call.
func (p *printer) printStmt(stmt ast.Stmt, guard bool) {
	switch stmt := stmt.(type) {
	case *ast.BlockStmt:
		p.sb.WriteString("{\n")
		p.printBody(stmt, false)
		p.writeIndent()
		p.sb.WriteString("}")
	case *ast.FuncDeclStmt:
		p.sb.WriteString("func ")
		p.sb.WriteString(stmt.Name)
		p.printSignature(stmt.Args, stmt.ReturnType)
		p.sb.WriteString("\n")
		p.printBody(stmt.Body, false)
		p.writeIndent()
		p.sb.WriteString("end")
	case *ast.VarDeclStmt:
		p.sb.WriteString("var ")
		p.sb.WriteString(stmt.Name)
		if stmt.Value != nil {
			p.sb.WriteString(" = ")
			p.printTail(stmt.Value, guard)
		}
	case *ast.IfStmt:
		p.printCond(stmt.Cond, stmt.Body)
		p.printBody(stmt.Body, true)
		p.writeIndent()
		p.sb.WriteString("end")
	case *ast.IfElseStmt:
		p.printCond(stmt.Cond, stmt.Body)
		p.printBody(stmt.Body, true)
		p.writeIndent()
		p.sb.WriteString("else\n")
		p.printBody(stmt.Else, false)
		p.writeIndent()
		p.sb.WriteString("end")
	case *ast.ExprStmt:
		p.printTail(stmt.Expr, guard)
	case *ast.ReturnStmt:
		p.sb.WriteString("return")
	case *ast.ReturnValueStmt:
		p.sb.WriteString("return ")
		p.printTail(stmt.Expr, guard)
	default:
		panic(fmt.Sprintf("printer: unknown statement %T", stmt))
	}
}

func (p *printer) printCond(cond ast.Expr, body ast.Stmt) {
	_, opensParen := layoutStmts(bodyStmts(body), true)

	p.sb.WriteString("if ")
	p.printTail(cond, opensParen)
	p.sb.WriteString("\n")
}

func (p *printer) printTail(expr ast.Expr, guard bool) {
	p.printOperand(expr, guard && endsInIdent(expr))
}

// printBody writes the statements of a block one level deeper, without
// the braces; the enclosing construct supplies its own terminator.
func (p *printer) printBody(body ast.Stmt, afterExpr bool) {
	p.indent++
	defer func() { p.indent-- }()

	p.printStmts(bodyStmts(body), afterExpr)
}

func bodyStmts(body ast.Stmt) []ast.Stmt {
	if block, ok := body.(*ast.BlockStmt); ok {
		return block.Stmts
	}
	return []ast.Stmt{body}
}

type stmtLayout struct {
	wrap  bool
	guard bool
}

// layoutStmts decides which statements need parentheses to keep them
// apart from their neighbours. opensParen reports whether the first
// statement will be printed starting with '('.
func layoutStmts(stmts []ast.Stmt, afterExpr bool) (layouts []stmtLayout, opensParen bool) {
	layouts = make([]stmtLayout, len(stmts))
	for i, stmt := range stmts {
		layouts[i].wrap = afterExpr && startsWith(stmt, "-")
		afterExpr = endsInExpr(stmt)
	}

	for i := len(stmts) - 1; i >= 0; i-- {
		layout := &layouts[i]
		layout.guard = opensParen && !layout.wrap && endsInExprIdent(stmts[i])

		_, isExprStmt := stmts[i].(*ast.ExprStmt)
		opensParen = layout.wrap || (isExprStmt && layout.guard) || startsWith(stmts[i], "(")
	}

	return layouts, opensParen
}

func (p *printer) printSignature(args []ast.FuncArg, returnType string) {
	p.sb.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(arg.Name)
		p.sb.WriteString(": ")
		p.sb.WriteString(arg.Type)
	}
	p.sb.WriteString(")")

	if returnType != "" {
		p.sb.WriteString(" -> ")
		p.sb.WriteString(returnType)
	}
}

func (p *printer) printExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.IntExpr:
		p.sb.WriteString(strconv.FormatInt(expr.Value, 10))
	case *ast.FloatExpr:
		p.sb.WriteString(formatFloat(expr.Value))
	case *ast.TextExpr:
		p.sb.WriteString(quote(expr.Value))
	case *ast.BoolExpr:
		p.sb.WriteString(strconv.FormatBool(expr.Value))
	case *ast.IdentExpr:
		p.sb.WriteString(expr.Value)
	case *ast.CallExpr:
		p.sb.WriteString(expr.Name)
		p.sb.WriteString("(")
		for i, arg := range expr.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printExpr(arg)
		}
		p.sb.WriteString(")")
	case *ast.IndexExpr:
		p.sb.WriteString(expr.Name)
		p.sb.WriteString("[")
		p.printExpr(expr.Index)
		p.sb.WriteString("]")
	case *ast.AssignExpr:
		p.printInfix(lexer.ASSIGN, " = ", expr.Left, expr.Right)
	case *ast.FieldAccessExpr:
		p.printInfix(lexer.DOT, ".", expr.Left, expr.Right)
	case *ast.BinaryExpr:
		p.printInfix(expr.Op.Token(), " "+expr.Op.String()+" ", expr.Left, expr.Right)
	case *ast.PrefixExpr:
		p.sb.WriteString(expr.Op.String())
		p.printOperand(expr.Right, precedenceOf(expr.Right) < atomPrecedence)
	case *ast.LambdaExpr:
		p.sb.WriteString("lambda")
		p.printSignature(expr.Args, expr.ReturnType)
		p.sb.WriteString("\n")
		p.printBody(expr.Body, false)
		p.writeIndent()
		p.sb.WriteString("end")
	default:
		panic(fmt.Sprintf("printer: unknown expression %T", expr))
	}
}

// printInfix parenthesizes an operand that binds looser than op, or binds
// equally on the side that associativity would not group it with.
func (p *printer) printInfix(op lexer.TokenKind, symbol string, left, right ast.Expr) {
	precedence := op.Precedence()
	rightAssoc := op == lexer.ASSIGN

	leftPrecedence := precedenceOf(left)
	p.printOperand(left, leftPrecedence < precedence || (rightAssoc && leftPrecedence == precedence))

	p.sb.WriteString(symbol)

	rightPrecedence := precedenceOf(right)
	p.printOperand(right, rightPrecedence < precedence || (!rightAssoc && rightPrecedence == precedence))
}

func (p *printer) printOperand(expr ast.Expr, parens bool) {
	if !parens {
		p.printExpr(expr)
		return
	}

	p.sb.WriteString("(")
	p.printExpr(expr)
	p.sb.WriteString(")")
}

func (p *printer) writeIndent() {
	p.sb.WriteString(strings.Repeat(indentUnit, p.indent))
}

func precedenceOf(expr ast.Expr) int {
	switch expr := expr.(type) {
	case *ast.AssignExpr:
		return lexer.ASSIGN.Precedence()
	case *ast.FieldAccessExpr:
		return lexer.DOT.Precedence()
	case *ast.BinaryExpr:
		return expr.Op.Token().Precedence()
	}
	return atomPrecedence
}

func endsInExpr(stmt ast.Stmt) bool {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt, *ast.ReturnValueStmt:
		return true
	case *ast.VarDeclStmt:
		return stmt.Value != nil
	}
	return false
}

func endsInExprIdent(stmt ast.Stmt) bool {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		return endsInIdent(stmt.Expr)
	case *ast.ReturnValueStmt:
		return endsInIdent(stmt.Expr)
	case *ast.VarDeclStmt:
		return stmt.Value != nil && endsInIdent(stmt.Value)
	}
	return false
}

// endsInIdent reports whether the printed form of expr ends in an
// identifier, which a following '(' would turn into a call.
func endsInIdent(expr ast.Expr) bool {
	tokens, err := lexer.NewLexer([]byte(Print(expr))).Tokenize()
	if err != nil || len(tokens) < 2 {
		return false
	}
	return tokens[len(tokens)-2].Kind == lexer.IDENT
}

func startsWith(stmt ast.Stmt, prefix string) bool {
	exprStmt, ok := stmt.(*ast.ExprStmt)
	if !ok {
		return false
	}
	return strings.HasPrefix(Print(exprStmt.Expr), prefix)
}

// formatFloat keeps a '.' in the output so the literal reads back as a
// float rather than an int.
func formatFloat(value float64) string {
	text := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(text, ".") {
		text += ".0"
	}
	return text
}

func quote(text string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range text {
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
