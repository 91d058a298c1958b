package ast

import "github.com/nilq/icecream/internal/lexer"

type BinaryOp int

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryLt
	BinaryGt
	BinaryEq
	BinaryNeq
	BinaryAnd
)

var binaryOpsByToken = map[lexer.TokenKind]BinaryOp{
	lexer.PLUS:     BinaryAdd,
	lexer.MINUS:    BinarySub,
	lexer.ASTERISK: BinaryMul,
	lexer.SLASH:    BinaryDiv,
	lexer.LT:       BinaryLt,
	lexer.GT:       BinaryGt,
	lexer.EQ:       BinaryEq,
	lexer.NEQ:      BinaryNeq,
	lexer.LAND:     BinaryAnd,
}

// BinaryOpFor maps an infix token to its operator. Assignment and field
// access have their own nodes and are not binary operators here.
func BinaryOpFor(kind lexer.TokenKind) (BinaryOp, bool) {
	op, ok := binaryOpsByToken[kind]
	return op, ok
}

func (op BinaryOp) Token() lexer.TokenKind {
	for kind, candidate := range binaryOpsByToken {
		if candidate == op {
			return kind
		}
	}
	panic("unreachable")
}

func (op BinaryOp) String() string {
	switch op {
	case BinaryAdd:
		return "+"
	case BinarySub:
		return "-"
	case BinaryMul:
		return "*"
	case BinaryDiv:
		return "/"
	case BinaryLt:
		return "<"
	case BinaryGt:
		return ">"
	case BinaryEq:
		return "=="
	case BinaryNeq:
		return "~="
	case BinaryAnd:
		return "&&"
	}
	panic("unreachable")
}

type PrefixOp int

const (
	PrefixNot PrefixOp = iota // ~
	PrefixNeg                 // -
)

func (op PrefixOp) String() string {
	if op == PrefixNot {
		return "~"
	}
	return "-"
}

type IntExpr struct {
	StartToken *lexer.Token

	Value int64
}

type FloatExpr struct {
	StartToken *lexer.Token

	Value float64
}

type TextExpr struct {
	StartToken *lexer.Token

	Value string
}

type BoolExpr struct {
	StartToken *lexer.Token

	Value bool
}

type IdentExpr struct {
	StartToken *lexer.Token

	Value string
}

type CallExpr struct {
	StartToken *lexer.Token

	Name string
	Args []Expr
}

type FieldAccessExpr struct {
	StartToken *lexer.Token

	Left  Expr
	Right Expr
}

type IndexExpr struct {
	StartToken *lexer.Token

	Name  string
	Index Expr
}

type AssignExpr struct {
	StartToken *lexer.Token

	Left  Expr
	Right Expr
}

type BinaryExpr struct {
	StartToken *lexer.Token

	Op    BinaryOp
	Left  Expr
	Right Expr
}

type PrefixExpr struct {
	StartToken *lexer.Token

	Op    PrefixOp
	Right Expr
}

type LambdaExpr struct {
	StartToken *lexer.Token

	Args       []FuncArg
	ReturnType string
	Body       *BlockStmt
}

func (IntExpr) AstNode()         {}
func (FloatExpr) AstNode()       {}
func (TextExpr) AstNode()        {}
func (BoolExpr) AstNode()        {}
func (IdentExpr) AstNode()       {}
func (CallExpr) AstNode()        {}
func (FieldAccessExpr) AstNode() {}
func (IndexExpr) AstNode()       {}
func (AssignExpr) AstNode()      {}
func (BinaryExpr) AstNode()      {}
func (PrefixExpr) AstNode()      {}
func (LambdaExpr) AstNode()      {}

func (e *IntExpr) FirstToken() *lexer.Token         { return e.StartToken }
func (e *FloatExpr) FirstToken() *lexer.Token       { return e.StartToken }
func (e *TextExpr) FirstToken() *lexer.Token        { return e.StartToken }
func (e *BoolExpr) FirstToken() *lexer.Token        { return e.StartToken }
func (e *IdentExpr) FirstToken() *lexer.Token       { return e.StartToken }
func (e *CallExpr) FirstToken() *lexer.Token        { return e.StartToken }
func (e *FieldAccessExpr) FirstToken() *lexer.Token { return e.StartToken }
func (e *IndexExpr) FirstToken() *lexer.Token       { return e.StartToken }
func (e *AssignExpr) FirstToken() *lexer.Token      { return e.StartToken }
func (e *BinaryExpr) FirstToken() *lexer.Token      { return e.StartToken }
func (e *PrefixExpr) FirstToken() *lexer.Token      { return e.StartToken }
func (e *LambdaExpr) FirstToken() *lexer.Token      { return e.StartToken }

func (IntExpr) ExprNode()         {}
func (FloatExpr) ExprNode()       {}
func (TextExpr) ExprNode()        {}
func (BoolExpr) ExprNode()        {}
func (IdentExpr) ExprNode()       {}
func (CallExpr) ExprNode()        {}
func (FieldAccessExpr) ExprNode() {}
func (IndexExpr) ExprNode()       {}
func (AssignExpr) ExprNode()      {}
func (BinaryExpr) ExprNode()      {}
func (PrefixExpr) ExprNode()      {}
func (LambdaExpr) ExprNode()      {}
