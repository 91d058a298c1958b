package ast

import "github.com/nilq/icecream/internal/lexer"

type AstNode interface {
	AstNode()
	FirstToken() *lexer.Token
}

// TranslationUnit is one parsed source buffer: function declarations and
// top-level statements in source order.
type TranslationUnit struct {
	Stmts []Stmt
}

func (tu *TranslationUnit) Funcs() []*FuncDeclStmt {
	funcs := make([]*FuncDeclStmt, 0)
	for _, stmt := range tu.Stmts {
		if funcDecl, ok := stmt.(*FuncDeclStmt); ok {
			funcs = append(funcs, funcDecl)
		}
	}
	return funcs
}

type Stmt interface {
	AstNode
	StmtNode()
}

type Expr interface {
	AstNode
	ExprNode()
}
