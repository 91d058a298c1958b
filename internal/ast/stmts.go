package ast

import "github.com/nilq/icecream/internal/lexer"

type BlockStmt struct {
	StartToken *lexer.Token

	Stmts []Stmt
}

type FuncArg struct {
	Name string
	Type string
}

// FuncDeclStmt is a function declaration. Name may be dotted
// ("main.foo"); ReturnType is empty when the declaration has no
// annotation.
type FuncDeclStmt struct {
	StartToken *lexer.Token

	Name       string
	Args       []FuncArg
	ReturnType string
	Body       *BlockStmt
}

// VarDeclStmt declares Name. Value is nil when there is no initializer.
type VarDeclStmt struct {
	StartToken *lexer.Token

	Name  string
	Value Expr
}

type IfStmt struct {
	StartToken *lexer.Token

	Cond Expr
	Body Stmt
}

type IfElseStmt struct {
	StartToken *lexer.Token

	Cond Expr
	Body Stmt
	Else Stmt
}

type ExprStmt struct {
	Expr Expr
}

type ReturnStmt struct {
	StartToken *lexer.Token
}

type ReturnValueStmt struct {
	StartToken *lexer.Token

	Expr Expr
}

func (s *BlockStmt) AstNode()       {}
func (f *FuncDeclStmt) AstNode()    {}
func (v *VarDeclStmt) AstNode()     {}
func (i *IfStmt) AstNode()          {}
func (i *IfElseStmt) AstNode()      {}
func (e *ExprStmt) AstNode()        {}
func (r *ReturnStmt) AstNode()      {}
func (r *ReturnValueStmt) AstNode() {}

func (s *BlockStmt) FirstToken() *lexer.Token       { return s.StartToken }
func (f *FuncDeclStmt) FirstToken() *lexer.Token    { return f.StartToken }
func (v *VarDeclStmt) FirstToken() *lexer.Token     { return v.StartToken }
func (i *IfStmt) FirstToken() *lexer.Token          { return i.StartToken }
func (i *IfElseStmt) FirstToken() *lexer.Token      { return i.StartToken }
func (e *ExprStmt) FirstToken() *lexer.Token        { return e.Expr.FirstToken() }
func (r *ReturnStmt) FirstToken() *lexer.Token      { return r.StartToken }
func (r *ReturnValueStmt) FirstToken() *lexer.Token { return r.StartToken }

func (s *BlockStmt) StmtNode()       {}
func (f *FuncDeclStmt) StmtNode()    {}
func (v *VarDeclStmt) StmtNode()     {}
func (i *IfStmt) StmtNode()          {}
func (i *IfElseStmt) StmtNode()      {}
func (e *ExprStmt) StmtNode()        {}
func (r *ReturnStmt) StmtNode()      {}
func (r *ReturnValueStmt) StmtNode() {}
