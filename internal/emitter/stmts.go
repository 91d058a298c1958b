package emitter

import (
	"github.com/nilq/icecream/internal/ast"
	"github.com/nilq/icecream/internal/compiler_errors"
	"tinygo.org/x/go-llvm"
)

func (e *Emitter) emitForStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.BlockStmt:
		e.emitForBlockStmt(stmt)
	case *ast.VarDeclStmt:
		e.emitForVarDeclStmt(stmt)
	case *ast.IfStmt:
		e.emitForIfStmt(stmt.Cond, stmt.Body, nil)
	case *ast.IfElseStmt:
		e.emitForIfStmt(stmt.Cond, stmt.Body, stmt.Else)
	case *ast.ReturnStmt:
		e.emitForReturnStmt(stmt, nil)
	case *ast.ReturnValueStmt:
		e.emitForReturnStmt(stmt, stmt.Expr)
	case *ast.ExprStmt:
		e.emitForExpr(stmt.Expr)
	case *ast.FuncDeclStmt:
		e.fail(stmt, compiler_errors.Unsupported, "nested function declaration '%s'", stmt.Name)
	default:
		e.fail(stmt, compiler_errors.Internal, "unknown statement %T", stmt)
	}
}

// emitForBlockStmt stops at the first statement that ends the current
// basic block; anything after it is unreachable.
func (e *Emitter) emitForBlockStmt(block *ast.BlockStmt) {
	for _, stmt := range block.Stmts {
		if e.controlFlowHappen {
			return
		}
		e.emitForStmt(stmt)
	}
}

func (e *Emitter) emitForVarDeclStmt(varDecl *ast.VarDeclStmt) {
	if varDecl.Value == nil {
		e.fail(varDecl, compiler_errors.Unsupported, "declaration of '%s' needs an initializer", varDecl.Name)
	}

	value := e.emitForValue(varDecl.Value)
	v := e.declareVariable(varDecl.Name, value.Type())
	e.builder.CreateStore(value, v.ptr)
}

func (e *Emitter) emitForIfStmt(cond ast.Expr, body ast.Stmt, elseBody ast.Stmt) {
	condValue := e.emitForExpr(cond)
	if !isBool(condValue.Type()) {
		e.fail(cond, compiler_errors.Unsupported, "condition must be bool")
	}

	ifBody := e.context.AddBasicBlock(e.currentFunc, "ifbody")
	afterIfBlock := e.context.AddBasicBlock(e.currentFunc, "ifafter")
	elseBlock := afterIfBlock
	if elseBody != nil {
		elseBlock = e.context.AddBasicBlock(e.currentFunc, "ifelse")
		elseBlock.MoveBefore(afterIfBlock)
	}

	e.builder.CreateCondBr(condValue, ifBody, elseBlock)

	e.builder.SetInsertPointAtEnd(ifBody)
	e.emitForStmt(body)
	bodyReturned := e.controlFlowHappen
	if !bodyReturned {
		e.builder.CreateBr(afterIfBlock)
	}
	e.controlFlowHappen = false

	elseReturned := false
	if elseBody != nil {
		e.builder.SetInsertPointAtEnd(elseBlock)
		e.emitForStmt(elseBody)
		elseReturned = e.controlFlowHappen
		if !elseReturned {
			e.builder.CreateBr(afterIfBlock)
		}
		e.controlFlowHappen = false
	}

	e.builder.SetInsertPointAtEnd(afterIfBlock)
	if bodyReturned && elseReturned {
		e.builder.CreateUnreachable()
		e.controlFlowHappen = true
	}
}

func (e *Emitter) emitForReturnStmt(stmt ast.Stmt, expr ast.Expr) {
	if e.isToplevel() {
		e.fail(stmt, compiler_errors.Unsupported, "return outside of a function")
	}

	e.controlFlowHappen = true
	returnsVoid := e.currentReturnType.TypeKind() == llvm.VoidTypeKind

	if expr == nil {
		if !returnsVoid {
			e.fail(stmt, compiler_errors.Unsupported, "missing return value")
		}
		e.builder.CreateRetVoid()
		return
	}

	if returnsVoid {
		e.fail(expr, compiler_errors.Unsupported, "function does not return a value")
	}

	value := e.emitForValue(expr)
	if value.Type() != e.currentReturnType {
		e.fail(expr, compiler_errors.Unsupported, "return value has the wrong type")
	}
	e.builder.CreateRet(value)
}
