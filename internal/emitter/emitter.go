package emitter

import (
	"github.com/nilq/icecream/internal/ast"
	"github.com/nilq/icecream/internal/compiler_errors"
	"tinygo.org/x/go-llvm"
)

const toplevelFuncName = "__toplevel"

type variable struct {
	ptr llvm.Value
	typ llvm.Type
}

// failure unwinds emission of one top-level item.
type failure struct {
	err *compiler_errors.Error
}

// Emitter lowers the AST to LLVM IR one top-level item at a time, which
// makes it a parser.Consumer. Top-level statements that are not function
// declarations are collected into a void function named __toplevel, and
// names first assigned at top level become module globals.
type Emitter struct {
	typesMap     map[string]llvm.Type
	funcsMap     map[string]llvm.Value
	globalsMap   map[string]variable
	variablesMap map[string]variable

	context llvm.Context
	module  llvm.Module
	builder llvm.Builder

	currentFunc            llvm.Value
	currentAllocBasicBlock llvm.BasicBlock
	currentReturnType      llvm.Type

	controlFlowHappen bool

	toplevelFunc       llvm.Value
	toplevelBasicBlock llvm.BasicBlock

	finished bool
	err      error
}

func NewEmitter(moduleName string) *Emitter {
	context := llvm.NewContext()
	e := &Emitter{
		typesMap:   make(map[string]llvm.Type),
		funcsMap:   make(map[string]llvm.Value),
		globalsMap: make(map[string]variable),

		context: context,
		module:  context.NewModule(moduleName),
		builder: context.NewBuilder(),
	}
	e.declareTypes()

	return e
}

// Dispose releases the LLVM objects. The emitter is unusable afterwards.
func (e *Emitter) Dispose() {
	e.builder.Dispose()
	e.module.Dispose()
	e.context.Dispose()
}

func (e *Emitter) declareTypes() {
	e.typesMap["int"] = e.context.Int64Type()
	e.typesMap["i64"] = e.context.Int64Type()

	e.typesMap["float"] = e.context.DoubleType()
	e.typesMap["f64"] = e.context.DoubleType()

	e.typesMap["bool"] = e.context.Int1Type()

	e.typesMap[""] = e.context.VoidType()
	e.typesMap["void"] = e.context.VoidType()
}

// EmitTranslationUnit declares every function first, so calls may refer to
// functions defined further down, then emits all items in order and
// finishes the module.
func (e *Emitter) EmitTranslationUnit(tu *ast.TranslationUnit) error {
	if err := e.guard(func() {
		for _, funcDecl := range tu.Funcs() {
			e.declareFuncPrototype(funcDecl)
		}
	}); err != nil {
		return err
	}

	for _, stmt := range tu.Stmts {
		var err error
		if funcDecl, ok := stmt.(*ast.FuncDeclStmt); ok {
			err = e.ConsumeFunc(funcDecl)
		} else {
			err = e.ConsumeStmt(stmt)
		}
		if err != nil {
			return err
		}
	}

	return e.Finish()
}

func (e *Emitter) ConsumeFunc(funcDecl *ast.FuncDeclStmt) error {
	return e.guard(func() {
		e.emitForFuncDeclStmt(funcDecl)
	})
}

func (e *Emitter) ConsumeStmt(stmt ast.Stmt) error {
	return e.guard(func() {
		e.emitForToplevelStmt(stmt)
	})
}

// Finish terminates the top-level function. It runs once; Verify and
// String call it when it has not been called yet.
func (e *Emitter) Finish() error {
	if e.err != nil {
		return e.err
	}
	if e.finished {
		return nil
	}
	e.finished = true

	if !e.toplevelFunc.IsNil() {
		e.builder.SetInsertPointAtEnd(e.toplevelBasicBlock)
		e.builder.CreateRetVoid()
	}

	return nil
}

func (e *Emitter) Verify() error {
	if err := e.Finish(); err != nil {
		return err
	}

	return llvm.VerifyModule(e.module, llvm.ReturnStatusAction)
}

// String returns the module as textual IR. After an emit error the module
// is printed as far as it got, and the top-level function is left without
// its return.
func (e *Emitter) String() string {
	_ = e.Finish()
	return e.module.String()
}

func (e *Emitter) guard(emit func()) (err error) {
	if e.err != nil {
		return e.err
	}
	if e.finished {
		return compiler_errors.New(compiler_errors.Internal, "emitter already finished")
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		f, ok := r.(failure)
		if !ok {
			panic(r)
		}

		e.err = f.err
		err = f.err
	}()

	emit()
	return nil
}

func (e *Emitter) fail(node ast.AstNode, kind compiler_errors.ErrorKind, format string, args ...any) {
	err := compiler_errors.New(kind, format, args...)
	if node != nil {
		if token := node.FirstToken(); token != nil {
			err.At(token.Metadata.Line, token.Metadata.Column, token.Metadata.Length)
		}
	}

	panic(failure{err: err})
}

func (e *Emitter) getLlvmTypeForName(node ast.AstNode, typeName string) llvm.Type {
	if llvmType, ok := e.typesMap[typeName]; ok {
		return llvmType
	}

	e.fail(node, compiler_errors.Unsupported, "unknown type '%s'", typeName)
	panic("unreachable")
}

func (e *Emitter) declareFuncPrototype(funcDecl *ast.FuncDeclStmt) llvm.Value {
	if funcValue, ok := e.funcsMap[funcDecl.Name]; ok {
		return funcValue
	}

	returnType := e.getLlvmTypeForName(funcDecl, funcDecl.ReturnType)
	argsTypes := make([]llvm.Type, 0, len(funcDecl.Args))
	for _, arg := range funcDecl.Args {
		argType := e.getLlvmTypeForName(funcDecl, arg.Type)
		if argType.TypeKind() == llvm.VoidTypeKind {
			e.fail(funcDecl, compiler_errors.Unsupported, "parameter '%s' cannot be void", arg.Name)
		}
		argsTypes = append(argsTypes, argType)
	}

	funcType := llvm.FunctionType(returnType, argsTypes, false)
	funcValue := llvm.AddFunction(e.module, funcDecl.Name, funcType)
	for i, arg := range funcDecl.Args {
		funcValue.Param(i).SetName(arg.Name)
	}
	e.funcsMap[funcDecl.Name] = funcValue

	return funcValue
}

func (e *Emitter) emitForFuncDeclStmt(funcDecl *ast.FuncDeclStmt) {
	funcValue := e.declareFuncPrototype(funcDecl)
	if funcValue.BasicBlocksCount() > 0 {
		e.fail(funcDecl, compiler_errors.Unsupported, "function '%s' is already defined", funcDecl.Name)
	}

	e.currentFunc = funcValue
	e.currentReturnType = funcValue.GlobalValueType().ReturnType()
	e.variablesMap = make(map[string]variable)
	defer e.leaveFunc()

	allocBasicBlock := e.context.AddBasicBlock(funcValue, "alloc")
	e.currentAllocBasicBlock = allocBasicBlock
	entryBasicBlock := e.context.AddBasicBlock(funcValue, "entry")

	e.builder.SetInsertPointAtEnd(allocBasicBlock)
	e.builder.CreateBr(entryBasicBlock)

	e.builder.SetInsertPointAtEnd(entryBasicBlock)
	paramTypes := funcValue.GlobalValueType().ParamTypes()
	for i, arg := range funcDecl.Args {
		argValue := e.createAlloca(paramTypes[i], arg.Name)
		e.builder.CreateStore(funcValue.Param(i), argValue)
		e.variablesMap[arg.Name] = variable{ptr: argValue, typ: paramTypes[i]}
	}

	e.emitForBlockStmt(funcDecl.Body)

	if e.controlFlowHappen {
		return
	}

	if e.currentReturnType.TypeKind() == llvm.VoidTypeKind {
		e.builder.CreateRetVoid()
		return
	}
	e.builder.CreateUnreachable()
}

func (e *Emitter) leaveFunc() {
	e.currentFunc = llvm.Value{}
	e.currentAllocBasicBlock = llvm.BasicBlock{}
	e.currentReturnType = llvm.Type{}
	e.variablesMap = nil
	e.controlFlowHappen = false
}

func (e *Emitter) emitForToplevelStmt(stmt ast.Stmt) {
	if funcDecl, ok := stmt.(*ast.FuncDeclStmt); ok {
		e.emitForFuncDeclStmt(funcDecl)
		return
	}

	if e.toplevelFunc.IsNil() {
		funcType := llvm.FunctionType(e.context.VoidType(), nil, false)
		e.toplevelFunc = llvm.AddFunction(e.module, toplevelFuncName, funcType)
		e.toplevelBasicBlock = e.context.AddBasicBlock(e.toplevelFunc, "entry")
	}

	e.currentFunc = e.toplevelFunc
	e.builder.SetInsertPointAtEnd(e.toplevelBasicBlock)

	e.emitForStmt(stmt)

	e.toplevelBasicBlock = e.builder.GetInsertBlock()
	e.currentFunc = llvm.Value{}
}

func (e *Emitter) isToplevel() bool {
	return e.variablesMap == nil
}

func (e *Emitter) createAlloca(typ llvm.Type, name string) llvm.Value {
	currBasicBlock := e.builder.GetInsertBlock()
	e.builder.SetInsertPointBefore(e.currentAllocBasicBlock.LastInstruction())
	allocValue := e.builder.CreateAlloca(typ, name)
	e.builder.SetInsertPointAtEnd(currBasicBlock)

	return allocValue
}

// declareVariable creates storage for name: a stack slot inside a function,
// a zero-initialized global at top level.
func (e *Emitter) declareVariable(name string, typ llvm.Type) variable {
	if e.isToplevel() {
		global := llvm.AddGlobal(e.module, typ, name)
		global.SetInitializer(llvm.ConstNull(typ))

		v := variable{ptr: global, typ: typ}
		e.globalsMap[name] = v
		return v
	}

	v := variable{ptr: e.createAlloca(typ, name), typ: typ}
	e.variablesMap[name] = v
	return v
}

func (e *Emitter) lookupVariable(name string) (variable, bool) {
	if v, ok := e.variablesMap[name]; ok {
		return v, true
	}

	v, ok := e.globalsMap[name]
	return v, ok
}
