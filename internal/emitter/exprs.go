package emitter

import (
	"github.com/nilq/icecream/internal/ast"
	"github.com/nilq/icecream/internal/compiler_errors"
	"tinygo.org/x/go-llvm"
)

func (e *Emitter) emitForExpr(expr ast.Expr) llvm.Value {
	switch expr := expr.(type) {
	case *ast.IntExpr:
		return llvm.ConstInt(e.typesMap["int"], uint64(expr.Value), true)
	case *ast.FloatExpr:
		return llvm.ConstFloat(e.typesMap["float"], expr.Value)
	case *ast.BoolExpr:
		var intValue uint64
		if expr.Value {
			intValue = 1
		}
		return llvm.ConstInt(e.typesMap["bool"], intValue, false)
	case *ast.IdentExpr:
		return e.emitForIdentExpr(expr)
	case *ast.CallExpr:
		return e.emitForCallExpr(expr)
	case *ast.AssignExpr:
		return e.emitForAssignExpr(expr)
	case *ast.BinaryExpr:
		return e.emitForBinaryExpr(expr)
	case *ast.PrefixExpr:
		return e.emitForPrefixExpr(expr)
	case *ast.TextExpr:
		e.fail(expr, compiler_errors.Unsupported, "text values are not supported by code generation")
	case *ast.IndexExpr:
		e.fail(expr, compiler_errors.Unsupported, "indexing is not supported by code generation")
	case *ast.FieldAccessExpr:
		e.fail(expr, compiler_errors.Unsupported, "field access is not supported by code generation")
	case *ast.LambdaExpr:
		e.fail(expr, compiler_errors.Unsupported, "lambdas are not supported by code generation")
	default:
		e.fail(expr, compiler_errors.Internal, "unknown expression %T", expr)
	}

	panic("unreachable")
}

// emitForValue is emitForExpr for positions that need a value to store or
// pass on, which rules out calls to void functions.
func (e *Emitter) emitForValue(expr ast.Expr) llvm.Value {
	value := e.emitForExpr(expr)
	if value.Type().TypeKind() == llvm.VoidTypeKind {
		e.fail(expr, compiler_errors.Unsupported, "expression has no value")
	}
	return value
}

func (e *Emitter) emitForIdentExpr(identExpr *ast.IdentExpr) llvm.Value {
	v, ok := e.lookupVariable(identExpr.Value)
	if !ok {
		e.fail(identExpr, compiler_errors.Undefined, "undefined variable '%s'", identExpr.Value)
	}

	return e.builder.CreateLoad(v.typ, v.ptr, identExpr.Value)
}

func (e *Emitter) emitForCallExpr(callExpr *ast.CallExpr) llvm.Value {
	funcValue, ok := e.funcsMap[callExpr.Name]
	if !ok {
		e.fail(callExpr, compiler_errors.Undefined, "call to undefined function '%s'", callExpr.Name)
	}

	funcType := funcValue.GlobalValueType()
	paramTypes := funcType.ParamTypes()
	if len(paramTypes) != len(callExpr.Args) {
		e.fail(callExpr, compiler_errors.Unsupported,
			"'%s' takes %d arguments, got %d", callExpr.Name, len(paramTypes), len(callExpr.Args))
	}

	args := make([]llvm.Value, 0, len(callExpr.Args))
	for i, arg := range callExpr.Args {
		argValue := e.emitForValue(arg)
		if argValue.Type() != paramTypes[i] {
			e.fail(arg, compiler_errors.Unsupported, "argument %d of '%s' has the wrong type", i+1, callExpr.Name)
		}
		args = append(args, argValue)
	}

	// void results must stay unnamed
	name := ""
	if funcType.ReturnType().TypeKind() != llvm.VoidTypeKind {
		name = "calltmp"
	}

	return e.builder.CreateCall(funcType, funcValue, args, name)
}

// emitForAssignExpr stores into an existing variable, or declares one when
// the name is new. The stored value is the value of the expression.
func (e *Emitter) emitForAssignExpr(assignExpr *ast.AssignExpr) llvm.Value {
	identExpr, ok := assignExpr.Left.(*ast.IdentExpr)
	if !ok {
		e.fail(assignExpr.Left, compiler_errors.Unsupported, "only variables can be assigned to")
	}

	value := e.emitForValue(assignExpr.Right)

	v, ok := e.lookupVariable(identExpr.Value)
	if !ok {
		v = e.declareVariable(identExpr.Value, value.Type())
	}
	if v.typ != value.Type() {
		e.fail(assignExpr, compiler_errors.Unsupported, "cannot change the type of '%s'", identExpr.Value)
	}

	e.builder.CreateStore(value, v.ptr)
	return value
}

func (e *Emitter) emitForBinaryExpr(binaryExpr *ast.BinaryExpr) llvm.Value {
	leftValue := e.emitForValue(binaryExpr.Left)
	rightValue := e.emitForValue(binaryExpr.Right)

	operandType := leftValue.Type()
	if operandType != rightValue.Type() {
		e.fail(binaryExpr, compiler_errors.Unsupported,
			"mismatched operand types for '%s'", binaryExpr.Op)
	}

	intOperands := isInt(operandType)
	floatOperands := isFloat(operandType)
	boolOperands := isBool(operandType)

	switch binaryExpr.Op {
	case ast.BinaryAdd:
		switch {
		case intOperands:
			return e.builder.CreateAdd(leftValue, rightValue, "addtmp")
		case floatOperands:
			return e.builder.CreateFAdd(leftValue, rightValue, "addtmp")
		}
	case ast.BinarySub:
		switch {
		case intOperands:
			return e.builder.CreateSub(leftValue, rightValue, "subtmp")
		case floatOperands:
			return e.builder.CreateFSub(leftValue, rightValue, "subtmp")
		}
	case ast.BinaryMul:
		switch {
		case intOperands:
			return e.builder.CreateMul(leftValue, rightValue, "multmp")
		case floatOperands:
			return e.builder.CreateFMul(leftValue, rightValue, "multmp")
		}
	case ast.BinaryDiv:
		switch {
		case intOperands:
			return e.builder.CreateSDiv(leftValue, rightValue, "divtmp")
		case floatOperands:
			return e.builder.CreateFDiv(leftValue, rightValue, "divtmp")
		}
	case ast.BinaryLt:
		switch {
		case intOperands:
			return e.builder.CreateICmp(llvm.IntSLT, leftValue, rightValue, "lttmp")
		case floatOperands:
			return e.builder.CreateFCmp(llvm.FloatOLT, leftValue, rightValue, "lttmp")
		}
	case ast.BinaryGt:
		switch {
		case intOperands:
			return e.builder.CreateICmp(llvm.IntSGT, leftValue, rightValue, "gttmp")
		case floatOperands:
			return e.builder.CreateFCmp(llvm.FloatOGT, leftValue, rightValue, "gttmp")
		}
	case ast.BinaryEq:
		switch {
		case intOperands, boolOperands:
			return e.builder.CreateICmp(llvm.IntEQ, leftValue, rightValue, "eqtmp")
		case floatOperands:
			return e.builder.CreateFCmp(llvm.FloatOEQ, leftValue, rightValue, "eqtmp")
		}
	case ast.BinaryNeq:
		switch {
		case intOperands, boolOperands:
			return e.builder.CreateICmp(llvm.IntNE, leftValue, rightValue, "netmp")
		case floatOperands:
			return e.builder.CreateFCmp(llvm.FloatONE, leftValue, rightValue, "netmp")
		}
	case ast.BinaryAnd:
		// both sides are always evaluated
		if boolOperands {
			return e.builder.CreateAnd(leftValue, rightValue, "andtmp")
		}
	}

	e.fail(binaryExpr, compiler_errors.Unsupported, "operator '%s' does not apply to these operands", binaryExpr.Op)
	panic("unreachable")
}

func (e *Emitter) emitForPrefixExpr(prefixExpr *ast.PrefixExpr) llvm.Value {
	value := e.emitForValue(prefixExpr.Right)

	switch {
	case prefixExpr.Op == ast.PrefixNot && isBool(value.Type()):
		return e.builder.CreateNot(value, "nottmp")
	case prefixExpr.Op == ast.PrefixNeg && isInt(value.Type()):
		return e.builder.CreateNeg(value, "negtmp")
	case prefixExpr.Op == ast.PrefixNeg && isFloat(value.Type()):
		return e.builder.CreateFNeg(value, "negtmp")
	}

	e.fail(prefixExpr, compiler_errors.Unsupported, "operator '%s' does not apply to this operand", prefixExpr.Op)
	panic("unreachable")
}

func isInt(t llvm.Type) bool {
	return t.TypeKind() == llvm.IntegerTypeKind && t.IntTypeWidth() == 64
}

func isFloat(t llvm.Type) bool {
	return t.TypeKind() == llvm.DoubleTypeKind
}

func isBool(t llvm.Type) bool {
	return t.TypeKind() == llvm.IntegerTypeKind && t.IntTypeWidth() == 1
}
