package emitter

import (
	"strings"
	"testing"

	"github.com/nilq/icecream/internal/compiler_errors"
	"github.com/nilq/icecream/internal/lexer"
	"github.com/nilq/icecream/internal/parser"
)

func mustEmit(t *testing.T, src string) string {
	t.Helper()

	tu, err := parser.ParseSource([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	e := NewEmitter("test")
	defer e.Dispose()

	if err := e.EmitTranslationUnit(tu); err != nil {
		t.Fatalf("Emit error: %v\nsource:\n%s", err, src)
	}
	if err := e.Verify(); err != nil {
		t.Fatalf("Verify error: %v\nIR:\n%s", err, e.String())
	}

	return e.String()
}

func emitErr(t *testing.T, src string) error {
	t.Helper()

	tu, err := parser.ParseSource([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	e := NewEmitter("test")
	defer e.Dispose()

	return e.EmitTranslationUnit(tu)
}

func wantIR(t *testing.T, ir string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(ir, fragment) {
			t.Fatalf("IR is missing %q\nIR:\n%s", fragment, ir)
		}
	}
}

func TestEmitFunction(t *testing.T) {
	ir := mustEmit(t, "func foo(x: int, y: int) -> int return x + y end")

	wantIR(t, ir,
		"define i64 @foo(i64 %x, i64 %y)",
		"alloca i64",
		"add i64",
		"ret i64",
	)
}

func TestEmitForwardCall(t *testing.T) {
	ir := mustEmit(t, `
func main() -> int
    return twice(21)
end

func twice(n: int) -> int
    return n * 2
end
`)

	wantIR(t, ir, "call i64 @twice(i64 21)", "mul i64")
}

func TestEmitControlFlow(t *testing.T) {
	ir := mustEmit(t, `
func sign(n: int) -> int
    if n < 0
        return -1
    else
        return 1
    end
end

func clamp(n: int) -> int
    unless n < 10
        n = 10
    end
    return n
end

func ping(ok: bool)
    if ok && ~false
        return
    end
end
`)

	wantIR(t, ir,
		"icmp slt i64",
		"br i1",
		"ifbody",
		"ifelse",
		"ifafter",
		"define void @ping(i1 %ok)",
		"ret void",
	)
}

func TestEmitFloats(t *testing.T) {
	ir := mustEmit(t, `
func half(x: float) -> float
    return x / 2.0
end

func neg(x: f64) -> f64
    return -x
end

func bigger(a: float, b: float) -> bool
    return a > b
end
`)

	wantIR(t, ir, "fdiv double", "fneg double", "fcmp ogt double")
}

func TestEmitToplevel(t *testing.T) {
	ir := mustEmit(t, `
func inc(n: int) -> int return n + 1 end
counter = 1
var ratio = 0.5
counter = inc(counter)
if counter > 1
    seen = true
end
`)

	wantIR(t, ir,
		"@counter = global i64 0",
		"@ratio = global double 0",
		"@seen = global i1 false",
		"define void @__toplevel()",
		"store i64 1, ptr @counter",
	)
}

func TestEmitLocalsAndGlobals(t *testing.T) {
	ir := mustEmit(t, `
total = 0
func add(n: int)
    step = n * 2
    total = total + step
end
`)

	wantIR(t, ir, "load i64, ptr @total", "store i64 %addtmp, ptr @total")
}

func TestEmitStream(t *testing.T) {
	e := NewEmitter("stream")
	defer e.Dispose()

	src := "x = 2 func sq(v: int) -> int return v * v end y = x * 3"
	p := parser.NewParser(lexer.NewLexerTokenScanner(lexer.NewLexer([]byte(src))))
	if err := p.Stream(e); err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	if err := e.Verify(); err != nil {
		t.Fatalf("Verify error: %v\nIR:\n%s", err, e.String())
	}

	wantIR(t, e.String(), "define i64 @sq(i64 %v)", "@y = global i64 0")

	if err := e.ConsumeStmt(nil); err == nil {
		t.Fatal("expected error after the module was finished")
	}
}

func TestEmitErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind compiler_errors.ErrorKind
	}{
		{`x = "text"`, compiler_errors.Unsupported},
		{"x = xs[1]", compiler_errors.Unsupported},
		{"x = a.b", compiler_errors.Unsupported},
		{"f = lambda() end", compiler_errors.Unsupported},
		{"x = 1 + 2.0", compiler_errors.Unsupported},
		{"x = 1 && true", compiler_errors.Unsupported},
		{"x = ~1", compiler_errors.Unsupported},
		{"x = -true", compiler_errors.Unsupported},
		{"var x", compiler_errors.Unsupported},
		{"return 1", compiler_errors.Unsupported},
		{"x = 1 x = 2.5", compiler_errors.Unsupported},
		{"if 1 x = 2 end", compiler_errors.Unsupported},
		{"func f(s: text) end", compiler_errors.Unsupported},
		{"func f(v: void) end", compiler_errors.Unsupported},
		{"func f() -> int return 1.5 end", compiler_errors.Unsupported},
		{"func f() -> int return end", compiler_errors.Unsupported},
		{"func f() return 1 end", compiler_errors.Unsupported},
		{"func f() end func f() end", compiler_errors.Unsupported},
		{"func f() { func g() end } end", compiler_errors.Unsupported},
		{"func f() end x = f()", compiler_errors.Unsupported},
		{"func f(a: int) end f()", compiler_errors.Unsupported},
		{"func f(a: int) end f(true)", compiler_errors.Unsupported},
		{"a.b = 1", compiler_errors.Unsupported},
		{"func f() -> int return y end", compiler_errors.Undefined},
		{"x = missing(1)", compiler_errors.Undefined},
	}

	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			err := emitErr(t, tc.src)
			if !compiler_errors.IsKind(err, tc.kind) {
				t.Fatalf("want %q error, got %v", tc.kind, err)
			}
		})
	}
}

func TestEmitErrorIsSticky(t *testing.T) {
	tu, err := parser.ParseSource([]byte("x = y\nz = 1"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	e := NewEmitter("sticky")
	defer e.Dispose()

	first := e.ConsumeStmt(tu.Stmts[0])
	compilerErr, ok := first.(*compiler_errors.Error)
	if !ok || compilerErr.Kind != compiler_errors.Undefined {
		t.Fatalf("first error = %v", first)
	}
	if compilerErr.Line != 1 || compilerErr.Column != 5 {
		t.Fatalf("error at %d:%d, want 1:5", compilerErr.Line, compilerErr.Column)
	}

	if again := e.ConsumeStmt(tu.Stmts[1]); again != first {
		t.Fatalf("second error = %v, want sticky %v", again, first)
	}
	if err := e.Verify(); err != first {
		t.Fatalf("Verify() = %v, want sticky %v", err, first)
	}

	partial := e.String()
	wantIR(t, partial, "define void @__toplevel()")
	if strings.Contains(partial, "ret void") {
		t.Fatalf("failed module was finished:\n%s", partial)
	}
}
