package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterh/liner"

	"github.com/nilq/icecream/internal/compiler_errors"
	"github.com/nilq/icecream/internal/config"
)

type scriptedPrompter struct {
	lines   []string
	prompts []string
}

func (s *scriptedPrompter) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}

	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func TestReadUntilParsed(t *testing.T) {
	cfg = config.Default()

	t.Run("continues until the construct is closed", func(t *testing.T) {
		p := &scriptedPrompter{lines: []string{"func foo(x: int) -> int", "return x + 1", "end"}}

		input, ok := readUntilParsed(p, "> ", "... ")
		if !ok || input.err != nil {
			t.Fatalf("ok=%v err=%v", ok, input.err)
		}
		if len(input.stmts) != 1 {
			t.Fatalf("got %d statements, want 1", len(input.stmts))
		}
		if got := strings.Join(p.prompts, "|"); got != "> |... |... " {
			t.Fatalf("prompts = %q", got)
		}
	})

	t.Run("blank continuation line gives up", func(t *testing.T) {
		p := &scriptedPrompter{lines: []string{"if x", ""}}

		input, ok := readUntilParsed(p, "> ", "... ")
		if !ok || !compiler_errors.IsKind(input.err, compiler_errors.UnexpectedEOF) {
			t.Fatalf("ok=%v err=%v", ok, input.err)
		}
	})

	t.Run("unclosed parenthesis continues", func(t *testing.T) {
		p := &scriptedPrompter{lines: []string{"x = (a + b", "* c)"}}

		input, ok := readUntilParsed(p, "> ", "... ")
		if !ok || input.err != nil {
			t.Fatalf("ok=%v err=%v", ok, input.err)
		}
		if input.code != "x = (a + b\n* c)" || len(input.stmts) != 1 {
			t.Fatalf("input = %+v", input)
		}
	})

	t.Run("unclosed parenthesis then blank line", func(t *testing.T) {
		p := &scriptedPrompter{lines: []string{"f(1, 2", ""}}

		input, ok := readUntilParsed(p, "> ", "... ")
		if !ok || !compiler_errors.IsKind(input.err, compiler_errors.MissingRParen) {
			t.Fatalf("ok=%v err=%v", ok, input.err)
		}
	})

	t.Run("other errors are reported at once", func(t *testing.T) {
		p := &scriptedPrompter{lines: []string{"(1 + 2 end"}}

		input, ok := readUntilParsed(p, "> ", "... ")
		if !ok || !compiler_errors.IsKind(input.err, compiler_errors.MissingRParen) {
			t.Fatalf("ok=%v err=%v", ok, input.err)
		}
	})

	t.Run("commands bypass the parser", func(t *testing.T) {
		input, ok := readUntilParsed(&scriptedPrompter{lines: []string{":quit"}}, "> ", "... ")
		if !ok || input.code != ":quit" || input.err != nil {
			t.Fatalf("ok=%v input=%+v", ok, input)
		}
	})

	t.Run("abort and end of input", func(t *testing.T) {
		if input, ok := readUntilParsed(&scriptedPrompter{lines: []string{"^C"}}, "> ", "... "); !ok || input.code != "" {
			t.Fatalf("abort: ok=%v input=%+v", ok, input)
		}
		if _, ok := readUntilParsed(&scriptedPrompter{}, "> ", "... "); ok {
			t.Fatal("end of input should end the session")
		}
	})
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.ic")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}
	return path
}

func TestCommands(t *testing.T) {
	src := "func add(a: int, b: int) -> int return (a + b) end\ntotal = add(1, 2)\n"
	path := writeSource(t, src)

	t.Run("tokens", func(t *testing.T) {
		out := runCommand(t, "tokens", path)
		if !strings.HasPrefix(out, "1:1\tFUNC()\n1:6\tIDENT(add)\n") || !strings.HasSuffix(out, "\tEOF()\n") {
			t.Fatalf("unexpected token listing:\n%s", out)
		}
	})

	t.Run("parse", func(t *testing.T) {
		out := runCommand(t, "parse", path)
		if !strings.Contains(out, `Name: "add"`) || strings.Contains(out, "StartToken") {
			t.Fatalf("unexpected dump:\n%s", out)
		}
	})

	t.Run("fmt", func(t *testing.T) {
		out := runCommand(t, "fmt", path)
		want := "func add(a: int, b: int) -> int\n    return a + b\nend\ntotal = add(1, 2)\n"
		if out != want {
			t.Fatalf("fmt output:\n%s\nwant:\n%s", out, want)
		}
	})

	t.Run("emit with config", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "icecream.yaml")
		if err := os.WriteFile(cfgPath, []byte("emit:\n  module: demo\n"), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}

		out := runCommand(t, "--config", cfgPath, "emit", path)
		for _, fragment := range []string{"; ModuleID = 'demo'", "define i64 @add(i64 %a, i64 %b)", "@total = global i64 0"} {
			if !strings.Contains(out, fragment) {
				t.Fatalf("IR is missing %q:\n%s", fragment, out)
			}
		}
	})
}
