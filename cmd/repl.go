package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/nilq/icecream/internal/ast"
	"github.com/nilq/icecream/internal/compiler_errors"
	"github.com/nilq/icecream/internal/parser"
	"github.com/nilq/icecream/internal/printer"
)

const promptCont = "... "

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse statements interactively",
	Long: `Read statements line by line and print their syntax trees.

Input that ends inside an unfinished construct keeps reading on a
continuation prompt. Type :quit or press Ctrl-D to leave.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type prompter interface {
	Prompt(prompt string) (string, error)
}

type replInput struct {
	code  string
	stmts []ast.Stmt
	err   *compiler_errors.Error
}

func runRepl(cmd *cobra.Command, args []string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyFile := cfg.Repl.HistoryFile; historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			f, err := os.Create(historyFile)
			if err != nil {
				slog.Warn("could not save history", "path", historyFile, "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	out := cmd.OutOrStdout()
	for {
		input, ok := readUntilParsed(ln, cfg.Repl.Prompt, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		trimmed := strings.TrimSpace(input.code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if trimmed == ":quit" {
				return nil
			}
			fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(input.code, "\n", " "))

		if input.err != nil {
			eh := compiler_errors.NewErrorHandler(os.Stderr)
			eh.AddError(input.err)
			eh.Report(os.Stderr)
			continue
		}

		for _, stmt := range input.stmts {
			fmt.Fprintln(out, ast.Dump(stmt))
			fmt.Fprintln(out, printer.Print(stmt))
		}
	}
}

// readUntilParsed reads lines until they parse, or fail for a reason
// other than running out of input. ok is false once the user ends the
// session.
func readUntilParsed(p prompter, prompt, cont string) (replInput, bool) {
	var b strings.Builder

	for {
		currentPrompt := prompt
		if b.Len() > 0 {
			currentPrompt = cont
		}

		line, err := p.Prompt(currentPrompt)
		if errors.Is(err, io.EOF) {
			return replInput{}, false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return replInput{}, true
		}
		if err != nil {
			slog.Warn("prompt failed", "error", err)
			return replInput{}, false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return replInput{code: src}, true
		}

		translationUnit, perr := parser.ParseSource([]byte(src), cfg.ParserOptions("<repl>")...)
		if perr == nil {
			return replInput{code: src, stmts: translationUnit.Stmts}, true
		}
		if needsMoreInput(perr) && strings.TrimSpace(line) != "" {
			continue
		}

		var compilerErr *compiler_errors.Error
		if !errors.As(perr, &compilerErr) {
			compilerErr = compiler_errors.New(compiler_errors.Internal, "%v", perr)
		}
		return replInput{code: src, err: compilerErr}, true
	}
}

// needsMoreInput reports whether err was raised by running out of input,
// so that more lines could still complete the construct.
func needsMoreInput(err error) bool {
	var compilerErr *compiler_errors.Error
	if !errors.As(err, &compilerErr) {
		return false
	}

	switch compilerErr.Kind {
	case compiler_errors.UnexpectedEOF:
		return true
	case compiler_errors.MissingRParen:
		// The end-of-input token is the only one with no length.
		return compilerErr.Line > 0 && compilerErr.Length == 0
	}
	return false
}
