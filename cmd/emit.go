package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nilq/icecream/internal/emitter"
	"github.com/nilq/icecream/internal/lexer"
	"github.com/nilq/icecream/internal/parser"
)

var (
	emitOutput string
	emitModule string
)

var emitCmd = &cobra.Command{
	Use:   "emit <file>",
	Short: "Lower a source file to LLVM IR",
	Long: `Lower a source file to LLVM IR.

Functions are emitted as soon as the parser finishes them. Top-level
statements are collected into a function named __toplevel.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmit,
}

func init() {
	rootCmd.AddCommand(emitCmd)

	emitCmd.Flags().StringVarP(&emitOutput, "output", "o", "", "write IR to this file instead of stdout")
	emitCmd.Flags().StringVar(&emitModule, "module", "", "module name (default from config)")
}

func runEmit(cmd *cobra.Command, args []string) error {
	fileName := args[0]
	fileData, err := readSource(fileName)
	if err != nil {
		return err
	}

	moduleName := cfg.Emit.Module
	if emitModule != "" {
		moduleName = emitModule
	}

	e := emitter.NewEmitter(moduleName)
	defer e.Dispose()

	scanner := lexer.NewLexerTokenScanner(lexer.NewLexer(fileData))
	p := parser.NewParser(scanner, cfg.ParserOptions(fileName)...)
	if err := p.Stream(e); err != nil {
		return failOnCompilerError(fileName, err)
	}
	if err := e.Finish(); err != nil {
		return failOnCompilerError(fileName, err)
	}

	if cfg.Emit.Verify {
		if err := e.Verify(); err != nil {
			return fmt.Errorf("generated module does not verify: %w", err)
		}
		slog.Debug("verified module", "module", moduleName)
	}

	if emitOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), e.String())
		return nil
	}

	slog.Debug("writing IR", "output", emitOutput)
	return os.WriteFile(emitOutput, []byte(e.String()), 0644)
}
