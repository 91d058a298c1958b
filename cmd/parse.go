package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/nilq/icecream/internal/ast"
	"github.com/nilq/icecream/internal/parser"
	"github.com/nilq/icecream/internal/printer"
)

var (
	parsePositions bool
	fmtWrite       bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a source file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Print a source file back in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)

	parseCmd.Flags().BoolVar(&parsePositions, "positions", false, "include source tokens in the dump")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the result back to the file")
}

func parseFile(fileName string) (*ast.TranslationUnit, error) {
	fileData, err := readSource(fileName)
	if err != nil {
		return nil, err
	}

	translationUnit, err := parser.ParseSource(fileData, cfg.ParserOptions(fileName)...)
	if err != nil {
		return nil, failOnCompilerError(fileName, err)
	}
	slog.Debug("parsed", "file", fileName, "stmts", len(translationUnit.Stmts), "funcs", len(translationUnit.Funcs()))

	return translationUnit, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	translationUnit, err := parseFile(args[0])
	if err != nil {
		return err
	}

	if parsePositions {
		fmt.Fprintln(cmd.OutOrStdout(), litter.Sdump(translationUnit))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), ast.Dump(translationUnit))
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	fileName := args[0]
	translationUnit, err := parseFile(fileName)
	if err != nil {
		return err
	}

	formatted := printer.PrintUnit(translationUnit)
	if !fmtWrite {
		fmt.Fprint(cmd.OutOrStdout(), formatted)
		return nil
	}

	info, err := os.Stat(fileName)
	if err != nil {
		return err
	}
	return os.WriteFile(fileName, []byte(formatted), info.Mode().Perm())
}
