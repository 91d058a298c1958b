package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nilq/icecream/internal/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	fileName := args[0]
	fileData, err := readSource(fileName)
	if err != nil {
		return err
	}

	tokens, err := lexer.NewLexer(fileData).Tokenize()
	out := cmd.OutOrStdout()
	for _, token := range tokens {
		fmt.Fprintf(out, "%d:%d\t%s\n", token.Metadata.Line, token.Metadata.Column, token.String())
	}
	if err != nil {
		return failOnCompilerError(fileName, err)
	}

	slog.Debug("tokenized", "file", fileName, "tokens", len(tokens))
	return nil
}
