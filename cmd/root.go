package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nilq/icecream/internal/compiler_errors"
	"github.com/nilq/icecream/internal/config"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "icecream",
	Short: "icecream language front end",
	Long: `icecream tokenizes and parses icecream source files.

The parsed program can be dumped as a tree, printed back as source,
lowered to LLVM IR, or explored interactively in a REPL.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if cfgFile == "" {
		cfg = config.Default()
		return nil
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	slog.Debug("loaded config", "path", cfgFile, "max_depth", cfg.Parser.MaxDepth, "module", cfg.Emit.Module)

	return nil
}

func readSource(fileName string) ([]byte, error) {
	fileData, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	slog.Debug("read source", "file", fileName, "bytes", len(fileData))

	return fileData, nil
}

// failOnCompilerError reports diagnostics from the compiler itself and
// exits. Anything else is handed back to cobra.
func failOnCompilerError(fileName string, err error) error {
	var compilerErr *compiler_errors.Error
	if !errors.As(err, &compilerErr) {
		return err
	}

	eh := compiler_errors.NewErrorHandler(os.Stderr)
	eh.AddError(compilerErr.InFile(fileName))
	eh.FailNow()

	return nil
}
