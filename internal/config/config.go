package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nilq/icecream/internal/parser"
)

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

type Config struct {
	Parser ParserConfig `toml:"parser" yaml:"parser"`
	Emit   EmitConfig   `toml:"emit" yaml:"emit"`
	Repl   ReplConfig   `toml:"repl" yaml:"repl"`
}

type ParserConfig struct {
	// MaxDepth bounds statement and expression nesting.
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
}

type EmitConfig struct {
	Module string `toml:"module" yaml:"module"`
	Verify bool   `toml:"verify" yaml:"verify"`
}

type ReplConfig struct {
	// HistoryFile is where the REPL keeps its line history. Empty
	// disables history.
	HistoryFile string `toml:"history_file" yaml:"history_file"`
	Prompt      string `toml:"prompt" yaml:"prompt"`
}

func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth: parser.DefaultMaxDepth,
		},
		Emit: EmitConfig{
			Module: "main",
			Verify: true,
		},
		Repl: ReplConfig{
			HistoryFile: "",
			Prompt:      "icecream> ",
		},
	}
}

// Load reads the file at path on top of Default. The format follows the
// extension: .yaml and .yml are YAML, everything else is TOML.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config file path cannot be empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	format := DetectFormat(path)

	config, err := Parse(content, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s config file %s: %w", format, path, err)
	}

	return config, nil
}

// Parse decodes content over the defaults and validates the result.
func Parse(content []byte, format Format) (*Config, error) {
	config := Default()

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		metadata, err := toml.Decode(string(content), config)
		if err != nil {
			return nil, err
		}
		if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

func (c *Config) Validate() error {
	var errs []error

	if c.Parser.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("parser.max_depth must be positive, got %d", c.Parser.MaxDepth))
	}
	if strings.TrimSpace(c.Emit.Module) == "" {
		errs = append(errs, errors.New("emit.module cannot be empty"))
	}

	return errors.Join(errs...)
}

// ParserOptions turns the parser section into parser options.
func (c *Config) ParserOptions(fileName string) []parser.Option {
	return []parser.Option{
		parser.WithFileName(fileName),
		parser.WithMaxDepth(c.Parser.MaxDepth),
	}
}
