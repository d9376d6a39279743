package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/morozRed/codegraph/internal/config"
	"github.com/morozRed/codegraph/internal/ignore"
	"github.com/morozRed/codegraph/internal/logging"
	"github.com/morozRed/codegraph/internal/scanner"
	"github.com/spf13/cobra"
)

const defaultLogLevel = "warn"

// InitLogging configures the global logger from --log-level or
// $CODEGRAPH_LOG_LEVEL. Logs go to stderr so stdout stays parseable.
func InitLogging(cmd *cobra.Command, args []string) error {
	level, err := OptionalStringFlag(cmd, "log-level")
	if err != nil {
		return err
	}
	if level == "" {
		level = strings.TrimSpace(os.Getenv("CODEGRAPH_LOG_LEVEL"))
	}
	if level == "" {
		level = defaultLogLevel
	}
	if err := logging.Init(logging.Config{Level: level, Format: "console"}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

// LoadConfig builds the effective configuration: defaults, then the config
// file, then environment overrides, then positional roots. With no roots
// from any source the working directory is scanned.
func LoadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	path, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CODEGRAPH_CONFIG"))
	}

	cfg := config.Default()
	if path != "" {
		cfg, err = config.LoadFile(path)
		if err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	if len(args) > 0 {
		cfg.SourceRoots = append([]string{}, args...)
	}
	if len(cfg.SourceRoots) == 0 {
		cfg.SourceRoots = []string{"."}
	}
	return cfg, nil
}

// NewScanner creates a scanner that also honours the .codegraphignore file
// in the working directory.
func NewScanner(cfg config.Config) (*scanner.Scanner, error) {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return nil, err
	}
	rules, err := ignore.LoadFile(filepath.Join(rootPath, ignore.FileName))
	if err != nil {
		return nil, err
	}

	return scanner.New(cfg,
		scanner.WithLogger(logging.L().Named("scanner")),
		scanner.WithIgnoreRules(rules),
	), nil
}
