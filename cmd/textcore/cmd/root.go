// Package cmd implements the textcore command line.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/engine/text"
	"github.com/dshills/textcore/internal/renderer/highlight"
	"github.com/dshills/textcore/internal/syntax/lexcache"
	"github.com/dshills/textcore/internal/syntax/modes"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

var (
	configPath string
	logLevel   string
	langName   string
	themeName  string

	cfg      *config.Config
	theme    *highlight.Theme
	logger   = slog.New(slog.DiscardHandler)
	registry = modes.DefaultRegistry()
)

var rootCmd = &cobra.Command{
	Use:   "textcore",
	Short: "Tokenize and highlight text with an incremental lexical cache",
	Long: `textcore runs the incremental tokenizer over files and prints what it
sees: tokens, styled decorations, indentation and the shape of the rope that
stores the document.

Languages are picked from the file extension unless --lang is given.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		level, err := parseLevel(logLevel)
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if themeName != "" {
			cfg.Theme.Name = themeName
		}
		theme, err = highlight.ThemeFromConfig(cfg.Theme)
		if err != nil {
			return err
		}
		logger.Debug("config loaded", "path", configPath, "theme", theme.Name, "stride", cfg.Syntax.CheckpointStride)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML or YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&langName, "lang", "l", "", "language name, overriding the file extension")
	rootCmd.PersistentFlags().StringVarP(&themeName, "theme", "t", "", "theme name, overriding the configuration")
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", s)
}

// language resolves the language for path.
func language(path string) (*modes.Language, error) {
	if langName != "" {
		l, ok := registry.Get(langName)
		if !ok {
			return nil, fmt.Errorf("unknown language %q (have %s)", langName, strings.Join(registry.Names(), ", "))
		}
		return l, nil
	}
	l, ok := registry.ForFile(path)
	if !ok {
		return nil, fmt.Errorf("no language for %s; use --lang (have %s)", path, strings.Join(registry.Names(), ", "))
	}
	return l, nil
}

// readDoc loads the file at path as a document.
func readDoc(path string) (text.Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return text.Text{}, err
	}
	return text.Of(string(data)), nil
}

// openCache loads path and opens a cache over it with the configured tuning.
func openCache(path string) (lexcache.Any, error) {
	lang, err := language(path)
	if err != nil {
		return nil, err
	}
	doc, err := readDoc(path)
	if err != nil {
		return nil, err
	}
	opts := append(cfg.Syntax.CacheOptions(), lexcache.WithLogger(logger))
	logger.Info("opened", "path", path, "lang", lang.Name(), "bytes", doc.Len(), "lines", doc.Lines())
	return lang.Open(doc, opts...), nil
}
