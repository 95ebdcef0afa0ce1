// Package cmd holds the aiedit command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"aiedit/internal/ai"
	"aiedit/internal/build"
	"aiedit/internal/config"
	"aiedit/internal/editor"
	"aiedit/internal/logging"
	"aiedit/internal/toolchain"
)

var (
	version = "dev"
	cfgFile string
	debug   bool

	cfg      config.Config
	logger   = zap.NewNop()
	flushLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "aiedit [file]",
	Short: "A terminal C/C++ editor with a local AI assistant",
	Long: `aiedit edits a single C/C++ source file with syntax highlighting,
compiles and runs it with g++, clang++ or cl, and asks a local Ollama
model about the code.

Examples:
  # Open an existing file
  aiedit main.cpp

  # Use clang and a different model for this session
  aiedit --compiler clang --model deepseek-coder main.cpp

Keys:
  Ctrl-S  save (asks for a path when the buffer has none)
  Ctrl-B  compile           Ctrl-R  run the last build
  F5      compile and run   F6      next compiler
  Ctrl-K  ask the AI about the buffer
  Ctrl-F  follow-up question
  Ctrl-G  improvement suggestions
  Ctrl-X  clear the conversation and output
  Ctrl-Z  undo              Ctrl-U  redo
  Ctrl-V  paste             Ctrl-Y  copy the output pane
  Ctrl-Q  quit (twice with unsaved changes)`,
	Version:            version,
	Args:               cobra.MaximumNArgs(1),
	SilenceUsage:       true,
	PersistentPreRunE:  loadSettings,
	PersistentPostRunE: closeSettings,
	RunE:               runEditor,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .aiedit/config.yaml, then ~/.config/aiedit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"log at debug level (to the configured log file, or aiedit.log in the temp dir)")
	rootCmd.PersistentFlags().String("compiler", "", "compiler: g++, clang++, cl or mingw-g++")
	rootCmd.PersistentFlags().String("model", "", "Ollama model name")
	rootCmd.PersistentFlags().String("endpoint", "", "Ollama generate endpoint URL")
}

// loadSettings reads configuration with flags taking precedence, and opens
// the log.
func loadSettings(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		"compiler":    "compiler",
		"ai.model":    "model",
		"ai.endpoint": "endpoint",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}

	loaded, err := config.LoadWith(v, cfgFile)
	if err != nil {
		return err
	}
	if debug {
		loaded.Log.Level = "debug"
		if loaded.Log.Path == "" {
			loaded.Log.Path = filepath.Join(os.TempDir(), "aiedit.log")
		}
	}
	cfg = loaded

	log, flush, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	logger, flushLog = log, flush
	logger.Debug("configuration loaded",
		zap.String("file", v.ConfigFileUsed()),
		zap.String("compiler", cfg.Compiler),
		zap.String("model", cfg.AI.Model))
	return nil
}

func closeSettings(*cobra.Command, []string) error {
	flushLog()
	return nil
}

func newOrchestrator() *build.Orchestrator {
	log := logger.Named("build")
	return build.New(build.ExecLauncher{Log: log}, toolchain.ParseIdentity(cfg.Compiler), log)
}

func newAssistant() *ai.Service {
	log := logger.Named("ai")
	client := ai.NewClient(cfg.AI.Endpoint, cfg.AI.Model, ai.WithLogger(log))
	return ai.NewService(client, log)
}

func runEditor(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	ed, err := editor.New(editor.Options{
		Path:      path,
		Config:    cfg,
		Builder:   newOrchestrator(),
		Assistant: newAssistant(),
		Log:       logger.Named("editor"),
	})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := ed.Run(screen); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}

// commandContext is the command's context, or Background when it has none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
