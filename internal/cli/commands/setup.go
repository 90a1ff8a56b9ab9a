// Package commands implements the tuflowqa subcommands.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/config"
	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/internal/engine"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.Output)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an
// engine. Useful for commands that only read local state.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.Output)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration. It uses
// config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		SolverExe:   os.Getenv("TUFLOWQA_SOLVER_EXE"),
		HistoryPath: getEnvOrDefault("TUFLOWQA_HISTORY_PATH", config.DefaultHistoryPath),
		Output:      getEnvOrDefault("TUFLOWQA_OUTPUT", config.DefaultOutput),
		Verbose:     os.Getenv("TUFLOWQA_VERBOSE") == "true",
		Debug:       os.Getenv("TUFLOWQA_DEBUG") == "true",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	if cfg.HistoryPath != "" {
		historyDir := filepath.Dir(cfg.HistoryPath)
		if historyDir != "." && historyDir != "" {
			if err := os.MkdirAll(historyDir, 0750); err != nil {
				return nil, err
			}
		}
	}

	th := cfg.QAThresholds()
	return engine.New(engine.Config{
		Placeholders: cfg.Placeholders,
		Debug:        cfg.Debug,
		Thresholds:   &th,
		SolverExe:    cfg.SolverExe,
		HistoryPath:  cfg.HistoryPath,
		Logger:       logger,
	})
}
