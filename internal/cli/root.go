// Package cli provides the command-line interface for tuflowqa.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/commands"
	"github.com/hydrostack-labs/tuflowqa/internal/cli/config"
	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/internal/engine"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	setFlags []string
	cfg      *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tuflowqa",
		Short: "tuflowqa - Hydraulic Model QA Validator",
		Long: `tuflowqa validates TUFLOW hydraulic models before and after a run.

It resolves the control-file graph from a root .tcf, classifies every
referenced input, optionally launches the solver in test mode, and
evaluates the run logs against a battery of QA rules.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			// Fold -s key=value pairs into the placeholder map, over
			// anything the config file set. Keys may be written with
			// or without tildes; substitution keys are bare names.
			if len(setFlags) > 0 {
				if cfg.Placeholders == nil {
					cfg.Placeholders = make(map[string]string, len(setFlags))
				}
				for _, kv := range setFlags {
					name, value, ok := strings.Cut(kv, "=")
					if !ok {
						return fmt.Errorf("invalid --set value %q, want name=value", kv)
					}
					cfg.Placeholders[strings.Trim(name, "~")] = value
				}
			}

			// Store config in context
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)

			// Build the logger and share it with the commands package
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelInfo
			}
			if cfg.Debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)

			// Create and store renderer based on output mode
			mode := output.Mode(cfg.Output)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tuflowqa.yaml)")
	rootCmd.PersistentFlags().String("solver", "", "Path to the solver executable used for test runs")
	rootCmd.PersistentFlags().String("history", "", "Path to the validation history database")
	rootCmd.PersistentFlags().StringArrayVarP(&setFlags, "set", "s", nil, "Placeholder value as name=value (e.g. -s ~e1~=Q100), repeatable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Record a per-token audit log while scanning")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewTreeCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewPlaceholdersCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		HistoryPath: config.DefaultHistoryPath,
		Output:      config.DefaultOutput,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// CreateEngine creates a validation engine from the current
// configuration.
func CreateEngine(cfg *config.Config) (*engine.Engine, error) {
	if cfg.HistoryPath != "" {
		historyDir := filepath.Dir(cfg.HistoryPath)
		if historyDir != "." && historyDir != "" {
			if err := os.MkdirAll(historyDir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
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
	})
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tuflowqa.

To load completions:

Bash:
  $ source <(tuflowqa completion bash)

Zsh:
  $ tuflowqa completion zsh > "${fpath[1]}/_tuflowqa"

Fish:
  $ tuflowqa completion fish | source

PowerShell:
  PS> tuflowqa completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
