package commands

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/internal/state"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Model  string
	RunID  string
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past validation runs",
		Long: `List recorded validation runs with their issue counts, newest
first. With --run, show the findings of one run instead.`,
		Example: `  # Last 20 runs
  tuflowqa history

  # Runs of one model only
  tuflowqa history --model model.tcf

  # Findings of a specific run
  tuflowqa history --run 2f1c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Model, "model", "", "Only show runs of this model root")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "Show the findings of this run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	store := cmdCtx.Engine.History()
	if store == nil {
		return fmt.Errorf("history is disabled (no history_path configured)")
	}

	if opts.RunID != "" {
		return renderFindings(r, store, opts.RunID)
	}

	model := opts.Model
	if model != "" {
		if model, err = filepath.Abs(model); err != nil {
			return err
		}
	}

	runs, err := store.ListRuns(model, opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runs)
	}

	if len(runs) == 0 {
		r.Println("No recorded runs")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		shortID := run.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		rows = append(rows, []string{
			shortID,
			filepath.Base(run.ModelPath),
			string(run.Status),
			run.StartedAt.Local().Format(time.DateTime),
			strconv.Itoa(run.CriticalCount),
			strconv.Itoa(run.MajorCount),
			strconv.Itoa(run.MinorCount),
		})
	}
	r.Table([]string{"Run", "Model", "Status", "Started", "Critical", "Major", "Minor"}, rows)
	return nil
}

func renderFindings(r *output.Renderer, store state.Store, runID string) error {
	findings, err := store.ListFindings(runID)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(findings)
	}

	if len(findings) == 0 {
		r.Println("No findings recorded for this run")
		return nil
	}

	for _, f := range findings {
		r.Printf("  %s  %s  %s\n",
			severityStyle(r, f.Severity),
			r.Styles().Bold.Render(f.IssueID),
			f.Message,
		)
	}
	return nil
}
