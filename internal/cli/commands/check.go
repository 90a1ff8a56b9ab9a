package commands

import (
	"fmt"
	"path/filepath"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/internal/engine"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Roots    []string
	Format   string
	FailOn   string
	Parallel int
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check <model.tcf>...",
		Short: "Validate models without running the solver",
		Long: `Run the static validation pipeline against one or more model roots:
resolve the control graph, scan inputs, pick up any existing run logs
and evaluate the QA rule battery.

The solver is never invoked; run logs from a previous simulation are
analysed when present.`,
		Example: `  # Check one model
  tuflowqa check model.tcf

  # Check several models, four at a time
  tuflowqa check --parallel 4 runs/*.tcf

  # Fail the build on any finding
  tuflowqa check --fail-on minor model.tcf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Roots = args
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "critical", "Exit non-zero at or above this severity: critical, major, minor")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 1, "Number of models validated concurrently")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	roots := make([]string, 0, len(opts.Roots))
	for _, root := range opts.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		roots = append(roots, abs)
	}

	results, err := cmdCtx.Engine.CheckAll(cmd.Context(), roots, opts.Parallel)
	if err != nil {
		return err
	}

	return renderValidation(r, results, opts.FailOn)
}

// renderValidation prints the results for every root and converts the
// fail-on policy into a non-nil error for the exit code.
func renderValidation(r *output.Renderer, results []*engine.Result, failOn string) error {
	if r.EffectiveMode() == output.ModeJSON {
		reports := make([]issueReport, 0, len(results))
		for _, res := range results {
			reports = append(reports, issueReport{
				Root:    res.Root,
				Summary: summarizeIssues(res.Issues),
				Issues:  res.Issues,
			})
		}
		if err := r.JSON(reports); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			renderIssues(r, res.Root, res.Issues)
		}
	}

	failed := 0
	for _, res := range results {
		if failAbove(res.Issues, failOn) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d models failed validation", failed, len(results))
	}
	return nil
}
