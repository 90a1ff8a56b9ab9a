package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/internal/engine"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Root   string
	Format string
	FailOn string
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}
	cmd := &cobra.Command{
		Use:   "run <model.tcf>",
		Short: "Launch a solver test run and validate its logs",
		Long: `Launch the configured solver in test mode against the model, then
analyse the run logs it writes: the text log, the hardware companion
log and the messages CSV.

Requires a solver executable, configured via --solver, the
TUFLOWQA_SOLVER_EXE environment variable or solver_exe in
tuflowqa.yaml. All placeholders must have values before a run.`,
		Example: `  # Test-run a model
  tuflowqa run --solver /opt/tuflow/tuflow model.tcf

  # Test-run with placeholder values
  tuflowqa run -s "~e1~=Q100" -s "~s1~=EXG" model.tcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "critical", "Exit non-zero at or above this severity: critical, major, minor")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return err
	}

	res, err := cmdCtx.Engine.Run(cmd.Context(), root)
	if err != nil {
		return err
	}

	if r.EffectiveMode() != output.ModeJSON {
		renderRunSummary(r, res)
	}

	return renderValidation(r, []*engine.Result{res}, opts.FailOn)
}

func renderRunSummary(r *output.Renderer, res *engine.Result) {
	r.Println(r.Styles().Bold.Render("Run summary"))

	var rows [][]string
	add := func(name, value string) {
		rows = append(rows, []string{name, value})
	}
	hours := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f h", *v)
	}
	seconds := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%g s", *v)
	}

	if run := res.Run; run != nil {
		add("Solution scheme", run.SolutionScheme)
		add("Run started", strconv.FormatBool(run.HasRunningLine))
		add("Duration", hours(run.DurationH))
		add("Map output interval", seconds(run.MapOutputIntervalS))
		add("Time series output interval", seconds(run.TSOutputIntervalS))
		add("Timestep", seconds(run.TimestepS))
		add("Materials", strconv.Itoa(len(run.Materials)))
		add("Soils", strconv.Itoa(len(run.Soils)))
	}
	if hpc := res.Hpc; hpc != nil {
		add("GPU", hpc.GPU.String())
		add("HPC timestep range", fmt.Sprintf("%s - %s", seconds(hpc.TimestepMinS), seconds(hpc.TimestepMaxS)))
	}
	add("Solver errors", strconv.Itoa(res.Messages.ErrorCount))
	add("Solver warnings", strconv.Itoa(res.Messages.WarningCount))
	add("Solver checks", strconv.Itoa(res.Messages.CheckCount))

	r.Table([]string{"Field", "Value"}, rows)

	if len(res.Messages.ErrorLines) > 0 {
		r.Println("")
		r.Println(r.Styles().Error.Render("Solver errors:"))
		for _, line := range res.Messages.ErrorLines {
			r.Printf("  %s\n", line)
		}
	}
	r.Println("")
}
