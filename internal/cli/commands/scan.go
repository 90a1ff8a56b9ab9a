package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/pkg/core"
	"github.com/hydrostack-labs/tuflowqa/pkg/scan"
	"github.com/spf13/cobra"
)

// ScanOptions holds options for the scan command.
type ScanOptions struct {
	Root   string
	Format string
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}
	cmd := &cobra.Command{
		Use:   "scan <model.tcf>",
		Short: "Resolve the control-file graph and list model inputs",
		Long: `Resolve every control file reachable from the root .tcf and
classify each referenced input file.

Inputs are grouped by category (control files, input files, databases,
GIS layers, grid inputs) and checked for existence on disk. Use
--debug to see why each token was kept or dropped.`,
		Example: `  # Scan a model
  tuflowqa scan model.tcf

  # Scan with placeholder values
  tuflowqa scan -s "~e1~=Q100" -s "~s1~=EXG" model.tcf

  # Machine-readable listing
  tuflowqa scan --format json model.tcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			return runScan(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

type scanReport struct {
	Root     string          `json:"root"`
	Files    []string        `json:"control_files"`
	Inputs   []core.InputRef `json:"inputs"`
	Missing  []string        `json:"missing,omitempty"`
	Issues   []core.Issue    `json:"issues,omitempty"`
	DebugLog []string        `json:"debug_log,omitempty"`
}

func runScan(cmd *cobra.Command, opts *ScanOptions) error {
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

	res := cmdCtx.Engine.ScanInputs(root)

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(scanReport{
			Root:     root,
			Files:    res.Graph.Files(),
			Inputs:   res.Inputs,
			Missing:  res.MissingInputs(),
			Issues:   res.Graph.Issues,
			DebugLog: res.DebugLog,
		}); err != nil {
			return err
		}
		if len(res.Graph.Issues) > 0 {
			return fmt.Errorf("scan found %d control-file issues", len(res.Graph.Issues))
		}
		return nil
	}

	renderScanResult(r, res)

	if len(res.Graph.Issues) > 0 {
		renderIssues(r, root, res.Graph.Issues)
		return fmt.Errorf("scan found %d control-file issues", len(res.Graph.Issues))
	}
	return nil
}

func renderScanResult(r *output.Renderer, res *scan.Result) {
	r.Printf("%s %d control files, %d inputs\n\n",
		r.Styles().Bold.Render("Scanned:"), len(res.Graph.Files()), len(res.Inputs))

	rows := make([][]string, 0, len(res.Inputs))
	for _, inp := range res.Inputs {
		name := inp.Path
		if inp.Layer != "" {
			name = fmt.Sprintf("%s | %s", inp.Path, inp.Layer)
		}
		rows = append(rows, []string{
			inp.Category.Title(),
			name,
			strconv.FormatBool(inp.Exists),
		})
	}
	r.Table([]string{"Category", "Input", "Exists"}, rows)

	if missing := res.MissingInputs(); len(missing) > 0 {
		r.Println("")
		r.Println(r.Styles().Warning.Render(fmt.Sprintf("%d referenced inputs do not exist:", len(missing))))
		for _, m := range missing {
			r.Printf("  %s\n", m)
		}
	}

	if len(res.DebugLog) > 0 {
		r.Println("")
		r.Println(r.Styles().Bold.Render("Scan audit log:"))
		for _, line := range res.DebugLog {
			r.Printf("  %s\n", r.Styles().Muted.Render(line))
		}
	}
}
