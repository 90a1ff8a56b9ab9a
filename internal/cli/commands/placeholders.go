package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/pkg/control"
	"github.com/spf13/cobra"
)

// PlaceholdersOptions holds options for the placeholders command.
type PlaceholdersOptions struct {
	Root   string
	Format string
	Strict bool
}

// NewPlaceholdersCommand creates the placeholders command.
func NewPlaceholdersCommand() *cobra.Command {
	opts := &PlaceholdersOptions{}
	cmd := &cobra.Command{
		Use:   "placeholders <model.tcf>",
		Short: "List placeholder tokens and check their coverage",
		Long: `Scan the model for ~name~ placeholder tokens and report which have
values and which are missing.

Missing values are a warning by default: scans proceed with tokens
left verbatim. With --strict, missing values are an error, matching
the policy applied before a solver run.`,
		Example: `  # List placeholders across the whole model
  tuflowqa placeholders model.tcf

  # Verify coverage before a run
  tuflowqa placeholders --strict -s "~e1~=Q100" model.tcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			return runPlaceholders(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Treat missing values as an error")

	return cmd
}

type placeholderReport struct {
	Root     string            `json:"root"`
	Detected []string          `json:"detected"`
	Values   map[string]string `json:"values,omitempty"`
	Missing  []string          `json:"missing,omitempty"`
	Severity string            `json:"severity"`
	Message  string            `json:"message,omitempty"`
	OK       bool              `json:"ok"`
}

func runPlaceholders(cmd *cobra.Command, opts *PlaceholdersOptions) error {
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

	// Gather tokens across the whole graph, not only the root path:
	// any control file may reference a parameterised path.
	detected := map[string]bool{}
	for _, tok := range control.FindPlaceholders(root) {
		detected[tok] = true
	}
	graph := cmdCtx.Engine.ResolveControlGraph(root)
	for _, path := range graph.Files() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, tok := range control.FindPlaceholders(string(data)) {
			detected[tok] = true
		}
	}

	tokens := make([]string, 0, len(detected))
	for tok := range detected {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	values := cmdCtx.Cfg.Placeholders
	var missing []string
	for _, tok := range tokens {
		if _, ok := values[tok]; !ok {
			missing = append(missing, tok)
		}
	}

	pv := cmdCtx.Engine.ValidatePlaceholders(root, opts.Strict, opts.Strict)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(placeholderReport{
			Root:     root,
			Detected: tokens,
			Values:   values,
			Missing:  missing,
			Severity: pv.Severity.String(),
			Message:  pv.Message,
			OK:       pv.OKToProceed && (!opts.Strict || len(missing) == 0),
		})
	}

	if len(tokens) == 0 {
		r.Success("No placeholders found")
		return nil
	}

	rows := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		value, ok := values[tok]
		if !ok {
			value = r.Styles().Warning.Render("(missing)")
		}
		rows = append(rows, []string{tok, value})
	}
	r.Table([]string{"Placeholder", "Value"}, rows)

	if pv.Message != "" {
		r.Println("")
		r.Println(r.Styles().Warning.Render(pv.Message))
	}

	if opts.Strict && len(missing) > 0 {
		return &missingPlaceholdersError{missing: missing}
	}
	return nil
}

type missingPlaceholdersError struct {
	missing []string
}

func (e *missingPlaceholdersError) Error() string {
	return "missing placeholder values: " + strings.Join(e.missing, ", ")
}
