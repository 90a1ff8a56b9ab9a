package commands

import (
	"path/filepath"

	"github.com/hydrostack-labs/tuflowqa/internal/cli/output"
	"github.com/hydrostack-labs/tuflowqa/pkg/core"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// TreeOptions holds options for the tree command.
type TreeOptions struct {
	Root   string
	Format string
	YAML   bool
}

// NewTreeCommand creates the tree command.
func NewTreeCommand() *cobra.Command {
	opts := &TreeOptions{}
	cmd := &cobra.Command{
		Use:   "tree <model.tcf>",
		Short: "Show the model structure as a tree",
		Long: `Scan the model and print its unified structure tree: the control
file hierarchy followed by every input grouped by category.`,
		Example: `  # Print the model tree
  tuflowqa tree model.tcf

  # Dump the tree as YAML
  tuflowqa tree --yaml model.tcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			return runTree(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "Dump the tree as YAML (same as --format yaml)")

	return cmd
}

func runTree(cmd *cobra.Command, opts *TreeOptions) error {
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

	switch {
	case r.EffectiveMode() == output.ModeJSON:
		return r.JSON(res.Tree)
	case opts.YAML || opts.Format == "yaml":
		out, err := yaml.Marshal(res.Tree)
		if err != nil {
			return err
		}
		r.Printf("%s", out)
		return nil
	}

	renderTree(r, res.Tree, 0)
	return nil
}

func renderTree(r *output.Renderer, node *core.ModelNode, depth int) {
	if node == nil {
		return
	}

	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	label := node.Name
	if node.Path == "" {
		label = r.Styles().Bold.Render(label)
	} else if !node.Exists {
		label = r.Styles().Error.Render(label + " (missing)")
	}
	r.Printf("%s%s\n", indent, label)

	for _, child := range node.Children {
		renderTree(r, child, depth+1)
	}
}
