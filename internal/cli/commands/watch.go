package commands

import (
	"path/filepath"
	"time"

	"github.com/hydrostack-labs/tuflowqa/internal/engine"
	"github.com/hydrostack-labs/tuflowqa/internal/watch"
	"github.com/spf13/cobra"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Root     string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <model.tcf>",
		Short: "Revalidate the model whenever a control file changes",
		Long: `Validate the model, then keep watching every control file in its
graph and revalidate on change. Runs until interrupted.

Only control-file changes trigger revalidation; edits to GIS layers,
grids or databases are ignored.`,
		Example: `  # Watch a model during editing
  tuflowqa watch model.tcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 250*time.Millisecond, "Delay before revalidating after a change")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return err
	}

	r.Printf("Watching %s (Ctrl+C to stop)\n\n", root)

	w := watch.New(cmdCtx.Engine, root, watch.Options{
		Debounce: opts.Debounce,
		Logger:   cmdCtx.Logger,
	})
	return w.Run(cmd.Context(), func(res *engine.Result, err error) {
		stamp := time.Now().Format("15:04:05")
		if err != nil {
			r.Errorf("[%s] validation failed: %v\n", stamp, err)
			return
		}
		r.Printf("[%s] ", stamp)
		renderIssues(r, res.Root, res.Issues)
	})
}
