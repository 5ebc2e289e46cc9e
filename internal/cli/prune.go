package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPruneCommand creates the prune command.
func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop expired stories from storage",
		Long: `Drop expired stories from storage.

Expired stories are already hidden from every listing; prune reclaims the
storage they occupy.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(rootOpts, cmd)
		},
	}
	return cmd
}

func runPrune(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	s.app.Load(ctx)
	state := s.app.PruneStories(ctx)

	f := formatter(opts, cmd)
	if opts.Format == "json" {
		return f.JSON(state.Stories)
	}
	fmt.Fprintf(f.Writer, "Pruned. %d active stories remain.\n", len(state.Stories))
	return nil
}
