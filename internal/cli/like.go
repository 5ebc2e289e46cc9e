package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLikeCommand creates the like command.
func NewLikeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "like <video-id>",
		Short: "Toggle the like on a video",
		Long: `Toggle the local user's like on a video.

Liking raises the like counter and records membership; liking again
reverses both. The two always move together.

Example:
  reelvault like 0197a3c2-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLike(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runLike(opts *RootOptions, videoID string, cmd *cobra.Command) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	s.app.Load(ctx)
	state := s.app.ToggleLike(ctx, videoID)
	f := formatter(opts, cmd)

	if opts.Format == "json" {
		return f.JSON(map[string]any{
			"id":    videoID,
			"liked": state.HasLiked(videoID),
		})
	}
	if state.HasLiked(videoID) {
		fmt.Fprintf(f.Writer, "Liked %s\n", videoID)
	} else {
		fmt.Fprintf(f.Writer, "Unliked %s\n", videoID)
	}
	return nil
}
