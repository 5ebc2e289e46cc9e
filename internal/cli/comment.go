package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommentCommand creates the comment command.
func NewCommentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment <video-id> <text>",
		Short: "Comment on a video",
		Long: `Append a comment by the local user to a video.

Whitespace-only text is rejected; the comment counter always matches the
number of comments.

Example:
  reelvault comment 0197a3c2-... "so good"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComment(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runComment(opts *RootOptions, videoID, text string, cmd *cobra.Command) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	s.app.Load(ctx)
	v, err := s.app.AddComment(ctx, videoID, text)
	if err != nil {
		return commandError("failed to add comment", err)
	}

	f := formatter(opts, cmd)
	if opts.Format == "json" {
		return f.JSON(v)
	}
	last := v.CommentsData[len(v.CommentsData)-1]
	fmt.Fprintf(f.Writer, "Comment %s added to %s (%d total)\n", last.ID, v.ID, v.CommentsCount)
	return nil
}
