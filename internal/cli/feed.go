package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFeedCommand creates the feed command.
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the local feed, most recent first",
		Long: `Show the local video feed.

Videos are listed most recent first, the way they were published.

Example:
  reelvault feed
  reelvault feed --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(rootOpts, cmd)
		},
	}
	return cmd
}

func runFeed(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	state := s.app.Load(cmd.Context())
	f := formatter(opts, cmd)

	if opts.Format == "json" {
		return f.JSON(state.Videos)
	}

	if len(state.Videos) == 0 {
		fmt.Fprintln(f.Writer, "The feed is empty. Publish a video with `reelvault publish`.")
		return nil
	}
	for _, v := range state.Videos {
		liked := " "
		if state.HasLiked(v.ID) {
			liked = "♥"
		}
		fmt.Fprintf(f.Writer, "%s %s  @%s  ♥%d 💬%d  %s\n",
			liked, v.ID, v.Artist, v.LikesCount, v.CommentsCount, v.Description)
	}
	return nil
}
