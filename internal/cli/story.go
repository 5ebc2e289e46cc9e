package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelvault/reelvault/internal/app"
)

// StoryPostOptions holds flags for the story post command.
type StoryPostOptions struct {
	*RootOptions
	Image string
	Audio string
}

// NewStoryCommand creates the story command group.
func NewStoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Post or list stories",
	}
	cmd.AddCommand(newStoryPostCommand(rootOpts))
	cmd.AddCommand(newStoryListCommand(rootOpts))
	return cmd
}

func newStoryPostCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoryPostOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a story",
		Long: `Post a story that expires 24 hours after posting.

Example:
  reelvault story post --image sunset.jpg
  reelvault story post --image sunset.jpg --audio track.mp3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoryPost(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Image, "image", "", "story image path or URL (required)")
	cmd.Flags().StringVar(&opts.Audio, "audio", "", "optional audio track path or URL")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func runStoryPost(opts *StoryPostOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	s.app.Load(ctx)
	state, err := s.app.PublishStory(ctx, app.StoryDraft{
		ImageURL: opts.Image,
		AudioURL: opts.Audio,
	})
	if err != nil {
		return commandError("failed to post story", err)
	}

	f := formatter(opts.RootOptions, cmd)
	if opts.Format == "json" {
		return f.JSON(state.Stories)
	}
	st := state.Stories[0]
	fmt.Fprintf(f.Writer, "Story %s posted, expires %s\n",
		st.ID, time.UnixMilli(st.ExpiryTime).Format(time.RFC3339))
	return nil
}

func newStoryListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active stories",
		Long: `List the stories that have not yet expired.

Expired stories are hidden here but stay stored until pruned.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoryList(rootOpts, cmd)
		},
	}
}

func runStoryList(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	state := s.app.Load(cmd.Context())
	f := formatter(opts, cmd)

	if opts.Format == "json" {
		return f.JSON(state.Stories)
	}
	if len(state.Stories) == 0 {
		fmt.Fprintln(f.Writer, "No active stories.")
		return nil
	}
	for _, st := range state.Stories {
		fmt.Fprintf(f.Writer, "%s  @%s  %s  expires %s\n",
			st.ID, st.Username, st.ImageURL, time.UnixMilli(st.ExpiryTime).Format(time.RFC3339))
	}
	return nil
}
