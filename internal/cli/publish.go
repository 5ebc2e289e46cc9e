package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelvault/reelvault/internal/app"
)

// PublishOptions holds flags for the publish command.
type PublishOptions struct {
	*RootOptions
	Src             string
	Description     string
	Caption         string
	Thumbnail       string
	GenerateCaption bool
}

// NewPublishCommand creates the publish command.
func NewPublishCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PublishOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a video to the local feed",
		Long: `Publish a video to the local feed.

The video is prepended to the feed and attributed to the local profile.
Without --caption the description doubles as the caption; --generate-caption
asks the configured caption service instead.

Example:
  reelvault publish --src clip.mp4 --description "first light"
  reelvault publish --src clip.mp4 --description "city run" --generate-caption`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Src, "src", "", "media source path or URL (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "video description (required)")
	cmd.Flags().StringVar(&opts.Caption, "caption", "", "caption text (defaults to the description)")
	cmd.Flags().StringVar(&opts.Thumbnail, "thumbnail", "", "thumbnail path or URL")
	cmd.Flags().BoolVar(&opts.GenerateCaption, "generate-caption", false, "ask the caption service for a caption")
	_ = cmd.MarkFlagRequired("src")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func runPublish(opts *PublishOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	s.app.Load(ctx)
	f := formatter(opts.RootOptions, cmd)

	captionText := opts.Caption
	if opts.GenerateCaption {
		captionText, err = s.app.GenerateCaption(ctx, opts.Description)
		if err != nil {
			return commandError("caption generation failed", err)
		}
		f.VerboseLog("caption service returned %q", captionText)
	}

	state, err := s.app.PublishVideo(ctx, app.VideoDraft{
		Src:         opts.Src,
		Description: opts.Description,
		Caption:     captionText,
		Thumbnail:   opts.Thumbnail,
	})
	if err != nil {
		return commandError("failed to publish video", err)
	}

	if opts.Format == "json" {
		return f.JSON(state.Videos)
	}
	if len(state.Videos) > 0 && state.Videos[0].Description == opts.Description {
		fmt.Fprintf(f.Writer, "Published %s\n", state.Videos[0].ID)
	} else {
		fmt.Fprintln(f.Writer, "The video was not admitted to the feed.")
	}
	return nil
}
