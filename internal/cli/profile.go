package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ProfileEditOptions holds flags for the profile edit command.
type ProfileEditOptions struct {
	*RootOptions
	Username string
	Bio      string
	Picture  string
}

// NewProfileCommand creates the profile command group.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the local profile",
	}
	cmd.AddCommand(newProfileShowCommand(rootOpts))
	cmd.AddCommand(newProfileEditCommand(rootOpts))
	return cmd
}

func newProfileShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the local profile",
		Long: `Show the local profile.

A profile is created on first use; the 7-digit display id is assigned once
and never changes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow(rootOpts, cmd)
		},
	}
}

func runProfileShow(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	p := s.app.Profile(cmd.Context())
	f := formatter(opts, cmd)

	if opts.Format == "json" {
		return f.JSON(p)
	}
	fmt.Fprintf(f.Writer, "@%s (#%s)\n", p.Username, p.DisplayID)
	if p.Bio != "" {
		fmt.Fprintln(f.Writer, p.Bio)
	}
	fmt.Fprintf(f.Writer, "picture: %s\n", p.ProfilePicture)
	fmt.Fprintf(f.Writer, "followers: %d\n", p.FollowersCount)
	return nil
}

func newProfileEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileEditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the local profile",
		Long: `Edit the local profile.

Only the flags you pass change; identity fields (id, display id) are not
editable.

Example:
  reelvault profile edit --username ana --bio "filming things"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileEdit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "", "display name")
	cmd.Flags().StringVar(&opts.Bio, "bio", "", "profile bio")
	cmd.Flags().StringVar(&opts.Picture, "picture", "", "profile picture path or URL")

	return cmd
}

func runProfileEdit(opts *ProfileEditOptions, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	state := s.app.Load(ctx)

	p := state.Profile
	if cmd.Flags().Changed("username") {
		p.Username = opts.Username
	}
	if cmd.Flags().Changed("bio") {
		p.Bio = opts.Bio
	}
	if cmd.Flags().Changed("picture") {
		p.ProfilePicture = opts.Picture
	}

	state = s.app.SaveProfile(ctx, p)
	f := formatter(opts.RootOptions, cmd)
	if opts.Format == "json" {
		return f.JSON(state.Profile)
	}
	fmt.Fprintf(f.Writer, "Profile saved: @%s (#%s)\n", state.Profile.Username, state.Profile.DisplayID)
	return nil
}
