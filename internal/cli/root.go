// Package cli is the command-line shell over the application facade: the
// stand-in for a UI, one subcommand per user intent.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelvault/reelvault/internal/app"
	"github.com/reelvault/reelvault/internal/caption"
	"github.com/reelvault/reelvault/internal/config"
	"github.com/reelvault/reelvault/internal/kvstore"
	"github.com/reelvault/reelvault/internal/policy"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Database   string // overrides the configured database path
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the reelvault CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reelvault",
		Short: "reelvault - local-first short video vault",
		Long:  "A local-first vault for short videos, stories and a profile, persisted in SQLite.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			logLevel := slog.LevelInfo
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "reelvault.yaml", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewFeedCommand(opts))
	cmd.AddCommand(NewPublishCommand(opts))
	cmd.AddCommand(NewLikeCommand(opts))
	cmd.AddCommand(NewCommentCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewStoryCommand(opts))
	cmd.AddCommand(NewPruneCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session bundles everything a command needs for one invocation.
type session struct {
	cfg config.Config
	kv  *kvstore.Store
	app *app.App
}

// openSession loads config, opens the database and builds the facade.
// Every command runs against a fresh session; durable state is the only
// thing that survives between invocations.
func openSession(opts *RootOptions) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	dbPath := cfg.DatabasePath()
	if opts.Database != "" {
		dbPath = opts.Database
	}

	kv, err := kvstore.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	appOpts := []app.Option{}
	if cfg.PolicyFile != "" {
		adm, err := policy.LoadFile(cfg.PolicyFile)
		if err != nil {
			kv.Close()
			return nil, WrapExitError(ExitCommandError, "failed to load admission policy", err)
		}
		appOpts = append(appOpts, app.WithAdmission(adm))
	}
	if cfg.Caption.Endpoint != "" {
		gen := caption.NewHTTPGenerator(cfg.Caption.Endpoint, time.Duration(cfg.Caption.TimeoutSeconds)*time.Second)
		appOpts = append(appOpts, app.WithCaptionGenerator(gen))
	}

	return &session{cfg: cfg, kv: kv, app: app.New(kv, appOpts...)}, nil
}

func (s *session) close() {
	if err := s.kv.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// formatter builds the output formatter for a command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// commandError maps facade errors onto exit codes: validation errors are
// user failures (1), everything else is a command error (2).
func commandError(message string, err error) error {
	if app.IsValidation(err) {
		return WrapExitError(ExitFailure, message, err)
	}
	return WrapExitError(ExitCommandError, message, err)
}
