package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wesm/smsbackup/internal/address"
	"github.com/wesm/smsbackup/internal/config"
	"github.com/wesm/smsbackup/internal/render"
)

// cli holds the state shared by the root command and its subcommands.
type cli struct {
	cfgFile string
	homeDir string
	verbose bool
	quiet   bool

	export exportFlags

	cfg    *config.Config
	logger *slog.Logger
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "smsbackup",
		Short: "Export SMS and iMessage history from an iPhone backup",
		Long: `smsbackup reads the SMS database from a local iPhone backup made by
iTunes or Finder and writes the conversation history as an aligned text
table, CSV or JSON.

The database is copied to a temporary file before it is read, so the
backup itself is never opened. Both the iOS 5 and the iOS 6+ database
layouts are supported.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for commands that don't need it
			if cmd.Name() == "version" {
				return nil
			}
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default: ~/.smsbackup/config.toml)")
	root.PersistentFlags().StringVar(&c.homeDir, "home", "", "home directory (overrides SMSBACKUP_HOME)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "increase running commentary")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "decrease running commentary")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	c.export.register(root)

	root.AddCommand(newBackupsCmd(c))
	root.AddCommand(newVersionCmd())
	return root
}

// setup builds the logger and loads the configuration.
func (c *cli) setup(cmd *cobra.Command) error {
	var err error
	c.cfg, err = config.Load(c.cfgFile, c.homeDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelInfo
	switch {
	case c.verbose:
		level = slog.LevelDebug
	case c.quiet:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.cfg.Log.Format == "json" {
		c.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), opts))
	} else {
		c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
	}
	return nil
}

// usageError marks errors caused by bad flags or option values.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// IsUsageError reports whether err was caused by invalid command-line
// input or configuration values rather than by a failure while running.
func IsUsageError(err error) bool {
	var ue *usageError
	var ce *address.ConfigError
	if errors.As(err, &ue) || errors.As(err, &ce) {
		return true
	}
	// cobra reports these without calling the flag error func.
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "if any flags in the group")
}

// Execute runs the root command with a background context.
// Prefer ExecuteContext for signal-aware execution.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// formatNames is the help text listing of the output formats.
var formatNames = strings.Join(render.Formats, ", ")
