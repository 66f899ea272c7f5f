package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/campainly/campaigner/cmd/campaigner/cmd/chat"
	"github.com/campainly/campaigner/cmd/campaigner/cmd/history"
	"github.com/campainly/campaigner/cmd/campaigner/cmd/login"
	"github.com/campainly/campaigner/cmd/campaigner/cmd/logout"
	"github.com/campainly/campaigner/cmd/campaigner/cmd/onboard"
	"github.com/campainly/campaigner/cmd/campaigner/cmd/upload"
	"github.com/campainly/campaigner/cmd/campaigner/cmd/version"
	"github.com/campainly/campaigner/cmd/campaigner/cmd/workspace"
	"github.com/campainly/campaigner/pkg/logging"
)

// Execute runs the campaigner CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "campaigner",
		Short:   "Conversational campaign assistant",
		Version: a.version,
		Long: `Campaigner talks you through describing your business, turns your
photos and videos into a campaign strategy with editable ad variants, and
saves the campaign once you have signed in with Facebook.

Start with "campaigner onboard", sign in with "campaigner login", then
continue in "campaigner workspace".`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "chat", Title: "Chat Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "account", Title: "Account Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.campaigner.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("no-persist", false, "keep session state in memory only")
	flags.StringP("format", "o", "", "output format: table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("api-url", "", "backend base URL (default from CAMPAIGNER_API_URL)")

	rootCmd.SetVersionTemplate("campaigner {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfigFrom(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetBool(cmd, "no-persist"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
		mustGetString(cmd, "api-url"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(onboard.NewCommand(a))
	rootCmd.AddCommand(chat.NewCommand(a))
	rootCmd.AddCommand(workspace.NewCommand(a))

	rootCmd.AddCommand(login.NewCommand(a))
	rootCmd.AddCommand(logout.NewCommand(a))
	rootCmd.AddCommand(history.NewCommand(a))
	rootCmd.AddCommand(upload.NewCommand(a))

	rootCmd.AddCommand(version.NewCommand(a))
}

// ExitOnError prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
