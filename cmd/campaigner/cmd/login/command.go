// Package login implements the login and logout flow against the
// backend's Facebook sign-in.
package login

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/campainly/campaigner/internal/callback"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/oauth"
	"github.com/campainly/campaigner/pkg/storage"
)

// AppContext defines what the login command needs from the app.
type AppContext interface {
	Client() (*api.Client, error)
	Storage() (storage.Storage, error)
	Logger() *zerolog.Logger
	AllowedOrigins() []string
	CallbackAddr() string
}

// Launcher opens a URL in the user's browser.
type Launcher func(url string) error

// NewCommand creates the login command.
func NewCommand(app AppContext) *cobra.Command {
	var (
		conversationID string
		token          string
		noBrowser      bool
	)

	cmd := &cobra.Command{
		Use:     "login",
		GroupID: "account",
		Short:   "Sign in with Facebook",
		Long: `Login opens the Facebook sign-in page in your browser and waits for
the result on a local callback address. On success the access token is
stored and used by every command that needs it.

With --token a token obtained elsewhere is stored directly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if token != "" {
				store, err := app.Storage()
				if err != nil {
					return err
				}
				storage.ClearAuth(store)
				if err := store.Set(constants.KeyAuthToken, token); err != nil {
					return err
				}
				fmt.Fprintln(out, "Token stored.")
				return nil
			}

			var launch Launcher
			if noBrowser {
				launch = func(url string) error {
					fmt.Fprintf(out, "Open this address to sign in:\n  %s\n", url)
					return nil
				}
			}
			_, err := Run(cmd.Context(), app, conversationID, out, launch)
			return err
		},
	}

	cmd.Flags().StringVar(&conversationID, "conversation", "", "link the login to a conversation id")
	cmd.Flags().StringVar(&token, "token", "", "store this access token instead of signing in")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the sign-in address instead of opening it")

	return cmd
}

// Run performs one login, reporting progress to out. launch opens the
// sign-in page; the system browser is used when it is nil.
func Run(ctx context.Context, app AppContext, conversationID string, out io.Writer, launch Launcher) (oauth.Outcome, error) {
	client, err := app.Client()
	if err != nil {
		return oauth.Failed, err
	}
	store, err := app.Storage()
	if err != nil {
		return oauth.Failed, err
	}

	server := callback.New(app.CallbackAddr())
	if err := server.Start(); err != nil {
		return oauth.Failed, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	origins := slices.Concat(oauth.DefaultAllowedOrigins, app.AllowedOrigins(), []string{client.Origin()})
	handshake := oauth.New(client, &callback.BrowserOpener{Server: server, Launch: launch}, server, store,
		oauth.WithAllowedOrigins(origins...),
		oauth.WithNavigator(oauth.NavigatorFunc(func(string) {
			fmt.Fprintln(out, "Signed in. Continue with: campaigner workspace")
		})),
	)

	ctx, cancel := context.WithTimeout(ctx, constants.LoginTimeout)
	defer cancel()

	fmt.Fprintf(out, "Waiting for sign-in (results are received at %s)...\n", server.CallbackURL())
	outcome, err := handshake.Login(ctx, conversationID)
	switch {
	case errors.IsPopupBlocked(err):
		fmt.Fprintln(out, "Could not open the browser. Retry with --no-browser and open the address yourself.")
	case err != nil:
		app.Logger().Debug().Err(err).Msg("Login failed")
	case outcome == oauth.Failed:
		fmt.Fprintln(out, "Sign-in was not completed.")
	case outcome == oauth.Closed:
		fmt.Fprintln(out, "The sign-in window was closed.")
	}
	return outcome, err
}
