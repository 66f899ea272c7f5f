// Package onboard implements the onboarding chat: a short guided
// conversation that ends with a prompt to sign in.
package onboard

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campainly/campaigner/cmd/campaigner/cmd/login"
	"github.com/campainly/campaigner/internal/cmd/repl"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/conversation"
	"github.com/campainly/campaigner/pkg/render"
	"github.com/campainly/campaigner/pkg/workspace"
)

// AppContext defines what the onboard command needs from the app.
type AppContext interface {
	login.AppContext
}

// NewCommand creates the onboard command.
func NewCommand(app AppContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:     "onboard",
		GroupID: "chat",
		Short:   "Tell the assistant about your business",
		Long: `Onboard starts a fresh conversation in which the assistant learns
about your business. When it has enough, it asks you to sign in; type
/login to do so without leaving the chat.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			client, err := app.Client()
			if err != nil {
				return err
			}
			conv, err := conversation.New(client,
				conversation.WithEndpoint(api.EndpointOnboarding),
				conversation.WithCompletionPolicy(conversation.ShowLogin),
			)
			if err != nil {
				return err
			}
			defer conv.Close()

			renderer, err := render.NewRenderer()
			if err != nil {
				return err
			}
			session := repl.New(cmd.InOrStdin(), out, renderer, render.Options{ProxyURL: client.ProxyURL})

			var shown int
			flow := workspace.NewOnboarding(conv, workspace.OnTyping(func(frame string) {
				// frames only ever grow
				fmt.Fprint(out, frame[shown:])
				shown = len(frame)
			}))

			if !quiet {
				fmt.Fprint(out, "Assistant:\n  ")
				flow.Greet(ctx, workspace.WelcomeText)
				fmt.Fprint(out, "\n\n")
				session.Skip(len(conv.Messages()))
			}

			session.Prompt = func() string {
				step, total := flow.Progress()
				return fmt.Sprintf("[%d/%d] > ", step, total)
			}
			return session.Run(ctx, func(ctx context.Context, line string) error {
				if name, _, ok := repl.Command(line); ok {
					if name != "login" {
						return fmt.Errorf("unknown command /%s", name)
					}
					_, err := login.Run(ctx, app, conv.ConversationID(), out, nil)
					return err
				}

				session.Notice(workspace.ThinkingText)
				if _, err := flow.Send(ctx, line); err != nil {
					app.Logger().Debug().Err(err).Msg("Onboarding turn failed")
				}
				session.Print(conv.Messages())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&quiet, "no-greeting", false, "skip the typed greeting")
	return cmd
}
