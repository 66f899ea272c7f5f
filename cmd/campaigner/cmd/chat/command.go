// Package chat implements the chat command: a persistent conversation with
// the assistant, resumed across invocations.
package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/campainly/campaigner/internal/cmd/repl"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/conversation"
	"github.com/campainly/campaigner/pkg/render"
	"github.com/campainly/campaigner/pkg/storage"
)

// AppContext defines what the chat command needs from the app.
type AppContext interface {
	Client() (*api.Client, error)
	Storage() (storage.Storage, error)
	Logger() *zerolog.Logger
}

// NewCommand creates the chat command.
func NewCommand(app AppContext) *cobra.Command {
	var (
		strategyMode bool
		reset        bool
	)

	cmd := &cobra.Command{
		Use:     "chat [message]",
		GroupID: "chat",
		Short:   "Chat with the campaign assistant",
		Long: `Chat starts or resumes a conversation with the assistant. The
conversation is saved after every message and picked up again on the next
run. With a message argument, one turn is sent and the command exits.`,
		Example: `  campaigner chat                          # interactive
  campaigner chat "I run a bakery in Haifa"  # single turn
  campaigner chat --strategy               # strategy-mode turns
  campaigner chat --reset                  # forget the saved conversation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := app.Client()
			if err != nil {
				return err
			}
			store, err := app.Storage()
			if err != nil {
				return err
			}

			endpoint := api.EndpointChat
			if strategyMode {
				endpoint = api.EndpointStrategy
			}
			conv, err := conversation.New(client,
				conversation.WithEndpoint(endpoint),
				conversation.WithStorage(store),
				conversation.WithCompletionPolicy(conversation.MarkComplete),
			)
			if err != nil {
				return err
			}
			defer conv.Close()

			if reset {
				conv.Reset()
			} else {
				conv.Restore(ctx)
			}

			renderer, err := render.NewRenderer()
			if err != nil {
				return err
			}
			session := repl.New(cmd.InOrStdin(), cmd.OutOrStdout(), renderer,
				render.Options{ProxyURL: client.ProxyURL})

			if len(args) > 0 {
				session.Skip(len(conv.Messages()))
				_, err := conv.Send(ctx, strings.Join(args, " "))
				session.Print(conv.Messages())
				return err
			}

			session.Print(conv.Messages())
			if hint := conv.Placeholder(); hint != "" {
				session.Notice("(%s)", hint)
			}
			return session.Run(ctx, func(ctx context.Context, line string) error {
				if _, err := conv.Send(ctx, line); err != nil {
					app.Logger().Debug().Err(err).Msg("Chat turn failed")
				}
				session.Print(conv.Messages())
				if conv.IsComplete() {
					session.Notice("The assistant has what it needs. Run \"campaigner login\" to continue.")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&strategyMode, "strategy", false, "send turns to the strategy endpoint")
	cmd.Flags().BoolVar(&reset, "reset", false, "start a new conversation")

	return cmd
}
