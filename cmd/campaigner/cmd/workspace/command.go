// Package workspace implements the signed-in workspace: chat, media
// upload, strategy review and editing, and saving the campaign.
package workspace

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campainly/campaigner/cmd/campaigner/cmd/login"
	"github.com/campainly/campaigner/internal/cmd/media"
	"github.com/campainly/campaigner/internal/cmd/repl"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/conversation"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/render"
	"github.com/campainly/campaigner/pkg/types"
	"github.com/campainly/campaigner/pkg/workspace"
)

// AppContext defines what the workspace command needs from the app.
type AppContext interface {
	login.AppContext
}

const help = `Commands:
  /upload <file>...              upload images or videos and build a strategy
  /ads                           show the current strategy variants
  /edit <n> <field> <text>       edit variant n (headline, primaryText, description, buttonText)
  /finalize                      save the campaign
  /quick <action>                run a quick action (` + "create_ad, check_performance, improve_campaign, tips" + `)
  /contact <name>|<phone>|<email>  leave your contact details
  /login                         sign in with Facebook
  /quit                          leave
Anything else is sent to the assistant.`

// NewCommand creates the workspace command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "workspace",
		GroupID: "chat",
		Short:   "Build, review and save your campaign",
		Long: `Workspace loads your conversation history and guides you from
uploading product media to an editable campaign strategy that you can
save. Type /help inside for the available commands.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			conv, err := conversation.New(client,
				conversation.WithEndpoint(api.EndpointChat),
				conversation.WithCompletionPolicy(conversation.MarkComplete),
			)
			if err != nil {
				return err
			}
			defer conv.Close()

			renderer, err := render.NewRenderer()
			if err != nil {
				return err
			}
			p := &page{
				app:     app,
				ws:      workspace.New(client, conv),
				session: repl.New(cmd.InOrStdin(), cmd.OutOrStdout(), renderer, render.Options{ProxyURL: client.ProxyURL}),
			}
			defer p.ws.Wait()
			return p.run(cmd.Context())
		},
	}
}

type page struct {
	app     AppContext
	ws      *workspace.Workspace
	session *repl.Session
}

func (p *page) run(ctx context.Context) error {
	p.ws.OnChange(func() {
		if p.ws.BuildingStrategy() {
			p.session.Notice(workspace.BuildingText)
		}
	})

	if err := p.ws.Load(ctx); errors.IsAuthRequired(err) {
		p.session.Notice("You are not signed in. Type /login to sign in.")
	} else if err != nil {
		p.session.Notice("Could not load your history: %v", err)
	}
	p.flush()

	if len(p.ws.Store().Messages()) <= 1 {
		p.session.Notice("Quick actions:")
		for _, a := range workspace.QuickActions {
			p.session.Notice("  /quick %-18s %s", a.Name, a.Label)
		}
	}
	p.session.Notice("Type /help for commands.")

	return p.session.Run(ctx, p.handle)
}

func (p *page) flush() {
	p.session.Print(p.ws.Store().Messages())
}

func (p *page) handle(ctx context.Context, line string) error {
	defer p.flush()

	name, rest, ok := repl.Command(line)
	if !ok {
		p.session.Notice(workspace.ThinkingText)
		_, err := p.ws.Store().Send(ctx, line)
		if err != nil {
			p.app.Logger().Debug().Err(err).Msg("Workspace turn failed")
		}
		return nil
	}

	switch name {
	case "help":
		p.session.Notice(help)
		return nil
	case "upload":
		return p.upload(ctx, strings.Fields(rest))
	case "ads":
		p.showAds()
		return nil
	case "edit":
		return p.edit(rest)
	case "finalize":
		id, err := p.ws.Finalize(ctx)
		if errors.IsAuthRequired(err) || errors.IsBackendFailure(err) {
			// already reported in the conversation
			return nil
		}
		if err == nil {
			p.app.Logger().Info().Str("campaign_id", id).Msg("Campaign saved")
		}
		return err
	case "quick":
		return p.quick(ctx, rest)
	case "contact":
		return p.contact(ctx, rest)
	case "login":
		_, err := login.Run(ctx, p.app, p.ws.Store().ConversationID(), p.session.Out(), nil)
		return err
	}
	return fmt.Errorf("unknown command /%s, type /help", name)
}

// upload stages files on the newest upload prompt and submits them; a
// successful submit continues with strategy generation.
func (p *page) upload(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.NewValidationError("files", nil, "name at least one file")
	}
	files, err := media.Load(paths...)
	if err != nil {
		return err
	}

	editor := p.ws.UploadEditor(types.AdData{})
	added, err := editor.AddFiles(ctx, files)
	if err != nil {
		return err
	}
	if skipped := len(files) - added; skipped > 0 {
		p.session.Notice("%d file(s) skipped: only images and videos are accepted, up to 10", skipped)
	}
	if !editor.CanSubmit() {
		return errors.NewValidationError("files", nil, "nothing to upload")
	}
	_, err = editor.Submit(ctx)
	if errors.IsAuthRequired(err) {
		p.session.Notice("Uploading needs a signed-in account. Type /login first.")
		return nil
	}
	return err
}

func (p *page) showAds() {
	ads := p.ws.StrategyAds()
	if len(ads) == 0 {
		p.session.Notice("No strategy yet. Start with /upload.")
		return
	}
	for i, ad := range ads {
		p.session.Notice("variant %d\n%s", i+1, strings.TrimRight(render.AdText(ad), "\n"))
	}
}

func (p *page) edit(args string) error {
	fields := strings.SplitN(args, " ", 3)
	if len(fields) < 3 {
		return errors.NewValidationError("edit", args, "usage: /edit <n> <field> <text>")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return errors.NewValidationError("n", fields[0], "not a number")
	}
	field := types.Field(fields[1])
	switch field {
	case types.FieldHeadline, types.FieldPrimaryText, types.FieldDescription, types.FieldButtonText:
	default:
		return errors.NewValidationError("field", fields[1], "unknown field")
	}

	editor, err := p.ws.StrategyEditor(n - 1)
	if err != nil {
		return err
	}
	editor.SetField(field, strings.TrimSpace(fields[2]))
	p.session.Notice("variant %d\n%s", n, strings.TrimRight(render.AdText(editor.Ad()), "\n"))
	return nil
}

func (p *page) quick(ctx context.Context, name string) error {
	if name == "" {
		return errors.NewValidationError("action", name, "name an action")
	}
	p.ws.QuickAction(name)
	if p.ws.Store().Input() == "" {
		return nil
	}
	_, err := p.ws.Store().SendInput(ctx)
	if errors.IsBackendFailure(err) {
		return nil
	}
	return err
}

func (p *page) contact(ctx context.Context, args string) error {
	parts := strings.Split(args, "|")
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	err := p.ws.SubmitContactDetails(ctx, api.ContactDetails{
		FullName:    strings.TrimSpace(parts[0]),
		PhoneNumber: strings.TrimSpace(parts[1]),
		Email:       strings.TrimSpace(parts[2]),
	})
	if err != nil {
		return err
	}
	p.session.Notice("Thanks! Your details were sent.")
	return nil
}
