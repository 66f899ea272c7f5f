// Package history implements the history command, listing the messages
// the backend has stored for the signed-in user.
package history

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/campainly/campaigner/internal/cmd/output"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/types"
)

// AppContext defines what the history command needs from the app.
type AppContext interface {
	Client() (*api.Client, error)
	OutputFormat() string
}

// Entry is one listed message.
type Entry struct {
	ID        string `json:"id" yaml:"id"`
	Role      string `json:"role,omitempty" yaml:"role,omitempty"`
	Content   string `json:"content" yaml:"content"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Entries implements output.Tabular.
type Entries []Entry

// TableData implements output.Tabular.
func (e Entries) TableData() output.Data {
	d := output.Data{Headers: []string{"ID", "Role", "Created", "Content"}}
	for _, x := range e {
		d.Rows = append(d.Rows, []string{x.ID, x.Role, x.CreatedAt, output.Truncate(x.Content, 72)})
	}
	return d
}

// NewCommand creates the history command.
func NewCommand(app AppContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		GroupID: "account",
		Short:   "List stored messages",
		Example: `  campaigner history
  campaigner history --limit 5 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			client, err := app.Client()
			if err != nil {
				return err
			}

			messages, err := client.FetchMessages(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(messages) > limit {
				messages = messages[len(messages)-limit:]
			}

			entries := make(Entries, len(messages))
			for i, m := range messages {
				entries[i] = toEntry(m)
			}
			return output.NewFormatter(output.DetectFormat(string(format))).Format(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the newest n messages")
	return cmd
}

// toEntry splits the "role: text" form history is stored in.
func toEntry(m api.StoredMessage) Entry {
	e := Entry{ID: m.ID.String(), Content: m.Content, CreatedAt: m.CreatedAt}
	if prefix, rest, ok := strings.Cut(m.Content, ":"); ok {
		if role, ok := types.ParseRole(prefix); ok {
			e.Role = string(role)
			e.Content = strings.TrimSpace(rest)
		}
	}
	return e
}
