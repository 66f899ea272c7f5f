// Package logout implements the logout command.
package logout

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/storage"
)

// AppContext defines what the logout command needs from the app.
type AppContext interface {
	Storage() (storage.Storage, error)
}

// NewCommand creates the logout command.
func NewCommand(app AppContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "logout",
		GroupID: "account",
		Short:   "Forget stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.Storage()
			if err != nil {
				return err
			}
			storage.ClearAuth(store)
			if all {
				if err := store.Remove(constants.KeyConversation); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also forget the saved conversation")
	return cmd
}
