package chat

import (
	"github.com/spf13/cobra"

	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/store"
)

// newListCmd instantiates and returns the chat list command.
func newListCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all chats",
		Long:  "List all chats",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			// Instantiate store.
			s, err := store.New(config.Storage.DatabasePath)
			cobra.CheckErr(err)
			defer s.Close()
			user, err := requireUser(s)
			cobra.CheckErr(err)

			// Headers.
			cli.Title("VERDICTX CHAT LIST")

			chats, err := s.ListChats(user.ID)
			cobra.CheckErr(err)
			printChatIndex(chats)
		},
	}
	return cmd
}
