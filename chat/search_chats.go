package chat

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/store"
)

// newSearchCmd instantiates and returns the chat search command.
func newSearchCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search chats by title and content",
		Long:  "Search chats by title and content",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			// Instantiate store.
			s, err := store.New(config.Storage.DatabasePath)
			cobra.CheckErr(err)
			defer s.Close()
			user, err := requireUser(s)
			cobra.CheckErr(err)

			query := strings.Join(args, " ")

			// Headers.
			cli.Title("VERDICTX CHAT SEARCH (%s)", query)

			chats, err := s.SearchChats(user.ID, query)
			cobra.CheckErr(err)
			printChatIndex(chats)
		},
	}
	return cmd
}
