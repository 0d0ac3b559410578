package chat

import (
	"github.com/spf13/cobra"

	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/store"
)

// newDeleteCmd instantiates and returns the chat delete command.
func newDeleteCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Force bool
	}
	cmd := &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a chat",
		Long:  "Delete a chat",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			chatID := args[0]

			// Instantiate store.
			s, err := store.New(config.Storage.DatabasePath)
			cobra.CheckErr(err)
			defer s.Close()

			if !opts.Force && !cli.QueryUser("Delete chat "+chatID+"?") {
				return
			}

			cobra.CheckErr(s.DeleteChat(chatID))

			// Drop a stale session pointer.
			currentID, err := s.GetCurrentChatID()
			cobra.CheckErr(err)
			if currentID == chatID {
				cobra.CheckErr(s.ClearCurrentChatID())
			}
			cli.UserCommand("#deleted %s\n", chatID)
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "skip confirmation")
	return cmd
}
