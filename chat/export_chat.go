package chat

import (
	"github.com/spf13/cobra"

	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/store"
)

// newExportCmd instantiates and returns the chat export command.
func newExportCmd(config *configuration.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <chat-id>",
		Short: "Export a chat transcript to a text file",
		Long:  "Export a chat transcript to a text file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			// Instantiate store.
			s, err := store.New(config.Storage.DatabasePath)
			cobra.CheckErr(err)
			defer s.Close()
			user, err := requireUser(s)
			cobra.CheckErr(err)

			c, err := s.GetChat(args[0])
			cobra.CheckErr(err)

			path, err := exportTranscript(c, user, lastFeature(c))
			cobra.CheckErr(err)
			cli.FileInfo("exported to %s\n", path)
		},
	}
	return cmd
}
