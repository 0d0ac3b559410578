package chat

import (
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/verdictx/vx/internal/api"
	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/internal/session"
	"github.com/verdictx/vx/store"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		ChatID  string
		Feature string
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive legal assistant chat",
		Long:  "Interactive legal assistant chat",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			// Instantiate store.
			s, err := store.New(config.Storage.DatabasePath)
			cobra.CheckErr(err)
			defer s.Close()

			// Restore the session.
			controller, err := session.New(s, api.NewClient(config), config)
			if errors.Is(err, session.ErrNotSignedIn) {
				cli.Error("Not signed in. Run `vx login` first.\n")
				return
			}
			cobra.CheckErr(err)

			if opts.ChatID != "" {
				cobra.CheckErr(controller.SwitchChat(opts.ChatID))
			}
			if opts.Feature != "" {
				_, err := controller.SelectFeature(opts.Feature)
				cobra.CheckErr(err)
			}

			// Headers.
			cli.Title("VERDICTX CHAT (%s)", controller.User().Name)

			// Print history.
			if active := controller.ActiveChat(); active != nil {
				cli.UserCommand("#%s (%s)\n", active.Title, active.ID)
				for _, message := range active.Messages {
					printMessage(message)
				}
			}

			for {
				// Query user for input.
				text, err := cli.PromptUser()
				if err == readline.ErrInterrupt {
					return
				}
				cobra.CheckErr(err)

				text = strings.TrimSpace(text)
				if text == "" && controller.Attachment() == nil {
					continue
				}
				if strings.HasPrefix(text, "/") {
					if quit := runCommand(controller, text); quit {
						return
					}
					continue
				}

				wasEditing := controller.Editing()
				if err := controller.Send(text); err != nil {
					cli.Error("%s\n", err.Error())
					continue
				}
				if wasEditing {
					// Edits settle locally, nothing to wait for.
					cli.UserCommand("#message updated\n")
					continue
				}
				awaitResolution(controller)
			}
		},
	}

	cmd.Flags().StringVar(&opts.ChatID, "id", "", "resume a specific chat")
	cmd.Flags().StringVarP(&opts.Feature, "feature", "f", "", "preselect a feature")

	cmd.AddCommand(newListCmd(config))
	cmd.AddCommand(newSearchCmd(config))
	cmd.AddCommand(newDeleteCmd(config))
	cmd.AddCommand(newExportCmd(config))
	return cmd
}

// awaitResolution blocks until the outstanding call settles, echoing the
// typing indicator and the resolved response as they arrive.
func awaitResolution(controller *session.Controller) {
	for event := range controller.Events() {
		switch event.Kind {
		case session.EventTyping:
			cli.Typing("%s\n", event.Message.Text)
		case session.EventResolved:
			cli.BotOutput(event.Message.Text + "\n")
			return
		case session.EventFailed:
			cli.Error(event.Message.Text + "\n")
			return
		case session.EventDiscarded:
			cli.UserCommand("#response discarded, chat was deleted\n")
			return
		}
	}
}
