package chat

import (
	"strconv"
	"strings"

	"github.com/verdictx/vx/internal/chat"
	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/feature"
	"github.com/verdictx/vx/internal/session"
)

// runCommand executes one slash command. Returns true when the REPL should
// exit.
func runCommand(controller *session.Controller, input string) bool {
	fields := strings.Fields(input)
	command, args := fields[0], fields[1:]

	switch command {
	case "/help":
		printHelp()

	case "/feature":
		if len(args) == 1 {
			descriptor, err := controller.SelectFeature(args[0])
			if err != nil {
				cli.Error("%s\n", err.Error())
				return false
			}
			cli.UserCommand("#feature: %s %s\n", descriptor.Icon, descriptor.DisplayName)
			return false
		}
		selectFeature(controller)

	case "/attach":
		if len(args) != 1 {
			cli.Error("usage: /attach <path>\n")
			return false
		}
		attach(controller, args[0], controller.Attach)

	case "/photo":
		if len(args) != 1 {
			cli.Error("usage: /photo <path>\n")
			return false
		}
		attach(controller, args[0], controller.AttachPhoto)

	case "/clear":
		controller.ClearAttachment()
		cli.UserCommand("#attachment cleared\n")

	case "/new":
		if err := controller.StartNewChat(); err != nil {
			cli.Error("%s\n", err.Error())
			return false
		}
		cli.UserCommand("#started a new conversation\n")

	case "/switch":
		if len(args) != 1 {
			cli.Error("usage: /switch <chat-id>\n")
			return false
		}
		switchChat(controller, args[0])

	case "/delete":
		deleteActive(controller, args)

	case "/edit":
		startEdit(controller, args)

	case "/cancel":
		controller.CancelEdit()
		cli.UserCommand("#edit cancelled\n")

	case "/delmsg":
		id, ok := parseMessageID(args, "/delmsg <message-id>")
		if !ok {
			return false
		}
		if err := controller.DeleteMessage(id); err != nil {
			cli.Error("%s\n", err.Error())
		}

	case "/react":
		react(controller, args)

	case "/export":
		exportActive(controller)

	case "/stats":
		printStats(controller)

	case "/logout":
		controller.SignOut()
		cli.UserCommand("#signed out\n")
		return true

	case "/quit", "/exit":
		return true

	default:
		cli.Error("unknown command %s, try /help\n", command)
	}
	return false
}

func printHelp() {
	cli.UserCommand(`#commands:
  /feature [key]       select a feature (no argument for a picker)
  /attach <path>       attach a document to the next message
  /photo <path>        attach an image to the next message
  /clear               drop the pending attachment
  /new                 start a new conversation
  /switch <chat-id>    open another conversation
  /delete [chat-id]    delete a conversation (defaults to the active one)
  /edit <message-id>   edit one of your messages in place
  /cancel              leave edit mode without changes
  /delmsg <message-id> delete a message
  /react <message-id>  react to a message
  /export              export the active conversation to a text file
  /stats               show storage usage
  /logout              sign out and exit
  /quit                exit
`)
}

func selectFeature(controller *session.Controller) {
	descriptors := feature.All()
	options := make([]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		options = append(options, descriptor.Key)
	}
	choice, err := cli.SelectOption("Choose a feature", options)
	if err != nil {
		return
	}
	descriptor, err := controller.SelectFeature(choice)
	if err != nil {
		cli.Error("%s\n", err.Error())
		return
	}
	cli.UserCommand("#feature: %s %s\n", descriptor.Icon, descriptor.DisplayName)
}

func attach(controller *session.Controller, path string, fn func(string) error) {
	if err := fn(path); err != nil {
		cli.Error("%s\n", err.Error())
		return
	}
	attachment := controller.Attachment()
	cli.FileInfo("attached %s (%s, %d bytes)\n", attachment.Name, attachment.MIMEType, attachment.Size)
}

func switchChat(controller *session.Controller, chatID string) {
	if err := controller.SwitchChat(chatID); err != nil {
		cli.Error("%s\n", err.Error())
		return
	}
	active := controller.ActiveChat()
	cli.UserCommand("#%s (%s)\n", active.Title, active.ID)
	for _, message := range active.Messages {
		printMessage(message)
	}
}

func deleteActive(controller *session.Controller, args []string) {
	chatID := ""
	if len(args) == 1 {
		chatID = args[0]
	} else if active := controller.ActiveChat(); active != nil {
		chatID = active.ID
	}
	if chatID == "" {
		cli.Error("no active chat to delete\n")
		return
	}
	if !cli.QueryUser("Delete chat " + chatID + "?") {
		return
	}
	if err := controller.DeleteChat(chatID); err != nil {
		cli.Error("%s\n", err.Error())
		return
	}
	cli.UserCommand("#deleted %s\n", chatID)
}

func startEdit(controller *session.Controller, args []string) {
	id, ok := parseMessageID(args, "/edit <message-id>")
	if !ok {
		return
	}
	text, err := controller.StartEdit(id)
	if err != nil {
		cli.Error("%s\n", err.Error())
		return
	}
	cli.UserCommand("#editing, current text: %s\n", text)
	cli.UserCommand("#your next message replaces it (/cancel to abort)\n")
}

func react(controller *session.Controller, args []string) {
	id, ok := parseMessageID(args, "/react <message-id>")
	if !ok {
		return
	}
	emoji, err := cli.SelectOption("React with", chat.ReactionEmojis())
	if err != nil {
		return
	}
	if err := controller.React(id, emoji); err != nil {
		cli.Error("%s\n", err.Error())
	}
}

func exportActive(controller *session.Controller) {
	active := controller.ActiveChat()
	if active == nil || len(active.Messages) == 0 {
		cli.Error("no chat messages to export\n")
		return
	}
	path, err := exportTranscript(active, controller.User(), controller.SelectedFeature())
	if err != nil {
		cli.Error("%s\n", err.Error())
		return
	}
	cli.FileInfo("exported to %s\n", path)
}

func printStats(controller *session.Controller) {
	stats, err := controller.Stats()
	if err != nil {
		cli.Error("%s\n", err.Error())
		return
	}
	cli.UserCommand("#%d chats, %d messages, %d bytes\n",
		stats.TotalChats, stats.TotalMessages, stats.BytesUsed)
}

func parseMessageID(args []string, usage string) (int64, bool) {
	if len(args) != 1 {
		cli.Error("usage: %s\n", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		cli.Error("invalid message id %q\n", args[0])
		return 0, false
	}
	return id, true
}
