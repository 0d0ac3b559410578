package chat

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/auth"
	"github.com/verdictx/vx/internal/chat"
	"github.com/verdictx/vx/internal/cli"
	"github.com/verdictx/vx/internal/feature"
	"github.com/verdictx/vx/store"
)

// requireUser loads the signed-in user or errors.
func requireUser(s *store.Store) (*auth.User, error) {
	user, err := s.GetUser()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("not signed in, run `vx login` first")
	}
	return user, nil
}

// printChatIndex renders the history index, newest first.
func printChatIndex(chats []*chat.Chat) {
	if len(chats) == 0 {
		cli.UserCommand("#no chats found\n")
		return
	}
	for _, c := range chats {
		cli.BotOutput("chat (%s) - %s\n", c.ID, c.CreatedLabel)
		description := ""
		for i := 0; i < 3 && i < len(c.Messages); i++ {
			if c.Messages[i].Sender == chat.SenderUser {
				description += "> " + c.Messages[i].Text + "\n"
			}
		}
		cli.UserInput(description)
	}
}

// lastFeature returns the feature key of the newest bot response, or "".
func lastFeature(c *chat.Chat) string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Sender == chat.SenderBot && c.Messages[i].FeatureKey != "" {
			return c.Messages[i].FeatureKey
		}
	}
	return ""
}

const exportBanner = "================================================================================"

// printMessage echoes one stored message to the terminal. Typing
// placeholders are transient and never re-rendered.
func printMessage(message *chat.Message) {
	if message.IsTyping {
		return
	}
	cli.UserCommand("#%d %s\n", message.ID, message.Time)
	if message.Sender == chat.SenderUser {
		cli.UserInput("> %s\n", message.Text)
		if message.File != nil {
			cli.FileInfo("  attached: %s\n", message.File.Name)
		}
	} else {
		cli.BotOutput(message.Text + "\n")
	}
	for emoji, count := range message.Reactions {
		cli.UserCommand("  %s x%d\n", emoji, count)
	}
}

// exportTranscript writes a chat to a plain-text file in the working
// directory and returns its path.
func exportTranscript(c *chat.Chat, user *auth.User, featureKey string) (string, error) {
	featureName := "Multiple"
	if descriptor, err := feature.Resolve(featureKey); err == nil {
		featureName = descriptor.DisplayName
	}

	now := time.Now()
	var b strings.Builder
	b.WriteString("VerdictX Chat Export\n")
	b.WriteString(exportBanner + "\n")
	fmt.Fprintf(&b, "Date: %s\n", now.Format("1/2/2006"))
	fmt.Fprintf(&b, "Time: %s\n", now.Format("3:04:05 PM"))
	fmt.Fprintf(&b, "User: %s\n", user.Name)
	fmt.Fprintf(&b, "Feature: %s\n", featureName)
	b.WriteString(exportBanner + "\n\n")

	for _, message := range c.Messages {
		if message.IsTyping {
			continue
		}
		sender := "🤖 VERDICTX"
		if message.Sender == chat.SenderUser {
			sender = "👤 YOU"
		}
		text := message.Text
		if text == "" {
			text = "(No text)"
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", message.Time, sender, text)
	}

	b.WriteString(exportBanner + "\n")
	b.WriteString("© VerdictX - AI Legal Assistant | Confidential\n")
	fmt.Fprintf(&b, "Generated on: %s\n", now.Format("1/2/2006, 3:04:05 PM"))

	path := fmt.Sprintf("VerdictX_Chat_%d.txt", now.UnixMilli())
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", errors.Wrap(err, "writing transcript")
	}
	return path, nil
}
