package chat

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"
)

// Senders of a message.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// DefaultTitle is used until a chat has a user message to derive one from.
const DefaultTitle = "New conversation"

// titleWordCount is the number of leading words a derived title keeps.
const titleWordCount = 4

// reactionEmojis is the closed set of reactions a message accepts.
var reactionEmojis = strset.New("👍", "👎", "😊", "💡", "🚀", "✅", "🔥", "⚖️")

// Chat holds an ordered conversation between the user and the assistant.
type Chat struct {
	// ID of this chat, derived from its creation timestamp. Never reused.
	ID string `json:"id"`
	// Title derived from the first user message.
	Title string `json:"title"`
	// CreatedLabel is the display label of the creation date.
	CreatedLabel string `json:"date"`
	// The messages of this chat.
	Messages []*Message `json:"messages"`
}

// Message is a single entry of a chat transcript.
type Message struct {
	// ID is the only stable handle for edit/delete/react operations.
	ID int64 `json:"id"`
	// Sender is either SenderUser or SenderBot.
	Sender string `json:"sender"`
	Text   string `json:"text"`
	// Time is the display string of the send time.
	Time        string `json:"time"`
	TimestampMs int64  `json:"timestamp"`
	// File is set when the message carried an attachment.
	File *FileAttachment `json:"file,omitempty"`
	// Reactions maps emoji to reaction counts.
	Reactions map[string]int `json:"reactions,omitempty"`
	// FeatureKey records which feature produced a bot message.
	FeatureKey string `json:"featureKey,omitempty"`
	// IsTyping marks a transient placeholder, replaced in place on resolution.
	IsTyping bool `json:"isTyping,omitempty"`
	// IsWelcome marks the feature-selection prompt of the generic path.
	IsWelcome bool `json:"isWelcomeMessage,omitempty"`
}

// FileAttachment describes a file sent alongside a message.
type FileAttachment struct {
	Name     string `json:"name"`
	Path     string `json:"url"`
	MIMEType string `json:"type"`
	Size     int64  `json:"size,omitempty"`
}

// Clock hands out message ids. Ids are derived from wall-clock
// milliseconds but strictly increase even when two messages are created
// within the same tick.
type Clock struct {
	mu   sync.Mutex
	last int64
}

// Next returns a fresh message id.
func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// New instantiates and returns an empty chat. Empty chats live in memory
// only; they are never pushed to the history index.
func New(id string) *Chat {
	return &Chat{
		ID:           id,
		Title:        DefaultTitle,
		CreatedLabel: time.Now().Format("Jan 2"),
	}
}

// NewID derives a chat id from the clock.
func NewID(clock *Clock) string {
	return strconv.FormatInt(clock.Next(), 10)
}

// NewMessage builds a message stamped with the current time.
func NewMessage(id int64, sender, text string) *Message {
	now := time.Now()
	return &Message{
		ID:          id,
		Sender:      sender,
		Text:        text,
		Time:        now.Format("15:04"),
		TimestampMs: now.UnixMilli(),
	}
}

// Append adds messages to the chat and re-derives the title.
func (c *Chat) Append(messages ...*Message) {
	c.Messages = append(c.Messages, messages...)
	c.Title = DeriveTitle(c.Messages)
}

// Message returns the message with the given id, or nil.
func (c *Chat) Message(id int64) *Message {
	for _, message := range c.Messages {
		if message.ID == id {
			return message
		}
	}
	return nil
}

// Replace swaps the message with the given id in place. Returns false if
// no message carries that id.
func (c *Chat) Replace(id int64, message *Message) bool {
	for i, existing := range c.Messages {
		if existing.ID == id {
			c.Messages[i] = message
			c.Title = DeriveTitle(c.Messages)
			return true
		}
	}
	return false
}

// Remove deletes the message with the given id. No-op when absent.
func (c *Chat) Remove(id int64) {
	for i, message := range c.Messages {
		if message.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			if len(c.Messages) > 0 {
				c.Title = DeriveTitle(c.Messages)
			}
			return
		}
	}
}

// EditText replaces the text of the message with the given id.
func (c *Chat) EditText(id int64, text string) bool {
	message := c.Message(id)
	if message == nil {
		return false
	}
	message.Text = text
	c.Title = DeriveTitle(c.Messages)
	return true
}

// React increments the reaction count of an emoji on a message.
func (c *Chat) React(id int64, emoji string) error {
	if !reactionEmojis.Has(emoji) {
		return errors.Errorf("unknown reaction %q", emoji)
	}
	message := c.Message(id)
	if message == nil {
		return errors.Errorf("no message with id %d", id)
	}
	if message.Reactions == nil {
		message.Reactions = map[string]int{}
	}
	message.Reactions[emoji]++
	return nil
}

// ReactionEmojis returns the allowed reaction emojis.
func ReactionEmojis() []string {
	return reactionEmojis.List()
}

// HistoryEntry is the serialized form of a message in follow-up payloads.
type HistoryEntry struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// History returns the sender/text pairs of the conversation, excluding
// typing and welcome placeholders.
func (c *Chat) History() []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(c.Messages))
	for _, message := range c.Messages {
		if message.IsTyping || message.IsWelcome {
			continue
		}
		entries = append(entries, HistoryEntry{Sender: message.Sender, Text: message.Text})
	}
	return entries
}

// HasBotMessageForFeature returns true if any bot message of the chat
// carries the given feature key. Drives follow-up classification.
func (c *Chat) HasBotMessageForFeature(featureKey string) bool {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		message := c.Messages[i]
		if message.Sender == SenderBot && message.FeatureKey == featureKey {
			return true
		}
	}
	return false
}

// DeriveTitle computes a chat title from its messages: the first four
// words of the first real user message, with an ellipsis when truncated.
func DeriveTitle(messages []*Message) string {
	var first *Message
	for _, message := range messages {
		if message.Sender == SenderUser && !message.IsTyping {
			first = message
			break
		}
	}
	if first == nil {
		return DefaultTitle
	}
	words := strings.Fields(first.Text)
	if len(words) == 0 {
		return DefaultTitle
	}
	if len(words) <= titleWordCount {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWordCount], " ") + "..."
}
