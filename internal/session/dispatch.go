package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/api"
	"github.com/verdictx/vx/internal/chat"
	"github.com/verdictx/vx/internal/feature"
	"github.com/verdictx/vx/internal/format"
	"github.com/verdictx/vx/store"
)

const typingText = "AI is thinking..."

// Send runs one pass of the dispatch state machine for a user submission.
// It validates locally, appends the user message and a typing placeholder
// optimistically, then resolves the remote call asynchronously; progress is
// reported on the Events channel. Returns ErrBusy while a call is
// outstanding and ErrEmptyMessage when there is nothing to send.
func (c *Controller) Send(text string) error {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	attachment := c.attachment
	if text == "" && attachment == nil {
		return ErrEmptyMessage
	}

	// Edit mode replaces a message in place. Edits never call a remote
	// endpoint.
	if c.editingID != 0 {
		if c.active == nil || !c.active.EditText(c.editingID, text) {
			c.editingID = 0
			return errors.New("message being edited no longer exists")
		}
		c.editingID = 0
		c.persistActiveLocked()
		return nil
	}

	if c.selectedFeature == "" {
		return c.dispatchGenericLocked(text, attachment)
	}

	desc, err := feature.Resolve(c.selectedFeature)
	if err != nil {
		return err
	}
	if err := desc.Validate(text, attachment != nil); err != nil {
		return err
	}

	// A text-only submission after a bot response for the same feature is
	// a continuation, routed to the follow-up endpoint.
	if c.active != nil && c.active.HasBotMessageForFeature(desc.Key) && text != "" && attachment == nil {
		return c.dispatchFollowupLocked(desc, text)
	}
	return c.dispatchPrimaryLocked(desc, text, attachment)
}

// dispatchPrimaryLocked starts a fresh analysis request.
func (c *Controller) dispatchPrimaryLocked(desc *feature.Descriptor, text string, attachment *chat.FileAttachment) error {
	displayText := text
	if displayText == "" {
		displayText = fmt.Sprintf("Processing %s...", desc.DisplayName)
	}
	placeholder, chatID := c.appendOptimisticLocked(displayText, attachment)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		result, err := c.client.CallPrimary(ctx, desc, text, attachment)
		c.resolve(chatID, placeholder.ID, desc, result, err)
	}()
	return nil
}

// dispatchFollowupLocked continues a prior analysis with a question.
func (c *Controller) dispatchFollowupLocked(desc *feature.Descriptor, question string) error {
	history := c.active.History()
	placeholder, chatID := c.appendOptimisticLocked(question, nil)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		result, err := c.client.CallFollowup(ctx, desc, question, history)
		c.resolveFollowup(chatID, placeholder.ID, desc, result, err)
	}()
	return nil
}

// dispatchGenericLocked is the no-feature path: no remote call is made, a
// timer stands in for the latency and the placeholder becomes a welcome
// message offering every registered feature.
func (c *Controller) dispatchGenericLocked(text string, attachment *chat.FileAttachment) error {
	placeholder, chatID := c.appendOptimisticLocked(text, attachment)

	go func() {
		timer := time.NewTimer(c.thinkingDelay)
		defer timer.Stop()
		<-timer.C

		c.mu.Lock()
		defer c.mu.Unlock()
		welcome := chat.NewMessage(placeholder.ID, chat.SenderBot, welcomeText())
		welcome.IsWelcome = true
		c.replaceInTargetLocked(chatID, placeholder.ID, welcome)
		c.finishLocked()
		c.emit(Event{Kind: EventResolved, ChatID: chatID, Message: welcome})
	}()
	return nil
}

// appendOptimisticLocked applies the optimistic update of the Submitting
// transition: the chat is created on first send, the user message and a
// typing placeholder are appended and persisted before any network
// activity, and the busy guard is taken.
func (c *Controller) appendOptimisticLocked(text string, attachment *chat.FileAttachment) (*chat.Message, string) {
	if c.active == nil {
		c.active = chat.New(chat.NewID(c.clock))
		c.persistOrLog(c.store.SetCurrentChatID(c.active.ID))
	}

	userMessage := chat.NewMessage(c.clock.Next(), chat.SenderUser, text)
	userMessage.File = attachment
	placeholder := chat.NewMessage(c.clock.Next(), chat.SenderBot, typingText)
	placeholder.IsTyping = true
	c.active.Append(userMessage, placeholder)
	c.persistActiveLocked()

	c.busy = true
	c.attachment = nil
	c.emit(Event{Kind: EventTyping, ChatID: c.active.ID, Message: placeholder})
	return placeholder, c.active.ID
}

// resolve handles primary-call completion.
func (c *Controller) resolve(chatID string, placeholderID int64, desc *feature.Descriptor, result *api.Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.failLocked(chatID, placeholderID, desc, err)
		return
	}

	var message *chat.Message
	switch {
	case result.Binary != nil:
		filename, saveErr := c.saveDownload(result.Binary)
		if saveErr != nil {
			c.failLocked(chatID, placeholderID, desc, saveErr)
			return
		}
		message = chat.NewMessage(placeholderID, chat.SenderBot,
			fmt.Sprintf("✅ Document extracted and downloaded successfully!\n\nFile: %s", filename))
	default:
		text, renderErr := format.Render(result.JSON, desc.Key)
		if renderErr != nil {
			c.failLocked(chatID, placeholderID, desc, renderErr)
			return
		}
		message = chat.NewMessage(placeholderID, chat.SenderBot, text)
	}
	message.FeatureKey = desc.Key

	if !c.replaceInTargetLocked(chatID, placeholderID, message) {
		c.finishLocked()
		c.emit(Event{Kind: EventDiscarded, ChatID: chatID})
		return
	}
	c.finishLocked()
	c.emit(Event{Kind: EventResolved, ChatID: chatID, Message: message})
}

// resolveFollowup handles follow-up completion. The payload shape is fixed:
// {status, response, error?}.
func (c *Controller) resolveFollowup(chatID string, placeholderID int64, desc *feature.Descriptor, result *api.Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.failLocked(chatID, placeholderID, desc, err)
		return
	}

	response, _ := result.JSON["response"].(string)
	message := chat.NewMessage(placeholderID, chat.SenderBot, format.RenderFollowup(response))
	message.FeatureKey = desc.Key

	if !c.replaceInTargetLocked(chatID, placeholderID, message) {
		c.finishLocked()
		c.emit(Event{Kind: EventDiscarded, ChatID: chatID})
		return
	}
	c.finishLocked()
	c.emit(Event{Kind: EventResolved, ChatID: chatID, Message: message})
}

// failLocked converts any remote-call failure into a visible bot message
// naming the reason and the backend it targeted. Never a crash, never a
// silent drop.
func (c *Controller) failLocked(chatID string, placeholderID int64, desc *feature.Descriptor, err error) {
	reason := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "request timed out"
	}
	text := fmt.Sprintf("❌ Error: %s\n\nPlease check if the backend server is running at %s",
		reason, c.client.BaseURL(desc.Host))
	message := chat.NewMessage(placeholderID, chat.SenderBot, text)

	if !c.replaceInTargetLocked(chatID, placeholderID, message) {
		c.finishLocked()
		c.emit(Event{Kind: EventDiscarded, ChatID: chatID})
		return
	}
	c.logger.Error("remote call failed", "chat", chatID, "feature", desc.Key, "error", err)
	c.finishLocked()
	c.emit(Event{Kind: EventFailed, ChatID: chatID, Message: message})
}

// replaceInTargetLocked routes a resolution back to its originating chat,
// whichever chat is currently displayed. In-memory replacement when the
// origin is still active, write-through the store when it is not, discard
// when it was deleted mid-flight. Returns false on discard.
func (c *Controller) replaceInTargetLocked(chatID string, placeholderID int64, message *chat.Message) bool {
	if c.active != nil && c.active.ID == chatID {
		if !c.active.Replace(placeholderID, message) {
			// Placeholder deleted by the user: append instead of dropping
			// the response.
			c.active.Append(message)
		}
		c.persistActiveLocked()
		return true
	}

	stored, err := c.store.GetChat(chatID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Error("loading originating chat", "chat", chatID, "error", err)
		}
		return false
	}
	if !stored.Replace(placeholderID, message) {
		stored.Append(message)
	}
	c.persistOrLog(c.store.SaveChat(c.user.ID, stored))
	return true
}

// finishLocked returns the state machine to Idle: the busy guard is
// released and composing state is cleared.
func (c *Controller) finishLocked() {
	c.busy = false
	c.attachment = nil
}

// saveDownload writes a binary result into the download directory.
func (c *Controller) saveDownload(binary *api.Binary) (string, error) {
	if err := os.MkdirAll(c.downloadDir, 0755); err != nil {
		return "", errors.Wrap(err, "creating download directory")
	}
	path := filepath.Join(c.downloadDir, binary.Filename)
	if err := os.WriteFile(path, binary.Data, 0644); err != nil {
		return "", errors.Wrap(err, "saving download")
	}
	return binary.Filename, nil
}

// welcomeText is the feature-selection prompt of the generic path.
func welcomeText() string {
	var b strings.Builder
	b.WriteString("Welcome to VerdictX! Choose a feature to get started:\n")
	for _, desc := range feature.All() {
		fmt.Fprintf(&b, "\n%s  %s", desc.Icon, desc.DisplayName)
	}
	return b.String()
}
