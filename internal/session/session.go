// Package session owns the live chat of a signed-in user. All mutation
// flows through the Controller: it drives the dispatch state machine and
// is the only caller pushing chat state into the store.
package session

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/api"
	"github.com/verdictx/vx/internal/auth"
	"github.com/verdictx/vx/internal/chat"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/internal/debug"
	"github.com/verdictx/vx/internal/feature"
	"github.com/verdictx/vx/internal/file"
	"github.com/verdictx/vx/store"
)

var (
	// ErrBusy is returned while a remote call is outstanding. At most one
	// call may be in flight per session.
	ErrBusy = errors.New("a request is already in progress")
	// ErrEmptyMessage rejects a send with neither text nor attachment.
	ErrEmptyMessage = errors.New("nothing to send")
	// ErrNotSignedIn is returned when no user record is stored.
	ErrNotSignedIn = errors.New("not signed in")
)

// Controller wires user actions to the dispatch engine and pushes every
// chat mutation down to the store.
type Controller struct {
	mu     sync.Mutex
	store  *store.Store
	client *api.Client
	logger *slog.Logger

	user  *auth.User
	clock *chat.Clock

	active          *chat.Chat
	selectedFeature string
	attachment      *chat.FileAttachment
	editingID       int64
	busy            bool

	thinkingDelay time.Duration
	timeout       time.Duration
	downloadDir   string

	events chan Event
}

// New restores a session for the signed-in user: the chat-history pointer
// is followed so a reload lands in the same conversation.
func New(s *store.Store, client *api.Client, config *configuration.Config) (*Controller, error) {
	user, err := s.GetUser()
	if err != nil {
		return nil, errors.Wrap(err, "loading user")
	}
	if user == nil {
		return nil, ErrNotSignedIn
	}

	controller := &Controller{
		store:         s,
		client:        client,
		logger:        debug.For("session"),
		user:          user,
		clock:         &chat.Clock{},
		thinkingDelay: time.Duration(config.ThinkingDelayMs) * time.Millisecond,
		timeout:       time.Duration(config.RequestTimeout) * time.Second,
		downloadDir:   config.Storage.DownloadDirectory,
		events:        make(chan Event, 32),
	}

	currentID, err := s.GetCurrentChatID()
	if err != nil {
		return nil, errors.Wrap(err, "loading current chat pointer")
	}
	if currentID != "" {
		active, err := s.GetChat(currentID)
		if err == nil {
			controller.active = active
		} else if errors.Is(err, store.ErrNotFound) {
			// Stale pointer: the chat was deleted out from under it.
			controller.persistOrLog(s.ClearCurrentChatID())
		} else {
			return nil, errors.Wrap(err, "loading current chat")
		}
	}
	return controller, nil
}

// Events delivers dispatch transitions to the UI.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// User returns the signed-in user.
func (c *Controller) User() *auth.User {
	return c.user
}

// ActiveChat returns a snapshot of the live chat, or nil for a fresh draft.
func (c *Controller) ActiveChat() *chat.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	snapshot := *c.active
	snapshot.Messages = make([]*chat.Message, len(c.active.Messages))
	copy(snapshot.Messages, c.active.Messages)
	return &snapshot
}

// Busy reports whether a remote call is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// SelectFeature sets the feature subsequent sends are routed through.
func (c *Controller) SelectFeature(key string) (*feature.Descriptor, error) {
	desc, err := feature.Resolve(key)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedFeature = key
	return desc, nil
}

// SelectedFeature returns the active feature key, or "".
func (c *Controller) SelectedFeature() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedFeature
}

// Attach stages a file for the next send.
func (c *Controller) Attach(path string) error {
	ok, err := file.Exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("no such file: %s", path)
	}
	size, err := file.Size(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachment = &chat.FileAttachment{
		Name:     filepath.Base(path),
		Path:     path,
		MIMEType: file.DetectMIMEType(path),
		Size:     size,
	}
	return nil
}

// AttachPhoto stages an image for the next send, rejecting other types
// before any network call.
func (c *Controller) AttachPhoto(path string) error {
	ok, err := file.Exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("no such file: %s", path)
	}
	mimeType := file.DetectMIMEType(path)
	if !file.IsImage(mimeType) {
		return errors.New("please select an image file")
	}
	size, err := file.Size(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachment = &chat.FileAttachment{
		Name:     filepath.Base(path),
		Path:     path,
		MIMEType: mimeType,
		Size:     size,
	}
	return nil
}

// Attachment returns the staged attachment, or nil.
func (c *Controller) Attachment() *chat.FileAttachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attachment
}

// ClearAttachment drops the staged attachment.
func (c *Controller) ClearAttachment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachment = nil
}

// StartNewChat abandons the draft and clears the current-chat pointer.
// Refused while a call is outstanding.
func (c *Controller) StartNewChat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.active = nil
	c.selectedFeature = ""
	c.attachment = nil
	c.editingID = 0
	c.persistOrLog(c.store.ClearCurrentChatID())
	return nil
}

// SwitchChat makes a stored chat the active one. Refused while a call is
// outstanding so a response can never land on a freshly displayed chat.
func (c *Controller) SwitchChat(chatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	loaded, err := c.store.GetChat(chatID)
	if err != nil {
		return err
	}
	c.active = loaded
	c.editingID = 0
	c.persistOrLog(c.store.SetCurrentChatID(chatID))
	return nil
}

// DeleteChat removes a chat from the index. Deleting the active chat also
// clears the pointer and empties the live session; deleting any other chat
// leaves the session untouched.
func (c *Controller) DeleteChat(chatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.DeleteChat(chatID); err != nil {
		return err
	}
	if c.active != nil && c.active.ID == chatID {
		c.active = nil
		c.persistOrLog(c.store.ClearCurrentChatID())
	}
	return nil
}

// ListChats returns the user's history index.
func (c *Controller) ListChats() ([]*chat.Chat, error) {
	return c.store.ListChats(c.user.ID)
}

// SearchChats filters the history index by a full-text query.
func (c *Controller) SearchChats(query string) ([]*chat.Chat, error) {
	return c.store.SearchChats(c.user.ID, query)
}

// Stats reports storage usage for the user's history.
func (c *Controller) Stats() (*store.Stats, error) {
	return c.store.GetStats(c.user.ID)
}

// React adds a reaction to a message of the active chat.
func (c *Controller) React(messageID int64, emoji string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return errors.New("no active chat")
	}
	if err := c.active.React(messageID, emoji); err != nil {
		return err
	}
	c.persistActiveLocked()
	return nil
}

// StartEdit begins edit mode for one of the user's own messages. The next
// Send replaces its text in place without any remote call.
func (c *Controller) StartEdit(messageID int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return "", errors.New("no active chat")
	}
	message := c.active.Message(messageID)
	if message == nil {
		return "", errors.Errorf("no message with id %d", messageID)
	}
	if message.Sender != chat.SenderUser {
		return "", errors.New("only your own messages can be edited")
	}
	c.editingID = messageID
	return message.Text, nil
}

// Editing reports whether the next send replaces a message in place.
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID != 0
}

// CancelEdit leaves edit mode without changes.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingID = 0
}

// DeleteMessage removes a message from the active chat.
func (c *Controller) DeleteMessage(messageID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return errors.New("no active chat")
	}
	c.active.Remove(messageID)
	c.persistActiveLocked()
	return nil
}

// SignOut clears the user record and the session pointer. Chats stay in
// the index for the next sign-in.
func (c *Controller) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
	c.selectedFeature = ""
	c.attachment = nil
	c.editingID = 0
	c.persistOrLog(c.store.ClearUser())
	c.persistOrLog(c.store.ClearCurrentChatID())
}

// persistActiveLocked pushes the live chat to the store. Chats with no
// messages are never persisted; they exist only as the in-memory draft.
func (c *Controller) persistActiveLocked() {
	if c.active == nil || len(c.active.Messages) == 0 {
		return
	}
	c.persistOrLog(c.store.SaveChat(c.user.ID, c.active))
}

// persistOrLog implements the fail-silent storage contract: an unavailable
// store never surfaces to the user, only to the debug log.
func (c *Controller) persistOrLog(err error) {
	if err != nil {
		c.logger.Error("storage operation failed", "error", err)
	}
}
