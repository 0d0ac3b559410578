package store

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/chat"
)

// SaveChat upserts a chat into the user's history index. The touched chat
// always moves to the front of the index: ordering is by update timestamp,
// most recently active first. This is the sole mutator of the index.
func (s *Store) SaveChat(userID string, c *chat.Chat) error {
	if c == nil {
		return errors.New("chat cannot be nil")
	}

	messagesJSON, err := json.Marshal(c.Messages)
	if err != nil {
		return errors.Wrap(err, "marshaling messages")
	}

	now := time.Now().UnixMicro()

	// Preserve the original creation timestamp on upsert.
	var creation int64
	err = s.db.QueryRow(`SELECT creation_timestamp FROM chats WHERE id = ?`, c.ID).Scan(&creation)
	if err != nil {
		creation = now
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	// REPLACE INTO handles both the insert and the update-in-place cases.
	_, err = tx.Exec(`
		REPLACE INTO chats (id, user_id, title, created_label, creation_timestamp, update_timestamp, messages)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, userID, c.Title, c.CreatedLabel, creation, now, string(messagesJSON))
	if err != nil {
		return errors.Wrap(err, "writing chat to database")
	}

	if _, err = tx.Exec(`DELETE FROM chats_fts WHERE id = ?`, c.ID); err != nil {
		return errors.Wrap(err, "deleting from FTS table")
	}
	_, err = tx.Exec(`INSERT INTO chats_fts (id, searchable_content) VALUES (?, ?)`,
		c.ID, searchableContent(c))
	if err != nil {
		return errors.Wrap(err, "inserting into FTS table")
	}

	return tx.Commit()
}
