package store

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/chat"
)

// GetChat returns a chat by id, or ErrNotFound.
func (s *Store) GetChat(chatID string) (*chat.Chat, error) {
	row := s.db.QueryRow(`
		SELECT id, title, created_label, messages
		FROM chats
		WHERE id = ?
	`, chatID)

	c, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying chat")
	}
	return c, nil
}
