package store

import (
	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/chat"
)

// ListChats returns the user's chat index, most recently active first.
func (s *Store) ListChats(userID string) ([]*chat.Chat, error) {
	rows, err := s.db.Query(`
		SELECT id, title, created_label, messages
		FROM chats
		WHERE user_id = ?
		ORDER BY update_timestamp DESC
	`, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying chats")
	}
	defer rows.Close()

	return scanChats(rows)
}
