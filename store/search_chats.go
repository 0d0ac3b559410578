package store

import (
	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/chat"
)

// SearchChats returns the user's chats matching a full-text query over
// titles and message bodies, most recently active first.
func (s *Store) SearchChats(userID, query string) ([]*chat.Chat, error) {
	if query == "" {
		return []*chat.Chat{}, nil
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.title, c.created_label, c.messages
		FROM chats c
		JOIN chats_fts fts ON c.id = fts.id
		WHERE c.user_id = ? AND fts.searchable_content MATCH ?
		ORDER BY c.update_timestamp DESC
	`, userID, query)
	if err != nil {
		return nil, errors.Wrap(err, "querying search results")
	}
	defer rows.Close()

	return scanChats(rows)
}
