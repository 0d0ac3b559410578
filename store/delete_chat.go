package store

import (
	"github.com/pkg/errors"
)

// DeleteChat removes a chat and its FTS entry from the index. Deleting an
// absent id is a no-op.
func (s *Store) DeleteChat(chatID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chats WHERE id = ?`, chatID); err != nil {
		return errors.Wrap(err, "deleting chat from database")
	}
	if _, err := tx.Exec(`DELETE FROM chats_fts WHERE id = ?`, chatID); err != nil {
		return errors.Wrap(err, "deleting from FTS table")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}
