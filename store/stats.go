package store

import (
	"github.com/pkg/errors"
)

// Stats summarizes a user's storage usage.
type Stats struct {
	TotalChats    int
	TotalMessages int
	BytesUsed     int64
}

// GetStats computes storage statistics for a user.
func (s *Store) GetStats(userID string) (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(messages)), 0)
		FROM chats
		WHERE user_id = ?
	`, userID).Scan(&stats.TotalChats, &stats.BytesUsed)
	if err != nil {
		return nil, errors.Wrap(err, "counting chats")
	}

	chats, err := s.ListChats(userID)
	if err != nil {
		return nil, err
	}
	for _, c := range chats {
		stats.TotalMessages += len(c.Messages)
	}
	return stats, nil
}
