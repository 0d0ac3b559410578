package store

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/chat"
)

func scanChat(row interface{ Scan(...any) error }) (*chat.Chat, error) {
	c := &chat.Chat{}
	var messagesJSON string
	if err := row.Scan(&c.ID, &c.Title, &c.CreatedLabel, &messagesJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messagesJSON), &c.Messages); err != nil {
		return nil, errors.Wrap(err, "unmarshaling messages")
	}
	return c, nil
}

// scanChats helps avoid duplicate chat scanning code
func scanChats(rows *sql.Rows) ([]*chat.Chat, error) {
	var chats []*chat.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning chat row")
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating chat rows")
	}
	return chats, nil
}

// searchableContent flattens a chat into the text indexed by FTS: the
// title plus every real message body.
func searchableContent(c *chat.Chat) string {
	parts := []string{c.Title}
	for _, message := range c.Messages {
		if message.IsTyping {
			continue
		}
		parts = append(parts, message.Text)
	}
	return strings.Join(parts, "\n")
}
