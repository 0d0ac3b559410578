package store

const currentChatKey = "current_chat_id"

// SetCurrentChatID saves the active chat pointer.
func (s *Store) SetCurrentChatID(chatID string) error {
	return s.setSetting(currentChatKey, chatID)
}

// GetCurrentChatID returns the active chat pointer, or "" when absent.
func (s *Store) GetCurrentChatID() (string, error) {
	return s.getSetting(currentChatKey)
}

// ClearCurrentChatID removes the active chat pointer.
func (s *Store) ClearCurrentChatID() error {
	return s.clearSetting(currentChatKey)
}
