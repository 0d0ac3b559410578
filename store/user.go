package store

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/verdictx/vx/internal/auth"
)

const userKey = "user"

// SetUser saves the signed-in user record.
func (s *Store) SetUser(user *auth.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	bytes, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "marshaling user")
	}
	return s.setSetting(userKey, string(bytes))
}

// GetUser returns the signed-in user record, or nil when signed out.
func (s *Store) GetUser() (*auth.User, error) {
	value, err := s.getSetting(userKey)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	user := &auth.User{}
	if err := json.Unmarshal([]byte(value), user); err != nil {
		return nil, errors.Wrap(err, "unmarshaling user")
	}
	return user, nil
}

// ClearUser removes the user record on sign-out.
func (s *Store) ClearUser() error {
	return s.clearSetting(userKey)
}
