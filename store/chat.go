package store

import (
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a chat id is absent from the index.
var ErrNotFound = errors.New("chat not found")
