package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is a flat key/value store for small pieces of client state
// such as the access token, the user id and the refresh cookie.
type Store interface {
	// Get returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string) error

	// Delete removes every key in one atomic operation. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	Close() error

	Ping(ctx context.Context) error
}
