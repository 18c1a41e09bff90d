package state

import (
	"context"
	"errors"
)

// ErrNoSession is returned by Get when the user has no active session.
var ErrNoSession = errors.New("state: no session")

// Store orchestrates user sessions. Put replaces any previous session for the user.
type Store[T any] interface {
	Get(ctx context.Context, userID int64) (T, error)
	Put(ctx context.Context, userID int64, session T) error
	Delete(ctx context.Context, userID int64) error
}

// Codec converts sessions to bytes for stores that persist outside the process.
type Codec[T any] interface {
	Marshal(session T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// Has reports whether the user has an active session. Lookup failures count as absent.
func Has[T any](ctx context.Context, s Store[T], userID int64) bool {
	_, err := s.Get(ctx, userID)
	return err == nil
}
