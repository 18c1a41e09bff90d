// Package users keeps the registry of people who talked to the bot.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/journalbot/core/logger"
)

// ErrNotFound is returned when no user with the id exists.
var ErrNotFound = errors.New("users: not found")

// User is a Telegram user known to the bot.
type User struct {
	ID          int64     `db:"id"`
	DisplayName string    `db:"display_name"`
	Handle      *string   `db:"handle"`
	CreatedAt   time.Time `db:"created_at"`
	LastActive  time.Time `db:"last_active"`
}

// Store persists users.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// GetUser loads a user by Telegram id.
func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`
		SELECT id, display_name, handle, created_at, last_active
		FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("get user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// UpsertUser inserts the user or refreshes its profile. created_at is written once.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO users (id, display_name, handle, created_at, last_active)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			display_name = excluded.display_name,
			handle = excluded.handle,
			last_active = CURRENT_TIMESTAMP`),
		u.ID, u.DisplayName, u.Handle)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return nil
}

// TouchLastActive bumps last_active of an existing user.
func (s *Store) TouchLastActive(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE users SET last_active = CURRENT_TIMESTAMP WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("touch user %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("touch user %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountUsers returns the number of known users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Service is the user facing API over Store.
type Service struct {
	store *Store
}

// NewService builds a Service.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Register records an interaction. New users are inserted; known users with an
// unchanged profile only get last_active bumped, others are rewritten.
func (s *Service) Register(ctx context.Context, id int64, displayName, handle string) error {
	if id == 0 {
		return nil
	}
	u := User{ID: id, DisplayName: displayName}
	if handle != "" {
		u.Handle = &handle
	}
	known, err := s.GetUserByTelegramID(ctx, id)
	if err == nil && sameProfile(known, u) {
		err = s.store.TouchLastActive(ctx, id)
		if !errors.Is(err, ErrNotFound) {
			return s.registered(id, err)
		}
	}
	return s.registered(id, s.store.UpsertUser(ctx, u))
}

func (s *Service) registered(id int64, err error) error {
	if err != nil {
		logger.SVCUsers.Warn("user register failed",
			slog.String("event", "users.register"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
	}
	return err
}

func sameProfile(a, b User) bool {
	if a.DisplayName != b.DisplayName {
		return false
	}
	if a.Handle == nil || b.Handle == nil {
		return a.Handle == nil && b.Handle == nil
	}
	return *a.Handle == *b.Handle
}

// GetUserByTelegramID loads a registered user.
func (s *Service) GetUserByTelegramID(ctx context.Context, id int64) (User, error) {
	return s.store.GetUser(ctx, id)
}

// Count returns the number of registered users.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}
