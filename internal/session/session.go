// Package session holds the current bearer token and user profile, mirrored
// to durable storage so a restarted client picks up where it left off.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cards-marketplace/internal/domain"
	"cards-marketplace/internal/observability"
	"cards-marketplace/internal/storage"
)

// Persisted keys
const (
	TokenKey = "token"
	UserKey  = "user"
)

// CacheClearer is the part of the expiring cache the session needs on logout
type CacheClearer interface {
	Clear(ctx context.Context) error
}

// Store is safe for concurrent use. Every mutation writes storage first and
// only then updates memory, so the two never disagree after a successful call.
type Store struct {
	mu      sync.RWMutex
	storage storage.Store
	cache   CacheClearer
	current domain.Session
}

// New creates an empty session store. cache may be nil.
func New(st storage.Store, cache CacheClearer) *Store {
	return &Store{storage: st, cache: cache}
}

// Restore loads the persisted session. A user without a token, or a user
// record that cannot be decoded, is discarded.
func (s *Store) Restore(ctx context.Context) error {
	logger := observability.FromContext(ctx)

	token, err := s.readString(ctx, TokenKey)
	if err != nil {
		return err
	}

	var user *domain.User
	raw, err := s.storage.Read(ctx, UserKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return fmt.Errorf("failed to read persisted user: %w", err)
	case token == "":
		logger.Debug("Dropping persisted user without token")
		if err := s.storage.Delete(ctx, UserKey); err != nil {
			return fmt.Errorf("failed to delete orphan user: %w", err)
		}
	default:
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			logger.Warn("Persisted user is unreadable, ignoring", slog.String("error", err.Error()))
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	s.current = domain.Session{Token: token, User: user}
	s.mu.Unlock()

	if token != "" {
		logger.Debug("Session restored", slog.Bool("has_user", user != nil))
	}
	return nil
}

func (s *Store) readString(ctx context.Context, key string) (string, error) {
	raw, err := s.storage.Read(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read persisted %s: %w", key, err)
	}
	return string(raw), nil
}

// SetAuth stores a freshly issued token and the user it belongs to
func (s *Store) SetAuth(ctx context.Context, token string, user *domain.User) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Write(ctx, TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.writeUser(ctx, user); err != nil {
		// keep storage consistent with memory, which still holds the old session
		if s.current.Token != "" {
			_ = s.storage.Write(ctx, TokenKey, []byte(s.current.Token))
		} else {
			_ = s.storage.Delete(ctx, TokenKey)
		}
		return err
	}

	s.current = domain.Session{Token: token, User: cloneUser(user)}
	return nil
}

// UpdateUser replaces the cached profile of the logged-in user
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Token == "" {
		return domain.ErrNotAuthenticated
	}
	if err := s.writeUser(ctx, user); err != nil {
		return err
	}
	s.current.User = cloneUser(user)
	return nil
}

func (s *Store) writeUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		if err := s.storage.Delete(ctx, UserKey); err != nil {
			return fmt.Errorf("failed to delete persisted user: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.Write(ctx, UserKey, raw); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

// Logout forgets the token and user and clears the expiring cache. Memory is
// always cleared, even when storage fails; the storage errors are returned.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = domain.Session{}
	s.mu.Unlock()

	var errs []error
	if err := s.storage.Delete(ctx, TokenKey); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete token: %w", err))
	}
	if err := s.storage.Delete(ctx, UserKey); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete user: %w", err))
	}
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticated()
}

// Token returns the bearer token, or "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// User returns a copy of the cached profile, or nil
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.current.User)
}

// Snapshot returns a copy of the whole session
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Session{Token: s.current.Token, User: cloneUser(s.current.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
