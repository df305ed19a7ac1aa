// Package session keeps the signed-in user's record in memory and mirrors
// it into a durable cookie so it survives restarts.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/naveenspark/storefront/pkg/domain"
)

// ErrIncomplete is returned for a stored record that cannot act as a
// session: it has no token or no email.
var ErrIncomplete = errors.New("session record incomplete")

// Cache is durable storage for the session record. Load returns a nil
// record and nil error when nothing is stored.
type Cache interface {
	Load() (*domain.SessionRecord, error)
	Save(domain.SessionRecord) error
	Clear() error
}

// Store is the single owner of the current session record. SetCurrent is
// the only write path; pages read through Current.
type Store struct {
	mu      sync.RWMutex
	current *domain.SessionRecord
	cache   Cache
	logger  *slog.Logger
}

// NewStore returns an empty store backed by cache. Call Rehydrate to load
// a previously saved record.
func NewStore(cache Cache, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{cache: cache, logger: logger}
}

// Rehydrate replaces the in-memory record with whatever the cache holds.
// An unreadable or incomplete cache entry is discarded so a corrupt cookie
// cannot wedge startup or pass the page guards.
func (s *Store) Rehydrate() error {
	rec, err := s.cache.Load()
	if err == nil && rec != nil && !rec.Valid() {
		err = ErrIncomplete
	}
	if err != nil {
		s.logger.Warn("discarding unreadable session cookie", "err", err)
		if clearErr := s.cache.Clear(); clearErr != nil {
			s.logger.Error("clear session cookie", "err", clearErr)
		}
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		return fmt.Errorf("session.Rehydrate: %w", err)
	}
	s.mu.Lock()
	s.current = rec
	s.mu.Unlock()
	if rec != nil {
		s.logger.Debug("session rehydrated", "user_id", rec.ID)
	}
	return nil
}

// Current returns a copy of the session record, if one is set.
func (s *Store) Current() (domain.SessionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.SessionRecord{}, false
	}
	return *s.current, true
}

// SetCurrent replaces the session record wholesale and mirrors it into the
// cache. The in-memory record is updated even when the cache write fails;
// the returned error only reports the lost durability.
func (s *Store) SetCurrent(rec domain.SessionRecord) error {
	s.mu.Lock()
	s.current = &rec
	s.mu.Unlock()

	if err := s.cache.Save(rec); err != nil {
		s.logger.Error("persist session cookie", "user_id", rec.ID, "err", err)
		return fmt.Errorf("session.SetCurrent: %w", err)
	}
	s.logger.Info("session updated", "user_id", rec.ID, "admin", rec.IsAdmin)
	return nil
}

// Clear drops the session from memory and the cache.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.cache.Clear(); err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}
