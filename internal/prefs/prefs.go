// Package prefs provides the session preferences store consumed by
// the composer. The composer reads one boolean today (send typing
// notifications); the store keeps the key space open for the rest of
// the session surface.
package prefs

import (
	"context"
	"sync"
)

// Preference keys.
const (
	KeyTypingNotifications = "typing_notifications_enabled"
)

// Store exposes per-session boolean preferences.
type Store interface {
	// TypingNotificationsEnabled reports whether typing notices may be
	// sent to the room. Defaults to true when never set.
	TypingNotificationsEnabled(ctx context.Context) (bool, error)

	// SetTypingNotificationsEnabled updates the preference.
	SetTypingNotificationsEnabled(ctx context.Context, enabled bool) error
}

// MemoryStore is an in-process Store for tests and the demo.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]bool
}

// NewMemoryStore creates a MemoryStore with default values.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]bool)}
}

// TypingNotificationsEnabled reports the preference, defaulting to true.
func (s *MemoryStore) TypingNotificationsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	enabled, ok := s.values[KeyTypingNotifications]
	if !ok {
		return true, nil
	}
	return enabled, nil
}

// SetTypingNotificationsEnabled updates the preference.
func (s *MemoryStore) SetTypingNotificationsEnabled(ctx context.Context, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[KeyTypingNotifications] = enabled
	return nil
}
