// Package draft holds unsent composer text between visits to a room.
// Only a volatile store ships here; durable persistence belongs to an
// external collaborator.
package draft

import "sync"

// Draft is the text a user left in the composer.
type Draft struct {
	// Body is the composer text, markdown source or rich-editor HTML
	// depending on the session's text kind.
	Body string
}

// Store saves and restores drafts per room.
type Store interface {
	// Save stores the draft for a room, replacing any previous one.
	Save(roomID string, d Draft)

	// Take removes and returns the draft for a room. The second result
	// is false when no draft exists.
	Take(roomID string) (Draft, bool)

	// Clear removes the draft for a room.
	Clear(roomID string)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

// Save stores the draft for a room.
func (s *MemoryStore) Save(roomID string, d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[roomID] = d
}

// Take removes and returns the draft for a room.
func (s *MemoryStore) Take(roomID string) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[roomID]
	if ok {
		delete(s.drafts, roomID)
	}
	return d, ok
}

// Clear removes the draft for a room.
func (s *MemoryStore) Clear(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, roomID)
}
