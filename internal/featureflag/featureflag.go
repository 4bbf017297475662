// Package featureflag exposes boolean feature flags to the composer.
// Flags are read once at session configuration time; flips while a
// session is open take effect on the next session.
package featureflag

import (
	"context"
	"sync"
)

// Flag names a feature toggle.
type Flag string

const (
	FlagLocationSharing Flag = "location_sharing"
	FlagPolls           Flag = "polls"
	FlagMentions        Flag = "mentions"
	FlagRichTextEditor  Flag = "rich_text_editor"
)

// Service reads feature flags.
type Service interface {
	IsEnabled(ctx context.Context, flag Flag) (bool, error)
}

// Static is a fixed in-memory flag set.
type Static struct {
	mu    sync.Mutex
	flags map[Flag]bool
}

// NewStatic creates a Static service; unlisted flags are disabled.
func NewStatic(flags map[Flag]bool) *Static {
	copied := make(map[Flag]bool, len(flags))
	for k, v := range flags {
		copied[k] = v
	}
	return &Static{flags: copied}
}

// IsEnabled reports the flag value.
func (s *Static) IsEnabled(ctx context.Context, flag Flag) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags[flag], nil
}

// Set updates a flag. Open sessions are unaffected.
func (s *Static) Set(flag Flag, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[flag] = enabled
}
