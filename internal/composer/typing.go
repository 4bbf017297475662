package composer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/loomchat/loom/internal/logging"
)

// TypingNotifier is the one room operation the dispatcher needs.
type TypingNotifier interface {
	TypingNotice(ctx context.Context, isTyping bool) error
}

// TypingDispatcher forwards typing edges to the room. When the "send
// typing notifications" preference is disabled it observes every edge
// but forwards none; Observed lets callers verify the drop. Edges are
// forwarded as received, true and false alike, with no debouncing of
// the explicit edges themselves.
type TypingDispatcher struct {
	notifier TypingNotifier
	enabled  bool
	log      zerolog.Logger

	mu       sync.Mutex
	observed int
}

// NewTypingDispatcher creates a dispatcher. The preference is read
// once at session configuration time.
func NewTypingDispatcher(notifier TypingNotifier, enabled bool) *TypingDispatcher {
	return &TypingDispatcher{
		notifier: notifier,
		enabled:  enabled,
		log:      logging.Component("typing"),
	}
}

// Dispatch observes one typing edge and forwards it when enabled.
// Delivery failures are logged, never propagated; a missed typing
// notice does not affect the session.
func (d *TypingDispatcher) Dispatch(ctx context.Context, isTyping bool) {
	d.mu.Lock()
	d.observed++
	d.mu.Unlock()

	if !d.enabled {
		return
	}
	if err := d.notifier.TypingNotice(ctx, isTyping); err != nil {
		d.log.Warn().Err(err).Bool("is_typing", isTyping).Msg("typing notice failed")
	}
}

// Observed returns how many edges the dispatcher has seen, forwarded
// or not.
func (d *TypingDispatcher) Observed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.observed
}
