// Package snackbar delivers transient, non-blocking user-visible
// notifications. The composer posts failure messages here; the
// rendering collaborator subscribes and shows them.
package snackbar

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/loomchat/loom/internal/logging"
)

// Message is one transient notification.
type Message struct {
	Text string
}

// Dispatcher fans posted messages out to subscribers in posting order.
type Dispatcher struct {
	log zerolog.Logger

	mu   sync.Mutex
	subs map[string]func(Message)
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		log:  logging.Component("snackbar"),
		subs: make(map[string]func(Message)),
	}
}

// Post delivers the message to all subscribers. Delivery is
// synchronous so that observers see messages in the order the
// composer produced them.
func (d *Dispatcher) Post(msg Message) {
	d.mu.Lock()
	subs := make([]func(Message), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	d.log.Debug().Str("text", msg.Text).Msg("snackbar posted")
	for _, fn := range subs {
		fn(msg)
	}
}

// Subscribe registers a message callback. The returned function
// removes the subscription.
func (d *Dispatcher) Subscribe(fn func(Message)) (unsubscribe func()) {
	id := uuid.New().String()
	d.mu.Lock()
	d.subs[id] = fn
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Recorder collects posted messages for assertions.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecorder creates a Recorder subscribed to the dispatcher.
func NewRecorder(d *Dispatcher) *Recorder {
	r := &Recorder{}
	d.Subscribe(func(msg Message) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.messages = append(r.messages, msg)
	})
	return r
}

// Messages returns the recorded messages in posting order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
