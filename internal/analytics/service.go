package analytics

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/loomchat/loom/internal/logging"
)

// Service is the analytics collaborator the composer calls.
type Service interface {
	// Capture records one composer event.
	Capture(ev ComposerEvent)

	// TrackError records a non-fatal error.
	TrackError(err error)
}

// PublisherService implements Service on top of a Publisher.
type PublisherService struct {
	publisher *Publisher
	log       zerolog.Logger
}

// NewService creates a Service publishing to the given Publisher.
func NewService(publisher *Publisher) *PublisherService {
	return &PublisherService{
		publisher: publisher,
		log:       logging.Component("analytics"),
	}
}

// Capture publishes a KindComposer event.
func (s *PublisherService) Capture(ev ComposerEvent) {
	s.log.Debug().
		Bool("is_editing", ev.IsEditing).
		Bool("is_reply", ev.IsReply).
		Bool("in_thread", ev.InThread).
		Str("message_type", string(ev.MessageType)).
		Msg("composer event captured")
	s.publisher.Publish(&Event{Kind: KindComposer, Composer: &ev})
}

// TrackError publishes a KindError event.
func (s *PublisherService) TrackError(err error) {
	if err == nil {
		return
	}
	s.log.Warn().Err(err).Msg("error tracked")
	s.publisher.Publish(&Event{Kind: KindError, Error: err.Error()})
}

// Recorder is a Service that keeps every call for assertions.
type Recorder struct {
	mu       sync.Mutex
	captured []ComposerEvent
	errors   []error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Capture records the event.
func (r *Recorder) Capture(ev ComposerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captured = append(r.captured, ev)
}

// TrackError records the error.
func (r *Recorder) TrackError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

// Captured returns the recorded composer events.
func (r *Recorder) Captured() []ComposerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ComposerEvent(nil), r.captured...)
}

// Errors returns the recorded errors.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errors...)
}
