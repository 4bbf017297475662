package room

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/loomchat/loom/internal/logging"
	"github.com/loomchat/loom/internal/media"
)

// SentMessage records one SendMessage call.
type SentMessage struct {
	Body     Body
	Mentions []Mention
}

// EditedMessage records one EditMessage call.
type EditedMessage struct {
	EventID       EventID
	TransactionID TransactionID
	Body          Body
	Mentions      []Mention
}

// Reply records one ReplyMessage call.
type Reply struct {
	EventID  EventID
	Body     Body
	Mentions []Mention
	InThread bool
}

// MediaSend records one SendMedia call.
type MediaSend struct {
	Upload media.Upload
}

// Memory is an in-memory Room. The demo binary runs against it, and
// tests use it to assert exactly which room operations the controller
// performed. Upload progress is scripted: each (sent, total) step is
// forwarded to the progress callback in order.
type Memory struct {
	id       string
	direct   bool
	oneToOne bool
	log      zerolog.Logger

	mu          sync.Mutex
	roster      RosterState
	rosterSubs  map[string]func(RosterState)
	canNotify   map[UserID]bool
	progress    [][2]int64
	sendErr     error
	editErr     error
	replyErr    error
	mediaErr    error
	sent        []SentMessage
	edited      []EditedMessage
	replies     []Reply
	mediaSends  []MediaSend
	typingCalls []bool
}

// MemoryOption configures a Memory room.
type MemoryOption func(*Memory)

// WithDirect marks the room as a direct chat.
func WithDirect(oneToOne bool) MemoryOption {
	return func(m *Memory) {
		m.direct = true
		m.oneToOne = oneToOne
	}
}

// WithRoster sets the initial, loaded roster.
func WithRoster(members ...Member) MemoryOption {
	return func(m *Memory) {
		m.roster = RosterState{Loaded: true, Members: members}
	}
}

// WithNotifyPermission lets userID trigger @room notifications.
func WithNotifyPermission(userID UserID) MemoryOption {
	return func(m *Memory) {
		m.canNotify[userID] = true
	}
}

// WithUploadProgress scripts the (sent, total) steps SendMedia reports.
func WithUploadProgress(steps ...[2]int64) MemoryOption {
	return func(m *Memory) {
		m.progress = steps
	}
}

// NewMemory creates an in-memory room.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		id:         "!" + uuid.New().String(),
		canNotify:  make(map[UserID]bool),
		rosterSubs: make(map[string]func(RosterState)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = logging.WithRoom(m.id)
	return m
}

// ID returns the room identifier.
func (m *Memory) ID() string { return m.id }

// IsDirect reports whether the room is a direct chat.
func (m *Memory) IsDirect() bool { return m.direct }

// IsOneToOne reports whether the room has exactly two members.
func (m *Memory) IsOneToOne() bool { return m.oneToOne }

// Roster returns the current membership snapshot.
func (m *Memory) Roster() RosterState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roster
}

// SubscribeRoster registers a roster callback.
func (m *Memory) SubscribeRoster(fn func(RosterState)) func() {
	id := uuid.New().String()
	m.mu.Lock()
	m.rosterSubs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.rosterSubs, id)
		m.mu.Unlock()
	}
}

// SetRoster replaces the roster and notifies subscribers.
func (m *Memory) SetRoster(state RosterState) {
	m.mu.Lock()
	m.roster = state
	subs := make([]func(RosterState), 0, len(m.rosterSubs))
	for _, fn := range m.rosterSubs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

// CanTriggerRoomNotification reports the configured permission.
func (m *Memory) CanTriggerRoomNotification(ctx context.Context, userID UserID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canNotify[userID], nil
}

// FailNextSend makes the next SendMessage call return err.
func (m *Memory) FailNextSend(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// FailNextEdit makes the next EditMessage call return err.
func (m *Memory) FailNextEdit(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.editErr = err
}

// FailNextReply makes the next ReplyMessage call return err.
func (m *Memory) FailNextReply(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replyErr = err
}

// FailNextMediaSend makes the next SendMedia call return err after
// reporting any scripted progress.
func (m *Memory) FailNextMediaSend(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mediaErr = err
}

// SendMessage records the call.
func (m *Memory) SendMessage(ctx context.Context, body Body, mentions []Mention) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.sendErr; err != nil {
		m.sendErr = nil
		return err
	}
	m.sent = append(m.sent, SentMessage{Body: body, Mentions: mentions})
	m.log.Debug().Str("body", logging.BodyPreview(body.Markdown)).Int("mentions", len(mentions)).Msg("message sent")
	return nil
}

// EditMessage records the call.
func (m *Memory) EditMessage(ctx context.Context, eventID EventID, txnID TransactionID, body Body, mentions []Mention) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editErr; err != nil {
		m.editErr = nil
		return err
	}
	m.edited = append(m.edited, EditedMessage{
		EventID:       eventID,
		TransactionID: txnID,
		Body:          body,
		Mentions:      mentions,
	})
	return nil
}

// ReplyMessage records the call.
func (m *Memory) ReplyMessage(ctx context.Context, eventID EventID, body Body, mentions []Mention, inThread bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.replyErr; err != nil {
		m.replyErr = nil
		return err
	}
	m.replies = append(m.replies, Reply{EventID: eventID, Body: body, Mentions: mentions, InThread: inThread})
	return nil
}

// SendMedia replays the scripted progress steps through fn, honoring
// cancellation between steps, then records the call.
func (m *Memory) SendMedia(ctx context.Context, upload media.Upload, fn ProgressFunc) error {
	m.mu.Lock()
	steps := m.progress
	failErr := m.mediaErr
	m.mediaErr = nil
	m.mu.Unlock()

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if fn != nil {
			fn(step[0], step[1])
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if failErr != nil {
		return failErr
	}

	m.mu.Lock()
	m.mediaSends = append(m.mediaSends, MediaSend{Upload: upload})
	m.mu.Unlock()
	return nil
}

// TypingNotice records the transition.
func (m *Memory) TypingNotice(ctx context.Context, isTyping bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typingCalls = append(m.typingCalls, isTyping)
	return nil
}

// Sent returns the recorded SendMessage calls.
func (m *Memory) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.sent...)
}

// Edited returns the recorded EditMessage calls.
func (m *Memory) Edited() []EditedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EditedMessage(nil), m.edited...)
}

// Replies returns the recorded ReplyMessage calls.
func (m *Memory) Replies() []Reply {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Reply(nil), m.replies...)
}

// MediaSends returns the recorded SendMedia calls.
func (m *Memory) MediaSends() []MediaSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MediaSend(nil), m.mediaSends...)
}

// TypingCalls returns the recorded typing transitions in order.
func (m *Memory) TypingCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.typingCalls...)
}
