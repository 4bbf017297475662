package room

import (
	"context"
	"strings"

	"github.com/loomchat/loom/internal/media"
)

// Room is the shared, externally-owned collaborator for one open room.
// All blocking operations take a context; cancellation aborts the call
// without corrupting room state.
type Room interface {
	// ID returns the room identifier.
	ID() string

	// IsDirect reports whether the room is a direct chat.
	IsDirect() bool

	// IsOneToOne reports whether the room has exactly two members.
	IsOneToOne() bool

	// Roster returns the current membership snapshot.
	Roster() RosterState

	// SubscribeRoster registers a callback for roster updates. The
	// returned function removes the subscription.
	SubscribeRoster(fn func(RosterState)) (unsubscribe func())

	// CanTriggerRoomNotification reports whether the user may send an
	// @room mention in this room.
	CanTriggerRoomNotification(ctx context.Context, userID UserID) (bool, error)

	// SendMessage sends a new message.
	SendMessage(ctx context.Context, body Body, mentions []Mention) error

	// EditMessage replaces the body of an earlier message, addressed by
	// event id when the message is committed or by transaction id when
	// it is still a local echo. Exactly one identifier is non-zero;
	// that is the caller's precondition.
	EditMessage(ctx context.Context, eventID EventID, txnID TransactionID, body Body, mentions []Mention) error

	// ReplyMessage sends a reply to the given event, threaded when
	// inThread is set.
	ReplyMessage(ctx context.Context, eventID EventID, body Body, mentions []Mention, inThread bool) error

	// SendMedia uploads processed media, reporting raw byte progress
	// through fn. Every (sent, total) pair the transport produces is
	// forwarded as its own call.
	SendMedia(ctx context.Context, upload media.Upload, fn ProgressFunc) error

	// TypingNotice tells the room whether the user is typing.
	TypingNotice(ctx context.Context, isTyping bool) error
}

func containsFold(s, lowerSubstr string) bool {
	return strings.Contains(strings.ToLower(s), lowerSubstr)
}
