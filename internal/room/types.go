// Package room defines the room collaborator contract the composer
// session controller talks to: message dispatch, media upload, typing
// notices, and the membership roster. The controller never mutates a
// room directly; it calls these operations and observes roster updates.
package room

import (
	"github.com/google/uuid"
)

// UserID identifies a user, e.g. "@alice:server.org".
type UserID string

// EventID identifies a committed room event.
type EventID string

// TransactionID identifies a local echo that has not been committed to
// an event yet.
type TransactionID string

// NewTransactionID returns a fresh transaction id.
func NewTransactionID() TransactionID {
	return TransactionID(uuid.New().String())
}

// Membership is a member's relationship to the room.
type Membership string

const (
	MembershipJoin   Membership = "join"
	MembershipInvite Membership = "invite"
	MembershipLeave  Membership = "leave"
	MembershipBan    Membership = "ban"
)

// Member is one entry in the room roster.
type Member struct {
	UserID      UserID
	DisplayName string
	Membership  Membership
}

// MatchesQuery reports whether the member's id or display name contains
// the query, case-insensitively. An empty query matches everyone.
func (m Member) MatchesQuery(lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return containsFold(string(m.UserID), lowerQuery) || containsFold(m.DisplayName, lowerQuery)
}

// RosterState is a snapshot of the room membership. Members keep the
// order the room delivered them in; suggestion ordering depends on it.
type RosterState struct {
	// Loaded is false until the room has delivered an initial roster.
	Loaded  bool
	Members []Member
}

// Mention is an explicit notification target attached to an outbound
// message. The set of implementations is closed: AtRoomMention and
// UserMention.
type Mention interface {
	isMention()
}

// AtRoomMention notifies the whole room.
type AtRoomMention struct{}

// UserMention notifies a single user.
type UserMention struct {
	UserID UserID
}

func (AtRoomMention) isMention() {}
func (UserMention) isMention()   {}

// Body is an outbound message body. Markdown carries the plain source;
// HTML is set only for rich-text sessions.
type Body struct {
	Markdown string
	HTML     string
}

// ProgressFunc receives upload progress as raw (sent, total) byte
// counts. Implementations must forward every distinct pair they are
// given; coalescing breaks progress observers.
type ProgressFunc func(sent, total int64)
