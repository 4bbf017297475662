// Package composer implements the per-room message authoring session:
// the compose-mode state machine, the attachment pipeline, mention
// suggestion resolution, typing-notice dispatch, and the send/edit/
// reply coordinator, aggregated behind a single controller that
// exposes an immutable state snapshot and one event intake.
package composer

import (
	"github.com/loomchat/loom/internal/media"
	"github.com/loomchat/loom/internal/room"
)

// TextKind selects the text authoring surface for a session. It is
// fixed at session configuration time.
type TextKind string

const (
	// TextKindMarkdown is the plain editor; bodies are markdown source.
	TextKindMarkdown TextKind = "markdown"

	// TextKindRich is the rich editor; bodies carry HTML.
	TextKindRich TextKind = "rich"
)

// TextContent is the composer's current text.
type TextContent struct {
	Kind TextKind
	Body string
}

// ComposeMode is the current authoring context. The set of
// implementations is closed: ModeNormal, ModeEdit, ModeReply and
// ModeQuote.
type ComposeMode interface {
	isComposeMode()
}

// ModeNormal is plain composition.
type ModeNormal struct{}

// ModeEdit is editing an existing message. The target is addressed by
// EventID when the message is committed, or TransactionID while it is
// still a local echo. At least one of the two is non-zero.
type ModeEdit struct {
	EventID       room.EventID
	TransactionID room.TransactionID
	OriginalText  string
}

// ModeReply is replying to an existing event.
type ModeReply struct {
	SenderName string
	EventID    room.EventID
	InThread   bool
	QuotedBody string
}

// ModeQuote is quoting an existing event into a new message.
type ModeQuote struct {
	EventID    room.EventID
	QuotedBody string
}

func (ModeNormal) isComposeMode() {}
func (ModeEdit) isComposeMode()   {}
func (ModeReply) isComposeMode()  {}
func (ModeQuote) isComposeMode()  {}

// AttachmentState is the attachment pipeline's externally visible
// position. Closed set: AttachmentNone, AttachmentPreviewing,
// AttachmentProcessing, AttachmentUploading.
type AttachmentState interface {
	isAttachmentState()
}

// AttachmentNone means no attachment is in flight.
type AttachmentNone struct{}

// AttachmentPreviewing holds picked media awaiting user confirmation.
type AttachmentPreviewing struct {
	Media *media.LocalMedia
}

// AttachmentProcessing means the pre-upload transform is running.
type AttachmentProcessing struct {
	Media *media.LocalMedia
}

// AttachmentUploading carries upload progress in [0, 1]. One value is
// published per progress pair the transport reports; consumers see
// every pair, never a coalesced summary.
type AttachmentUploading struct {
	Progress float64
}

func (AttachmentNone) isAttachmentState()       {}
func (AttachmentPreviewing) isAttachmentState() {}
func (AttachmentProcessing) isAttachmentState() {}
func (AttachmentUploading) isAttachmentState()  {}

// MentionSuggestion is one entry in the suggestion list. Closed set:
// SuggestionAtRoom, SuggestionMember.
type MentionSuggestion interface {
	isMentionSuggestion()
}

// SuggestionAtRoom offers notifying the whole room.
type SuggestionAtRoom struct{}

// SuggestionMember offers mentioning a single member.
type SuggestionMember struct {
	Member room.Member
}

func (SuggestionAtRoom) isMentionSuggestion() {}
func (SuggestionMember) isMentionSuggestion() {}

// SuggestionKind tags what an active suggestion span is asking for.
type SuggestionKind string

const (
	// SuggestionMention is an @-mention span.
	SuggestionMention SuggestionKind = "mention"

	// SuggestionCommand is a /-command span. Commands never produce
	// mention suggestions.
	SuggestionCommand SuggestionKind = "command"
)

// Suggestion is the active suggestion span reported by the editor.
// Text is the query without its trigger character. Start and End are
// the span's rune offsets in the body.
type Suggestion struct {
	Kind  SuggestionKind
	Text  string
	Start int
	End   int
}

// IntentionalMentions is the explicit set of notification targets the
// author chose through the editing surface, captured at the instant a
// send fires. It is independent of any plain-text @-parsing.
type IntentionalMentions struct {
	UserIDs []room.UserID
	AtRoom  bool
}

// ToMentions converts the set into outbound mention values, @room
// first.
func (im IntentionalMentions) ToMentions() []room.Mention {
	if !im.AtRoom && len(im.UserIDs) == 0 {
		return nil
	}
	out := make([]room.Mention, 0, len(im.UserIDs)+1)
	if im.AtRoom {
		out = append(out, room.AtRoomMention{})
	}
	for _, id := range im.UserIDs {
		out = append(out, room.UserMention{UserID: id})
	}
	return out
}

// ComposerState is the immutable snapshot published to observers after
// every applied event. Seq increases by one per snapshot, so observers
// can assert ordering.
type ComposerState struct {
	Seq uint64

	Mode        ComposeMode
	Text        TextContent
	Attachments AttachmentState

	MemberSuggestions []MentionSuggestion

	ShowAttachmentSourcePicker bool
	ShowTextFormatting         bool
	IsFullScreen               bool

	CanShareLocation bool
	CanCreatePoll    bool
}
