package composer

import (
	"github.com/loomchat/loom/internal/media"
)

// Event is one unit of user or collaborator intent submitted to the
// controller. The set of implementations is closed; Submit processes
// events strictly in submission order.
type Event interface {
	isEvent()
}

// ToggleFullScreen flips the full-screen flag.
type ToggleFullScreen struct{}

// ToggleTextFormatting shows or hides the formatting toolbar.
type ToggleTextFormatting struct {
	Enabled bool
}

// SetMode enters an authoring mode. Entering ModeEdit replaces the
// composer text with the edited message's body; other modes leave the
// text untouched.
type SetMode struct {
	Mode ComposeMode
}

// CloseSpecialMode returns to ModeNormal. Text is cleared only when
// the mode being left is ModeEdit.
type CloseSpecialMode struct{}

// ChangeText replaces the composer text body.
type ChangeText struct {
	Body string
}

// SendMessage dispatches the current text through the mode-appropriate
// room operation. With empty text it is a no-op.
type SendMessage struct{}

// AddAttachment opens the attachment source picker.
type AddAttachment struct{}

// DismissAttachmentMenu closes the attachment source picker.
type DismissAttachmentMenu struct{}

// PickAttachmentSource starts a pick from the chosen source. Camera
// sources first consult the permission presenter; the pick is parked
// until the grant arrives.
type PickAttachmentSource struct {
	Source media.Source
}

// ConfirmSendAttachment sends the attachment currently previewing.
type ConfirmSendAttachment struct{}

// CancelSendAttachment aborts the in-flight attachment pipeline and
// resets attachment state. Not an error.
type CancelSendAttachment struct{}

// SendLocalMedia sends already-picked media, bypassing the picker.
type SendLocalMedia struct {
	Media *media.LocalMedia
}

// TypingNotice reports a typing edge from the editor.
type TypingNotice struct {
	IsTyping bool
}

// SuggestionReceived reports the editor's active suggestion span, or
// nil when no span is active.
type SuggestionReceived struct {
	Suggestion *Suggestion
}

// InsertMention records the user picking a suggestion. The target is
// added to the intentional mentions carried into the next send.
type InsertMention struct {
	Suggestion MentionSuggestion
}

// SetMentions replaces the intentional mentions with the set captured
// from the editing surface.
type SetMentions struct {
	Mentions IntentionalMentions
}

// SaveDraft stores the current text in the draft store, or clears the
// stored draft when the text is empty.
type SaveDraft struct{}

// ErrorEvent routes a caught error to analytics error tracking. The
// session stays usable.
type ErrorEvent struct {
	Err error
}

func (ToggleFullScreen) isEvent()      {}
func (ToggleTextFormatting) isEvent()  {}
func (SetMode) isEvent()               {}
func (CloseSpecialMode) isEvent()      {}
func (ChangeText) isEvent()            {}
func (SendMessage) isEvent()           {}
func (AddAttachment) isEvent()         {}
func (DismissAttachmentMenu) isEvent() {}
func (PickAttachmentSource) isEvent()  {}
func (ConfirmSendAttachment) isEvent() {}
func (CancelSendAttachment) isEvent()  {}
func (SendLocalMedia) isEvent()        {}
func (TypingNotice) isEvent()          {}
func (SuggestionReceived) isEvent()    {}
func (InsertMention) isEvent()         {}
func (SetMentions) isEvent()           {}
func (SaveDraft) isEvent()             {}
func (ErrorEvent) isEvent()            {}
