package composer

// applyMode computes the effect of entering next relative to the
// current text. Entering ModeEdit replaces the text with the edited
// message's body; ModeReply and ModeQuote preserve whatever the user
// already typed. Transitions are total: any mode may be entered from
// any other.
func applyMode(next ComposeMode, text TextContent) (ComposeMode, TextContent) {
	if edit, ok := next.(ModeEdit); ok {
		text.Body = edit.OriginalText
	}
	return next, text
}

// closeSpecialMode returns to ModeNormal. Text is cleared only when
// the mode being left is ModeEdit; from ModeNormal the call is a
// no-op.
func closeSpecialMode(current ComposeMode, text TextContent) (ComposeMode, TextContent) {
	if _, ok := current.(ModeEdit); ok {
		text.Body = ""
	}
	return ModeNormal{}, text
}

// modeFlags derives the dispatch-branch tags recorded on a successful
// send.
func modeFlags(mode ComposeMode) (isEditing, isReply, inThread bool) {
	switch m := mode.(type) {
	case ModeEdit:
		return true, false, false
	case ModeReply:
		return false, true, m.InThread
	default:
		return false, false, false
	}
}
