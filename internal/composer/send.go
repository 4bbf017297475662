package composer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/loomchat/loom/internal/analytics"
	"github.com/loomchat/loom/internal/logging"
	"github.com/loomchat/loom/internal/room"
)

// SendCoordinator turns a captured (mode, text, mentions) triple into
// the mode-appropriate room operation and reports the outcome to
// analytics. It does not own any state; the controller clears text and
// mode only after Send returns nil.
type SendCoordinator struct {
	room      room.Room
	analytics analytics.Service
	log       zerolog.Logger
}

// NewSendCoordinator creates a coordinator for one room.
func NewSendCoordinator(r room.Room, svc analytics.Service) *SendCoordinator {
	return &SendCoordinator{
		room:      r,
		analytics: svc,
		log:       logging.Component("send").With().Str("room_id", r.ID()).Logger(),
	}
}

// Send dispatches one message. ModeNormal and ModeQuote send a new
// message (quoted text was seeded into the body when the mode was
// entered); ModeEdit edits the target, addressed by event id when
// present, transaction id otherwise; ModeReply replies, threaded when
// the mode says so. On success one composer analytics event is
// captured; on failure the error is tracked and returned so the caller
// can leave the typed text intact for a retry.
func (c *SendCoordinator) Send(ctx context.Context, mode ComposeMode, text TextContent, mentions IntentionalMentions) error {
	body := buildBody(text)
	outbound := mentions.ToMentions()

	var err error
	switch m := mode.(type) {
	case ModeEdit:
		if m.EventID != "" {
			err = c.room.EditMessage(ctx, m.EventID, "", body, outbound)
		} else {
			err = c.room.EditMessage(ctx, "", m.TransactionID, body, outbound)
		}
	case ModeReply:
		err = c.room.ReplyMessage(ctx, m.EventID, body, outbound, m.InThread)
	default:
		err = c.room.SendMessage(ctx, body, outbound)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("message dispatch failed")
		c.analytics.TrackError(err)
		return err
	}

	isEditing, isReply, inThread := modeFlags(mode)
	c.analytics.Capture(analytics.ComposerEvent{
		IsEditing:   isEditing,
		IsReply:     isReply,
		InThread:    inThread,
		MessageType: analytics.MessageTypeText,
	})
	c.log.Debug().
		Bool("is_editing", isEditing).
		Bool("is_reply", isReply).
		Str("body", logging.BodyPreview(text.Body)).
		Msg("message dispatched")
	return nil
}

// buildBody maps the session text to an outbound body. Markdown
// sessions send the source as-is; rich sessions also carry the HTML
// rendering.
func buildBody(text TextContent) room.Body {
	body := room.Body{Markdown: text.Body}
	if text.Kind == TextKindRich {
		body.HTML = text.Body
	}
	return body
}
