// Package analytics provides event capture and error tracking for the
// composer, fanned out to sinks through in-process pub/sub.
package analytics

import (
	"time"
)

// Kind categorizes analytics events.
type Kind string

const (
	// KindComposer is emitted once per successful message dispatch.
	KindComposer Kind = "composer"

	// KindError is emitted for tracked errors.
	KindError Kind = "error"
)

// MessageType tags what kind of content a composer event dispatched.
type MessageType string

const (
	MessageTypeText MessageType = "text"
)

// ComposerEvent is the payload of a KindComposer event, tagged with
// the dispatch branch that produced it.
type ComposerEvent struct {
	IsEditing   bool        `json:"is_editing"`
	IsReply     bool        `json:"is_reply"`
	InThread    bool        `json:"in_thread"`
	MessageType MessageType `json:"message_type"`
}

// Event is one captured analytics record.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event was captured.
	Timestamp time.Time `json:"timestamp"`

	// Kind categorizes the event.
	Kind Kind `json:"kind"`

	// Composer carries the payload for KindComposer events.
	Composer *ComposerEvent `json:"composer,omitempty"`

	// Error carries the message for KindError events.
	Error string `json:"error,omitempty"`
}
