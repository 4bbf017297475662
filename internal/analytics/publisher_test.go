package analytics

import (
	"errors"
	"testing"
)

func TestFilter_Matches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		event  *Event
		want   bool
	}{
		{
			name:   "empty filter matches any event",
			filter: Filter{},
			event:  &Event{Kind: KindComposer},
			want:   true,
		},
		{
			name:   "nil event returns false",
			filter: Filter{},
			event:  nil,
			want:   false,
		},
		{
			name:   "kind filter matches",
			filter: Filter{Kinds: []Kind{KindComposer}},
			event:  &Event{Kind: KindComposer},
			want:   true,
		},
		{
			name:   "kind filter rejects non-matching",
			filter: Filter{Kinds: []Kind{KindComposer}},
			event:  &Event{Kind: KindError},
			want:   false,
		},
		{
			name:   "multiple kinds - matches any",
			filter: Filter{Kinds: []Kind{KindComposer, KindError}},
			event:  &Event{Kind: KindError},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.event); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPublisherDeliversToMatchingSubscribers(t *testing.T) {
	p := NewPublisher()

	var composerEvents, errorEvents []*Event
	if err := p.Subscribe("composer-sink", Filter{Kinds: []Kind{KindComposer}}, func(e *Event) {
		composerEvents = append(composerEvents, e)
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := p.Subscribe("error-sink", Filter{Kinds: []Kind{KindError}}, func(e *Event) {
		errorEvents = append(errorEvents, e)
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	p.Publish(&Event{Kind: KindComposer, Composer: &ComposerEvent{MessageType: MessageTypeText}})
	p.Publish(&Event{Kind: KindError, Error: "boom"})

	if len(composerEvents) != 1 {
		t.Fatalf("expected 1 composer event, got %d", len(composerEvents))
	}
	if composerEvents[0].ID == "" {
		t.Error("Publish did not assign an event ID")
	}
	if composerEvents[0].Timestamp.IsZero() {
		t.Error("Publish did not assign a timestamp")
	}
	if len(errorEvents) != 1 || errorEvents[0].Error != "boom" {
		t.Fatalf("unexpected error events: %+v", errorEvents)
	}
}

func TestPublisherSubscriptionErrors(t *testing.T) {
	p := NewPublisher()

	if err := p.Subscribe("", Filter{}, func(*Event) {}); err != ErrInvalidSubscriptionID {
		t.Errorf("expected ErrInvalidSubscriptionID, got %v", err)
	}
	if err := p.Subscribe("a", Filter{}, nil); err != ErrNilHandler {
		t.Errorf("expected ErrNilHandler, got %v", err)
	}
	if err := p.Subscribe("a", Filter{}, func(*Event) {}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := p.Subscribe("a", Filter{}, func(*Event) {}); err != ErrSubscriptionExists {
		t.Errorf("expected ErrSubscriptionExists, got %v", err)
	}
	if err := p.Unsubscribe("missing"); err != ErrSubscriptionNotFound {
		t.Errorf("expected ErrSubscriptionNotFound, got %v", err)
	}
	if err := p.Unsubscribe("a"); err != nil {
		t.Errorf("Unsubscribe: %v", err)
	}
	if got := p.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() = %d, want 0", got)
	}
}

func TestServicePublishesThroughPublisher(t *testing.T) {
	p := NewPublisher()
	svc := NewService(p)

	var events []*Event
	if err := p.Subscribe("sink", Filter{}, func(e *Event) {
		events = append(events, e)
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	svc.Capture(ComposerEvent{IsReply: true, MessageType: MessageTypeText})
	svc.TrackError(errors.New("send failed"))
	svc.TrackError(nil)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != KindComposer || !events[0].Composer.IsReply {
		t.Errorf("unexpected composer event: %+v", events[0])
	}
	if events[1].Kind != KindError || events[1].Error != "send failed" {
		t.Errorf("unexpected error event: %+v", events[1])
	}
}
