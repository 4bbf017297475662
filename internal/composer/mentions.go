package composer

import (
	"strings"

	"github.com/loomchat/loom/internal/room"
)

// ResolveOptions carries the room facts mention resolution depends on.
type ResolveOptions struct {
	SelfUserID    room.UserID
	IsDirect      bool
	IsOneToOne    bool
	CanNotifyRoom bool
}

// ResolveMentionSuggestions maps the active suggestion span and the
// current roster to a ranked suggestion list.
//
// Rules, applied in order: a nil span or a non-mention span yields
// nothing; an unloaded roster yields nothing; the candidate pool is
// joined members minus the session's own user; @room is offered first
// when the room is not a one-to-one direct chat, the user may trigger
// room notifications, and the query is empty or matches the word
// "room"; members follow in roster order, filtered by case-insensitive
// containment against id and display name.
func ResolveMentionSuggestions(s *Suggestion, roster room.RosterState, opts ResolveOptions) []MentionSuggestion {
	if s == nil || s.Kind != SuggestionMention {
		return nil
	}
	if !roster.Loaded {
		return nil
	}

	query := strings.ToLower(s.Text)
	var out []MentionSuggestion

	offerAtRoom := !(opts.IsDirect && opts.IsOneToOne) &&
		opts.CanNotifyRoom &&
		(query == "" || strings.Contains("room", query))
	if offerAtRoom {
		out = append(out, SuggestionAtRoom{})
	}

	for _, member := range roster.Members {
		if member.Membership != room.MembershipJoin {
			continue
		}
		if member.UserID == opts.SelfUserID {
			continue
		}
		if !member.MatchesQuery(query) {
			continue
		}
		out = append(out, SuggestionMember{Member: member})
	}
	return out
}
