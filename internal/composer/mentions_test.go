package composer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomchat/loom/internal/room"
)

const selfUser = room.UserID("@me:server.org")

func fixtureRoster() room.RosterState {
	return room.RosterState{
		Loaded: true,
		Members: []room.Member{
			{UserID: selfUser, Membership: room.MembershipJoin},
			{UserID: "@invited:server.org", Membership: room.MembershipInvite},
			{UserID: "@bob:server.org", Membership: room.MembershipJoin},
			{UserID: "@dave:server.org", DisplayName: "Dave", Membership: room.MembershipJoin},
		},
	}
}

func mentionSpan(query string) *Suggestion {
	return &Suggestion{Kind: SuggestionMention, Text: query}
}

func TestResolveMentionSuggestions(t *testing.T) {
	opts := ResolveOptions{SelfUserID: selfUser, CanNotifyRoom: true}

	cases := []struct {
		name string
		span *Suggestion
		opts ResolveOptions
		want []MentionSuggestion
	}{
		{
			name: "empty query lists room then joined members",
			span: mentionSpan(""),
			opts: opts,
			want: []MentionSuggestion{
				SuggestionAtRoom{},
				SuggestionMember{Member: room.Member{UserID: "@bob:server.org", Membership: room.MembershipJoin}},
				SuggestionMember{Member: room.Member{UserID: "@dave:server.org", DisplayName: "Dave", Membership: room.MembershipJoin}},
			},
		},
		{
			name: "roo matches only the room keyword",
			span: mentionSpan("roo"),
			opts: opts,
			want: []MentionSuggestion{SuggestionAtRoom{}},
		},
		{
			name: "bob matches by user id",
			span: mentionSpan("bob"),
			opts: opts,
			want: []MentionSuggestion{
				SuggestionMember{Member: room.Member{UserID: "@bob:server.org", Membership: room.MembershipJoin}},
			},
		},
		{
			name: "dave matches by display name",
			span: mentionSpan("Dave"),
			opts: opts,
			want: []MentionSuggestion{
				SuggestionMember{Member: room.Member{UserID: "@dave:server.org", DisplayName: "Dave", Membership: room.MembershipJoin}},
			},
		},
		{
			name: "command span yields nothing",
			span: &Suggestion{Kind: SuggestionCommand, Text: "bob"},
			opts: opts,
			want: nil,
		},
		{
			name: "nil span yields nothing",
			span: nil,
			opts: opts,
			want: nil,
		},
		{
			name: "no room permission drops at-room",
			span: mentionSpan(""),
			opts: ResolveOptions{SelfUserID: selfUser, CanNotifyRoom: false},
			want: []MentionSuggestion{
				SuggestionMember{Member: room.Member{UserID: "@bob:server.org", Membership: room.MembershipJoin}},
				SuggestionMember{Member: room.Member{UserID: "@dave:server.org", DisplayName: "Dave", Membership: room.MembershipJoin}},
			},
		},
		{
			name: "one-to-one direct room never offers at-room",
			span: mentionSpan(""),
			opts: ResolveOptions{SelfUserID: selfUser, IsDirect: true, IsOneToOne: true, CanNotifyRoom: true},
			want: []MentionSuggestion{
				SuggestionMember{Member: room.Member{UserID: "@bob:server.org", Membership: room.MembershipJoin}},
				SuggestionMember{Member: room.Member{UserID: "@dave:server.org", DisplayName: "Dave", Membership: room.MembershipJoin}},
			},
		},
		{
			name: "direct but larger room still offers at-room",
			span: mentionSpan(""),
			opts: ResolveOptions{SelfUserID: selfUser, IsDirect: true, IsOneToOne: false, CanNotifyRoom: true},
			want: []MentionSuggestion{
				SuggestionAtRoom{},
				SuggestionMember{Member: room.Member{UserID: "@bob:server.org", Membership: room.MembershipJoin}},
				SuggestionMember{Member: room.Member{UserID: "@dave:server.org", DisplayName: "Dave", Membership: room.MembershipJoin}},
			},
		},
		{
			name: "no match yields nothing",
			span: mentionSpan("zebra"),
			opts: ResolveOptions{SelfUserID: selfUser, CanNotifyRoom: false},
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveMentionSuggestions(tc.span, fixtureRoster(), tc.opts)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestResolveMentionSuggestionsUnloadedRoster(t *testing.T) {
	got := ResolveMentionSuggestions(mentionSpan(""), room.RosterState{}, ResolveOptions{
		SelfUserID:    selfUser,
		CanNotifyRoom: true,
	})
	require.Empty(t, got)
}

func TestIntentionalMentionsToMentions(t *testing.T) {
	require.Nil(t, IntentionalMentions{}.ToMentions())

	got := IntentionalMentions{UserIDs: []room.UserID{"@a:server.org"}}.ToMentions()
	require.Equal(t, []room.Mention{room.UserMention{UserID: "@a:server.org"}}, got)

	got = IntentionalMentions{UserIDs: []room.UserID{"@a:server.org"}, AtRoom: true}.ToMentions()
	require.Equal(t, []room.Mention{
		room.AtRoomMention{},
		room.UserMention{UserID: "@a:server.org"},
	}, got)
}
