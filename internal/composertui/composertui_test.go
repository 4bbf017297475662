package composertui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomchat/loom/internal/composer"
	"github.com/loomchat/loom/internal/room"
)

func TestActiveSuggestion(t *testing.T) {
	require.Nil(t, activeSuggestion(""))
	require.Nil(t, activeSuggestion("plain text"))

	s := activeSuggestion("hello @bo")
	require.NotNil(t, s)
	require.Equal(t, composer.SuggestionMention, s.Kind)
	require.Equal(t, "bo", s.Text)
	require.Equal(t, 6, s.Start)
	require.Equal(t, 9, s.End)

	s = activeSuggestion("@")
	require.NotNil(t, s)
	require.Empty(t, s.Text)

	s = activeSuggestion("/shrug")
	require.NotNil(t, s)
	require.Equal(t, composer.SuggestionCommand, s.Kind)
	require.Equal(t, "shrug", s.Text)

	// Only the trailing word opens a span.
	require.Nil(t, activeSuggestion("@bob was here"))
}

func TestSuggestionText(t *testing.T) {
	require.Equal(t, "@room", suggestionText(composer.SuggestionAtRoom{}))
	require.Equal(t, "Dave", suggestionText(composer.SuggestionMember{
		Member: room.Member{UserID: "@dave:server.org", DisplayName: "Dave"},
	}))
	require.Equal(t, "@bob:server.org", suggestionText(composer.SuggestionMember{
		Member: room.Member{UserID: "@bob:server.org"},
	}))
}

func TestProgressBarBounds(t *testing.T) {
	require.Contains(t, progressBar(0), "0%")
	require.Contains(t, progressBar(0.5), "50%")
	require.Contains(t, progressBar(1), "100%")
}

func TestModeLine(t *testing.T) {
	require.Empty(t, modeLine(composer.ModeNormal{}))
	require.Equal(t, "editing message", modeLine(composer.ModeEdit{EventID: "$ev1"}))
	require.Equal(t, "replying to Bob", modeLine(composer.ModeReply{SenderName: "Bob"}))
	require.Equal(t, "replying in thread to Bob", modeLine(composer.ModeReply{SenderName: "Bob", InThread: true}))
	require.Equal(t, "quoting", modeLine(composer.ModeQuote{}))
}
