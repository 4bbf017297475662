package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomchat/loom/internal/room"
)

func TestTypingDispatcherForwardsEdgesInOrder(t *testing.T) {
	r := room.NewMemory()
	d := NewTypingDispatcher(r, true)

	d.Dispatch(context.Background(), true)
	d.Dispatch(context.Background(), false)

	require.Equal(t, []bool{true, false}, r.TypingCalls())
	require.Equal(t, 2, d.Observed())
}

func TestTypingDispatcherDisabledObservesButNeverForwards(t *testing.T) {
	r := room.NewMemory()
	d := NewTypingDispatcher(r, false)

	d.Dispatch(context.Background(), true)
	d.Dispatch(context.Background(), false)

	require.Empty(t, r.TypingCalls())
	require.Equal(t, 2, d.Observed())
}

type failingNotifier struct {
	calls int
}

func (f *failingNotifier) TypingNotice(ctx context.Context, isTyping bool) error {
	f.calls++
	return errors.New("gateway timeout")
}

func TestTypingDispatcherSwallowsDeliveryErrors(t *testing.T) {
	n := &failingNotifier{}
	d := NewTypingDispatcher(n, true)

	d.Dispatch(context.Background(), true)

	require.Equal(t, 1, n.calls)
	require.Equal(t, 1, d.Observed())
}
