package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/infra/notifier"
)

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) NotifyNewPost(_ context.Context, _ *entity.User, _ notifier.Message) error {
	f.calls++
	return f.err
}

func TestNotifierChannel_Enabled(t *testing.T) {
	n := &fakeNotifier{}
	ch := NewNotifierChannel("mail", n, true)

	assert.Equal(t, "mail", ch.Name())
	assert.True(t, ch.IsEnabled())

	require.NoError(t, ch.Send(context.Background(), &entity.User{ID: 2}, notifier.Message{}))
	assert.Equal(t, 1, n.calls)
}

func TestNotifierChannel_PropagatesError(t *testing.T) {
	boom := errors.New("relay down")
	ch := NewNotifierChannel("mail", &fakeNotifier{err: boom}, true)

	err := ch.Send(context.Background(), &entity.User{ID: 2}, notifier.Message{})
	assert.ErrorIs(t, err, boom)
}

func TestNotifierChannel_Disabled(t *testing.T) {
	n := &fakeNotifier{}
	ch := NewNotifierChannel("nats", n, false)

	assert.False(t, ch.IsEnabled())
	err := ch.Send(context.Background(), &entity.User{ID: 2}, notifier.Message{})
	assert.ErrorIs(t, err, ErrChannelDisabled)
	assert.Zero(t, n.calls, "disabled channel must not reach the transport")
}

func TestNotifierChannel_InvalidRecipient(t *testing.T) {
	n := &fakeNotifier{}
	ch := NewNotifierChannel("mail", n, true)

	for _, r := range []*entity.User{nil, {ID: 0}} {
		err := ch.Send(context.Background(), r, notifier.Message{})
		assert.ErrorIs(t, err, ErrInvalidRecipient)
	}
	assert.Zero(t, n.calls)
}

func TestNotifierChannel_NilNotifierIsNoOp(t *testing.T) {
	ch := NewNotifierChannel("mail", nil, true)
	assert.NoError(t, ch.Send(context.Background(), &entity.User{ID: 1}, notifier.Message{}))
}
