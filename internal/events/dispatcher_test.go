package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherInvokesAllHandlers(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	var calls []string
	d.Subscribe(EventStaffLoggedIn, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	d.Subscribe(EventStaffLoggedIn, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.Username)
		return nil
	})
	d.Subscribe(EventPasswordChanged, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), Event{ID: "e1", Type: EventStaffLoggedIn, Username: "staff"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second:staff"}, calls)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventLoginLogsPurged}))
}
