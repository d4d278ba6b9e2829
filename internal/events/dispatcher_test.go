package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.SubjectID)
		return errors.New("smtp down")
	})
	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventCourseCreated, func(context.Context, Event) error {
		calls = append(calls, "course")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventUserCreated, SubjectID: "u1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Equal(t, []string{"first:u1", "second:u1"}, calls)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventCourseDeleted}))
}

func TestDispatcher_RecoversPanickingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false

	d.Subscribe(EventCourseUpdated, func(context.Context, Event) error {
		panic("template missing")
	})
	d.Subscribe(EventCourseUpdated, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventCourseUpdated})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "template missing")
	assert.True(t, delivered)
}

func TestDispatcher_StopsOnCancelledContext(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	d.Subscribe(EventCourseCreated, func(context.Context, Event) error {
		calls++
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Publish(ctx, Event{Type: EventCourseCreated})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
