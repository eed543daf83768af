package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_DeliversToSessionSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe("session-1")
	defer cancel()

	b.Publish(Event{SessionKey: "session-1", Message: "hello"})

	select {
	case evt := <-ch:
		assert.Equal(t, "hello", evt.Message)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestBroadcaster_IgnoresOtherSessions(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe("session-1")
	defer cancel()

	b.Publish(Event{SessionKey: "session-2", Message: "not for you"})

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_CancelClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe("session-1")
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic.
	b.Publish(Event{SessionKey: "session-1"})
}

func TestBroadcaster_PublishRacingCancelDoesNotPanic(t *testing.T) {
	b := NewBroadcaster()
	stop := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					b.Publish(Event{SessionKey: "session-1", Message: "tick"})
				}
			}
		}()
	}

	// Churn subscriptions while the publishers run; a send on a channel
	// closed by cancel would panic the publisher goroutine.
	for i := 0; i < 5000; i++ {
		_, cancel := b.Subscribe("session-1")
		cancel()
	}

	close(stop)
	wg.Wait()
}

func TestEmitter_StampsSessionFromContext(t *testing.T) {
	var got Event
	SetCustomEmitter(func(_ context.Context, _ string, evt Event) { got = evt })
	defer SetCustomEmitter(nil)

	ctx := WithSession(context.Background(), "session-9")
	Emit(ctx, PipelineStage, NewInfo("connect", "Running connect..."))

	require.Equal(t, "session-9", got.SessionKey)
	assert.Equal(t, EventInfo, got.Type)
	assert.Equal(t, "connect", got.Stage)
	assert.NotEmpty(t, got.ID)
}
