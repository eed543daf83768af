package events

import (
	"context"
	"log"
	"sync"
)

// Emit is the process-wide event sink. It defaults to a no-op so library
// consumers and tests run silently unless they install an emitter.
var Emit = func(ctx context.Context, name string, evt Event) {}

// SetCustomEmitter replaces the sink. Passing nil restores the no-op.
func SetCustomEmitter(f func(ctx context.Context, name string, evt Event)) {
	if f == nil {
		Emit = func(context.Context, string, Event) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt Event) {
		if evt.SessionKey == "" {
			if session := SessionFromContext(ctx); session != "" {
				evt.SessionKey = session
			}
		}
		f(ctx, name, evt)
	}
}

// Broadcaster fans events out to per-session subscribers. The chat gateway
// subscribes one channel per run and turns events into chat messages.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string][]chan Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string][]chan Event)}
}

// Subscribe registers a buffered channel for the given session key and
// returns it along with a cancel func that removes and closes it.
func (b *Broadcaster) Subscribe(sessionKey string) (<-chan Event, func()) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs[sessionKey] = append(b.subs[sessionKey], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		channels := b.subs[sessionKey]
		for i, c := range channels {
			if c == ch {
				b.subs[sessionKey] = append(channels[:i], channels[i+1:]...)
				close(ch)
				break
			}
		}
		if len(b.subs[sessionKey]) == 0 {
			delete(b.subs, sessionKey)
		}
	}
	return ch, cancel
}

// Publish delivers evt to every subscriber of its session key. Slow
// subscribers drop events rather than blocking the pipeline. The read lock
// is held across the sends: a cancel closes channels under the write lock,
// so a send can never race a close.
func (b *Broadcaster) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[evt.SessionKey] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// EnableBroadcastEmitter installs an emitter that logs every event and fans
// it out through the broadcaster.
func EnableBroadcastEmitter(b *Broadcaster) {
	SetCustomEmitter(func(_ context.Context, name string, evt Event) {
		log.Printf("[%s] %s %s: %s", name, evt.Type, evt.Stage, evt.Message)
		b.Publish(evt)
	})
}
