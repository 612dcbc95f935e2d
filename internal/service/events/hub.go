package events

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
	"github.com/oshokin/zone-alarm/internal/logger"
)

// DefaultBufferSize is the per-subscriber queue length.
const DefaultBufferSize = 32

// Hub fans output signals out to subscribers.
// A subscriber that cannot keep up is unsubscribed and its channel closed.
type Hub struct {
	// subscribers maps each live channel to its context for logging.
	subscribers map[chan Event]context.Context
	// bufferSize is the capacity of each subscriber channel.
	bufferSize int
	// now stamps published events.
	now func() time.Time
	// mu protects subscribers.
	mu sync.Mutex
}

// NewHub creates a hub with the given per-subscriber buffer.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &Hub{
		subscribers: make(map[chan Event]context.Context),
		bufferSize:  bufferSize,
		now:         time.Now,
	}
}

// Subscribe registers a subscriber until ctx is done.
// The returned channel is closed on unsubscription.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, h.bufferSize)

	h.mu.Lock()
	h.subscribers[ch] = ctx
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.unsubscribe(ch)
	}()

	return ch
}

// Publish delivers e to every subscriber without blocking.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = h.now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ch, ctx := range h.subscribers {
		select {
		case ch <- e:
		default:
			logger.WarnKV(ctx, "Dropping slow event subscriber", "event", string(e.Kind))
			delete(h.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}

// DisplayChanged publishes a new buffer rendering.
func (h *Hub) DisplayChanged(display string) {
	h.Publish(Event{Kind: KindDisplayChanged, Display: display})
}

// ValidationError publishes a commit rejection message.
func (h *Hub) ValidationError(message string) {
	h.Publish(Event{Kind: KindValidationError, Message: message})
}

// AlarmSet publishes a committed alarm.
func (h *Hub) AlarmSet(z zone.Zone, t alarm.Time, overwrite bool) {
	h.Publish(Event{Kind: KindAlarmSet, Zone: z, Time: t, Overwrite: overwrite})
}

// AlarmFired publishes that p is due.
func (h *Hub) AlarmFired(p *alarm.Pending) {
	h.Publish(Event{Kind: KindAlarmFired, Zone: p.Zone, Time: p.At})
}

// AlarmCleared publishes that the pending alarm was removed.
func (h *Hub) AlarmCleared() {
	h.Publish(Event{Kind: KindAlarmCleared})
}

// unsubscribe removes ch if it is still registered.
func (h *Hub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[ch]; !ok {
		return
	}

	delete(h.subscribers, ch)
	close(ch)
}
