package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/talkboard-dev/talkboard/internal/domain"
	"github.com/talkboard-dev/talkboard/internal/logger"
)

var (
	eventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talkboard",
			Name:      "content_events_emitted_total",
			Help:      "Total number of content events emitted",
		},
		[]string{"kind"},
	)
	eventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "talkboard",
			Name:      "content_events_dropped_total",
			Help:      "Events dropped because a subscriber was slow",
		},
	)
)

// EventEmitter is the boundary the content services announce creations to.
// Fire-and-forget: the core never blocks on, retries, or rolls back based on
// delivery outcome.
type EventEmitter interface {
	Emit(kind domain.EventKind, payload any)
}

// Bus is an in-process EventEmitter fanning out to subscribers over buffered
// channels. A subscriber that cannot keep up loses events; delivery is
// at-most-once and reliability belongs to the external transport.
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]chan domain.Event
	nextSub int
	buffer  int
}

func NewBus(buffer int) *Bus {
	return &Bus{subs: make(map[int]chan domain.Event), buffer: buffer}
}

func (b *Bus) Emit(kind domain.EventKind, payload any) {
	event := domain.Event{
		Id:        uuid.NewString(),
		Kind:      kind,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	eventsEmitted.WithLabelValues(string(kind)).Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			eventsDropped.Inc()
			logger.Log.Warn("event dropped, slow subscriber", "kind", kind, "id", event.Id)
		}
	}
}

// Subscribe registers a new consumer. The returned cancel func must be called
// when the consumer goes away.
func (b *Bus) Subscribe() (<-chan domain.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	ch := make(chan domain.Event, b.buffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}
