package pipeline

import (
	"sync"
	"time"
)

// EventType identifies the kind of pipeline event.
type EventType string

const (
	EventStageStarted       EventType = "stage.started"
	EventStageCompleted     EventType = "stage.completed"
	EventStageFailed        EventType = "stage.failed"
	EventSanitizeCorrection EventType = "sanitize.correction"
	EventRepairFallback     EventType = "repair.fallback"
	EventRenderCompleted    EventType = "render.completed"
	EventRenderFailed       EventType = "render.failed"
	EventJobCompleted       EventType = "job.completed"
	EventJobFailed          EventType = "job.failed"
)

// Event is a single event published through the bus.
type Event struct {
	Type      EventType `json:"type"`
	JobID     string    `json:"job_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// EventBus is a simple pub/sub bus for pipeline progress events.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan Event
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe returns a channel that receives events.
func (eb *EventBus) Subscribe() chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	ch := make(chan Event, 100)
	eb.subscribers = append(eb.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber channel.
func (eb *EventBus) Unsubscribe(ch chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish sends an event to all subscribers without blocking; slow
// subscribers drop events.
func (eb *EventBus) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}
