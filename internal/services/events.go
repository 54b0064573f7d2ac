package services

import (
	"sync"
	"time"
)

// EventType names a live session event.
type EventType string

const (
	EventPresetLoaded     EventType = "preset_loaded"
	EventPresetReloaded   EventType = "preset_reloaded"
	EventOverridesApplied EventType = "overrides_applied"
	EventPresetScaffolded EventType = "preset_scaffolded"
	EventSessionReset     EventType = "session_reset"
)

// Event is broadcast to subscribers after a state change.
type Event struct {
	Type      EventType   `json:"type"`
	PresetID  string      `json:"presetId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// subscriberBuffer is the per-subscriber queue depth. Events beyond it are
// dropped for that subscriber.
const subscriberBuffer = 32

// broker fans events out to subscribers without ever blocking the publisher.
type broker struct {
	mutex       sync.Mutex
	subscribers map[int]chan Event
	next        int
}

func newBroker() *broker {
	return &broker{subscribers: make(map[int]chan Event)}
}

func (b *broker) subscribe() (<-chan Event, func()) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mutex.Lock()
			defer b.mutex.Unlock()
			delete(b.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish returns how many subscribers missed the event.
func (b *broker) publish(event Event) int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	dropped := 0
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			dropped++
		}
	}
	return dropped
}
