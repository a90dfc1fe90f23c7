// Package bus provides the in-process change-notification channel between
// the mutation surfaces and the views. Publishing is fire-and-forget:
// delivery to a subscriber that isn't draining its channel is dropped, and
// subscribers are expected to re-read state from the store rather than
// trust event payloads.
package bus

import "sync"

// Topics broadcast on state mutations.
const (
	TopicCategoriesUpdated   = "categoriesUpdated"
	TopicCurrencyChanged     = "currencyChanged"
	TopicDarkModeChanged     = "darkModeChanged"
	TopicFullReset           = "fullReset"
	TopicTransactionsUpdated = "transactionsUpdated"
	TopicGoalsUpdated        = "goalsUpdated"
)

// Event is a broadcast notification. Detail carries an optional hint (the
// dark-mode flag, the new currency code); subscribers must not depend on it
// for correctness.
type Event struct {
	Detail any
	Topic  string
}

// Bus fans events out to per-topic subscribers.
type Bus struct {
	subs map[string][]chan Event
	mu   sync.RWMutex
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]chan Event)}
}

// Subscribe registers interest in a topic. The returned cancel function
// removes the subscription and closes the channel.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		chans := b.subs[topic]
		for i, c := range chans {
			if c == ch {
				b.subs[topic] = append(chans[:i], chans[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber of its topic.
// Subscribers with full buffers miss the event.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[event.Topic] {
		select {
		case ch <- event:
		default:
		}
	}
}
