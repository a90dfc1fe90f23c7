package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	t.Run("subscriber receives its topic", func(t *testing.T) {
		b := New()
		ch, cancel := b.Subscribe(TopicCurrencyChanged)
		defer cancel()

		b.Publish(Event{Topic: TopicCurrencyChanged, Detail: "EUR"})

		event := <-ch
		assert.Equal(t, TopicCurrencyChanged, event.Topic)
		assert.Equal(t, "EUR", event.Detail)
	})

	t.Run("other topics are not delivered", func(t *testing.T) {
		b := New()
		ch, cancel := b.Subscribe(TopicCurrencyChanged)
		defer cancel()

		b.Publish(Event{Topic: TopicDarkModeChanged})

		select {
		case event := <-ch:
			t.Fatalf("unexpected event: %+v", event)
		default:
		}
	})

	t.Run("fan-out reaches every subscriber", func(t *testing.T) {
		b := New()
		first, cancelFirst := b.Subscribe(TopicFullReset)
		defer cancelFirst()
		second, cancelSecond := b.Subscribe(TopicFullReset)
		defer cancelSecond()

		b.Publish(Event{Topic: TopicFullReset})

		assert.Equal(t, TopicFullReset, (<-first).Topic)
		assert.Equal(t, TopicFullReset, (<-second).Topic)
	})

	t.Run("publish without subscribers does not block", func(t *testing.T) {
		b := New()
		b.Publish(Event{Topic: TopicGoalsUpdated})
	})

	t.Run("full buffer drops instead of blocking", func(t *testing.T) {
		b := New()
		ch, cancel := b.Subscribe(TopicTransactionsUpdated)
		defer cancel()

		// Overrun the buffer; the extra events are dropped silently.
		for range 20 {
			b.Publish(Event{Topic: TopicTransactionsUpdated})
		}
		assert.Len(t, ch, cap(ch))
	})

	t.Run("cancel closes the channel", func(t *testing.T) {
		b := New()
		ch, cancel := b.Subscribe(TopicGoalsUpdated)
		cancel()

		_, open := <-ch
		require.False(t, open)

		// Publishing after cancel reaches nobody.
		b.Publish(Event{Topic: TopicGoalsUpdated})
	})
}
