package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	t.Run("PublishReachesSubscribers", func(t *testing.T) {
		bus := NewEventBus()

		var seen []string
		bus.Subscribe(EventBookingConfirmed, func(ev *Event) error {
			seen = append(seen, ev.Type)
			return nil
		})
		bus.Subscribe(EventBookingConfirmed, func(ev *Event) error {
			seen = append(seen, ev.Type+"#2")
			return nil
		})

		bus.Publish(&Event{Type: EventBookingConfirmed})
		assert.Equal(t, []string{EventBookingConfirmed, EventBookingConfirmed + "#2"}, seen)
	})

	t.Run("UnsubscribedTypeIgnored", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe(EventPaymentFailed, func(ev *Event) error {
			called = true
			return nil
		})

		bus.Publish(&Event{Type: EventOrderCreated})
		assert.False(t, called)
	})

	t.Run("PublishJSON", func(t *testing.T) {
		bus := NewEventBus()

		var got BookingEventPayload
		bus.Subscribe(EventOrderCreated, func(ev *Event) error {
			return json.Unmarshal(ev.Payload, &got)
		})

		payload := BookingEventPayload{OrderID: "order_1", SalonID: 7, Amount: 50000}
		require.NoError(t, bus.PublishJSON(EventOrderCreated, payload))
		assert.Equal(t, payload, got)
	})

	t.Run("NilBusIsNoop", func(t *testing.T) {
		var bus *EventBus
		assert.NoError(t, bus.PublishJSON(EventOrderCreated, struct{}{}))
	})
}
