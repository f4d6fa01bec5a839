package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		bus := NewBus()
		first, unsubFirst := bus.Subscribe()
		defer unsubFirst()
		second, unsubSecond := bus.Subscribe()
		defer unsubSecond()

		bus.Publish(Event{ID: "1", Type: TypeCallSucceeded, Payload: Call{Resource: "File", Method: "GetByID"}})

		for _, ch := range []<-chan Event{first, second} {
			select {
			case e := <-ch:
				assert.Equal(t, "GetByID", e.Payload.Method)
			case <-time.After(time.Second):
				t.Fatal("event not delivered")
			}
		}
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		bus := NewBus()
		ch, unsubscribe := bus.Subscribe()
		unsubscribe()
		unsubscribe()

		_, open := <-ch
		assert.False(t, open)
	})

	t.Run("full subscriber drops instead of blocking", func(t *testing.T) {
		bus := NewBus()
		_, unsubscribe := bus.Subscribe()
		defer unsubscribe()

		for i := 0; i < subscriberBuffer+5; i++ {
			bus.Publish(Event{Type: TypeCallFailed})
		}
		assert.Equal(t, uint64(5), bus.Dropped())
	})

	t.Run("close", func(t *testing.T) {
		bus := NewBus()
		ch, unsubscribe := bus.Subscribe()
		bus.Close()
		unsubscribe()

		_, open := <-ch
		require.False(t, open)
		bus.Publish(Event{})
	})
}
