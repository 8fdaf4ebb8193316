package kds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/food-order-app/models"
)

func TestHubBroadcastReachesEverySubscriber(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("sse")
	b := hub.Subscribe("ws")
	assert.Equal(t, 2, hub.Count())

	hub.Broadcast(models.NewEvent(models.EventNewOrder, nil), models.NewEvent(models.EventOrdersCleared, nil))

	for _, sub := range []*Subscriber{a, b} {
		first := <-sub.Send
		second := <-sub.Send
		assert.Equal(t, models.EventNewOrder, first.Type)
		assert.Equal(t, models.EventOrdersCleared, second.Type)
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	hub.buffer = 1
	slow := hub.Subscribe("sse")

	hub.Broadcast(models.NewEvent(models.EventNewOrder, nil), models.NewEvent(models.EventNewOrder, nil))
	assert.Equal(t, 0, hub.Count())

	_, ok := <-slow.Send
	assert.True(t, ok, "buffered event is still readable")
	_, ok = <-slow.Send
	assert.False(t, ok, "channel closed after drop")
}

func TestHubUnsubscribeTwice(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("ws")
	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Count())
}
