package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/food-order-app/database"
	"github.com/yeremiapane/food-order-app/kds"
	"github.com/yeremiapane/food-order-app/models"
)

// brokenBackend gagal di setiap operasi, untuk menguji jalur error.
type brokenBackend struct {
	database.Backend
	readErr  error
	writeErr error
	raw      []byte
	writes   int
}

func (b *brokenBackend) ReadDocument(ctx context.Context, key string) ([]byte, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	return b.raw, nil
}

func (b *brokenBackend) WriteDocument(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.writes++
	return b.writeErr
}

func (b *brokenBackend) PushEvent(ctx context.Context, stream string, payload []byte, limit int, ttl time.Duration) error {
	return errors.New("event log down")
}

func (b *brokenBackend) PopEvents(ctx context.Context, stream string, max int, ttl time.Duration) ([][]byte, error) {
	return nil, errors.New("event log down")
}

type recordingSink struct {
	got chan models.Event
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Publish(ctx context.Context, event models.Event) error {
	s.got <- event
	return nil
}

func TestDocumentStoreLoadDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("read failure returns defaults without writing", func(t *testing.T) {
		b := &brokenBackend{readErr: errors.New("timeout")}
		doc := NewDocumentStore(b, "doc", 0).Load(ctx)
		assert.Equal(t, models.NewDocument(), doc)
		assert.Zero(t, b.writes)
	})

	t.Run("absent document is initialised", func(t *testing.T) {
		b := &brokenBackend{readErr: database.ErrNotFound}
		doc := NewDocumentStore(b, "doc", 0).Load(ctx)
		assert.Equal(t, 1, doc.NextOrderID)
		assert.Equal(t, 1, b.writes)
	})

	t.Run("malformed document is reset", func(t *testing.T) {
		b := &brokenBackend{raw: []byte("not json")}
		doc := NewDocumentStore(b, "doc", 0).Load(ctx)
		assert.False(t, doc.KitchenOpen)
		assert.Equal(t, 1, b.writes)
	})
}

func TestSaveFailurePropagates(t *testing.T) {
	b := &brokenBackend{raw: []byte(`{"orders":[],"nextOrderId":5}`), writeErr: errors.New("disk full")}
	svc, _, _ := setupOrderService(t)
	svc.Store = NewDocumentStore(b, "doc", 0)
	svc.Notifier = NewNotifier(b, "events", 100, time.Minute)

	_, err := svc.Create(context.Background(), models.OrderInput{Food: "Toast", Room: "1", Name: "A"})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAppendFailureDoesNotFailMutation(t *testing.T) {
	svc, _, _ := setupOrderService(t)
	svc.Notifier = NewNotifier(&brokenBackend{}, "events", 100, time.Minute)

	order, err := svc.Create(context.Background(), models.OrderInput{Food: "Toast", Room: "1", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "001", order.ID)
}

func TestDrainIsChronologicalAndClears(t *testing.T) {
	backend := setupTestBackend(t)
	n := NewNotifier(backend, "events", 100, time.Minute)
	ctx := context.Background()

	n.Append(ctx, models.EventNewOrder, map[string]string{"id": "001"})
	n.Append(ctx, models.EventOrderDeleted, map[string]string{"id": "001"})

	events, err := n.Drain(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventNewOrder, events[0].Type)
	assert.Equal(t, models.EventOrderDeleted, events[1].Type)
	assert.NotEmpty(t, events[0].ID)
	assert.NotEmpty(t, events[0].Timestamp)

	again, err := n.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	_, err = NewNotifier(&brokenBackend{}, "events", 100, time.Minute).Drain(ctx, 10)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAppendPublishesToSinks(t *testing.T) {
	sink := &recordingSink{got: make(chan models.Event, 1)}
	n := NewNotifier(setupTestBackend(t), "events", 100, time.Minute, sink)

	sent := n.Append(context.Background(), models.EventNewOrder, models.Order{ID: "001"})

	select {
	case got := <-sink.got:
		assert.Equal(t, sent.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("sink never received the event")
	}
}

func TestKitchenMessage(t *testing.T) {
	text, ok := KitchenMessage(models.NewEvent(models.EventNewOrder, models.Order{
		ID: "007", Food: "Toast (Jam)", Room: "12", Name: "Alice", Comments: "no butter",
	}))
	require.True(t, ok)
	assert.Contains(t, text, "#007")
	assert.Contains(t, text, "Room 12, Alice")
	assert.Contains(t, text, "Note: no butter")

	text, ok = KitchenMessage(models.NewEvent(models.EventKitchenStatusChanged, models.KitchenChange{IsOpen: true}))
	require.True(t, ok)
	assert.Equal(t, "Kitchen is now OPEN", text)

	_, ok = KitchenMessage(models.NewEvent(models.EventOrdersCleared, nil))
	assert.False(t, ok)
	assert.Equal(t, "orders.new_order", RoutingKey(models.EventNewOrder))
}

func TestDispatcherOnlyDrainsWithSubscribers(t *testing.T) {
	backend := setupTestBackend(t)
	n := NewNotifier(backend, "events", 100, time.Minute)
	hub := kds.NewHub()
	d := NewDispatcher(n, hub, time.Second)
	ctx := context.Background()

	n.Append(ctx, models.EventNewOrder, nil)
	assert.Zero(t, d.DispatchOnce(ctx))

	sub := hub.Subscribe("test")
	assert.Equal(t, 1, d.DispatchOnce(ctx))
	got := <-sub.Send
	assert.Equal(t, models.EventNewOrder, got.Type)

	assert.Zero(t, d.DispatchOnce(ctx))
}
