package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/food-order-app/database"
	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

const DefaultDrainSize = 10

// Sink menerima salinan setiap event (broker, chat dapur, dsb).
type Sink interface {
	Name() string
	Publish(ctx context.Context, event models.Event) error
}

// Notifier menulis event lifecycle ke log terbatas di backend.
type Notifier struct {
	Backend database.Backend
	Stream  string
	Cap     int
	TTL     time.Duration
	Sinks   []Sink

	SinkTimeout time.Duration
}

func NewNotifier(backend database.Backend, stream string, capacity int, ttl time.Duration, sinks ...Sink) *Notifier {
	return &Notifier{
		Backend:     backend,
		Stream:      stream,
		Cap:         capacity,
		TTL:         ttl,
		Sinks:       sinks,
		SinkTimeout: 5 * time.Second,
	}
}

// Append records an event. Failures are logged and swallowed so the mutation
// that triggered the event is never failed by it.
func (n *Notifier) Append(ctx context.Context, eventType models.EventType, data interface{}) models.Event {
	event := models.NewEvent(eventType, data)
	log := utils.ErrorLogger.WithFields(logrus.Fields{"event_type": eventType, "event_id": event.ID})

	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("failed to encode event: %v", err)
		return event
	}

	if err := n.Backend.PushEvent(ctx, n.Stream, payload, n.Cap, n.TTL); err != nil {
		log.Errorf("failed to append event: %v", err)
	} else {
		utils.InfoLogger.WithField("event_type", eventType).Debug("event appended")
	}

	if len(n.Sinks) > 0 {
		go n.publish(context.WithoutCancel(ctx), event)
	}
	return event
}

func (n *Notifier) publish(ctx context.Context, event models.Event) {
	ctx, cancel := context.WithTimeout(ctx, n.SinkTimeout)
	defer cancel()

	for _, sink := range n.Sinks {
		if err := sink.Publish(ctx, event); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"sink":       sink.Name(),
				"event_type": event.Type,
			}).Errorf("sink publish failed: %v", err)
		}
	}
}

// Drain returns up to max of the most recent events, oldest first, and clears
// the log. Concurrent drains split the events between them.
func (n *Notifier) Drain(ctx context.Context, max int) ([]models.Event, error) {
	if max <= 0 {
		max = DefaultDrainSize
	}

	payloads, err := n.Backend.PopEvents(ctx, n.Stream, max, n.TTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	events := make([]models.Event, 0, len(payloads))
	for i := len(payloads) - 1; i >= 0; i-- {
		var event models.Event
		if err := json.Unmarshal(payloads[i], &event); err != nil {
			utils.ErrorLogger.Errorf("failed to parse event: %v", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
