package services

import (
	"context"
	"time"

	"github.com/yeremiapane/food-order-app/kds"
	"github.com/yeremiapane/food-order-app/utils"
)

// Dispatcher mengosongkan event log secara berkala dan menyiarkannya lewat hub.
// Log hanya dikuras selama ada subscriber push. Event yang diambil di sini tidak
// lagi terlihat oleh /api/events/poll, jadi client mode poll mengambil ulang
// state setiap tick alih-alih bergantung pada event.
type Dispatcher struct {
	Notifier  *Notifier
	Hub       *kds.Hub
	Interval  time.Duration
	BatchSize int
	StopChan  chan struct{}
}

func NewDispatcher(notifier *Notifier, hub *kds.Hub, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		Notifier:  notifier,
		Hub:       hub,
		Interval:  interval,
		BatchSize: DefaultDrainSize,
		StopChan:  make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go func() {
		ticker := time.NewTicker(d.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.DispatchOnce(context.Background())
			case <-d.StopChan:
				return
			}
		}
	}()
}

func (d *Dispatcher) Stop() {
	close(d.StopChan)
}

// DispatchOnce drains one batch and broadcasts it; it returns how many events
// were delivered.
func (d *Dispatcher) DispatchOnce(ctx context.Context) int {
	if d.Hub.Count() == 0 {
		return 0
	}

	events, err := d.Notifier.Drain(ctx, d.BatchSize)
	if err != nil {
		utils.ErrorLogger.Errorf("Error draining events: %v", err)
		return 0
	}
	if len(events) == 0 {
		return 0
	}

	d.Hub.Broadcast(events...)
	utils.InfoLogger.Debugf("Dispatched %d events to %d subscribers", len(events), d.Hub.Count())
	return len(events)
}
