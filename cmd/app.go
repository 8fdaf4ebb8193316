package cmd

import (
	"fmt"
	"io"

	"github.com/yeremiapane/food-order-app/config"
	"github.com/yeremiapane/food-order-app/database"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

// app merangkai backend, notifier, dan repository dari satu Config.
type app struct {
	cfg      *config.Config
	backend  database.Backend
	notifier *services.Notifier
	orders   *services.OrderService
	closers  []io.Closer
}

func newApp(cfg *config.Config) (*app, error) {
	backend, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	clock, err := utils.NewClock(cfg.Timezone)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	a := &app{cfg: cfg, backend: backend}

	var sinks []services.Sink
	if cfg.AMQPURL != "" {
		sink, err := services.NewAMQPSink(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// broker opsional, server tetap jalan tanpa mirror
			utils.ErrorLogger.Errorf("AMQP sink disabled: %v", err)
		} else {
			sinks = append(sinks, sink)
			a.closers = append(a.closers, sink)
		}
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		sink, err := services.NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			utils.ErrorLogger.Errorf("Telegram sink disabled: %v", err)
		} else {
			sinks = append(sinks, sink)
		}
	}

	a.notifier = services.NewNotifier(backend, cfg.EventsKey, cfg.EventLogCap, cfg.EventLogTTL, sinks...)
	store := services.NewDocumentStore(backend, cfg.DocumentKey, cfg.DocumentTTL)

	a.orders = services.NewOrderService(store, a.notifier, clock)
	a.orders.CompletedCap = cfg.CompletedCap
	a.orders.EnforceKitchenOpen = cfg.EnforceKitchenOpen
	a.orders.EnforceStatusOrder = cfg.EnforceStatusOrder

	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			utils.ErrorLogger.Errorf("Error closing sink: %v", err)
		}
	}
	if err := a.backend.Close(); err != nil {
		utils.ErrorLogger.Errorf("Error closing backend: %v", err)
	}
}
