package services

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yeremiapane/food-order-app/models"
)

// TelegramSink mengirim notifikasi order baru ke grup chat dapur.
type TelegramSink struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &TelegramSink{api: api, chatID: chatID}, nil
}

func (s *TelegramSink) Name() string {
	return "telegram"
}

func (s *TelegramSink) Publish(_ context.Context, event models.Event) error {
	text, ok := KitchenMessage(event)
	if !ok {
		return nil
	}
	_, err := s.api.Send(tgbotapi.NewMessage(s.chatID, text))
	return err
}

// KitchenMessage renders the chat text for events the kitchen cares about.
func KitchenMessage(event models.Event) (string, bool) {
	switch event.Type {
	case models.EventNewOrder:
		order, ok := event.Data.(models.Order)
		if !ok {
			return "", false
		}
		var b strings.Builder
		fmt.Fprintf(&b, "New order #%s\n%s\nRoom %s, %s", order.ID, order.Food, order.Room, order.Name)
		if order.Comments != "" {
			fmt.Fprintf(&b, "\nNote: %s", order.Comments)
		}
		return b.String(), true
	case models.EventKitchenStatusChanged:
		change, ok := event.Data.(models.KitchenChange)
		if !ok {
			return "", false
		}
		if change.IsOpen {
			return "Kitchen is now OPEN", true
		}
		return "Kitchen is now CLOSED", true
	}
	return "", false
}
