package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

const DefaultRecentLimit = 10

// OrderService menjalankan lifecycle order di atas DocumentStore. Setiap operasi
// adalah load -> mutate -> save; penulisan di-serialisasi dalam satu proses.
type OrderService struct {
	Store    *DocumentStore
	Notifier *Notifier
	Clock    *utils.Clock

	CompletedCap       int
	EnforceKitchenOpen bool
	EnforceStatusOrder bool

	mu sync.Mutex
}

func NewOrderService(store *DocumentStore, notifier *Notifier, clock *utils.Clock) *OrderService {
	return &OrderService{
		Store:              store,
		Notifier:           notifier,
		Clock:              clock,
		CompletedCap:       50,
		EnforceStatusOrder: true,
	}
}

// ListActive -> semua order aktif sesuai urutan masuk
func (s *OrderService) ListActive(ctx context.Context) []models.Order {
	return s.Store.Load(ctx).Orders
}

// ListRecent merges active and completed orders, newest timestamp first.
func (s *OrderService) ListRecent(ctx context.Context, limit int) []models.RecentOrder {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	doc := s.Store.Load(ctx)

	recent := make([]models.RecentOrder, 0, len(doc.Orders)+len(doc.CompletedOrders))
	for _, o := range doc.Orders {
		recent = append(recent, models.RecentOrder{Order: o, IsActive: true})
	}
	for _, o := range doc.CompletedOrders {
		recent = append(recent, models.RecentOrder{Order: o, IsActive: false})
	}

	now := s.Clock.Now()
	sort.SliceStable(recent, func(i, j int) bool {
		return s.Clock.Parse(recent[i].Timestamp, now).After(s.Clock.Parse(recent[j].Timestamp, now))
	})

	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// Find looks an order up in the active list first, then in the completed list.
func (s *OrderService) Find(ctx context.Context, id string) (models.RecentOrder, error) {
	doc := s.Store.Load(ctx)
	if i := doc.FindActive(id); i >= 0 {
		return models.RecentOrder{Order: doc.Orders[i], IsActive: true}, nil
	}
	for i := len(doc.CompletedOrders) - 1; i >= 0; i-- {
		if doc.CompletedOrders[i].ID == id {
			return models.RecentOrder{Order: doc.CompletedOrders[i], IsActive: false}, nil
		}
	}
	return models.RecentOrder{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *OrderService) KitchenOpen(ctx context.Context) bool {
	return s.Store.Load(ctx).KitchenOpen
}

// Create -> validasi input, beri id dari nextOrderId, status "pending"
func (s *OrderService) Create(ctx context.Context, in models.OrderInput) (models.Order, error) {
	in.Food = strings.TrimSpace(in.Food)
	in.Room = strings.TrimSpace(in.Room)
	in.Name = strings.TrimSpace(in.Name)

	var missing []string
	if in.Food == "" {
		missing = append(missing, "food")
	}
	if in.Room == "" {
		missing = append(missing, "room")
	}
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return models.Order{}, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.Store.Load(ctx)
	if s.EnforceKitchenOpen && !doc.KitchenOpen {
		return models.Order{}, ErrKitchenClosed
	}

	order := models.Order{
		ID:        models.FormatOrderID(doc.NextOrderID),
		Food:      in.Food,
		Room:      in.Room,
		Name:      in.Name,
		Comments:  strings.TrimSpace(in.Comments),
		Timestamp: s.Clock.Stamp(),
		Status:    models.StatusPending,
	}
	doc.NextOrderID++
	doc.Orders = append(doc.Orders, order)

	if err := s.Store.Save(ctx, doc); err != nil {
		return models.Order{}, err
	}

	s.Notifier.Append(ctx, models.EventNewOrder, order)
	return order, nil
}

// UpdateStatus applies a manager status change. Reaching "completed" moves the
// order into the capped completed list.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (models.Order, error) {
	if !upd.Status.Valid() {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, upd.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.Store.Load(ctx)
	idx := doc.FindActive(id)
	if idx < 0 {
		return models.Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	order := doc.Orders[idx]
	previous := order.Status
	if s.EnforceStatusOrder && upd.Status.Before(previous) {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, upd.Status)
	}

	order.Status = upd.Status
	if upd.Status == models.StatusCompleted {
		order.CompletedAt = strings.TrimSpace(upd.CompletedAt)
		if order.CompletedAt == "" {
			order.CompletedAt = s.Clock.Stamp()
		}
		doc.Orders = append(doc.Orders[:idx], doc.Orders[idx+1:]...)
		doc.ArchiveCompleted(s.CompletedCap, order)
	} else {
		doc.Orders[idx] = order
	}

	if err := s.Store.Save(ctx, doc); err != nil {
		return models.Order{}, err
	}

	s.Notifier.Append(ctx, models.EventOrderStatusUpdated, models.StatusChange{
		Order:          order,
		OrderID:        order.ID,
		PreviousStatus: previous,
		Status:         order.Status,
	})
	return order, nil
}

// Delete menghapus order aktif secara permanen, tidak diarsipkan.
func (s *OrderService) Delete(ctx context.Context, id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.Store.Load(ctx)
	idx := doc.FindActive(id)
	if idx < 0 {
		return models.Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	order := doc.Orders[idx]
	doc.Orders = append(doc.Orders[:idx], doc.Orders[idx+1:]...)

	if err := s.Store.Save(ctx, doc); err != nil {
		return models.Order{}, err
	}

	s.Notifier.Append(ctx, models.EventOrderDeleted, map[string]interface{}{
		"orderId": order.ID,
		"order":   order,
	})
	return order, nil
}

// ClearActive completes every active order at once and returns how many moved.
func (s *OrderService) ClearActive(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.Store.Load(ctx)
	count := len(doc.Orders)
	if count == 0 {
		return 0, nil
	}

	stamp := s.Clock.Stamp()
	moved := make([]models.Order, 0, count)
	for _, o := range doc.Orders {
		o.Status = models.StatusCompleted
		o.CompletedAt = stamp
		moved = append(moved, o)
	}
	doc.Orders = []models.Order{}
	doc.ArchiveCompleted(s.CompletedCap, moved...)

	if err := s.Store.Save(ctx, doc); err != nil {
		return 0, err
	}

	s.Notifier.Append(ctx, models.EventOrdersCleared, map[string]interface{}{"count": count})
	return count, nil
}

// SetKitchenOpen menyimpan status dapur; event hanya dikirim jika nilainya berubah.
func (s *OrderService) SetKitchenOpen(ctx context.Context, open bool) (isOpen bool, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.Store.Load(ctx)
	previous := doc.KitchenOpen
	if previous == open {
		return open, false, nil
	}

	doc.KitchenOpen = open
	if err := s.Store.Save(ctx, doc); err != nil {
		return previous, false, err
	}

	s.Notifier.Append(ctx, models.EventKitchenStatusChanged, models.KitchenChange{
		IsOpen:         open,
		PreviousStatus: previous,
	})
	return open, true, nil
}
