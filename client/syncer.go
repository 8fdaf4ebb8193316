package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

// Mode is how a Syncer learns about changes.
type Mode string

const (
	ModePush Mode = "push"
	ModePoll Mode = "poll"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient, user-visible message.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// State is everything a view needs to draw itself.
type State struct {
	View        View
	OrderID     string
	KitchenOpen bool
	Active      []models.Order
	Recent      []models.RecentOrder
	Tracked     *models.RecentOrder
	Deleted     bool
}

type Renderer interface {
	Render(state State)
	Notify(notice Notice)
}

// Syncer keeps one view up to date with the server.
type Syncer struct {
	API      *Client
	Renderer Renderer
	Mode     Mode

	// Visible dipakai mode poll; tick dilewati saat halaman tidak terlihat.
	Visible        func() bool
	// IntervalFor memilih jarak poll saat view berganti.
	IntervalFor    func(View) time.Duration
	Interval       time.Duration
	ReconnectDelay time.Duration

	state State
	mu    sync.Mutex
	reset chan struct{}
}

func NewSyncer(api *Client, renderer Renderer, view View, orderID string, mode Mode) *Syncer {
	return &Syncer{
		API:            api,
		Renderer:       renderer,
		Mode:           mode,
		Visible:        func() bool { return true },
		IntervalFor:    View.PollInterval,
		Interval:       view.PollInterval(),
		ReconnectDelay: time.Second,
		state:          State{View: view, OrderID: orderID},
		reset:          make(chan struct{}, 1),
	}
}

// State returns a copy of the current view state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Run fetches the initial state and then follows changes until ctx ends.
func (s *Syncer) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		s.report(err)
	}

	switch s.Mode {
	case ModePoll:
		s.pollLoop(ctx)
	default:
		s.pushLoop(ctx)
	}
	return ctx.Err()
}

func (s *Syncer) pushLoop(ctx context.Context) {
	for {
		err := s.API.Stream(ctx, func(event models.Event) {
			s.HandleEvents(ctx, event)
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			utils.ErrorLogger.WithField("view", s.State().View).Errorf("event stream failed: %v", err)
			if errors.Is(err, ErrRateLimited) {
				s.report(err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.ReconnectDelay):
		}

		// event yang terlewat selama reconnect tidak bisa diambil ulang
		if err := s.Refresh(ctx); err != nil {
			s.report(err)
		}
	}
}

func (s *Syncer) pollInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Interval
}

func (s *Syncer) pollLoop(ctx context.Context) {
	interval := s.pollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.reset:
			if next := s.pollInterval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		case <-ticker.C:
			s.PollOnce(ctx)
		}
	}
}

// PollOnce drains pending events and re-fetches the view unless it is hidden.
// It reports whether a request was made.
func (s *Syncer) PollOnce(ctx context.Context) bool {
	if s.Visible != nil && !s.Visible() {
		utils.InfoLogger.Debug("view hidden, skipping poll")
		return false
	}

	events, err := s.API.DrainEvents(ctx, 0)
	if err != nil {
		s.report(err)
		return true
	}
	if s.HandleEvents(ctx, events...) {
		return true
	}

	// log bisa sudah dikuras Dispatcher untuk subscriber push, jadi state tetap diambil ulang
	if err := s.Refresh(ctx); err != nil {
		s.report(err)
	}
	return true
}

// HandleEvents re-fetches the current view once if any event affects it. It
// reports whether the view was updated.
func (s *Syncer) HandleEvents(ctx context.Context, events ...models.Event) bool {
	state := s.State()
	refresh := false

	for _, event := range events {
		switch state.View {
		case ViewManager, ViewOrder:
			refresh = refresh || event.AffectsOrders() || event.Type == models.EventKitchenStatusChanged
		case ViewTracking:
			id := eventOrderID(event)
			if event.Type == models.EventOrderDeleted && id == state.OrderID {
				s.markDeleted()
				s.Renderer.Notify(Notice{Level: NoticeWarning, Message: "This order has been deleted by a manager."})
				return true
			}
			if event.Type == models.EventOrdersCleared || (id != "" && id == state.OrderID) {
				refresh = true
			}
		}

		if event.Type == models.EventKitchenStatusChanged && state.View != ViewTracking {
			if open, ok := kitchenOpenFrom(event); ok {
				s.Renderer.Notify(Notice{Level: NoticeInfo, Message: kitchenMessage(open)})
			}
		}
	}

	if !refresh {
		return false
	}
	if err := s.Refresh(ctx); err != nil {
		s.report(err)
	}
	return true
}

// Refresh fetches what the current view shows and renders it.
func (s *Syncer) Refresh(ctx context.Context) error {
	next := s.State()

	switch next.View {
	case ViewManager:
		active, err := s.API.ListActive(ctx)
		if err != nil {
			return err
		}
		recent, err := s.API.ListRecent(ctx)
		if err != nil {
			return err
		}
		open, err := s.API.KitchenStatus(ctx)
		if err != nil {
			return err
		}
		next.Active, next.Recent, next.KitchenOpen = active, recent, open

	case ViewTracking:
		order, err := s.API.Track(ctx, next.OrderID)
		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
			next.Tracked = nil
		case err != nil:
			return err
		default:
			next.Tracked = &order
			next.Deleted = false
		}

	default:
		open, err := s.API.KitchenStatus(ctx)
		if err != nil {
			return err
		}
		recent, err := s.API.ListRecent(ctx)
		if err != nil {
			return err
		}
		next.KitchenOpen, next.Recent = open, recent
	}

	s.mu.Lock()
	if s.state.View != next.View || s.state.OrderID != next.OrderID {
		// view berganti selama fetch, hasil ini sudah basi
		s.mu.Unlock()
		return nil
	}
	s.state = next
	s.mu.Unlock()

	s.Renderer.Render(next)
	return nil
}

// SubmitOrder creates an order and switches to its tracking view.
func (s *Syncer) SubmitOrder(ctx context.Context, input models.OrderInput) (models.Order, error) {
	order, err := s.API.CreateOrder(ctx, input)
	if err != nil {
		s.report(err)
		return models.Order{}, err
	}

	s.mu.Lock()
	s.state = State{View: ViewTracking, OrderID: order.ID}
	s.Interval = s.IntervalFor(ViewTracking)
	s.mu.Unlock()

	select {
	case s.reset <- struct{}{}:
	default:
	}

	s.Renderer.Notify(Notice{Level: NoticeInfo, Message: fmt.Sprintf("Order #%s placed", order.ID)})
	if err := s.Refresh(ctx); err != nil {
		s.report(err)
	}
	return order, nil
}

// UpdateStatus only changes local state after the server confirms.
func (s *Syncer) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	if _, err := s.API.UpdateStatus(ctx, id, status); err != nil {
		s.report(err)
		return err
	}
	return s.Refresh(ctx)
}

func (s *Syncer) DeleteOrder(ctx context.Context, id string) error {
	if err := s.API.DeleteOrder(ctx, id); err != nil {
		s.report(err)
		return err
	}
	return s.Refresh(ctx)
}

func (s *Syncer) ClearActive(ctx context.Context) error {
	if _, err := s.API.ClearActive(ctx); err != nil {
		s.report(err)
		return err
	}
	return s.Refresh(ctx)
}

// ToggleKitchen flips the kitchen immediately and rolls back if the server refuses.
func (s *Syncer) ToggleKitchen(ctx context.Context) error {
	s.mu.Lock()
	previous := s.state.KitchenOpen
	s.state.KitchenOpen = !previous
	optimistic := s.state
	s.mu.Unlock()
	s.Renderer.Render(optimistic)

	if _, err := s.API.SetKitchenStatus(ctx, !previous); err != nil {
		s.mu.Lock()
		s.state.KitchenOpen = previous
		rolledBack := s.state
		s.mu.Unlock()

		s.Renderer.Render(rolledBack)
		s.Renderer.Notify(Notice{Level: NoticeError, Message: "Failed to update kitchen status"})
		return err
	}
	return nil
}

func (s *Syncer) markDeleted() {
	s.mu.Lock()
	s.state.Tracked = nil
	s.state.Deleted = true
	state := s.state
	s.mu.Unlock()
	s.Renderer.Render(state)
}

// report turns a failed request into a notice; rate limiting is only a warning.
func (s *Syncer) report(err error) {
	level := NoticeError
	if errors.Is(err, ErrRateLimited) {
		level = NoticeWarning
	}
	utils.ErrorLogger.WithFields(logrus.Fields{"view": s.State().View, "level": level}).Error(err)
	s.Renderer.Notify(Notice{Level: level, Message: err.Error()})
}

func eventOrderID(event models.Event) string {
	data, ok := event.Data.(map[string]interface{})
	if !ok {
		return ""
	}
	for _, key := range []string{"orderId", "id"} {
		if id, ok := data[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

func kitchenOpenFrom(event models.Event) (bool, bool) {
	data, ok := event.Data.(map[string]interface{})
	if !ok {
		return false, false
	}
	open, ok := data["isOpen"].(bool)
	return open, ok
}

func kitchenMessage(open bool) string {
	if open {
		return "Kitchen opened!"
	}
	return "Kitchen closed!"
}
