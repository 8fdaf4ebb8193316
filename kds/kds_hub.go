package kds

import (
	"sync"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

const defaultBuffer = 64

// Subscriber satu koneksi push (SSE atau WebSocket) milik dashboard / halaman tracking.
type Subscriber struct {
	Kind string
	Send chan models.Event
}

// Hub menampung semua subscriber dan menyiarkan event ke mereka.
type Hub struct {
	clients map[*Subscriber]struct{}
	mutex   sync.Mutex
	buffer  int
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Subscriber]struct{}),
		buffer:  defaultBuffer,
	}
}

// Subscribe -> menambahkan subscriber baru
func (h *Hub) Subscribe(kind string) *Subscriber {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	sub := &Subscriber{Kind: kind, Send: make(chan models.Event, h.buffer)}
	h.clients[sub] = struct{}{}
	utils.InfoLogger.Debugf("Subscriber registered (%s). Total subscribers: %d", kind, len(h.clients))
	return sub
}

// Unsubscribe -> melepaskan subscriber; aman dipanggil lebih dari sekali
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(sub)
}

func (h *Hub) remove(sub *Subscriber) {
	if _, ok := h.clients[sub]; !ok {
		return
	}
	delete(h.clients, sub)
	close(sub.Send)
}

func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast delivers events to every subscriber. A subscriber whose buffer is
// full is dropped; its connection closes and the client reconnects.
func (h *Hub) Broadcast(events ...models.Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for sub := range h.clients {
		for _, event := range events {
			select {
			case sub.Send <- event:
			default:
				utils.ErrorLogger.Errorf("Subscriber (%s) too slow, dropping", sub.Kind)
				h.remove(sub)
			}
			if _, ok := h.clients[sub]; !ok {
				break
			}
		}
	}
}
