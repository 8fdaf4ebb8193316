package models

import (
	"encoding/json"
	"math"
)

// Document adalah satu-satunya state bersama: semua order aktif, order selesai,
// status dapur dan counter id berikutnya.
type Document struct {
	Orders          []Order `json:"orders"`
	CompletedOrders []Order `json:"completedOrders"`
	KitchenOpen     bool    `json:"kitchenOpen"`
	NextOrderID     int     `json:"nextOrderId"`
}

func NewDocument() Document {
	return Document{
		Orders:          []Order{},
		CompletedOrders: []Order{},
		KitchenOpen:     false,
		NextOrderID:     1,
	}
}

// DecodeDocument parses a stored document leniently. Unknown fields are dropped,
// wrong-typed fields fall back to their defaults and malformed order entries are
// skipped. ok is false only when raw is not a JSON object at all.
func DecodeDocument(raw []byte) (doc Document, ok bool) {
	doc = NewDocument()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return doc, false
	}

	doc.Orders = decodeOrders(fields["orders"])
	doc.CompletedOrders = decodeOrders(fields["completedOrders"])

	if v, found := fields["kitchenOpen"]; found {
		var open bool
		if err := json.Unmarshal(v, &open); err == nil {
			doc.KitchenOpen = open
		}
	}

	if v, found := fields["nextOrderId"]; found {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil && n >= 1 && n <= math.MaxInt32 {
			doc.NextOrderID = int(n)
		}
	}

	return doc, true
}

func decodeOrders(raw json.RawMessage) []Order {
	orders := []Order{}
	if len(raw) == 0 {
		return orders
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return orders
	}

	for _, item := range items {
		var o Order
		if err := json.Unmarshal(item, &o); err != nil || o.ID == "" {
			continue
		}
		if o.Status == "" {
			o.Status = StatusPending
		}
		orders = append(orders, o)
	}
	return orders
}

// FindActive returns the index of the active order with the given id, or -1.
func (d *Document) FindActive(id string) int {
	for i, o := range d.Orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// ArchiveCompleted menambahkan order ke completedOrders lalu memotong ke cap terakhir.
func (d *Document) ArchiveCompleted(limit int, orders ...Order) {
	d.CompletedOrders = append(d.CompletedOrders, orders...)
	if limit > 0 && len(d.CompletedOrders) > limit {
		d.CompletedOrders = append([]Order(nil), d.CompletedOrders[len(d.CompletedOrders)-limit:]...)
	}
}
