package models

import (
	"fmt"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusAccepted       Status = "accepted"
	StatusBeingMade      Status = "being-made"
	StatusBeingDelivered Status = "being-delivered"
	StatusCompleted      Status = "completed"
)

// statusRank urutan lifecycle order, dipakai untuk menolak transisi mundur
var statusRank = map[Status]int{
	StatusPending:        0,
	StatusAccepted:       1,
	StatusBeingMade:      2,
	StatusBeingDelivered: 3,
	StatusCompleted:      4,
}

// Valid reports whether s is one of the canonical lifecycle states.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Before reports whether s comes strictly earlier in the lifecycle than other.
func (s Status) Before(other Status) bool {
	return statusRank[s] < statusRank[other]
}

type Order struct {
	ID          string `json:"id"`
	Food        string `json:"food"`
	Room        string `json:"room"`
	Name        string `json:"name"`
	Comments    string `json:"comments"`
	Timestamp   string `json:"timestamp"`
	Status      Status `json:"status"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// RecentOrder -> order yang ditandai aktif / selesai untuk tampilan "recent orders"
type RecentOrder struct {
	Order
	IsActive bool `json:"isActive"`
}

// OrderInput field yang boleh dikirim customer saat membuat order
type OrderInput struct {
	Food     string `json:"food"`
	Room     string `json:"room"`
	Name     string `json:"name"`
	Comments string `json:"comments"`
}

// StatusUpdate hanya menyebut field yang boleh diubah manager.
type StatusUpdate struct {
	Status      Status `json:"status"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// FormatOrderID renders the counter as a zero-padded id ("007").
func FormatOrderID(n int) string {
	return fmt.Sprintf("%03d", n)
}
