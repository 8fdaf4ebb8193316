package utils

import (
	"time"
	_ "time/tzdata"
)

// OrderTimeLayout mengikuti format en-NZ yang dipakai di UI lama: "19/10/2026, 03:04:05 pm".
const OrderTimeLayout = "02/01/2006, 03:04:05 pm"

// Clock menghasilkan timestamp order dalam zona waktu dapur.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(timezone string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Clock{Location: loc, Now: time.Now}, nil
}

func (c *Clock) Stamp() string {
	return c.Now().In(c.Location).Format(OrderTimeLayout)
}

// Parse reads an order timestamp. Values that do not parse resolve to fallback
// (callers pass "now"), so legacy entries sort as freshest instead of failing.
func (c *Clock) Parse(value string, fallback time.Time) time.Time {
	if t, err := time.ParseInLocation(OrderTimeLayout, value, c.Location); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return fallback
}
