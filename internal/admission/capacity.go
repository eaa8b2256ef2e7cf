// Package admission covers general-admission events: the ticket quantity
// counter and the capacity status shown on the event page.
package admission

import (
	"fmt"
)

type CapacityStatus string

const (
	StatusSoldOut       CapacityStatus = "sold_out"
	StatusAlmostSoldOut CapacityStatus = "almost_sold_out"
	StatusAvailable     CapacityStatus = "available"
)

// AlmostSoldOutPercent is the inclusive cutoff for "selling fast".
const AlmostSoldOutPercent = 85

type Capacity struct {
	Capacity       int            `json:"capacity"`
	Sold           int            `json:"sold"`
	Remaining      int            `json:"remaining"`
	PercentageSold int            `json:"percentage_sold"`
	Status         CapacityStatus `json:"status"`
}

// Track derives the capacity status. Sold out wins over almost sold out.
func Track(capacity, sold int) Capacity {
	if sold < 0 {
		sold = 0
	}
	c := Capacity{
		Capacity:       capacity,
		Sold:           sold,
		Remaining:      max(capacity-sold, 0),
		PercentageSold: percentSold(capacity, sold),
	}

	switch {
	case sold >= capacity:
		c.Status = StatusSoldOut
	case c.PercentageSold >= AlmostSoldOutPercent:
		c.Status = StatusAlmostSoldOut
	default:
		c.Status = StatusAvailable
	}
	return c
}

// percentSold rounds half up, matching how the event page displays it.
func percentSold(capacity, sold int) int {
	if capacity <= 0 {
		return 100
	}
	return (sold*200 + capacity) / (2 * capacity)
}

func (c Capacity) Message() string {
	switch c.Status {
	case StatusSoldOut:
		return "SOLD OUT"
	case StatusAlmostSoldOut:
		return fmt.Sprintf("Selling Fast! Only %d %s remaining", c.Remaining, plural(c.Remaining))
	default:
		return fmt.Sprintf("%d Tickets Available", c.Remaining)
	}
}

func plural(n int) string {
	if n == 1 {
		return "ticket"
	}
	return "tickets"
}
