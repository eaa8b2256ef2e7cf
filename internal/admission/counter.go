package admission

import (
	"sync"

	"ticket-storefront/models"
)

const (
	DefaultMaxTickets       = 10
	DefaultAvailableTickets = 100
)

// Counter is the ticket quantity for a general-admission order. Count stays
// within [0, EffectiveMax].
type Counter struct {
	mu           sync.Mutex
	count        int
	effectiveMax int
}

// NewCounter bounds the count by min(maxTickets, remaining).
func NewCounter(maxTickets, remaining int) *Counter {
	return &Counter{effectiveMax: max(min(maxTickets, remaining), 0)}
}

type Limits struct {
	DefaultMaxTickets       int
	DefaultAvailableTickets int
}

func DefaultLimits() Limits {
	return Limits{
		DefaultMaxTickets:       DefaultMaxTickets,
		DefaultAvailableTickets: DefaultAvailableTickets,
	}
}

// Remaining is capacity minus sold when the event tracks capacity, otherwise
// the default available ticket count.
func (l Limits) Remaining(event models.Event, sold int) int {
	if event.CapacityMax != nil {
		return max(*event.CapacityMax-sold, 0)
	}
	return max(l.DefaultAvailableTickets-sold, 0)
}

func (l Limits) MaxTickets(event models.Event) int {
	if event.MaxTicketsPerPurchase != nil && *event.MaxTicketsPerPurchase > 0 {
		return *event.MaxTicketsPerPurchase
	}
	return l.DefaultMaxTickets
}

// CounterFor builds the counter for an event given the tickets sold so far.
func (l Limits) CounterFor(event models.Event, sold int) *Counter {
	return NewCounter(l.MaxTickets(event), l.Remaining(event, sold))
}

// CapacityFor reports the capacity status for an event.
func (l Limits) CapacityFor(event models.Event, sold int) Capacity {
	capacity := l.DefaultAvailableTickets
	if event.CapacityMax != nil {
		capacity = *event.CapacityMax
	}
	return Track(capacity, sold)
}

func (c *Counter) Increment() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count+1 > c.effectiveMax {
		return false
	}
	c.count++
	return true
}

func (c *Counter) Decrement() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count == 0 {
		return false
	}
	c.count--
	return true
}

// Set jumps straight to n, rejecting values outside [0, EffectiveMax].
func (c *Counter) Set(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 0 || n > c.effectiveMax {
		return false
	}
	c.count = n
	return true
}

func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Counter) EffectiveMax() int {
	return c.effectiveMax
}

func (c *Counter) SoldOut() bool {
	return c.effectiveMax == 0
}

func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
}
