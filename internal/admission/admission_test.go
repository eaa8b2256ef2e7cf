package admission

import (
	"testing"

	"ticket-storefront/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestTrack(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		sold      int
		status    CapacityStatus
		percent   int
		remaining int
		message   string
	}{
		{"empty", 100, 0, StatusAvailable, 0, 100, "100 Tickets Available"},
		{"just under cutoff", 100, 84, StatusAvailable, 84, 16, "16 Tickets Available"},
		{"exact cutoff", 100, 85, StatusAlmostSoldOut, 85, 15, "Selling Fast! Only 15 tickets remaining"},
		{"rounds up into cutoff", 200, 169, StatusAlmostSoldOut, 85, 31, "Selling Fast! Only 31 tickets remaining"},
		{"one left", 100, 99, StatusAlmostSoldOut, 99, 1, "Selling Fast! Only 1 ticket remaining"},
		{"sold out", 100, 100, StatusSoldOut, 100, 0, "SOLD OUT"},
		{"oversold", 100, 120, StatusSoldOut, 120, 0, "SOLD OUT"},
		{"zero capacity", 0, 0, StatusSoldOut, 100, 0, "SOLD OUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Track(tt.capacity, tt.sold)
			assert.Equal(t, tt.status, c.Status)
			assert.Equal(t, tt.percent, c.PercentageSold)
			assert.Equal(t, tt.remaining, c.Remaining)
			assert.Equal(t, tt.message, c.Message())
		})
	}
}

func TestCounter_Bounds(t *testing.T) {
	c := NewCounter(3, 50)
	assert.Equal(t, 3, c.EffectiveMax())

	assert.False(t, c.Decrement(), "decrement at zero is a no-op")
	assert.True(t, c.Increment())
	assert.True(t, c.Increment())
	assert.True(t, c.Increment())
	assert.False(t, c.Increment(), "increment at max is a no-op")
	assert.Equal(t, 3, c.Count())

	assert.True(t, c.Decrement())
	assert.Equal(t, 2, c.Count())
}

func TestCounter_CapacityBinds(t *testing.T) {
	c := NewCounter(10, 2)
	assert.Equal(t, 2, c.EffectiveMax())

	c.Increment()
	c.Increment()
	assert.False(t, c.Increment())
}

func TestCounter_SoldOut(t *testing.T) {
	c := NewCounter(10, -5)
	assert.True(t, c.SoldOut())
	assert.False(t, c.Increment())
	assert.Equal(t, 0, c.Count())
}

func TestCounter_Set(t *testing.T) {
	c := NewCounter(4, 100)
	assert.True(t, c.Set(4))
	assert.False(t, c.Set(5))
	assert.False(t, c.Set(-1))
	assert.Equal(t, 4, c.Count())

	c.Reset()
	assert.Equal(t, 0, c.Count())
}

func TestLimits_CounterFor(t *testing.T) {
	limits := DefaultLimits()

	tests := []struct {
		name  string
		event models.Event
		sold  int
		want  int
	}{
		{"defaults", models.Event{}, 0, 10},
		{"default available nearly gone", models.Event{}, 96, 4},
		{"per purchase cap", models.Event{MaxTicketsPerPurchase: intPtr(6), CapacityMax: intPtr(500)}, 10, 6},
		{"capacity smaller than cap", models.Event{MaxTicketsPerPurchase: intPtr(8), CapacityMax: intPtr(500)}, 497, 3},
		{"sold out", models.Event{CapacityMax: intPtr(500)}, 500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, limits.CounterFor(tt.event, tt.sold).EffectiveMax())
		})
	}
}

func TestLimits_CapacityFor(t *testing.T) {
	limits := DefaultLimits()

	c := limits.CapacityFor(models.Event{CapacityMax: intPtr(200)}, 180)
	assert.Equal(t, StatusAlmostSoldOut, c.Status)
	assert.Equal(t, 90, c.PercentageSold)

	c = limits.CapacityFor(models.Event{}, 0)
	assert.Equal(t, 100, c.Capacity)
}
