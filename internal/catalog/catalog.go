// Package catalog is the read-only event catalog the storefront sells from.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ticket-storefront/internal/clock"
	"ticket-storefront/internal/status"
	"ticket-storefront/models"

	"github.com/shopspring/decimal"
)

type Catalog interface {
	Get(ctx context.Context, id string) (models.Event, error)
	List(ctx context.Context, filter Filter) ([]models.Event, error)
}

// Filter narrows a listing. Zero values disable a criterion; a zero MaxPrice
// means no upper bound.
type Filter struct {
	Category models.EventCategory
	From     time.Time
	To       time.Time
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Search   string
}

func (f Filter) Matches(event models.Event) bool {
	if f.Category != "" && event.Category != f.Category {
		return false
	}
	if event.Price.LessThan(f.MinPrice) {
		return false
	}
	if !f.MaxPrice.IsZero() && event.Price.GreaterThan(f.MaxPrice) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(event.Title), q) &&
			!strings.Contains(strings.ToLower(event.Location), q) {
			return false
		}
	}
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}

	date, err := time.Parse(DateLayout, event.Date)
	if err != nil {
		return false
	}
	if !f.From.IsZero() && date.Before(startOfDay(f.From)) {
		return false
	}
	if !f.To.IsZero() && date.After(endOfDay(f.To)) {
		return false
	}
	return true
}

// Static serves a fixed set of events. Past dates are rolled forward a year
// so demo listings never go stale.
type Static struct {
	mu     sync.RWMutex
	clock  clock.Clock
	events []models.Event
}

func NewStatic(clk clock.Clock, events ...models.Event) *Static {
	return &Static{clock: clk, events: events}
}

func (s *Static) Get(_ context.Context, id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.events {
		if e.ID == id {
			e.Date = RollToFuture(e.Date, s.clock.Now())
			return e, nil
		}
	}
	return models.Event{}, status.ErrEventNotFound
}

func (s *Static) List(_ context.Context, filter Filter) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock.Now()
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		e.Date = RollToFuture(e.Date, now)
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	SortByDate(out)
	return out, nil
}

// SortByDate orders events soonest first, keeping catalog order for ties.
func SortByDate(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
}
