// Package selection holds the seats a buyer has picked for one checkout.
package selection

import (
	"sync"

	"ticket-storefront/models"
)

const DefaultMaxSeats = 10

// Gate decides whether a seat may be picked, e.g. an arena price filter.
type Gate func(section models.Section, seat models.Seat) bool

type Option func(*Store)

func WithMaxSeats(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSeats = n
		}
	}
}

func WithGate(gate Gate) Option {
	return func(s *Store) {
		s.gate = gate
	}
}

// SelectedSeat is a selection entry resolved against the layout.
type SelectedSeat struct {
	Section models.Section
	Seat    models.Seat
}

// Store is the ordered set of chosen seats. It never holds more than
// MaxSeats entries and never holds a seat that was unavailable when toggled.
type Store struct {
	mu       sync.RWMutex
	layout   models.Layout
	maxSeats int
	gate     Gate
	entries  []models.SelectionEntry
}

func New(layout models.Layout, opts ...Option) *Store {
	s := &Store{
		layout:   layout,
		maxSeats: DefaultMaxSeats,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle removes the seat if selected, otherwise adds it when it exists, is
// available, passes the gate and the bound is not reached. Rejections are
// silent; the result reports whether the selection changed.
func (s *Store) Toggle(sectionID, seatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(sectionID, seatID); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return true
	}

	section, seat, ok := s.layout.Find(sectionID, seatID)
	if !ok || !seat.IsAvailable {
		return false
	}
	if s.gate != nil && !s.gate(section, seat) {
		return false
	}
	if len(s.entries) >= s.maxSeats {
		return false
	}

	s.entries = append(s.entries, models.SelectionEntry{SectionID: sectionID, SeatID: seatID})
	return true
}

// Select adds each entry that is not already selected, with the same rules as
// Toggle. It returns how many entries were accepted.
func (s *Store) Select(entries ...models.SelectionEntry) int {
	accepted := 0
	for _, e := range entries {
		if s.IsSelected(e.SectionID, e.SeatID) {
			continue
		}
		if s.Toggle(e.SectionID, e.SeatID) {
			accepted++
		}
	}
	return accepted
}

func (s *Store) IsSelected(sectionID, seatID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(sectionID, seatID) >= 0
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) MaxSeats() int {
	return s.maxSeats
}

func (s *Store) Layout() models.Layout {
	return s.layout
}

// Entries returns a copy in selection order.
func (s *Store) Entries() []models.SelectionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SelectionEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Seats resolves every entry to its section and seat, in selection order.
func (s *Store) Seats() []SelectedSeat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SelectedSeat, 0, len(s.entries))
	for _, e := range s.entries {
		section, seat, ok := s.layout.Find(e.SectionID, e.SeatID)
		if !ok {
			continue
		}
		out = append(out, SelectedSeat{Section: section, Seat: seat})
	}
	return out
}

func (s *Store) indexOf(sectionID, seatID string) int {
	for i, e := range s.entries {
		if e.SectionID == sectionID && e.SeatID == seatID {
			return i
		}
	}
	return -1
}
