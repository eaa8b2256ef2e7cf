package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PresentationMode string

const (
	ModeGrid      PresentationMode = "grid"
	ModeDrilldown PresentationMode = "drilldown"
	ModeArena     PresentationMode = "arena"
)

type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
	TierLower    Tier = "lower"
	TierUpper    Tier = "upper"
	TierStudent  Tier = "student"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Seat struct {
	ID          string          `json:"id"`
	Row         string          `json:"row"`
	Number      int             `json:"number"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
}

type Section struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	DisplayNumber string          `json:"display_number,omitempty"`
	Tier          Tier            `json:"tier"`
	Price         decimal.Decimal `json:"price"`
	MaxPrice      decimal.Decimal `json:"max_price"`
	Color         string          `json:"color"`
	Position      Point           `json:"position"`
	Seats         []Seat          `json:"seats"`
}

// SeatPrice is the seat's own price, or the section price when the seat has none.
func (s Section) SeatPrice(seat Seat) decimal.Decimal {
	if seat.Price.IsZero() {
		return s.Price
	}
	return seat.Price
}

func (s Section) AvailableCount() int {
	n := 0
	for _, seat := range s.Seats {
		if seat.IsAvailable {
			n++
		}
	}
	return n
}

// SeatLabel renders the seat the way it is printed on a ticket.
func (s Section) SeatLabel(seat Seat) string {
	name := s.Name
	if s.DisplayNumber != "" {
		name = "Section " + s.DisplayNumber
	}
	return fmt.Sprintf("%s, Row %s, Seat %d", name, seat.Row, seat.Number)
}

type Layout struct {
	Kind     string           `json:"kind"`
	Mode     PresentationMode `json:"mode"`
	Sections []Section        `json:"sections"`
}

func (l Layout) Section(sectionID string) (Section, bool) {
	for _, s := range l.Sections {
		if s.ID == sectionID {
			return s, true
		}
	}
	return Section{}, false
}

func (l Layout) Find(sectionID, seatID string) (Section, Seat, bool) {
	section, ok := l.Section(sectionID)
	if !ok {
		return Section{}, Seat{}, false
	}
	for _, seat := range section.Seats {
		if seat.ID == seatID {
			return section, seat, true
		}
	}
	return Section{}, Seat{}, false
}

func (l Layout) SeatIDs() []string {
	var ids []string
	for _, s := range l.Sections {
		for _, seat := range s.Seats {
			ids = append(ids, seat.ID)
		}
	}
	return ids
}

type SelectionEntry struct {
	SectionID string `json:"section_id"`
	SeatID    string `json:"seat_id"`
}
