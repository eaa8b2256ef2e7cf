package venue

import (
	"fmt"
	"strings"

	"ticket-storefront/models"

	"github.com/shopspring/decimal"
)

type SeatType string

const (
	SeatTypeAll      SeatType = "all"
	SeatTypePremium  SeatType = "premium"
	SeatTypeStandard SeatType = "standard"
	SeatTypeStudent  SeatType = "student"
)

func ParseSeatType(s string) (SeatType, error) {
	switch t := SeatType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return SeatTypeAll, nil
	case SeatTypeAll, SeatTypePremium, SeatTypeStandard, SeatTypeStudent:
		return t, nil
	default:
		return "", fmt.Errorf("unknown seat type %q", s)
	}
}

// Filter narrows the arena map by price range and seat type. A zero MaxPrice
// means no upper bound.
type Filter struct {
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	SeatType SeatType
}

func (f Filter) inRange(price decimal.Decimal) bool {
	if price.LessThan(f.MinPrice) {
		return false
	}
	return f.MaxPrice.IsZero() || !price.GreaterThan(f.MaxPrice)
}

// SectionMatches applies the seat-type rule and the price range to the
// section's base price.
func (f Filter) SectionMatches(section models.Section) bool {
	premium := decimal.NewFromInt(premiumPriceFloor)
	switch f.SeatType {
	case SeatTypeStudent:
		if section.Tier != models.TierStudent {
			return false
		}
	case SeatTypePremium:
		if section.Price.LessThan(premium) {
			return false
		}
	case SeatTypeStandard:
		if !section.Price.LessThan(premium) || section.Tier == models.TierStudent {
			return false
		}
	}
	return f.inRange(section.Price)
}

// Allows reports whether a seat may be clicked under the filter: its section
// must be shown and its own price must fall inside the range.
func (f Filter) Allows(section models.Section, seat models.Seat) bool {
	return f.SectionMatches(section) && f.inRange(section.SeatPrice(seat))
}

func (f Filter) Sections(layout models.Layout) []models.Section {
	var out []models.Section
	for _, s := range layout.Sections {
		if f.SectionMatches(s) {
			out = append(out, s)
		}
	}
	return out
}

// PriceRange returns the cheapest and dearest seat prices in the layout.
func PriceRange(layout models.Layout) (decimal.Decimal, decimal.Decimal) {
	var lo, hi decimal.Decimal
	first := true
	for _, s := range layout.Sections {
		for _, seat := range s.Seats {
			p := s.SeatPrice(seat)
			if first {
				lo, hi, first = p, p, false
				continue
			}
			lo = decimal.Min(lo, p)
			hi = decimal.Max(hi, p)
		}
	}
	return lo, hi
}
