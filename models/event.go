package models

import (
	"github.com/shopspring/decimal"
)

type EventCategory string

const (
	CategoryBigArena      EventCategory = "Big Arena"
	CategorySelectedSeats EventCategory = "Selected Seats"
	CategoryMaxCapacity   EventCategory = "Max Capacity"
)

type Event struct {
	ID                    string          `json:"id"`
	Title                 string          `json:"title"`
	Category              EventCategory   `json:"category"`
	Subcategory           string          `json:"subcategory,omitempty"`
	Date                  string          `json:"date"` // YYYY-MM-DD
	Time                  string          `json:"time"`
	Location              string          `json:"location"`
	Price                 decimal.Decimal `json:"price"`
	CapacityMax           *int            `json:"capacity_max,omitempty"`
	TicketsSold           int             `json:"tickets_sold"`
	HasReservedSeating    bool            `json:"has_reserved_seating"`
	MaxTicketsPerPurchase *int            `json:"max_tickets_per_purchase,omitempty"`
	VenueLayout           string          `json:"venue_layout,omitempty"`
	IsAgeRestricted       bool            `json:"is_age_restricted"`
	IsFeatured            bool            `json:"is_featured"`
}
