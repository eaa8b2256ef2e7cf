package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketSelected  TicketStatus = "selected"
	TicketPurchased TicketStatus = "purchased"
	TicketRefunded  TicketStatus = "refunded"
)

type Ticket struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	EventID       string          `json:"event_id"`
	EventTitle    string          `json:"event_title"`
	EventCategory EventCategory   `json:"event_category"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Location      string          `json:"location"`
	Section       string          `json:"section,omitempty"`
	SectionID     string          `json:"section_id,omitempty"`
	Row           string          `json:"row,omitempty"`
	Seat          string          `json:"seat,omitempty"`
	SeatNumber    int             `json:"seat_number,omitempty"`
	SeatLabel     string          `json:"seat_label,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Price         decimal.Decimal `json:"price"`
	ReferenceCode string          `json:"reference_code"`
	Status        TicketStatus    `json:"status"`
	PurchasedAt   time.Time       `json:"purchased_at"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
}

func (t Ticket) RecordID() string { return t.ID }

// IsSeated reports whether the ticket admits to a specific reserved seat.
func (t Ticket) IsSeated() bool {
	return t.Seat != ""
}
