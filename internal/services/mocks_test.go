package services

import (
	"context"
	"time"

	"ticket-storefront/internal/clock"
	"ticket-storefront/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2024, 6, 19, 12, 0, 0, 0, time.UTC)

func testClock() clock.Clock {
	return clock.NewFixed(testNow)
}

type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) MarkSeatsSold(ctx context.Context, eventID, userID string, seatIDs []string) error {
	return m.Called(ctx, eventID, userID, seatIDs).Error(0)
}

func (m *MockInventory) ReleaseSeats(ctx context.Context, eventID string, seatIDs []string) error {
	return m.Called(ctx, eventID, seatIDs).Error(0)
}

func (m *MockInventory) RecordAdmissions(ctx context.Context, eventID string, n int) error {
	return m.Called(ctx, eventID, n).Error(0)
}

func (m *MockInventory) ReleaseAdmissions(ctx context.Context, eventID string, n int) error {
	return m.Called(ctx, eventID, n).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) TicketsIssued(ctx context.Context, userID string, tickets []models.Ticket) error {
	return m.Called(ctx, userID, tickets).Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testLayout has one section priced at 50 with a premium seat at 75 and a sold seat.
func testLayout() models.Layout {
	return models.Layout{
		Kind: "theater",
		Mode: models.ModeGrid,
		Sections: []models.Section{
			{
				ID:    "orch",
				Name:  "Orchestra",
				Tier:  models.TierStandard,
				Price: dec("50"),
				Seats: []models.Seat{
					{ID: "orch-1", Row: "A", Number: 1, IsAvailable: true},
					{ID: "orch-2", Row: "A", Number: 2, Price: dec("75"), IsAvailable: true},
					{ID: "orch-3", Row: "A", Number: 3, IsAvailable: false},
				},
			},
		},
	}
}

func seatedEvent() models.Event {
	return models.Event{
		ID:                 "7",
		Title:              "Hamilton",
		Category:           models.CategorySelectedSeats,
		Date:               "2024-07-01",
		Time:               "19:30",
		Location:           "Gaillard Center",
		Price:              dec("50"),
		HasReservedSeating: true,
		VenueLayout:        "theater",
	}
}

func gaEvent() models.Event {
	return models.Event{
		ID:       "1",
		Title:    "Summer Fest",
		Category: models.CategoryMaxCapacity,
		Date:     "2024-07-04",
		Time:     "12:00",
		Location: "Riverfront Park",
		Price:    dec("25"),
	}
}
