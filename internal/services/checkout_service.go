package services

import (
	"context"
	"fmt"
	"log/slog"

	"ticket-storefront/internal/admission"
	"ticket-storefront/internal/clock"
	"ticket-storefront/internal/pricing"
	"ticket-storefront/internal/selection"
	"ticket-storefront/internal/status"
	"ticket-storefront/internal/store"
	"ticket-storefront/models"
	"ticket-storefront/monitoring"
	"ticket-storefront/utils"

	"github.com/google/uuid"
)

const (
	modeReserved = "reserved"
	modeGeneral  = "general"

	maxCodeAttempts = 5
)

type Receipt struct {
	Tickets   []models.Ticket   `json:"tickets"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// CheckoutService turns a seat selection or a GA quantity into tickets.
type CheckoutService struct {
	tickets   store.Collection[models.Ticket]
	inventory SeatInventory
	notifier  Notifier
	policy    pricing.Policy
	clock     clock.Clock
}

func NewCheckoutService(
	tickets store.Collection[models.Ticket],
	inventory SeatInventory,
	notifier Notifier,
	policy pricing.Policy,
	clk clock.Clock,
) *CheckoutService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CheckoutService{
		tickets:   tickets,
		inventory: inventory,
		notifier:  notifier,
		policy:    policy,
		clock:     clk,
	}
}

func (s *CheckoutService) QuoteSeats(sel *selection.Store) pricing.Breakdown {
	return s.policy.Seats(sel.Seats())
}

func (s *CheckoutService) QuoteAdmission(event models.Event, counter *admission.Counter) pricing.Breakdown {
	return s.policy.Admission(event.Price, counter.Count())
}

// PurchaseSeats issues one ticket per selected seat. The selection is cleared
// only after the tickets are stored.
func (s *CheckoutService) PurchaseSeats(ctx context.Context, userID string, event models.Event, sel *selection.Store) (*Receipt, error) {
	if userID == "" {
		return nil, status.ErrNotAuthenticated
	}
	if !event.HasReservedSeating {
		return nil, status.ErrSeatingMode
	}

	seats := sel.Seats()
	if len(seats) == 0 {
		return nil, status.ErrEmptySelection
	}

	breakdown := s.policy.Seats(seats)
	now := s.clock.Now()

	issued, err := s.issue(ctx, userID, func(codes map[string]bool) ([]models.Ticket, error) {
		out := make([]models.Ticket, 0, len(seats))
		for _, ss := range seats {
			t, err := s.newTicket(userID, event, codes)
			if err != nil {
				return nil, err
			}
			price := ss.Section.SeatPrice(ss.Seat)
			t.Section = ss.Section.Name
			t.SectionID = ss.Section.ID
			t.Row = ss.Seat.Row
			t.Seat = ss.Seat.ID
			t.SeatNumber = ss.Seat.Number
			t.SeatLabel = ss.Section.SeatLabel(ss.Seat)
			t.Quantity = 1
			t.UnitPrice = price
			t.Price = price
			out = append(out, t)
		}
		return out, nil
	})
	if err != nil {
		monitoring.TrackPurchase(modeReserved, "failed")
		slog.Error("Failed to store purchased tickets", "error", err, "user_id", userID, "event_id", event.ID, "seats", len(seats))
		return nil, err
	}

	seatIDs := make([]string, len(issued))
	for i, t := range issued {
		seatIDs[i] = t.Seat
	}
	if err := s.inventory.MarkSeatsSold(ctx, event.ID, userID, seatIDs); err != nil {
		slog.Error("Tickets issued but seats not marked sold", "error", err, "event_id", event.ID, "seat_ids", seatIDs)
	}

	s.afterPurchase(ctx, modeReserved, userID, event, issued, breakdown)
	sel.Clear()

	slog.Info("Seats purchased", "user_id", userID, "event_id", event.ID, "tickets", len(issued), "total", breakdown.Total.StringFixed(2), "at", now)
	return &Receipt{Tickets: issued, Breakdown: breakdown}, nil
}

// PurchaseAdmission issues a single ticket carrying the GA quantity.
func (s *CheckoutService) PurchaseAdmission(ctx context.Context, userID string, event models.Event, counter *admission.Counter) (*Receipt, error) {
	if userID == "" {
		return nil, status.ErrNotAuthenticated
	}
	if event.HasReservedSeating {
		return nil, status.ErrSeatingMode
	}

	count := counter.Count()
	if count == 0 {
		return nil, status.ErrEmptySelection
	}

	breakdown := s.policy.Admission(event.Price, count)

	issued, err := s.issue(ctx, userID, func(codes map[string]bool) ([]models.Ticket, error) {
		t, err := s.newTicket(userID, event, codes)
		if err != nil {
			return nil, err
		}
		t.Quantity = count
		t.UnitPrice = event.Price
		t.Price = breakdown.Subtotal
		return []models.Ticket{t}, nil
	})
	if err != nil {
		monitoring.TrackPurchase(modeGeneral, "failed")
		slog.Error("Failed to store purchased tickets", "error", err, "user_id", userID, "event_id", event.ID, "quantity", count)
		return nil, err
	}

	if err := s.inventory.RecordAdmissions(ctx, event.ID, count); err != nil {
		slog.Error("Tickets issued but admissions not recorded", "error", err, "event_id", event.ID, "quantity", count)
	}

	s.afterPurchase(ctx, modeGeneral, userID, event, issued, breakdown)
	counter.Reset()

	slog.Info("Admission purchased", "user_id", userID, "event_id", event.ID, "quantity", count, "total", breakdown.Total.StringFixed(2))
	return &Receipt{Tickets: issued, Breakdown: breakdown}, nil
}

// issue builds tickets against the user's stored tickets and appends them in
// one atomic write, so reference codes are unique across everything issued.
func (s *CheckoutService) issue(ctx context.Context, userID string, build func(codes map[string]bool) ([]models.Ticket, error)) ([]models.Ticket, error) {
	var issued []models.Ticket
	err := s.tickets.Mutate(ctx, userID, func(cur []models.Ticket) ([]models.Ticket, error) {
		codes := make(map[string]bool, len(cur))
		for _, t := range cur {
			codes[t.ReferenceCode] = true
		}

		out, err := build(codes)
		if err != nil {
			return nil, err
		}
		issued = out
		return append(cur, out...), nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return issued, nil
}

func (s *CheckoutService) newTicket(userID string, event models.Event, codes map[string]bool) (models.Ticket, error) {
	now := s.clock.Now()

	var code string
	for i := 0; i < maxCodeAttempts; i++ {
		c, err := utils.NewReferenceCode(now)
		if err != nil {
			return models.Ticket{}, fmt.Errorf("generate reference code: %w", err)
		}
		if !codes[c] {
			code = c
			break
		}
	}
	if code == "" {
		return models.Ticket{}, fmt.Errorf("generate reference code: %d collisions", maxCodeAttempts)
	}
	codes[code] = true

	return models.Ticket{
		ID:            uuid.NewString(),
		UserID:        userID,
		EventID:       event.ID,
		EventTitle:    event.Title,
		EventCategory: event.Category,
		Date:          event.Date,
		Time:          event.Time,
		Location:      event.Location,
		ReferenceCode: code,
		Status:        models.TicketPurchased,
		PurchasedAt:   now,
	}, nil
}

func (s *CheckoutService) afterPurchase(ctx context.Context, mode, userID string, event models.Event, issued []models.Ticket, breakdown pricing.Breakdown) {
	if err := s.notifier.TicketsIssued(ctx, userID, issued); err != nil {
		slog.Warn("Purchase notification not sent", "error", err, "user_id", userID)
	}

	monitoring.TrackPurchase(mode, "success")
	monitoring.TrackTicketsIssued(mode, event.ID, len(issued))
	monitoring.TrackOrderValue(mode, breakdown.Total)
}
