package services

import (
	"context"
	"log/slog"
	"sort"

	"ticket-storefront/internal/clock"
	"ticket-storefront/internal/status"
	"ticket-storefront/internal/store"
	"ticket-storefront/models"
	"ticket-storefront/monitoring"
)

type TicketService struct {
	tickets   store.Collection[models.Ticket]
	inventory SeatInventory
	clock     clock.Clock
}

func NewTicketService(tickets store.Collection[models.Ticket], inventory SeatInventory, clk clock.Clock) *TicketService {
	return &TicketService{tickets: tickets, inventory: inventory, clock: clk}
}

// List returns the user's tickets, newest purchase first.
func (s *TicketService) List(ctx context.Context, userID string) ([]models.Ticket, error) {
	if userID == "" {
		return nil, status.ErrNotAuthenticated
	}
	tickets, err := s.tickets.LoadAll(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].PurchasedAt.After(tickets[j].PurchasedAt)
	})
	return tickets, nil
}

func (s *TicketService) ListByEvent(ctx context.Context, userID, eventID string) ([]models.Ticket, error) {
	tickets, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Refund moves a purchased ticket to refunded and gives its seat or
// admissions back to inventory.
func (s *TicketService) Refund(ctx context.Context, userID, ticketID string) (*models.Ticket, error) {
	if userID == "" {
		return nil, status.ErrNotAuthenticated
	}

	var refunded models.Ticket
	err := s.tickets.Mutate(ctx, userID, func(cur []models.Ticket) ([]models.Ticket, error) {
		for i := range cur {
			if cur[i].ID != ticketID {
				continue
			}
			if cur[i].Status != models.TicketPurchased {
				return nil, status.ErrTicketStatus
			}
			now := s.clock.Now()
			cur[i].Status = models.TicketRefunded
			cur[i].RefundedAt = &now
			refunded = cur[i]
			return cur, nil
		}
		return nil, status.ErrTicketNotFound
	})
	if err != nil {
		monitoring.TrackTicketOperation("refund", "failed")
		return nil, storeErr(err)
	}

	s.release(ctx, refunded)
	monitoring.TrackTicketOperation("refund", "success")
	slog.Info("Ticket refunded", "user_id", userID, "ticket_id", ticketID, "reference_code", refunded.ReferenceCode)
	return &refunded, nil
}

// Cancel deletes a ticket. A still-purchased ticket gives its inventory back.
func (s *TicketService) Cancel(ctx context.Context, userID, ticketID string) error {
	if userID == "" {
		return status.ErrNotAuthenticated
	}

	var removed models.Ticket
	err := s.tickets.Mutate(ctx, userID, func(cur []models.Ticket) ([]models.Ticket, error) {
		for i := range cur {
			if cur[i].ID == ticketID {
				removed = cur[i]
				return append(cur[:i], cur[i+1:]...), nil
			}
		}
		return nil, status.ErrTicketNotFound
	})
	if err != nil {
		monitoring.TrackTicketOperation("cancel", "failed")
		return storeErr(err)
	}

	if removed.Status == models.TicketPurchased {
		s.release(ctx, removed)
	}
	monitoring.TrackTicketOperation("cancel", "success")
	return nil
}

func (s *TicketService) release(ctx context.Context, t models.Ticket) {
	var err error
	if t.IsSeated() {
		err = s.inventory.ReleaseSeats(ctx, t.EventID, []string{t.Seat})
	} else {
		err = s.inventory.ReleaseAdmissions(ctx, t.EventID, t.Quantity)
	}
	if err != nil {
		slog.Error("Failed to release inventory", "error", err, "event_id", t.EventID, "ticket_id", t.ID)
	}
}
