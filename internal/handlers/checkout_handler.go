package handlers

import (
	"context"
	"fmt"
	"net/http"

	"ticket-storefront/internal/admission"
	"ticket-storefront/internal/selection"
	"ticket-storefront/internal/services"
	"ticket-storefront/internal/status"
	"ticket-storefront/models"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type CheckoutHandler struct {
	events   *EventHandler
	checkout *services.CheckoutService
}

func NewCheckoutHandler(events *EventHandler, checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{events: events, checkout: checkout}
}

type orderRequest struct {
	SessionID string                  `json:"session_id"`
	Seats     []models.SelectionEntry `json:"seats"`
	Quantity  int                     `json:"quantity"`
	MinPrice  string                  `json:"min_price"`
	MaxPrice  string                  `json:"max_price"`
	SeatType  string                  `json:"seat_type"`
}

// Quote - Price breakdown for a prospective order
func (h *CheckoutHandler) Quote(e *core.RequestEvent) error {
	var req orderRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ctx := e.Request.Context()
	event, err := h.events.catalog.Get(ctx, e.Request.PathValue("eventId"))
	if err != nil {
		return respondError(e, err)
	}

	if event.HasReservedSeating {
		sel, err := h.buildSelection(ctx, event, req)
		if err != nil {
			return respondError(e, err)
		}
		return e.JSON(http.StatusOK, map[string]any{
			"breakdown": h.checkout.QuoteSeats(sel),
			"seats":     sel.Entries(),
			"rejected":  len(req.Seats) - sel.Len(),
		})
	}

	counter, err := h.buildCounter(ctx, event, req.Quantity)
	if err != nil {
		return respondError(e, err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"breakdown":   h.checkout.QuoteAdmission(event, counter),
		"quantity":    counter.Count(),
		"max_tickets": counter.EffectiveMax(),
	})
}

// Purchase - Issue tickets for the authenticated user
func (h *CheckoutHandler) Purchase(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req orderRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	ctx := e.Request.Context()
	event, err := h.events.catalog.Get(ctx, e.Request.PathValue("eventId"))
	if err != nil {
		return respondError(e, err)
	}

	var receipt *services.Receipt
	if event.HasReservedSeating {
		if err := h.checkSeatRequest(req.Seats); err != nil {
			return respondError(e, err)
		}
		sel, err := h.buildSelection(ctx, event, req)
		if err != nil {
			return respondError(e, err)
		}
		if sel.Len() < len(req.Seats) {
			return respondError(e, status.ErrSeatUnavailable)
		}
		receipt, err = h.checkout.PurchaseSeats(ctx, userID(e), event, sel)
		if err != nil {
			return respondError(e, err)
		}
	} else {
		counter, err := h.buildCounter(ctx, event, req.Quantity)
		if err != nil {
			return respondError(e, err)
		}
		receipt, err = h.checkout.PurchaseAdmission(ctx, userID(e), event, counter)
		if err != nil {
			return respondError(e, err)
		}
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message":   "Purchase complete",
		"tickets":   receipt.Tickets,
		"breakdown": receipt.Breakdown,
	})
}

// checkSeatRequest rejects repeated seats and lists over the per-order bound.
func (h *CheckoutHandler) checkSeatRequest(seats []models.SelectionEntry) error {
	if h.events.maxSeats > 0 && len(seats) > h.events.maxSeats {
		return status.NewValidationErrorFrom("seats", fmt.Sprintf("At most %d seats per order", h.events.maxSeats))
	}
	seen := make(map[models.SelectionEntry]struct{}, len(seats))
	for _, s := range seats {
		if _, dup := seen[s]; dup {
			return status.NewValidationErrorFrom("seats", "Seat "+s.SeatID+" is listed more than once")
		}
		seen[s] = struct{}{}
	}
	return nil
}

// buildSelection replays the requested seats against the live layout.
// Seats that are gone, filtered out or over the bound are dropped.
func (h *CheckoutHandler) buildSelection(ctx context.Context, event models.Event, req orderRequest) (*selection.Store, error) {
	filter, err := parseSeatFilter(req.MinPrice, req.MaxPrice, req.SeatType)
	if err != nil {
		return nil, status.NewValidationErrorFrom("filter", err.Error())
	}

	layout, err := h.events.layoutFor(ctx, event, req.SessionID)
	if err != nil {
		return nil, err
	}

	sel := selection.New(layout,
		selection.WithMaxSeats(h.events.maxSeats),
		selection.WithGate(filter.Allows),
	)
	sel.Select(req.Seats...)
	return sel, nil
}

func (h *CheckoutHandler) buildCounter(ctx context.Context, event models.Event, quantity int) (*admission.Counter, error) {
	sold, err := h.events.inventory.SoldFor(ctx, event)
	if err != nil {
		return nil, err
	}

	counter := h.events.limits.CounterFor(event, sold)
	if counter.SoldOut() {
		return nil, status.ErrSeatUnavailable
	}
	if !counter.Set(quantity) {
		return nil, status.NewValidationErrorFrom("quantity", "Quantity must be between 1 and the ticket limit")
	}
	return counter, nil
}
