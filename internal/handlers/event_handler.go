package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ticket-storefront/internal/admission"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/clock"
	"ticket-storefront/internal/status"
	"ticket-storefront/internal/venue"
	"ticket-storefront/models"
	"ticket-storefront/monitoring"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// Inventory is the live seat and admission state the storefront reads.
type Inventory interface {
	ApplyAvailability(ctx context.Context, eventID, sessionID string, layout models.Layout) (models.Layout, error)
	HoldSeat(ctx context.Context, eventID, seatID, sessionID string) error
	ReleaseHold(ctx context.Context, eventID, seatID, sessionID string) error
	SoldFor(ctx context.Context, event models.Event) (int, error)
}

type EventHandler struct {
	catalog   catalog.Catalog
	inventory Inventory
	limits    admission.Limits
	clock     clock.Clock
	maxSeats  int
	demo      bool
}

func NewEventHandler(c catalog.Catalog, inventory Inventory, limits admission.Limits, clk clock.Clock, maxSeats int, demo bool) *EventHandler {
	return &EventHandler{
		catalog:   c,
		inventory: inventory,
		limits:    limits,
		clock:     clk,
		maxSeats:  maxSeats,
		demo:      demo,
	}
}

// ListEvents - List catalog events
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	filter, err := h.parseCatalogFilter(e)
	if err != nil {
		return apis.NewBadRequestError(err.Error(), nil)
	}

	events, err := h.catalog.List(e.Request.Context(), filter)
	if err != nil {
		return respondError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"events":       events,
		"total":        len(events),
		"quick_ranges": catalog.QuickRanges(h.clock.Now()),
	})
}

// GetEvent - Event details with capacity
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	event, err := h.catalog.Get(ctx, e.Request.PathValue("eventId"))
	if err != nil {
		return respondError(e, err)
	}

	sold, err := h.inventory.SoldFor(ctx, event)
	if err != nil {
		return respondError(e, err)
	}

	resp := map[string]any{
		"event":            event,
		"reserved_seating": event.HasReservedSeating,
		"layout":           venue.KindForEvent(event),
	}
	if event.HasReservedSeating {
		resp["max_seats"] = h.maxSeats
	} else {
		capacity := h.limits.CapacityFor(event, sold)
		resp["capacity"] = capacity
		resp["capacity_message"] = capacity.Message()
		resp["max_tickets"] = h.limits.CounterFor(event, sold).EffectiveMax()
	}

	return e.JSON(http.StatusOK, resp)
}

type sectionView struct {
	models.Section
	Available int `json:"available"`
	Total     int `json:"total"`
}

// GetLayout - Seat map with live availability
func (h *EventHandler) GetLayout(e *core.RequestEvent) error {
	ctx := e.Request.Context()
	q := e.Request.URL.Query()

	event, err := h.catalog.Get(ctx, e.Request.PathValue("eventId"))
	if err != nil {
		return respondError(e, err)
	}
	if !event.HasReservedSeating {
		return respondError(e, status.ErrSeatingMode)
	}

	filter, err := parseSeatFilter(q.Get("min_price"), q.Get("max_price"), q.Get("seat_type"))
	if err != nil {
		return apis.NewBadRequestError(err.Error(), nil)
	}

	layout, err := h.layoutFor(ctx, event, q.Get("session_id"))
	if err != nil {
		return respondError(e, err)
	}

	lo, hi := venue.PriceRange(layout)
	sections := filter.Sections(layout)
	views := make([]sectionView, len(sections))
	for i, s := range sections {
		views[i] = sectionView{Section: s, Available: s.AvailableCount(), Total: len(s.Seats)}
	}

	return e.JSON(http.StatusOK, map[string]any{
		"kind":        layout.Kind,
		"mode":        layout.Mode,
		"sections":    views,
		"price_range": map[string]any{"min": lo, "max": hi},
		"max_seats":   h.maxSeats,
	})
}

// ToggleHold - Hold or release a seat for a browsing session
func (h *EventHandler) ToggleHold(e *core.RequestEvent) error {
	var req struct {
		SessionID string `json:"session_id"`
		SectionID string `json:"section_id"`
		SeatID    string `json:"seat_id"`
		Release   bool   `json:"release"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.SessionID == "" || req.SeatID == "" {
		return apis.NewBadRequestError("session_id and seat_id are required", nil)
	}

	ctx := e.Request.Context()
	event, err := h.catalog.Get(ctx, e.Request.PathValue("eventId"))
	if err != nil {
		return respondError(e, err)
	}
	if !event.HasReservedSeating {
		return respondError(e, status.ErrSeatingMode)
	}

	layout, err := h.layoutFor(ctx, event, req.SessionID)
	if err != nil {
		return respondError(e, err)
	}
	_, seat, ok := layout.Find(req.SectionID, req.SeatID)
	if !ok {
		return apis.NewNotFoundError("Seat not found", nil)
	}

	if req.Release {
		if err := h.inventory.ReleaseHold(ctx, event.ID, seat.ID, req.SessionID); err != nil {
			monitoring.TrackSeatHold("release_rejected")
			return respondError(e, err)
		}
		monitoring.TrackSeatHold("released")
		return e.JSON(http.StatusOK, map[string]any{"seat_id": seat.ID, "held": false})
	}

	if !seat.IsAvailable {
		monitoring.TrackSeatHold("unavailable")
		return respondError(e, status.ErrSeatUnavailable)
	}
	if err := h.inventory.HoldSeat(ctx, event.ID, seat.ID, req.SessionID); err != nil {
		monitoring.TrackSeatHold("rejected")
		return respondError(e, err)
	}

	monitoring.TrackSeatHold("held")
	return e.JSON(http.StatusOK, map[string]any{"seat_id": seat.ID, "held": true})
}

// layoutFor generates the event's seat map and overlays live availability.
func (h *EventHandler) layoutFor(ctx context.Context, event models.Event, sessionID string) (models.Layout, error) {
	var opts []venue.Option
	if h.demo {
		opts = append(opts, venue.WithRand(venue.DemoRand(event.ID)))
	}

	layout, err := venue.Generate(venue.KindForEvent(event), opts...)
	if err != nil {
		return models.Layout{}, err
	}
	return h.inventory.ApplyAvailability(ctx, event.ID, sessionID, layout)
}

func (h *EventHandler) parseCatalogFilter(e *core.RequestEvent) (catalog.Filter, error) {
	q := e.Request.URL.Query()
	filter := catalog.Filter{
		Category: models.EventCategory(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("q")),
	}

	if key := q.Get("range"); key != "" {
		r, ok := catalog.QuickRange(key, h.clock.Now())
		if !ok {
			return filter, errors.New("unknown date range " + key)
		}
		filter.From, filter.To = r.From, r.To
	}

	var err error
	if filter.From, err = parseDate(q.Get("from"), filter.From); err != nil {
		return filter, err
	}
	if filter.To, err = parseDate(q.Get("to"), filter.To); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = parsePrice(q.Get("min_price")); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parsePrice(q.Get("max_price")); err != nil {
		return filter, err
	}
	return filter, nil
}

func parseSeatFilter(minPrice, maxPrice, seatType string) (venue.Filter, error) {
	var f venue.Filter
	var err error
	if f.MinPrice, err = parsePrice(minPrice); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice(maxPrice); err != nil {
		return f, err
	}
	f.SeatType, err = venue.ParseSeatType(seatType)
	return f, err
}

func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(catalog.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("dates must be YYYY-MM-DD")
	}
	return t, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, errors.New("prices must be non-negative numbers")
	}
	return d, nil
}
