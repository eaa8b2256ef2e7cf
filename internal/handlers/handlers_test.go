package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ticket-storefront/internal/admission"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/clock"
	"ticket-storefront/internal/pricing"
	"ticket-storefront/internal/services"
	"ticket-storefront/internal/status"
	"ticket-storefront/internal/store"
	"ticket-storefront/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeInventory keeps seat and admission state in memory.
type fakeInventory struct {
	mu         sync.Mutex
	sold       map[string]string
	holds      map[string]string
	admissions map[string]int
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		sold:       make(map[string]string),
		holds:      make(map[string]string),
		admissions: make(map[string]int),
	}
}

func (f *fakeInventory) ApplyAvailability(_ context.Context, eventID, sessionID string, layout models.Layout) (models.Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := layout
	out.Sections = make([]models.Section, len(layout.Sections))
	for i, s := range layout.Sections {
		seats := make([]models.Seat, len(s.Seats))
		for j, seat := range s.Seats {
			key := eventID + "/" + seat.ID
			if _, sold := f.sold[key]; sold {
				seat.IsAvailable = false
			}
			if holder, held := f.holds[key]; held && holder != sessionID {
				seat.IsAvailable = false
			}
			seats[j] = seat
		}
		s.Seats = seats
		out.Sections[i] = s
	}
	return out, nil
}

func (f *fakeInventory) HoldSeat(_ context.Context, eventID, seatID, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := eventID + "/" + seatID
	if _, sold := f.sold[key]; sold {
		return status.ErrSeatUnavailable
	}
	if holder, held := f.holds[key]; held && holder != sessionID {
		return status.ErrSeatHeld
	}
	f.holds[key] = sessionID
	return nil
}

func (f *fakeInventory) ReleaseHold(_ context.Context, eventID, seatID, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := eventID + "/" + seatID
	if holder, held := f.holds[key]; held && holder != sessionID {
		return status.ErrSeatHeld
	}
	delete(f.holds, key)
	return nil
}

func (f *fakeInventory) SoldFor(_ context.Context, event models.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return event.TicketsSold + f.admissions[event.ID], nil
}

func (f *fakeInventory) MarkSeatsSold(_ context.Context, eventID, userID string, seatIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range seatIDs {
		f.sold[eventID+"/"+id] = userID
		delete(f.holds, eventID+"/"+id)
	}
	return nil
}

func (f *fakeInventory) ReleaseSeats(_ context.Context, eventID string, seatIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range seatIDs {
		delete(f.sold, eventID+"/"+id)
	}
	return nil
}

func (f *fakeInventory) RecordAdmissions(_ context.Context, eventID string, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admissions[eventID] += n
	return nil
}

func (f *fakeInventory) ReleaseAdmissions(_ context.Context, eventID string, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admissions[eventID] -= n
	return nil
}

type testServer struct {
	inventory *fakeInventory
	tickets   *store.Memory[models.Ticket]
	events    *EventHandler
	checkout  *CheckoutHandler
	ticket    *TicketHandler
	payment   *PaymentHandler
}

func newTestServer() *testServer {
	clk := clock.NewFixed(time.Date(2024, 6, 19, 12, 0, 0, 0, time.UTC))
	inv := newFakeInventory()
	tickets := store.NewMemory[models.Ticket]()
	cards := store.NewMemory[models.PaymentCard]()

	events := NewEventHandler(catalog.NewStatic(clk, catalog.DefaultEvents()...), inv, admission.DefaultLimits(), clk, 10, false)
	checkout := services.NewCheckoutService(tickets, inv, services.NopNotifier{}, pricing.DefaultPolicy(), clk)

	return &testServer{
		inventory: inv,
		tickets:   tickets,
		events:    events,
		checkout:  NewCheckoutHandler(events, checkout),
		ticket:    NewTicketHandler(services.NewTicketService(tickets, inv, clk)),
		payment:   NewPaymentHandler(services.NewPaymentService(cards, clk, bcrypt.MinCost)),
	}
}

func newRequestEvent(method, target string, body any, userID string, pathValues ...string) (*core.RequestEvent, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}

	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec

	if userID != "" {
		auth := &core.Record{}
		auth.Id = userID
		e.Auth = auth
	}
	return e, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *router.ApiError
	require.True(t, errors.As(err, &apiErr), "expected an API error, got %v", err)
	return apiErr.Status
}

func TestListEvents(t *testing.T) {
	s := newTestServer()

	e, rec := newRequestEvent(http.MethodGet, "/api/v1/events?category=Big+Arena", nil, "")
	require.NoError(t, s.events.ListEvents(e))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 3, body["total"])
	assert.Len(t, body["quick_ranges"], 4)

	e, rec = newRequestEvent(http.MethodGet, "/api/v1/events?range=next_7_days", nil, "")
	require.NoError(t, s.events.ListEvents(e))
	assert.EqualValues(t, 2, decodeBody(t, rec)["total"])

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/events?from=June+1", nil, "")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, s.events.ListEvents(e)))

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/events?min_price=-5", nil, "")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, s.events.ListEvents(e)))
}

func TestGetEvent(t *testing.T) {
	s := newTestServer()

	e, rec := newRequestEvent(http.MethodGet, "/api/v1/events/1", nil, "", "eventId", "1")
	require.NoError(t, s.events.GetEvent(e))

	body := decodeBody(t, rec)
	capacity := body["capacity"].(map[string]any)
	assert.EqualValues(t, 650, capacity["remaining"])
	assert.EqualValues(t, 87, capacity["percentage_sold"])
	assert.Equal(t, "almost_sold_out", capacity["status"])
	assert.Equal(t, "Selling Fast! Only 650 tickets remaining", body["capacity_message"])
	assert.EqualValues(t, 10, body["max_tickets"])

	e, rec = newRequestEvent(http.MethodGet, "/api/v1/events/7", nil, "", "eventId", "7")
	require.NoError(t, s.events.GetEvent(e))
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["reserved_seating"])
	assert.Equal(t, "theater", body["layout"])
	assert.EqualValues(t, 10, body["max_seats"])

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/events/999", nil, "", "eventId", "999")
	assert.Equal(t, http.StatusNotFound, apiStatus(t, s.events.GetEvent(e)))
}

func TestGetLayout(t *testing.T) {
	s := newTestServer()
	require.NoError(t, s.inventory.MarkSeatsSold(context.Background(), "7", "someone", []string{"orch-0"}))

	e, rec := newRequestEvent(http.MethodGet, "/api/v1/events/7/layout", nil, "", "eventId", "7")
	require.NoError(t, s.events.GetLayout(e))

	body := decodeBody(t, rec)
	assert.Equal(t, "grid", body["mode"])
	sections := body["sections"].([]any)
	require.Len(t, sections, 3)

	orchestra := sections[0].(map[string]any)
	assert.Equal(t, "orchestra", orchestra["id"])
	assert.EqualValues(t, 47, orchestra["available"])
	assert.EqualValues(t, 48, orchestra["total"])

	e, rec = newRequestEvent(http.MethodGet, "/api/v1/events/7/layout?min_price=60", nil, "", "eventId", "7")
	require.NoError(t, s.events.GetLayout(e))
	assert.Len(t, decodeBody(t, rec)["sections"], 1)

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/events/7/layout?seat_type=vip", nil, "", "eventId", "7")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, s.events.GetLayout(e)))

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/events/1/layout", nil, "", "eventId", "1")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, s.events.GetLayout(e)))
}

func TestToggleHold(t *testing.T) {
	s := newTestServer()
	hold := func(session string, release bool) (*httptest.ResponseRecorder, error) {
		e, rec := newRequestEvent(http.MethodPost, "/api/v1/events/7/holds", map[string]any{
			"session_id": session,
			"section_id": "orchestra",
			"seat_id":    "orch-3",
			"release":    release,
		}, "", "eventId", "7")
		return rec, s.events.ToggleHold(e)
	}

	rec, err := hold("session-a", false)
	require.NoError(t, err)
	assert.Equal(t, true, decodeBody(t, rec)["held"])

	_, err = hold("session-b", false)
	assert.Equal(t, http.StatusConflict, apiStatus(t, err))

	_, err = hold("session-b", true)
	assert.Equal(t, http.StatusConflict, apiStatus(t, err))

	rec, err = hold("session-a", true)
	require.NoError(t, err)
	assert.Equal(t, false, decodeBody(t, rec)["held"])

	e, _ := newRequestEvent(http.MethodPost, "/api/v1/events/7/holds", map[string]any{
		"session_id": "session-a", "section_id": "orchestra", "seat_id": "orch-999",
	}, "", "eventId", "7")
	assert.Equal(t, http.StatusNotFound, apiStatus(t, s.events.ToggleHold(e)))
}

func TestQuote(t *testing.T) {
	s := newTestServer()

	e, rec := newRequestEvent(http.MethodPost, "/api/v1/events/1/quote", map[string]any{"quantity": 2}, "", "eventId", "1")
	require.NoError(t, s.checkout.Quote(e))
	breakdown := decodeBody(t, rec)["breakdown"].(map[string]any)
	// 178 + 2.50 + 14.24
	assert.Equal(t, "194.74", breakdown["total"])

	e, rec = newRequestEvent(http.MethodPost, "/api/v1/events/7/quote", map[string]any{
		"seats": []map[string]string{
			{"section_id": "orchestra", "seat_id": "orch-0"},
			{"section_id": "mezzanine", "seat_id": "mezz-0"},
			{"section_id": "mezzanine", "seat_id": "nope"},
		},
	}, "", "eventId", "7")
	require.NoError(t, s.checkout.Quote(e))
	body := decodeBody(t, rec)
	assert.Equal(t, "130", body["breakdown"].(map[string]any)["subtotal"])
	assert.EqualValues(t, 1, body["rejected"])

	e, rec = newRequestEvent(http.MethodPost, "/api/v1/events/1/quote", map[string]any{"quantity": 11}, "", "eventId", "1")
	require.NoError(t, s.checkout.Quote(e))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["fields"], "quantity")
}

func TestPurchaseSeats(t *testing.T) {
	s := newTestServer()
	order := map[string]any{
		"session_id": "session-a",
		"seats": []map[string]string{
			{"section_id": "orchestra", "seat_id": "orch-0"},
			{"section_id": "orchestra", "seat_id": "orch-1"},
		},
	}

	e, _ := newRequestEvent(http.MethodPost, "/api/v1/events/7/purchase", order, "", "eventId", "7")
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, s.checkout.Purchase(e)))

	e, rec := newRequestEvent(http.MethodPost, "/api/v1/events/7/purchase", order, "user-1", "eventId", "7")
	require.NoError(t, s.checkout.Purchase(e))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Len(t, body["tickets"], 2)
	// 150 + 2.50 + 12.00
	assert.Equal(t, "164.5", body["breakdown"].(map[string]any)["total"])

	// the same seats are now sold
	e, _ = newRequestEvent(http.MethodPost, "/api/v1/events/7/purchase", order, "user-2", "eventId", "7")
	assert.Equal(t, http.StatusConflict, apiStatus(t, s.checkout.Purchase(e)))

	e, _ = newRequestEvent(http.MethodPost, "/api/v1/events/7/purchase", map[string]any{}, "user-2", "eventId", "7")
	assert.Equal(t, http.StatusBadRequest, apiStatus(t, s.checkout.Purchase(e)))
}

func TestPurchaseSeats_MalformedSeatList(t *testing.T) {
	s := newTestServer()

	repeated := map[string]any{
		"seats": []map[string]string{
			{"section_id": "orchestra", "seat_id": "orch-1"},
			{"section_id": "orchestra", "seat_id": "orch-1"},
		},
	}
	e, rec := newRequestEvent(http.MethodPost, "/api/v1/events/7/purchase", repeated, "user-1", "eventId", "7")
	require.NoError(t, s.checkout.Purchase(e))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["fields"], "seats")

	seats := make([]map[string]string, 0, 11)
	for i := 1; i <= 11; i++ {
		seats = append(seats, map[string]string{"section_id": "orchestra", "seat_id": fmt.Sprintf("orch-%d", i)})
	}
	e, rec = newRequestEvent(http.MethodPost, "/api/v1/events/7/purchase", map[string]any{"seats": seats}, "user-1", "eventId", "7")
	require.NoError(t, s.checkout.Purchase(e))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["fields"], "seats")

	assert.Empty(t, s.inventory.sold)
}

func TestPurchaseAdmission(t *testing.T) {
	s := newTestServer()

	e, rec := newRequestEvent(http.MethodPost, "/api/v1/events/6/purchase", map[string]any{"quantity": 3}, "user-1", "eventId", "6")
	require.NoError(t, s.checkout.Purchase(e))

	tickets := decodeBody(t, rec)["tickets"].([]any)
	require.Len(t, tickets, 1)
	assert.EqualValues(t, 3, tickets[0].(map[string]any)["quantity"])
	assert.Equal(t, 3, s.inventory.admissions["6"])

	e, _ = newRequestEvent(http.MethodPost, "/api/v1/events/4/purchase", map[string]any{"quantity": 1}, "user-1", "eventId", "4")
	assert.Equal(t, http.StatusConflict, apiStatus(t, s.checkout.Purchase(e)), "sold out")
}

func TestTicketEndpoints(t *testing.T) {
	s := newTestServer()

	e, _ := newRequestEvent(http.MethodPost, "/api/v1/events/6/purchase", map[string]any{"quantity": 2}, "user-1", "eventId", "6")
	require.NoError(t, s.checkout.Purchase(e))

	e, rec := newRequestEvent(http.MethodGet, "/api/v1/tickets", nil, "user-1")
	require.NoError(t, s.ticket.ListTickets(e))
	tickets := decodeBody(t, rec)["tickets"].([]any)
	require.Len(t, tickets, 1)
	ticketID := tickets[0].(map[string]any)["id"].(string)

	e, rec = newRequestEvent(http.MethodGet, "/api/v1/events/7/tickets", nil, "user-1", "eventId", "7")
	require.NoError(t, s.ticket.ListEventTickets(e))
	assert.EqualValues(t, 0, decodeBody(t, rec)["total"])

	e, rec = newRequestEvent(http.MethodPost, "/api/v1/tickets/"+ticketID+"/refund", nil, "user-1", "ticketId", ticketID)
	require.NoError(t, s.ticket.Refund(e))
	assert.Equal(t, "refunded", decodeBody(t, rec)["ticket"].(map[string]any)["status"])
	assert.Equal(t, 0, s.inventory.admissions["6"])

	e, _ = newRequestEvent(http.MethodPost, "/api/v1/tickets/"+ticketID+"/refund", nil, "user-1", "ticketId", ticketID)
	assert.Equal(t, http.StatusConflict, apiStatus(t, s.ticket.Refund(e)))

	e, _ = newRequestEvent(http.MethodDelete, "/api/v1/tickets/"+ticketID, nil, "user-1", "ticketId", ticketID)
	require.NoError(t, s.ticket.Cancel(e))

	e, _ = newRequestEvent(http.MethodDelete, "/api/v1/tickets/"+ticketID, nil, "user-1", "ticketId", ticketID)
	assert.Equal(t, http.StatusNotFound, apiStatus(t, s.ticket.Cancel(e)))

	e, _ = newRequestEvent(http.MethodGet, "/api/v1/tickets", nil, "")
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, s.ticket.ListTickets(e)))
}

func TestPaymentCardEndpoints(t *testing.T) {
	s := newTestServer()
	card := map[string]any{
		"card_number":     "4111 1111 1111 1111",
		"cardholder_name": "Ada Lovelace",
		"expiry_month":    12,
		"expiry_year":     27,
		"cvv":             "123",
		"billing_zip":     "29401",
	}

	e, rec := newRequestEvent(http.MethodPost, "/api/v1/payment-cards", map[string]any{"cvv": "1"}, "user-1")
	require.NoError(t, s.payment.AddCard(e))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeBody(t, rec)["fields"].(map[string]any)
	assert.Equal(t, "Invalid CVV", fields["cvv"])
	assert.Equal(t, "Invalid card number", fields["card_number"])

	e, rec = newRequestEvent(http.MethodPost, "/api/v1/payment-cards", card, "user-1")
	require.NoError(t, s.payment.AddCard(e))
	assert.Equal(t, http.StatusCreated, rec.Code)
	added := decodeBody(t, rec)["card"].(map[string]any)
	assert.Equal(t, "1111", added["last4"])
	assert.NotContains(t, added, "fingerprint")
	cardID := added["id"].(string)

	e, _ = newRequestEvent(http.MethodPost, "/api/v1/payment-cards", card, "user-1")
	assert.Equal(t, http.StatusConflict, apiStatus(t, s.payment.AddCard(e)))

	e, rec = newRequestEvent(http.MethodGet, "/api/v1/payment-cards", nil, "user-1")
	require.NoError(t, s.payment.ListCards(e))
	assert.Equal(t, cardID, decodeBody(t, rec)["default_card_id"])

	e, _ = newRequestEvent(http.MethodPost, "/api/v1/payment-cards/card_x/default", nil, "user-1", "cardId", "card_x")
	assert.Equal(t, http.StatusNotFound, apiStatus(t, s.payment.SetDefault(e)))

	e, _ = newRequestEvent(http.MethodDelete, "/api/v1/payment-cards/"+cardID, nil, "user-1", "cardId", cardID)
	require.NoError(t, s.payment.DeleteCard(e))

	e, rec = newRequestEvent(http.MethodGet, "/api/v1/payment-cards", nil, "user-1")
	require.NoError(t, s.payment.ListCards(e))
	body := decodeBody(t, rec)
	assert.Empty(t, body["cards"])
	assert.NotContains(t, body, "default_card_id")
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{status.ErrNotAuthenticated, http.StatusUnauthorized},
		{status.ErrEmptySelection, http.StatusBadRequest},
		{status.ErrSeatingMode, http.StatusBadRequest},
		{status.ErrSeatUnavailable, http.StatusConflict},
		{status.ErrSeatHeld, http.StatusConflict},
		{status.ErrEventNotFound, http.StatusNotFound},
		{status.ErrCardNotFound, http.StatusNotFound},
		{errors.Join(status.ErrPersistence, errors.New("timeout")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			e, _ := newRequestEvent(http.MethodGet, "/", nil, "")
			assert.Equal(t, tt.want, apiStatus(t, respondError(e, tt.err)))
		})
	}
}
