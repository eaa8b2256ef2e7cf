package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ticket-storefront/internal/clock"
	"ticket-storefront/internal/status"
	"ticket-storefront/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

const EventsCollection = "events"

// PocketBase reads events from the "events" collection.
type PocketBase struct {
	app   core.App
	clock clock.Clock
}

func NewPocketBase(app core.App, clk clock.Clock) *PocketBase {
	return &PocketBase{app: app, clock: clk}
}

func (p *PocketBase) Get(_ context.Context, id string) (models.Event, error) {
	record, err := p.app.FindFirstRecordByFilter(EventsCollection, "event_id = {:id}", dbx.Params{"id": id})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, status.ErrEventNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("find event %s: %w", id, err)
	}

	event := eventFromRecord(record)
	event.Date = RollToFuture(event.Date, p.clock.Now())
	return event, nil
}

func (p *PocketBase) List(_ context.Context, filter Filter) ([]models.Event, error) {
	var exprs []dbx.Expression
	if filter.Category != "" {
		exprs = append(exprs, dbx.HashExp{"category": string(filter.Category)})
	}

	records, err := p.app.FindAllRecords(EventsCollection, exprs...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	now := p.clock.Now()
	events := make([]models.Event, 0, len(records))
	for _, r := range records {
		e := eventFromRecord(r)
		e.Date = RollToFuture(e.Date, now)
		if filter.Matches(e) {
			events = append(events, e)
		}
	}
	SortByDate(events)
	return events, nil
}

// Seed inserts the given events when the collection is empty.
func (p *PocketBase) Seed(events []models.Event) error {
	total, err := p.app.CountRecords(EventsCollection)
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if total > 0 {
		return nil
	}

	collection, err := p.app.FindCollectionByNameOrId(EventsCollection)
	if err != nil {
		return fmt.Errorf("find events collection: %w", err)
	}

	return p.app.RunInTransaction(func(txApp core.App) error {
		for _, e := range events {
			record := core.NewRecord(collection)
			eventToRecord(record, e)
			if err := txApp.Save(record); err != nil {
				return fmt.Errorf("seed event %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func eventFromRecord(r *core.Record) models.Event {
	e := models.Event{
		ID:                 r.GetString("event_id"),
		Title:              r.GetString("title"),
		Category:           models.EventCategory(r.GetString("category")),
		Subcategory:        r.GetString("subcategory"),
		Date:               r.GetString("date"),
		Time:               r.GetString("time"),
		Location:           r.GetString("location"),
		Price:              decimal.NewFromFloat(r.GetFloat("price")),
		TicketsSold:        r.GetInt("tickets_sold"),
		HasReservedSeating: r.GetBool("has_reserved_seating"),
		VenueLayout:        r.GetString("venue_layout"),
		IsAgeRestricted:    r.GetBool("is_age_restricted"),
		IsFeatured:         r.GetBool("is_featured"),
	}
	if v := r.GetInt("capacity_max"); v > 0 {
		e.CapacityMax = &v
	}
	if v := r.GetInt("max_tickets_per_purchase"); v > 0 {
		e.MaxTicketsPerPurchase = &v
	}
	return e
}

func eventToRecord(r *core.Record, e models.Event) {
	price, _ := e.Price.Float64()
	r.Set("event_id", e.ID)
	r.Set("title", e.Title)
	r.Set("category", string(e.Category))
	r.Set("subcategory", e.Subcategory)
	r.Set("date", e.Date)
	r.Set("time", e.Time)
	r.Set("location", e.Location)
	r.Set("price", price)
	r.Set("tickets_sold", e.TicketsSold)
	r.Set("has_reserved_seating", e.HasReservedSeating)
	r.Set("venue_layout", e.VenueLayout)
	r.Set("is_age_restricted", e.IsAgeRestricted)
	r.Set("is_featured", e.IsFeatured)
	if e.CapacityMax != nil {
		r.Set("capacity_max", *e.CapacityMax)
	}
	if e.MaxTicketsPerPurchase != nil {
		r.Set("max_tickets_per_purchase", *e.MaxTicketsPerPurchase)
	}
}
