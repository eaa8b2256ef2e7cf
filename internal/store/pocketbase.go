package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

const (
	TicketsCollection = "tickets"
	CardsCollection   = "payment_cards"
)

// Columns copies searchable fields of a record into their own collection
// columns next to the JSON payload.
type Columns[T Record] func(item T) map[string]any

// PocketBase keeps one row per record with user_id, item_id, position and
// the JSON payload. Mutations run inside a single transaction.
type PocketBase[T Record] struct {
	app        core.App
	collection string
	columns    Columns[T]
}

func NewPocketBase[T Record](app core.App, collection string, columns Columns[T]) *PocketBase[T] {
	return &PocketBase[T]{app: app, collection: collection, columns: columns}
}

func (p *PocketBase[T]) LoadAll(_ context.Context, userID string) ([]T, error) {
	records, err := p.find(p.app, userID)
	if err != nil {
		return nil, err
	}
	return p.decode(records)
}

func (p *PocketBase[T]) Mutate(ctx context.Context, userID string, fn func([]T) ([]T, error)) error {
	return p.app.RunInTransaction(func(txApp core.App) error {
		records, err := p.find(txApp, userID)
		if err != nil {
			return err
		}
		cur, err := p.decode(records)
		if err != nil {
			return err
		}

		byID := make(map[string]*core.Record, len(records))
		for _, r := range records {
			byID[r.GetString("item_id")] = r
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}

		collection, err := txApp.FindCollectionByNameOrId(p.collection)
		if err != nil {
			return fmt.Errorf("find collection %s: %w", p.collection, err)
		}

		kept := make(map[string]bool, len(next))
		for i, item := range next {
			id := item.RecordID()
			record, ok := byID[id]
			if !ok {
				record = core.NewRecord(collection)
				record.Set("user_id", userID)
				record.Set("item_id", id)
			}

			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("encode %s %s: %w", p.collection, id, err)
			}
			record.Set("payload", types.JSONRaw(data))
			record.Set("position", i)
			if p.columns != nil {
				for k, v := range p.columns(item) {
					record.Set(k, v)
				}
			}

			if err := txApp.SaveWithContext(ctx, record); err != nil {
				return fmt.Errorf("save %s %s: %w", p.collection, id, err)
			}
			kept[id] = true
		}

		for id, record := range byID {
			if kept[id] {
				continue
			}
			if err := txApp.DeleteWithContext(ctx, record); err != nil {
				return fmt.Errorf("delete %s %s: %w", p.collection, id, err)
			}
		}
		return nil
	})
}

func (p *PocketBase[T]) find(app core.App, userID string) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		p.collection,
		"user_id = {:userId}",
		"position",
		0,
		0,
		dbx.Params{"userId": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("find %s for %s: %w", p.collection, userID, err)
	}
	return records, nil
}

func (p *PocketBase[T]) decode(records []*core.Record) ([]T, error) {
	items := make([]T, 0, len(records))
	for _, r := range records {
		var item T
		if err := r.UnmarshalJSONField("payload", &item); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", p.collection, r.Id, err)
		}
		items = append(items, item)
	}
	return items, nil
}
