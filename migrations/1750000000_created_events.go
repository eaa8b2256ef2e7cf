package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("events")

		collection.Fields.Add(
			&core.TextField{Name: "event_id", Required: true},
			&core.TextField{Name: "title", Required: true},
			&core.SelectField{
				Name:      "category",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"Big Arena", "Selected Seats", "Max Capacity"},
			},
			&core.TextField{Name: "subcategory"},
			&core.TextField{Name: "date", Required: true, Pattern: `^\d{4}-\d{2}-\d{2}$`},
			&core.TextField{Name: "time"},
			&core.TextField{Name: "location"},
			&core.NumberField{Name: "price"},
			&core.NumberField{Name: "capacity_max", OnlyInt: true},
			&core.NumberField{Name: "tickets_sold", OnlyInt: true},
			&core.NumberField{Name: "max_tickets_per_purchase", OnlyInt: true},
			&core.BoolField{Name: "has_reserved_seating"},
			&core.TextField{Name: "venue_layout"},
			&core.BoolField{Name: "is_age_restricted"},
			&core.BoolField{Name: "is_featured"},
		)
		collection.AddIndex("idx_events_event_id", true, "event_id", "")
		collection.AddIndex("idx_events_category", false, "category", "")

		// public catalog
		collection.ListRule = types.Pointer("")
		collection.ViewRule = types.Pointer("")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
