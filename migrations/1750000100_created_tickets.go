package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.TextField{Name: "user_id", Required: true},
			&core.TextField{Name: "item_id", Required: true},
			&core.NumberField{Name: "position", OnlyInt: true},
			&core.JSONField{Name: "payload", Required: true},
			&core.TextField{Name: "event_id"},
			&core.TextField{Name: "reference_code"},
			&core.SelectField{
				Name:      "status",
				MaxSelect: 1,
				Values:    []string{"selected", "purchased", "refunded"},
			},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)
		collection.AddIndex("idx_tickets_user_item", true, "user_id, item_id", "")
		collection.AddIndex("idx_tickets_reference_code", false, "reference_code", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
