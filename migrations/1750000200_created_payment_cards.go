package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("payment_cards")

		collection.Fields.Add(
			&core.TextField{Name: "user_id", Required: true},
			&core.TextField{Name: "item_id", Required: true},
			&core.NumberField{Name: "position", OnlyInt: true},
			&core.JSONField{Name: "payload", Required: true},
			&core.TextField{Name: "last4", Max: 4},
			&core.BoolField{Name: "is_default"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)
		collection.AddIndex("idx_payment_cards_user_item", true, "user_id, item_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("payment_cards")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
