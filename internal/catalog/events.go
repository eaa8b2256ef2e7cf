package catalog

import (
	"ticket-storefront/models"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

// DefaultEvents seeds development catalogs.
func DefaultEvents() []models.Event {
	return []models.Event{
		{
			ID: "1", Title: "Summer Music Festival", Category: models.CategoryMaxCapacity, Subcategory: "Pop/Rock",
			Date: "2024-07-15", Time: "6:00 PM", Location: "Central Park, New York",
			Price: decimal.NewFromInt(89), CapacityMax: intPtr(5000), TicketsSold: 4350,
			MaxTicketsPerPurchase: intPtr(10), IsFeatured: true,
		},
		{
			ID: "2", Title: "Lakers vs Warriors", Category: models.CategoryBigArena, Subcategory: "Basketball",
			Date: "2024-06-20", Time: "8:00 PM", Location: "TD Arena, Charleston",
			Price: decimal.NewFromInt(150), HasReservedSeating: true, VenueLayout: "td-arena", IsFeatured: true,
		},
		{
			ID: "3", Title: "Yoga & Meditation Workshop", Category: models.CategoryMaxCapacity, Subcategory: "Wellness",
			Date: "2024-06-10", Time: "10:00 AM", Location: "Zen Studio, San Francisco",
			Price: decimal.NewFromInt(45), CapacityMax: intPtr(40), TicketsSold: 12, MaxTicketsPerPurchase: intPtr(5),
		},
		{
			ID: "4", Title: "Electronic Dance Night", Category: models.CategoryMaxCapacity, Subcategory: "Electronic/EDM",
			Date: "2024-07-01", Time: "10:00 PM", Location: "Warehouse District, Miami",
			Price: decimal.NewFromInt(65), CapacityMax: intPtr(800), TicketsSold: 800, MaxTicketsPerPurchase: intPtr(8),
			IsAgeRestricted: true,
		},
		{
			ID: "5", Title: "Arena Concert Night", Category: models.CategoryBigArena, Subcategory: "Concert",
			Date: "2024-06-25", Time: "7:30 PM", Location: "TD Arena, Charleston",
			Price: decimal.NewFromInt(60), HasReservedSeating: true, VenueLayout: "concert-stage", IsFeatured: true,
		},
		{
			ID: "6", Title: "Food & Wine Tasting Experience", Category: models.CategoryMaxCapacity, Subcategory: "Culinary",
			Date: "2024-06-18", Time: "7:00 PM", Location: "Gourmet Plaza, Chicago",
			Price: decimal.NewFromInt(95), MaxTicketsPerPurchase: intPtr(6), IsAgeRestricted: true,
		},
		{
			ID: "7", Title: "An Evening at the Playhouse", Category: models.CategorySelectedSeats, Subcategory: "Theater",
			Date: "2024-08-02", Time: "7:00 PM", Location: "Dock Street Theatre, Charleston",
			Price: decimal.NewFromInt(55), HasReservedSeating: true, VenueLayout: "theater",
		},
		{
			ID: "8", Title: "College Basketball Showcase", Category: models.CategoryBigArena, Subcategory: "Basketball",
			Date: "2024-11-12", Time: "7:00 PM", Location: "TD Arena, Charleston",
			Price: decimal.NewFromInt(25), HasReservedSeating: true, VenueLayout: "court",
		},
	}
}
