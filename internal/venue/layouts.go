package venue

import "ticket-storefront/models"

type Kind string

const (
	KindCourt        Kind = "court"
	KindConcertStage Kind = "concert-stage"
	KindTheater      Kind = "theater"
	KindClub         Kind = "club"
	KindFestival     Kind = "festival"
	KindTDArena      Kind = "td-arena"
)

const (
	colorGold   = "hsl(45 100% 51%)"
	colorBlue   = "hsl(210 100% 60%)"
	colorGreen  = "hsl(120 60% 50%)"
	colorPurple = "hsl(280 60% 60%)"
	colorOrange = "hsl(25 85% 55%)"
	colorMaroon = "hsl(350 65% 35%)"
)

// gridSection describes a section whose seats fill a row-major grid.
type gridSection struct {
	id       string
	seatID   string // seat id prefix
	name     string
	price    int64
	color    string
	seats    int
	perRow   int
	originX  float64
	originY  float64
	spacingX float64
	spacingY float64
	soldProb float64
	tier     models.Tier
}

var gridLayouts = map[Kind][]gridSection{
	KindCourt: {
		{id: "floor-section", seatID: "floor", name: "Floor Section", price: 85, color: colorGold, seats: 24, perRow: 8, originX: 250, originY: 150, spacingX: 30, spacingY: 30, soldProb: 0.4, tier: models.TierPremium},
		{id: "lower-bowl-east", seatID: "lower-e", name: "Lower Bowl East", price: 65, color: colorBlue, seats: 40, perRow: 8, originX: 520, originY: 120, spacingX: 25, spacingY: 25, soldProb: 0.3, tier: models.TierPremium},
		{id: "lower-bowl-west", seatID: "lower-w", name: "Lower Bowl West", price: 65, color: colorBlue, seats: 40, perRow: 8, originX: 80, originY: 120, spacingX: 25, spacingY: 25, soldProb: 0.3, tier: models.TierPremium},
		{id: "mid-bowl-east", seatID: "mid-e", name: "Mid Bowl East", price: 45, color: colorGreen, seats: 48, perRow: 8, originX: 580, originY: 100, spacingX: 22, spacingY: 22, soldProb: 0.25, tier: models.TierStandard},
		{id: "mid-bowl-west", seatID: "mid-w", name: "Mid Bowl West", price: 45, color: colorGreen, seats: 48, perRow: 8, originX: 20, originY: 100, spacingX: 22, spacingY: 22, soldProb: 0.25, tier: models.TierStandard},
		{id: "upper-bowl", seatID: "upper", name: "Upper Bowl", price: 25, color: colorPurple, seats: 64, perRow: 16, originX: 100, originY: 50, spacingX: 28, spacingY: 20, soldProb: 0.2, tier: models.TierStandard},
	},
	KindConcertStage: {
		{id: "ga-pit", seatID: "pit", name: "GA Pit (Standing)", price: 75, color: colorGold, seats: 20, perRow: 10, originX: 120, originY: 200, spacingX: 30, spacingY: 35, soldProb: 0.5, tier: models.TierPremium},
		{id: "floor-reserved", seatID: "floor-res", name: "Floor Reserved", price: 60, color: colorBlue, seats: 40, perRow: 10, originX: 150, originY: 280, spacingX: 28, spacingY: 28, soldProb: 0.35, tier: models.TierPremium},
		{id: "lower-bowl-concert", seatID: "lower-con", name: "Lower Bowl", price: 45, color: colorGreen, seats: 50, perRow: 10, originX: 200, originY: 350, spacingX: 26, spacingY: 26, soldProb: 0.3, tier: models.TierStandard},
		{id: "upper-bowl-concert", seatID: "upper-con", name: "Upper Bowl", price: 30, color: colorPurple, seats: 60, perRow: 12, originX: 150, originY: 420, spacingX: 30, spacingY: 24, soldProb: 0.25, tier: models.TierStandard},
	},
	KindTheater: {
		{id: "orchestra", seatID: "orch", name: "Orchestra", price: 75, color: colorGold, seats: 48, perRow: 12, originX: 200, originY: 300, spacingX: 30, spacingY: 30, soldProb: 0.4, tier: models.TierPremium},
		{id: "mezzanine", seatID: "mezz", name: "Mezzanine", price: 55, color: colorBlue, seats: 36, perRow: 12, originX: 220, originY: 420, spacingX: 28, spacingY: 28, soldProb: 0.3, tier: models.TierStandard},
		{id: "balcony", seatID: "balc", name: "Balcony", price: 35, color: colorGreen, seats: 30, perRow: 10, originX: 250, originY: 500, spacingX: 28, spacingY: 26, soldProb: 0.2, tier: models.TierStandard},
	},
	KindClub: {
		{id: "ga-floor", seatID: "ga", name: "GA Floor", price: 35, color: colorGold, seats: 30, perRow: 10, originX: 250, originY: 250, spacingX: 30, spacingY: 35, soldProb: 0.5, tier: models.TierStandard},
		{id: "reserved-gallery", seatID: "gallery", name: "Reserved Gallery", price: 50, color: colorBlue, seats: 20, perRow: 10, originX: 150, originY: 200, spacingX: 28, spacingY: 28, soldProb: 0.35, tier: models.TierPremium},
	},
	KindFestival: {
		{id: "vip-section", seatID: "vip", name: "VIP Zone", price: 95, color: colorGold, seats: 24, perRow: 8, originX: 280, originY: 200, spacingX: 32, spacingY: 32, soldProb: 0.5, tier: models.TierPremium},
		{id: "reserved-grandstand", seatID: "reserved", name: "Reserved Grandstand", price: 65, color: colorBlue, seats: 40, perRow: 10, originX: 220, originY: 280, spacingX: 32, spacingY: 30, soldProb: 0.35, tier: models.TierPremium},
		{id: "lawn-ga", seatID: "lawn", name: "Lawn / GA", price: 40, color: colorGreen, seats: 50, perRow: 10, originX: 200, originY: 380, spacingX: 35, spacingY: 28, soldProb: 0.25, tier: models.TierStandard},
	},
}

// arenaSection is one block of the zoomable arena map.
type arenaSection struct {
	id    string
	price int64
	x, y  float64
	tier  models.Tier
}

const (
	arenaSoldProb      = 0.35
	arenaFrontRows     = 3
	arenaFrontRowBump  = 2
	arenaSeatSpacing   = 35
	premiumPriceFloor  = 45
	arenaRows          = 6
	arenaSeatsPerRow   = 10
	studentRows        = 8
	studentSeatsPerRow = 12
)

var arenaSections = []arenaSection{
	// lower bowl
	{id: "205", price: 52, x: 460, y: 140, tier: models.TierLower},
	{id: "115", price: 35, x: 760, y: 220, tier: models.TierLower},
	{id: "114", price: 34, x: 760, y: 380, tier: models.TierLower},
	{id: "113", price: 34, x: 760, y: 540, tier: models.TierLower},
	{id: "105", price: 35, x: 160, y: 220, tier: models.TierLower},
	{id: "106", price: 34, x: 160, y: 380, tier: models.TierLower},
	{id: "107", price: 34, x: 160, y: 540, tier: models.TierLower},
	{id: "101", price: 29, x: 260, y: 620, tier: models.TierLower},
	{id: "102", price: 28, x: 380, y: 640, tier: models.TierLower},
	{id: "103", price: 28, x: 540, y: 640, tier: models.TierLower},
	{id: "104", price: 29, x: 660, y: 620, tier: models.TierLower},
	{id: "111", price: 29, x: 660, y: 100, tier: models.TierLower},
	{id: "112", price: 28, x: 540, y: 80, tier: models.TierLower},
	{id: "108", price: 28, x: 380, y: 80, tier: models.TierLower},
	{id: "109", price: 29, x: 260, y: 100, tier: models.TierLower},
	// upper bowl
	{id: "209", price: 30, x: 840, y: 280, tier: models.TierUpper},
	{id: "211", price: 23, x: 840, y: 420, tier: models.TierUpper},
	{id: "214", price: 21, x: 80, y: 280, tier: models.TierUpper},
	{id: "215", price: 19, x: 80, y: 420, tier: models.TierUpper},
	{id: "210", price: 23, x: 460, y: 60, tier: models.TierUpper},
	{id: "212", price: 20, x: 460, y: 700, tier: models.TierUpper},
	// student
	{id: "B11", price: 10, x: 20, y: 160, tier: models.TierStudent},
	{id: "B12", price: 10, x: 20, y: 580, tier: models.TierStudent},
	{id: "B13", price: 10, x: 900, y: 160, tier: models.TierStudent},
	{id: "B14", price: 10, x: 900, y: 580, tier: models.TierStudent},
}

// arenaColor shades a section by its base price.
func arenaColor(price int64) string {
	switch {
	case price >= premiumPriceFloor:
		return colorMaroon
	case price >= 30:
		return colorOrange
	case price >= 20:
		return colorGold
	default:
		return colorBlue
	}
}
