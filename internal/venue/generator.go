package venue

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"ticket-storefront/internal/status"
	"ticket-storefront/models"

	"github.com/shopspring/decimal"
)

type options struct {
	rng *rand.Rand
}

type Option func(*options)

// WithRand marks seats sold at random using each section's sold probability.
// Without it every seat is generated available and real availability is
// applied afterwards from inventory.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// DemoRand returns a generator seeded from the event id, so demo layouts
// keep the same sold seats across page loads.
func DemoRand(eventID string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(eventID))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func Kinds() []Kind {
	return []Kind{KindCourt, KindConcertStage, KindTheater, KindClub, KindFestival, KindTDArena}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", status.ErrUnknownLayout, s)
}

// KindForEvent picks the layout for an event: its explicit venue layout when
// set, otherwise one derived from its category and subcategory.
func KindForEvent(event models.Event) Kind {
	if k, err := ParseKind(event.VenueLayout); err == nil {
		return k
	}

	sub := strings.ToLower(event.Subcategory)
	switch event.Category {
	case models.CategoryBigArena:
		switch {
		case strings.Contains(sub, "concert"), strings.Contains(sub, "music"):
			return KindConcertStage
		case strings.Contains(sub, "basketball"):
			return KindTDArena
		default:
			return KindCourt
		}
	default:
		switch {
		case strings.Contains(sub, "festival"):
			return KindFestival
		case strings.Contains(sub, "club"), strings.Contains(sub, "comedy"):
			return KindClub
		default:
			return KindTheater
		}
	}
}

func modeFor(kind Kind) models.PresentationMode {
	switch kind {
	case KindTDArena:
		return models.ModeArena
	case KindCourt, KindConcertStage:
		return models.ModeDrilldown
	default:
		return models.ModeGrid
	}
}

// Generate builds the section and seat map for a venue kind.
func Generate(kind Kind, opts ...Option) (models.Layout, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	layout := models.Layout{Kind: string(kind), Mode: modeFor(kind)}

	if kind == KindTDArena {
		layout.Sections = generateArena(o.rng)
		return layout, nil
	}

	defs, ok := gridLayouts[kind]
	if !ok {
		return models.Layout{}, fmt.Errorf("%w: %q", status.ErrUnknownLayout, kind)
	}

	layout.Sections = make([]models.Section, 0, len(defs))
	for _, def := range defs {
		layout.Sections = append(layout.Sections, generateGrid(def, o.rng))
	}
	return layout, nil
}

func generateGrid(def gridSection, rng *rand.Rand) models.Section {
	price := decimal.NewFromInt(def.price)
	section := models.Section{
		ID:       def.id,
		Name:     def.name,
		Tier:     def.tier,
		Price:    price,
		MaxPrice: price,
		Color:    def.color,
		Seats:    make([]models.Seat, 0, def.seats),
	}

	for i := 0; i < def.seats; i++ {
		row, col := i/def.perRow, i%def.perRow
		section.Seats = append(section.Seats, models.Seat{
			ID:          fmt.Sprintf("%s-%d", def.seatID, i),
			Row:         rowLabel(row),
			Number:      col + 1,
			Price:       price,
			IsAvailable: available(rng, def.soldProb),
			X:           def.originX + float64(col)*def.spacingX,
			Y:           def.originY + float64(row)*def.spacingY,
		})
	}
	section.Position = models.Point{X: def.originX, Y: def.originY}
	return section
}

func generateArena(rng *rand.Rand) []models.Section {
	sections := make([]models.Section, 0, len(arenaSections))

	for _, def := range arenaSections {
		rows, perRow := arenaRows, arenaSeatsPerRow
		name := "Section " + def.id
		if def.tier == models.TierStudent {
			rows, perRow = studentRows, studentSeatsPerRow
			name = "Student Section " + def.id
		}

		base := decimal.NewFromInt(def.price)
		front := decimal.NewFromInt(def.price + arenaFrontRowBump)
		section := models.Section{
			ID:            def.id,
			Name:          name,
			DisplayNumber: def.id,
			Tier:          def.tier,
			Price:         base,
			MaxPrice:      front,
			Color:         arenaColor(def.price),
			Position:      models.Point{X: def.x, Y: def.y},
			Seats:         make([]models.Seat, 0, rows*perRow),
		}

		for r := 0; r < rows; r++ {
			price := base
			if r < arenaFrontRows {
				price = front
			}
			for s := 0; s < perRow; s++ {
				section.Seats = append(section.Seats, models.Seat{
					ID:          fmt.Sprintf("%s-%d-%d", def.id, r, s),
					Row:         rowLabel(r),
					Number:      s + 1,
					Price:       price,
					IsAvailable: available(rng, arenaSoldProb),
					X:           float64(s * arenaSeatSpacing),
					Y:           float64(r * arenaSeatSpacing),
				})
			}
		}
		sections = append(sections, section)
	}
	return sections
}

func available(rng *rand.Rand, soldProb float64) bool {
	if rng == nil {
		return true
	}
	return rng.Float64() >= soldProb
}

// rowLabel maps 0 to "A", 25 to "Z", 26 to "AA".
func rowLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}
