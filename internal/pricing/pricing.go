// Package pricing computes order breakdowns. All arithmetic is decimal;
// only the reported figures are rounded to cents.
package pricing

import (
	"ticket-storefront/internal/selection"

	"github.com/shopspring/decimal"
)

var (
	DefaultServiceFee = decimal.RequireFromString("2.50")
	DefaultTaxRate    = decimal.RequireFromString("0.08")
)

// Policy holds the flat per-order service fee and the tax rate applied to the subtotal.
type Policy struct {
	ServiceFee decimal.Decimal
	TaxRate    decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{ServiceFee: DefaultServiceFee, TaxRate: DefaultTaxRate}
}

type Breakdown struct {
	Items      int             `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	ServiceFee decimal.Decimal `json:"service_fee"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}

func (b Breakdown) IsEmpty() bool {
	return b.Items == 0
}

// Seats prices a reserved-seat selection; each seat's own price wins over
// its section price.
func (p Policy) Seats(seats []selection.SelectedSeat) Breakdown {
	subtotal := decimal.Zero
	for _, s := range seats {
		subtotal = subtotal.Add(s.Section.SeatPrice(s.Seat))
	}
	return p.breakdown(len(seats), subtotal)
}

// Admission prices count general-admission tickets at unitPrice each.
func (p Policy) Admission(unitPrice decimal.Decimal, count int) Breakdown {
	if count < 0 {
		count = 0
	}
	return p.breakdown(count, unitPrice.Mul(decimal.NewFromInt(int64(count))))
}

func (p Policy) breakdown(items int, subtotal decimal.Decimal) Breakdown {
	if items == 0 {
		return Breakdown{
			Subtotal:   decimal.Zero,
			ServiceFee: decimal.Zero,
			Tax:        decimal.Zero,
			Total:      decimal.Zero,
		}
	}

	tax := subtotal.Mul(p.TaxRate)
	total := subtotal.Add(p.ServiceFee).Add(tax)

	return Breakdown{
		Items:      items,
		Subtotal:   subtotal.Round(2),
		ServiceFee: p.ServiceFee.Round(2),
		Tax:        tax.Round(2),
		Total:      total.Round(2),
	}
}
