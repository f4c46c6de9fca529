package orderstate

import (
	"github.com/opticore/lenscard-backend/internal/discount"
	"github.com/opticore/lenscard-backend/pkg/enums"
)

// LineItem is one ordered lens line with its resolved discount figures.
// Descriptive attributes pass through untouched.
type LineItem struct {
	EyeSide   enums.EyeSide
	BaseCurve string
	Power     string
	Material  string
	Dispose   string
	Brand     string
	Diameter  string
	Sph       string
	Cyl       string
	Axis      string
	LensCode  string

	Quantity        float64
	Rate            float64
	DiscountPercent float64
	DiscountAmount  float64
	FinalAmount     float64
}

func (li LineItem) discountInput() discount.Item {
	return discount.Item{
		Quantity:        li.Quantity,
		Rate:            li.Rate,
		DiscountPercent: li.DiscountPercent,
		DiscountAmount:  li.DiscountAmount,
	}
}

func (li LineItem) withResolved(r discount.Resolved) LineItem {
	li.Quantity = r.Quantity
	li.DiscountPercent = r.DiscountPercent
	li.DiscountAmount = r.DiscountAmount
	li.FinalAmount = r.FinalAmount
	return li
}

// BaseAmount is the pre-discount line value after quantity repair.
func (li LineItem) BaseAmount() float64 {
	quantity := li.Quantity
	if quantity == 0 && li.DiscountPercent > 0 {
		quantity = 1
	}
	return quantity * li.Rate
}

// State is the per-order financial aggregate. Values are immutable: every
// event produces a new State, the previous one is never mutated in place.
type State struct {
	Provenance enums.Provenance

	Items []LineItem

	Subtotal      float64
	TotalDiscount float64
	FinalTotal    float64

	CashAdvance    float64
	CardUpiAdvance float64
	ChequeAdvance  float64
	TotalAdvance   float64
	Balance        float64

	// OrderDiscount mirrors the order-level scheme amount from storage or a
	// direct user edit. It feeds the save mapping, not per-line resolution.
	OrderDiscountAmount float64

	// PendingDiscountPercent is the order-level percent box. It is applied to
	// newly added items that carry no discount of their own.
	PendingDiscountPercent float64
}

// NewState returns the empty initial state.
func NewState() State {
	return State{Provenance: enums.ProvenanceInitial}
}

func (s State) cloneItems() []LineItem {
	if len(s.Items) == 0 {
		return nil
	}
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return items
}
