package discount

import (
	"github.com/opticore/lenscard-backend/pkg/money"
)

// Item is the minimal line input the resolver needs.
type Item struct {
	Quantity        float64
	Rate            float64
	DiscountPercent float64
	DiscountAmount  float64
}

// Resolved carries the repaired quantity and the fully derived discount
// figures for one line.
type Resolved struct {
	Quantity        float64
	BaseAmount      float64
	DiscountPercent float64
	DiscountAmount  float64
	FinalAmount     float64
}

// Resolve applies the repair rule and derives whichever of percent/amount is
// missing, then computes the final amount floored at zero.
//
// A zero quantity paired with a positive discount percent signals a real
// purchase whose quantity failed to parse upstream; the quantity is forced to
// one so the base amount becomes the unit rate.
func Resolve(item Item) Resolved {
	quantity := item.Quantity
	if quantity == 0 && item.DiscountPercent > 0 {
		quantity = 1
	}

	base := quantity * item.Rate
	percent := item.DiscountPercent
	amount := item.DiscountAmount

	if base == 0 {
		// Nothing to divide by. The final amount falls back to the rate
		// discounted directly, which is zero whenever rate is zero too.
		final := money.Round2(item.Rate * (1 - percent/100))
		if final < 0 {
			final = 0
		}
		return Resolved{
			Quantity:        quantity,
			BaseAmount:      0,
			DiscountPercent: percent,
			DiscountAmount:  money.Round2(amount),
			FinalAmount:     final,
		}
	}

	switch {
	case percent > 0 && amount == 0:
		amount = money.PercentOf(base, percent)
	case amount > 0 && percent == 0:
		percent = money.PercentFrom(amount, base)
	}

	final := money.Round2(base - amount)
	if final < 0 {
		final = 0
	}

	return Resolved{
		Quantity:        quantity,
		BaseAmount:      base,
		DiscountPercent: percent,
		DiscountAmount:  amount,
		FinalAmount:     final,
	}
}

// AllocateOrderDiscount distributes a single order-level discount across
// items that carry no discount data of their own.
//
// A percentage applies independently to every item's base amount. An absolute
// amount is split proportionally to each item's share of the pre-discount
// subtotal, and each item's effective percent is derived back from its
// allocated amount.
func AllocateOrderDiscount(items []Item, orderPercent, orderAmount float64) []Resolved {
	resolved := make([]Resolved, len(items))

	if orderPercent > 0 {
		for i, item := range items {
			item.DiscountPercent = orderPercent
			item.DiscountAmount = 0
			resolved[i] = Resolve(item)
		}
		return resolved
	}

	// Repair quantities first so the subtotal matches what each line will
	// actually be billed at.
	subtotal := 0.0
	bases := make([]float64, len(items))
	quantities := make([]float64, len(items))
	for i, item := range items {
		quantity := item.Quantity
		if quantity == 0 && item.DiscountPercent > 0 {
			quantity = 1
		}
		quantities[i] = quantity
		bases[i] = quantity * item.Rate
		subtotal += bases[i]
	}

	for i, item := range items {
		base := bases[i]
		allocated := money.Share(orderAmount, base, subtotal)
		percent := money.PercentFrom(allocated, base)
		final := money.Round2(base - allocated)
		if final < 0 {
			final = 0
		}
		if base == 0 {
			final = money.Round2(item.Rate * (1 - percent/100))
			if final < 0 {
				final = 0
			}
		}
		resolved[i] = Resolved{
			Quantity:        quantities[i],
			BaseAmount:      base,
			DiscountPercent: percent,
			DiscountAmount:  allocated,
			FinalAmount:     final,
		}
	}
	return resolved
}

// AllItemsUndiscounted reports whether no item carries its own discount data,
// the precondition for applying an order-level discount via allocation.
func AllItemsUndiscounted(items []Item) bool {
	for _, item := range items {
		if item.DiscountPercent > 0 || item.DiscountAmount > 0 {
			return false
		}
	}
	return true
}
