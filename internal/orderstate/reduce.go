package orderstate

import (
	"fmt"

	"github.com/opticore/lenscard-backend/internal/discount"
	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/pkg/enums"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
	"github.com/opticore/lenscard-backend/pkg/money"
)

// Reduce applies one event to the previous state and returns the successor
// state plus the recalculation decision taken along the way. On error the
// previous state is returned untouched.
func Reduce(prev State, ev Event, loading bool) (State, Decision, error) {
	switch e := ev.(type) {
	case RecordLoaded:
		return reduceRecordLoaded(e.Record), DecisionSkippedNoop, nil
	case FieldEdited:
		return reduceFieldEdited(prev, e, loading)
	case ItemAdded:
		return reduceItemsChanged(prev, append(prev.cloneItems(), e.Item), loading)
	case ItemsReplaced:
		items := make([]LineItem, len(e.Items))
		copy(items, e.Items)
		return reduceItemsChanged(prev, items, loading)
	case DiscountApplied:
		return reduceDiscountApplied(prev, e, loading)
	case Cleared:
		return NewState(), DecisionSkippedNoop, nil
	default:
		return prev, DecisionSkippedNoop, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown event %T", ev))
	}
}

// reduceRecordLoaded hydrates state from storage. Line items are normalized
// and repaired, but the stored financial summary is copied verbatim: the
// formula may not be able to reproduce historical totals and must not try.
func reduceRecordLoaded(record normalize.CanonicalRecord) State {
	next := NewState()
	next.Provenance = enums.ProvenanceDatabaseValues

	inputs := make([]discount.Item, len(record.Items))
	for i, item := range record.Items {
		inputs[i] = discount.Item{
			Quantity:        item.Quantity,
			Rate:            item.Rate,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
		}
	}

	payment := record.Payment
	orderPercent := payment.DiscountPercent
	orderAmount := payment.DiscountAmount

	var resolved []discount.Resolved
	if len(inputs) > 0 && (orderPercent > 0 || orderAmount > 0) && discount.AllItemsUndiscounted(inputs) {
		resolved = discount.AllocateOrderDiscount(inputs, orderPercent, orderAmount)
	} else {
		resolved = make([]discount.Resolved, len(inputs))
		for i, input := range inputs {
			resolved[i] = discount.Resolve(input)
		}
	}

	next.Items = make([]LineItem, len(record.Items))
	for i, item := range record.Items {
		next.Items[i] = LineItem{
			EyeSide:   item.EyeSide,
			BaseCurve: item.BaseCurve,
			Power:     item.Power,
			Material:  item.Material,
			Dispose:   item.Dispose,
			Brand:     item.Brand,
			Diameter:  item.Diameter,
			Sph:       item.Sph,
			Cyl:       item.Cyl,
			Axis:      item.Axis,
			LensCode:  item.LensCode,
			Quantity:  item.Quantity,
			Rate:      item.Rate,
		}.withResolved(resolved[i])
	}

	// The stored "estimate" is the pre-discount total, not a quote figure.
	next.Subtotal = payment.Estimate
	next.TotalDiscount = payment.DiscountAmount
	next.FinalTotal = payment.PaymentTotal
	next.CashAdvance = payment.CashAdvance
	next.CardUpiAdvance = payment.CardUpiAdvance
	next.ChequeAdvance = payment.ChequeAdvance
	next.TotalAdvance = payment.Advance
	next.Balance = payment.Balance
	if next.Balance < 0 {
		next.Balance = 0
	}
	next.OrderDiscountAmount = payment.DiscountAmount
	next.PendingDiscountPercent = payment.DiscountPercent
	return next
}

func reduceFieldEdited(prev State, ev FieldEdited, loading bool) (State, Decision, error) {
	if loading {
		return prev, DecisionBlockedLoading, pkgerrors.New(pkgerrors.CodeStateConflict, "record load in progress")
	}
	if !ev.Field.IsValid() {
		return prev, DecisionSkippedNoop, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment field %q", ev.Field))
	}
	if ev.Value < 0 {
		return prev, DecisionSkippedNoop, pkgerrors.New(pkgerrors.CodeValidation, "payment value must be non-negative")
	}

	next := prev
	next.Items = prev.cloneItems()
	switch ev.Field {
	case enums.PaymentFieldCashAdvance:
		next.CashAdvance = ev.Value
	case enums.PaymentFieldCardUpiAdvance:
		next.CardUpiAdvance = ev.Value
	case enums.PaymentFieldChequeAdvance:
		next.ChequeAdvance = ev.Value
	case enums.PaymentFieldDiscountAmount:
		next.OrderDiscountAmount = ev.Value
	}
	next.Provenance = enums.ProvenanceUserInput

	next, decision := Aggregate(next, true, loading)
	return next, decision, nil
}

// reduceItemsChanged handles both add and replace. Item mutations are an
// unambiguous user action and always escape the provenance guard.
func reduceItemsChanged(prev State, items []LineItem, loading bool) (State, Decision, error) {
	if loading {
		return prev, DecisionBlockedLoading, pkgerrors.New(pkgerrors.CodeStateConflict, "record load in progress")
	}

	next := prev
	next.Items = items
	if next.PendingDiscountPercent > 0 {
		for i := range next.Items {
			if next.Items[i].DiscountPercent == 0 && next.Items[i].DiscountAmount == 0 {
				next.Items[i].DiscountPercent = next.PendingDiscountPercent
			}
		}
	}
	next.Provenance = enums.ProvenanceUserInput

	next, decision := Aggregate(next, true, loading)
	return next, decision, nil
}

func reduceDiscountApplied(prev State, ev DiscountApplied, loading bool) (State, Decision, error) {
	if loading {
		return prev, DecisionBlockedLoading, pkgerrors.New(pkgerrors.CodeStateConflict, "record load in progress")
	}
	if ev.Percent < 0 || ev.Percent > 100 {
		return prev, DecisionSkippedNoop, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100")
	}
	if prev.Provenance == enums.ProvenanceDatabaseValues && !ev.Confirmed {
		return prev, DecisionBlockedProvenance, pkgerrors.New(pkgerrors.CodeStateConflict, "confirmation required to overwrite stored totals")
	}

	next := prev
	next.Items = prev.cloneItems()
	next.PendingDiscountPercent = ev.Percent
	for i := range next.Items {
		next.Items[i].DiscountPercent = ev.Percent
		next.Items[i].DiscountAmount = 0
	}
	next.Provenance = enums.ProvenanceUserInput

	next, decision := Aggregate(next, true, loading)
	return next, decision, nil
}

// Aggregate recomputes order totals from line items and advances. The
// decision comes from the provenance machine; forceManual marks an explicit
// user action. A non-forced call against an already populated total is a
// no-op so that benign re-triggers cannot drift stored figures.
func Aggregate(s State, forceManual, loading bool) (State, Decision) {
	decision := Decide(s.Provenance, forceManual, loading)
	if decision != DecisionPerformed {
		return s, decision
	}
	if !forceManual && s.FinalTotal > 0 {
		return s, DecisionSkippedNoop
	}

	items := make([]LineItem, len(s.Items))
	var subtotal, totalDiscount, finalTotal float64
	for i, li := range s.Items {
		resolved := discount.Resolve(li.discountInput())
		items[i] = li.withResolved(resolved)
		subtotal += resolved.BaseAmount
		totalDiscount += resolved.DiscountAmount
		finalTotal += resolved.FinalAmount
	}

	s.Items = items
	s.Subtotal = money.Round2(subtotal)
	s.TotalDiscount = money.Round2(totalDiscount)
	s.FinalTotal = money.Round2(finalTotal)
	s.TotalAdvance = money.Round2(s.CashAdvance + s.CardUpiAdvance + s.ChequeAdvance)
	balance := money.Round2(s.FinalTotal - s.TotalAdvance)
	if balance < 0 {
		balance = 0
	}
	s.Balance = balance
	return s, DecisionPerformed
}
