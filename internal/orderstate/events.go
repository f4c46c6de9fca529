package orderstate

import (
	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/pkg/enums"
)

// Event is one tagged mutation applied to an order session. Events are the
// only way state changes; handlers never poke fields directly.
type Event interface {
	eventName() string
}

// RecordLoaded carries a normalized persisted record. Loading copies the
// stored financial summary verbatim and never recomputes it.
type RecordLoaded struct {
	Record normalize.CanonicalRecord
}

// FieldEdited is a typed edit of one payment-affecting field.
type FieldEdited struct {
	Field enums.PaymentField
	Value float64
}

// ItemAdded appends one line item. Item mutations always force a recompute.
type ItemAdded struct {
	Item LineItem
}

// ItemsReplaced swaps the full line item set.
type ItemsReplaced struct {
	Items []LineItem
}

// DiscountApplied applies an order-level percentage to every line. When the
// current values came from storage, Confirmed must be set or the event is
// rejected.
type DiscountApplied struct {
	Percent   float64
	Confirmed bool
}

// Cleared resets the session to the empty initial state.
type Cleared struct{}

func (RecordLoaded) eventName() string    { return "record_loaded" }
func (FieldEdited) eventName() string     { return "field_edited" }
func (ItemAdded) eventName() string       { return "item_added" }
func (ItemsReplaced) eventName() string   { return "items_replaced" }
func (DiscountApplied) eventName() string { return "discount_applied" }
func (Cleared) eventName() string         { return "cleared" }

// Name exposes the event tag for logging.
func Name(ev Event) string {
	if ev == nil {
		return "unknown"
	}
	return ev.eventName()
}
