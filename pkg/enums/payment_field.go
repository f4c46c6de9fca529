package enums

import "fmt"

// PaymentField identifies the payment-affecting fields a user can edit on an
// order session. Edits arrive through typed setters keyed by this enum rather
// than free-form field paths.
type PaymentField string

const (
	PaymentFieldCashAdvance    PaymentField = "cash_advance"
	PaymentFieldCardUpiAdvance PaymentField = "card_upi_advance"
	PaymentFieldChequeAdvance  PaymentField = "cheque_advance"
	PaymentFieldDiscountAmount PaymentField = "discount_amount"
)

var validPaymentFields = []PaymentField{
	PaymentFieldCashAdvance,
	PaymentFieldCardUpiAdvance,
	PaymentFieldChequeAdvance,
	PaymentFieldDiscountAmount,
}

// IsValid reports whether the value matches the canonical payment field enum.
func (p PaymentField) IsValid() bool {
	for _, candidate := range validPaymentFields {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentField converts the raw string to PaymentField.
func ParsePaymentField(value string) (PaymentField, error) {
	for _, candidate := range validPaymentFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment field %q", value)
}
