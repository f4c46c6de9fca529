package enums

import "fmt"

// PaymentMode is the tender recorded against an order's advance payments.
type PaymentMode string

const (
	PaymentModeCash    PaymentMode = "Cash"
	PaymentModeCard    PaymentMode = "Card"
	PaymentModeUPI     PaymentMode = "UPI"
	PaymentModeCheque  PaymentMode = "Cheque"
	PaymentModeCredit  PaymentMode = "Credit"
	PaymentModeUnknown PaymentMode = ""
)

var validPaymentModes = []PaymentMode{
	PaymentModeCash,
	PaymentModeCard,
	PaymentModeUPI,
	PaymentModeCheque,
	PaymentModeCredit,
}

// IsValid reports whether the value matches the canonical payment mode enum.
func (p PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMode converts the raw string to PaymentMode, defaulting to Cash
// for empty input to match historical records.
func ParsePaymentMode(value string) (PaymentMode, error) {
	if value == "" {
		return PaymentModeCash, nil
	}
	for _, candidate := range validPaymentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}
