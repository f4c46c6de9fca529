package models

import (
	"github.com/google/uuid"

	"github.com/opticore/lenscard-backend/pkg/enums"
)

// PrescriptionPayment is the single payment summary row for a prescription.
type PrescriptionPayment struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PrescriptionID uuid.UUID         `gorm:"column:prescription_id;type:uuid;not null;uniqueIndex"`
	PaymentTotal   float64           `gorm:"column:payment_total;not null;default:0"`
	Estimate       float64           `gorm:"column:estimate;not null;default:0"`
	Advance        float64           `gorm:"column:advance;not null;default:0"`
	Balance        float64           `gorm:"column:balance;not null;default:0"`
	PaymentMode    enums.PaymentMode `gorm:"column:payment_mode;not null;default:'Cash'"`
	CashAdvance    float64           `gorm:"column:cash_advance;not null;default:0"`
	CardUpiAdvance float64           `gorm:"column:card_upi_advance;not null;default:0"`
	ChequeAdvance  float64           `gorm:"column:cheque_advance;not null;default:0"`
	DiscountAmount float64           `gorm:"column:discount_amount;not null;default:0"`
	DiscountPercent float64          `gorm:"column:discount_percent;not null;default:0"`
	SchemeDiscount bool              `gorm:"column:scheme_discount;not null;default:false"`
	PaymentDate    string            `gorm:"column:payment_date"`
}
