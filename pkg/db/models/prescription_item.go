package models

import "github.com/google/uuid"

// PrescriptionItem is one ordered lens line. Monetary columns carry the
// resolved figures: discount_percent and discount_amount are both persisted so
// either representation can seed a later edit session.
type PrescriptionItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PrescriptionID  uuid.UUID `gorm:"column:prescription_id;type:uuid;not null;index"`
	EyeSide         string    `gorm:"column:eye_side;not null"`
	BaseCurve       string    `gorm:"column:base_curve"`
	Power           string    `gorm:"column:power"`
	Material        string    `gorm:"column:material"`
	Dispose         string    `gorm:"column:dispose"`
	Brand           string    `gorm:"column:brand"`
	Diameter        string    `gorm:"column:diameter"`
	Sph             string    `gorm:"column:sph"`
	Cyl             string    `gorm:"column:cyl"`
	Axis            string    `gorm:"column:axis"`
	LensCode        string    `gorm:"column:lens_code"`
	Quantity        float64   `gorm:"column:quantity;not null;default:0"`
	Rate            float64   `gorm:"column:rate;not null;default:0"`
	DiscountPercent float64   `gorm:"column:discount_percent;not null;default:0"`
	DiscountAmount  float64   `gorm:"column:discount_amount;not null;default:0"`
	Amount          float64   `gorm:"column:amount;not null;default:0"`
	Position        int       `gorm:"column:position;not null;default:0"`
}
