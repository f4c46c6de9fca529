package models

import "github.com/google/uuid"

// PrescriptionEye holds the per-eye refraction values. All measurements stay
// strings: the clinic records free-form notations ("6/9", "+1.25") that must
// round-trip untouched.
type PrescriptionEye struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PrescriptionID uuid.UUID `gorm:"column:prescription_id;type:uuid;not null;index"`
	EyeSide        string    `gorm:"column:eye_side;not null"`
	Sph            string    `gorm:"column:sph"`
	Cyl            string    `gorm:"column:cyl"`
	Axis           string    `gorm:"column:axis"`
	AddPower       string    `gorm:"column:add_power"`
	Vn             string    `gorm:"column:vn"`
	Rpd            string    `gorm:"column:rpd"`
	Lpd            string    `gorm:"column:lpd"`
}
