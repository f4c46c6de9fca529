package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/opticore/lenscard-backend/pkg/enums"
)

// Prescription is the persisted contact-lens prescription order. The
// financial child rows (items, payment) are the authoritative stored values;
// they are never recomputed on read.
type Prescription struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PrescriptionNo string    `gorm:"column:prescription_no;not null;uniqueIndex"`

	Title   string `gorm:"column:title"`
	Name    string `gorm:"column:name"`
	Gender  string `gorm:"column:gender"`
	Age     string `gorm:"column:age"`
	Mobile  string `gorm:"column:mobile"`
	Email   string `gorm:"column:email"`
	Address string `gorm:"column:address"`
	City    string `gorm:"column:city"`

	PrescribedBy string            `gorm:"column:prescribed_by"`
	BookedBy     string            `gorm:"column:booked_by;not null"`
	Class        string            `gorm:"column:class"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:'Processing'"`
	Remarks      string            `gorm:"column:remarks"`

	BirthDay            string `gorm:"column:birth_day"`
	MarriageAnniversary string `gorm:"column:marriage_anniversary"`
	Date                string `gorm:"column:date"`
	DeliveryDate        string `gorm:"column:delivery_date"`
	DeliveryTime        string `gorm:"column:delivery_time"`
	OrderStatusDate     string `gorm:"column:order_status_date"`
	RetestDate          string `gorm:"column:retest_date"`
	ExpiryDate          string `gorm:"column:expiry_date"`

	IPD         string `gorm:"column:ipd"`
	BalanceLens bool   `gorm:"column:balance_lens;not null;default:false"`

	Eyes    []PrescriptionEye    `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`
	Items   []PrescriptionItem   `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`
	Payment *PrescriptionPayment `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
