package normalize

import "github.com/opticore/lenscard-backend/pkg/enums"

// RawRecord is the loosely-typed persisted record shape as the storage layer
// hands it over. Keys inside the maps vary by casing and alias, numeric fields
// may arrive as strings or booleans. Nothing here is trusted until it has been
// through Normalize.
type RawRecord struct {
	Prescription map[string]any   `json:"prescription"`
	Eyes         []map[string]any `json:"eyes"`
	Items        []map[string]any `json:"items"`
	Payment      map[string]any   `json:"payment"`
}

// CanonicalRecord is the normalized form every downstream consumer works
// with. String fields are never absent (empty string instead), numeric fields
// default to zero.
type CanonicalRecord struct {
	Prescription PrescriptionInfo
	Eyes         []EyeRecord
	Items        []ItemRecord
	Payment      PaymentRecord
}

// PrescriptionInfo is the descriptive header of the record. The financial core
// treats it as opaque pass-through.
type PrescriptionInfo struct {
	PrescriptionNo      string
	Title               string
	PatientName         string
	Age                 string
	Gender              string
	Mobile              string
	Email               string
	Address             string
	City                string
	BirthDay            string
	MarriageAnniversary string
	PrescribedBy        string
	BookedBy            string
	Class               string
	Status              string
	Remarks             string
	Date                string
	DeliveryDate        string
	DeliveryTime        string
	OrderStatusDate     string
	RetestDate          string
	ExpiryDate          string
	IPD                 string
	BalanceLens         bool
}

// EyeRecord holds one eye's refraction values verbatim.
type EyeRecord struct {
	EyeSide  enums.EyeSide
	Sph      string
	Cyl      string
	Axis     string
	AddPower string
	Vn       string
	Rpd      string
	Lpd      string
}

// ItemRecord is one canonical line item prior to discount resolution.
type ItemRecord struct {
	EyeSide         enums.EyeSide
	BaseCurve       string
	Power           string
	Material        string
	Dispose         string
	Brand           string
	Diameter        string
	Sph             string
	Cyl             string
	Axis            string
	LensCode        string
	Quantity        float64
	Rate            float64
	DiscountPercent float64
	DiscountAmount  float64
	Amount          float64
}

// PaymentRecord carries the persisted financial summary verbatim.
type PaymentRecord struct {
	PaymentTotal    float64
	Estimate        float64
	Advance         float64
	Balance         float64
	CashAdvance     float64
	CardUpiAdvance  float64
	ChequeAdvance   float64
	DiscountAmount  float64
	DiscountPercent float64
	SchemeDiscount  bool
	PaymentMode     string
	PaymentDate     string
}
