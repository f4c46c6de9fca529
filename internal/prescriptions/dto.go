package prescriptions

import (
	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/internal/orderstate"
)

// SaveInput is everything needed to persist one prescription order: the
// descriptive header and eye measurements as entered, plus the financial
// snapshot of the session.
type SaveInput struct {
	Prescription normalize.PrescriptionInfo
	Eyes         []normalize.EyeRecord
	State        orderstate.State
	PaymentMode  string
	PaymentDate  string
}

// NavDirection selects a record relative to the current one by updated_at.
type NavDirection string

const (
	NavFirst NavDirection = "first"
	NavLast  NavDirection = "last"
	NavNext  NavDirection = "next"
	NavPrev  NavDirection = "prev"
)

// IsValid reports whether the direction is one of the four known moves.
func (d NavDirection) IsValid() bool {
	switch d {
	case NavFirst, NavLast, NavNext, NavPrev:
		return true
	}
	return false
}
