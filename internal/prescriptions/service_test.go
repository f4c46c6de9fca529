package prescriptions

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/internal/orderstate"
	"github.com/opticore/lenscard-backend/pkg/enums"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
	"github.com/opticore/lenscard-backend/pkg/logger"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func setupPrescriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	prescriptions := `
CREATE TABLE IF NOT EXISTS prescriptions (
  id TEXT PRIMARY KEY,
  prescription_no TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT '',
  gender TEXT NOT NULL DEFAULT '',
  age TEXT NOT NULL DEFAULT '',
  mobile TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  prescribed_by TEXT NOT NULL DEFAULT '',
  booked_by TEXT NOT NULL DEFAULT '',
  class TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'Processing',
  remarks TEXT NOT NULL DEFAULT '',
  birth_day TEXT NOT NULL DEFAULT '',
  marriage_anniversary TEXT NOT NULL DEFAULT '',
  date TEXT NOT NULL DEFAULT '',
  delivery_date TEXT NOT NULL DEFAULT '',
  delivery_time TEXT NOT NULL DEFAULT '',
  order_status_date TEXT NOT NULL DEFAULT '',
  retest_date TEXT NOT NULL DEFAULT '',
  expiry_date TEXT NOT NULL DEFAULT '',
  ipd TEXT NOT NULL DEFAULT '',
  balance_lens INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	eyes := `
CREATE TABLE IF NOT EXISTS prescription_eyes (
  id TEXT PRIMARY KEY,
  prescription_id TEXT NOT NULL,
  eye_side TEXT NOT NULL,
  sph TEXT NOT NULL DEFAULT '',
  cyl TEXT NOT NULL DEFAULT '',
  axis TEXT NOT NULL DEFAULT '',
  add_power TEXT NOT NULL DEFAULT '',
  vn TEXT NOT NULL DEFAULT '',
  rpd TEXT NOT NULL DEFAULT '',
  lpd TEXT NOT NULL DEFAULT ''
);`
	items := `
CREATE TABLE IF NOT EXISTS prescription_items (
  id TEXT PRIMARY KEY,
  prescription_id TEXT NOT NULL,
  eye_side TEXT NOT NULL,
  base_curve TEXT NOT NULL DEFAULT '',
  power TEXT NOT NULL DEFAULT '',
  material TEXT NOT NULL DEFAULT '',
  dispose TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  diameter TEXT NOT NULL DEFAULT '',
  sph TEXT NOT NULL DEFAULT '',
  cyl TEXT NOT NULL DEFAULT '',
  axis TEXT NOT NULL DEFAULT '',
  lens_code TEXT NOT NULL DEFAULT '',
  quantity REAL NOT NULL DEFAULT 0,
  rate REAL NOT NULL DEFAULT 0,
  discount_percent REAL NOT NULL DEFAULT 0,
  discount_amount REAL NOT NULL DEFAULT 0,
  amount REAL NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0
);`
	payments := `
CREATE TABLE IF NOT EXISTS prescription_payments (
  id TEXT PRIMARY KEY,
  prescription_id TEXT NOT NULL UNIQUE,
  payment_total REAL NOT NULL DEFAULT 0,
  estimate REAL NOT NULL DEFAULT 0,
  advance REAL NOT NULL DEFAULT 0,
  balance REAL NOT NULL DEFAULT 0,
  payment_mode TEXT NOT NULL DEFAULT 'Cash',
  cash_advance REAL NOT NULL DEFAULT 0,
  card_upi_advance REAL NOT NULL DEFAULT 0,
  cheque_advance REAL NOT NULL DEFAULT 0,
  discount_amount REAL NOT NULL DEFAULT 0,
  discount_percent REAL NOT NULL DEFAULT 0,
  scheme_discount INTEGER NOT NULL DEFAULT 0,
  payment_date TEXT NOT NULL DEFAULT ''
);`
	require.NoError(t, db.Exec(prescriptions).Error)
	require.NoError(t, db.Exec(eyes).Error)
	require.NoError(t, db.Exec(items).Error)
	require.NoError(t, db.Exec(payments).Error)
	return db
}

func newTestService(t *testing.T) Service {
	t.Helper()
	db := setupPrescriptionsTestDB(t)
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel})
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, logg, nil)
	require.NoError(t, err)
	return svc
}

func sampleInput(no string) SaveInput {
	state := orderstate.NewState()
	state, _, _ = orderstate.Reduce(state, orderstate.ItemAdded{Item: orderstate.LineItem{
		EyeSide:         enums.EyeSideRight,
		BaseCurve:       "8.6",
		Quantity:        1,
		Rate:            700,
		DiscountPercent: 10,
	}}, false)
	state, _, _ = orderstate.Reduce(state, orderstate.ItemAdded{Item: orderstate.LineItem{
		EyeSide:  enums.EyeSideLeft,
		Quantity: 1,
		Rate:     300,
	}}, false)
	state, _, _ = orderstate.Reduce(state, orderstate.FieldEdited{
		Field: enums.PaymentFieldCashAdvance,
		Value: 500,
	}, false)

	return SaveInput{
		Prescription: normalize.PrescriptionInfo{
			PrescriptionNo: no,
			PatientName:    "A. Rao",
			BookedBy:       "front-desk",
			IPD:            "63.5",
		},
		Eyes: []normalize.EyeRecord{
			{EyeSide: enums.EyeSideRight, Sph: "-1.25", Rpd: "31.5"},
			{EyeSide: enums.EyeSideLeft, Sph: "-1.00", Lpd: "32.0"},
		},
		State:       state,
		PaymentMode: "Cash",
	}
}

func TestSaveMapsFinancialState(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, sampleInput("CL-3001"))
	require.NoError(t, err)

	require.NotNil(t, saved.Payment)
	assert.Equal(t, 930.0, saved.Payment.PaymentTotal)
	assert.Equal(t, 1000.0, saved.Payment.Estimate, "estimate reconstructs the pre-discount total")
	assert.Equal(t, 500.0, saved.Payment.Advance)
	assert.Equal(t, 430.0, saved.Payment.Balance)
	assert.Equal(t, 70.0, saved.Payment.DiscountAmount)
	assert.Equal(t, 10.0, saved.Payment.DiscountPercent)
	assert.True(t, saved.Payment.SchemeDiscount)
	assert.Equal(t, enums.PaymentModeCash, saved.Payment.PaymentMode)

	require.Len(t, saved.Items, 2)
	assert.Equal(t, "right", saved.Items[0].EyeSide)
	assert.Equal(t, "Not specified", saved.Items[0].Material)
	assert.Equal(t, 630.0, saved.Items[0].Amount)
}

func TestSaveValidatesRequiredFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := sampleInput("CL-3002")
	input.Prescription.PatientName = ""
	_, err := svc.Save(ctx, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input = sampleInput("")
	_, err = svc.Save(ctx, input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSaveUpsertsByPrescriptionNo(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Save(ctx, sampleInput("CL-3003"))
	require.NoError(t, err)

	update := sampleInput("CL-3003")
	update.Prescription.PatientName = "A. Rao (updated)"
	update.State, _, _ = orderstate.Reduce(update.State, orderstate.ItemAdded{Item: orderstate.LineItem{
		Quantity: 1,
		Rate:     450,
	}}, false)

	second, err := svc.Save(ctx, update)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same prescription row is reused")
	assert.Equal(t, "A. Rao (updated)", second.Name)
	require.Len(t, second.Items, 3)
	assert.Equal(t, 1380.0, second.Payment.PaymentTotal)
}

func TestLoadCanonicalRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, sampleInput("CL-3004"))
	require.NoError(t, err)

	canonical, err := svc.LoadCanonical(ctx, "CL-3004")
	require.NoError(t, err)

	assert.Equal(t, "CL-3004", canonical.Prescription.PrescriptionNo)
	assert.Equal(t, "A. Rao", canonical.Prescription.PatientName)
	require.Len(t, canonical.Items, 2)
	assert.Equal(t, enums.EyeSideRight, canonical.Items[0].EyeSide)
	assert.Equal(t, 10.0, canonical.Items[0].DiscountPercent)
	assert.Equal(t, 930.0, canonical.Payment.PaymentTotal)
	assert.Equal(t, 500.0, canonical.Payment.CashAdvance)
}

func TestLoadCanonicalNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.LoadCanonical(context.Background(), "CL-9999")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestNavigate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, no := range []string{"CL-0001", "CL-0002", "CL-0003"} {
		_, err := svc.Save(ctx, sampleInput(no))
		require.NoError(t, err)
		// Stagger updated_at so ordering is deterministic.
		time.Sleep(5 * time.Millisecond)
	}

	first, err := svc.Navigate(ctx, NavFirst, "")
	require.NoError(t, err)
	assert.Equal(t, "CL-0001", first.PrescriptionNo)

	last, err := svc.Navigate(ctx, NavLast, "")
	require.NoError(t, err)
	assert.Equal(t, "CL-0003", last.PrescriptionNo)

	next, err := svc.Navigate(ctx, NavNext, "CL-0001")
	require.NoError(t, err)
	assert.Equal(t, "CL-0002", next.PrescriptionNo)

	prev, err := svc.Navigate(ctx, NavPrev, "CL-0003")
	require.NoError(t, err)
	assert.Equal(t, "CL-0002", prev.PrescriptionNo)

	_, err = svc.Navigate(ctx, NavNext, "CL-0003")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = svc.Navigate(ctx, "sideways", "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
