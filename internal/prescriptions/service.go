package prescriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/pkg/db"
	"github.com/opticore/lenscard-backend/pkg/db/models"
	"github.com/opticore/lenscard-backend/pkg/enums"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
	"github.com/opticore/lenscard-backend/pkg/logger"
	"github.com/opticore/lenscard-backend/pkg/metrics"
	"github.com/opticore/lenscard-backend/pkg/money"
)

const notSpecified = "Not specified"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes prescription persistence plus the normalized load path the
// session layer consumes.
type Service interface {
	Save(ctx context.Context, input SaveInput) (*models.Prescription, error)
	Get(ctx context.Context, prescriptionNo string) (*models.Prescription, error)
	LoadCanonical(ctx context.Context, prescriptionNo string) (*normalize.CanonicalRecord, error)
	Navigate(ctx context.Context, direction NavDirection, currentNo string) (*models.Prescription, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	recalcs *metrics.RecalcMetrics
}

// NewService builds a prescriptions service backed by the provided stack.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, recalcs *metrics.RecalcMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("prescriptions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg, recalcs: recalcs}, nil
}

// Save validates the snapshot and persists it atomically, replacing any
// previously stored rows for the same prescription number.
func (s *service) Save(ctx context.Context, input SaveInput) (*models.Prescription, error) {
	start := time.Now()

	record, err := s.buildModel(input)
	if err != nil {
		s.recalcs.ObserveSaveDuration("rejected", time.Since(start))
		return nil, err
	}

	var saved *models.Prescription
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindByPrescriptionNo(ctx, record.PrescriptionNo)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing != nil {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			reparentChildren(record)
			if err := txRepo.UpdateHeader(ctx, record); err != nil {
				return err
			}
			if err := txRepo.ReplaceChildren(ctx, record); err != nil {
				return err
			}
		} else {
			record.ID = uuid.New()
			reparentChildren(record)
			if _, err := txRepo.Create(ctx, record); err != nil {
				return err
			}
		}

		saved, err = txRepo.FindByPrescriptionNo(ctx, record.PrescriptionNo)
		return err
	})
	if err != nil {
		s.recalcs.ObserveSaveDuration("error", time.Since(start))
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "prescription number already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist prescription")
	}

	s.recalcs.ObserveSaveDuration("ok", time.Since(start))
	ctx = s.logg.WithPrescriptionNo(ctx, saved.PrescriptionNo)
	s.logg.Info(ctx, "prescription saved")
	return saved, nil
}

func (s *service) Get(ctx context.Context, prescriptionNo string) (*models.Prescription, error) {
	if prescriptionNo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prescription number is required")
	}
	record, err := s.repo.FindByPrescriptionNo(ctx, prescriptionNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prescription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load prescription")
	}
	return record, nil
}

// LoadCanonical fetches a stored record and pushes it through the field
// normalizer. Storage failures surface as a failed load, not a partial one.
func (s *service) LoadCanonical(ctx context.Context, prescriptionNo string) (*normalize.CanonicalRecord, error) {
	record, err := s.Get(ctx, prescriptionNo)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeNormalization, err, "failed to load record")
	}
	canonical, err := normalize.Normalize(rawFromModel(record))
	if err != nil {
		return nil, err
	}
	return canonical, nil
}

// Navigate resolves the neighbouring record by updated_at. Next and prev are
// relative to the currently open record.
func (s *service) Navigate(ctx context.Context, direction NavDirection, currentNo string) (*models.Prescription, error) {
	if !direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown navigation direction %q", direction))
	}

	var (
		record *models.Prescription
		err    error
	)
	switch direction {
	case NavFirst:
		record, err = s.repo.FirstByUpdatedAt(ctx)
	case NavLast:
		record, err = s.repo.LastByUpdatedAt(ctx)
	case NavNext, NavPrev:
		if currentNo == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "current prescription number is required for next/prev")
		}
		var current *models.Prescription
		current, err = s.repo.FindByPrescriptionNo(ctx, currentNo)
		if err != nil {
			break
		}
		if direction == NavNext {
			record, err = s.repo.NextAfter(ctx, current.UpdatedAt, current.ID)
		} else {
			record, err = s.repo.PrevBefore(ctx, current.UpdatedAt, current.ID)
		}
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no record in that direction")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "navigate prescriptions")
	}

	// Edge lookups return only the header; reload with children.
	return s.Get(ctx, record.PrescriptionNo)
}

func (s *service) buildModel(input SaveInput) (*models.Prescription, error) {
	header := input.Prescription
	if strings.TrimSpace(header.PrescriptionNo) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prescription number is required")
	}
	if strings.TrimSpace(header.PatientName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient name is required")
	}

	status, err := enums.ParseOrderStatus(header.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	mode, err := enums.ParsePaymentMode(input.PaymentMode)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	state := input.State

	record := &models.Prescription{
		PrescriptionNo:      strings.TrimSpace(header.PrescriptionNo),
		Title:               header.Title,
		Name:                strings.TrimSpace(header.PatientName),
		Gender:              header.Gender,
		Age:                 header.Age,
		Mobile:              header.Mobile,
		Email:               header.Email,
		Address:             header.Address,
		City:                header.City,
		PrescribedBy:        header.PrescribedBy,
		BookedBy:            header.BookedBy,
		Class:               header.Class,
		Status:              status,
		Remarks:             header.Remarks,
		BirthDay:            header.BirthDay,
		MarriageAnniversary: header.MarriageAnniversary,
		Date:                header.Date,
		DeliveryDate:        header.DeliveryDate,
		DeliveryTime:        header.DeliveryTime,
		OrderStatusDate:     header.OrderStatusDate,
		RetestDate:          header.RetestDate,
		ExpiryDate:          header.ExpiryDate,
		IPD:                 header.IPD,
		BalanceLens:         header.BalanceLens,
	}

	for _, eye := range input.Eyes {
		record.Eyes = append(record.Eyes, models.PrescriptionEye{
			EyeSide:  eye.EyeSide.Storage(),
			Sph:      eye.Sph,
			Cyl:      eye.Cyl,
			Axis:     eye.Axis,
			AddPower: eye.AddPower,
			Vn:       eye.Vn,
			Rpd:      eye.Rpd,
			Lpd:      eye.Lpd,
		})
	}

	itemDiscountSum := 0.0
	maxItemPercent := 0.0
	for i, item := range state.Items {
		itemDiscountSum += item.DiscountAmount
		if item.DiscountPercent > maxItemPercent {
			maxItemPercent = item.DiscountPercent
		}
		record.Items = append(record.Items, models.PrescriptionItem{
			EyeSide:         item.EyeSide.Storage(),
			BaseCurve:       item.BaseCurve,
			Power:           item.Power,
			Material:        defaultString(item.Material, notSpecified),
			Dispose:         defaultString(item.Dispose, notSpecified),
			Brand:           defaultString(item.Brand, notSpecified),
			Diameter:        item.Diameter,
			Sph:             item.Sph,
			Cyl:             item.Cyl,
			Axis:            item.Axis,
			LensCode:        item.LensCode,
			Quantity:        item.Quantity,
			Rate:            item.Rate,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			Amount:          item.FinalAmount,
			Position:        i,
		})
	}

	// The scheme amount wins over the per-item sum when an operator entered a
	// larger manual figure.
	discountAmount := money.Round2(itemDiscountSum)
	if state.OrderDiscountAmount > discountAmount {
		discountAmount = state.OrderDiscountAmount
	}
	discountPercent := maxItemPercent
	if discountPercent == 0 {
		discountPercent = state.PendingDiscountPercent
	}

	record.Payment = &models.PrescriptionPayment{
		PaymentTotal: state.FinalTotal,
		// Reconstructed pre-discount total; tolerates rounding drift in the
		// stored subtotal.
		Estimate:        money.Round2(state.FinalTotal + state.TotalDiscount),
		Advance:         state.TotalAdvance,
		Balance:         state.Balance,
		PaymentMode:     mode,
		CashAdvance:     state.CashAdvance,
		CardUpiAdvance:  state.CardUpiAdvance,
		ChequeAdvance:   state.ChequeAdvance,
		DiscountAmount:  discountAmount,
		DiscountPercent: discountPercent,
		SchemeDiscount:  discountAmount > 0,
		PaymentDate:     input.PaymentDate,
	}

	return record, nil
}

func reparentChildren(record *models.Prescription) {
	for i := range record.Eyes {
		record.Eyes[i].ID = uuid.New()
		record.Eyes[i].PrescriptionID = record.ID
	}
	for i := range record.Items {
		record.Items[i].ID = uuid.New()
		record.Items[i].PrescriptionID = record.ID
	}
	if record.Payment != nil {
		record.Payment.ID = uuid.New()
		record.Payment.PrescriptionID = record.ID
	}
}

// rawFromModel rebuilds the loosely-typed storage shape so loads run through
// the same normalization path as any external record source.
func rawFromModel(p *models.Prescription) normalize.RawRecord {
	raw := normalize.RawRecord{
		Prescription: map[string]any{
			"prescription_no":      p.PrescriptionNo,
			"title":                p.Title,
			"patient_name":         p.Name,
			"gender":               p.Gender,
			"age":                  p.Age,
			"mobile":               p.Mobile,
			"email":                p.Email,
			"address":              p.Address,
			"city":                 p.City,
			"prescribed_by":        p.PrescribedBy,
			"booked_by":            p.BookedBy,
			"class":                p.Class,
			"status":               string(p.Status),
			"remarks":              p.Remarks,
			"birth_day":            p.BirthDay,
			"marriage_anniversary": p.MarriageAnniversary,
			"date":                 p.Date,
			"delivery_date":        p.DeliveryDate,
			"delivery_time":        p.DeliveryTime,
			"order_status_date":    p.OrderStatusDate,
			"retest_date":          p.RetestDate,
			"expiry_date":          p.ExpiryDate,
			"ipd":                  p.IPD,
			"balance_lens":         p.BalanceLens,
		},
	}

	for _, eye := range p.Eyes {
		raw.Eyes = append(raw.Eyes, map[string]any{
			"eye_side":  eye.EyeSide,
			"sph":       eye.Sph,
			"cyl":       eye.Cyl,
			"axis":      eye.Axis,
			"add_power": eye.AddPower,
			"vn":        eye.Vn,
			"rpd":       eye.Rpd,
			"lpd":       eye.Lpd,
		})
	}

	for _, item := range p.Items {
		raw.Items = append(raw.Items, map[string]any{
			"eye_side":         item.EyeSide,
			"base_curve":       item.BaseCurve,
			"power":            item.Power,
			"material":         item.Material,
			"dispose":          item.Dispose,
			"brand":            item.Brand,
			"diameter":         item.Diameter,
			"sph":              item.Sph,
			"cyl":              item.Cyl,
			"axis":             item.Axis,
			"lens_code":        item.LensCode,
			"quantity":         item.Quantity,
			"rate":             item.Rate,
			"discount_percent": item.DiscountPercent,
			"discount_amount":  item.DiscountAmount,
			"amount":           item.Amount,
		})
	}

	if p.Payment != nil {
		raw.Payment = map[string]any{
			"payment_total":    p.Payment.PaymentTotal,
			"estimate":         p.Payment.Estimate,
			"advance":          p.Payment.Advance,
			"balance":          p.Payment.Balance,
			"payment_mode":     string(p.Payment.PaymentMode),
			"cash_advance":     p.Payment.CashAdvance,
			"card_upi_advance": p.Payment.CardUpiAdvance,
			"cheque_advance":   p.Payment.ChequeAdvance,
			"discount_amount":  p.Payment.DiscountAmount,
			"discount_percent": p.Payment.DiscountPercent,
			"scheme_discount":  p.Payment.SchemeDiscount,
			"payment_date":     p.Payment.PaymentDate,
		}
	}

	return raw
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
