package prescriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/opticore/lenscard-backend/pkg/db/models"
)

// Repository wraps the persisted prescription rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.Prescription) (*models.Prescription, error)
	UpdateHeader(ctx context.Context, record *models.Prescription) error
	ReplaceChildren(ctx context.Context, record *models.Prescription) error
	FindByPrescriptionNo(ctx context.Context, prescriptionNo string) (*models.Prescription, error)
	FirstByUpdatedAt(ctx context.Context) (*models.Prescription, error)
	LastByUpdatedAt(ctx context.Context) (*models.Prescription, error)
	NextAfter(ctx context.Context, updatedAt time.Time, id uuid.UUID) (*models.Prescription, error)
	PrevBefore(ctx context.Context, updatedAt time.Time, id uuid.UUID) (*models.Prescription, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a prescriptions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.Prescription) (*models.Prescription, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateHeader saves the prescription row itself; children are replaced
// separately so stale lines never survive a re-save.
func (r *repository) UpdateHeader(ctx context.Context, record *models.Prescription) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: false}).
		Omit("Eyes", "Items", "Payment").
		Save(record).Error
}

func (r *repository) ReplaceChildren(ctx context.Context, record *models.Prescription) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("prescription_id = ?", record.ID).Delete(&models.PrescriptionEye{}).Error; err != nil {
		return err
	}
	if err := db.Where("prescription_id = ?", record.ID).Delete(&models.PrescriptionItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("prescription_id = ?", record.ID).Delete(&models.PrescriptionPayment{}).Error; err != nil {
		return err
	}

	if len(record.Eyes) > 0 {
		if err := db.Create(&record.Eyes).Error; err != nil {
			return err
		}
	}
	if len(record.Items) > 0 {
		if err := db.Create(&record.Items).Error; err != nil {
			return err
		}
	}
	if record.Payment != nil {
		if err := db.Create(record.Payment).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindByPrescriptionNo(ctx context.Context, prescriptionNo string) (*models.Prescription, error) {
	var record models.Prescription
	err := r.db.WithContext(ctx).
		Preload("Eyes").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payment").
		Where("prescription_no = ?", prescriptionNo).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FirstByUpdatedAt(ctx context.Context) (*models.Prescription, error) {
	return r.findEdge(ctx, "updated_at ASC, id ASC")
}

func (r *repository) LastByUpdatedAt(ctx context.Context) (*models.Prescription, error) {
	return r.findEdge(ctx, "updated_at DESC, id DESC")
}

func (r *repository) NextAfter(ctx context.Context, updatedAt time.Time, id uuid.UUID) (*models.Prescription, error) {
	var record models.Prescription
	err := r.db.WithContext(ctx).
		Where("updated_at > ? OR (updated_at = ? AND id > ?)", updatedAt, updatedAt, id).
		Order("updated_at ASC, id ASC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) PrevBefore(ctx context.Context, updatedAt time.Time, id uuid.UUID) (*models.Prescription, error) {
	var record models.Prescription
	err := r.db.WithContext(ctx).
		Where("updated_at < ? OR (updated_at = ? AND id < ?)", updatedAt, updatedAt, id).
		Order("updated_at DESC, id DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) findEdge(ctx context.Context, order string) (*models.Prescription, error) {
	var record models.Prescription
	err := r.db.WithContext(ctx).Order(order).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
