package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// ProviderGormRepository is the postgres ProviderDirectory and CalendarStore.
// Reserve and release lock the provider row, which serializes calendar writes
// per provider and leaves other providers free.
type ProviderGormRepository struct {
	db *gorm.DB
}

func NewProviderGormRepository(db *gorm.DB) *ProviderGormRepository {
	return &ProviderGormRepository{db: db}
}

// --------------------------------------------------
// Directory
// --------------------------------------------------

func (r *ProviderGormRepository) GetProvider(
	ctx context.Context,
	providerID string,
) (*models.Provider, error) {

	var p models.Provider
	if err := r.db.WithContext(ctx).First(&p, "id = ?", providerID).Error; err != nil {
		return nil, translate(err, "provider not found")
	}
	return &p, nil
}

func (r *ProviderGormRepository) ListProviders(
	ctx context.Context,
) ([]models.Provider, error) {

	var providers []models.Provider
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&providers).Error; err != nil {
		return nil, translate(err, "")
	}
	return providers, nil
}

func (r *ProviderGormRepository) CreateProvider(
	ctx context.Context,
	p *models.Provider,
) error {

	// Select keeps gorm from swapping a false Available for the column default.
	err := r.db.WithContext(ctx).
		Select("ID", "Name", "Speciality", "Available", "Fee", "CreatedAt", "UpdatedAt").
		Create(p).Error
	if IsUniqueViolation(err) {
		return httperr.ErrBusinessf(httperr.CodeAlreadyExists, "provider %s already exists", p.ID)
	}
	return translate(err, "")
}

func (r *ProviderGormRepository) UpdateFee(
	ctx context.Context,
	providerID string,
	fee decimal.Decimal,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", providerID).
		Update("fee", fee)
	if res.Error != nil {
		return translate(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusinessf(httperr.CodeNotFound, "provider %s not found", providerID)
	}
	return nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *ProviderGormRepository) lockProvider(
	tx *gorm.DB,
	providerID string,
) (*models.Provider, error) {

	var p models.Provider
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", providerID).Error; err != nil {
		return nil, translate(err, "provider not found")
	}
	return &p, nil
}

func (r *ProviderGormRepository) Reserve(
	ctx context.Context,
	providerID string,
	slot domain.Slot,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := r.lockProvider(tx, providerID)
		if err != nil {
			return err
		}

		if !p.Available {
			return httperr.ErrBusinessf(httperr.CodeProviderUnavailable, "provider %s is not available", providerID)
		}

		var count int64
		if err := tx.
			Model(&models.BookedSlot{}).
			Where("provider_id = ? AND date = ? AND time = ?", providerID, slot.Date, slot.Time).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusinessf(httperr.CodeAlreadyBooked, "slot %s is already booked", slot)
		}

		return tx.Create(&models.BookedSlot{
			ProviderID: providerID,
			Date:       slot.Date,
			Time:       slot.Time,
		}).Error
	})

	// the unique index backs the row lock up
	if IsUniqueViolation(err) {
		return httperr.ErrBusinessf(httperr.CodeAlreadyBooked, "slot %s is already booked", slot)
	}
	return translate(err, "")
}

func (r *ProviderGormRepository) Release(
	ctx context.Context,
	providerID string,
	slot domain.Slot,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockProvider(tx, providerID); err != nil {
			return err
		}

		return tx.
			Where("provider_id = ? AND date = ? AND time = ?", providerID, slot.Date, slot.Time).
			Delete(&models.BookedSlot{}).Error
	})
	return translate(err, "")
}

func (r *ProviderGormRepository) SetAvailability(
	ctx context.Context,
	providerID string,
	available bool,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Provider{}).
		Where("id = ?", providerID).
		Update("available", available)
	if res.Error != nil {
		return translate(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusinessf(httperr.CodeNotFound, "provider %s not found", providerID)
	}
	return nil
}

func (r *ProviderGormRepository) BookedSlots(
	ctx context.Context,
	providerID string,
	date string,
) ([]string, error) {

	if _, err := r.GetProvider(ctx, providerID); err != nil {
		return nil, err
	}

	var labels []string
	if err := r.db.WithContext(ctx).
		Model(&models.BookedSlot{}).
		Where("provider_id = ? AND date = ?", providerID, date).
		Order("time ASC").
		Pluck("time", &labels).Error; err != nil {
		return nil, translate(err, "")
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

// Compile-time check
var (
	_ domain.ProviderDirectory = (*ProviderGormRepository)(nil)
	_ domain.CalendarStore     = (*ProviderGormRepository)(nil)
)

