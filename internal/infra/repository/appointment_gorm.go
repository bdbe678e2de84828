package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// AppointmentGormRepository is the postgres Ledger. Rows are never deleted.
type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) (string, error) {

	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(ap).Error; err != nil {
		return "", translate(err, "")
	}
	return ap.ID, nil
}

func (r *AppointmentGormRepository) Get(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error; err != nil {
		return nil, translate(err, "appointment not found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListByRequester(
	ctx context.Context,
	requesterID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&apps).Error; err != nil {
		return nil, translate(err, "")
	}
	return apps, nil
}

// ListActive returns every appointment that still holds its slot.
func (r *AppointmentGormRepository) ListActive(
	ctx context.Context,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("cancelled = ?", false).
		Order("provider_id ASC").
		Order("date ASC").
		Find(&apps).Error; err != nil {
		return nil, translate(err, "")
	}
	return apps, nil
}

// MarkCancelled flips the flag with a conditional update so concurrent
// cancels see exactly one winner.
func (r *AppointmentGormRepository) MarkCancelled(
	ctx context.Context,
	id string,
	at time.Time,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND cancelled = ?", id, false).
		Updates(map[string]any{
			"cancelled":    true,
			"cancelled_at": at,
		})
	if res.Error != nil {
		return translate(res.Error, "")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	ap, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if ap.Cancelled {
		return httperr.ErrBusinessf(httperr.CodeAlreadyCancelled, "appointment is already cancelled")
	}
	return httperr.ErrBusinessf(httperr.CodePersistenceFailure, "appointment %s was not updated", id)
}

// Compile-time check
var _ domain.Ledger = (*AppointmentGormRepository)(nil)
