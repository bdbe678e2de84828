package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// Logger persists audit events as AuditLog rows.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Record(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		ProviderID:  ev.ProviderID,
		RequesterID: ev.RequesterID,
		Action:      ev.Action,
		Entity:      ev.Entity,
		EntityID:    ev.EntityID,
		Metadata:    metaJSON,
		CreatedAt:   ev.OccurredAt,
	}

	return l.db.WithContext(ctx).Create(&log).Error
}

type Filter struct {
	ProviderID string
	Action     string
	Entity     string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	q := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.ProviderID != "" {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
