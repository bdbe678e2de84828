package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider is the bookable party. Its booked slots live in BookedSlot rows
// and are only written by the calendar store.
type Provider struct {
	ID         string          `gorm:"primaryKey;size:64" json:"id"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	Speciality string          `gorm:"size:100" json:"speciality"`
	Available  bool            `gorm:"not null;default:true" json:"available"`
	Fee        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProviderSnapshot is the part of a Provider copied into an appointment at
// booking time.
type ProviderSnapshot struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Speciality string          `json:"speciality"`
	Fee        decimal.Decimal `json:"fee"`
}

func (p Provider) Snapshot() ProviderSnapshot {
	return ProviderSnapshot{
		ID:         p.ID,
		Name:       p.Name,
		Speciality: p.Speciality,
		Fee:        p.Fee,
	}
}
