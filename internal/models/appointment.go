package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ProviderID  string `gorm:"size:64;not null;index" json:"provider_id"`
	RequesterID string `gorm:"size:64;not null;index" json:"requester_id"`

	Date string `gorm:"size:10;not null" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`

	Fee          decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"fee"`
	ProviderData ProviderSnapshot `gorm:"serializer:json;type:text" json:"provider"`

	Cancelled   bool       `gorm:"not null;default:false" json:"cancelled"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
