package models

import "time"

type BookedSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderID string `gorm:"size:64;not null;uniqueIndex:idx_booked_slot" json:"provider_id"`
	Date       string `gorm:"size:10;not null;uniqueIndex:idx_booked_slot" json:"date"`
	Time       string `gorm:"size:5;not null;uniqueIndex:idx_booked_slot" json:"time"`

	CreatedAt time.Time `json:"created_at"`
}
