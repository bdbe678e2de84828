package dto

import (
	"time"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

type ProviderDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Speciality string `json:"speciality"`
	Fee        string `json:"fee"`
}

type AppointmentDTO struct {
	ID          string      `json:"id"`
	ProviderID  string      `json:"provider_id"`
	RequesterID string      `json:"requester_id"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Fee         string      `json:"fee"`
	Provider    ProviderDTO `json:"provider"`
	Status      string      `json:"status"`
	Cancelled   bool        `json:"cancelled"`
	CancelledAt *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func FromAppointment(ap *models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:          ap.ID,
		ProviderID:  ap.ProviderID,
		RequesterID: ap.RequesterID,
		Date:        ap.Date,
		Time:        ap.Time,
		Fee:         ap.Fee.StringFixed(2),
		Provider: ProviderDTO{
			ID:         ap.ProviderData.ID,
			Name:       ap.ProviderData.Name,
			Speciality: ap.ProviderData.Speciality,
			Fee:        ap.ProviderData.Fee.StringFixed(2),
		},
		Status:      string(domain.StatusOf(ap)),
		Cancelled:   ap.Cancelled,
		CancelledAt: ap.CancelledAt,
		CreatedAt:   ap.CreatedAt,
	}
}

type ProviderDetailDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Speciality string    `json:"speciality"`
	Available  bool      `json:"available"`
	Fee        string    `json:"fee"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromProvider(p *models.Provider) ProviderDetailDTO {
	return ProviderDetailDTO{
		ID:         p.ID,
		Name:       p.Name,
		Speciality: p.Speciality,
		Available:  p.Available,
		Fee:        p.Fee.StringFixed(2),
		CreatedAt:  p.CreatedAt,
	}
}
