package appointment

import (
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/validators"
)

// Slot is one bookable (date, time label) unit on a provider calendar.
type Slot struct {
	Date string
	Time string
}

func NewSlot(date, timeLabel string) (Slot, error) {
	if !validators.IsDateKey(date) {
		return Slot{}, httperr.ErrBusinessf(httperr.CodeInvalidRequest, "date must be YYYY-MM-DD")
	}
	if !validators.IsTimeLabel(timeLabel) {
		return Slot{}, httperr.ErrBusinessf(httperr.CodeInvalidRequest, "time must be HH:MM")
	}
	return Slot{Date: date, Time: timeLabel}, nil
}

func (s Slot) String() string {
	return s.Date + " " + s.Time
}
