package validators

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DateKeyLayout   = "2006-01-02"
	TimeLabelLayout = "15:04"
)

// IsDateKey reports whether s is a real calendar date written as YYYY-MM-DD.
func IsDateKey(s string) bool {
	if len(s) != len(DateKeyLayout) {
		return false
	}
	_, err := time.Parse(DateKeyLayout, s)
	return err == nil
}

// IsTimeLabel reports whether s is a 24h HH:MM label.
func IsTimeLabel(s string) bool {
	if len(s) != len(TimeLabelLayout) {
		return false
	}
	_, err := time.Parse(TimeLabelLayout, s)
	return err == nil
}

// Register adds the "datekey" and "timelabel" tags to a validator so request
// structs can declare them in their binding tags.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		return IsDateKey(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("timelabel", func(fl validator.FieldLevel) bool {
		return IsTimeLabel(fl.Field().String())
	})
}
