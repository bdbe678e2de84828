package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDateKey(t *testing.T) {
	cases := map[string]bool{
		"2024-06-01": true,
		"2024-02-29": true,
		"2023-02-29": false,
		"2024-6-1":   false,
		"01/06/2024": false,
		"":           false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsDateKey(in), in)
	}
}

func TestIsTimeLabel(t *testing.T) {
	cases := map[string]bool{
		"10:00": true,
		"00:00": true,
		"23:59": true,
		"24:00": false,
		"9:30":  false,
		"10:60": false,
		"10h00": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsTimeLabel(in), in)
	}
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type req struct {
		Date string `validate:"required,datekey"`
		Time string `validate:"required,timelabel"`
	}

	assert.NoError(t, v.Struct(req{Date: "2024-06-01", Time: "10:00"}))
	assert.Error(t, v.Struct(req{Date: "2024-13-01", Time: "10:00"}))
	assert.Error(t, v.Struct(req{Date: "2024-06-01", Time: "25:00"}))
}
