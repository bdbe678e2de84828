package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

// Clock yields the current instant. Use cases take one so tests can pin time.
type Clock func() time.Time

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ClockIn returns a Clock reporting wall time in tz.
func ClockIn(tz string) Clock {
	loc := Location(tz)
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// Fixed returns a Clock stuck at t.
func Fixed(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}
