package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight. It orders and
// compares naturally, unlike raw "HH:MM" strings.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (and tolerates "HH:MM:SS") into a TimeOfDay.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if idx := strings.LastIndex(raw, ":"); idx > 2 {
		if t, err := time.Parse("15:04:05", raw); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", raw, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// String renders the canonical "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON encodes the time as an "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either an "HH:MM" string or raw minutes.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := ParseTimeOfDay(s)
		if perr != nil {
			return perr
		}
		*t = parsed
		return nil
	}
	var minutes int
	if err := json.Unmarshal(data, &minutes); err != nil {
		return fmt.Errorf("unmarshal time of day: %w", err)
	}
	*t = TimeOfDay(minutes)
	return nil
}

// Value stores the time as "HH:MM" text.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan reads "HH:MM"/"HH:MM:SS" text or a time.Time column.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case int64:
		*t = TimeOfDay(v)
		return nil
	default:
		return fmt.Errorf("unsupported time of day source %T", src)
	}
}
