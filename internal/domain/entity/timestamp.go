package entity

import (
	"strings"
	"time"
)

// Timestamp decodes the backend's timestamps. The marketplace backend emits
// zoneless LocalDateTime strings ("2025-04-12T09:30:00"), while RFC 3339 is
// accepted too for forward compatibility.
type Timestamp struct {
	time.Time
}

const localDateTime = "2006-01-02T15:04:05"

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}

	parsed, err := time.Parse(localDateTime, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Time.Format(time.RFC3339) + `"`), nil
}
