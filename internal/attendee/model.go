package attendee

import (
	"bytes"
	"fmt"
	"time"
)

// LocalTimeLayout is the wire format for product dates: ISO-8601 without an
// offset, as stored in the ticket database.
const LocalTimeLayout = "2006-01-02T15:04:05"

// LocalTime is a wall-clock timestamp. The zero value encodes as null.
type LocalTime struct {
	time.Time
}

func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(LocalTimeLayout) + `"`), nil
}

func (t *LocalTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("local time: expected string, got %s", b)
	}
	parsed, err := time.Parse(LocalTimeLayout, string(b[1:len(b)-1]))
	if err != nil {
		return fmt.Errorf("local time: %w", err)
	}
	t.Time = parsed
	return nil
}

// Product is a purchased entitlement for one popup city.
type Product struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	StartDate LocalTime `json:"start_date"`
	EndDate   LocalTime `json:"end_date"`
}

// AttendeeTickets is one (attendee, popup city) pairing and its products.
type AttendeeTickets struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Category  string     `json:"category"`
	PopupCity string     `json:"popup_city"`
	Products  []*Product `json:"products"`
}

// Attendee is a row from the attendees table joined to its popup city.
type Attendee struct {
	ID        int64
	Name      string
	Email     string
	Category  string
	PopupID   int64
	PopupCity string
}
