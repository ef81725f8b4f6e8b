package leads

import "time"

// Lead is a persisted charter request.
// Rows are insert-only; nothing in this service edits a lead after creation.
type Lead struct {
	ID        string    `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	FromAirportOrCity string `json:"from_airport_or_city" db:"from_airport_or_city"`
	ToAirportOrCity   string `json:"to_airport_or_city" db:"to_airport_or_city"`
	// DateTime is free-form on purpose ("next Tuesday morning" is a valid answer).
	DateTime string `json:"date_time" db:"date_time"`
	Pax      int    `json:"pax" db:"pax"`

	Name  string `json:"name" db:"name"`
	Phone string `json:"phone" db:"phone"`
	Email string `json:"email" db:"email"`

	Urgency Urgency `json:"urgency" db:"urgency"`
	Notes   string  `json:"notes,omitempty" db:"notes"`
}

// Input is the canonical lead record before the store assigns id and timestamp.
// Both the web form and the voice pipelines produce one.
type Input struct {
	FromAirportOrCity string  `json:"from_airport_or_city"`
	ToAirportOrCity   string  `json:"to_airport_or_city"`
	DateTime          string  `json:"date_time"`
	Pax               int     `json:"pax"`
	Name              string  `json:"name"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email"`
	Urgency           Urgency `json:"urgency"`
	Notes             string  `json:"notes,omitempty"`
}

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyCritical:
		return true
	default:
		return false
	}
}

// Field bounds shared by both pipelines.
const (
	MaxPlaceLen = 100
	MaxNameLen  = 100
	MaxPhoneLen = 50
	MaxEmailLen = 254
	MaxNotesLen = 1000
	MinPax      = 1
	MaxPax      = 50
)

func (in Input) toLead(id string, ts time.Time) Lead {
	return Lead{
		ID:                id,
		Timestamp:         ts,
		FromAirportOrCity: in.FromAirportOrCity,
		ToAirportOrCity:   in.ToAirportOrCity,
		DateTime:          in.DateTime,
		Pax:               in.Pax,
		Name:              in.Name,
		Phone:             in.Phone,
		Email:             in.Email,
		Urgency:           in.Urgency,
		Notes:             in.Notes,
	}
}
