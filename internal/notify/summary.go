package notify

import (
	"fmt"
	"strings"
	"time"

	"charter-leads/internal/leads"
)

const timeLayout = "Jan 2, 2006 3:04 PM MST"

// UrgencyLabel is the label used in email subjects and bodies.
func UrgencyLabel(u leads.Urgency) string {
	switch u {
	case leads.UrgencyCritical:
		return "🚨 CRITICAL"
	case leads.UrgencyUrgent:
		return "⚡ URGENT"
	default:
		return "Normal"
	}
}

func spokenUrgency(u leads.Urgency) string {
	switch u {
	case leads.UrgencyCritical:
		return "CRITICAL"
	case leads.UrgencyUrgent:
		return "URGENT"
	default:
		return "standard"
	}
}

func EmailSubject(brand string, l leads.Lead) string {
	return fmt.Sprintf("New %s Lead - %s - %s", brand, UrgencyLabel(l.Urgency), l.Name)
}

// EmailBody renders the plain text notification.
func EmailBody(l leads.Lead, loc *time.Location) string {
	notes := l.Notes
	if strings.TrimSpace(notes) == "" {
		notes = "None"
	}

	var b strings.Builder
	b.WriteString("New Charter Lead Received\n")
	b.WriteString("========================\n\n")
	fmt.Fprintf(&b, "Urgency: %s\n", UrgencyLabel(l.Urgency))
	fmt.Fprintf(&b, "Time: %s\n\n", formatTime(l.Timestamp, loc))

	b.WriteString("PASSENGER INFO\n")
	b.WriteString("--------------\n")
	fmt.Fprintf(&b, "Name: %s\n", l.Name)
	fmt.Fprintf(&b, "Email: %s\n", l.Email)
	fmt.Fprintf(&b, "Phone: %s\n", l.Phone)
	fmt.Fprintf(&b, "Passengers: %d\n\n", l.Pax)

	b.WriteString("FLIGHT INFO\n")
	b.WriteString("-----------\n")
	fmt.Fprintf(&b, "From: %s\n", l.FromAirportOrCity)
	fmt.Fprintf(&b, "To: %s\n", l.ToAirportOrCity)
	fmt.Fprintf(&b, "Date/Time: %s\n\n", l.DateTime)

	b.WriteString("NOTES\n")
	b.WriteString("-----\n")
	b.WriteString(notes)
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "Lead ID: %s", l.ID)
	return b.String()
}

// SpokenSummary is read out on the voice notification call.
func SpokenSummary(brand string, l leads.Lead, loc *time.Location) string {
	parts := []string{
		fmt.Sprintf("Hi, this is an automated notification from %s.", brand),
		fmt.Sprintf("You have a new %s priority charter lead.", spokenUrgency(l.Urgency)),
		fmt.Sprintf("Passenger name: %s.", l.Name),
		fmt.Sprintf("Route: %s to %s.", l.FromAirportOrCity, l.ToAirportOrCity),
		fmt.Sprintf("Departure: %s.", l.DateTime),
		fmt.Sprintf("Number of passengers: %d.", l.Pax),
		fmt.Sprintf("Contact phone: %s.", l.Phone),
		fmt.Sprintf("Contact email: %s.", l.Email),
	}
	if n := strings.TrimSpace(l.Notes); n != "" {
		parts = append(parts, fmt.Sprintf("Additional notes: %s.", n))
	}
	parts = append(parts,
		fmt.Sprintf("This lead was submitted at %s.", formatTime(l.Timestamp, loc)),
		fmt.Sprintf("Lead ID: %s.", l.ID),
		"You can view full details in your admin dashboard. Thank you.",
	)
	return strings.Join(parts, " ")
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timeLayout)
}
