package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request is a booking submitted after the customer has already paid.
// TransactionID references the completed payment.
type Request struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Date          string `json:"date"`
	Slot          string `json:"slot"`
	Currency      string `json:"currency"`
	Amount        int64  `json:"amount"`
	TransactionID string `json:"transactionId"`
}

// Validate checks the fields required to record and confirm a booking.
func (r *Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(r.Slot) == "" {
		missing = append(missing, "slot")
	}
	if strings.TrimSpace(r.TransactionID) == "" {
		missing = append(missing, "transactionId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("booking: missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// StageError records a non-fatal failure in one stage of the booking
// pipeline. The booking still completes; the stage is reported so the
// practitioner can repair it by hand.
type StageError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Outcome is the result of reconciling a paid booking.
type Outcome struct {
	Success         bool         `json:"success"`
	Conflict        bool         `json:"conflict,omitempty"`
	CalendarEventID string       `json:"calendarEventId,omitempty"`
	BookingID       string       `json:"bookingId,omitempty"`
	TransactionID   string       `json:"transactionId,omitempty"`
	Errors          []StageError `json:"errors,omitempty"`
}

// Record is a persisted booking row.
type Record struct {
	ID              uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	AppointmentDate string
	SlotLabel       string
	Currency        string
	Amount          int64
	TransactionID   string
	CalendarEventID string
	CreatedAt       time.Time
}
