package notify

import (
	"context"
	"fmt"

	"github.com/anvita-clinic/booking-api/pkg/logging"
)

// BookingConfirmation carries everything the confirmation emails need.
type BookingConfirmation struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Date          string
	Slot          string
	Currency      string
	Amount        int64
	TransactionID string
}

// Service sends booking confirmations and contact messages to the
// customer and the practitioner.
type Service struct {
	email             EmailSender
	practitionerEmail string
	practitionerName  string
	logger            *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, practitionerEmail, practitionerName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:             email,
		practitionerEmail: practitionerEmail,
		practitionerName:  practitionerName,
		logger:            logger,
	}
}

// SendBookingConfirmation emails the customer and the practitioner.
// The confirmation email is the customer's only proof of booking (no
// calendar invite is sent), so any delivery failure is an error.
func (s *Service) SendBookingConfirmation(ctx context.Context, c BookingConfirmation) error {
	if s.email == nil {
		return fmt.Errorf("notify: no email sender configured")
	}

	var errs []error

	customerMsg := EmailMessage{
		To:      c.CustomerEmail,
		ToName:  c.CustomerName,
		Subject: fmt.Sprintf("Appointment confirmed: %s at %s", c.Date, c.Slot),
		Body: fmt.Sprintf(`Hello %s,

Your appointment with %s is confirmed.

Date: %s
Time: %s
Amount paid: %s %d
Transaction: %s

If you need to reschedule, reply to this email or call the practice.

— %s`, c.CustomerName, s.practitionerName, c.Date, c.Slot, c.Currency, c.Amount, c.TransactionID, s.practitionerName),
	}
	if err := s.email.Send(ctx, customerMsg); err != nil {
		s.logger.Error("customer confirmation failed", "error", err, "to", c.CustomerEmail)
		errs = append(errs, err)
	}

	if s.practitionerEmail != "" {
		practitionerMsg := EmailMessage{
			To:      s.practitionerEmail,
			ToName:  s.practitionerName,
			Subject: fmt.Sprintf("New booking: %s on %s at %s", c.CustomerName, c.Date, c.Slot),
			Body: fmt.Sprintf(`New appointment booked.

Customer: %s
Email: %s
Phone: %s
Date: %s
Time: %s
Paid: %s %d
Transaction: %s`, c.CustomerName, c.CustomerEmail, c.CustomerPhone, c.Date, c.Slot, c.Currency, c.Amount, c.TransactionID),
		}
		if err := s.email.Send(ctx, practitionerMsg); err != nil {
			s.logger.Error("practitioner notification failed", "error", err, "to", s.practitionerEmail)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed", len(errs))
	}
	return nil
}

// ContactMessage is an enquiry from the contact form.
type ContactMessage struct {
	Name    string
	Phone   string
	Message string
}

// SendContactMessage forwards a contact-form enquiry to the
// practitioner.
func (s *Service) SendContactMessage(ctx context.Context, m ContactMessage) error {
	if s.email == nil {
		return fmt.Errorf("notify: no email sender configured")
	}
	if s.practitionerEmail == "" {
		return fmt.Errorf("notify: practitioner email not configured")
	}

	msg := EmailMessage{
		To:      s.practitionerEmail,
		ToName:  s.practitionerName,
		Subject: fmt.Sprintf("Website enquiry from %s", m.Name),
		Body: fmt.Sprintf(`New enquiry from the website contact form.

Name: %s
Phone: %s

%s`, m.Name, m.Phone, m.Message),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: contact message: %w", err)
	}
	return nil
}
