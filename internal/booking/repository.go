package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no booking matches the query.
var ErrNotFound = fmt.Errorf("booking: not found")

// Querier is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists booking records in Postgres.
type Repository struct {
	db Querier
}

// NewRepository creates a repository backed by pgx. A nil db yields a
// nil repository, which the reconciler treats as persistence disabled.
func NewRepository(db Querier) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db}
}

// Insert stores a booking row and returns its id.
func (r *Repository) Insert(ctx context.Context, rec Record) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	query := `
		INSERT INTO bookings (id, customer_name, customer_email, customer_phone, appointment_date, slot_label, currency, amount, transaction_id, calendar_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query,
		rec.ID,
		rec.CustomerName,
		rec.CustomerEmail,
		rec.CustomerPhone,
		rec.AppointmentDate,
		rec.SlotLabel,
		rec.Currency,
		rec.Amount,
		rec.TransactionID,
		rec.CalendarEventID,
	).Scan(&rec.CreatedAt); err != nil {
		return uuid.Nil, fmt.Errorf("booking: insert failed: %w", err)
	}
	return rec.ID, nil
}

// GetByTransactionID fetches the booking recorded for a payment.
func (r *Repository) GetByTransactionID(ctx context.Context, transactionID string) (*Record, error) {
	query := `
		SELECT id, customer_name, customer_email, customer_phone, appointment_date, slot_label, currency, amount, transaction_id, calendar_event_id, created_at
		FROM bookings
		WHERE transaction_id = $1
	`
	var rec Record
	if err := r.db.QueryRow(ctx, query, transactionID).Scan(
		&rec.ID,
		&rec.CustomerName,
		&rec.CustomerEmail,
		&rec.CustomerPhone,
		&rec.AppointmentDate,
		&rec.SlotLabel,
		&rec.Currency,
		&rec.Amount,
		&rec.TransactionID,
		&rec.CalendarEventID,
		&rec.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("booking: select by transaction failed: %w", err)
	}
	return &rec, nil
}

// ListByDate returns the bookings recorded for one appointment date,
// most recent first.
func (r *Repository) ListByDate(ctx context.Context, date string) ([]Record, error) {
	query := `
		SELECT id, customer_name, customer_email, customer_phone, appointment_date, slot_label, currency, amount, transaction_id, calendar_event_id, created_at
		FROM bookings
		WHERE appointment_date = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("booking: list by date failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.CustomerName,
			&rec.CustomerEmail,
			&rec.CustomerPhone,
			&rec.AppointmentDate,
			&rec.SlotLabel,
			&rec.Currency,
			&rec.Amount,
			&rec.TransactionID,
			&rec.CalendarEventID,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("booking: scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate rows: %w", err)
	}
	return records, nil
}
