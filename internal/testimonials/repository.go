package testimonials

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no testimonial matches the id.
var ErrNotFound = fmt.Errorf("testimonials: not found")

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores testimonials in Postgres.
type Repository struct {
	db Querier
}

// NewRepository creates a repository backed by pgx, or nil when no
// database is configured.
func NewRepository(db Querier) *Repository {
	if db == nil {
		return nil
	}
	return &Repository{db: db}
}

// List returns all testimonials, newest first.
func (r *Repository) List(ctx context.Context) ([]Testimonial, error) {
	query := `
		SELECT id, name, text, rating, anonymous, created_at
		FROM testimonials
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("testimonials: list failed: %w", err)
	}
	defer rows.Close()

	var items []Testimonial
	for rows.Next() {
		var item Testimonial
		if err := rows.Scan(&item.ID, &item.Name, &item.Text, &item.Rating, &item.Anonymous, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("testimonials: scan row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("testimonials: iterate rows: %w", err)
	}
	return items, nil
}

// Insert stores a testimonial and returns it with id and timestamp.
func (r *Repository) Insert(ctx context.Context, req SubmitRequest) (*Testimonial, error) {
	name := req.Name
	if req.Anonymous {
		name = "Anonymous"
	}
	query := `
		INSERT INTO testimonials (name, text, rating, anonymous)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	item := Testimonial{
		Name:      name,
		Text:      req.Text,
		Rating:    req.Rating,
		Anonymous: req.Anonymous,
	}
	if err := r.db.QueryRow(ctx, query, name, req.Text, req.Rating, req.Anonymous).
		Scan(&item.ID, &item.CreatedAt); err != nil {
		return nil, fmt.Errorf("testimonials: insert failed: %w", err)
	}
	return &item, nil
}

// Delete removes a testimonial by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("testimonials: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
