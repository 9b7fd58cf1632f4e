package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// TheatreRepo encapsulates database queries for theatres.
type TheatreRepo struct {
	db *sql.DB
}

// NewTheatreRepo constructs a TheatreRepo with the provided DB handle.
func NewTheatreRepo(db *sql.DB) *TheatreRepo { return &TheatreRepo{db: db} }

const theatreColumns = `id, name, city, address, is_active, created_at, updated_at`

// Create inserts a new theatre and populates DB-default fields.
func (r *TheatreRepo) Create(ctx context.Context, t *model.Theatre) error {
	const q = `INSERT INTO theatres (name, city, address) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.City, t.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	got, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// GetByID fetches a theatre by ID.  Returns ErrTheatreNotFound when no
// row matches.
func (r *TheatreRepo) GetByID(ctx context.Context, id uint64) (*model.Theatre, error) {
	const q = `SELECT ` + theatreColumns + ` FROM theatres WHERE id = ?`
	var t model.Theatre
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Name, &t.City, &t.Address, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheatreNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListAll returns every theatre ordered by city then name.
func (r *TheatreRepo) ListAll(ctx context.Context) ([]model.Theatre, error) {
	const q = `SELECT ` + theatreColumns + ` FROM theatres ORDER BY city, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Theatre
	for rows.Next() {
		var t model.Theatre
		err := rows.Scan(&t.ID, &t.Name, &t.City, &t.Address, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a theatre.
func (r *TheatreRepo) Update(ctx context.Context, t *model.Theatre) error {
	const q = `UPDATE theatres SET name = ?, city = ?, address = ?, is_active = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, t.Name, t.City, t.Address, t.IsActive, t.ID); err != nil {
		return err
	}
	got, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// Delete deactivates a theatre.  Screens and shows keep referencing it
// for historic bookings.
func (r *TheatreRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `UPDATE theatres SET is_active = 0 WHERE id = ?`, id)
	return err
}
