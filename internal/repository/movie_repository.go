package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// MovieRepo encapsulates database queries for the movie catalog.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = `id, title, description, duration_min, language, genre,
       poster_url, rating, is_active, created_at, updated_at`

// Create inserts a new movie.  On success the movie's ID and DB-default
// fields are populated.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, description, duration_min, language, genre, poster_url, rating)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin, m.Language, m.Genre, m.PosterURL, m.Rating)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.reload(ctx, m)
}

func (r *MovieRepo) reload(ctx context.Context, m *model.Movie) error {
	got, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

// GetByID fetches a movie by its ID.  Returns ErrMovieNotFound when no
// row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = ?`
	return scanMovie(r.db.QueryRowContext(ctx, q, id))
}

func scanMovie(row *sql.Row) (*model.Movie, error) {
	var (
		m      model.Movie
		poster sql.NullString
	)
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Language, &m.Genre,
		&poster, &m.Rating, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if poster.Valid {
		v := poster.String
		m.PosterURL = &v
	}
	return &m, nil
}

// ListActive returns all publicly listed movies ordered by title.
func (r *MovieRepo) ListActive(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE is_active = 1 ORDER BY title`
	return r.list(ctx, q)
}

// ListAll returns every movie, for the admin catalog.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies ORDER BY id`
	return r.list(ctx, q)
}

func (r *MovieRepo) list(ctx context.Context, query string) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Movie
	for rows.Next() {
		var (
			m      model.Movie
			poster sql.NullString
		)
		err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DurationMin, &m.Language, &m.Genre,
			&poster, &m.Rating, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if poster.Valid {
			v := poster.String
			m.PosterURL = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a movie.  Returns
// ErrMovieNotFound when the row does not exist.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = ?, description = ?, duration_min = ?, language = ?,
	               genre = ?, poster_url = ?, rating = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.DurationMin, m.Language,
		m.Genre, m.PosterURL, m.Rating, m.IsActive, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing" from "no change".
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return r.reload(ctx, m)
}

// Delete deactivates a movie rather than removing it, so historic
// bookings keep their references.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE movies SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
