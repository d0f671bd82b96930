package repository

import (
	"context"
	"errors"
	"fmt"

	"name-swiper/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors surfaced by the repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("name already exists")
)

const uniqueViolation = "23505"

// NameRepository handles database operations for the name catalog
type NameRepository struct {
	db *pgxpool.Pool
}

// NewNameRepository creates a new name repository
func NewNameRepository(db *pgxpool.Pool) *NameRepository {
	return &NameRepository{db: db}
}

const nameColumns = `id, name, gender, votes, is_a_match, tags, source, name_length, has_special_chars, added_by, created_at`

// Create inserts a new name record. A case-insensitive duplicate is
// rejected with ErrDuplicateName via the unique index on lower(name).
func (r *NameRepository) Create(ctx context.Context, rec *models.NameRecord) error {
	query := `
		INSERT INTO names (` + nameColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.Name, rec.Gender, rec.Votes, rec.IsAMatch, rec.Tags,
		rec.Source, rec.NameLength, rec.HasSpecialChars, rec.AddedBy, rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create name: %w", err)
	}
	return nil
}

// List retrieves the full catalog, most recently added first.
func (r *NameRepository) List(ctx context.Context) ([]models.NameRecord, error) {
	query := `
		SELECT ` + nameColumns + `
		FROM names
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}
	defer rows.Close()

	var names []models.NameRecord
	for rows.Next() {
		rec, err := scanName(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating names: %w", err)
	}
	return names, nil
}

// GetByID retrieves a single name record
func (r *NameRepository) GetByID(ctx context.Context, id string) (*models.NameRecord, error) {
	query := `
		SELECT ` + nameColumns + `
		FROM names
		WHERE id = $1
	`
	rec, err := scanName(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get name: %w", err)
	}
	return &rec, nil
}

// NameExists reports whether a name already exists, compared
// case-insensitively.
func (r *NameRepository) NameExists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM names WHERE lower(name) = lower($1))`
	var exists bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check name existence: %w", err)
	}
	return exists, nil
}

// SetVotesAndMatch replaces the votes map and the cached match flag of a
// name. The surrounding read-modify-write has no transaction guarantee:
// if both users vote on the same name inside one round-trip window the last
// write wins. Each user writes only their own key, so the accepted loss is
// limited to one overwritten vote.
func (r *NameRepository) SetVotesAndMatch(ctx context.Context, id string, votes map[string]models.Vote, isAMatch bool) error {
	query := `UPDATE names SET votes = $1, is_a_match = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, votes, isAMatch, id)
	if err != nil {
		return fmt.Errorf("failed to update votes: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll wipes the catalog. Used by the admin reset flow only.
func (r *NameRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM names`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear names: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanName(row pgx.Row) (models.NameRecord, error) {
	var rec models.NameRecord
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Gender, &rec.Votes, &rec.IsAMatch, &rec.Tags,
		&rec.Source, &rec.NameLength, &rec.HasSpecialChars, &rec.AddedBy, &rec.CreatedAt,
	)
	return rec, err
}
