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

// ErrDuplicateTag is returned when a tag name already exists, compared
// case-insensitively.
var ErrDuplicateTag = errors.New("tag already exists")

// TagRepository handles database operations for tags
type TagRepository struct {
	db *pgxpool.Pool
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (id, name, description, created_by, usage_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		tag.ID, tag.Name, tag.Description, tag.CreatedBy, tag.UsageCount, tag.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateTag
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// List retrieves all tags ordered by name
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	query := `
		SELECT id, name, description, created_by, usage_count, created_at
		FROM tags
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Description, &tag.CreatedBy, &tag.UsageCount, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

// FindByName retrieves a tag by name, compared case-insensitively
func (r *TagRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	query := `
		SELECT id, name, description, created_by, usage_count, created_at
		FROM tags
		WHERE lower(name) = lower($1)
	`
	var tag models.Tag
	err := r.db.QueryRow(ctx, query, name).Scan(
		&tag.ID, &tag.Name, &tag.Description, &tag.CreatedBy, &tag.UsageCount, &tag.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return &tag, nil
}

// IncrementUsage bumps the usage counter of the given tags
func (r *TagRepository) IncrementUsage(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE tags SET usage_count = usage_count + 1 WHERE id = ANY($1)`
	if _, err := r.db.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to increment tag usage: %w", err)
	}
	return nil
}

// DeleteAll wipes the tag collection. Used by the admin reset flow only.
func (r *TagRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM tags`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear tags: %w", err)
	}
	return result.RowsAffected(), nil
}
