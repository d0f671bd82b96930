package repository

import (
	"context"
	"errors"
	"fmt"

	"name-swiper/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// CreateIfAbsent seeds a profile row on first identity selection. Existing
// profiles are left untouched.
func (r *ProfileRepository) CreateIfAbsent(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (display_name, votes, push_token, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (display_name) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, p.DisplayName, p.Votes, p.PushToken, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Get retrieves a profile by display name
func (r *ProfileRepository) Get(ctx context.Context, displayName string) (*models.Profile, error) {
	query := `
		SELECT display_name, votes, push_token, created_at
		FROM profiles
		WHERE display_name = $1
	`
	var p models.Profile
	err := r.db.QueryRow(ctx, query, displayName).Scan(
		&p.DisplayName, &p.Votes, &p.PushToken, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// SetVote writes one ledger entry. A nil value removes the entry, which is
// how an undo of a first-time vote is persisted.
func (r *ProfileRepository) SetVote(ctx context.Context, displayName, nameID string, value *models.Vote) error {
	var (
		query string
		args  []any
	)
	if value == nil {
		query = `UPDATE profiles SET votes = votes - $2 WHERE display_name = $1`
		args = []any{displayName, nameID}
	} else {
		query = `UPDATE profiles SET votes = jsonb_set(votes, ARRAY[$2], to_jsonb($3::text)) WHERE display_name = $1`
		args = []any{displayName, nameID, string(*value)}
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set vote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearVotes empties every ledger. Used by the admin reset flow only.
func (r *ProfileRepository) ClearVotes(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `UPDATE profiles SET votes = '{}'::jsonb`); err != nil {
		return fmt.Errorf("failed to clear votes: %w", err)
	}
	return nil
}

// SetPushToken updates the push token for a profile
func (r *ProfileRepository) SetPushToken(ctx context.Context, displayName string, token *string) error {
	query := `UPDATE profiles SET push_token = $1 WHERE display_name = $2`
	result, err := r.db.Exec(ctx, query, token, displayName)
	if err != nil {
		return fmt.Errorf("failed to set push token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
