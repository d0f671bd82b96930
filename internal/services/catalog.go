package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"name-swiper/internal/categorizer"
	"name-swiper/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidInput marks validation failures that map to a client error.
var ErrInvalidInput = errors.New("invalid input")

// NameStore defines the catalog persistence operations used by the services.
type NameStore interface {
	// Create inserts a record, rejecting case-insensitive duplicates.
	Create(ctx context.Context, rec *models.NameRecord) error
	// List returns the full catalog, most recently added first.
	List(ctx context.Context) ([]models.NameRecord, error)
	// GetByID returns a single record.
	GetByID(ctx context.Context, id string) (*models.NameRecord, error)
	// SetVotesAndMatch replaces a record's votes map and cached match flag.
	SetVotesAndMatch(ctx context.Context, id string, votes map[string]models.Vote, isAMatch bool) error
}

// TagStore defines the tag persistence operations used by the services.
type TagStore interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context) ([]models.Tag, error)
	FindByName(ctx context.Context, name string) (*models.Tag, error)
	IncrementUsage(ctx context.Context, ids []string) error
}

// CatalogService handles name catalog business logic
type CatalogService struct {
	names NameStore
	tags  TagStore
}

// NewCatalogService creates a new catalog service
func NewCatalogService(names NameStore, tags TagStore) *CatalogService {
	return &CatalogService{names: names, tags: tags}
}

// ListNames returns the full catalog
func (s *CatalogService) ListNames(ctx context.Context) ([]models.NameRecord, error) {
	return s.names.List(ctx)
}

// CreateName validates and inserts a candidate name. Explicitly selected
// tag ids are merged with the categorizer's inferred categories; analytics
// fields are recorded at creation time. Duplicate names are rejected with
// repository.ErrDuplicateName regardless of case.
func (s *CatalogService) CreateName(ctx context.Context, name string, gender models.Gender, tagIDs []string, addedBy, source string) (*models.NameRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !gender.Valid() {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, gender)
	}
	if source == "" {
		source = models.SourceManual
	}

	rec := &models.NameRecord{
		ID:              uuid.New().String(),
		Name:            name,
		Gender:          gender,
		Votes:           map[string]models.Vote{},
		Tags:            mergeTags(tagIDs, categorizer.Categorize(name)),
		Source:          source,
		NameLength:      len([]rune(name)),
		HasSpecialChars: categorizer.HasSpecialChars(name),
		AddedBy:         addedBy,
		CreatedAt:       time.Now(),
	}

	if err := s.names.Create(ctx, rec); err != nil {
		return nil, err
	}

	// Usage counts are informational; a failed bump never fails the add.
	if len(tagIDs) > 0 {
		if err := s.tags.IncrementUsage(ctx, tagIDs); err != nil {
			log.Warn().Err(err).Str("name", name).Msg("Failed to bump tag usage")
		}
	}

	return rec, nil
}

func mergeTags(explicit, inferred []string) []string {
	seen := make(map[string]bool, len(explicit)+len(inferred))
	var out []string
	for _, id := range append(append([]string{}, explicit...), inferred...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
