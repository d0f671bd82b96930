package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"name-swiper/internal/categorizer"
	"name-swiper/internal/models"
	"name-swiper/internal/repository"

	"github.com/google/uuid"
)

// TagService handles tag business logic
type TagService struct {
	tags TagStore
}

// NewTagService creates a new tag service
func NewTagService(tags TagStore) *TagService {
	return &TagService{tags: tags}
}

// ListTags returns all tags ordered by name
func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.List(ctx)
}

// CreateTag creates a tag, or returns the existing one when the name is
// already taken under case-insensitive comparison.
func (s *TagService) CreateTag(ctx context.Context, name, description, createdBy string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrInvalidInput)
	}

	tag := &models.Tag{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}

	err := s.tags.Create(ctx, tag)
	if errors.Is(err, repository.ErrDuplicateTag) {
		return s.tags.FindByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// SeedDefaults creates the built-in category set when missing. Existing
// tags with the same name are left untouched.
func (s *TagService) SeedDefaults(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	for _, cat := range categorizer.Categories {
		tag, err := s.CreateTag(ctx, cat.Name, cat.Description, "system")
		if err != nil {
			return nil, fmt.Errorf("failed to seed tag %q: %w", cat.Name, err)
		}
		out = append(out, *tag)
	}
	return out, nil
}
