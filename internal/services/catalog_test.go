package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-swiper/internal/models"
	"name-swiper/internal/repository"
	"name-swiper/internal/services"
)

func TestCreateNameValidation(t *testing.T) {
	svc := services.NewCatalogService(&mockNameStore{}, &mockTagStore{})

	_, err := svc.CreateName(context.Background(), "   ", models.GenderGirl, nil, "Andreas", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.CreateName(context.Background(), "Freja", "dragon", nil, "Andreas", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCreateNameRejectsDuplicates(t *testing.T) {
	names := &mockNameStore{
		CreateFunc: func(context.Context, *models.NameRecord) error {
			return repository.ErrDuplicateName
		},
	}
	svc := services.NewCatalogService(names, &mockTagStore{})

	_, err := svc.CreateName(context.Background(), "Freja", models.GenderGirl, nil, "Andreas", "")
	assert.ErrorIs(t, err, repository.ErrDuplicateName)
}

func TestCreateNameMergesExplicitAndInferredTags(t *testing.T) {
	var created *models.NameRecord
	names := &mockNameStore{
		CreateFunc: func(_ context.Context, rec *models.NameRecord) error {
			created = rec
			return nil
		},
	}
	var bumped []string
	tags := &mockTagStore{
		IncrementUsageFunc: func(_ context.Context, ids []string) error {
			bumped = ids
			return nil
		},
	}
	svc := services.NewCatalogService(names, tags)

	// "Astrid" carries the nordic keyword, so the categorizer adds its
	// category on top of the explicit pick.
	rec, err := svc.CreateName(context.Background(), "  Astrid ", models.GenderGirl, []string{"family-favorite"}, "Emilie", "")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "Astrid", rec.Name)
	assert.Equal(t, models.SourceManual, rec.Source)
	assert.Equal(t, "Emilie", rec.AddedBy)
	assert.Equal(t, 6, rec.NameLength)
	assert.False(t, rec.HasSpecialChars)
	assert.Contains(t, rec.Tags, "family-favorite")
	assert.Contains(t, rec.Tags, "nordic")
	assert.Equal(t, []string{"family-favorite"}, bumped)
}

func TestCreateNameSurvivesUsageBumpFailure(t *testing.T) {
	names := &mockNameStore{
		CreateFunc: func(context.Context, *models.NameRecord) error { return nil },
	}
	tags := &mockTagStore{
		IncrementUsageFunc: func(context.Context, []string) error {
			return errors.New("db down")
		},
	}
	svc := services.NewCatalogService(names, tags)

	_, err := svc.CreateName(context.Background(), "Freja", models.GenderGirl, []string{"t1"}, "Andreas", "")
	assert.NoError(t, err)
}
