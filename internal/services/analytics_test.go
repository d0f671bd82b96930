package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-swiper/internal/models"
	"name-swiper/internal/services"
)

func TestAnalyticsCompute(t *testing.T) {
	now := time.Now()
	names := &mockNameStore{
		ListFunc: func(context.Context) ([]models.NameRecord, error) {
			return []models.NameRecord{
				{Name: "Freja", Gender: models.GenderGirl, Source: models.SourceManual, NameLength: 5, IsAMatch: true, CreatedAt: now},
				{Name: "Viggo", Gender: models.GenderBoy, Source: models.SourceImport, NameLength: 5, CreatedAt: now.AddDate(0, 0, -30)},
				{Name: "Nóra", Gender: models.GenderGirl, Source: models.SourceManual, NameLength: 4, HasSpecialChars: true, CreatedAt: now},
			}, nil
		},
	}

	a, err := services.NewAnalyticsService(names).Compute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, a.TotalNames)
	assert.Equal(t, map[string]int{"girl": 2, "boy": 1}, a.ByGender)
	assert.Equal(t, map[string]int{"manual": 2, "import": 1}, a.BySource)
	assert.InDelta(t, 14.0/3.0, a.AvgNameLength, 0.001)
	assert.Equal(t, 5, a.MostCommonLength)
	assert.Equal(t, 1, a.SpecialCharsCount)
	assert.Equal(t, 2, a.RecentlyAdded)
	assert.Equal(t, 1, a.Matches)
}

func TestAnalyticsEmptyCatalog(t *testing.T) {
	names := &mockNameStore{
		ListFunc: func(context.Context) ([]models.NameRecord, error) {
			return nil, nil
		},
	}

	a, err := services.NewAnalyticsService(names).Compute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, a.TotalNames)
	assert.Zero(t, a.AvgNameLength)
	assert.Zero(t, a.MostCommonLength)
}
