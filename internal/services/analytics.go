package services

import (
	"context"
	"time"

	"name-swiper/internal/models"
)

// Analytics is a read-only projection over the catalog.
type Analytics struct {
	TotalNames        int            `json:"total_names"`
	ByGender          map[string]int `json:"by_gender"`
	BySource          map[string]int `json:"by_source"`
	AvgNameLength     float64        `json:"avg_name_length"`
	MostCommonLength  int            `json:"most_common_length"`
	SpecialCharsCount int            `json:"special_chars_count"`
	RecentlyAdded     int            `json:"recently_added"`
	Matches           int            `json:"matches"`
}

// AnalyticsService computes catalog statistics
type AnalyticsService struct {
	names NameStore
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(names NameStore) *AnalyticsService {
	return &AnalyticsService{names: names}
}

// Compute builds the dashboard numbers from a full catalog read. "Recent"
// means added within the last seven days.
func (s *AnalyticsService) Compute(ctx context.Context) (*Analytics, error) {
	names, err := s.names.List(ctx)
	if err != nil {
		return nil, err
	}

	a := &Analytics{
		TotalNames: len(names),
		ByGender:   map[string]int{},
		BySource:   map[string]int{},
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	lengths := map[int]int{}
	totalLength := 0

	for _, n := range names {
		a.ByGender[string(n.Gender)]++

		source := n.Source
		if source == "" {
			source = models.SourceManual
		}
		a.BySource[source]++

		length := n.NameLength
		if length == 0 {
			length = len([]rune(n.Name))
		}
		totalLength += length
		lengths[length]++

		if n.HasSpecialChars {
			a.SpecialCharsCount++
		}
		if n.CreatedAt.After(weekAgo) {
			a.RecentlyAdded++
		}
		if n.IsAMatch {
			a.Matches++
		}
	}

	if len(names) > 0 {
		a.AvgNameLength = float64(totalLength) / float64(len(names))
	}
	for length, count := range lengths {
		if count > lengths[a.MostCommonLength] || (count == lengths[a.MostCommonLength] && length > a.MostCommonLength) {
			a.MostCommonLength = length
		}
	}

	return a, nil
}
