package services_test

import (
	"context"

	"name-swiper/internal/models"
)

type mockNameStore struct {
	CreateFunc           func(ctx context.Context, rec *models.NameRecord) error
	ListFunc             func(ctx context.Context) ([]models.NameRecord, error)
	GetByIDFunc          func(ctx context.Context, id string) (*models.NameRecord, error)
	SetVotesAndMatchFunc func(ctx context.Context, id string, votes map[string]models.Vote, isAMatch bool) error
}

func (m *mockNameStore) Create(ctx context.Context, rec *models.NameRecord) error {
	return m.CreateFunc(ctx, rec)
}
func (m *mockNameStore) List(ctx context.Context) ([]models.NameRecord, error) {
	return m.ListFunc(ctx)
}
func (m *mockNameStore) GetByID(ctx context.Context, id string) (*models.NameRecord, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockNameStore) SetVotesAndMatch(ctx context.Context, id string, votes map[string]models.Vote, isAMatch bool) error {
	return m.SetVotesAndMatchFunc(ctx, id, votes, isAMatch)
}

type mockTagStore struct {
	CreateFunc         func(ctx context.Context, tag *models.Tag) error
	ListFunc           func(ctx context.Context) ([]models.Tag, error)
	FindByNameFunc     func(ctx context.Context, name string) (*models.Tag, error)
	IncrementUsageFunc func(ctx context.Context, ids []string) error
}

func (m *mockTagStore) Create(ctx context.Context, tag *models.Tag) error {
	return m.CreateFunc(ctx, tag)
}
func (m *mockTagStore) List(ctx context.Context) ([]models.Tag, error) {
	return m.ListFunc(ctx)
}
func (m *mockTagStore) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	return m.FindByNameFunc(ctx, name)
}
func (m *mockTagStore) IncrementUsage(ctx context.Context, ids []string) error {
	return m.IncrementUsageFunc(ctx, ids)
}

type mockProfileStore struct {
	GetFunc            func(ctx context.Context, displayName string) (*models.Profile, error)
	CreateIfAbsentFunc func(ctx context.Context, p *models.Profile) error
	SetVoteFunc        func(ctx context.Context, displayName, nameID string, value *models.Vote) error
	SetPushTokenFunc   func(ctx context.Context, displayName string, token *string) error
}

func (m *mockProfileStore) Get(ctx context.Context, displayName string) (*models.Profile, error) {
	return m.GetFunc(ctx, displayName)
}
func (m *mockProfileStore) CreateIfAbsent(ctx context.Context, p *models.Profile) error {
	return m.CreateIfAbsentFunc(ctx, p)
}
func (m *mockProfileStore) SetVote(ctx context.Context, displayName, nameID string, value *models.Vote) error {
	return m.SetVoteFunc(ctx, displayName, nameID, value)
}
func (m *mockProfileStore) SetPushToken(ctx context.Context, displayName string, token *string) error {
	return m.SetPushTokenFunc(ctx, displayName, token)
}
