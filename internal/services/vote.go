package services

import (
	"context"
	"errors"
	"fmt"

	"name-swiper/internal/config"
	"name-swiper/internal/models"
)

// ErrUnknownUser is returned when a request names an identity outside the
// configured pair.
var ErrUnknownUser = errors.New("unknown user")

// ProfileStore defines the profile persistence operations used by the services.
type ProfileStore interface {
	Get(ctx context.Context, displayName string) (*models.Profile, error)
	CreateIfAbsent(ctx context.Context, p *models.Profile) error
	// SetVote writes one ledger entry; nil removes it.
	SetVote(ctx context.Context, displayName, nameID string, value *models.Vote) error
	SetPushToken(ctx context.Context, displayName string, token *string) error
}

// VoteService applies votes: it writes the voter's profile ledger, mirrors
// the vote into the name's votes map, and recomputes the cached match flag
// from the full map on every change.
type VoteService struct {
	names    NameStore
	profiles ProfileStore
	users    config.UsersConfig
}

// NewVoteService creates a new vote service
func NewVoteService(names NameStore, profiles ProfileStore, users config.UsersConfig) *VoteService {
	return &VoteService{names: names, profiles: profiles, users: users}
}

// CastResult reports the outcome of a vote write.
type CastResult struct {
	Record *models.NameRecord
	// NewMatch is true only when this write flipped the match flag from
	// false to true. Callers fire match notifications off this exactly once.
	NewMatch bool
}

// Cast records a vote by one user on one name.
func (s *VoteService) Cast(ctx context.Context, user, nameID string, value models.Vote) (*CastResult, error) {
	if !s.users.Known(user) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, user)
	}
	if !value.Valid() {
		return nil, fmt.Errorf("%w: unknown vote %q", ErrInvalidInput, value)
	}
	return s.apply(ctx, user, nameID, &value)
}

// Clear removes a user's vote from a name. This backs the undo flow when
// the pre-vote state was "absent".
func (s *VoteService) Clear(ctx context.Context, user, nameID string) (*CastResult, error) {
	if !s.users.Known(user) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, user)
	}
	return s.apply(ctx, user, nameID, nil)
}

func (s *VoteService) apply(ctx context.Context, user, nameID string, value *models.Vote) (*CastResult, error) {
	rec, err := s.names.GetByID(ctx, nameID)
	if err != nil {
		return nil, err
	}

	votes := make(map[string]models.Vote, len(rec.Votes)+1)
	for k, v := range rec.Votes {
		votes[k] = v
	}
	if value == nil {
		delete(votes, user)
	} else {
		votes[user] = *value
	}

	wasMatch := rec.IsAMatch
	isMatch := models.IsMatch(votes, s.users.A, s.users.B)

	if err := s.names.SetVotesAndMatch(ctx, nameID, votes, isMatch); err != nil {
		return nil, fmt.Errorf("failed to persist vote: %w", err)
	}
	if err := s.profiles.SetVote(ctx, user, nameID, value); err != nil {
		return nil, fmt.Errorf("failed to persist ledger entry: %w", err)
	}

	rec.Votes = votes
	rec.IsAMatch = isMatch
	return &CastResult{Record: rec, NewMatch: isMatch && !wasMatch}, nil
}

// Partner returns the other configured identity.
func (s *VoteService) Partner(user string) string {
	return s.users.Partner(user)
}

// GetProfile returns one identity's profile. Profiles are seeded at
// identity selection, so a missing row means the user never logged in.
func (s *VoteService) GetProfile(ctx context.Context, user string) (*models.Profile, error) {
	if !s.users.Known(user) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, user)
	}
	return s.profiles.Get(ctx, user)
}

// SetPushToken stores the device token used for match alerts.
func (s *VoteService) SetPushToken(ctx context.Context, user string, token *string) error {
	if !s.users.Known(user) {
		return fmt.Errorf("%w: %s", ErrUnknownUser, user)
	}
	return s.profiles.SetPushToken(ctx, user, token)
}
