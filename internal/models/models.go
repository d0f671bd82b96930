package models

import "time"

// Vote is one user's disposition toward one name.
type Vote string

const (
	VoteYes      Vote = "yes"
	VoteNo       Vote = "no"
	VoteFavorite Vote = "favorite"
)

// Valid reports whether v is one of the three known vote values.
func (v Vote) Valid() bool {
	return v == VoteYes || v == VoteNo || v == VoteFavorite
}

// Gender is the gender classification of a name.
type Gender string

const (
	GenderBoy    Gender = "boy"
	GenderGirl   Gender = "girl"
	GenderUnisex Gender = "unisex"
)

// Valid reports whether g is a known gender value.
func (g Gender) Valid() bool {
	return g == GenderBoy || g == GenderGirl || g == GenderUnisex
}

// Name sources as recorded for analytics.
const (
	SourceManual = "manual"
	SourceImport = "import"
	SourceLink   = "link"
)

// NameRecord is one candidate name in the shared catalog.
type NameRecord struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Gender          Gender          `json:"gender"`
	Votes           map[string]Vote `json:"votes"`
	IsAMatch        bool            `json:"is_a_match"`
	Tags            []string        `json:"tags,omitempty"`
	Source          string          `json:"source"`
	NameLength      int             `json:"name_length"`
	HasSpecialChars bool            `json:"has_special_chars"`
	AddedBy         string          `json:"added_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Profile is one of the two fixed user identities and their vote ledger.
// Votes is the user's authoritative ledger, keyed by name id; it is mirrored
// into each NameRecord's Votes map for match computation.
type Profile struct {
	DisplayName string          `json:"display_name"`
	Votes       map[string]Vote `json:"votes"`
	PushToken   *string         `json:"push_token,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Tag is a category label assignable to names.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	UsageCount  int       `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsMatch reports whether both users voted yes or favorite in the given
// votes map. It is the single authoritative match predicate; the IsAMatch
// field on NameRecord is a cache of this function and must be recomputed on
// every vote change, including undo.
func IsMatch(votes map[string]Vote, userA, userB string) bool {
	return likes(votes[userA]) && likes(votes[userB])
}

func likes(v Vote) bool {
	return v == VoteYes || v == VoteFavorite
}
