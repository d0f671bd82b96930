package models

import "testing"

func TestIsMatch(t *testing.T) {
	tests := []struct {
		name  string
		votes map[string]Vote
		want  bool
	}{
		{"both yes", map[string]Vote{"Andreas": VoteYes, "Emilie": VoteYes}, true},
		{"yes and favorite", map[string]Vote{"Andreas": VoteYes, "Emilie": VoteFavorite}, true},
		{"both favorite", map[string]Vote{"Andreas": VoteFavorite, "Emilie": VoteFavorite}, true},
		{"one side missing", map[string]Vote{"Andreas": VoteYes}, false},
		{"no blocks match", map[string]Vote{"Andreas": VoteYes, "Emilie": VoteNo}, false},
		{"empty", map[string]Vote{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMatch(tt.votes, "Andreas", "Emilie"); got != tt.want {
				t.Errorf("IsMatch = %v; want %v", got, tt.want)
			}
			// symmetric in the two users
			if got := IsMatch(tt.votes, "Emilie", "Andreas"); got != tt.want {
				t.Errorf("IsMatch swapped = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestVoteValid(t *testing.T) {
	for _, v := range []Vote{VoteYes, VoteNo, VoteFavorite} {
		if !v.Valid() {
			t.Errorf("%q not valid", v)
		}
	}
	for _, v := range []Vote{"", "maybe", "absolutely-not"} {
		if Vote(v).Valid() {
			t.Errorf("%q unexpectedly valid", v)
		}
	}
}
