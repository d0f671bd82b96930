package deck

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"name-swiper/internal/models"
)

const (
	userA = "Andreas"
	userB = "Emilie"
)

type voteCall struct {
	nameID string
	value  *models.Vote
}

type mockStore struct {
	mu    sync.Mutex
	calls []voteCall
	err   error
}

func (m *mockStore) SetVote(_ context.Context, nameID string, value *models.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, voteCall{nameID: nameID, value: value})
	return m.err
}

type memSession struct {
	ids []string
}

func (s *memSession) NoOrder() []string { return s.ids }

func (s *memSession) SetNoOrder(ids []string) error {
	s.ids = ids
	return nil
}

func record(id, name string) models.NameRecord {
	return models.NameRecord{
		ID:     id,
		Name:   name,
		Gender: models.GenderBoy,
		Votes:  map[string]models.Vote{},
	}
}

func newEngine(t *testing.T, names ...models.NameRecord) (*Engine, *mockStore) {
	t.Helper()
	store := &mockStore{}
	e := New(userA, userB, store, &memSession{}, 15*time.Second)
	e.Load(names, nil)
	return e, store
}

func deckIDs(e *Engine) []string {
	snap := e.Current()
	ids := make([]string, 0, len(snap.Deck))
	for _, rec := range snap.Deck {
		ids = append(ids, rec.ID)
	}
	return ids
}

func TestDeckMembershipInvariant(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"), record("2", "Alma"), record("3", "Theo"))

	if err := e.Vote(context.Background(), "1", models.VoteYes); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := e.Vote(context.Background(), "2", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	snap := e.Current()
	inDeck := map[string]bool{}
	for _, rec := range snap.Deck {
		inDeck[rec.ID] = true
	}
	for _, id := range []string{"1", "2", "3"} {
		v, voted := snap.Votes[id]
		finalized := voted && v != models.VoteNo
		if inDeck[id] == finalized {
			t.Errorf("id %s: in deck = %v, vote = %q", id, inDeck[id], v)
		}
	}
}

func TestNoVoteCyclesToBack(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"), record("2", "Alma"), record("3", "Theo"))

	if got, want := deckIDs(e), []string{"1", "2", "3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("initial deck = %v; want %v", got, want)
	}

	if err := e.Vote(context.Background(), "1", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if got, want := deckIDs(e), []string{"2", "3", "1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("deck after no = %v; want %v", got, want)
	}

	// cycle the rest, then vote no on 1 again: it must move behind 2 and 3
	// without duplication
	if err := e.Vote(context.Background(), "2", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := e.Vote(context.Background(), "3", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := e.Vote(context.Background(), "1", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if got, want := deckIDs(e), []string{"2", "3", "1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("deck after repeat no = %v; want %v", got, want)
	}
}

func TestOutOfTurnRejected(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"), record("2", "Alma"))

	if err := e.Vote(context.Background(), "2", models.VoteYes); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("Vote off-top error = %v; want ErrOutOfTurn", err)
	}
	if got := e.Current().Votes["2"]; got != "" {
		t.Errorf("rejected vote recorded: %q", got)
	}
}

func TestVoteWritesThrough(t *testing.T) {
	e, store := newEngine(t, record("1", "Noah"))

	if err := e.Vote(context.Background(), "1", models.VoteFavorite); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	if len(store.calls) != 1 {
		t.Fatalf("store calls = %d; want 1", len(store.calls))
	}
	call := store.calls[0]
	if call.nameID != "1" || call.value == nil || *call.value != models.VoteFavorite {
		t.Errorf("store call = %+v; want favorite on 1", call)
	}
}

func TestPersistenceFailureKeepsLocalState(t *testing.T) {
	e, store := newEngine(t, record("1", "Noah"), record("2", "Alma"))
	store.err = errors.New("store down")

	err := e.Vote(context.Background(), "1", models.VoteYes)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Vote error = %v; want ErrPersistence", err)
	}

	snap := e.Current()
	if got := snap.Votes["1"]; got != models.VoteYes {
		t.Errorf("local vote = %q; want yes", got)
	}
	if got, want := deckIDs(e), []string{"2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("deck = %v; want %v", got, want)
	}
	if snap.InFlight {
		t.Error("InFlight still set after failed write")
	}
}

func TestUndoRoundTrip(t *testing.T) {
	for _, value := range []models.Vote{models.VoteYes, models.VoteNo, models.VoteFavorite} {
		t.Run(string(value), func(t *testing.T) {
			e, store := newEngine(t, record("1", "Noah"), record("2", "Alma"))

			if err := e.Vote(context.Background(), "1", value); err != nil {
				t.Fatalf("Vote: %v", err)
			}
			if err := e.Undo(context.Background()); err != nil {
				t.Fatalf("Undo: %v", err)
			}

			snap := e.Current()
			if _, voted := snap.Votes["1"]; voted {
				t.Errorf("vote still present after undo: %q", snap.Votes["1"])
			}
			if got, want := deckIDs(e), []string{"1", "2"}; !reflect.DeepEqual(got, want) {
				t.Errorf("deck = %v; want undone card in front: %v", got, want)
			}

			last := store.calls[len(store.calls)-1]
			if last.nameID != "1" || last.value != nil {
				t.Errorf("undo write = %+v; want nil vote on 1", last)
			}

			rec := snap.Deck[0]
			if rec.IsAMatch {
				t.Error("IsAMatch still set after undo")
			}
			if _, ok := rec.Votes[userA]; ok {
				t.Errorf("votes map still carries %s after undo", userA)
			}
		})
	}
}

func TestUndoIsSingleLevel(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"), record("2", "Alma"))

	if err := e.Vote(context.Background(), "1", models.VoteYes); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := e.Vote(context.Background(), "2", models.VoteYes); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	// the second vote replaced the slot: undo restores 2, a second undo is
	// a no-op
	if err := e.Undo(context.Background()); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if err := e.Undo(context.Background()); !errors.Is(err, ErrUndoExpired) {
		t.Fatalf("second Undo error = %v; want ErrUndoExpired", err)
	}

	snap := e.Current()
	if got := snap.Votes["1"]; got != models.VoteYes {
		t.Errorf("first vote lost: votes[1] = %q; want yes", got)
	}
	if _, voted := snap.Votes["2"]; voted {
		t.Errorf("second vote survived undo: %q", snap.Votes["2"])
	}
}

func TestUndoExpiry(t *testing.T) {
	e, store := newEngine(t, record("1", "Noah"))

	now := time.Now()
	e.now = func() time.Time { return now }

	if err := e.Vote(context.Background(), "1", models.VoteYes); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	now = now.Add(16 * time.Second)
	writes := len(store.calls)
	if err := e.Undo(context.Background()); !errors.Is(err, ErrUndoExpired) {
		t.Fatalf("Undo error = %v; want ErrUndoExpired", err)
	}
	if len(store.calls) != writes {
		t.Errorf("expired undo issued a write")
	}
	if got := e.Current().Votes["1"]; got != models.VoteYes {
		t.Errorf("votes[1] = %q after expired undo; want yes", got)
	}
}

func TestUndoRestoresNoMemory(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"), record("2", "Alma"), record("3", "Theo"))

	if err := e.Vote(context.Background(), "1", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if err := e.Undo(context.Background()); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got, want := deckIDs(e), []string{"1", "2", "3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("deck after undone no = %v; want %v", got, want)
	}
}

func TestIdempotentDerivation(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"), record("2", "Alma"), record("3", "Theo"))
	if err := e.Vote(context.Background(), "1", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	first := deckIDs(e)
	for i := 0; i < 5; i++ {
		if got := deckIDs(e); !reflect.DeepEqual(got, first) {
			t.Fatalf("derivation %d = %v; want %v", i, got, first)
		}
	}
}

func TestCatalogUpdatePreservesOrder(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"), record("2", "Alma"), record("3", "Theo"))
	if err := e.Vote(context.Background(), "1", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	// same catalog pushed again plus one new name: known cards keep their
	// relative order, the new one goes on top
	e.SetCatalog([]models.NameRecord{
		record("4", "Luna"), record("1", "Noah"), record("2", "Alma"), record("3", "Theo"),
	})
	if got, want := deckIDs(e), []string{"4", "2", "3", "1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("deck after catalog update = %v; want %v", got, want)
	}
}

func TestSoloYesIsNoMatch(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"))

	if err := e.Vote(context.Background(), "1", models.VoteYes); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	snap := e.Current()
	if len(snap.Deck) != 0 {
		t.Errorf("deck = %v; want empty", deckIDs(e))
	}
	if got := snap.Votes["1"]; got != models.VoteYes {
		t.Errorf("votes[1] = %q; want yes", got)
	}
	select {
	case ev := <-e.Matches():
		t.Errorf("unexpected match event %+v", ev)
	default:
	}
}

func TestMatchFiresOnceOnMutualLike(t *testing.T) {
	rec := record("1", "Noah")
	rec.Votes = map[string]models.Vote{userB: models.VoteFavorite}
	e, _ := newEngine(t, rec)

	if err := e.Vote(context.Background(), "1", models.VoteYes); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	select {
	case ev := <-e.Matches():
		if ev.NameID != "1" || ev.Name != "Noah" {
			t.Errorf("match event = %+v; want Noah/1", ev)
		}
	default:
		t.Fatal("no match event fired")
	}
	select {
	case ev := <-e.Matches():
		t.Errorf("second match event %+v", ev)
	default:
	}
}

func TestNoOrderMemorySurvivesRestart(t *testing.T) {
	session := &memSession{}
	store := &mockStore{}
	names := []models.NameRecord{record("1", "Noah"), record("2", "Alma"), record("3", "Theo")}

	e := New(userA, userB, store, session, 15*time.Second)
	e.Load(names, nil)
	if err := e.Vote(context.Background(), "1", models.VoteNo); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	// a fresh engine over the same session store keeps the demotion
	restarted := New(userA, userB, store, session, 15*time.Second)
	restarted.Load(names, map[string]models.Vote{"1": models.VoteNo})
	if got, want := deckIDs(restarted), []string{"2", "3", "1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("deck after restart = %v; want %v", got, want)
	}
}

func TestSnapshotsChannelCarriesLatest(t *testing.T) {
	e, _ := newEngine(t, record("1", "Noah"), record("2", "Alma"))

	for i, value := range []models.Vote{models.VoteYes, models.VoteYes} {
		id := fmt.Sprintf("%d", i+1)
		if err := e.Vote(context.Background(), id, value); err != nil {
			t.Fatalf("Vote %s: %v", id, err)
		}
	}

	select {
	case snap := <-e.Snapshots():
		if len(snap.Deck) != 0 {
			t.Errorf("latest snapshot deck = %v; want empty", snap.Deck)
		}
	default:
		t.Fatal("no snapshot published")
	}
}
