// Package deck implements the client-local swipe deck engine: it derives
// the current user's ordered queue of candidate names from the shared
// catalog and the user's vote ledger, applies votes with write-through to
// the remote store, detects mutual matches, and supports a single-step,
// time-bounded undo.
//
// The engine owns all derived state behind a mutex and publishes immutable
// snapshots after every command; rendering layers subscribe and never
// mutate engine state directly.
package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"name-swiper/internal/models"
)

// Errors returned by engine commands.
var (
	// ErrOutOfTurn rejects a vote that is not for the current top card, or
	// any command issued while another vote or undo is still in flight.
	ErrOutOfTurn = errors.New("vote out of turn")
	// ErrUndoExpired signals that there is no live undo slot, either
	// because none exists or because the undo window has passed.
	ErrUndoExpired = errors.New("undo expired")
	// ErrPersistence wraps remote or session write failures. The optimistic
	// local change stands; the caller may re-issue the action.
	ErrPersistence = errors.New("persistence failure")
)

// Store is the write-through persistence behind the engine. One call covers
// both the catalog votes-map write and the profile ledger write; the server
// keeps the two consistent and recomputes the cached match flag.
type Store interface {
	// SetVote records the current user's vote on a name. A nil value clears
	// the vote, which is how an undo of a first-time vote persists.
	SetVote(ctx context.Context, nameID string, value *models.Vote) error
}

// Session is the client-local key-value scope holding the no-order memory.
// It survives restarts on one machine and is never shared between users.
type Session interface {
	NoOrder() []string
	SetNoOrder(ids []string) error
}

// Snapshot is an immutable view of the derived deck state.
type Snapshot struct {
	// Deck is the ordered swipe queue, top card first.
	Deck []models.NameRecord
	// Votes is the current user's ledger.
	Votes map[string]models.Vote
	// InFlight is true while a vote or undo write is outstanding; the
	// voting surface disables its controls off this.
	InFlight bool
	// UndoOpen is true while the undo slot is live and unexpired.
	UndoOpen bool
}

// MatchEvent fires exactly once when the current user's vote flips a name
// into a mutual match.
type MatchEvent struct {
	NameID string
	Name   string
}

type lastAction struct {
	nameID string
	prev   *models.Vote // nil when the name was unvoted before
	next   models.Vote
	at     time.Time
}

// Engine maintains the single source of "what card is on top" for one user.
type Engine struct {
	user    string
	partner string
	store   Store
	session Session
	window  time.Duration
	now     func() time.Time

	mu       sync.Mutex
	records  map[string]models.NameRecord
	order    []string // catalog order, most recently added first
	votes    map[string]models.Vote
	noOrder  []string // ids voted no this session, oldest action first
	front    string   // id pinned to the deck front by the last undo
	inFlight bool
	last     *lastAction

	snapshots chan Snapshot
	matchEvs  chan MatchEvent
}

// New creates an engine for the given user. The partner name is needed for
// local match computation; undoWindow bounds how long a vote stays
// reversible.
func New(user, partner string, store Store, session Session, undoWindow time.Duration) *Engine {
	e := &Engine{
		user:      user,
		partner:   partner,
		store:     store,
		session:   session,
		window:    undoWindow,
		now:       time.Now,
		records:   make(map[string]models.NameRecord),
		votes:     make(map[string]models.Vote),
		snapshots: make(chan Snapshot, 1),
		matchEvs:  make(chan MatchEvent, 8),
	}
	if session != nil {
		e.noOrder = append([]string(nil), session.NoOrder()...)
	}
	return e
}

// Snapshots delivers a new snapshot after every state change. The channel
// holds only the latest snapshot; slow consumers never see stale decks.
func (e *Engine) Snapshots() <-chan Snapshot {
	return e.snapshots
}

// Matches delivers match events caused by this user's votes.
func (e *Engine) Matches() <-chan MatchEvent {
	return e.matchEvs
}

// Current returns the present snapshot synchronously.
func (e *Engine) Current() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Load replaces the catalog and the user's ledger, typically from the
// initial fetch.
func (e *Engine) Load(names []models.NameRecord, votes map[string]models.Vote) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.votes = make(map[string]models.Vote, len(votes))
	for id, v := range votes {
		e.votes[id] = v
	}
	e.setCatalogLocked(names)
	e.publishLocked()
}

// SetCatalog replaces the catalog snapshot, e.g. from a live feed. The
// relative order of already-known names is preserved so an unrelated update
// never reshuffles the deck; new names go on top (most recently added
// first).
func (e *Engine) SetCatalog(names []models.NameRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setCatalogLocked(names)
	e.publishLocked()
}

// ApplyRemote folds a single updated record into the local catalog, e.g.
// a partner vote or a newly added name pushed over the live feed.
func (e *Engine) ApplyRemote(rec models.NameRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, known := e.records[rec.ID]; !known {
		e.order = append([]string{rec.ID}, e.order...)
	}
	e.records[rec.ID] = rec
	e.publishLocked()
}

func (e *Engine) setCatalogLocked(names []models.NameRecord) {
	records := make(map[string]models.NameRecord, len(names))
	for _, rec := range names {
		records[rec.ID] = rec
	}

	// Keep surviving ids in their current relative order, then put ids new
	// to this client in front, in the order the catalog lists them
	// (most recently added first).
	kept := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, id := range e.order {
		if _, ok := records[id]; ok {
			kept = append(kept, id)
			seen[id] = true
		}
	}
	var fresh []string
	for _, rec := range names {
		if !seen[rec.ID] {
			fresh = append(fresh, rec.ID)
		}
	}

	e.records = records
	e.order = append(fresh, kept...)
}

// Vote applies the user's vote on the current top card and writes it
// through to the remote store. Any card other than the top one, or a vote
// issued while another is in flight, is rejected with ErrOutOfTurn. On
// persistence failure the optimistic local state stands and the error wraps
// ErrPersistence for retry by the user.
func (e *Engine) Vote(ctx context.Context, nameID string, value models.Vote) error {
	if !value.Valid() {
		return fmt.Errorf("unknown vote %q", value)
	}

	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrOutOfTurn
	}
	order := e.deriveLocked()
	if len(order) == 0 || order[0] != nameID {
		e.mu.Unlock()
		return ErrOutOfTurn
	}

	rec := e.records[nameID]
	var prev *models.Vote
	if v, ok := e.votes[nameID]; ok {
		pv := v
		prev = &pv
	}

	e.votes[nameID] = value
	if value == models.VoteNo {
		e.rememberNoLocked(nameID)
	} else {
		e.forgetNoLocked(nameID)
	}
	if e.front == nameID {
		e.front = ""
	}

	votes := cloneVotes(rec.Votes)
	votes[e.user] = value
	wasMatch := rec.IsAMatch
	rec.Votes = votes
	rec.IsAMatch = models.IsMatch(votes, e.user, e.partner)
	e.records[nameID] = rec

	e.last = &lastAction{nameID: nameID, prev: prev, next: value, at: e.now()}
	e.inFlight = true
	matched := rec.IsAMatch && !wasMatch
	e.publishLocked()
	e.mu.Unlock()

	if matched {
		e.emitMatch(MatchEvent{NameID: nameID, Name: rec.Name})
	}

	storeErr := e.store.SetVote(ctx, nameID, &value)
	sessErr := e.persistNoOrder()

	e.mu.Lock()
	e.inFlight = false
	e.publishLocked()
	e.mu.Unlock()

	if storeErr != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, storeErr)
	}
	if sessErr != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, sessErr)
	}
	return nil
}

// Undo reverses the last vote if its window has not passed. The slot is
// single-level: a new vote replaces it, and a consumed or expired slot is
// gone. The undone name returns to the front of the deck.
func (e *Engine) Undo(ctx context.Context) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrOutOfTurn
	}
	la := e.last
	if la == nil {
		e.mu.Unlock()
		return ErrUndoExpired
	}
	if e.now().Sub(la.at) > e.window {
		e.last = nil
		e.publishLocked()
		e.mu.Unlock()
		return ErrUndoExpired
	}
	e.last = nil

	if la.prev == nil {
		delete(e.votes, la.nameID)
	} else {
		e.votes[la.nameID] = *la.prev
	}

	undidNo := la.next == models.VoteNo
	restoredNo := la.prev != nil && *la.prev == models.VoteNo
	if undidNo && !restoredNo {
		e.forgetNoLocked(la.nameID)
	}
	if restoredNo && !undidNo {
		e.rememberNoLocked(la.nameID)
	}

	if rec, ok := e.records[la.nameID]; ok {
		votes := cloneVotes(rec.Votes)
		if la.prev == nil {
			delete(votes, e.user)
		} else {
			votes[e.user] = *la.prev
		}
		rec.Votes = votes
		rec.IsAMatch = models.IsMatch(votes, e.user, e.partner)
		e.records[la.nameID] = rec
	}

	e.front = la.nameID
	e.inFlight = true
	e.publishLocked()
	e.mu.Unlock()

	storeErr := e.store.SetVote(ctx, la.nameID, la.prev)
	sessErr := e.persistNoOrder()

	e.mu.Lock()
	e.inFlight = false
	e.publishLocked()
	e.mu.Unlock()

	if storeErr != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, storeErr)
	}
	if sessErr != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, sessErr)
	}
	return nil
}

// deriveLocked computes the deck order: membership iff the user's vote is
// absent or no; names without a no this session come first in catalog
// order, ids from the no-order memory follow in the order they were marked;
// an undone name is pinned to the front. Deterministic given unchanged
// inputs.
func (e *Engine) deriveLocked() []string {
	noPos := make(map[string]int, len(e.noOrder))
	for i, id := range e.noOrder {
		noPos[id] = i
	}

	var fresh, demoted []string
	for _, id := range e.order {
		if v, voted := e.votes[id]; voted && v != models.VoteNo {
			continue
		}
		if _, no := noPos[id]; no {
			demoted = append(demoted, id)
		} else {
			fresh = append(fresh, id)
		}
	}
	// demoted already follows e.order; rebuild it in memory order instead
	if len(demoted) > 1 {
		ordered := make([]string, 0, len(demoted))
		member := make(map[string]bool, len(demoted))
		for _, id := range demoted {
			member[id] = true
		}
		for _, id := range e.noOrder {
			if member[id] {
				ordered = append(ordered, id)
			}
		}
		demoted = ordered
	}

	deck := append(fresh, demoted...)
	if e.front != "" {
		deck = moveToFront(deck, e.front)
	}
	return deck
}

func (e *Engine) snapshotLocked() Snapshot {
	order := e.deriveLocked()
	deck := make([]models.NameRecord, 0, len(order))
	for _, id := range order {
		deck = append(deck, e.records[id])
	}
	votes := cloneVotes(e.votes)
	return Snapshot{
		Deck:     deck,
		Votes:    votes,
		InFlight: e.inFlight,
		UndoOpen: e.last != nil && e.now().Sub(e.last.at) <= e.window,
	}
}

func (e *Engine) publishLocked() {
	snap := e.snapshotLocked()
	select {
	case <-e.snapshots:
	default:
	}
	e.snapshots <- snap
}

func (e *Engine) emitMatch(ev MatchEvent) {
	select {
	case e.matchEvs <- ev:
	default:
	}
}

// rememberNoLocked moves the id to the back of the memory, so a repeated no
// keeps cycling the card behind everything voted no since.
func (e *Engine) rememberNoLocked(id string) {
	e.forgetNoLocked(id)
	e.noOrder = append(e.noOrder, id)
}

func (e *Engine) forgetNoLocked(id string) {
	for i, existing := range e.noOrder {
		if existing == id {
			e.noOrder = append(e.noOrder[:i], e.noOrder[i+1:]...)
			return
		}
	}
}

func (e *Engine) persistNoOrder() error {
	if e.session == nil {
		return nil
	}
	e.mu.Lock()
	ids := append([]string(nil), e.noOrder...)
	e.mu.Unlock()
	return e.session.SetNoOrder(ids)
}

func cloneVotes(votes map[string]models.Vote) map[string]models.Vote {
	out := make(map[string]models.Vote, len(votes))
	for k, v := range votes {
		out[k] = v
	}
	return out
}

func moveToFront(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			out := make([]string, 0, len(ids))
			out = append(out, id)
			out = append(out, ids[:i]...)
			return append(out, ids[i+1:]...)
		}
	}
	return ids
}
