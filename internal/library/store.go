package library

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Status describes what an empty listing means. An unbound store is a
// "please sign in" condition, not an empty library; the two must stay
// distinguishable for anything consuming the snapshot.
type Status int

const (
	StatusUnbound Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUnbound:
		return "unbound"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

type update struct {
	generation uint64
	snapshot   []Record
	err        error
}

// Store owns the live subscription to one owner's remote collection and
// the resulting in-memory snapshot. Subscription callbacks arrive on
// arbitrary goroutines; they are marshalled onto a single apply goroutine
// before touching shared state, so readers always see a fully-materialized
// snapshot. Each Bind increments a generation counter and any update
// tagged with a superseded generation is discarded.
type Store struct {
	records RecordStore

	mu         sync.RWMutex
	owner      string
	generation uint64
	snapshot   []Record
	status     Status
	lastErr    error

	cancelWatch context.CancelFunc
	sub         Subscription

	updates chan update
	quit    chan struct{}
	once    sync.Once
}

func NewStore(records RecordStore) *Store {
	s := &Store{
		records: records,
		updates: make(chan update, 16),
		quit:    make(chan struct{}),
	}
	go s.run()
	return s
}

// run is the single mutation goroutine: every snapshot replacement and
// error transition goes through here.
func (s *Store) run() {
	for {
		select {
		case <-s.quit:
			return
		case u := <-s.updates:
			s.apply(u)
		}
	}
}

func (s *Store) apply(u update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Late callback from a torn-down or superseded subscription
	if u.generation != s.generation {
		return
	}

	if u.err != nil {
		log.Printf("[Library] subscription error for owner %s: %v", s.owner, u.err)
		s.status = StatusError
		s.lastErr = u.err
		return
	}

	s.snapshot = u.snapshot
	s.status = StatusReady
	s.lastErr = nil
}

// Bind establishes a live subscription scoped to ownerID, tearing down any
// previous binding first. Binding the same owner again re-subscribes,
// which doubles as the manual refresh path. The subscribe round-trip runs
// outside the lock so readers are never blocked on it; a Bind or Unbind
// that lands meanwhile supersedes this one via the generation counter.
func (s *Store) Bind(ownerID string) {
	s.mu.Lock()
	s.teardownLocked()
	s.generation++
	generation := s.generation
	s.owner = ownerID
	s.snapshot = nil
	s.status = StatusLoading
	s.lastErr = nil
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := s.records.Watch(ctx, ownerID)

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		cancel()
		if sub != nil {
			sub.Close()
		}
		return
	}
	if err != nil {
		s.status = StatusError
		s.lastErr = err
		s.mu.Unlock()
		cancel()
		log.Printf("[Library] failed to subscribe for owner %s: %v", ownerID, err)
		return
	}
	s.cancelWatch = cancel
	s.sub = sub
	s.mu.Unlock()

	go s.forward(ctx, generation, sub)
	log.Printf("[Library] bound to owner %s", ownerID)
}

// Unbind tears down the live subscription and clears the snapshot.
// Safe to call repeatedly.
func (s *Store) Unbind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.generation++
	s.owner = ""
	s.snapshot = nil
	s.status = StatusUnbound
	s.lastErr = nil
}

func (s *Store) teardownLocked() {
	if s.cancelWatch != nil {
		s.cancelWatch()
		s.cancelWatch = nil
	}
	if s.sub != nil {
		s.sub.Close()
		s.sub = nil
	}
}

// Close unbinds and stops the apply goroutine.
func (s *Store) Close() {
	s.Unbind()
	s.once.Do(func() { close(s.quit) })
}

// forward relays subscription events into the apply channel, tagged with
// the generation of the binding that created it. Errors outrank pending
// snapshots, and a terminal error buffered just before the snapshots
// channel closes is still delivered.
func (s *Store) forward(ctx context.Context, generation uint64, sub Subscription) {
	snapshots := sub.Snapshots()
	errs := sub.Errors()
	for {
		if errs != nil {
			select {
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				s.enqueue(ctx, update{generation: generation, err: err})
				continue
			default:
			}
		}

		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				s.flushError(ctx, generation, errs)
				return
			}
			s.enqueue(ctx, update{generation: generation, snapshot: snap})
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.enqueue(ctx, update{generation: generation, err: err})
		}
	}
}

// flushError delivers an error the subscription buffered just before
// closing its snapshots channel.
func (s *Store) flushError(ctx context.Context, generation uint64, errs <-chan error) {
	if errs == nil {
		return
	}
	select {
	case err, ok := <-errs:
		if ok {
			s.enqueue(ctx, update{generation: generation, err: err})
		}
	default:
	}
}

func (s *Store) enqueue(ctx context.Context, u update) {
	select {
	case s.updates <- u:
	case <-ctx.Done():
	case <-s.quit:
	}
}

// State reports the current binding status and, for StatusError, the
// subscription error that ended the binding.
func (s *Store) State() (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.lastErr
}

// BoundOwner returns the owner id of the active binding, or "".
func (s *Store) BoundOwner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner
}

// Snapshot returns a copy of the current fully-materialized record list.
func (s *Store) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRecords(s.snapshot)
}

// Create persists a candidate as a new record owned by the bound owner and
// returns the server-assigned id. The new record becomes visible through
// the subscription push, which may land after Create returns.
func (s *Store) Create(ctx context.Context, candidate Candidate) (string, error) {
	s.mu.RLock()
	owner := s.owner
	s.mu.RUnlock()
	if owner == "" {
		return "", ErrNotAuthenticated
	}

	record := &Record{
		Title:         candidate.Title,
		Authors:       candidate.Authors,
		Synopsis:      candidate.Synopsis,
		CoverImageURL: candidate.CoverImageURL,
		ReadLink:      candidate.ReadLink,
		Genres:        candidate.Genres,
		Popularity:    candidate.Popularity,
		CreatedAt:     time.Now().UTC(),
		OwnerID:       owner,
	}

	id, err := s.records.Create(ctx, record)
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	return id, nil
}

// ToggleFavorite flips the favorite flag of the matching record via a
// partial update. The flipped value is computed from the current snapshot;
// an id absent from the snapshot is an error.
func (s *Store) ToggleFavorite(ctx context.Context, recordID string) error {
	s.mu.RLock()
	owner := s.owner
	var found *Record
	for i := range s.snapshot {
		if s.snapshot[i].ID == recordID {
			found = &s.snapshot[i]
			break
		}
	}
	var favorite bool
	if found != nil {
		favorite = found.IsFavorite
	}
	s.mu.RUnlock()

	if owner == "" {
		return ErrNotAuthenticated
	}
	if found == nil {
		return ErrNotFound
	}

	if err := s.records.SetFavorite(ctx, owner, recordID, !favorite); err != nil {
		return fmt.Errorf("toggle favorite: %w", err)
	}
	return nil
}

// Delete removes the record from the remote store. The snapshot update
// follows via the live subscription, so the record may remain visible
// briefly until the push arrives.
func (s *Store) Delete(ctx context.Context, recordID string) error {
	s.mu.RLock()
	owner := s.owner
	s.mu.RUnlock()
	if owner == "" {
		return ErrNotAuthenticated
	}

	if err := s.records.Delete(ctx, owner, recordID); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func copyRecords(in []Record) []Record {
	out := make([]Record, len(in))
	copy(out, in)
	return out
}
