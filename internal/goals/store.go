package goals

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"goalplan-backend/internal/apperr"
	"goalplan-backend/internal/storage"
)

// SnapshotKey is the storage key holding the JSON-encoded goal list.
const SnapshotKey = "goals"

// Store keeps the goal list in memory and mirrors every change to kv.
// Newest goals come first.
type Store struct {
	kv     storage.KV
	logger *zap.Logger
	now    func() time.Time

	goals []Goal
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory list with the durable snapshot. A missing,
// unreadable or malformed snapshot leaves the store empty; the failure is
// logged, never returned.
func (s *Store) Load(ctx context.Context) []Goal {
	s.goals = nil

	raw, ok, err := s.kv.Get(ctx, SnapshotKey)
	if err != nil {
		s.logger.Warn("goal snapshot unreadable, starting empty",
			zap.Error(&apperr.PersistenceError{Key: SnapshotKey, Err: err}))
		return s.List()
	}
	if !ok {
		return s.List()
	}

	var loaded []Goal
	if err := json.Unmarshal(raw, &loaded); err != nil {
		s.logger.Warn("goal snapshot malformed, starting empty",
			zap.Error(&apperr.PersistenceError{Key: SnapshotKey, Err: err}))
		return s.List()
	}

	s.goals = loaded
	return s.List()
}

// Add validates text, prepends a new goal and persists the list. The
// in-memory list only changes once the write succeeded.
func (s *Store) Add(ctx context.Context, text, progress string) (Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Goal{}, apperr.Validation("text", "goal text must not be empty")
	}

	g := Goal{
		ID:       s.nextID(),
		Text:     text,
		Progress: strings.TrimSpace(progress),
	}

	next := make([]Goal, 0, len(s.goals)+1)
	next = append(next, g)
	next = append(next, s.goals...)

	if err := s.persist(ctx, next); err != nil {
		return Goal{}, err
	}
	s.goals = next
	return g, nil
}

// Delete removes the goal with id. An unknown id is not an error; the list
// is still written back.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	next := slices.DeleteFunc(slices.Clone(s.goals), func(g Goal) bool {
		return g.ID == id
	})
	removed := len(next) != len(s.goals)

	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.goals = next
	return removed, nil
}

// List returns a copy of the current list.
func (s *Store) List() []Goal {
	out := make([]Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

func (s *Store) persist(ctx context.Context, list []Goal) error {
	if list == nil {
		list = []Goal{}
	}
	b, err := json.Marshal(list)
	if err == nil {
		err = s.kv.Set(ctx, SnapshotKey, b)
	}
	if err != nil {
		return &apperr.PersistenceError{Key: SnapshotKey, Err: err}
	}
	return nil
}

// nextID is time based but always above every id already in the list.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	for _, g := range s.goals {
		if g.ID >= id {
			id = g.ID + 1
		}
	}
	return id
}

// IsValidation reports whether err is a rejected input.
func IsValidation(err error) bool {
	var ve *apperr.ValidationError
	return errors.As(err, &ve)
}
