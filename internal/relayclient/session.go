package relayclient

import (
	"context"
	"sync"

	"goalplan-backend/internal/goals"
	"goalplan-backend/internal/plan"
)

type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFallbackProduced
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFallbackProduced:
		return "fallback_produced"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Generator is the part of Client a Session needs.
type Generator interface {
	GeneratePlan(ctx context.Context, list []goals.Goal) (plan.GenerateResponse, error)
}

// Outcome is one finished request. Stale outcomes were superseded by a newer
// request while in flight and must not be displayed.
type Outcome struct {
	Generation uint64
	Response   plan.GenerateResponse
	Err        error
	Stale      bool
}

// Session numbers every request and only lets the newest one update the
// displayed result.
type Session struct {
	gen Generator

	mu     sync.Mutex
	issued uint64
	state  State
	latest *Outcome
}

func NewSession(gen Generator) *Session {
	return &Session{gen: gen}
}

// Request issues a new generation and blocks until its response arrives.
func (s *Session) Request(ctx context.Context, list []goals.Goal) Outcome {
	s.mu.Lock()
	s.issued++
	generation := s.issued
	s.state = StateRequesting
	s.mu.Unlock()

	resp, err := s.gen.GeneratePlan(ctx, list)
	out := Outcome{Generation: generation, Response: resp, Err: err}

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.issued {
		out.Stale = true
		return out
	}

	switch {
	case err != nil:
		s.state = StateFailed
	case resp.UsedMock:
		s.state = StateFallbackProduced
	default:
		s.state = StateSucceeded
	}
	s.latest = &out
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Latest returns the newest non-stale outcome, if any.
func (s *Session) Latest() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Outcome{}, false
	}
	return *s.latest, true
}
