package resolver

import (
	"context"
	"sync"

	"github.com/corpeningc/gitassist/internal/conflict"
)

// SourceFunc adapts a function to DecisionSource.
type SourceFunc func(ctx context.Context, req Request) (conflict.Resolution, error)

func (f SourceFunc) RequestDecision(ctx context.Context, req Request) (conflict.Resolution, error) {
	return f(ctx, req)
}

// Fixed applies the same policy to every block.
func Fixed(choice conflict.ResolutionChoice) DecisionSource {
	return SourceFunc(func(ctx context.Context, _ Request) (conflict.Resolution, error) {
		if err := ctx.Err(); err != nil {
			return conflict.Resolution{}, err
		}
		return conflict.Resolution{Choice: choice}, nil
	})
}

// Scripted hands out canned resolutions in order and aborts once they run
// out. It is safe for concurrent use.
type Scripted struct {
	mu        sync.Mutex
	decisions []conflict.Resolution
	requests  []Request
}

func NewScripted(decisions ...conflict.Resolution) *Scripted {
	return &Scripted{decisions: decisions}
}

func (s *Scripted) RequestDecision(ctx context.Context, req Request) (conflict.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return conflict.Resolution{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	if len(s.decisions) == 0 {
		return conflict.Resolution{}, ErrAborted
	}
	next := s.decisions[0]
	s.decisions = s.decisions[1:]
	return next, nil
}

// Requests returns the requests seen so far.
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Remaining is the number of decisions not yet handed out.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.decisions)
}
