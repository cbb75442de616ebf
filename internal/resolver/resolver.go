// Package resolver drives conflict resolution for whole files: parse, ask a
// DecisionSource about every block, then write the result back in one step.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/corpeningc/gitassist/internal/conflict"
	"github.com/corpeningc/gitassist/internal/fsutil"
	"github.com/corpeningc/gitassist/internal/logging"
)

// ErrAborted is returned by decision sources that stop before every block
// has a decision.
var ErrAborted = errors.New("resolution aborted")

type Outcome int

const (
	NoConflicts Outcome = iota
	Resolved
	PartiallyFailed
	IOError
)

func (o Outcome) String() string {
	switch o {
	case NoConflicts:
		return "no conflicts"
	case Resolved:
		return "resolved"
	case PartiallyFailed:
		return "failed"
	case IOError:
		return "io error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes what happened to one file. Err is set for PartiallyFailed
// and IOError.
type Result struct {
	Path    string
	Outcome Outcome
	Blocks  int
	Err     error
}

// Request is what a DecisionSource sees for one block. Index is 0-based.
type Request struct {
	Path  string
	Index int
	Total int
	Block conflict.Block
}

type DecisionSource interface {
	RequestDecision(ctx context.Context, req Request) (conflict.Resolution, error)
}

type Resolver struct {
	source    DecisionSource
	writeFile func(ctx context.Context, path string, content []byte) error
}

type Option func(*Resolver)

// WithWriter replaces the final write. Tests use it to simulate failures.
func WithWriter(write func(ctx context.Context, path string, content []byte) error) Option {
	return func(r *Resolver) {
		r.writeFile = write
	}
}

func New(source DecisionSource, opts ...Option) *Resolver {
	r := &Resolver{
		source: source,
		writeFile: func(ctx context.Context, path string, content []byte) error {
			return fsutil.WriteAtomic(ctx, path, content, 0)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveFile resolves every conflict block in path. The file is written at
// most once, and only after all blocks have a decision.
func (r *Resolver) ResolveFile(ctx context.Context, path string) Result {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)
	result := r.resolve(ctx, path)

	switch result.Outcome {
	case Resolved:
		logger.Info("resolved conflicts", logging.FieldBlocks, result.Blocks)
	case NoConflicts:
		logger.Debug("no conflict markers found")
	default:
		logger.Warn("could not resolve conflicts", logging.FieldOutcome, result.Outcome, logging.FieldError, result.Err)
	}

	return result
}

func (r *Resolver) resolve(ctx context.Context, path string) Result {
	result := Result{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Outcome = IOError
		result.Err = fmt.Errorf("read %s: %w", path, err)
		return result
	}

	doc, err := conflict.ParseBytes(content)
	if err != nil {
		result.Outcome = PartiallyFailed
		result.Err = fmt.Errorf("parse %s: %w", path, err)
		return result
	}

	result.Blocks = doc.Conflicts()
	if result.Blocks == 0 {
		result.Outcome = NoConflicts
		return result
	}

	// Decisions are collected up front so nothing touches disk until the
	// last block is answered.
	decisions := make([]conflict.Resolution, 0, result.Blocks)
	for i, block := range doc.Blocks() {
		decision, err := r.source.RequestDecision(ctx, Request{
			Path:  path,
			Index: i,
			Total: result.Blocks,
			Block: block,
		})
		if err == nil {
			err = decision.Validate()
		}
		if err != nil {
			result.Outcome = PartiallyFailed
			result.Err = fmt.Errorf("block %d of %d: %w", i+1, result.Blocks, err)
			return result
		}
		logging.FromContext(ctx).Debug("block decided",
			logging.FieldPath, path, logging.FieldBlock, i+1, logging.FieldChoice, decision.Choice)
		decisions = append(decisions, decision)
	}

	next := 0
	lines := doc.Render(func(block conflict.Block) []string {
		out := conflict.Render(block, decisions[next])
		next++
		return out
	})

	if err := r.writeFile(ctx, path, conflict.Join(lines)); err != nil {
		result.Outcome = IOError
		result.Err = fmt.Errorf("write %s: %w", path, err)
		return result
	}

	result.Outcome = Resolved
	return result
}

// ResolveFiles resolves each path in order. A failure in one file never
// stops the others; cancellation of ctx does.
func (r *Resolver) ResolveFiles(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Path: path, Outcome: PartiallyFailed, Err: err})
			continue
		}
		results = append(results, r.ResolveFile(ctx, path))
	}
	return results
}
