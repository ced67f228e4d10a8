// Package saga executes multi-row writes that must look atomic to the
// caller even though the store exposes no transaction primitive at this
// layer. Committed steps are undone in reverse order when a later step
// fails. Atomicity is best-effort: a crash between steps leaves partial
// state behind.
package saga

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Step is one write in a unit, paired with the action that undoes it.
// Compensate may be nil for steps that need no cleanup.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga runs dependent writes in order and compensates on failure.
type Saga struct {
	log   zerolog.Logger
	steps []Step
}

// New returns an empty Saga that logs compensation outcomes to log.
func New(log zerolog.Logger) *Saga {
	return &Saga{log: log}
}

// Add appends a step. Steps run in the order they were added.
func (s *Saga) Add(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Execute runs every step in sequence. When a step fails, the
// compensations of all previously committed steps run in reverse order
// and the step's original error is returned. Compensation failures are
// logged but never mask that error.
func (s *Saga) Execute(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			s.compensate(ctx, i)
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, failed int) {
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.log.Error().
				Err(err).
				Str("step", step.Name).
				Msg("saga compensation failed")
			continue
		}
		s.log.Warn().
			Str("step", step.Name).
			Msg("saga step compensated")
	}
}
