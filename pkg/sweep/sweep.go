// Package sweep searches the candidate range for reg7 values whose
// evaluation leaves the target value in reg0.
//
// Basic usage:
//
//	s, err := sweep.New()
//	summary, err := s.Run(ctx, func(r sweep.Result) error {
//	    fmt.Println(report.FormatLine(r))
//	    return nil
//	})
//
// With a reduced range and budget:
//
//	s, err := sweep.New(sweep.WithRange(0, 100), sweep.WithCeiling(1_000_000))
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juju/loggo"

	"github.com/akhildatla/regsweep/pkg/vm"
)

const (
	DefaultFrom   int64 = 0
	DefaultTo     int64 = vm.WordMask // exclusive
	DefaultTarget int64 = 6
)

// Error definitions
var (
	ErrInvalidRange = errors.New("invalid candidate range")
	ErrEmit         = errors.New("emitting result")
)

// Result is the final machine state for one candidate.
type Result struct {
	Candidate int64
	Reg0      int64
	Reg1      int64
	Steps     int64 // Routine entries, or vm.Aborted
	Aborted   bool
}

// Summary describes a completed (or interrupted) sweep.
type Summary struct {
	Tested  int64
	Matches int64
	Aborted int64
	Elapsed time.Duration
}

// Sweeper enumerates candidates and reports the ones that hit the target.
type Sweeper struct {
	from, to     int64
	target       int64
	initA, initB int64
	ceiling      int64
	strategy     vm.Strategy
	strict       bool
	observer     func(Result)
	logger       loggo.Logger
}

// Option is a functional option for the Sweeper.
type Option func(*Sweeper)

// WithRange limits the sweep to candidates in [from, to).
func WithRange(from, to int64) Option {
	return func(s *Sweeper) {
		s.from, s.to = from, to
	}
}

// WithTarget sets the reg0 value that marks a match.
func WithTarget(target int64) Option {
	return func(s *Sweeper) {
		s.target = target
	}
}

// WithInitial sets the reg0 and reg1 values loaded for every candidate.
func WithInitial(a, b int64) Option {
	return func(s *Sweeper) {
		s.initA, s.initB = a, b
	}
}

// WithCeiling sets the per-candidate step budget.
func WithCeiling(n int64) Option {
	return func(s *Sweeper) {
		s.ceiling = n
	}
}

// WithStrategy selects the evaluator.
func WithStrategy(st vm.Strategy) Option {
	return func(s *Sweeper) {
		s.strategy = st
	}
}

// WithStrict excludes aborted evaluations from the matches.
func WithStrict() Option {
	return func(s *Sweeper) {
		s.strict = true
	}
}

// WithObserver registers a callback invoked for every tested candidate.
func WithObserver(fn func(Result)) Option {
	return func(s *Sweeper) {
		s.observer = fn
	}
}

// WithLogger replaces the package logger.
func WithLogger(l loggo.Logger) Option {
	return func(s *Sweeper) {
		s.logger = l
	}
}

// New creates a Sweeper with the given options applied over the defaults.
func New(opts ...Option) (*Sweeper, error) {
	s := &Sweeper{
		from:     DefaultFrom,
		to:       DefaultTo,
		target:   DefaultTarget,
		initA:    vm.InitialA,
		initB:    vm.InitialB,
		ceiling:  vm.DefaultCeiling,
		strategy: vm.Iterative,
		logger:   loggo.GetLogger("regsweep.sweep"),
	}
	for _, o := range opts {
		o(s)
	}

	if s.from < 0 || s.to > vm.WordMod || s.from > s.to {
		return nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, s.from, s.to)
	}
	if s.ceiling <= 0 {
		s.ceiling = vm.DefaultCeiling
	}
	return s, nil
}

// Strategy returns the configured evaluator.
func (s *Sweeper) Strategy() vm.Strategy {
	return s.strategy
}

// Ceiling returns the per-candidate step budget.
func (s *Sweeper) Ceiling() int64 {
	return s.ceiling
}

// IsMatch reports whether r counts as a hit. Only the final reg0 is
// consulted; aborted runs qualify unless the sweeper is strict.
func (s *Sweeper) IsMatch(r Result) bool {
	if s.strict && r.Aborted {
		return false
	}
	return r.Reg0 == s.target
}

// Evaluate runs one candidate on a fresh machine.
func (s *Sweeper) Evaluate(p int64) (Result, error) {
	m := vm.NewMachine(s.ceiling)
	m.Reset(s.initA, s.initB, p)

	out, err := m.Run(s.strategy)
	if err != nil {
		return Result{}, fmt.Errorf("candidate %d: %w", p, err)
	}
	return Result{
		Candidate: p,
		Reg0:      out.Reg0,
		Reg1:      out.Reg1,
		Steps:     out.Steps,
		Aborted:   out.Aborted,
	}, nil
}

// Run tests every candidate in ascending order and passes each match to emit
// as it is found. The sweep never stops at the first match. It returns early
// only when ctx is done or emit fails.
func (s *Sweeper) Run(ctx context.Context, emit func(Result) error) (Summary, error) {
	var sum Summary
	start := time.Now()

	s.logger.Debugf("sweeping [%d, %d) with %v evaluator, ceiling %d, target %d",
		s.from, s.to, s.strategy, s.ceiling, s.target)

	for p := s.from; p < s.to; p++ {
		if err := ctx.Err(); err != nil {
			s.logger.Warningf("sweep interrupted at candidate %d: %v", p, err)
			sum.Elapsed = time.Since(start)
			return sum, err
		}

		r, err := s.Evaluate(p)
		if err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}
		sum.Tested++
		if r.Aborted {
			sum.Aborted++
			s.logger.Tracef("candidate %d aborted with reg0=%d reg1=%d", p, r.Reg0, r.Reg1)
		}
		if s.observer != nil {
			s.observer(r)
		}

		if s.IsMatch(r) {
			sum.Matches++
			s.logger.Infof("candidate %d matches: reg0=%d reg1=%d aborted=%v", p, r.Reg0, r.Reg1, r.Aborted)
			if emit != nil {
				if err := emit(r); err != nil {
					sum.Elapsed = time.Since(start)
					return sum, fmt.Errorf("%w: candidate %d: %w", ErrEmit, p, err)
				}
			}
		}

		if sum.Tested%1024 == 0 {
			s.logger.Debugf("tested %d candidates, %d matches, %d aborted", sum.Tested, sum.Matches, sum.Aborted)
		}
	}

	sum.Elapsed = time.Since(start)
	s.logger.Debugf("sweep done: tested %d, matches %d, aborted %d in %v",
		sum.Tested, sum.Matches, sum.Aborted, sum.Elapsed)
	return sum, nil
}

// Collect runs the sweep and returns the matches in discovery order.
func (s *Sweeper) Collect(ctx context.Context) ([]Result, Summary, error) {
	var results []Result
	sum, err := s.Run(ctx, func(r Result) error {
		results = append(results, r)
		return nil
	})
	return results, sum, err
}
