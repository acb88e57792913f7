package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/akhildatla/regsweep/pkg/vm"
)

var ignoreSteps = cmpopts.IgnoreFields(Result{}, "Steps")

func mustNew(t *testing.T, opts ...Option) *Sweeper {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := mustNew(t)
	if s.from != 0 || s.to != 32767 {
		t.Errorf("expected range [0, 32767), got [%d, %d)", s.from, s.to)
	}
	if s.target != 6 {
		t.Errorf("expected target 6, got %d", s.target)
	}
	if s.initA != 4 || s.initB != 1 {
		t.Errorf("expected initial (4, 1), got (%d, %d)", s.initA, s.initB)
	}
	if s.Ceiling() != 100_000_000 {
		t.Errorf("expected ceiling 100000000, got %d", s.Ceiling())
	}
	if s.Strategy() != vm.Iterative {
		t.Errorf("expected iterative strategy, got %v", s.Strategy())
	}
	if s.strict {
		t.Error("expected non-strict matching by default")
	}
}

func TestNew_InvalidRange(t *testing.T) {
	ranges := [][2]int64{{-1, 10}, {10, 5}, {0, vm.WordMod + 1}}
	for _, r := range ranges {
		if _, err := New(WithRange(r[0], r[1])); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("range %v: expected ErrInvalidRange, got %v", r, err)
		}
	}
}

func TestNew_NonPositiveCeiling(t *testing.T) {
	s := mustNew(t, WithCeiling(0))
	if s.Ceiling() != vm.DefaultCeiling {
		t.Errorf("expected default ceiling, got %d", s.Ceiling())
	}
}

func TestRun_FindsKnownCandidate(t *testing.T) {
	s := mustNew(t, WithRange(25730, 25740), WithStrategy(vm.Table))

	got, sum, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	want := []Result{{Candidate: 25734, Reg0: 6, Reg1: 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
	if sum.Tested != 10 || sum.Matches != 1 || sum.Aborted != 0 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestRun_SingleMatchBounded(t *testing.T) {
	// From (2, 3) the routine is 5p+4, so 14 is reached only by p = 2.
	for _, st := range []vm.Strategy{vm.Iterative, vm.Recursive, vm.Table} {
		s := mustNew(t,
			WithRange(0, 8),
			WithInitial(2, 3),
			WithTarget(14),
			WithStrategy(st),
		)
		got, _, err := s.Collect(context.Background())
		if err != nil {
			t.Fatalf("%v: Collect failed: %v", st, err)
		}
		want := []Result{{Candidate: 2, Reg0: 14, Reg1: 13}}
		if diff := cmp.Diff(want, got, ignoreSteps); diff != "" {
			t.Errorf("%v: matches mismatch (-want +got):\n%s", st, diff)
		}
	}
}

func TestRun_NoEarlyTermination(t *testing.T) {
	// At level 0 the parameter is irrelevant, so every candidate matches.
	s := mustNew(t, WithRange(10, 15), WithInitial(0, 5))

	got, sum, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if sum.Matches != 5 || len(got) != 5 {
		t.Fatalf("expected 5 matches, got %d (%d collected)", sum.Matches, len(got))
	}
	for i, r := range got {
		if r.Candidate != int64(10+i) {
			t.Errorf("match %d: expected candidate %d, got %d", i, 10+i, r.Candidate)
		}
	}
}

func TestRun_AbortedMatchPolicy(t *testing.T) {
	// Ceiling 2 aborts (1, 1) with reg0 = 0 left in place.
	opts := []Option{
		WithRange(0, 1),
		WithInitial(1, 1),
		WithCeiling(2),
		WithTarget(0),
	}

	lenient := mustNew(t, opts...)
	got, sum, err := lenient.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	want := []Result{{Candidate: 0, Reg0: 0, Reg1: 1, Steps: vm.Aborted, Aborted: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lenient matches mismatch (-want +got):\n%s", diff)
	}
	if sum.Aborted != 1 {
		t.Errorf("expected 1 aborted candidate, got %d", sum.Aborted)
	}

	strict := mustNew(t, append(opts, WithStrict())...)
	got, sum, err = strict.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(got) != 0 || sum.Matches != 0 {
		t.Errorf("expected strict sweep to drop aborted match, got %+v", got)
	}
}

func TestRun_StrategiesAgree(t *testing.T) {
	var iter, rec []Result
	collect := func(dst *[]Result) func(Result) {
		return func(r Result) { *dst = append(*dst, r) }
	}

	base := []Option{WithRange(0, 6), WithInitial(3, 2), WithCeiling(20_000)}
	for _, tc := range []struct {
		st  vm.Strategy
		dst *[]Result
	}{{vm.Iterative, &iter}, {vm.Recursive, &rec}} {
		s := mustNew(t, append(base, WithStrategy(tc.st), WithObserver(collect(tc.dst)))...)
		if _, err := s.Run(context.Background(), nil); err != nil {
			t.Fatalf("%v: Run failed: %v", tc.st, err)
		}
	}

	if len(iter) != 6 {
		t.Fatalf("expected observer to see 6 candidates, got %d", len(iter))
	}
	if diff := cmp.Diff(rec, iter); diff != "" {
		t.Errorf("strategies disagree (-recursive +iterative):\n%s", diff)
	}
}

func TestEvaluate_Isolation(t *testing.T) {
	s := mustNew(t, WithCeiling(1_000))

	first, err := s.Evaluate(0)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	// An aborting candidate in between must not leak into the next one.
	if r, err := s.Evaluate(5); err != nil || !r.Aborted {
		t.Fatalf("expected candidate 5 to abort, got %+v (err %v)", r, err)
	}
	second, err := s.Evaluate(0)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeat evaluation differs (-first +second):\n%s", diff)
	}
	if first.Reg0 != 2 || first.Aborted {
		t.Errorf("expected candidate 0 to complete with reg0 2, got %+v", first)
	}
}

func TestEvaluate_TableOutOfDomain(t *testing.T) {
	s := mustNew(t, WithInitial(-1, 1), WithStrategy(vm.Table))
	if _, err := s.Evaluate(0); !errors.Is(err, vm.ErrOutOfDomain) {
		t.Errorf("expected ErrOutOfDomain, got %v", err)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := mustNew(t, WithRange(0, 10))
	sum, err := s.Run(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if sum.Tested != 0 {
		t.Errorf("expected no candidates tested, got %d", sum.Tested)
	}
}

func TestRun_EmitError(t *testing.T) {
	boom := errors.New("boom")
	s := mustNew(t, WithRange(0, 3), WithInitial(0, 5))

	calls := 0
	sum, err := s.Run(context.Background(), func(Result) error {
		calls++
		return boom
	})
	if !errors.Is(err, ErrEmit) || !errors.Is(err, boom) {
		t.Errorf("expected wrapped emit error, got %v", err)
	}
	if calls != 1 || sum.Tested != 1 {
		t.Errorf("expected sweep to stop after first emit, calls %d tested %d", calls, sum.Tested)
	}
}

func TestRun_ExhaustiveTable(t *testing.T) {
	if testing.Short() {
		t.Skip("full-range sweep")
	}
	s := mustNew(t, WithStrategy(vm.Table))

	got, sum, err := s.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if sum.Tested != DefaultTo-DefaultFrom {
		t.Errorf("expected %d candidates tested, got %d", DefaultTo-DefaultFrom, sum.Tested)
	}
	want := []Result{{Candidate: 25734, Reg0: 6, Reg1: 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}
