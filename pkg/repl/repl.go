package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/akhildatla/regsweep/pkg/loader"
	"github.com/akhildatla/regsweep/pkg/report"
	"github.com/akhildatla/regsweep/pkg/sweep"
	"github.com/akhildatla/regsweep/pkg/vm"
)

const prompt = "regsweep> "

// REPL provides an interactive Read-Eval-Print Loop over the evaluator.
type REPL struct {
	strategy     vm.Strategy
	ceiling      int64
	target       int64
	initA, initB int64
	strict       bool
	results      []sweep.Result
	history      []string
	done         bool
}

// New creates a new REPL instance with the sweep defaults.
func New() *REPL {
	return &REPL{
		strategy: vm.Iterative,
		ceiling:  vm.DefaultCeiling,
		target:   sweep.DefaultTarget,
		initA:    vm.InitialA,
		initB:    vm.InitialB,
		history:  []string{},
	}
}

// SetStrategy sets the evaluator used by eval and sweep.
func (r *REPL) SetStrategy(s vm.Strategy) {
	r.strategy = s
}

// SetCeiling sets the per-candidate step budget.
func (r *REPL) SetCeiling(n int64) {
	r.ceiling = n
}

// SetInitial sets the registers loaded before every evaluation.
func (r *REPL) SetInitial(a, b int64) {
	r.initA, r.initB = a, b
}

// Start starts the REPL loop.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "regsweep REPL - teleporter check explorer")
	fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(out)

	for !r.done {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if handled := r.handleCommand(line, out); handled {
			continue
		}
		r.eval(line, out)
	}
}

func (r *REPL) options(extra ...sweep.Option) []sweep.Option {
	opts := []sweep.Option{
		sweep.WithStrategy(r.strategy),
		sweep.WithCeiling(r.ceiling),
		sweep.WithTarget(r.target),
		sweep.WithInitial(r.initA, r.initB),
	}
	if r.strict {
		opts = append(opts, sweep.WithStrict())
	}
	return append(opts, extra...)
}

func (r *REPL) handleCommand(line string, out io.Writer) bool {
	trimmed := strings.TrimSpace(line)
	parts := strings.Fields(trimmed)

	if len(parts) == 0 {
		return true
	}

	switch parts[0] {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Goodbye!")
		r.done = true
		return true

	case "help", "h", "?":
		r.printHelp(out)
		return true

	case "mode":
		if len(parts) > 1 {
			s, err := vm.ParseStrategy(parts[1])
			if err != nil {
				fmt.Fprintln(out, "Unknown mode. Use 'iterative', 'recursive' or 'table'")
				return true
			}
			r.strategy = s
			fmt.Fprintf(out, "Switched to %v evaluator\n", s)
		} else {
			fmt.Fprintf(out, "Current mode: %v\n", r.strategy)
		}
		return true

	case "ceiling":
		r.setInt(parts, "ceiling", &r.ceiling, out)
		return true

	case "target":
		r.setInt(parts, "target", &r.target, out)
		return true

	case "init":
		if len(parts) != 3 {
			fmt.Fprintf(out, "Initial registers: reg0=%d reg1=%d\n", r.initA, r.initB)
			return true
		}
		a, errA := strconv.ParseInt(parts[1], 10, 64)
		b, errB := strconv.ParseInt(parts[2], 10, 64)
		if errA != nil || errB != nil {
			fmt.Fprintln(out, "Usage: init <reg0> <reg1>")
			return true
		}
		r.initA, r.initB = a, b
		fmt.Fprintf(out, "Initial registers set to reg0=%d reg1=%d\n", a, b)
		return true

	case "strict":
		if len(parts) > 1 {
			r.strict = parts[1] == "on"
		}
		fmt.Fprintf(out, "Strict matching: %v\n", r.strict)
		return true

	case "load":
		if len(parts) != 2 {
			fmt.Fprintln(out, "Usage: load <report.{csv,json,parquet}>")
			return true
		}
		r.loadReport(parts[1], out)
		return true

	case "results":
		r.printResults(out)
		return true

	case "history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}
		return true
	}

	return false
}

func (r *REPL) setInt(parts []string, name string, dst *int64, out io.Writer) {
	if len(parts) < 2 {
		fmt.Fprintf(out, "Current %s: %d\n", name, *dst)
		return
	}
	n, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "Usage: %s <integer>\n", name)
		return
	}
	*dst = n
	fmt.Fprintf(out, "%s set to %d\n", name, n)
}

func (r *REPL) eval(input string, out io.Writer) {
	r.history = append(r.history, input)

	parts := strings.Fields(input)
	var err error
	switch {
	case parts[0] == "eval" && len(parts) == 2:
		err = r.evalCandidate(parts[1], out)
	case parts[0] == "sweep" && len(parts) == 3:
		err = r.sweepRange(parts[1], parts[2], out)
	case len(parts) == 1:
		err = r.evalCandidate(parts[0], out)
	default:
		err = fmt.Errorf("unknown command: %s", parts[0])
	}

	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func (r *REPL) evalCandidate(arg string, out io.Writer) error {
	p, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid candidate %q", arg)
	}
	s, err := sweep.New(r.options()...)
	if err != nil {
		return err
	}
	res, err := s.Evaluate(p)
	if err != nil {
		return err
	}

	status := fmt.Sprintf("steps %d", res.Steps)
	if res.Aborted {
		status = "aborted"
	}
	fmt.Fprintf(out, "=> %s (%s)", report.FormatLine(res), status)
	if s.IsMatch(res) {
		fmt.Fprint(out, " match")
	}
	fmt.Fprintln(out)
	return nil
}

func (r *REPL) sweepRange(fromArg, toArg string, out io.Writer) error {
	from, errFrom := strconv.ParseInt(fromArg, 10, 64)
	to, errTo := strconv.ParseInt(toArg, 10, 64)
	if errFrom != nil || errTo != nil {
		return fmt.Errorf("usage: sweep <from> <to>")
	}
	s, err := sweep.New(r.options(sweep.WithRange(from, to))...)
	if err != nil {
		return err
	}

	w := report.NewWriter(out, report.FormatText)
	r.results = nil
	sum, err := s.Run(context.Background(), func(res sweep.Result) error {
		r.results = append(r.results, res)
		return w.Write(res)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tested %d candidates: %d matches, %d aborted\n", sum.Tested, sum.Matches, sum.Aborted)
	return nil
}

func (r *REPL) loadReport(path string, out io.Writer) {
	df, err := loader.Load(path)
	if err != nil {
		fmt.Fprintf(out, "Error loading %s: %v\n", path, err)
		return
	}
	results, err := report.FromDataFrame(df)
	if err != nil {
		fmt.Fprintf(out, "Error reading %s: %v\n", path, err)
		return
	}
	r.results = results
	fmt.Fprintf(out, "Loaded %d results from %s\n", len(results), path)
}

func (r *REPL) printResults(out io.Writer) {
	if len(r.results) == 0 {
		fmt.Fprintln(out, "No results")
		return
	}
	w := report.NewWriter(out, report.FormatTable)
	for _, res := range r.results {
		_ = w.Write(res)
	}
	if err := w.Flush(context.Background()); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
regsweep REPL Commands:
  help, h, ?            Show this help message
  quit, exit, q         Exit the REPL
  mode [name]           Show or set evaluator (iterative, recursive, table)
  ceiling [n]           Show or set the per-candidate step budget
  target [n]            Show or set the reg0 value that counts as a match
  init [reg0 reg1]      Show or set the initial registers
  strict [on|off]       Drop aborted runs from matches
  eval <p>, <p>         Evaluate one candidate
  sweep <from> <to>     Sweep candidates in [from, to)
  load <path>           Load a saved report
  results               Show the last sweep or loaded report
  history               Show command history

Examples:
  0
  mode table
  sweep 25730 25740
`
	fmt.Fprint(out, help)
}
