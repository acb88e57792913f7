// Package main provides the CLI entry point for regsweep.
//
// Usage:
//
//	regsweep sweep -mode table          # Test every candidate, print "p reg0 reg1" per match
//	regsweep sweep -from 0 -to 100      # Budgeted search over a small range
//	regsweep eval 25734                 # Evaluate one candidate
//	regsweep verify report.csv          # Re-check a saved report
//	regsweep repl                       # Interactive explorer
//
// Under the default step budget every candidate in the full range aborts, so
// only -mode table reaches the unbudgeted answer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/juju/loggo"

	"github.com/akhildatla/regsweep/pkg/loader"
	"github.com/akhildatla/regsweep/pkg/repl"
	"github.com/akhildatla/regsweep/pkg/report"
	"github.com/akhildatla/regsweep/pkg/sweep"
	"github.com/akhildatla/regsweep/pkg/vm"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ErrVerifyMismatch is returned when a saved report disagrees with re-evaluation.
var ErrVerifyMismatch = errors.New("report does not match evaluation")

var logger = loggo.GetLogger("regsweep.cli")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		return printUsage(stdout)
	}

	cmd := args[0]

	switch cmd {
	case "sweep":
		return sweepCommand(ctx, args[1:], stdout, stderr)
	case "eval":
		return evalCommand(args[1:], stdout, stderr)
	case "verify":
		return verifyCommand(ctx, args[1:], stdout, stderr)
	case "repl":
		return replCommand(args[1:], stdin, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "regsweep version %s\n", version)
		if commit != "none" {
			fmt.Fprintf(stdout, "  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Fprintf(stdout, "  built:  %s\n", date)
		}
		return nil
	case "help", "-h", "--help":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// evalFlags are shared by every command that runs the evaluator.
type evalFlags struct {
	mode    *string
	ceiling *int64
	initA   *int64
	initB   *int64
	verbose *bool
}

func addEvalFlags(fs *flag.FlagSet) *evalFlags {
	return &evalFlags{
		mode:    fs.String("mode", vm.Iterative.String(), "evaluator: iterative, recursive or table"),
		ceiling: fs.Int64("ceiling", vm.DefaultCeiling, "per-candidate step budget"),
		initA:   fs.Int64("a", vm.InitialA, "initial reg0"),
		initB:   fs.Int64("b", vm.InitialB, "initial reg1"),
		verbose: fs.Bool("v", false, "verbose logging to stderr"),
	}
}

func (f *evalFlags) options(stderr io.Writer) ([]sweep.Option, error) {
	if err := configureLogging(stderr, *f.verbose); err != nil {
		return nil, err
	}
	strategy, err := vm.ParseStrategy(*f.mode)
	if err != nil {
		return nil, err
	}
	return []sweep.Option{
		sweep.WithStrategy(strategy),
		sweep.WithCeiling(*f.ceiling),
		sweep.WithInitial(*f.initA, *f.initB),
	}, nil
}

func configureLogging(stderr io.Writer, verbose bool) error {
	if _, err := loggo.ReplaceDefaultWriter(loggo.NewSimpleWriter(stderr, loggo.DefaultFormatter)); err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	level := "WARNING"
	if verbose {
		level = "DEBUG"
	}
	return loggo.ConfigureLoggers("regsweep=" + level)
}

func sweepCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ef := addEvalFlags(fs)
	from := fs.Int64("from", sweep.DefaultFrom, "first candidate")
	to := fs.Int64("to", sweep.DefaultTo, "end of candidate range (exclusive)")
	target := fs.Int64("target", sweep.DefaultTarget, "reg0 value that counts as a match")
	strict := fs.Bool("strict", false, "drop aborted runs from matches")
	format := fs.String("format", "text", "output format: text, table, csv, json or parquet")
	output := fs.String("o", "", "output file (default: stdout)")
	plot := fs.Bool("plot", false, "chart steps per candidate on stderr")
	plotHeight := fs.Int("plot-height", 10, "chart height in rows")

	if err := fs.Parse(args); err != nil {
		return err
	}

	opts, err := ef.options(stderr)
	if err != nil {
		return err
	}
	opts = append(opts, sweep.WithRange(*from, *to), sweep.WithTarget(*target))
	if *strict {
		opts = append(opts, sweep.WithStrict())
	}

	var observed []sweep.Result
	if *plot {
		opts = append(opts, sweep.WithObserver(func(r sweep.Result) {
			observed = append(observed, r)
		}))
	}

	s, err := sweep.New(opts...)
	if err != nil {
		return err
	}

	fmtKind, err := report.ParseFormat(*format)
	if err != nil {
		return err
	}

	out := stdout
	var f *os.File
	if *output != "" {
		if f, err = os.Create(*output); err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		out = f
	}

	sum, err := writeReport(ctx, s, out, fmtKind)
	if f != nil {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
		if err != nil {
			if rerr := os.Remove(*output); rerr != nil {
				logger.Warningf("removing partial report %s: %v", *output, rerr)
			}
		}
	}
	if err != nil {
		return err
	}

	logger.Infof("tested %d candidates in %v: %d matches, %d aborted",
		sum.Tested, sum.Elapsed, sum.Matches, sum.Aborted)

	if *plot {
		fmt.Fprintln(stderr, report.PlotSteps(observed, s.Ceiling(), *plotHeight))
	}
	if *output != "" {
		fmt.Fprintf(stderr, "Wrote %d matches to %s\n", sum.Matches, *output)
	}
	return nil
}

// writeReport runs the sweep and streams its matches into out.
func writeReport(ctx context.Context, s *sweep.Sweeper, out io.Writer, format report.Format) (sweep.Summary, error) {
	w := report.NewWriter(out, format)
	sum, err := s.Run(ctx, w.Write)
	if err != nil {
		return sum, err
	}
	if err := w.Flush(ctx); err != nil {
		return sum, fmt.Errorf("writing report: %w", err)
	}
	return sum, nil
}

func evalCommand(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ef := addEvalFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: regsweep eval [-mode name] [-ceiling n] <candidate>")
	}
	p, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid candidate %q: %w", fs.Arg(0), err)
	}

	opts, err := ef.options(stderr)
	if err != nil {
		return err
	}
	s, err := sweep.New(opts...)
	if err != nil {
		return err
	}

	r, err := s.Evaluate(p)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, report.FormatLine(r))
	if r.Aborted {
		fmt.Fprintf(stderr, "aborted: step budget %d exhausted\n", s.Ceiling())
	} else if s.Strategy() != vm.Table {
		fmt.Fprintf(stderr, "steps: %d\n", r.Steps)
	}
	return nil
}

func verifyCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ef := addEvalFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: regsweep verify [-mode name] <report.{csv,json,parquet}>")
	}
	path := fs.Arg(0)

	opts, err := ef.options(stderr)
	if err != nil {
		return err
	}
	s, err := sweep.New(opts...)
	if err != nil {
		return err
	}

	df, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("loading report: %w", err)
	}
	recorded, err := report.FromDataFrame(df)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	logger.Debugf("verifying %d results from %s", len(recorded), path)

	mismatches := 0
	for _, want := range recorded {
		if err := ctx.Err(); err != nil {
			return err
		}
		got, err := s.Evaluate(want.Candidate)
		if err != nil {
			return err
		}
		if got.Reg0 != want.Reg0 || got.Reg1 != want.Reg1 {
			mismatches++
			fmt.Fprintf(stdout, "MISMATCH %s: evaluated %s\n", report.FormatLine(want), report.FormatLine(got))
			continue
		}
		fmt.Fprintf(stdout, "ok %s\n", report.FormatLine(want))
	}

	if mismatches > 0 {
		return fmt.Errorf("%w: %d of %d results", ErrVerifyMismatch, mismatches, len(recorded))
	}
	return nil
}

func replCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ef := addEvalFlags(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := configureLogging(stderr, *ef.verbose); err != nil {
		return err
	}
	strategy, err := vm.ParseStrategy(*ef.mode)
	if err != nil {
		return err
	}

	r := repl.New()
	r.SetStrategy(strategy)
	r.SetCeiling(*ef.ceiling)
	r.SetInitial(*ef.initA, *ef.initB)
	r.Start(stdin, stdout)
	return nil
}

func printUsage(out io.Writer) error {
	fmt.Fprintln(out, `regsweep - search reg7 values for the teleporter check routine

Usage:
  regsweep <command> [arguments]

Commands:
  sweep                 Test every candidate in [0, 32767), print "p reg0 reg1" per match
  eval <candidate>      Evaluate a single candidate
  verify <report>       Re-evaluate the candidates listed in a saved report
  repl                  Start interactive explorer
  version               Print version information
  help                  Show this help message

Evaluator Options (sweep, eval, verify, repl):
  -mode <name>          iterative (default), recursive or table
  -ceiling <n>          Per-candidate step budget (default 100000000)
  -a <n>, -b <n>        Initial reg0 and reg1 (default 4 and 1)
  -v                    Verbose logging to stderr

  With the default budget every candidate aborts after about a second, so a
  full sweep takes hours. Only -mode table reaches the unbudgeted result.

Sweep Options:
  -from <n>, -to <n>    Candidate range [from, to)
  -target <n>           reg0 value that counts as a match (default 6)
  -strict               Do not report runs that exhausted the step budget
  -format <name>        text (default), table, csv, json or parquet
  -o <file>             Output file (default: stdout)
  -plot                 Chart steps per candidate on stderr

Examples:
  regsweep sweep -mode table
  regsweep sweep -mode table -format csv -o matches.csv
  regsweep verify -mode table matches.csv
  regsweep eval -ceiling 1000000 25734`)
	return nil
}
