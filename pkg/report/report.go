// Package report renders sweep results.
//
// The text format is the contract output: one "<candidate> <reg0> <reg1>"
// line per match, written as soon as the match is found. The other formats
// buffer the matches and render them when the writer is flushed:
//   - table: aligned ASCII table
//   - csv, json (one object per line), parquet: dataframe exports that
//     the loader package can read back for verification
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/rocketlaunchr/dataframe-go/exports"

	"github.com/akhildatla/regsweep/pkg/sweep"
)

// ErrUnknownFormat is returned for an unrecognised format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects the report encoding.
type Format int

const (
	FormatText Format = iota
	FormatTable
	FormatCSV
	FormatJSON
	FormatParquet
)

var formatNames = []string{"text", "table", "csv", "json", "parquet"}

// String returns the format name.
func (f Format) String() string {
	if int(f) >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat looks up a format by name.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatLine renders a result as "<candidate> <reg0> <reg1>".
func FormatLine(r sweep.Result) string {
	return fmt.Sprintf("%d %d %d", r.Candidate, r.Reg0, r.Reg1)
}

// Writer emits results in one format.
type Writer struct {
	out     io.Writer
	format  Format
	pending []sweep.Result
}

// NewWriter creates a writer for out.
func NewWriter(out io.Writer, format Format) *Writer {
	return &Writer{out: out, format: format}
}

// Write records one result. Text results are written immediately.
func (w *Writer) Write(r sweep.Result) error {
	if w.format == FormatText {
		_, err := fmt.Fprintln(w.out, FormatLine(r))
		return err
	}
	w.pending = append(w.pending, r)
	return nil
}

// Flush renders any buffered results.
func (w *Writer) Flush(ctx context.Context) error {
	results := w.pending
	w.pending = nil

	switch w.format {
	case FormatText:
		return nil
	case FormatTable:
		return writeTable(w.out, results)
	case FormatCSV:
		return exports.ExportToCSV(ctx, w.out, ToDataFrame(results))
	case FormatJSON:
		return exports.ExportToJSON(ctx, w.out, ToDataFrame(results))
	case FormatParquet:
		if err := exports.ExportToParquet(ctx, w.out, ToDataFrame(results)); err != nil {
			return fmt.Errorf("exporting parquet: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, w.format)
	}
}

func writeTable(out io.Writer, results []sweep.Result) error {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{ColCandidate, ColReg0, ColReg1, ColSteps, ColAborted})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range results {
		steps := strconv.FormatInt(r.Steps, 10)
		if r.Aborted {
			steps = "-"
		}
		table.Append([]string{
			strconv.FormatInt(r.Candidate, 10),
			strconv.FormatInt(r.Reg0, 10),
			strconv.FormatInt(r.Reg1, 10),
			steps,
			strconv.FormatBool(r.Aborted),
		})
	}
	table.Render()
	return nil
}

// PlotSteps charts the steps each result consumed. Aborted results are drawn
// at the ceiling.
func PlotSteps(results []sweep.Result, ceiling int64, height int) string {
	if len(results) == 0 {
		return ""
	}
	data := make([]float64, len(results))
	for i, r := range results {
		if r.Aborted {
			data[i] = float64(ceiling)
		} else {
			data[i] = float64(r.Steps)
		}
	}
	caption := fmt.Sprintf("steps per candidate %d..%d", results[0].Candidate, results[len(results)-1].Candidate)
	return asciigraph.Plot(data, asciigraph.Height(height), asciigraph.Caption(caption))
}
