package report

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	dataframe "github.com/rocketlaunchr/dataframe-go"

	"github.com/akhildatla/regsweep/pkg/sweep"
)

// Column names of a report frame.
const (
	ColCandidate = "candidate"
	ColReg0      = "reg0"
	ColReg1      = "reg1"
	ColSteps     = "steps"
	ColAborted   = "aborted"
)

// Error definitions
var (
	ErrMissingColumn = errors.New("report column missing")
	ErrBadValue      = errors.New("report value is not an integer")
)

// ToDataFrame builds a frame with one row per result.
// The aborted flag is stored as 0/1 so every export format round-trips it.
func ToDataFrame(results []sweep.Result) *dataframe.DataFrame {
	n := len(results)
	candidates := make([]interface{}, n)
	reg0 := make([]interface{}, n)
	reg1 := make([]interface{}, n)
	steps := make([]interface{}, n)
	aborted := make([]interface{}, n)

	for i, r := range results {
		candidates[i] = r.Candidate
		reg0[i] = r.Reg0
		reg1[i] = r.Reg1
		steps[i] = r.Steps
		if r.Aborted {
			aborted[i] = int64(1)
		} else {
			aborted[i] = int64(0)
		}
	}

	init := &dataframe.SeriesInit{Capacity: n}
	return dataframe.NewDataFrame(
		dataframe.NewSeriesInt64(ColCandidate, init, candidates...),
		dataframe.NewSeriesInt64(ColReg0, init, reg0...),
		dataframe.NewSeriesInt64(ColReg1, init, reg1...),
		dataframe.NewSeriesInt64(ColSteps, init, steps...),
		dataframe.NewSeriesInt64(ColAborted, init, aborted...),
	)
}

// FromDataFrame reads results back from a frame. candidate, reg0 and reg1 are
// required; steps and aborted default to zero when absent.
func FromDataFrame(df *dataframe.DataFrame) ([]sweep.Result, error) {
	required := []string{ColCandidate, ColReg0, ColReg1}
	cols := make(map[string]dataframe.Series)
	for _, name := range append(required, ColSteps, ColAborted) {
		idx, err := df.NameToColumn(name)
		if err != nil {
			continue
		}
		cols[name] = df.Series[idx]
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	rows := df.NRows()
	results := make([]sweep.Result, 0, rows)
	for row := 0; row < rows; row++ {
		var r sweep.Result
		fields := []struct {
			name string
			dst  *int64
		}{
			{ColCandidate, &r.Candidate},
			{ColReg0, &r.Reg0},
			{ColReg1, &r.Reg1},
			{ColSteps, &r.Steps},
		}
		for _, f := range fields {
			s, ok := cols[f.name]
			if !ok {
				continue
			}
			v, err := toInt64(s.Value(row))
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", row, f.name, err)
			}
			*f.dst = v
		}
		if s, ok := cols[ColAborted]; ok {
			v, err := toInt64(s.Value(row))
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", row, ColAborted, err)
			}
			r.Aborted = v != 0
		}
		results = append(results, r)
	}
	return results, nil
}

// toInt64 normalises the cell types produced by the CSV, JSON and Parquet importers.
func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v", ErrBadValue, x)
		}
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			if b, berr := strconv.ParseBool(x); berr == nil {
				return toInt64(b)
			}
			return 0, fmt.Errorf("%w: %q", ErrBadValue, x)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrBadValue, v, v)
	}
}
