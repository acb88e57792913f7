// Package loader reads sweep reports back into dataframes.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// ErrUnsupportedExt is returned when Load cannot tell the format from the file name.
var ErrUnsupportedExt = errors.New("unsupported report extension")

// Load reads a report, picking the format from the file extension
// (.csv, .json, .jsonl or .parquet).
func Load(path string) (*dataframe.DataFrame, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(path)
	case ".json", ".jsonl":
		return LoadJSON(path)
	case ".parquet":
		return LoadParquet(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExt, ext)
	}
}
