// Package dataset loads the board game CSV export into memory and derives the
// ranked worklists used by the reconciliation runs.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names of the board game export.
const (
	ColGameID        = "game_id"
	ColName          = "name"
	ColDescription   = "description"
	ColYearPublished = "year_published"
	ColMinPlayers    = "min_players"
	ColMaxPlayers    = "max_players"
	ColMinPlaytime   = "min_playtime"
	ColMaxPlaytime   = "max_playtime"
	ColPlayingTime   = "playing_time"
	ColMinAge        = "min_age"
	ColDesigner      = "designer"
	ColArtist        = "artist"
	ColPublisher     = "publisher"
	ColCategory      = "category"
	ColMechanic      = "mechanic"
	ColFamily        = "family"
	ColCompilation   = "compilation"
	ColExpansion     = "expansion"
	ColAverageRating = "average_rating"
	ColUsersRated    = "users_rated"
)

// ErrNoDataset is returned when no input file can be found.
var ErrNoDataset = errors.New("no dataset found")

// missingMarkers are cell values the export uses for missing data. They read
// back as empty strings.
var missingMarkers = map[string]bool{
	"nan": true, "NaN": true, "-nan": true, "-NaN": true,
	"NA": true, "N/A": true, "n/a": true, "<NA>": true, "#N/A": true,
	"NULL": true, "null": true, "None": true,
}

// Row is one read-only dataset record.
type Row struct {
	index  map[string]int
	values []string
}

// NewRow builds a standalone row from column/value pairs.
func NewRow(fields map[string]string) Row {
	r := Row{index: make(map[string]int, len(fields)), values: make([]string, 0, len(fields))}
	for k, v := range fields {
		r.index[k] = len(r.values)
		r.values = append(r.values, v)
	}
	return r
}

// Get returns the value of column col. Missing columns, short records and
// missing-value markers all read as "".
func (r Row) Get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	v := r.values[i]
	if missingMarkers[strings.TrimSpace(v)] {
		return ""
	}
	return v
}

// Dataset is the whole export held in memory.
type Dataset struct {
	header []string
	index  map[string]int
	rows   []Row
}

// Header returns the column names in file order.
func (d *Dataset) Header() []string {
	out := make([]string, len(d.header))
	copy(out, d.header)
	return out
}

// Has reports whether the dataset has column col.
func (d *Dataset) Has(col string) bool {
	_, ok := d.index[col]
	return ok
}

// Rows returns the records in file order.
func (d *Dataset) Rows() []Row {
	return d.rows
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Load reads the CSV file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoDataset, path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return ds, nil
}

// Read parses a CSV document with a header row.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty dataset: missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	ds := &Dataset{index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		ds.header = append(ds.header, h)
		if _, dup := ds.index[h]; !dup {
			ds.index[h] = i
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(ds.rows)+1, err)
		}
		ds.rows = append(ds.rows, Row{index: ds.index, values: rec})
	}

	return ds, nil
}
