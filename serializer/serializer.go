// Package serializer turns the board game dataset into an RDF document.
package serializer

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/gamegraph/dataset"
	"github.com/c360studio/gamegraph/export"
	bg "github.com/c360studio/gamegraph/vocabulary/boardgame"
)

// DefaultProgressEvery is how many games are written between progress logs.
const DefaultProgressEvery = 100

// Serializer writes games as RDF records.
type Serializer struct {
	logger        *slog.Logger
	progressEvery int
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Serializer) {
		s.logger = logger
	}
}

// WithProgressEvery sets the progress log interval. Zero disables progress
// logs.
func WithProgressEvery(n int) Option {
	return func(s *Serializer) {
		s.progressEvery = n
	}
}

// New creates a serializer.
func New(opts ...Option) *Serializer {
	s := &Serializer{
		logger:        slog.Default(),
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats reports what a serialization wrote.
type Stats struct {
	Games   int
	Skipped int
}

// Write writes the prologue and then one record per row, in row order. Rows
// without a game_id are skipped.
func (s *Serializer) Write(ctx context.Context, rows []dataset.Row, w export.RecordWriter) (Stats, error) {
	var stats Stats
	if err := w.WritePrologue(); err != nil {
		return stats, fmt.Errorf("write prologue: %w", err)
	}

	total := len(rows)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		subject, ok := Subject(row)
		if !ok {
			stats.Skipped++
			s.logger.Warn("Skipping row without game_id", "row", i+1, "name", row.Get(dataset.ColName))
			continue
		}

		if err := w.WriteRecord(string(subject), bg.ClassGame, BuildRecord(row)); err != nil {
			return stats, fmt.Errorf("write %s: %w", subject, err)
		}
		stats.Games++

		if s.progressEvery > 0 && stats.Games%s.progressEvery == 0 {
			s.logger.Info("Serialization progress", "written", stats.Games, "total", total)
		}
	}
	return stats, nil
}

// Job names the input and output of one serialization.
type Job struct {
	DatasetPath string
	OutputPath  string
	Format      export.Format
}

// Run loads the dataset, orders it by game_id and writes the graph document.
// The output is written to a temporary file and renamed into place, so the
// previous document stays intact when the run fails.
func (s *Serializer) Run(ctx context.Context, job Job) (Stats, error) {
	ds, err := dataset.Load(job.DatasetPath)
	if err != nil {
		return Stats{}, err
	}
	s.logger.Info("Dataset loaded", "path", job.DatasetPath, "rows", ds.Len())

	dir := filepath.Dir(job.OutputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(job.OutputPath)+".*.tmp")
	if err != nil {
		return Stats{}, fmt.Errorf("create output file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	buf := bufio.NewWriter(tmp)
	w, err := export.NewRecordWriter(job.Format, buf, bg.PredicateOrder, bg.GraphPrefixes()...)
	if err != nil {
		return Stats{}, err
	}

	stats, err := s.Write(ctx, dataset.SortByGameID(ds.Rows()), w)
	if err != nil {
		return stats, err
	}
	if err := buf.Flush(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return stats, fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), job.OutputPath); err != nil {
		return stats, fmt.Errorf("replace output: %w", err)
	}

	s.logger.Info("Graph written",
		"path", job.OutputPath,
		"format", job.Format,
		"games", stats.Games,
		"skipped", stats.Skipped)
	return stats, nil
}
