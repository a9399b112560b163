package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/c360studio/gamegraph/export"
	"github.com/c360studio/gamegraph/reconcile"
	"github.com/c360studio/gamegraph/vocabulary/boardgame"
	"github.com/google/uuid"
)

// Item is one worklist entry.
type Item struct {
	// Key is the local identifier passed to the resolver (game_id for games).
	Key string
	// Label is the display name looked up.
	Label string
	// Subject is the prefixed subject of the link triple. Items without one
	// are skipped.
	Subject string
	// Weight is the ranking count, reported in logs only.
	Weight int
}

// Resolver resolves one entity. *reconcile.Chain implements it.
type Resolver interface {
	Resolve(ctx context.Context, item reconcile.Item) reconcile.Result
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, item reconcile.Item) reconcile.Result

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, item reconcile.Item) reconcile.Result {
	return f(ctx, item)
}

// Summary reports what one run did. Next is the worklist index a follow-up
// run should start from. Failed counts misses where at least one lookup
// errored.
type Summary struct {
	RunID       string
	Next        int
	Processed   int
	Found       int
	Failed      int
	Skipped     int
	FilesOpened int
	Duration    time.Duration
}

// Runner walks a worklist and writes one link triple per resolved item.
type Runner struct {
	cfg      Config
	resolver Resolver
	logger   *slog.Logger
	metrics  *Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics the runner records into.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a runner. Zero Size and CalibrationSamples take their
// defaults.
func NewRunner(cfg Config, resolver Resolver, opts ...RunnerOption) (*Runner, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid batch config: %w", err)
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}

	r := &Runner{
		cfg:      cfg,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = NewMetrics()
	}
	return r, nil
}

// Metrics returns the runner metrics.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run processes items from the configured start index. Positions below it are
// skipped without a lookup. A batch file is opened at every multiple of Size
// (truncating it) and at the first processed position of a resumed run
// (appending to it). Every link is flushed before the next lookup, so a run
// interrupted at any point can be resumed from the index after the last
// logged item. The open file is closed on every return path.
func (r *Runner) Run(ctx context.Context, items []Item) (summary Summary, err error) {
	cfg := r.cfg
	summary.RunID = uuid.New().String()
	summary.Next = min(cfg.StartFrom, len(items))
	logger := r.logger.With("run_id", summary.RunID)
	started := time.Now()
	defer func() {
		summary.Duration = time.Since(started)
	}()

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return summary, fmt.Errorf("create batch dir: %w", err)
	}

	total := len(items)
	logger.Info("Starting reconciliation run",
		"items", total,
		"batch_size", cfg.Size,
		"dir", cfg.Dir)
	if cfg.StartFrom > 0 {
		logger.Info("Resuming run", "skipping", min(cfg.StartFrom, total))
	}

	var current *File
	defer func() {
		if current != nil {
			current.Close()
		}
	}()

	progress := NewProgress(total, cfg.StartFrom, cfg.CalibrationSamples)

	for i, item := range items {
		if i < cfg.StartFrom {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if i%cfg.Size == 0 || current == nil {
			if current != nil {
				if err := current.Close(); err != nil {
					return summary, fmt.Errorf("close batch file: %w", err)
				}
			}

			appendMode := i%cfg.Size != 0
			path := filepath.Join(cfg.Dir, cfg.FileName(i))
			f, err := OpenFile(path, appendMode, cfg.Prologue)
			if err != nil {
				current = nil
				return summary, err
			}
			current = f
			summary.FilesOpened++
			r.metrics.filesOpened.Inc()

			mode := "truncate"
			if appendMode {
				mode = "append"
			}
			logger.Info("Writing batch file", "file", path, "batch", cfg.BatchIndex(i), "mode", mode)
		}

		if item.Subject == "" {
			summary.Skipped++
			summary.Next = i + 1
			logger.Debug("Skipping item without subject", "index", i+1, "label", item.Label)
			continue
		}

		t0 := time.Now()
		res := r.resolver.Resolve(ctx, reconcile.Item{Key: item.Key, Label: item.Label})
		dur := time.Since(t0)

		// A lookup cut short by cancellation is not a miss.
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Processed++
		r.metrics.duration.Observe(dur.Seconds())

		outcome, strategy := "miss", "none"
		switch {
		case res.Found():
			outcome, strategy = "found", string(res.Strategy)
			line := fmt.Sprintf("%s %s %s .", item.Subject, boardgame.SameAs, export.IRIRef(res.URI))
			if err := current.WriteLine(line); err != nil {
				return summary, err
			}
			summary.Found++
		case res.Failure != "":
			// Worth another run once the endpoint recovers.
			outcome = "error_" + string(res.Failure)
			summary.Failed++
		}
		summary.Next = i + 1
		r.metrics.lookups.WithLabelValues(outcome, strategy).Inc()

		logger.Info("Lookup",
			"index", i+1,
			"total", total,
			"percent", fmt.Sprintf("%.1f", progress.Percent(i)),
			"eta", progress.ETA(i),
			"label", item.Label,
			"weight", item.Weight,
			"outcome", outcome,
			"strategy", strategy,
			"duration", dur.Round(time.Millisecond))

		if err := sleep(ctx, cfg.Delay); err != nil {
			return summary, err
		}
	}

	if current != nil {
		closeErr := current.Close()
		current = nil
		if closeErr != nil {
			return summary, fmt.Errorf("close batch file: %w", closeErr)
		}
	}

	logger.Info("Reconciliation run complete",
		"processed", summary.Processed,
		"found", summary.Found,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"files", summary.FilesOpened)
	return summary, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
