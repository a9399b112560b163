// Package batch drives a ranked reconciliation worklist into rotating,
// append-as-you-go link files that can be resumed from any offset.
package batch

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults for Config fields left at zero.
const (
	DefaultSize               = 500
	DefaultCalibrationSamples = 20
	DefaultDelay              = 50 * time.Millisecond
)

// Config is the immutable run configuration of a Runner.
type Config struct {
	// Dir receives the batch files. It is created if missing.
	Dir string

	// FilePattern is a printf pattern with one integer verb for the
	// 1-based batch index, e.g. "links_%02d.ttl".
	FilePattern string

	// Prologue lines are written to a batch file that is empty after opening.
	Prologue []string

	// Size is the number of worklist positions per file.
	Size int

	// StartFrom is the first worklist index to process.
	StartFrom int

	// Delay is the pause after every lookup.
	Delay time.Duration

	// CalibrationSamples is the number of items processed before an ETA is
	// reported.
	CalibrationSamples int
}

// WithDefaults returns c with zero fields replaced by defaults. Delay is left
// alone since zero is a meaningful value.
func (c Config) WithDefaults() Config {
	if c.Size == 0 {
		c.Size = DefaultSize
	}
	if c.CalibrationSamples == 0 {
		c.CalibrationSamples = DefaultCalibrationSamples
	}
	return c
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Dir == "" {
		errs = append(errs, fmt.Errorf("dir is required"))
	}
	if c.FilePattern == "" {
		errs = append(errs, fmt.Errorf("file_pattern is required"))
	} else if strings.Count(c.FilePattern, "%") != 1 {
		errs = append(errs, fmt.Errorf("file_pattern %q must contain exactly one verb", c.FilePattern))
	}
	if c.Size <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %d", c.Size))
	}
	if c.StartFrom < 0 {
		errs = append(errs, fmt.Errorf("start_from must not be negative, got %d", c.StartFrom))
	}
	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must not be negative, got %s", c.Delay))
	}
	if c.CalibrationSamples < 0 {
		errs = append(errs, fmt.Errorf("calibration_samples must not be negative, got %d", c.CalibrationSamples))
	}
	return errors.Join(errs...)
}

// BatchIndex returns the 1-based batch number of worklist index i.
func (c Config) BatchIndex(i int) int {
	return i/c.Size + 1
}

// FileName returns the batch file name for worklist index i.
func (c Config) FileName(i int) string {
	return fmt.Sprintf(c.FilePattern, c.BatchIndex(i))
}
