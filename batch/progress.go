package batch

import (
	"fmt"
	"time"
)

// Calibrating is reported instead of an ETA until enough items were timed.
const Calibrating = "calibrating"

// Progress estimates the remaining time of a run from the throughput of the
// current run only. Items skipped by a resume do not count.
type Progress struct {
	total     int
	startFrom int
	samples   int
	began     time.Time
	now       func() time.Time
}

// NewProgress starts measuring a run over total items beginning at startFrom.
func NewProgress(total, startFrom, samples int) *Progress {
	return &Progress{
		total:     total,
		startFrom: startFrom,
		samples:   samples,
		began:     time.Now(),
		now:       time.Now,
	}
}

// Percent returns the share of the worklist done once index i is complete.
func (p *Progress) Percent(i int) float64 {
	if p.total == 0 {
		return 100
	}
	return float64(i+1) / float64(p.total) * 100
}

// ETA returns the estimated remaining time once index i is complete, or
// Calibrating while no more than the calibration sample count is processed.
func (p *Progress) ETA(i int) string {
	processed := i + 1 - p.startFrom
	if processed <= p.samples || processed <= 0 {
		return Calibrating
	}
	avg := p.now().Sub(p.began) / time.Duration(processed)
	remaining := p.total - (i + 1)
	return FormatDuration(avg * time.Duration(remaining))
}

// FormatDuration renders d as "1h 02m" or "3m 07s".
func FormatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	m, s := secs/60, secs%60
	h, m := m/60, m%60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm %02ds", m, s)
}
