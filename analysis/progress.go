package analysis

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress reports trend chunk progress on a terminal line.
type Progress struct {
	writer         io.Writer
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewProgress creates a tracker.
// writer: where to write progress output (typically os.Stderr)
// total: expected number of chunks, adjusted by Observe
// reportInterval: report every N chunks
func NewProgress(writer io.Writer, total, reportInterval int) *Progress {
	return &Progress{
		writer:         writer,
		total:          total,
		reportInterval: max(reportInterval, 1),
	}
}

// Start begins tracking.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.lastReported = 0
}

// Update sets the number of chunks handled so far.
func (p *Progress) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.update(current)
}

// Observe matches trend.ProgressFunc: it adopts the batch client's chunk
// total, which is only known once cached keywords are set aside.
func (p *Progress) Observe(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.update(done)
}

func (p *Progress) update(current int) {
	if !p.started {
		return
	}
	p.current = min(current, p.total)
	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish marks the run as complete and prints the final line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start.
func (p *Progress) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report must be called with the lock held.
func (p *Progress) report() {
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}
	fmt.Fprintf(p.writer, "\rTrends: %d/%d chunks (%.1f%%) - %s",
		p.current, p.total, percentage, time.Since(p.startTime).Round(time.Millisecond))
}
