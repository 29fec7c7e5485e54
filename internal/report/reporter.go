// Package report accumulates per-item log lines and aggregate counts for a
// batch run and renders the final summary text.
package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/url-scoop-go/internal/domain"
	"github.com/yourusername/url-scoop-go/internal/urlnorm"
)

// ProgressFunc receives the completed fraction and a short human label
// after each finalized request. It drives an external progress indicator
// and is not part of the rendered report.
type ProgressFunc func(completed, total int, label string)

// Reporter owns the RunSummary for one run: ordered log lines, counts,
// bytes, and error details. Mutated once per processed request, rendered at
// run end and not mutated again.
type Reporter struct {
	total        int
	completed    int
	successes    int
	skips        int
	errors       int
	totalBytes   int64
	start        time.Time
	end          time.Time
	lines        []string
	errorDetails []string
	rewrites     []urlnorm.Rewrite
	progress     ProgressFunc
	logger       *zap.Logger
}

// New creates a reporter for a batch of total requests. progress and logger
// may be nil.
func New(total int, progress ProgressFunc, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		total:    total,
		start:    time.Now(),
		progress: progress,
		logger:   logger,
	}
}

// Logf appends a log line, visible immediately through Lines
func (r *Reporter) Logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	r.lines = append(r.lines, line)
	r.logger.Info(line)
}

// Warnf appends a warning line
func (r *Reporter) Warnf(format string, args ...interface{}) {
	line := "[WARN] " + fmt.Sprintf(format, args...)
	r.lines = append(r.lines, line)
	r.logger.Warn(line)
}

// AddRewrite records an applied URL normalization
func (r *Reporter) AddRewrite(rw urlnorm.Rewrite) {
	r.rewrites = append(r.rewrites, rw)
	r.Logf("rewrote: %s -> %s", rw.Original, rw.Rewritten)
}

// StartRequest appends the per-item header line before processing begins
func (r *Reporter) StartRequest(req domain.DownloadRequest) {
	r.Logf("[%d/%d] %s", req.Index+1, r.total, req.URL)
}

// AddOutcome finalizes one request in the summary: log lines, counts, and
// the progress callback. Called exactly once per request, in request order.
func (r *Reporter) AddOutcome(req domain.DownloadRequest, out *domain.DownloadOutcome) {
	label := ""

	switch out.Kind {
	case domain.OutcomeSuccess:
		r.successes++
		r.totalBytes += out.Bytes
		r.Logf("  -> saved: %s (%d bytes in %s)", out.FilePath, out.Bytes, out.Elapsed.Round(time.Millisecond))
		if out.Warning != "" {
			r.Warnf("  %s", out.Warning)
		}
		label = "saved " + filepath.Base(out.FilePath)

	case domain.OutcomeSkipped:
		r.skips++
		r.Logf("  -> skipped: %s already exists (%d bytes)", out.FilePath, out.ExistingBytes)
		label = "skipped " + filepath.Base(out.FilePath)

	case domain.OutcomeFailed:
		r.errors++
		r.Logf("  [failed] %v (after %d attempts)", out.Err, out.AttemptsMade)
		r.errorDetails = append(r.errorDetails,
			fmt.Sprintf("[%d] %s: %v", req.Index+1, req.URL, out.Err))
		label = "failed " + req.URL
	}

	r.completed++
	if r.progress != nil {
		r.progress(r.completed, r.total, label)
	}
}

// Finish stops the run clock
func (r *Reporter) Finish() {
	r.end = time.Now()
}

// Counters and accessors for persisting the run record.

func (r *Reporter) SuccessCount() int { return r.successes }
func (r *Reporter) SkipCount() int    { return r.skips }
func (r *Reporter) ErrorCount() int   { return r.errors }
func (r *Reporter) TotalBytes() int64 { return r.totalBytes }
func (r *Reporter) Lines() []string   { return r.lines }

// Elapsed returns the run's wall time so far, frozen once Finish is called
func (r *Reporter) Elapsed() time.Duration {
	if r.end.IsZero() {
		return time.Since(r.start)
	}
	return r.end.Sub(r.start)
}

// Render produces the final report text: the ordered log, a failure block
// when any request failed, the summary block, the rewritten-URL section
// when any normalization occurred, and a closing hint pointing at the
// failure block.
func (r *Reporter) Render() string {
	var b strings.Builder

	for _, line := range r.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(r.errorDetails) > 0 {
		b.WriteString("\nFailures:\n")
		for _, detail := range r.errorDetails {
			b.WriteString("  " + detail + "\n")
		}
	}

	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "  elapsed: %s\n", r.Elapsed().Round(time.Millisecond))
	fmt.Fprintf(&b, "  success: %d\n", r.successes)
	fmt.Fprintf(&b, "  skipped: %d\n", r.skips)
	fmt.Fprintf(&b, "  errors:  %d\n", r.errors)
	fmt.Fprintf(&b, "  bytes:   %d\n", r.totalBytes)

	if len(r.rewrites) > 0 {
		b.WriteString("\nRewritten URLs:\n")
		for _, rw := range r.rewrites {
			fmt.Fprintf(&b, "  %s -> %s\n", rw.Original, rw.Rewritten)
		}
	}

	if r.errors > 0 {
		b.WriteString("\nSome downloads failed: see the failure list above.\n")
	}

	return b.String()
}
