package app

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/url-scoop-go/internal/domain"
	"github.com/yourusername/url-scoop-go/internal/report"
	"github.com/yourusername/url-scoop-go/internal/urlnorm"
)

// BatchRunner executes a batch of download requests strictly sequentially,
// in input order, producing exactly one DownloadOutcome per request. No
// per-request error ever aborts the batch; only cancellation and the
// pre-flight input checks stop a run early.
type BatchRunner struct {
	fetcher domain.Fetcher
	logger  *zap.Logger

	// sleep is swapped out in tests to assert the backoff schedule
	sleep func(ctx context.Context, d time.Duration) error
}

// NewBatchRunner creates a runner around a per-run fetcher
func NewBatchRunner(fetcher domain.Fetcher, logger *zap.Logger) *BatchRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchRunner{
		fetcher: fetcher,
		logger:  logger,
		sleep:   sleepCtx,
	}
}

// Run normalizes the URLs, ensures the destination directory exists, and
// processes every request to a terminal outcome. The returned reporter is
// finished and ready to render. A non-nil error means the run aborted
// before or between requests (bad input or cancellation), never that an
// individual download failed.
func (br *BatchRunner) Run(ctx context.Context, cfg domain.RunConfig, urls []string, progress report.ProgressFunc) (*report.Reporter, []*domain.DownloadOutcome, error) {
	if cfg.DestDir == "" {
		return nil, nil, domain.ErrNoDestination
	}
	if len(urls) == 0 {
		return nil, nil, domain.ErrNoInput
	}

	normalized, rewrites := urlnorm.NormalizeAll(urls)

	rep := report.New(len(normalized), progress, br.logger)
	rep.Logf("Fetching %d URLs to %s", len(normalized), cfg.DestDir)
	if cfg.Credential == "" {
		rep.Warnf("no API key configured: authenticated downloads may fail")
	}
	for _, rw := range rewrites {
		rep.AddRewrite(rw)
	}

	if err := os.MkdirAll(cfg.DestDir, 0755); err != nil {
		return nil, nil, domain.NewPathError(domain.KindDirectoryAccess, cfg.DestDir, err)
	}

	requests := make([]domain.DownloadRequest, len(normalized))
	for i, u := range normalized {
		requests[i] = domain.DownloadRequest{Index: i, URL: u, OriginalURL: urls[i]}
	}

	outcomes := make([]*domain.DownloadOutcome, 0, len(requests))
	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			rep.Finish()
			return rep, outcomes, err
		}

		rep.StartRequest(req)
		out := br.processRequest(ctx, cfg, req, rep)
		rep.AddOutcome(req, out)
		outcomes = append(outcomes, out)

		// fixed inter-request pause, independent of retry backoff
		if i < len(requests)-1 && cfg.RetryDelay > 0 {
			if err := br.sleep(ctx, cfg.RetryDelay); err != nil {
				rep.Finish()
				return rep, outcomes, err
			}
		}
	}

	rep.Finish()
	return rep, outcomes, nil
}

// processRequest executes one request to a terminal outcome.
func (br *BatchRunner) processRequest(ctx context.Context, cfg domain.RunConfig, req domain.DownloadRequest, rep *report.Reporter) *domain.DownloadOutcome {
	start := time.Now()

	candidate := domain.FilenameFromURL(req.URL, req.Index+1)
	candidatePath := filepath.Join(cfg.DestDir, candidate)

	// Whatever happens below, never leave this request's in-flight
	// temporary file behind for the next request to trip over.
	defer func() {
		os.Remove(candidatePath + domain.TempSuffix)
	}()

	if cfg.SkipExisting {
		if size, ok := existingFileSize(candidatePath); ok {
			return domain.SkippedOutcome(candidatePath, size)
		}
	}

	// Header-only probe may refine the candidate name before the fetch.
	// Probe failures are swallowed: the URL-derived name stands.
	if info, err := br.fetcher.Probe(ctx, req.URL); err != nil {
		br.logger.Debug("metadata probe failed",
			zap.String("url", req.URL),
			zap.Error(err))
	} else if info.Filename != "" && info.Filename != candidate {
		candidate = info.Filename
		candidatePath = filepath.Join(cfg.DestDir, candidate)
		if cfg.SkipExisting {
			if size, ok := existingFileSize(candidatePath); ok {
				return domain.SkippedOutcome(candidatePath, size)
			}
		}
	}

	attempts := cfg.RetryCount + 1
	var lastErr *domain.FetchError

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := backoffDelay(cfg.RetryDelay, attempt)
			rep.Logf("  retrying in %s (attempt %d/%d)", delay, attempt, attempts)
			if err := br.sleep(ctx, delay); err != nil {
				return domain.FailedOutcome(domain.ReasonCancelled, err, attempt-1)
			}
		}
		if err := ctx.Err(); err != nil {
			return domain.FailedOutcome(domain.ReasonCancelled, err, attempt-1)
		}

		res, err := br.fetcher.Fetch(ctx, req.URL, cfg.DestDir, candidate, cfg.SkipExisting)
		if err == nil {
			if res.Skipped {
				return domain.SkippedOutcome(res.Path, res.ExistingBytes)
			}
			out := domain.SuccessOutcome(res.Path, res.Bytes, time.Since(start), attempt)
			if res.SizeMismatch {
				out.Warning = warnSizeMismatch(res)
			}
			return out
		}

		lastErr = domain.ClassifyError(err)
		br.logger.Warn("download attempt failed",
			zap.String("url", req.URL),
			zap.Int("attempt", attempt),
			zap.String("kind", string(lastErr.Kind)),
			zap.Error(lastErr))

		if !lastErr.Retryable() {
			return domain.FailedOutcome(lastErr.FailureReason(), lastErr, attempt)
		}
	}

	return domain.FailedOutcome(domain.ReasonRetriesExhausted, lastErr, attempts)
}

// backoffDelay returns the pause before the given attempt number: the base
// delay doubled once per prior failed attempt. Attempt 1 has no delay.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return time.Duration(float64(base) * math.Pow(2, float64(attempt-2)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// existingFileSize reports the size of a regular file at path; a zero-byte
// file is treated as corrupt and reported as absent so it gets re-fetched.
func existingFileSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return 0, false
	}
	return info.Size(), true
}

func warnSizeMismatch(res *domain.FetchResult) string {
	return fmt.Sprintf("size mismatch: expected %d bytes, wrote %d", res.DeclaredSize, res.Bytes)
}
