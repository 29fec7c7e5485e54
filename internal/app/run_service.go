package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/url-scoop-go/internal/domain"
	"github.com/yourusername/url-scoop-go/internal/infrastructure"
	"github.com/yourusername/url-scoop-go/internal/report"
	"github.com/yourusername/url-scoop-go/internal/source"
)

// RunRequest carries one run's inputs from the UI collaborator. Optional
// fields fall back to the configured defaults.
type RunRequest struct {
	File         source.Source
	Text         source.Source
	DestDir      string
	SkipExisting *bool
	RetryCount   *int
	RetryDelay   *time.Duration
	Credential   string
	Progress     report.ProgressFunc
}

// RunService ties the engine to the run history and notifications: it
// reads the URL sources, resolves the per-run configuration and
// credential, executes the batch, and persists the outcome.
type RunService struct {
	repo     domain.RunRepository
	notifier *infrastructure.NotificationService
	config   *domain.Config
	logger   *zap.Logger

	// newFetcher is swapped out in tests
	newFetcher func(credential string) domain.Fetcher
}

// NewRunService creates a run service
func NewRunService(repo domain.RunRepository, notifier *infrastructure.NotificationService, config *domain.Config, logger *zap.Logger) *RunService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RunService{
		repo:     repo,
		notifier: notifier,
		config:   config,
		logger:   logger,
	}
	s.newFetcher = func(credential string) domain.Fetcher {
		return infrastructure.NewHTTPFetcher(infrastructure.FetcherOptions{
			Credential:     credential,
			UserAgent:      config.Civitai.UserAgent,
			RequestTimeout: config.Fetch.RequestTimeout,
			ProbeTimeout:   config.Fetch.ProbeTimeout,
		}, logger)
	}
	return s
}

// Execute runs one batch to completion and returns the persisted run, whose
// Report field holds the rendered text. Pre-flight input errors
// (domain.ErrNoInput, domain.ErrNoDestination) come back before any run
// record is created; per-URL failures never surface here.
func (s *RunService) Execute(ctx context.Context, req RunRequest) (*domain.Run, error) {
	urls, err := source.ReadURLs(req.File, req.Text)
	if err != nil {
		return nil, err
	}

	cfg := s.runConfig(req)
	if cfg.DestDir == "" {
		return nil, domain.ErrNoDestination
	}

	run := domain.NewRun(cfg.DestDir, len(urls))
	if err := s.repo.Create(run); err != nil {
		return nil, err
	}

	run.MarkRunning()
	if err := s.repo.Update(run); err != nil {
		s.logger.Error("failed to update run status", zap.Error(err))
	}
	if s.notifier != nil {
		s.notifier.NotifyRunStarted(len(urls), cfg.DestDir)
	}

	s.logger.Info("starting batch run",
		zap.String("id", run.ID),
		zap.Int("urls", len(urls)),
		zap.String("dest_dir", cfg.DestDir),
		zap.Bool("authenticated", cfg.Credential != ""))

	runner := NewBatchRunner(s.newFetcher(cfg.Credential), s.logger)
	rep, _, runErr := runner.Run(ctx, cfg, urls, req.Progress)

	if runErr != nil {
		run.MarkFailed(runErr)
		if rep != nil {
			run.Report = rep.Render()
		}
		if err := s.repo.Update(run); err != nil {
			s.logger.Error("failed to update run status", zap.Error(err))
		}
		if s.notifier != nil {
			s.notifier.NotifyRunFailed(runErr)
		}
		return run, runErr
	}

	run.MarkCompleted(rep.SuccessCount(), rep.SkipCount(), rep.ErrorCount(), rep.TotalBytes(), rep.Render())
	if err := s.repo.Update(run); err != nil {
		s.logger.Error("failed to update run status", zap.Error(err))
	}
	if s.notifier != nil {
		s.notifier.NotifyRunCompleted(run)
	}

	s.logger.Info("batch run finished",
		zap.String("id", run.ID),
		zap.Int("success", run.SuccessCount),
		zap.Int("skipped", run.SkipCount),
		zap.Int("errors", run.ErrorCount),
		zap.Int64("bytes", run.TotalBytes))

	return run, nil
}

// runConfig merges the request's overrides onto the configured defaults
// and resolves the credential once for the whole run.
func (s *RunService) runConfig(req RunRequest) domain.RunConfig {
	cfg := s.config.RunConfig(ResolveCredential(s.config.Civitai.APIKey))

	if req.DestDir != "" {
		cfg.DestDir = req.DestDir
	}
	if req.SkipExisting != nil {
		cfg.SkipExisting = *req.SkipExisting
	}
	if req.RetryCount != nil && *req.RetryCount >= 0 {
		cfg.RetryCount = *req.RetryCount
	}
	if req.RetryDelay != nil && *req.RetryDelay >= 0 {
		cfg.RetryDelay = *req.RetryDelay
	}
	if req.Credential != "" {
		cfg.Credential = req.Credential
	}
	return cfg
}
