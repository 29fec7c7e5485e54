package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the current status of a batch run
type RunStatus string

const (
	StatusQueued    RunStatus = "queued"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run represents one batch fetch run and its aggregate result
type Run struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Status       RunStatus  `json:"status" gorm:"not null;index"`
	DestDir      string     `json:"dest_dir" gorm:"not null"`
	URLCount     int        `json:"url_count"`
	SuccessCount int        `json:"success_count"`
	SkipCount    int        `json:"skip_count"`
	ErrorCount   int        `json:"error_count"`
	TotalBytes   int64      `json:"total_bytes"`
	Report       string     `json:"report,omitempty" gorm:"type:text"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// NewRun creates a new run in the queued state
func NewRun(destDir string, urlCount int) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Status:    StatusQueued,
		DestDir:   destDir,
		URLCount:  urlCount,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// MarkRunning marks the run as running
func (r *Run) MarkRunning() {
	r.Status = StatusRunning
	now := time.Now()
	r.StartedAt = &now
	r.UpdatedAt = now
}

// MarkCompleted records the aggregate counts and the rendered report.
// A run with errors still completes; per-request failures never fail the run.
func (r *Run) MarkCompleted(successes, skips, errors int, totalBytes int64, report string) {
	r.Status = StatusCompleted
	r.SuccessCount = successes
	r.SkipCount = skips
	r.ErrorCount = errors
	r.TotalBytes = totalBytes
	r.Report = report
	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now
}

// MarkFailed marks the run as failed before or during execution.
// Only pre-flight errors (no input, no destination) and cancellation land here.
func (r *Run) MarkFailed(err error) {
	r.Status = StatusFailed
	r.ErrorMessage = err.Error()
	now := time.Now()
	r.FinishedAt = &now
	r.UpdatedAt = now
}

// IsTerminal checks if the run is in a terminal state
func (r *Run) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// Duration returns the wall time of a finished run, zero otherwise
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// RunStats represents aggregate statistics over the run history
type RunStats struct {
	Total      int64 `json:"total"`
	Queued     int64 `json:"queued"`
	Running    int64 `json:"running"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	Files      int64 `json:"files"`
	TotalBytes int64 `json:"total_bytes"`
}
