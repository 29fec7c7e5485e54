package domain

import "time"

// DownloadRequest is one URL in the ordered batch. Immutable once the
// batch is built; Index is the zero-based position in input order.
type DownloadRequest struct {
	Index       int    `json:"index"`
	URL         string `json:"url"`
	OriginalURL string `json:"original_url"`
}

// Rewritten reports whether the normalizer changed this request's URL
func (r DownloadRequest) Rewritten() bool {
	return r.OriginalURL != "" && r.OriginalURL != r.URL
}

// OutcomeKind tags the terminal classification of a request
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

// FailureReason names why a request finalized as failed
type FailureReason string

const (
	ReasonRetriesExhausted      FailureReason = "retries_exhausted"
	ReasonInsufficientDiskSpace FailureReason = "insufficient_disk_space"
	ReasonPermissionDenied      FailureReason = "permission_denied"
	ReasonDirectoryAccess       FailureReason = "directory_access"
	ReasonCancelled             FailureReason = "cancelled"
)

// DownloadOutcome is the terminal result of exactly one DownloadRequest.
// It is never revisited after being finalized.
type DownloadOutcome struct {
	Kind          OutcomeKind   `json:"kind"`
	FilePath      string        `json:"file_path,omitempty"`
	Bytes         int64         `json:"bytes,omitempty"`
	ExistingBytes int64         `json:"existing_bytes,omitempty"`
	Elapsed       time.Duration `json:"elapsed,omitempty"`
	AttemptsMade  int           `json:"attempts_made,omitempty"`
	Reason        FailureReason `json:"reason,omitempty"`
	Err           error         `json:"-"`
	Warning       string        `json:"warning,omitempty"`
}

// SuccessOutcome finalizes a request that streamed to disk
func SuccessOutcome(path string, bytes int64, elapsed time.Duration, attempts int) *DownloadOutcome {
	return &DownloadOutcome{
		Kind:         OutcomeSuccess,
		FilePath:     path,
		Bytes:        bytes,
		Elapsed:      elapsed,
		AttemptsMade: attempts,
	}
}

// SkippedOutcome finalizes a request whose file already exists
func SkippedOutcome(path string, existingBytes int64) *DownloadOutcome {
	return &DownloadOutcome{
		Kind:          OutcomeSkipped,
		FilePath:      path,
		ExistingBytes: existingBytes,
	}
}

// FailedOutcome finalizes a request that could not be downloaded
func FailedOutcome(reason FailureReason, err error, attempts int) *DownloadOutcome {
	return &DownloadOutcome{
		Kind:         OutcomeFailed,
		Reason:       reason,
		Err:          err,
		AttemptsMade: attempts,
	}
}
