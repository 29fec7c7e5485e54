package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/url-scoop-go/internal/domain"
	"github.com/yourusername/url-scoop-go/internal/urlnorm"
)

func TestReporter_CountsAndBytes(t *testing.T) {
	r := New(3, nil, nil)

	r.AddOutcome(domain.DownloadRequest{Index: 0, URL: "https://x/a"},
		domain.SuccessOutcome("/d/a.bin", 100, time.Second, 1))
	r.AddOutcome(domain.DownloadRequest{Index: 1, URL: "https://x/b"},
		domain.SkippedOutcome("/d/b.bin", 50))
	r.AddOutcome(domain.DownloadRequest{Index: 2, URL: "https://x/c"},
		domain.FailedOutcome(domain.ReasonRetriesExhausted, errors.New("boom"), 3))
	r.Finish()

	assert.Equal(t, 1, r.SuccessCount())
	assert.Equal(t, 1, r.SkipCount())
	assert.Equal(t, 1, r.ErrorCount())
	assert.Equal(t, int64(100), r.TotalBytes())
}

func TestReporter_ProgressCallback(t *testing.T) {
	type tick struct {
		completed, total int
		label            string
	}
	var ticks []tick

	r := New(2, func(completed, total int, label string) {
		ticks = append(ticks, tick{completed, total, label})
	}, nil)

	r.AddOutcome(domain.DownloadRequest{Index: 0, URL: "https://x/a"},
		domain.SuccessOutcome("/d/a.bin", 10, time.Second, 1))
	r.AddOutcome(domain.DownloadRequest{Index: 1, URL: "https://x/b"},
		domain.FailedOutcome(domain.ReasonRetriesExhausted, errors.New("boom"), 2))

	require.Len(t, ticks, 2)
	assert.Equal(t, tick{1, 2, "saved a.bin"}, ticks[0])
	assert.Equal(t, tick{2, 2, "failed https://x/b"}, ticks[1])
}

func TestReporter_Render(t *testing.T) {
	r := New(2, nil, nil)
	r.Logf("Fetching 2 URLs to /d")
	r.AddRewrite(urlnorm.Rewrite{
		Original:  "https://civitai.com/models/1?modelVersionId=10",
		Rewritten: "https://civitai.com/api/download/models/10",
	})

	r.StartRequest(domain.DownloadRequest{Index: 0, URL: "https://x/a"})
	r.AddOutcome(domain.DownloadRequest{Index: 0, URL: "https://x/a"},
		domain.SuccessOutcome("/d/a.bin", 100, time.Second, 1))

	r.StartRequest(domain.DownloadRequest{Index: 1, URL: "https://x/b"})
	r.AddOutcome(domain.DownloadRequest{Index: 1, URL: "https://x/b"},
		domain.FailedOutcome(domain.ReasonRetriesExhausted, errors.New("boom"), 3))

	r.Finish()
	out := r.Render()

	assert.Contains(t, out, "Fetching 2 URLs to /d")
	assert.Contains(t, out, "rewrote: https://civitai.com/models/1?modelVersionId=10 -> https://civitai.com/api/download/models/10")
	assert.Contains(t, out, "[1/2] https://x/a")
	assert.Contains(t, out, "-> saved: /d/a.bin (100 bytes in 1s)")
	assert.Contains(t, out, "[2/2] https://x/b")

	assert.Contains(t, out, "\nFailures:\n")
	assert.Contains(t, out, "[2] https://x/b: boom")

	assert.Contains(t, out, "\nSummary:\n")
	assert.Contains(t, out, "success: 1")
	assert.Contains(t, out, "skipped: 0")
	assert.Contains(t, out, "errors:  1")
	assert.Contains(t, out, "bytes:   100")

	assert.Contains(t, out, "\nRewritten URLs:\n")
	assert.Contains(t, out, "Some downloads failed: see the failure list above.")
}

func TestReporter_RenderCleanRunOmitsFailureSections(t *testing.T) {
	r := New(1, nil, nil)
	r.AddOutcome(domain.DownloadRequest{Index: 0, URL: "https://x/a"},
		domain.SuccessOutcome("/d/a.bin", 10, time.Second, 1))
	r.Finish()

	out := r.Render()
	assert.NotContains(t, out, "Failures:")
	assert.NotContains(t, out, "Rewritten URLs:")
	assert.NotContains(t, out, "Some downloads failed")
	assert.Contains(t, out, "Summary:")
}

func TestReporter_WarningLine(t *testing.T) {
	r := New(1, nil, nil)
	out := domain.SuccessOutcome("/d/a.bin", 90, time.Second, 1)
	out.Warning = "size mismatch: expected 100 bytes, wrote 90"
	r.AddOutcome(domain.DownloadRequest{Index: 0, URL: "https://x/a"}, out)

	joined := strings.Join(r.Lines(), "\n")
	assert.Contains(t, joined, "[WARN]")
	assert.Contains(t, joined, "size mismatch")
}

func TestReporter_ElapsedFrozenAfterFinish(t *testing.T) {
	r := New(0, nil, nil)
	r.Finish()
	first := r.Elapsed()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, first, r.Elapsed())
}
