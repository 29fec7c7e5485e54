package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRun_InitialState(t *testing.T) {
	run := NewRun("/tmp/dest", 5)

	require.NotEmpty(t, run.ID)
	assert.Equal(t, StatusQueued, run.Status)
	assert.Equal(t, "/tmp/dest", run.DestDir)
	assert.Equal(t, 5, run.URLCount)
	assert.Nil(t, run.StartedAt)
	assert.Nil(t, run.FinishedAt)
	assert.False(t, run.IsTerminal())
}

func TestRun_MarkRunning(t *testing.T) {
	run := NewRun("/tmp/dest", 1)
	run.MarkRunning()

	assert.Equal(t, StatusRunning, run.Status)
	require.NotNil(t, run.StartedAt)
	assert.False(t, run.IsTerminal())
}

func TestRun_MarkCompleted_WithErrorsStillCompletes(t *testing.T) {
	run := NewRun("/tmp/dest", 3)
	run.MarkRunning()
	run.MarkCompleted(1, 1, 1, 1024, "report text")

	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, 1, run.SuccessCount)
	assert.Equal(t, 1, run.SkipCount)
	assert.Equal(t, 1, run.ErrorCount)
	assert.Equal(t, int64(1024), run.TotalBytes)
	assert.Equal(t, "report text", run.Report)
	require.NotNil(t, run.FinishedAt)
	assert.True(t, run.IsTerminal())
	assert.GreaterOrEqual(t, run.Duration().Nanoseconds(), int64(0))
}

func TestRun_MarkFailed(t *testing.T) {
	run := NewRun("/tmp/dest", 2)
	run.MarkFailed(errors.New("context canceled"))

	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "context canceled", run.ErrorMessage)
	assert.True(t, run.IsTerminal())
}

func TestRun_DurationZeroWhenUnfinished(t *testing.T) {
	run := NewRun("/tmp/dest", 1)
	assert.Zero(t, run.Duration())
	run.MarkRunning()
	assert.Zero(t, run.Duration())
}
