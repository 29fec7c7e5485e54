package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/url-scoop-go/internal/domain"
	"github.com/yourusername/url-scoop-go/internal/source"
)

// mockRunRepo implements domain.RunRepository for testing
type mockRunRepo struct {
	runs map[string]*domain.Run
}

func newMockRunRepo() *mockRunRepo {
	return &mockRunRepo{runs: make(map[string]*domain.Run)}
}

func (m *mockRunRepo) Create(run *domain.Run) error {
	m.runs[run.ID] = run
	return nil
}

func (m *mockRunRepo) Update(run *domain.Run) error {
	m.runs[run.ID] = run
	return nil
}

func (m *mockRunRepo) Delete(id string) error {
	delete(m.runs, id)
	return nil
}

func (m *mockRunRepo) FindByID(id string) (*domain.Run, error) {
	return m.runs[id], nil
}

func (m *mockRunRepo) FindAll(filters map[string]interface{}) ([]*domain.Run, error) {
	return nil, nil
}

func (m *mockRunRepo) FindRecent(limit int) ([]*domain.Run, error) {
	return nil, nil
}

func (m *mockRunRepo) Count() (int64, error) {
	return int64(len(m.runs)), nil
}

func (m *mockRunRepo) GetStats() (*domain.RunStats, error) {
	return &domain.RunStats{}, nil
}

func testServiceConfig(t *testing.T) *domain.Config {
	config := domain.DefaultConfig()
	config.Fetch.DestDir = t.TempDir()
	config.Fetch.RetryDelay = 0
	return config
}

func newTestService(t *testing.T, repo *mockRunRepo, fetcher domain.Fetcher) *RunService {
	service := NewRunService(repo, nil, testServiceConfig(t), nil)
	service.newFetcher = func(credential string) domain.Fetcher { return fetcher }
	return service
}

func TestExecute_CompletedRunPersisted(t *testing.T) {
	repo := newMockRunRepo()
	service := newTestService(t, repo, &mockFetcher{})

	run, err := service.Execute(context.Background(), RunRequest{
		Text: source.FromString("https://x.example/a.bin\nhttps://x.example/b.bin"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, run.Status)
	assert.Equal(t, 2, run.URLCount)
	assert.Equal(t, 2, run.SuccessCount)
	assert.Equal(t, int64(200), run.TotalBytes)
	assert.NotEmpty(t, run.Report)
	assert.Contains(t, run.Report, "Summary:")

	stored, _ := repo.FindByID(run.ID)
	require.NotNil(t, stored)
	assert.True(t, stored.IsTerminal())
}

func TestExecute_PerURLFailuresStillComplete(t *testing.T) {
	repo := newMockRunRepo()
	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, url, destDir, candidate string, skip bool) (*domain.FetchResult, error) {
			return nil, domain.NewFetchError(domain.KindPermission, assert.AnError)
		},
	}
	service := newTestService(t, repo, fetcher)

	run, err := service.Execute(context.Background(), RunRequest{
		Text: source.FromString("https://x.example/a.bin"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, run.Status)
	assert.Equal(t, 1, run.ErrorCount)
	assert.Contains(t, run.Report, "Failures:")
}

func TestExecute_NoInputCreatesNoRun(t *testing.T) {
	repo := newMockRunRepo()
	service := newTestService(t, repo, &mockFetcher{})

	_, err := service.Execute(context.Background(), RunRequest{})
	assert.ErrorIs(t, err, domain.ErrNoInput)
	assert.Empty(t, repo.runs)
}

func TestExecute_NoDestinationCreatesNoRun(t *testing.T) {
	repo := newMockRunRepo()
	service := newTestService(t, repo, &mockFetcher{})
	service.config.Fetch.DestDir = ""

	_, err := service.Execute(context.Background(), RunRequest{
		Text: source.FromString("https://x.example/a.bin"),
	})
	assert.ErrorIs(t, err, domain.ErrNoDestination)
	assert.Empty(t, repo.runs)
}

func TestExecute_OverridesTakePrecedence(t *testing.T) {
	repo := newMockRunRepo()
	var sawSkip bool
	fetcher := &mockFetcher{
		fetchFunc: func(ctx context.Context, url, destDir, candidate string, skip bool) (*domain.FetchResult, error) {
			sawSkip = skip
			return &domain.FetchResult{Path: destDir + "/" + candidate, Filename: candidate, Bytes: 1}, nil
		},
	}
	service := newTestService(t, repo, fetcher)

	dest := t.TempDir()
	skip := false
	retries := 0
	delay := time.Duration(0)

	run, err := service.Execute(context.Background(), RunRequest{
		Text:         source.FromString("https://x.example/a.bin"),
		DestDir:      dest,
		SkipExisting: &skip,
		RetryCount:   &retries,
		RetryDelay:   &delay,
	})
	require.NoError(t, err)

	assert.Equal(t, dest, run.DestDir)
	assert.False(t, sawSkip)
}

func TestExecute_CancelledRunMarkedFailed(t *testing.T) {
	repo := newMockRunRepo()
	service := newTestService(t, repo, &mockFetcher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := service.Execute(ctx, RunRequest{
		Text: source.FromString("https://x.example/a.bin"),
	})
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, domain.StatusFailed, run.Status)
	assert.NotEmpty(t, run.ErrorMessage)
}
