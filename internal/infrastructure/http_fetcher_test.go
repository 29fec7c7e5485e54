package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/url-scoop-go/internal/domain"
)

func newTestFetcher(credential string) *HTTPFetcher {
	f := NewHTTPFetcher(FetcherOptions{
		Credential:     credential,
		RequestTimeout: 5 * time.Second,
		ProbeTimeout:   5 * time.Second,
	}, nil)
	// plenty of space unless a test says otherwise
	f.freeSpace = func(path string) (uint64, error) { return 1 << 40, nil }
	return f
}

func TestFetch_StreamsToFinalPath(t *testing.T) {
	body := "hello world"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write([]byte(body))
	}))
	defer server.Close()

	dest := t.TempDir()
	f := newTestFetcher("")

	res, err := f.Fetch(context.Background(), server.URL+"/files/a.bin", dest, "a.bin", true)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "a.bin"), res.Path)
	assert.Equal(t, int64(len(body)), res.Bytes)
	assert.False(t, res.Skipped)
	assert.False(t, res.SizeMismatch)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))

	// no in-flight temporary left behind
	_, err = os.Stat(res.Path + domain.TempSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestFetch_DispositionOverridesCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="declared.safetensors"`)
		w.Write([]byte("data"))
	}))
	defer server.Close()

	dest := t.TempDir()
	f := newTestFetcher("")

	res, err := f.Fetch(context.Background(), server.URL+"/download/123", dest, "123", true)
	require.NoError(t, err)

	assert.Equal(t, "declared.safetensors", res.Filename)
	assert.FileExists(t, filepath.Join(dest, "declared.safetensors"))
}

func TestFetch_DispositionRefinedSkip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="existing.bin"`)
		w.Write([]byte("fresh body"))
	}))
	defer server.Close()

	dest := t.TempDir()
	existing := filepath.Join(dest, "existing.bin")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))

	f := newTestFetcher("")
	res, err := f.Fetch(context.Background(), server.URL+"/download/123", dest, "123", true)
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.Equal(t, int64(3), res.ExistingBytes)

	// the existing file was not overwritten
	data, _ := os.ReadFile(existing)
	assert.Equal(t, "old", string(data))
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	f := newTestFetcher("")
	_, err := f.Fetch(context.Background(), server.URL, t.TempDir(), "a.bin", true)
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.KindHTTPStatus, fe.Kind)
	assert.True(t, fe.Retryable())
}

func TestFetch_ConnectionErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse the connection

	f := newTestFetcher("")
	_, err := f.Fetch(context.Background(), server.URL, t.TempDir(), "a.bin", true)
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.KindConnection, fe.Kind)
}

func TestFetch_MissingDestDir(t *testing.T) {
	f := newTestFetcher("")
	_, err := f.Fetch(context.Background(), "http://unused.example", "/nonexistent/dest", "a.bin", true)
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.KindDirectoryAccess, fe.Kind)
	assert.False(t, fe.Retryable())
}

func TestFetch_InsufficientDiskSpace(t *testing.T) {
	body := make([]byte, 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Write(body)
	}))
	defer server.Close()

	f := newTestFetcher("")
	f.freeSpace = func(path string) (uint64, error) { return 1024, nil }

	dest := t.TempDir()
	_, err := f.Fetch(context.Background(), server.URL, dest, "a.bin", true)
	require.Error(t, err)

	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.KindDiskSpace, fe.Kind)
	assert.False(t, fe.Retryable())

	// nothing written at the final path
	_, statErr := os.Stat(filepath.Join(dest, "a.bin"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetch_SizeMismatchFlagged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// declare more than we send; the handler must not pad
		w.Header().Set("Content-Length", "100")
		flusher := w.(http.Flusher)
		w.Write([]byte("short"))
		flusher.Flush()
	}))
	defer server.Close()

	f := newTestFetcher("")
	res, err := f.Fetch(context.Background(), server.URL, t.TempDir(), "a.bin", true)
	if err != nil {
		// some transports surface the truncation as an unexpected EOF instead
		var fe *domain.FetchError
		require.ErrorAs(t, err, &fe)
		assert.True(t, fe.Retryable())
		return
	}
	assert.True(t, res.SizeMismatch)
	assert.Equal(t, int64(5), res.Bytes)
}

func TestFetch_SendsBearerCredential(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := newTestFetcher("secret-token")
	_, err := f.Fetch(context.Background(), server.URL, t.TempDir(), "a.bin", true)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestFetch_NoCredentialNoHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := newTestFetcher("")
	_, err := f.Fetch(context.Background(), server.URL, t.TempDir(), "a.bin", true)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestProbe_ReturnsDeclaredNameAndSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Disposition", `attachment; filename="model.bin"`)
		w.Header().Set("Content-Length", "1234")
	}))
	defer server.Close()

	f := newTestFetcher("")
	info, err := f.Probe(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "model.bin", info.Filename)
	assert.Equal(t, int64(1234), info.Size)
}

func TestProbe_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	f := newTestFetcher("")
	_, err := f.Probe(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestClassifyFileError_AttachesPath(t *testing.T) {
	fe := classifyFileError("/data/x.part", errors.New("write /data/x.part: no space left on device"))
	// unrecognized error text stays unexpected and unpathed
	assert.Equal(t, domain.KindUnexpected, fe.Kind)
	assert.Empty(t, fe.Path)

	fe = classifyFileError("/data/x.part", &os.PathError{Op: "write", Path: "/data/x.part", Err: os.ErrPermission})
	assert.Equal(t, domain.KindPermission, fe.Kind)
}
