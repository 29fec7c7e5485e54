package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/yourusername/url-scoop-go/internal/domain"
	"github.com/yourusername/url-scoop-go/internal/urlnorm"
)

// FetcherOptions configures an HTTPFetcher for one run
type FetcherOptions struct {
	Credential     string        // bearer token, "" for unauthenticated
	UserAgent      string        // browser-like override for the vendor host
	RequestTimeout time.Duration // per-phase transport timeout for the streamed fetch
	ProbeTimeout   time.Duration // overall timeout for the header-only probe
}

// HTTPFetcher implements domain.Fetcher over net/http. One instance serves
// one run: the credential and header set are fixed at construction.
type HTTPFetcher struct {
	client      *http.Client
	probeClient *http.Client
	credential  string
	userAgent   string
	logger      *zap.Logger
	freeSpace   func(path string) (uint64, error)
}

// NewHTTPFetcher creates a fetcher for a run
func NewHTTPFetcher(opts FetcherOptions, logger *zap.Logger) *HTTPFetcher {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// No overall timeout on the fetch client: large bodies stream for
	// longer than any sane fixed budget. The transport bounds each phase
	// instead.
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: opts.RequestTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   opts.RequestTimeout,
		ResponseHeaderTimeout: opts.RequestTimeout,
		IdleConnTimeout:       opts.RequestTimeout,
	}

	return &HTTPFetcher{
		client:      &http.Client{Transport: transport},
		probeClient: &http.Client{Timeout: opts.ProbeTimeout},
		credential:  opts.Credential,
		userAgent:   opts.UserAgent,
		logger:      logger,
		freeSpace: func(path string) (uint64, error) {
			usage, err := disk.Usage(path)
			if err != nil {
				return 0, err
			}
			return usage.Free, nil
		},
	}
}

// setHeaders attaches the bearer credential and, for the vendor host, the
// browser User-Agent override.
func (f *HTTPFetcher) setHeaders(req *http.Request) {
	if f.credential != "" {
		req.Header.Set("Authorization", "Bearer "+f.credential)
	}
	if f.userAgent != "" && urlnorm.IsVendorHost(req.URL.Hostname()) {
		req.Header.Set("User-Agent", f.userAgent)
	}
}

// Probe issues a header-only request to learn the declared filename and
// size without transferring the body. Errors are returned for the caller
// to swallow; a failed probe never fails the request.
func (f *HTTPFetcher) Probe(ctx context.Context, url string) (*domain.ProbeInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	f.setHeaders(req)

	resp, err := f.probeClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("probe returned status %s", resp.Status)
	}

	return &domain.ProbeInfo{
		Filename: domain.FilenameFromDisposition(resp.Header.Get("Content-Disposition")),
		Size:     resp.ContentLength,
	}, nil
}

// Fetch performs one streamed download attempt of url into destDir under
// candidate, honoring atomic-write discipline: the body streams to a
// temporary sibling and is renamed into place only after it completes.
// The final filename is re-resolved from the response's disposition header;
// when that refines the name to a path that already exists (and
// skipExisting is set), the open body is discarded and the existing file
// kept. All errors come back classified as *domain.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, destDir, candidate string, skipExisting bool) (*domain.FetchResult, error) {
	if info, err := os.Stat(destDir); err != nil {
		return nil, domain.NewPathError(domain.KindDirectoryAccess, destDir, err)
	} else if !info.IsDir() {
		return nil, domain.NewPathError(domain.KindDirectoryAccess, destDir, fmt.Errorf("not a directory"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewFetchError(domain.KindGenericRequest, err)
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domain.ClassifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewFetchError(domain.KindHTTPStatus,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	// Final say on the filename: the actual response's disposition header
	// supersedes both the URL-derived and the probe-derived candidate.
	final := candidate
	if name := domain.FilenameFromDisposition(resp.Header.Get("Content-Disposition")); name != "" {
		final = name
	}
	finalPath := filepath.Join(destDir, final)

	if final != candidate && skipExisting {
		if size, ok := existingFileSize(finalPath); ok {
			f.logger.Debug("final filename already present, discarding response",
				zap.String("path", finalPath))
			return &domain.FetchResult{
				Path:          finalPath,
				Filename:      final,
				Skipped:       true,
				ExistingBytes: size,
			}, nil
		}
	}

	if resp.ContentLength > 0 {
		if free, err := f.freeSpace(destDir); err == nil && uint64(resp.ContentLength) > free {
			return nil, domain.NewPathError(domain.KindDiskSpace, destDir,
				fmt.Errorf("need %d bytes, %d available", resp.ContentLength, free))
		}
	}

	tmpPath := finalPath + domain.TempSuffix
	out, err := os.Create(tmpPath)
	if err != nil {
		return nil, classifyFileError(tmpPath, err)
	}
	// No-op after a successful rename; removes the partial file on every
	// other exit path.
	defer os.Remove(tmpPath)

	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		return nil, classifyFileError(tmpPath, copyErr)
	}
	if closeErr != nil {
		return nil, classifyFileError(tmpPath, closeErr)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return nil, classifyFileError(finalPath, err)
	}

	mismatch := resp.ContentLength > 0 && written != resp.ContentLength
	if mismatch {
		f.logger.Warn("download size mismatch",
			zap.String("path", finalPath),
			zap.Int64("expected", resp.ContentLength),
			zap.Int64("got", written))
	}

	return &domain.FetchResult{
		Path:         finalPath,
		Filename:     final,
		Bytes:        written,
		DeclaredSize: resp.ContentLength,
		SizeMismatch: mismatch,
	}, nil
}

// classifyFileError keeps the offending path on filesystem failures so the
// report can name it.
func classifyFileError(path string, err error) *domain.FetchError {
	fe := domain.ClassifyError(err)
	if fe.Path == "" {
		switch fe.Kind {
		case domain.KindPermission, domain.KindDirectoryAccess, domain.KindDiskSpace:
			fe.Path = path
		}
	}
	return fe
}

// existingFileSize reports the size of a regular file at path; a zero-byte
// file is treated as corrupt and reported as absent.
func existingFileSize(path string) (int64, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return 0, false
	}
	return info.Size(), true
}
