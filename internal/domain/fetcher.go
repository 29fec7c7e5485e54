package domain

import "context"

// ProbeInfo is the metadata learned from a header-only request
type ProbeInfo struct {
	Filename string // from Content-Disposition, "" when not declared
	Size     int64  // declared Content-Length, -1 when unknown
}

// FetchResult describes one completed (or skipped) streamed fetch attempt
type FetchResult struct {
	Path          string // final destination path of the written or kept file
	Filename      string // final resolved filename
	Bytes         int64  // bytes written to disk
	DeclaredSize  int64  // Content-Length of the response, -1 when unknown
	Skipped       bool   // an existing file was kept at the final resolved path
	ExistingBytes int64  // size of the kept file when Skipped
	SizeMismatch  bool   // written bytes differ from the declared size
}

// Fetcher executes the network half of a download. Probe failures are
// advisory; callers fall back to the URL-derived filename. Fetch performs a
// single attempt: the retry loop lives with the caller.
type Fetcher interface {
	Probe(ctx context.Context, url string) (*ProbeInfo, error)
	Fetch(ctx context.Context, url, destDir, candidate string, skipExisting bool) (*FetchResult, error)
}
