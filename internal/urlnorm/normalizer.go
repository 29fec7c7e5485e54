// Package urlnorm rewrites known vendor model-page URLs into their direct
// download API equivalents. Normalization is pure and total: unmatched
// input is valid output.
package urlnorm

import (
	"fmt"
	"net/url"
	"strings"
)

const civitaiHost = "civitai.com"

// Rewrite records one applied normalization for the run report
type Rewrite struct {
	Original  string `json:"original"`
	Rewritten string `json:"rewritten"`
}

// Normalize rewrites a Civitai model-page URL carrying a modelVersionId
// into the direct-download API endpoint for that version. Anything else,
// including URLs that already point at the download API, is returned
// unchanged. The bool reports whether a rewrite happened.
func Normalize(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, false
	}
	if !IsVendorHost(u.Hostname()) {
		return rawURL, false
	}
	if strings.HasPrefix(u.Path, "/api/download/") {
		return rawURL, false
	}
	if !strings.HasPrefix(u.Path, "/models/") {
		return rawURL, false
	}
	version := u.Query().Get("modelVersionId")
	if version == "" {
		return rawURL, false
	}
	return fmt.Sprintf("https://%s/api/download/models/%s", civitaiHost, version), true
}

// NormalizeAll maps a batch of URLs, collecting applied rewrites in order
func NormalizeAll(urls []string) ([]string, []Rewrite) {
	normalized := make([]string, len(urls))
	var rewrites []Rewrite
	for i, raw := range urls {
		out, changed := Normalize(raw)
		normalized[i] = out
		if changed {
			rewrites = append(rewrites, Rewrite{Original: raw, Rewritten: out})
		}
	}
	return normalized, rewrites
}

// IsVendorHost reports whether the host belongs to the vendor that rejects
// default client identifiers; requests to it need the browser User-Agent.
func IsVendorHost(host string) bool {
	host = strings.ToLower(host)
	return host == civitaiHost || strings.HasSuffix(host, "."+civitaiHost)
}

// IsVendorURL is IsVendorHost over a raw URL
func IsVendorURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return IsVendorHost(u.Hostname())
}
