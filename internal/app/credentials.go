package app

import (
	"os"
	"strings"
)

// Environment variables consulted when the settings store carries no key,
// in priority order.
const (
	EnvAPIKey         = "CIVITAI_API_KEY"
	EnvAPIKeyFallback = "STABLEDIFFUSION_CIVITAI_API_KEY"
)

// ResolveCredential returns the bearer token for a run: the configured
// settings-store value first, then the primary and fallback environment
// variables. "" means the run proceeds unauthenticated; absence is not an
// error, the reporter just records a warning.
func ResolveCredential(configured string) string {
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvAPIKeyFallback))
}
