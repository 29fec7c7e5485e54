// Package source merges the UI's two URL inputs, an uploaded list file and
// a free-text block, into one ordered batch.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yourusername/url-scoop-go/internal/domain"
)

// Source yields UTF-8 text from one of the UI's inputs. ok is false when
// the input was not provided at all; the caller never has to probe upload
// shapes itself.
type Source func() (text string, ok bool, err error)

// None is the absent input
func None() Source {
	return func() (string, bool, error) { return "", false, nil }
}

// FromString wraps a free-text block; an empty string counts as absent
func FromString(s string) Source {
	return func() (string, bool, error) {
		if s == "" {
			return "", false, nil
		}
		return s, true, nil
	}
}

// FromReader wraps an uploaded file's content; a nil reader counts as absent
func FromReader(r io.Reader) Source {
	return func() (string, bool, error) {
		if r == nil {
			return "", false, nil
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", false, fmt.Errorf("failed to read URL list: %w", err)
		}
		return string(data), true, nil
	}
}

// FromFile wraps a local list file path; an empty path counts as absent
func FromFile(path string) Source {
	return func() (string, bool, error) {
		if path == "" {
			return "", false, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("failed to read URL list %s: %w", path, err)
		}
		return string(data), true, nil
	}
}

// ReadURLs merges list-file lines and free-text lines into one ordered
// slice, file lines first. Lines are whitespace-trimmed and blanks dropped;
// duplicates pass through untouched. Returns domain.ErrNoInput when both
// sources yield zero lines.
func ReadURLs(file, text Source) ([]string, error) {
	var urls []string

	for _, src := range []Source{file, text} {
		if src == nil {
			continue
		}
		content, ok, err := src()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		urls = append(urls, splitLines(content)...)
	}

	if len(urls) == 0 {
		return nil, domain.ErrNoInput
	}
	return urls, nil
}

func splitLines(content string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
