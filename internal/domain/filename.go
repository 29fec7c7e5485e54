package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// TempSuffix marks an in-flight temporary sibling file. A finished run must
// never leave a file with this suffix in the destination directory.
const TempSuffix = ".part"

// FilenameFromURL derives a candidate filename from the URL's path segment,
// stripping query parameters. index is the request's one-based position in
// the batch and seeds the synthetic fallback name when the path is empty.
func FilenameFromURL(rawURL string, index int) string {
	base := ""
	if u, err := url.Parse(rawURL); err == nil {
		base = path.Base(u.Path)
	} else {
		// unparseable input: chop the query off by hand
		s := rawURL
		if i := strings.IndexByte(s, '?'); i >= 0 {
			s = s[:i]
		}
		base = path.Base(s)
	}

	if name := SafeFilename(base); name != "" {
		return name
	}
	return fmt.Sprintf("file_%d", index)
}

// FilenameFromDisposition extracts the server's preferred filename from a
// Content-Disposition header. The extended form (filename*=utf-8''name,
// percent-encoded) is preferred over the simple form when both are present.
// Returns "" when the header declares no usable name.
func FilenameFromDisposition(cd string) string {
	if cd == "" {
		return ""
	}
	lcd := strings.ToLower(cd)

	if idx := strings.Index(lcd, "filename*="); idx >= 0 {
		v := cd[idx+len("filename*="):]
		// charset prefix per RFC 5987, e.g. utf-8''
		if p := strings.Index(v, "''"); p >= 0 {
			v = v[p+2:]
		}
		if semi := strings.IndexByte(v, ';'); semi >= 0 {
			v = v[:semi]
		}
		if name, err := url.QueryUnescape(strings.Trim(v, "\"' ")); err == nil {
			if name = SafeFilename(name); name != "" {
				return name
			}
		}
	}

	if idx := strings.Index(lcd, "filename="); idx >= 0 {
		v := cd[idx+len("filename="):]
		if semi := strings.IndexByte(v, ';'); semi >= 0 {
			v = v[:semi]
		}
		return SafeFilename(strings.Trim(v, "\"' "))
	}

	return ""
}

// SafeFilename reduces a server- or URL-supplied name to a bare filename,
// discarding directory components and traversal. Returns "" when nothing
// usable remains.
func SafeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	return name
}
