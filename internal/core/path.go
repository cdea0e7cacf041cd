package core

import (
	"fmt"
	"path"
	"strings"
)

// NormalizePagePath brings a sitemap path into its canonical relative form:
// forward slashes, no leading slash, no trailing slash.
func NormalizePagePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")
	return p
}

func ValidatePagePath(p string) error {
	if p == "" {
		return fmt.Errorf("page path cannot be empty")
	}

	if strings.Contains(p, "?") {
		return fmt.Errorf("page path cannot contain query string")
	}

	if strings.Contains(p, "#") {
		return fmt.Errorf("page path cannot contain fragment")
	}

	if strings.Contains(p, "..") {
		return fmt.Errorf("page path cannot contain parent directory references")
	}

	if strings.Contains(p, "*") {
		return fmt.Errorf("page path cannot contain wildcards")
	}

	return nil
}

// JoinSegments joins URL path segments into a single relative path,
// collapsing duplicate separators. Empty segments are dropped.
func JoinSegments(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return ""
	}
	return path.Clean(strings.Join(parts, "/"))
}

// PrefixURL glues a configured URL prefix onto a relative path without
// doubling the separator. An empty prefix behaves like "/".
func PrefixURL(prefix, rel string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	rel = strings.TrimPrefix(rel, "/")
	return prefix + "/" + rel
}

// RequestToPagePath maps an inbound request path onto a sitemap path.
// Directory-style requests resolve to the index.html beneath them.
func RequestToPagePath(requestPath string) string {
	p := strings.TrimPrefix(requestPath, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	return p
}
