// Package normalize converts the heterogeneous output of the two extraction
// tools into a single deduplicated list of absolute media URLs.
package normalize

import (
	"bufio"
	"bytes"
	"strings"

	"mediarelay/internal/core/domain"
)

// Dedupe removes duplicate URLs preserving first-occurrence order.
func Dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// GalleryLines parses gallery-dl's newline-delimited output. Each non-empty
// line that is a well-formed absolute http(s) URL becomes a candidate;
// everything else is skipped.
func GalleryLines(raw []byte) []string {
	var urls []string
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !domain.IsHTTPURL(line) {
			continue
		}
		urls = append(urls, line)
	}
	return Dedupe(urls)
}
