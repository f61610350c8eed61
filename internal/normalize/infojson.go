package normalize

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"mediarelay/internal/core/domain"
)

// Info is the normalized form of a yt-dlp JSON dump.
type Info struct {
	Title       string
	Description string
	MediaURLs   []string
}

// MediaEntry collects the URL candidates contributed by one media item, in
// the order they are considered: direct url, thumbnail, largest thumbnail
// by pixel area, then every format URL.
type MediaEntry struct {
	DirectURL           string
	ThumbnailURL        string
	LargestThumbnailURL string
	FormatURLs          []string
}

// Candidates returns the entry's URLs flattened in priority order, deduped.
func (e MediaEntry) Candidates() []string {
	var urls []string
	if e.DirectURL != "" {
		urls = append(urls, e.DirectURL)
	}
	if e.ThumbnailURL != "" {
		urls = append(urls, e.ThumbnailURL)
	}
	if e.LargestThumbnailURL != "" {
		urls = append(urls, e.LargestThumbnailURL)
	}
	urls = append(urls, e.FormatURLs...)
	return Dedupe(urls)
}

// InfoJSON parses yt-dlp output into a normalized Info. The payload is
// usually a single JSON document; some invocations emit several documents
// separated by newlines, in which case the last parseable line wins.
func InfoJSON(raw []byte) (*Info, error) {
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}

	items, multi := documentItems(doc)

	var urls []string
	for _, item := range items {
		urls = append(urls, entryFromItem(item).Candidates()...)
	}

	info := &Info{MediaURLs: Dedupe(urls)}
	if !multi {
		info.Title = stringField(doc, "title")
		info.Description = stringField(doc, "description")
	}
	return info, nil
}

func decodeDocument(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	var doc map[string]any
	if err := json.Unmarshal(trimmed, &doc); err == nil {
		return doc, nil
	}

	// Concatenated documents: scan lines bottom-up and take the first one
	// that parses.
	lines := strings.Split(string(trimmed), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var lineDoc map[string]any
		if err := json.Unmarshal([]byte(line), &lineDoc); err == nil {
			return lineDoc, nil
		}
	}
	return nil, &domain.ParseError{Message: "yt-dlp output is not valid JSON"}
}

// documentItems returns the media items of the payload. A payload with an
// entries list contributes each non-null object entry; anything else is a
// single item. multi reports whether the entries path was taken.
func documentItems(doc map[string]any) (items []map[string]any, multi bool) {
	entries, ok := doc["entries"].([]any)
	if !ok {
		return []map[string]any{doc}, false
	}
	for _, e := range entries {
		if item, ok := e.(map[string]any); ok && item != nil {
			items = append(items, item)
		}
	}
	return items, true
}

func entryFromItem(item map[string]any) MediaEntry {
	entry := MediaEntry{}
	if u := stringField(item, "url"); domain.IsHTTPURL(u) {
		entry.DirectURL = u
	}
	if u := stringField(item, "thumbnail"); domain.IsHTTPURL(u) {
		entry.ThumbnailURL = u
	}
	entry.LargestThumbnailURL = largestThumbnail(item)
	if formats, ok := item["formats"].([]any); ok {
		for _, f := range formats {
			format, ok := f.(map[string]any)
			if !ok {
				continue
			}
			if u := stringField(format, "url"); domain.IsHTTPURL(u) {
				entry.FormatURLs = append(entry.FormatURLs, u)
			}
		}
	}
	return entry
}

// largestThumbnail picks the URL of the thumbnail with the largest pixel
// area. Thumbnails without both numeric dimensions count as area 0 and sort
// last; ties keep list order.
func largestThumbnail(item map[string]any) string {
	raw, ok := item["thumbnails"].([]any)
	if !ok {
		return ""
	}

	type thumb struct {
		url  string
		area float64
	}
	var thumbs []thumb
	for _, t := range raw {
		tm, ok := t.(map[string]any)
		if !ok {
			continue
		}
		u := stringField(tm, "url")
		if !domain.IsHTTPURL(u) {
			continue
		}
		var area float64
		w, wok := numberField(tm, "width")
		h, hok := numberField(tm, "height")
		if wok && hok {
			area = w * h
		}
		thumbs = append(thumbs, thumb{url: u, area: area})
	}
	if len(thumbs) == 0 {
		return ""
	}
	sort.SliceStable(thumbs, func(i, j int) bool { return thumbs[i].area > thumbs[j].area })
	return thumbs[0].url
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func numberField(m map[string]any, key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}
