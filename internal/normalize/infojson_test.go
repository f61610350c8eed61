package normalize

import (
	"errors"
	"reflect"
	"testing"

	"mediarelay/internal/core/domain"
)

func TestInfoJSONSingleItem(t *testing.T) {
	raw := []byte(`{
		"title": "Beach day",
		"description": "sunset reel",
		"url": "https://cdn.example.com/video.mp4",
		"thumbnail": "https://cdn.example.com/thumb.jpg",
		"formats": [
			{"url": "https://cdn.example.com/v360.mp4"},
			{"url": "https://cdn.example.com/v720.mp4"}
		]
	}`)

	info, err := InfoJSON(raw)
	if err != nil {
		t.Fatalf("InfoJSON() error: %v", err)
	}
	if info.Title != "Beach day" {
		t.Errorf("Title = %q, want 'Beach day'", info.Title)
	}
	if info.Description != "sunset reel" {
		t.Errorf("Description = %q, want 'sunset reel'", info.Description)
	}
	want := []string{
		"https://cdn.example.com/video.mp4",
		"https://cdn.example.com/thumb.jpg",
		"https://cdn.example.com/v360.mp4",
		"https://cdn.example.com/v720.mp4",
	}
	if !reflect.DeepEqual(info.MediaURLs, want) {
		t.Errorf("MediaURLs = %v, want %v", info.MediaURLs, want)
	}
}

func TestInfoJSONLargestThumbnail(t *testing.T) {
	// Area decides, not width: 100x5 = 500 beats 20x20 = 400 and 10x10 = 100.
	raw := []byte(`{
		"thumbnails": [
			{"url": "https://t/small", "width": 10, "height": 10},
			{"url": "https://t/wide", "width": 100, "height": 5},
			{"url": "https://t/square", "width": 20, "height": 20}
		]
	}`)
	info, err := InfoJSON(raw)
	if err != nil {
		t.Fatalf("InfoJSON() error: %v", err)
	}
	if len(info.MediaURLs) != 1 || info.MediaURLs[0] != "https://t/wide" {
		t.Errorf("MediaURLs = %v, want [https://t/wide]", info.MediaURLs)
	}
}

func TestInfoJSONThumbnailTiesAndMissingDims(t *testing.T) {
	// Entries without both numeric dimensions count as area 0 and sort
	// last; equal areas keep list order.
	raw := []byte(`{
		"thumbnails": [
			{"url": "https://t/no-dims"},
			{"url": "https://t/first", "width": 10, "height": 10},
			{"url": "https://t/second", "width": 10, "height": 10}
		]
	}`)
	info, err := InfoJSON(raw)
	if err != nil {
		t.Fatalf("InfoJSON() error: %v", err)
	}
	if len(info.MediaURLs) != 1 || info.MediaURLs[0] != "https://t/first" {
		t.Errorf("MediaURLs = %v, want [https://t/first]", info.MediaURLs)
	}
}

func TestInfoJSONEntriesCrossDedup(t *testing.T) {
	raw := []byte(`{
		"title": "playlist title",
		"entries": [
			{"url": "https://a/1"},
			{"url": "https://a/1"},
			{"thumbnail": "https://a/2"}
		]
	}`)
	info, err := InfoJSON(raw)
	if err != nil {
		t.Fatalf("InfoJSON() error: %v", err)
	}
	want := []string{"https://a/1", "https://a/2"}
	if !reflect.DeepEqual(info.MediaURLs, want) {
		t.Errorf("MediaURLs = %v, want %v", info.MediaURLs, want)
	}
	// Top-level metadata is dropped when iterating entries.
	if info.Title != "" || info.Description != "" {
		t.Errorf("entries payload surfaced metadata: title=%q description=%q", info.Title, info.Description)
	}
}

func TestInfoJSONEntriesSkipsNonObjects(t *testing.T) {
	raw := []byte(`{"entries": [null, "junk", 42, {"url": "https://a/1"}]}`)
	info, err := InfoJSON(raw)
	if err != nil {
		t.Fatalf("InfoJSON() error: %v", err)
	}
	if !reflect.DeepEqual(info.MediaURLs, []string{"https://a/1"}) {
		t.Errorf("MediaURLs = %v, want [https://a/1]", info.MediaURLs)
	}
}

func TestInfoJSONConcatenatedDocuments(t *testing.T) {
	// Several documents separated by newlines: the last parseable line wins.
	raw := []byte(`{"url": "https://a/old"}
not json here
{"url": "https://a/new", "title": "latest"}`)
	info, err := InfoJSON(raw)
	if err != nil {
		t.Fatalf("InfoJSON() error: %v", err)
	}
	if !reflect.DeepEqual(info.MediaURLs, []string{"https://a/new"}) {
		t.Errorf("MediaURLs = %v, want [https://a/new]", info.MediaURLs)
	}
	if info.Title != "latest" {
		t.Errorf("Title = %q, want 'latest'", info.Title)
	}
}

func TestInfoJSONParseError(t *testing.T) {
	_, err := InfoJSON([]byte("ERROR: video unavailable\nno json at all"))
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error type = %T, want *domain.ParseError", err)
	}
}

func TestInfoJSONDefensiveShapes(t *testing.T) {
	// Structurally unexpected fields are treated as absent, not fatal.
	raw := []byte(`{
		"title": 42,
		"url": ["not", "a", "string"],
		"thumbnail": "relative/path.jpg",
		"thumbnails": "nope",
		"formats": [{"url": 7}, "junk", {"url": "https://a/ok.mp4"}]
	}`)
	info, err := InfoJSON(raw)
	if err != nil {
		t.Fatalf("InfoJSON() error: %v", err)
	}
	if !reflect.DeepEqual(info.MediaURLs, []string{"https://a/ok.mp4"}) {
		t.Errorf("MediaURLs = %v, want [https://a/ok.mp4]", info.MediaURLs)
	}
	if info.Title != "" {
		t.Errorf("non-string title surfaced: %q", info.Title)
	}
}

func TestMediaEntryCandidateOrder(t *testing.T) {
	entry := MediaEntry{
		DirectURL:           "https://a/direct",
		ThumbnailURL:        "https://a/thumb",
		LargestThumbnailURL: "https://a/big",
		FormatURLs:          []string{"https://a/f1", "https://a/direct", "https://a/f2"},
	}
	want := []string{"https://a/direct", "https://a/thumb", "https://a/big", "https://a/f1", "https://a/f2"}
	if got := entry.Candidates(); !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}
