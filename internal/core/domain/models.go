package domain

import (
	"net/url"
	"strings"
	"time"
)

// Platform identifies the social network a post URL belongs to.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformUnknown   Platform = "unknown"
)

// Supported reports whether the platform is accepted by the public API.
// Only Instagram and TikTok posts are handled; everything else is rejected
// before any extractor runs.
func (p Platform) Supported() bool {
	return p == PlatformInstagram || p == PlatformTikTok
}

// RequiresCookies reports whether extractions for this platform should carry
// authenticated session state. Instagram blocks anonymous access to most
// post pages.
func (p Platform) RequiresCookies() bool {
	return p == PlatformInstagram
}

// DetectPlatform derives the platform from the URL's domain by substring
// match. Unmatched URLs map to PlatformUnknown.
func DetectPlatform(rawURL string) Platform {
	lowerURL := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lowerURL, "instagram.com"):
		return PlatformInstagram
	case strings.Contains(lowerURL, "tiktok.com"):
		return PlatformTikTok
	case strings.Contains(lowerURL, "youtube.com"), strings.Contains(lowerURL, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(lowerURL, "twitter.com"), strings.Contains(lowerURL, "x.com"):
		return PlatformTwitter
	default:
		return PlatformUnknown
	}
}

// IsHTTPURL reports whether s is a well-formed absolute http(s) URL.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ExtractorName identifies one of the two external extraction tools.
type ExtractorName string

const (
	ExtractorGalleryDL ExtractorName = "gallery-dl"
	ExtractorYtDlp     ExtractorName = "yt-dlp"
)

// ExtractionRequest is the inbound request for a single post extraction.
type ExtractionRequest struct {
	URL       string   `json:"url"`
	Platform  Platform `json:"platform,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
}

// ResolvedPlatform returns the explicit platform when one was supplied,
// otherwise the platform derived from the URL.
func (r ExtractionRequest) ResolvedPlatform() Platform {
	if r.Platform != "" && r.Platform != PlatformUnknown {
		return r.Platform
	}
	return DetectPlatform(r.URL)
}

// ExecutionContext is the per-request bundle of proxy and cookie settings
// injected into each subprocess invocation. Immutable after construction.
type ExecutionContext struct {
	ProxyURL        string
	CookiesFilePath string
	SessionID       string
}

// ExtractionResult is the successful outcome of an extraction.
// MediaURLs holds only well-formed absolute http(s) URLs, deduplicated in
// first-occurrence order.
type ExtractionResult struct {
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	MediaURLs   []string      `json:"mediaUrls"`
	Extractor   ExtractorName `json:"extractor"`
	Attempts    int           `json:"attempts"`
}

// ExtractionFailure records why one extractor produced no usable result.
type ExtractionFailure struct {
	Source ExtractorName `json:"source"`
	Reason string        `json:"reason"`
}

// HistoryRecord is one row of the persisted extraction log.
type HistoryRecord struct {
	RequestID  string        `json:"requestId"`
	URL        string        `json:"url"`
	Platform   Platform      `json:"platform"`
	Extractor  ExtractorName `json:"extractor,omitempty"`
	MediaCount int           `json:"mediaCount"`
	Success    bool          `json:"success"`
	Reason     string        `json:"reason,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"createdAt"`
}
