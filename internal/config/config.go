// Package config loads the relay configuration from environment variables.
// A .env file is honored when present (loaded by the caller via godotenv);
// nothing here is required — missing proxy or cookie settings simply disable
// those features.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all relay configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// AuthToken is the expected bearer token. Empty disables auth.
	AuthToken string

	// Proxy settings. ProxyURL wins over the quadruple when both are set.
	ProxyURL             string
	ProxyHost            string
	ProxyPort            string
	ProxyUsername        string
	ProxyPassword        string
	ProxySessionRotation bool

	// InstagramCookies is inline cookie-file content (Netscape format)
	// materialized to a temp file on first use.
	InstagramCookies string
	// InstagramSessionID is the sessionid cookie value passed to yt-dlp as
	// an explicit header.
	InstagramSessionID string

	// Binary paths for the two extraction tools. Empty means look up in
	// PATH under the default name.
	GalleryDLPath string
	YtDlpPath     string

	// ExtractorTimeout bounds one extractor invocation.
	ExtractorTimeout time.Duration

	// HistoryDBPath points at the SQLite extraction log. Empty disables
	// history.
	HistoryDBPath string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:                 getenv("PORT", "8080"),
		AuthToken:            os.Getenv("API_AUTH_TOKEN"),
		ProxyURL:             os.Getenv("PROXY_URL"),
		ProxyHost:            os.Getenv("PROXY_HOST"),
		ProxyPort:            os.Getenv("PROXY_PORT"),
		ProxyUsername:        os.Getenv("PROXY_USERNAME"),
		ProxyPassword:        os.Getenv("PROXY_PASSWORD"),
		ProxySessionRotation: getbool("PROXY_SESSION_ROTATION", false),
		InstagramCookies:     os.Getenv("INSTAGRAM_COOKIES_CONTENT"),
		InstagramSessionID:   os.Getenv("INSTAGRAM_SESSION_ID"),
		GalleryDLPath:        os.Getenv("GALLERY_DL_PATH"),
		YtDlpPath:            os.Getenv("YT_DLP_PATH"),
		ExtractorTimeout:     getduration("EXTRACTOR_TIMEOUT", 2*time.Minute),
		HistoryDBPath:        os.Getenv("HISTORY_DB_PATH"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
