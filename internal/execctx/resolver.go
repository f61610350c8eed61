// Package execctx builds the per-request execution context: the proxy
// endpoint (optionally session-bound) and the cookie file injected into
// extractor subprocesses.
package execctx

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mediarelay/internal/core/domain"
)

const (
	// Name of the cookie file looked up in the working directory.
	localCookiesFile = "cookies.txt"
	// Name of the lazily materialized cookie file under the temp dir.
	tempCookiesFile = "mediarelay-cookies.txt"
)

// Options carries the configuration consumed by the resolver.
type Options struct {
	// ProxyURL is a fully-formed proxy URL used verbatim when set.
	ProxyURL string
	// Host/port/username/password quadruple used to synthesize a proxy URL
	// when ProxyURL is empty. All four must be present; otherwise no proxy
	// is used.
	ProxyHost     string
	ProxyPort     string
	ProxyUsername string
	ProxyPassword string
	// SessionRotation appends a per-session suffix to the proxy username so
	// the upstream provider pins the request to a sticky session.
	SessionRotation bool
	// CookiesContent is inline cookie text written once to a temp file.
	CookiesContent string
	// TempDir overrides os.TempDir, used by tests.
	TempDir string
}

// Resolver derives an ExecutionContext per request. Safe for concurrent
// use; the temp cookie file is written at most once per process lifetime.
type Resolver struct {
	opts Options

	mu         sync.Mutex
	cookiePath string

	writeFile func(name string, data []byte, perm os.FileMode) error
}

// New creates a Resolver with the given options.
func New(opts Options) *Resolver {
	return &Resolver{opts: opts, writeFile: os.WriteFile}
}

// Resolve builds the execution context for one request. It never fails;
// missing proxy or cookie configuration simply yields empty fields.
func (r *Resolver) Resolve(sessionID string) domain.ExecutionContext {
	return domain.ExecutionContext{
		ProxyURL:        r.proxyURL(sessionID),
		CookiesFilePath: r.cookiesFile(),
		SessionID:       sessionID,
	}
}

func (r *Resolver) proxyURL(sessionID string) string {
	if r.opts.ProxyURL != "" {
		return r.opts.ProxyURL
	}
	o := r.opts
	if o.ProxyHost == "" || o.ProxyPort == "" || o.ProxyUsername == "" || o.ProxyPassword == "" {
		return ""
	}

	username := o.ProxyUsername
	// Guard against double-appending when the configured username already
	// carries a session marker.
	if o.SessionRotation && sessionID != "" && !strings.Contains(username, "session-") {
		username = username + "-session-" + sessionID
	}

	u := url.URL{
		Scheme: "http",
		User:   url.UserPassword(username, o.ProxyPassword),
		Host:   o.ProxyHost + ":" + o.ProxyPort,
	}
	return u.String()
}

// cookiesFile resolves the cookie file path, first match wins: the cached
// temp file if it still exists on disk, a cookies.txt in the working
// directory, or inline content materialized once to a fixed temp path.
func (r *Resolver) cookiesFile() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cookiePath != "" {
		if _, err := os.Stat(r.cookiePath); err == nil {
			return r.cookiePath
		}
		r.cookiePath = ""
	}

	if _, err := os.Stat(localCookiesFile); err == nil {
		return localCookiesFile
	}

	if r.opts.CookiesContent == "" {
		return ""
	}

	path := filepath.Join(r.tempDir(), tempCookiesFile)
	if err := r.writeFile(path, []byte(r.opts.CookiesContent), 0o600); err != nil {
		return ""
	}
	r.cookiePath = path
	return path
}

func (r *Resolver) tempDir() string {
	if r.opts.TempDir != "" {
		return r.opts.TempDir
	}
	return os.TempDir()
}
