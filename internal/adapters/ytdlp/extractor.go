// Package ytdlp adapts the yt-dlp binary as the general-purpose fallback
// extractor. yt-dlp emits a JSON document per invocation which is normalized
// into a flat media-URL list.
package ytdlp

import (
	"context"

	"mediarelay/internal/core/domain"
	"mediarelay/internal/core/ports"
	"mediarelay/internal/normalize"
)

// DefaultBinary is used when no explicit path is configured. Assumes yt-dlp
// is in PATH.
const DefaultBinary = "yt-dlp"

// Extractor invokes the local yt-dlp binary.
type Extractor struct {
	binary string
	runner ports.Runner
	// sessionSecret is the Instagram sessionid cookie value injected as an
	// explicit header when configured.
	sessionSecret string
}

// New creates a yt-dlp extractor. An empty binary selects DefaultBinary.
func New(binary string, runner ports.Runner, sessionSecret string) *Extractor {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Extractor{binary: binary, runner: runner, sessionSecret: sessionSecret}
}

func (e *Extractor) Name() domain.ExtractorName {
	return domain.ExtractorYtDlp
}

// Extract dumps the post's metadata as a single JSON document and normalizes
// it. Nothing is downloaded.
func (e *Extractor) Extract(ctx context.Context, postURL string, platform domain.Platform, execCtx domain.ExecutionContext) (*ports.ExtractOutput, error) {
	args := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-warnings",
		"--ignore-errors",
	}
	if execCtx.ProxyURL != "" {
		args = append(args, "--proxy", execCtx.ProxyURL)
	}
	if platform.RequiresCookies() {
		if execCtx.CookiesFilePath != "" {
			args = append(args, "--cookies", execCtx.CookiesFilePath)
		}
		if e.sessionSecret != "" {
			args = append(args, "--add-headers", "Cookie:sessionid="+e.sessionSecret)
		}
	}
	args = append(args, postURL)

	stdout, _, err := e.runner.Run(ctx, e.binary, args)
	if err != nil {
		return nil, err
	}

	info, err := normalize.InfoJSON(stdout)
	if err != nil {
		return nil, err
	}
	return &ports.ExtractOutput{
		Title:       info.Title,
		Description: info.Description,
		MediaURLs:   info.MediaURLs,
	}, nil
}
