// Package gallerydl adapts the gallery-dl binary as the first-choice
// extractor. gallery-dl resolves gallery and post pages straight to direct
// media URLs, one per line.
package gallerydl

import (
	"context"

	"mediarelay/internal/core/domain"
	"mediarelay/internal/core/ports"
	"mediarelay/internal/normalize"
)

// DefaultBinary is used when no explicit path is configured. Assumes
// gallery-dl is in PATH.
const DefaultBinary = "gallery-dl"

// Extractor invokes the local gallery-dl binary.
type Extractor struct {
	binary string
	runner ports.Runner
}

// New creates a gallery-dl extractor. An empty binary selects DefaultBinary.
func New(binary string, runner ports.Runner) *Extractor {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Extractor{binary: binary, runner: runner}
}

func (e *Extractor) Name() domain.ExtractorName {
	return domain.ExtractorGalleryDL
}

// Extract requests raw media URLs only (-g, no download). gallery-dl never
// produces title or description on this path.
func (e *Extractor) Extract(ctx context.Context, postURL string, platform domain.Platform, execCtx domain.ExecutionContext) (*ports.ExtractOutput, error) {
	args := []string{"-g"}
	if execCtx.ProxyURL != "" {
		args = append(args, "--proxy", execCtx.ProxyURL)
	}
	if platform.RequiresCookies() && execCtx.CookiesFilePath != "" {
		args = append(args, "--cookies", execCtx.CookiesFilePath)
	}
	args = append(args, postURL)

	stdout, _, err := e.runner.Run(ctx, e.binary, args)
	if err != nil {
		return nil, err
	}
	return &ports.ExtractOutput{MediaURLs: normalize.GalleryLines(stdout)}, nil
}
