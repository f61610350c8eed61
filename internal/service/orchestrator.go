package service

import (
	"context"

	"go.uber.org/zap"

	"mediarelay/internal/core/domain"
	"mediarelay/internal/core/ports"
)

// Orchestrator runs the ordered extractor strategies for one request:
// gallery-dl first, yt-dlp as the fallback. The first extractor that yields
// at least one media URL wins; failure of an earlier extractor never aborts
// the request.
type Orchestrator struct {
	resolver   ports.ContextResolver
	extractors []ports.Extractor
	logger     *zap.SugaredLogger
}

// NewOrchestrator creates an Orchestrator. Extractors are attempted in the
// given order, each at most once per request.
func NewOrchestrator(resolver ports.ContextResolver, extractors []ports.Extractor, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		resolver:   resolver,
		extractors: extractors,
		logger:     logger,
	}
}

// Extract validates the request, resolves the execution context and walks
// the extractor list until one produces media URLs. When every extractor
// fails or comes back empty, the returned error is a *domain.ExhaustedError
// carrying the ordered failure reasons.
func (o *Orchestrator) Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResult, error) {
	if req.URL == "" {
		return nil, &domain.ValidationError{Field: "url", Message: "url is required"}
	}
	if !domain.IsHTTPURL(req.URL) {
		return nil, &domain.ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}

	platform := req.ResolvedPlatform()
	if !platform.Supported() {
		return nil, &domain.ValidationError{Field: "platform", Message: "unsupported platform: " + string(platform)}
	}

	execCtx := o.resolver.Resolve(req.SessionID)
	o.logger.Infow("starting extraction",
		"url", req.URL,
		"platform", platform,
		"proxy", execCtx.ProxyURL != "",
		"cookies", execCtx.CookiesFilePath != "")

	var failures []domain.ExtractionFailure
	for _, extractor := range o.extractors {
		out, err := extractor.Extract(ctx, req.URL, platform, execCtx)
		if err != nil {
			o.logger.Warnw("extractor failed",
				"extractor", extractor.Name(),
				"url", req.URL,
				"error", err)
			failures = append(failures, domain.ExtractionFailure{
				Source: extractor.Name(),
				Reason: err.Error(),
			})
			continue
		}
		if len(out.MediaURLs) == 0 {
			o.logger.Warnw("extractor returned no media",
				"extractor", extractor.Name(),
				"url", req.URL)
			failures = append(failures, domain.ExtractionFailure{
				Source: extractor.Name(),
				Reason: "no media urls found",
			})
			continue
		}

		o.logger.Infow("extraction succeeded",
			"extractor", extractor.Name(),
			"url", req.URL,
			"mediaCount", len(out.MediaURLs))
		return &domain.ExtractionResult{
			Title:       out.Title,
			Description: out.Description,
			MediaURLs:   out.MediaURLs,
			Extractor:   extractor.Name(),
			Attempts:    1,
		}, nil
	}

	return nil, &domain.ExhaustedError{Failures: failures}
}
