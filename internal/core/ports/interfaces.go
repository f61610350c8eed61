package ports

import (
	"context"

	"mediarelay/internal/core/domain"
)

// ExtractOutput holds one extractor's normalized output. MediaURLs may be
// empty; the orchestrator decides whether that counts as a failure.
type ExtractOutput struct {
	Title       string
	Description string
	MediaURLs   []string
}

// Extractor defines the contract for resolving a post URL to direct media
// URLs through an external CLI tool.
type Extractor interface {
	// Name identifies the tool for logging and failure attribution.
	Name() domain.ExtractorName

	// Extract invokes the tool for the given post URL with the supplied
	// execution context and returns its normalized output.
	Extract(ctx context.Context, postURL string, platform domain.Platform, execCtx domain.ExecutionContext) (*ExtractOutput, error)
}

// Runner defines the contract for invoking an external binary with bounded
// runtime and captured output.
type Runner interface {
	// Run executes the binary and returns captured stdout and stderr.
	// Failures (non-zero exit, signal, timeout, oversized output) are
	// returned as *subprocess.ExecError values.
	Run(ctx context.Context, binary string, args []string) (stdout, stderr []byte, err error)
}

// ContextResolver builds the per-request execution context from
// configuration and cached state. Resolution never fails; absence of proxy
// or cookies is a valid state.
type ContextResolver interface {
	Resolve(sessionID string) domain.ExecutionContext
}

// History defines the contract for the persisted extraction log.
type History interface {
	Record(ctx context.Context, rec domain.HistoryRecord) error
	Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Close() error
}
