// Package server wires the extraction service to its HTTP surface.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mediarelay/internal/core/domain"
	"mediarelay/internal/core/ports"
	"mediarelay/internal/metrics"
)

// extractService is the orchestration contract the server depends on.
// Implemented by service.Orchestrator.
type extractService interface {
	Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResult, error)
}

// Server hosts the relay's HTTP API.
type Server struct {
	app      *fiber.App
	service  extractService
	resolver ports.ContextResolver
	history  ports.History // nil when history is disabled
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
	token    string
}

// New builds the fiber app and registers all routes.
func New(svc extractService, resolver ports.ContextResolver, hist ports.History, m *metrics.Metrics, logger *zap.SugaredLogger, authToken string) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Minute, // extractions can run up to two timeouts
			IdleTimeout:  30 * time.Second,
		}),
		service:  svc,
		resolver: resolver,
		history:  hist,
		metrics:  m,
		logger:   logger,
		token:    authToken,
	}

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	api := s.app.Group("/api", s.requireAuth)
	api.Post("/extract-social-post", s.handleExtract)
	api.Get("/history", s.handleHistory)

	return s
}

// Listen serves on the given port until Shutdown is called.
func (s *Server) Listen(port string) error {
	return s.app.Listen(":" + port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requireAuth checks the bearer token when one is configured.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	if s.token == "" {
		return c.Next()
	}
	header := c.Get(fiber.HeaderAuthorization)
	supplied, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(supplied), []byte(s.token)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or missing bearer token",
		})
	}
	return c.Next()
}

func (s *Server) handleExtract(c *fiber.Ctx) error {
	requestID := uuid.New().String()

	var req domain.ExtractionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"requestId": requestID,
			"error":     "invalid request payload",
		})
	}

	start := time.Now()
	result, err := s.service.Extract(c.Context(), req)
	elapsed := time.Since(start)
	platform := req.ResolvedPlatform()

	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			s.metrics.ObserveExtraction(platform, "", metrics.OutcomeInvalid, elapsed)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"requestId": requestID,
				"error":     validationErr.Error(),
			})
		}

		var exhaustedErr *domain.ExhaustedError
		if errors.As(err, &exhaustedErr) {
			s.metrics.ObserveExtraction(platform, "", metrics.OutcomeExhausted, elapsed)
			s.record(c.Context(), domain.HistoryRecord{
				RequestID: requestID,
				URL:       req.URL,
				Platform:  platform,
				Success:   false,
				Reason:    exhaustedErr.Error(),
				Duration:  elapsed,
			})
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"requestId": requestID,
				"error":     "no extractor produced media urls",
				"failures":  exhaustedErr.Failures,
			})
		}

		s.logger.Errorw("extraction failed unexpectedly", "requestId", requestID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"requestId": requestID,
			"error":     "internal error",
		})
	}

	s.metrics.ObserveExtraction(platform, result.Extractor, metrics.OutcomeSuccess, elapsed)
	s.record(c.Context(), domain.HistoryRecord{
		RequestID:  requestID,
		URL:        req.URL,
		Platform:   platform,
		Extractor:  result.Extractor,
		MediaCount: len(result.MediaURLs),
		Success:    true,
		Duration:   elapsed,
	})

	return c.JSON(fiber.Map{
		"requestId":   requestID,
		"title":       result.Title,
		"description": result.Description,
		"mediaUrls":   result.MediaURLs,
		"extractor":   result.Extractor,
		"attempts":    result.Attempts,
	})
}

// handleHealth reports whether proxy and cookies resolve without a
// request-specific session.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	execCtx := s.resolver.Resolve("")
	return c.JSON(fiber.Map{
		"status":  "ok",
		"proxy":   execCtx.ProxyURL != "",
		"cookies": execCtx.CookiesFilePath != "",
	})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	if s.history == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "history is disabled",
		})
	}
	limit := c.QueryInt("limit", 50)
	records, err := s.history.Recent(c.Context(), limit)
	if err != nil {
		s.logger.Errorw("history query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	return c.JSON(fiber.Map{"records": records})
}

// record appends to the history log when it is enabled. Log failures are
// not surfaced to the client.
func (s *Server) record(ctx context.Context, rec domain.HistoryRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.Warnw("recording extraction history failed", "requestId", rec.RequestID, "error", err)
	}
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}
