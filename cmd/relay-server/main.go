package main

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mediarelay/internal/adapters/gallerydl"
	"mediarelay/internal/adapters/subprocess"
	"mediarelay/internal/adapters/ytdlp"
	"mediarelay/internal/config"
	"mediarelay/internal/core/ports"
	"mediarelay/internal/execctx"
	"mediarelay/internal/history"
	"mediarelay/internal/metrics"
	"mediarelay/internal/server"
	"mediarelay/internal/service"
)

func main() {
	// Load .env if present; environment variables may be set directly.
	_ = godotenv.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	cfg := config.Load()

	resolver := execctx.New(execctx.Options{
		ProxyURL:        cfg.ProxyURL,
		ProxyHost:       cfg.ProxyHost,
		ProxyPort:       cfg.ProxyPort,
		ProxyUsername:   cfg.ProxyUsername,
		ProxyPassword:   cfg.ProxyPassword,
		SessionRotation: cfg.ProxySessionRotation,
		CookiesContent:  cfg.InstagramCookies,
	})

	runner := subprocess.New(cfg.ExtractorTimeout, subprocess.DefaultMaxOutput)
	extractors := []ports.Extractor{
		gallerydl.New(cfg.GalleryDLPath, runner),
		ytdlp.New(cfg.YtDlpPath, runner, cfg.InstagramSessionID),
	}

	logStartupDiagnostics(logger, cfg, resolver)

	orchestrator := service.NewOrchestrator(resolver, extractors, logger)

	var hist ports.History
	if cfg.HistoryDBPath != "" {
		store, err := history.Open(cfg.HistoryDBPath)
		if err != nil {
			logger.Fatalw("opening history store failed", "path", cfg.HistoryDBPath, "error", err)
		}
		defer store.Close()
		hist = store
	}

	srv := server.New(orchestrator, resolver, hist, metrics.New(), logger, cfg.AuthToken)

	go func() {
		logger.Infow("server starting", "port", cfg.Port)
		if err := srv.Listen(cfg.Port); err != nil {
			logger.Fatalw("server stopped", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		logger.Errorw("shutdown failed", "error", err)
	}
}

// logStartupDiagnostics reports tool availability and context resolvability
// once at boot. The core stays silent about these; diagnostics live at the
// boundary.
func logStartupDiagnostics(logger *zap.SugaredLogger, cfg *config.Config, resolver *execctx.Resolver) {
	for name, path := range map[string]string{
		gallerydl.DefaultBinary: cfg.GalleryDLPath,
		ytdlp.DefaultBinary:     cfg.YtDlpPath,
	} {
		if path == "" {
			path = name
		}
		if _, err := exec.LookPath(path); err != nil {
			logger.Warnw("extractor binary not found", "binary", path)
		} else {
			logger.Infow("extractor binary available", "binary", path)
		}
	}

	execCtx := resolver.Resolve("")
	logger.Infow("execution context",
		"proxy", execCtx.ProxyURL != "",
		"cookies", execCtx.CookiesFilePath != "",
		"sessionRotation", cfg.ProxySessionRotation)
}
