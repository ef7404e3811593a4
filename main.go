package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/copyscore/backend/analyzer"
	"github.com/copyscore/backend/api"
	"github.com/copyscore/backend/config"
	"github.com/copyscore/backend/logging"
	"github.com/copyscore/backend/middleware"
	"github.com/copyscore/backend/textscore"
)

// retainMonths is how many months of usage statistics are kept on disk
const retainMonths = 12

func newScorer(cfg config.Config, logger *log.Logger) *textscore.Scorer {
	opts := []textscore.Option{
		textscore.WithMaxKeywords(cfg.MaxKeywords),
		textscore.WithWordsPerMinute(cfg.WordsPerMinute),
	}
	if cfg.SyllableDict != "" {
		dict, err := textscore.LoadSyllableDictionary(cfg.SyllableDict)
		if err != nil {
			logger.Warn("Falling back to heuristic syllable counting", "path", cfg.SyllableDict, "err", err)
		} else {
			logger.Info("Loaded syllable dictionary", "path", cfg.SyllableDict, "entries", dict.Len())
			opts = append(opts, textscore.WithSyllableCounter(dict.Count))
		}
	}
	return textscore.NewScorer(opts...)
}

func main() {
	envLoaded := config.LoadEnv()

	cfg, err := config.Load()
	logger := logging.New(logging.Options{Debug: cfg.Debug})
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}
	if !envLoaded {
		logger.Info("No .env file found, using environment variables")
	}

	gin.SetMode(cfg.GinMode)

	scorer := newScorer(cfg, logger)

	contentAnalyzer, err := analyzer.New(analyzer.Options{
		CacheSize:       cfg.CacheSize,
		CacheTTL:        cfg.CacheTTL,
		MaxContentBytes: cfg.MaxContentBytes,
		DataDir:         cfg.DataDir,
		Scorer:          scorer,
		Logger:          logger,
	})
	if err != nil {
		logger.Fatal("Failed to initialize analyzer", "err", err)
	}
	contentAnalyzer.GetStats().Cleanup(retainMonths)

	stats, err := logging.NewStatistics(filepath.Join(cfg.DataDir, "requests.json"), cfg.DevMode)
	if err != nil {
		logger.Warn("Starting with empty request statistics", "err", err)
	}

	handler := api.NewHandler(contentAnalyzer, scorer, stats, logger, cfg.MaxContentBytes)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handler, rateLimiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
	if err := stats.Save(); err != nil {
		logger.Error("Failed to save request statistics", "err", err)
	}
	if err := contentAnalyzer.Shutdown(); err != nil {
		logger.Error("Failed to shutdown analyzer", "err", err)
	}
}
