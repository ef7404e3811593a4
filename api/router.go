// Package api exposes the content scoring service over HTTP.
package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/copyscore/backend/analyzer"
	"github.com/copyscore/backend/logging"
	"github.com/copyscore/backend/middleware"
	"github.com/copyscore/backend/textscore"
	"github.com/gin-gonic/gin"
)

// Handler serves the scoring endpoints
type Handler struct {
	analyzer        *analyzer.Analyzer
	scorer          *textscore.Scorer
	stats           *logging.Statistics
	logger          *log.Logger
	maxContentBytes int
}

// NewHandler wires the scoring endpoints to their services. A nil scorer
// or logger falls back to the defaults.
func NewHandler(a *analyzer.Analyzer, scorer *textscore.Scorer, stats *logging.Statistics, logger *log.Logger, maxContentBytes int) *Handler {
	if scorer == nil {
		scorer = textscore.NewScorer()
	}
	if logger == nil {
		logger = log.Default()
	}
	if maxContentBytes <= 0 {
		maxContentBytes = analyzer.DefaultMaxContentBytes
	}
	return &Handler{
		analyzer:        a,
		scorer:          scorer,
		stats:           stats,
		logger:          logger,
		maxContentBytes: maxContentBytes,
	}
}

// NewRouter builds the gin engine with middleware and routes. A nil
// limiter disables rate limiting.
func NewRouter(h *Handler, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(middleware.ErrorHandler(h.logger))
	if limiter != nil {
		r.Use(limiter.RateLimit())
	}
	r.Use(cors())
	if h.stats != nil {
		r.Use(middleware.StatsMiddleware(h.stats, h.logger))
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.health)

		// Scoring endpoints
		api.POST("/score", h.score)
		api.POST("/score/text", h.scoreText)
		api.POST("/keywords", h.keywords)
		api.POST("/spam", h.spam)

		api.GET("/statistics", h.statistics)
	}

	return r
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
