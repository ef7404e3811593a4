package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/copyscore/backend/logging"
	"github.com/gin-gonic/gin"
)

// saveEvery is the number of tracked requests between statistics saves
const saveEvery = 100

// StatsMiddleware tracks visitors and the latency and outcome of scoring requests
func StatsMiddleware(stats *logging.Statistics, logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		// Only track scoring requests
		route := c.FullPath()
		if c.Request.Method != http.MethodPost || !strings.HasPrefix(route, "/api/") {
			return
		}

		status := c.Writer.Status()
		loadTime := float64(time.Since(start).Microseconds()) / 1000
		stats.TrackRequest(route, loadTime, status >= http.StatusBadRequest)

		logger.Debug("Scoring request",
			"ip", c.ClientIP(),
			"path", route,
			"status", status,
			"ms", loadTime)

		if stats.Requests()%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					logger.Error("Failed to save request statistics", "err", err)
				}
			}()
		}
	}
}
