package api

import (
	"errors"
	"net/http"

	"github.com/copyscore/backend/analyzer"
	"github.com/copyscore/backend/textscore"
	"github.com/gin-gonic/gin"
)

type scoreRequest struct {
	Content     string `json:"content"`
	Format      string `json:"format"`
	MaxKeywords int    `json:"maxKeywords" binding:"min=0,max=50"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type keywordsRequest struct {
	Content     string `json:"content"`
	MaxKeywords int    `json:"maxKeywords" binding:"min=0,max=50"`
}

func (h *Handler) health(c *gin.Context) {
	h.logger.Debug("Health check", "ip", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (h *Handler) score(c *gin.Context) {
	var request scoreRequest
	if !h.bind(c, &request) {
		return
	}

	analysis, err := h.analyzer.Analyze(c.Request.Context(), analyzer.Request{
		Content:     request.Content,
		Format:      request.Format,
		MaxKeywords: request.MaxKeywords,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) scoreText(c *gin.Context) {
	var request contentRequest
	if !h.bind(c, &request) || !h.checkSize(c, request.Content) {
		return
	}

	c.JSON(http.StatusOK, h.scorer.ScoreText(request.Content))
}

func (h *Handler) keywords(c *gin.Context) {
	var request keywordsRequest
	if !h.bind(c, &request) || !h.checkSize(c, request.Content) {
		return
	}

	n := request.MaxKeywords
	if n == 0 {
		n = h.scorer.MaxKeywords()
	}
	c.JSON(http.StatusOK, gin.H{
		"keywords": textscore.ExtractKeywords(request.Content, n),
	})
}

func (h *Handler) spam(c *gin.Context) {
	var request contentRequest
	if !h.bind(c, &request) || !h.checkSize(c, request.Content) {
		return
	}

	c.JSON(http.StatusOK, textscore.CheckSpam(request.Content))
}

func (h *Handler) statistics(c *gin.Context) {
	response := gin.H{}
	if h.stats != nil {
		for k, v := range h.stats.GetStatistics() {
			response[k] = v
		}
	}
	if h.analyzer != nil {
		response["cache"] = h.analyzer.GetCacheStats()
	}
	c.JSON(http.StatusOK, response)
}

// bind decodes the JSON body, answering 413 for oversized bodies and 400
// for malformed ones. It reports whether the handler should continue.
func (h *Handler) bind(c *gin.Context, obj any) bool {
	// JSON escaping can grow content, so the body limit leaves headroom
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.maxContentBytes)*2+4096)

	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(c, analyzer.ErrContentTooLarge)
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return false
	}
	return true
}

func (h *Handler) checkSize(c *gin.Context, content string) bool {
	if len(content) > h.maxContentBytes {
		h.writeError(c, analyzer.ErrContentTooLarge)
		return false
	}
	return true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analyzer.ErrContentTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Content is too large",
		})
	case errors.Is(err, analyzer.ErrUnsupportedFormat):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{
			"error": "Unsupported content format, use \"text\" or \"html\"",
		})
	default:
		h.logger.Error("Failed to score content", "ip", c.ClientIP(), "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to score content",
		})
	}
}
