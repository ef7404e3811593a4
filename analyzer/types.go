package analyzer

import (
	"errors"
	"slices"
	"time"

	"github.com/copyscore/backend/textscore"
)

// Supported content formats
const (
	FormatText = "text"
	FormatHTML = "html"
)

var (
	// ErrContentTooLarge is returned when the content exceeds the configured size limit.
	ErrContentTooLarge = errors.New("content too large")
	// ErrUnsupportedFormat is returned for formats other than text and html.
	ErrUnsupportedFormat = errors.New("unsupported content format")
)

// Request describes one piece of copy to score
type Request struct {
	Content     string `json:"content"`
	Format      string `json:"format,omitempty"`
	MaxKeywords int    `json:"maxKeywords,omitempty"`
}

// ContentAnalysis represents the complete quality report of a piece of copy
type ContentAnalysis struct {
	Format          string                   `json:"format"`
	Statistics      textscore.TextStatistics `json:"statistics"`
	ReadingLevel    string                   `json:"readingLevel,omitempty"`
	Keywords        []string                 `json:"keywords"`
	SentimentScore  textscore.Sentiment      `json:"sentimentScore"`
	Spam            textscore.SpamReport     `json:"spam"`
	Hashtags        []string                 `json:"hashtags"`
	Mentions        []string                 `json:"mentions"`
	URLs            []string                 `json:"urls"`
	Summary         string                   `json:"summary"`
	Recommendations []string                 `json:"recommendations"`
}

// clone copies the analysis deeply enough that no slice or pointer is
// shared with the original.
func (c *ContentAnalysis) clone() *ContentAnalysis {
	out := *c
	if c.Statistics.Readability != nil {
		readability := *c.Statistics.Readability
		out.Statistics.Readability = &readability
	}
	out.Statistics.Sentiment.Positive = slices.Clone(c.Statistics.Sentiment.Positive)
	out.Statistics.Sentiment.Negative = slices.Clone(c.Statistics.Sentiment.Negative)
	out.Keywords = slices.Clone(c.Keywords)
	out.Spam.Indicators = slices.Clone(c.Spam.Indicators)
	out.Hashtags = slices.Clone(c.Hashtags)
	out.Mentions = slices.Clone(c.Mentions)
	out.URLs = slices.Clone(c.URLs)
	out.Recommendations = slices.Clone(c.Recommendations)
	return &out
}

// CacheStats provides statistics about the analyzer's result cache
type CacheStats struct {
	Entries         int           `json:"entries"`
	Capacity        int           `json:"capacity"`
	TTL             time.Duration `json:"ttl"`
	CacheHits       int           `json:"cacheHits"`
	CacheMisses     int           `json:"cacheMisses"`
	DocumentsScored int           `json:"documentsScored"`
	WordsScored     int           `json:"wordsScored"`
}
