package analyzer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/copyscore/backend/stats"
	"github.com/copyscore/backend/textscore"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Defaults used when Options leaves a field at its zero value
const (
	DefaultCacheSize       = 1000
	DefaultCacheTTL        = 30 * time.Minute
	DefaultMaxContentBytes = 1 << 20
	DefaultSummaryLength   = 200
)

// Recommendation thresholds
const (
	minWordCount         = 50
	minReadingEase       = 60
	maxGradeLevel        = 9
	maxAvgSentenceLength = 20
	maxComplexWordPct    = 15
)

// Options configures an Analyzer
type Options struct {
	CacheSize       int
	CacheTTL        time.Duration
	MaxContentBytes int
	DataDir         string
	Scorer          *textscore.Scorer
	Logger          *log.Logger
}

// Analyzer scores marketing and email copy, memoizing results
type Analyzer struct {
	scorer          *textscore.Scorer
	cache           *expirable.LRU[string, *ContentAnalysis]
	cacheSize       int
	cacheTTL        time.Duration
	maxContentBytes int
	stats           *stats.Storage
	logger          *log.Logger
}

// New creates a new Analyzer instance
func New(opts Options) (*Analyzer, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.MaxContentBytes <= 0 {
		opts.MaxContentBytes = DefaultMaxContentBytes
	}
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	if opts.Scorer == nil {
		opts.Scorer = textscore.NewScorer()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	statsStorage, err := stats.NewStorage(opts.DataDir, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats storage: %w", err)
	}

	return &Analyzer{
		scorer:          opts.Scorer,
		cache:           expirable.NewLRU[string, *ContentAnalysis](opts.CacheSize, nil, opts.CacheTTL),
		cacheSize:       opts.CacheSize,
		cacheTTL:        opts.CacheTTL,
		maxContentBytes: opts.MaxContentBytes,
		stats:           statsStorage,
		logger:          opts.Logger,
	}, nil
}

// normalizeRequest fills in the format and keyword count defaults
func normalizeRequest(req Request, defaultKeywords int) (Request, error) {
	switch strings.ToLower(strings.TrimSpace(req.Format)) {
	case "", FormatText:
		req.Format = FormatText
	case FormatHTML:
		req.Format = FormatHTML
	default:
		return req, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	if req.MaxKeywords <= 0 {
		req.MaxKeywords = defaultKeywords
	}
	return req, nil
}

// resolve fills in request defaults and validates it
func (a *Analyzer) resolve(req Request) (Request, error) {
	req, err := normalizeRequest(req, a.scorer.MaxKeywords())
	if err != nil {
		return req, err
	}
	if len(req.Content) > a.maxContentBytes {
		return req, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrContentTooLarge, len(req.Content), a.maxContentBytes)
	}
	return req, nil
}

// generateCacheKey creates a unique key for a resolved request
func generateCacheKey(req Request) string {
	hash := md5.New()
	hash.Write([]byte(req.Format))
	hash.Write([]byte{0})
	hash.Write([]byte(strconv.Itoa(req.MaxKeywords)))
	hash.Write([]byte{0})
	hash.Write([]byte(req.Content))
	return hex.EncodeToString(hash.Sum(nil))
}

// Analyze scores the request content. Results are cached by format,
// keyword count and content. Every call returns its own copy, so callers
// may modify the result without affecting the cache.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*ContentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req, err := a.resolve(req)
	if err != nil {
		return nil, err
	}

	cacheKey := generateCacheKey(req)
	if analysis, found := a.cache.Get(cacheKey); found {
		a.stats.IncrementStats(1, 0, 0, 0)
		a.logger.Debug("Served analysis from cache", "key", cacheKey)
		return analysis.clone(), nil
	}
	a.stats.IncrementStats(0, 1, 0, 0)

	start := time.Now()
	analysis, err := evaluate(ctx, a.scorer, req)
	if err != nil {
		return nil, err
	}

	a.cache.Add(cacheKey, analysis)
	a.stats.IncrementStats(0, 0, 1, analysis.Statistics.Words)

	a.logger.Debug("Scored content",
		"format", req.Format,
		"words", analysis.Statistics.Words,
		"spamScore", analysis.Spam.Score,
		"elapsed", time.Since(start))

	return analysis.clone(), nil
}

// Evaluate scores a request without caching, size limits or usage
// statistics. A nil scorer uses the defaults.
func Evaluate(ctx context.Context, scorer *textscore.Scorer, req Request) (*ContentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scorer == nil {
		scorer = textscore.NewScorer()
	}
	req, err := normalizeRequest(req, scorer.MaxKeywords())
	if err != nil {
		return nil, err
	}
	return evaluate(ctx, scorer, req)
}

func evaluate(ctx context.Context, scorer *textscore.Scorer, req Request) (*ContentAnalysis, error) {
	text := req.Content
	var links []string
	if req.Format == FormatHTML {
		var err error
		text, links, err = extractHTML(req.Content)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	textLinks := textscore.ExtractURLs(text)
	analysis := &ContentAnalysis{
		Format:         req.Format,
		Statistics:     scorer.ScoreText(text),
		Keywords:       textscore.ExtractKeywords(text, req.MaxKeywords),
		SentimentScore: textscore.SentimentScore(text),
		Hashtags:       textscore.ExtractHashtags(text),
		Mentions:       textscore.ExtractMentions(text),
		URLs:           mergeLinks(slices.Clone(textLinks), links),
		Summary:        textscore.Summarize(text, DefaultSummaryLength),
	}

	// Anchor targets already visible in the text are counted once.
	spamInput := text
	if hidden := analysis.URLs[len(textLinks):]; len(hidden) > 0 {
		spamInput += "\n" + strings.Join(hidden, "\n")
	}
	analysis.Spam = textscore.CheckSpam(spamInput)

	if r := analysis.Statistics.Readability; r != nil {
		analysis.ReadingLevel = textscore.ReadingLevel(r.FleschReadingEase)
	}
	analysis.Recommendations = generateRecommendations(analysis)

	return analysis, nil
}

// mergeLinks appends anchor links not already present in the text links
func mergeLinks(textLinks, anchorLinks []string) []string {
	seen := make(map[string]bool, len(textLinks))
	for _, l := range textLinks {
		seen[l] = true
	}
	for _, l := range anchorLinks {
		if !seen[l] {
			seen[l] = true
			textLinks = append(textLinks, l)
		}
	}
	return textLinks
}

func generateRecommendations(analysis *ContentAnalysis) []string {
	recommendations := []string{}
	st := analysis.Statistics

	// Length recommendations
	if st.Words == 0 {
		return append(recommendations, "Add some copy to score")
	}
	if st.Words < minWordCount {
		recommendations = append(recommendations,
			fmt.Sprintf("Copy is short (%d words); aim for at least %d words", st.Words, minWordCount))
	}

	// Readability recommendations
	if r := st.Readability; r == nil {
		recommendations = append(recommendations, "Readability could not be scored; add complete sentences")
	} else {
		if r.FleschReadingEase < minReadingEase {
			recommendations = append(recommendations,
				fmt.Sprintf("Simplify wording: reading ease is %.2f (aim for %d or higher)", r.FleschReadingEase, minReadingEase))
		}
		if r.FleschKincaidGrade > maxGradeLevel {
			recommendations = append(recommendations,
				fmt.Sprintf("Lower the grade level: copy reads at grade %.1f (aim for %d or below)", r.FleschKincaidGrade, maxGradeLevel))
		}
		if r.AvgSentenceLength > maxAvgSentenceLength {
			recommendations = append(recommendations,
				fmt.Sprintf("Shorten sentences: average length is %.1f words (aim for %d or fewer)", r.AvgSentenceLength, maxAvgSentenceLength))
		}
		if r.ComplexWordPct > maxComplexWordPct {
			recommendations = append(recommendations,
				fmt.Sprintf("Replace long words: %.2f%% of words have three or more syllables", r.ComplexWordPct))
		}
	}

	// Spam recommendations
	if analysis.Spam.IsLikelySpam {
		recommendations = append(recommendations,
			"Likely to be flagged as spam: "+strings.Join(analysis.Spam.Indicators, ", "))
	} else if len(analysis.Spam.Indicators) > 0 {
		recommendations = append(recommendations,
			"Review possible spam indicators: "+strings.Join(analysis.Spam.Indicators, ", "))
	}

	// Tone recommendations
	if analysis.SentimentScore.Label == "negative" {
		recommendations = append(recommendations, "Tone reads negative; consider more positive wording")
	}

	return recommendations
}

// ClearCache clears the analysis cache
func (a *Analyzer) ClearCache() {
	a.cache.Purge()
}

// IsCached checks if a request has an unexpired cached result
func (a *Analyzer) IsCached(req Request) bool {
	req, err := a.resolve(req)
	if err != nil {
		return false
	}
	_, found := a.cache.Peek(generateCacheKey(req))
	return found
}

// GetCacheStats returns statistics about the cache
func (a *Analyzer) GetCacheStats() CacheStats {
	current := a.stats.GetCurrentStats()

	return CacheStats{
		Entries:         a.cache.Len(),
		Capacity:        a.cacheSize,
		TTL:             a.cacheTTL,
		CacheHits:       current.CacheHits,
		CacheMisses:     current.CacheMisses,
		DocumentsScored: current.DocumentsScored,
		WordsScored:     current.WordsScored,
	}
}

// GetStats returns the statistics storage instance
func (a *Analyzer) GetStats() *stats.Storage {
	return a.stats
}

// Shutdown ensures all statistics are saved and drops cached results
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}

	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}
	a.cache.Purge()

	return nil
}
