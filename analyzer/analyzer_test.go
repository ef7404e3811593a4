package analyzer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/copyscore/backend/stats"
	"github.com/copyscore/backend/textscore"
)

func newTestAnalyzer(t *testing.T, opts Options) *Analyzer {
	t.Helper()
	if opts.DataDir == "" {
		opts.DataDir = t.TempDir()
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	t.Cleanup(func() { a.Shutdown() })
	return a
}

func TestAnalyzePlainText(t *testing.T) {
	a := newTestAnalyzer(t, Options{})

	analysis, err := a.Analyze(context.Background(), Request{Content: "The cat sat."})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Format != FormatText {
		t.Errorf("Expected format %q, got %q", FormatText, analysis.Format)
	}
	if analysis.Statistics.Words != 3 {
		t.Errorf("Expected 3 words, got %d", analysis.Statistics.Words)
	}
	r := analysis.Statistics.Readability
	if r == nil {
		t.Fatal("Expected readability to be scored")
	}
	if r.FleschReadingEase != 100 {
		t.Errorf("Expected reading ease 100, got %v", r.FleschReadingEase)
	}
	if analysis.ReadingLevel != "very easy" {
		t.Errorf("Expected reading level %q, got %q", "very easy", analysis.ReadingLevel)
	}
	if strings.Join(analysis.Keywords, ",") != "cat,sat" {
		t.Errorf("Expected keywords [cat sat], got %v", analysis.Keywords)
	}
	if analysis.Summary != "The cat sat." {
		t.Errorf("Expected summary to be the whole text, got %q", analysis.Summary)
	}
	if !containsPrefix(analysis.Recommendations, "Copy is short (3 words)") {
		t.Errorf("Expected a short copy recommendation, got %v", analysis.Recommendations)
	}
}

func TestAnalyzeHTML(t *testing.T) {
	a := newTestAnalyzer(t, Options{})

	body := `<html><head><title>Ignored title</title><style>p { color: red; }</style></head>
<body>
  <h1>Big Sale</h1>
  <p>Visit <a href="https://shop.example.com/sale">our shop</a> today.<br>Follow @CopyScore #Deals</p>
  <a href="/relative">relative links are skipped</a>
  <script>var tracking = "click here";</script>
</body></html>`

	analysis, err := a.Analyze(context.Background(), Request{Content: body, Format: "HTML"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.Format != FormatHTML {
		t.Errorf("Expected format %q, got %q", FormatHTML, analysis.Format)
	}
	if analysis.Statistics.Paragraphs != 3 {
		t.Errorf("Expected 3 paragraphs, got %d", analysis.Statistics.Paragraphs)
	}
	if strings.Contains(analysis.Summary, "tracking") || strings.Contains(analysis.Summary, "Ignored") {
		t.Errorf("Script and head content leaked into text: %q", analysis.Summary)
	}
	if len(analysis.URLs) != 1 || analysis.URLs[0] != "https://shop.example.com/sale" {
		t.Errorf("Expected the anchor link, got %v", analysis.URLs)
	}
	if len(analysis.Mentions) != 1 || analysis.Mentions[0] != "@copyscore" {
		t.Errorf("Expected mention @copyscore, got %v", analysis.Mentions)
	}
	if len(analysis.Hashtags) != 1 || analysis.Hashtags[0] != "#deals" {
		t.Errorf("Expected hashtag #deals, got %v", analysis.Hashtags)
	}
	for _, indicator := range analysis.Spam.Indicators {
		if strings.Contains(indicator, "click here") {
			t.Errorf("Script text should not count as a spam trigger: %v", analysis.Spam.Indicators)
		}
	}
}

func TestAnalyzeHTMLLinkTextCountedOnce(t *testing.T) {
	body := `<p><a href="https://one.example.com">https://one.example.com</a></p>
<p><a href="https://two.example.com">https://two.example.com</a></p>
<p><a href="https://three.example.com">https://three.example.com</a></p>`

	analysis, err := Evaluate(context.Background(), nil, Request{Content: body, Format: FormatHTML})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(analysis.URLs) != 3 {
		t.Errorf("Expected 3 links, got %v", analysis.URLs)
	}
	for _, indicator := range analysis.Spam.Indicators {
		if strings.HasPrefix(indicator, "too many links") {
			t.Errorf("Links shown as their own text were counted twice: %v", analysis.Spam.Indicators)
		}
	}

	var hidden strings.Builder
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&hidden, `<p><a href="https://%d.example.com">offer</a></p>`, i)
	}
	analysis, err = Evaluate(context.Background(), nil, Request{Content: hidden.String(), Format: FormatHTML})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	found := false
	for _, indicator := range analysis.Spam.Indicators {
		found = found || indicator == "too many links (6)"
	}
	if !found {
		t.Errorf("Expected anchor targets to count as links, got %v", analysis.Spam.Indicators)
	}
}

func TestAnalyzeEmptyContent(t *testing.T) {
	a := newTestAnalyzer(t, Options{})

	for _, req := range []Request{{}, {Content: "   \n\t"}, {Content: "<p> </p>", Format: FormatHTML}} {
		analysis, err := a.Analyze(context.Background(), req)
		if err != nil {
			t.Fatalf("Empty content should not be an error, got %v", err)
		}
		if analysis.Statistics.Words != 0 || analysis.Statistics.Readability != nil {
			t.Errorf("Expected zero statistics, got %+v", analysis.Statistics)
		}
		if analysis.ReadingLevel != "" {
			t.Errorf("Expected no reading level, got %q", analysis.ReadingLevel)
		}
		if analysis.Keywords == nil || analysis.Recommendations == nil {
			t.Error("Expected empty, non-nil slices")
		}
	}
}

func TestAnalyzeErrors(t *testing.T) {
	a := newTestAnalyzer(t, Options{MaxContentBytes: 16})

	_, err := a.Analyze(context.Background(), Request{Content: strings.Repeat("word ", 10)})
	if !errors.Is(err, ErrContentTooLarge) {
		t.Errorf("Expected ErrContentTooLarge, got %v", err)
	}

	_, err = a.Analyze(context.Background(), Request{Content: "hi", Format: "pdf"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Analyze(ctx, Request{Content: "hi"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeCache(t *testing.T) {
	a := newTestAnalyzer(t, Options{CacheSize: 10, CacheTTL: time.Minute})
	req := Request{Content: "Great products make happy customers. Order today."}

	if a.IsCached(req) {
		t.Fatal("Request should not be cached yet")
	}

	first, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !a.IsCached(req) {
		t.Error("Request should be cached after analysis")
	}
	if !a.IsCached(Request{Content: req.Content, Format: FormatText, MaxKeywords: textscore.DefaultMaxKeywords}) {
		t.Error("Explicit defaults should share the cache entry")
	}
	if a.IsCached(Request{Content: req.Content, MaxKeywords: 3}) {
		t.Error("A different keyword count should not share the cache entry")
	}

	second, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected the cached analysis to be returned, got %+v", second)
	}

	cacheStats := a.GetCacheStats()
	if cacheStats.Entries != 1 {
		t.Errorf("Expected 1 cache entry, got %d", cacheStats.Entries)
	}
	if cacheStats.CacheHits != 1 || cacheStats.CacheMisses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d and %d", cacheStats.CacheHits, cacheStats.CacheMisses)
	}
	if cacheStats.DocumentsScored != 1 || cacheStats.WordsScored != 7 {
		t.Errorf("Expected 1 document of 7 words, got %d and %d", cacheStats.DocumentsScored, cacheStats.WordsScored)
	}
	if cacheStats.Capacity != 10 || cacheStats.TTL != time.Minute {
		t.Errorf("Unexpected cache settings: %+v", cacheStats)
	}

	a.ClearCache()
	if a.IsCached(req) {
		t.Error("Cache should be empty after ClearCache")
	}
}

func TestAnalyzeCacheReturnsCopies(t *testing.T) {
	a := newTestAnalyzer(t, Options{})
	req := Request{Content: "Great deals today at https://shop.example.com. Happy customers love it."}

	first, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	want := first.clone()

	first.Keywords[0] = "changed"
	first.URLs = append(first.URLs[:0], "https://changed.example.com")
	first.Recommendations = append(first.Recommendations, "changed")
	first.Statistics.Sentiment.Positive[0] = "changed"
	first.Statistics.Readability.FleschReadingEase = -1

	second, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !reflect.DeepEqual(want, second) {
		t.Errorf("Changes to a returned analysis leaked into the cache:\nwant %+v\ngot  %+v", want, second)
	}
	if a.GetCacheStats().CacheHits != 1 {
		t.Errorf("Expected the second call to hit the cache")
	}
}

func TestAnalyzeCacheExpiry(t *testing.T) {
	a := newTestAnalyzer(t, Options{CacheTTL: 50 * time.Millisecond})
	req := Request{Content: "Short lived result."}

	if _, err := a.Analyze(context.Background(), req); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if a.IsCached(req) {
		t.Error("Cached result should have expired")
	}
}

func TestRecommendations(t *testing.T) {
	a := newTestAnalyzer(t, Options{})

	t.Run("spam", func(t *testing.T) {
		analysis, err := a.Analyze(context.Background(), Request{
			Content: "ACT NOW!!!! FREE MONEY is guaranteed. CLICK HERE to claim it, winner!",
		})
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if !analysis.Spam.IsLikelySpam {
			t.Errorf("Expected copy to be flagged as spam, got %+v", analysis.Spam)
		}
		if !containsPrefix(analysis.Recommendations, "Likely to be flagged as spam") {
			t.Errorf("Expected a spam recommendation, got %v", analysis.Recommendations)
		}
	})

	t.Run("negative tone and long sentences", func(t *testing.T) {
		content := "This terrible and awful experience with the disappointing service was frustrating " +
			"because every single representative we contacted during the entire afternoon gave us " +
			"complicated instructions that never solved the actual problem we reported"
		analysis, err := a.Analyze(context.Background(), Request{Content: content})
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if analysis.SentimentScore.Label != "negative" {
			t.Errorf("Expected negative sentiment, got %+v", analysis.SentimentScore)
		}
		for _, prefix := range []string{"Shorten sentences", "Lower the grade level", "Tone reads negative"} {
			if !containsPrefix(analysis.Recommendations, prefix) {
				t.Errorf("Expected recommendation starting with %q, got %v", prefix, analysis.Recommendations)
			}
		}
	})
}

func TestShutdownPersistsStats(t *testing.T) {
	dataDir := t.TempDir()
	a, err := New(Options{DataDir: dataDir})
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	if _, err := a.Analyze(context.Background(), Request{Content: "One two three."}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if err := a.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	storage, err := stats.NewStorage(dataDir, nil)
	if err != nil {
		t.Fatalf("Failed to reopen stats: %v", err)
	}
	defer storage.Shutdown()

	if got := storage.GetCurrentStats().DocumentsScored; got != 1 {
		t.Errorf("Expected 1 persisted document, got %d", got)
	}

	var nilAnalyzer *Analyzer
	if err := nilAnalyzer.Shutdown(); err != nil {
		t.Errorf("Shutdown on nil analyzer should be a no-op, got %v", err)
	}
}

func TestConcurrentAnalyze(t *testing.T) {
	a := newTestAnalyzer(t, Options{CacheSize: 8})

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := fmt.Sprintf("Campaign number %d is ready. Customers love great offers.", i%10)
			analysis, err := a.Analyze(context.Background(), Request{Content: content})
			if err != nil {
				errs <- err
				return
			}
			if analysis.Statistics.Sentences != 2 {
				errs <- fmt.Errorf("expected 2 sentences, got %d", analysis.Statistics.Sentences)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if entries := a.GetCacheStats().Entries; entries > 8 {
		t.Errorf("Cache grew past its capacity: %d entries", entries)
	}
}

func TestMemoryEfficiency(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping memory test in short mode")
	}
	a := newTestAnalyzer(t, Options{CacheSize: 16})
	paragraph := strings.Repeat("Our newsletter shares practical tips for growing small businesses. ", 200)

	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	for i := 0; i < 100; i++ {
		req := Request{Content: fmt.Sprintf("%s Issue %d.", paragraph, i)}
		if _, err := a.Analyze(context.Background(), req); err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
	}

	runtime.GC()
	runtime.ReadMemStats(&after)
	t.Logf("Heap Allocation: %d bytes -> %d bytes", before.HeapAlloc, after.HeapAlloc)
	t.Logf("Number of GC runs: %d -> %d", before.NumGC, after.NumGC)

	if entries := a.GetCacheStats().Entries; entries != 16 {
		t.Errorf("Expected the cache to hold 16 entries, got %d", entries)
	}
}

func containsPrefix(items []string, prefix string) bool {
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			return true
		}
	}
	return false
}

func TestEvaluate(t *testing.T) {
	analysis, err := Evaluate(context.Background(), nil, Request{Content: "<b>Hello</b> there.", Format: FormatHTML})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if analysis.Statistics.Words != 2 {
		t.Errorf("Expected 2 words, got %d", analysis.Statistics.Words)
	}

	if _, err := Evaluate(context.Background(), nil, Request{Format: "markdown"}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
