package textscore

import (
	"strings"
	"unicode/utf8"
)

// TextStatistics is the full scoring report of a piece of content.
type TextStatistics struct {
	Characters              int                `json:"characters"`
	CharactersNoSpaces      int                `json:"charactersNoSpaces"`
	Words                   int                `json:"words"`
	Sentences               int                `json:"sentences"`
	Paragraphs              int                `json:"paragraphs"`
	UniqueWords             int                `json:"uniqueWords"`
	AvgWordLength           float64            `json:"avgWordLength"`
	Readability             *ReadabilityReport `json:"readability"`
	Sentiment               SentimentWords     `json:"sentiment"`
	EstimatedReadingMinutes float64            `json:"estimatedReadingMinutes"`
}

// ScoreText runs the whole pipeline with the heuristic syllable counter.
func ScoreText(content string) TextStatistics {
	return defaultScorer.ScoreText(content)
}

// ScoreText normalizes content, analyzes it and aggregates the result.
// Readability is nil when there is no word or no sentence to score.
func (s *Scorer) ScoreText(content string) TextStatistics {
	normalized := Normalize(content)
	profile := s.Analyze(normalized)

	characters := utf8.RuneCountInString(normalized)
	stats := TextStatistics{
		Characters:              characters,
		CharactersNoSpaces:      characters - strings.Count(normalized, " "),
		Words:                   profile.WordCount,
		Sentences:               profile.SentenceCount,
		Paragraphs:              CountParagraphs(content),
		UniqueWords:             profile.UniqueWordCount,
		Readability:             Aggregate(profile).Rounded(),
		Sentiment:               profile.Sentiment,
		EstimatedReadingMinutes: round(float64(profile.WordCount)/s.wordsPerMinute, 1),
	}

	if profile.WordCount > 0 {
		total := 0
		for _, w := range profile.Words {
			total += utf8.RuneCountInString(w)
		}
		stats.AvgWordLength = round(float64(total)/float64(profile.WordCount), 2)
	}

	return stats
}

// CountParagraphs counts blocks of raw text separated by blank lines that
// still hold content after normalization.
func CountParagraphs(raw string) int {
	count := 0
	var block strings.Builder
	flush := func() {
		if Normalize(block.String()) != "" {
			count++
		}
		block.Reset()
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block.WriteString(line)
		block.WriteByte('\n')
	}
	flush()

	return count
}
