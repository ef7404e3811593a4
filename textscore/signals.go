package textscore

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentiment is a lexicon based polarity estimate.
type Sentiment struct {
	Score         float64 `json:"score"`
	Label         string  `json:"label"`
	PositiveCount int     `json:"positiveCount"`
	NegativeCount int     `json:"negativeCount"`
}

// SentimentScore counts lexicon hits (repeats included) and returns
// (positive-negative)/(positive+negative), which lies in [-1, 1].
func SentimentScore(text string) Sentiment {
	var s Sentiment
	for _, word := range Words(Normalize(text)) {
		lower := strings.ToLower(word)
		if _, ok := positiveWords[lower]; ok {
			s.PositiveCount++
		} else if _, ok := negativeWords[lower]; ok {
			s.NegativeCount++
		}
	}

	if total := s.PositiveCount + s.NegativeCount; total > 0 {
		s.Score = round(float64(s.PositiveCount-s.NegativeCount)/float64(total), 2)
	}
	switch {
	case s.Score > 0.1:
		s.Label = "positive"
	case s.Score < -0.1:
		s.Label = "negative"
	default:
		s.Label = "neutral"
	}
	return s
}

// SpamReport lists the spam indicators found in email copy.
type SpamReport struct {
	Score        float64  `json:"score"`
	IsLikelySpam bool     `json:"isLikelySpam"`
	Indicators   []string `json:"indicators"`
}

const (
	spamThreshold       = 0.5
	phraseWeight        = 0.15
	capsWeight          = 0.25
	exclamationWeight   = 0.2
	linkWeight          = 0.2
	currencyWeight      = 0.1
	maxCapsRatio        = 0.3
	maxExclamationMarks = 3
	maxLinks            = 5
	maxCurrencySymbols  = 3
)

var (
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
	urlPattern     = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// CheckSpam scores raw copy against simple spam heuristics: trigger
// phrases, shouting, exclamation marks, link count and currency symbols.
// The score is the capped sum of the indicator weights.
func CheckSpam(raw string) SpamReport {
	report := SpamReport{Indicators: []string{}}
	score := 0.0

	words := Words(Normalize(raw))
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	stream := " " + strings.Join(lowered, " ") + " "
	for _, phrase := range spamPhrases {
		if strings.Contains(stream, " "+phrase+" ") {
			report.Indicators = append(report.Indicators, fmt.Sprintf("trigger phrase: %q", phrase))
			score += phraseWeight
		}
	}

	if capsRatio(words) > maxCapsRatio {
		report.Indicators = append(report.Indicators, "excessive capitalization")
		score += capsWeight
	}
	if n := strings.Count(raw, "!"); n > maxExclamationMarks {
		report.Indicators = append(report.Indicators, fmt.Sprintf("excessive exclamation marks (%d)", n))
		score += exclamationWeight
	}
	if n := len(urlPattern.FindAllStringIndex(raw, -1)); n > maxLinks {
		report.Indicators = append(report.Indicators, fmt.Sprintf("too many links (%d)", n))
		score += linkWeight
	}
	if n := strings.Count(raw, "$") + strings.Count(raw, "€") + strings.Count(raw, "£"); n > maxCurrencySymbols {
		report.Indicators = append(report.Indicators, fmt.Sprintf("heavy use of currency symbols (%d)", n))
		score += currencyWeight
	}

	report.Score = round(math.Min(1, score), 2)
	report.IsLikelySpam = report.Score >= spamThreshold
	return report
}

// capsRatio is the share of words with three or more letters that are
// written entirely in upper case.
func capsRatio(words []string) float64 {
	candidates, shouted := 0, 0
	for _, w := range words {
		letters, upper := 0, 0
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters < 3 {
			continue
		}
		candidates++
		if upper == letters {
			shouted++
		}
	}
	if candidates == 0 {
		return 0
	}
	return float64(shouted) / float64(candidates)
}

// ExtractHashtags returns the lowercased #tags in raw text.
func ExtractHashtags(text string) []string {
	return lowerAll(hashtagPattern.FindAllString(text, -1))
}

// ExtractMentions returns the lowercased @mentions in raw text.
func ExtractMentions(text string) []string {
	return lowerAll(mentionPattern.FindAllString(text, -1))
}

// ExtractURLs returns the http and https links in raw text, without
// trailing sentence punctuation.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if m = strings.TrimRight(m, ".,;:!?)"); m != "" {
			urls = append(urls, m)
		}
	}
	return urls
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = strings.ToLower(item)
	}
	return out
}

// Summarize returns the normalized text when it fits in maxLength
// characters, otherwise as many leading sentences as fit.
func Summarize(text string, maxLength int) string {
	clean := Normalize(text)
	sentences := Sentences(clean)
	if len(sentences) == 0 {
		return ""
	}
	if utf8.RuneCountInString(clean) <= maxLength {
		return clean
	}

	var summary strings.Builder
	length := 0
	for _, sentence := range sentences {
		n := utf8.RuneCountInString(sentence)
		if length+n > maxLength {
			break
		}
		summary.WriteString(sentence)
		summary.WriteString(". ")
		length += n + 2
	}
	return strings.TrimSpace(summary.String())
}
