package textscore

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// minKeywordRunes is the shortest token kept as a keyword candidate.
const minKeywordRunes = 3

// SentimentWords holds the distinct lexicon words found in a text, in
// first-occurrence order.
type SentimentWords struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// KeywordCount is a keyword candidate and the number of times it occurs.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// LexicalProfile is the set of token-level facts derived from one
// normalized text. It is not modified after Analyze returns it.
type LexicalProfile struct {
	Words            []string
	WordCount        int
	SentenceCount    int
	SyllableCount    int
	ComplexWordCount int
	UniqueWordCount  int

	// KeywordFrequencies counts lowercase non-stop-word tokens of at least
	// three characters.
	KeywordFrequencies map[string]int
	Sentiment          SentimentWords

	keywordOrder []string
}

// TopKeywords returns up to n keywords ordered by descending frequency,
// ties broken by first occurrence.
func (p LexicalProfile) TopKeywords(n int) []string {
	return topWords(rankKeywords(p.KeywordFrequencies, p.keywordOrder), max(n, 0))
}

// Sentences splits text on runs of . ! ? and returns the trimmed non-empty
// fragments.
func Sentences(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			sentences = append(sentences, f)
		}
	}
	return sentences
}

// Words returns the maximal runs of word characters in text.
func Words(text string) []string {
	words := make([]string, 0, len(text)/5)
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}
	return words
}

// IsComplexWord reports whether word has three or more heuristic syllables.
func IsComplexWord(word string) bool {
	return CountSyllables(word) >= 3
}

// Analyze derives the lexical profile of normalized text using the
// heuristic syllable counter.
func Analyze(normalized string) LexicalProfile {
	return defaultScorer.Analyze(normalized)
}

// Analyze derives the lexical profile of normalized text.
func (s *Scorer) Analyze(normalized string) LexicalProfile {
	words := Words(normalized)
	profile := LexicalProfile{
		Words:              words,
		WordCount:          len(words),
		SentenceCount:      len(Sentences(normalized)),
		KeywordFrequencies: make(map[string]int),
		Sentiment:          SentimentWords{Positive: []string{}, Negative: []string{}},
	}

	unique := make(map[string]struct{}, len(words))
	sentimentSeen := make(map[string]struct{})
	for _, word := range words {
		syllables := s.syllables(word)
		profile.SyllableCount += syllables
		if syllables >= 3 {
			profile.ComplexWordCount++
		}

		lower := strings.ToLower(word)
		unique[lower] = struct{}{}

		if isKeywordCandidate(lower) {
			if profile.KeywordFrequencies[lower] == 0 {
				profile.keywordOrder = append(profile.keywordOrder, lower)
			}
			profile.KeywordFrequencies[lower]++
		}

		if _, seen := sentimentSeen[lower]; seen {
			continue
		}
		if _, ok := positiveWords[lower]; ok {
			profile.Sentiment.Positive = append(profile.Sentiment.Positive, lower)
			sentimentSeen[lower] = struct{}{}
		} else if _, ok := negativeWords[lower]; ok {
			profile.Sentiment.Negative = append(profile.Sentiment.Negative, lower)
			sentimentSeen[lower] = struct{}{}
		}
	}
	profile.UniqueWordCount = len(unique)

	return profile
}

func isKeywordCandidate(lower string) bool {
	if utf8.RuneCountInString(lower) < minKeywordRunes {
		return false
	}
	_, stop := stopWords[lower]
	return !stop
}

func rankKeywords(freq map[string]int, order []string) []KeywordCount {
	ranked := make([]KeywordCount, len(order))
	for i, w := range order {
		ranked[i] = KeywordCount{Word: w, Count: freq[w]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// ExtractKeywords returns up to maxKeywords of the most frequent keyword
// candidates in text. The text does not need to be normalized.
func ExtractKeywords(text string, maxKeywords int) []string {
	if maxKeywords <= 0 {
		return []string{}
	}
	return topWords(RankKeywords(text), maxKeywords)
}

// RankKeywords returns every keyword candidate in text with its count,
// most frequent first.
func RankKeywords(text string) []KeywordCount {
	freq := make(map[string]int)
	var order []string
	for _, word := range Words(Normalize(text)) {
		lower := strings.ToLower(word)
		if !isKeywordCandidate(lower) {
			continue
		}
		if freq[lower] == 0 {
			order = append(order, lower)
		}
		freq[lower]++
	}
	return rankKeywords(freq, order)
}

func topWords(ranked []KeywordCount, n int) []string {
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	words := make([]string, len(ranked))
	for i, kc := range ranked {
		words[i] = kc.Word
	}
	return words
}

// ExtractSentimentWords returns the distinct positive and negative lexicon
// words in text. Repeated words are reported once.
func ExtractSentimentWords(text string) SentimentWords {
	return Analyze(Normalize(text)).Sentiment
}
