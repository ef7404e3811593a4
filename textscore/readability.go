package textscore

import "math"

// ReadabilityReport holds the readability indices of a text. Values are
// kept at full precision; Rounded produces the presentation form.
type ReadabilityReport struct {
	FleschReadingEase   float64 `json:"fleschReadingEase"`
	FleschKincaidGrade  float64 `json:"fleschKincaidGrade"`
	GunningFogIndex     float64 `json:"gunningFogIndex"`
	AvgSentenceLength   float64 `json:"avgSentenceLength"`
	AvgSyllablesPerWord float64 `json:"avgSyllablesPerWord"`
	ComplexWordPct      float64 `json:"complexWordPct"`
}

// Aggregate computes the readability indices of a lexical profile. It
// returns nil when the profile has no words or no sentences: there is not
// enough content to score, which is not an error.
func Aggregate(profile LexicalProfile) *ReadabilityReport {
	if profile.WordCount == 0 || profile.SentenceCount == 0 {
		return nil
	}

	words := float64(profile.WordCount)
	avgSentenceLength := words / float64(profile.SentenceCount)
	avgSyllablesPerWord := float64(profile.SyllableCount) / words
	complexRatio := float64(profile.ComplexWordCount) / words

	ease := 206.835 - 1.015*avgSentenceLength - 84.6*avgSyllablesPerWord
	grade := 0.39*avgSentenceLength + 11.8*avgSyllablesPerWord - 15.59

	return &ReadabilityReport{
		FleschReadingEase:   math.Max(0, math.Min(100, ease)),
		FleschKincaidGrade:  math.Max(0, grade),
		GunningFogIndex:     0.4 * (avgSentenceLength + 100*complexRatio),
		AvgSentenceLength:   avgSentenceLength,
		AvgSyllablesPerWord: avgSyllablesPerWord,
		ComplexWordPct:      100 * complexRatio,
	}
}

// Rounded returns a copy rounded for presentation: scores and percentages
// to two decimals, grade levels and sentence length to one.
func (r *ReadabilityReport) Rounded() *ReadabilityReport {
	if r == nil {
		return nil
	}
	return &ReadabilityReport{
		FleschReadingEase:   round(r.FleschReadingEase, 2),
		FleschKincaidGrade:  round(r.FleschKincaidGrade, 1),
		GunningFogIndex:     round(r.GunningFogIndex, 1),
		AvgSentenceLength:   round(r.AvgSentenceLength, 1),
		AvgSyllablesPerWord: round(r.AvgSyllablesPerWord, 2),
		ComplexWordPct:      round(r.ComplexWordPct, 2),
	}
}

// ReadingLevel names the Flesch Reading Ease band of a score.
func ReadingLevel(fleschReadingEase float64) string {
	switch {
	case fleschReadingEase >= 90:
		return "very easy"
	case fleschReadingEase >= 80:
		return "easy"
	case fleschReadingEase >= 70:
		return "fairly easy"
	case fleschReadingEase >= 60:
		return "standard"
	case fleschReadingEase >= 50:
		return "fairly difficult"
	case fleschReadingEase >= 30:
		return "difficult"
	default:
		return "very difficult"
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
