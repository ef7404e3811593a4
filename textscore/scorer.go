package textscore

// DefaultWordsPerMinute is the average adult reading speed used for the
// reading time estimate.
const DefaultWordsPerMinute = 200

// DefaultMaxKeywords is the keyword count used when none is requested.
const DefaultMaxKeywords = 10

// Scorer runs the scoring pipeline with a fixed configuration. A Scorer is
// immutable after construction and may be shared between goroutines.
type Scorer struct {
	syllables      SyllableCounter
	wordsPerMinute float64
	maxKeywords    int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithSyllableCounter replaces the heuristic syllable counter, for example
// with (*SyllableDictionary).Count.
func WithSyllableCounter(counter SyllableCounter) Option {
	return func(s *Scorer) {
		if counter != nil {
			s.syllables = counter
		}
	}
}

// WithWordsPerMinute sets the reading speed used for reading time.
func WithWordsPerMinute(wpm float64) Option {
	return func(s *Scorer) {
		if wpm > 0 {
			s.wordsPerMinute = wpm
		}
	}
}

// WithMaxKeywords sets the default number of keywords returned.
func WithMaxKeywords(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxKeywords = n
		}
	}
}

// NewScorer returns a Scorer using the heuristic syllable counter unless
// an option says otherwise.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		syllables:      CountSyllables,
		wordsPerMinute: DefaultWordsPerMinute,
		maxKeywords:    DefaultMaxKeywords,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxKeywords returns the configured default keyword count.
func (s *Scorer) MaxKeywords() int {
	return s.maxKeywords
}

var defaultScorer = NewScorer()
