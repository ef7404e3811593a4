package textscore

// Fixed lexicons. They are built once at package init and only ever read,
// so they are shared by every goroutine without locking.

func newSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// stopWords are dropped by keyword extraction.
var stopWords = newSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "must", "can", "this", "that", "these", "those",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them",
	"my", "your", "his", "its", "our", "their", "mine", "yours", "hers",
	"ours", "theirs", "am",
)

var positiveWords = newSet(
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"awesome", "brilliant", "outstanding", "perfect", "best", "love",
	"like", "enjoy", "happy", "pleased", "satisfied", "impressed",
)

var negativeWords = newSet(
	"bad", "terrible", "awful", "horrible", "worst", "disappointing",
	"poor", "unhappy", "angry", "frustrated", "annoyed", "upset",
	"hate", "dislike",
)

// spamPhrases are matched against the lowercased token stream, so
// "Risk-free!" matches "risk free".
var spamPhrases = []string{
	"act now",
	"apply now",
	"buy now",
	"call now",
	"cash bonus",
	"click here",
	"congratulations",
	"double your",
	"earn money",
	"free money",
	"guaranteed",
	"limited time",
	"no cost",
	"no credit check",
	"once in a lifetime",
	"order now",
	"risk free",
	"this is not spam",
	"urgent",
	"winner",
}

// IsStopWord reports whether the lowercase word is excluded from keywords.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
