package textscore

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// SyllableCounter returns the number of syllables in a single word.
type SyllableCounter func(word string) int

// CountSyllables estimates syllables by counting transitions from a
// non-vowel to a vowel (a e i o u y) in the lowercase word, minus one for a
// trailing e. Non-empty words always have at least one syllable.
func CountSyllables(word string) int {
	if word == "" {
		return 0
	}
	word = strings.ToLower(word)

	count := 0
	onVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !onVowel {
			count++
		}
		onVowel = isVowel
	}

	if strings.HasSuffix(word, "e") {
		count--
	}
	return max(1, count)
}

// SyllableDictionary is a pronouncing dictionary that maps words to their
// syllable counts. Lookups for unknown words fall back to CountSyllables.
type SyllableDictionary struct {
	entries map[string]int
}

// LoadSyllableDictionary reads a dictionary file in CMU pronouncing
// dictionary format.
func LoadSyllableDictionary(path string) (*SyllableDictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open syllable dictionary: %w", err)
	}
	defer f.Close()

	dict, err := ParseSyllableDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse syllable dictionary %s: %w", path, err)
	}
	return dict, nil
}

// ParseSyllableDictionary parses lines of the form "WORD  PH1 PH2 ...".
// Syllables are the phonemes carrying a stress digit. Lines starting with
// ";;;" are comments and alternate pronunciations such as "WORD(2)" are
// skipped, so the first pronunciation wins.
func ParseSyllableDictionary(r io.Reader) (*SyllableDictionary, error) {
	dict := &SyllableDictionary{entries: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || strings.HasSuffix(fields[0], ")") {
			continue
		}

		word := strings.ToLower(fields[0])
		if _, seen := dict.entries[word]; seen {
			continue
		}
		syllables := 0
		for _, phoneme := range fields[1:] {
			last := phoneme[len(phoneme)-1]
			if last >= '0' && last <= '9' {
				syllables++
			}
		}
		if syllables > 0 {
			dict.entries[word] = syllables
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return dict, nil
}

// Count returns the dictionary syllable count of word, or the heuristic
// estimate when the word is not in the dictionary.
func (d *SyllableDictionary) Count(word string) int {
	if n, ok := d.entries[strings.ToLower(word)]; ok {
		return n
	}
	return CountSyllables(word)
}

// Len returns the number of words in the dictionary.
func (d *SyllableDictionary) Len() int {
	return len(d.entries)
}
