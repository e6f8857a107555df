// Package similarity implements the string metrics used for spelling
// correction and entity resolution. All scores are in [0,1].
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Weights of the combined entity score.
const (
	WeightJaroWinkler = 0.4
	WeightLevenshtein = 0.4
	WeightDice        = 0.2
)

const (
	winklerPrefixScale = 0.1
	winklerMaxPrefix   = 4
)

// Normalize trims, strips diacritics and punctuation, collapses whitespace
// and lower-cases s. Hyphens and underscores separate words.
func Normalize(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Levenshtein returns the edit distance between a and b counted in runes.
func Levenshtein(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Two rows of the DP table are enough.
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}

// OSA returns the optimal string alignment distance: Levenshtein plus
// transposition of two adjacent runes, each substring edited at most once.
func OSA(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Three rows: transposition looks two rows back.
	prev2 := make([]int, len(s2)+1)
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && s1[i-1] == s2[j-2] && s1[i-2] == s2[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(s2)]
}

// LevenshteinSimilarity is 1 - Levenshtein(a,b)/max(len(a),len(b)).
func LevenshteinSimilarity(a, b string) float64 {
	return ratio(Levenshtein(a, b), a, b)
}

// EditSimilarity is 1 - OSA(a,b)/max(len(a),len(b)).
func EditSimilarity(a, b string) float64 {
	return ratio(OSA(a, b), a, b)
}

func ratio(distance int, a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(distance)/float64(longest)
}

// Jaro returns the Jaro similarity of a and b.
func Jaro(a, b string) float64 {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) == 0 && len(s2) == 0 {
		return 1
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0
	}

	window := max(len(s1), len(s2))/2 - 1
	if window < 0 {
		window = 0
	}
	m1 := make([]bool, len(s1))
	m2 := make([]bool, len(s2))

	matches := 0
	for i := range s1 {
		lo := max(0, i-window)
		hi := min(len(s2), i+window+1)
		for j := lo; j < hi; j++ {
			if m2[j] || s1[i] != s2[j] {
				continue
			}
			m1[i], m2[j] = true, true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := range s1 {
		if !m1[i] {
			continue
		}
		for !m2[k] {
			k++
		}
		if s1[i] != s2[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	return (m/float64(len(s1)) + m/float64(len(s2)) + (m-float64(transpositions)/2)/m) / 3
}

// JaroWinkler boosts Jaro for a shared prefix of up to four runes.
func JaroWinkler(a, b string) float64 {
	j := Jaro(a, b)
	s1, s2 := []rune(a), []rune(b)
	prefix := 0
	for prefix < min(len(s1), len(s2), winklerMaxPrefix) && s1[prefix] == s2[prefix] {
		prefix++
	}
	return j + float64(prefix)*winklerPrefixScale*(1-j)
}

// Dice is the Sørensen–Dice coefficient over 2-rune shingles. Strings too
// short to shingle score 1 when equal and 0 otherwise.
func Dice(a, b string) float64 {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) < 2 || len(s2) < 2 {
		if a == b {
			return 1
		}
		return 0
	}

	counts := make(map[[2]rune]int, len(s1)-1)
	for i := 0; i+1 < len(s1); i++ {
		counts[[2]rune{s1[i], s1[i+1]}]++
	}
	shared := 0
	for i := 0; i+1 < len(s2); i++ {
		k := [2]rune{s2[i], s2[i+1]}
		if counts[k] > 0 {
			counts[k]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(s1)-1+len(s2)-1)
}

// Combined weighs Jaro–Winkler, Levenshtein similarity and bigram Dice of
// the normalized forms of a and b.
func Combined(a, b string) float64 {
	return Score(Normalize(a), Normalize(b))
}

// Score is Combined for strings that are already normalized.
func Score(na, nb string) float64 {
	score := WeightJaroWinkler*JaroWinkler(na, nb) +
		WeightLevenshtein*LevenshteinSimilarity(na, nb) +
		WeightDice*Dice(na, nb)
	return clamp(score)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
