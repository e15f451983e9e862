// Package sentiment computes rule-based sentiment scores for feedback text
// against configurable positive/negative lexicons.
package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// Result carries the score and the counts behind it; the detailed report
// shows the calculation.
type Result struct {
	Score      float64
	Positive   int
	Negative   int
	TotalWords int
}

// Scorer scores text as (P-N)/total_words rounded to 2 decimals, where P and
// N are lexicon hits and total_words counts every token, duplicates included.
type Scorer struct {
	positive Lexicon
	negative Lexicon
}

func NewScorer(positive, negative Lexicon) *Scorer {
	return &Scorer{positive: positive, negative: negative}
}

// Score tokenizes text on whitespace, trims surrounding punctuation, and
// matches case-insensitively. Empty text scores 0.00 rather than dividing
// by zero. The result is bounded in [-1, 1] since |P-N| <= total_words.
func (s *Scorer) Score(text string) Result {
	tokens := Tokenize(text)

	result := Result{TotalWords: len(tokens)}
	for _, token := range tokens {
		if s.positive.Contains(token) {
			result.Positive++
		}
		if s.negative.Contains(token) {
			result.Negative++
		}
	}

	if result.TotalWords == 0 {
		return result
	}

	raw := float64(result.Positive-result.Negative) / float64(result.TotalWords)
	result.Score = math.Round(raw*100) / 100
	return result
}

// Tokenize splits on whitespace, lowercases, and strips leading/trailing
// punctuation so "good," matches the lexicon entry "good". Tokens that are
// pure punctuation still count toward the word total once trimmed non-empty.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if token == "" {
			token = field
		}
		tokens = append(tokens, token)
	}
	return tokens
}
