package sentiment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Default word lists used when no lexicon files are configured.
var (
	defaultPositive = []string{"good", "excellent", "great", "happy", "love", "positive", "satisfied"}
	defaultNegative = []string{"bad", "poor", "terrible", "unhappy", "hate", "negative", "dissatisfied"}
)

// Lexicon is a case-insensitive word set tagged positive or negative.
type Lexicon map[string]struct{}

func NewLexicon(words []string) Lexicon {
	lexicon := make(Lexicon, len(words))
	for _, word := range words {
		lexicon[strings.ToLower(strings.TrimSpace(word))] = struct{}{}
	}
	return lexicon
}

func (l Lexicon) Contains(word string) bool {
	_, ok := l[word]
	return ok
}

// LoadLexicons returns the positive and negative lexicons, reading JSON word
// arrays from POSITIVE_LEXICON_PATH / NEGATIVE_LEXICON_PATH when set and
// falling back to the built-in defaults otherwise.
func LoadLexicons() (positive, negative Lexicon, err error) {
	positive, err = loadLexiconFile(os.Getenv("POSITIVE_LEXICON_PATH"), defaultPositive)
	if err != nil {
		return nil, nil, err
	}
	negative, err = loadLexiconFile(os.Getenv("NEGATIVE_LEXICON_PATH"), defaultNegative)
	if err != nil {
		return nil, nil, err
	}
	return positive, negative, nil
}

func loadLexiconFile(path string, fallback []string) (Lexicon, error) {
	if path == "" {
		return NewLexicon(fallback), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[Lexicon] failed to read %s: %w", path, err)
	}

	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("[Lexicon] failed to parse %s: %w", path, err)
	}

	slog.Info("[Lexicon] Loaded lexicon file",
		slog.String("path", path),
		slog.Int("words", len(words)))

	return NewLexicon(words), nil
}
