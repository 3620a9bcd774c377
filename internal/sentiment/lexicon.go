package sentiment

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// ------------------------------------------------------------------
// Keyword-based classifier (offline, no model endpoint needed).
// Deterministic fallback for FinBERT.
// ------------------------------------------------------------------

type keyword struct {
	term   string
	weight float64
}

// bullish / bearish keyword dictionaries (lowercase).
var bullishWords = []keyword{
	{"bullish", 0.7}, {"rally", 0.6}, {"rallies", 0.6}, {"surge", 0.7}, {"soar", 0.7},
	{"upbeat", 0.5}, {"positive", 0.4}, {"growth", 0.4}, {"upgrade", 0.6},
	{"outperform", 0.6}, {"buy rating", 0.5}, {"strong", 0.4}, {"recovery", 0.5},
	{"breakout", 0.6}, {"record high", 0.7}, {"all-time high", 0.7}, {"beat", 0.5},
	{"exceeds", 0.5}, {"tops estimates", 0.6}, {"expansion", 0.4}, {"profit", 0.3},
	{"dividend", 0.4}, {"buyback", 0.5}, {"raises guidance", 0.6}, {"gain", 0.4},
}

var bearishWords = []keyword{
	{"bearish", 0.7}, {"crash", 0.8}, {"plunge", 0.7}, {"slump", 0.6}, {"tumble", 0.6},
	{"negative", 0.4}, {"downgrade", 0.6}, {"underperform", 0.6}, {"sell rating", 0.5},
	{"weak", 0.4}, {"decline", 0.5}, {"loss", 0.4}, {"selloff", 0.7}, {"sell-off", 0.7},
	{"fall", 0.4}, {"correction", 0.5}, {"default", 0.7}, {"fraud", 0.8},
	{"lawsuit", 0.6}, {"investigation", 0.5}, {"layoffs", 0.5}, {"misses", 0.5},
	{"warning", 0.5}, {"concern", 0.3}, {"cuts guidance", 0.6}, {"recall", 0.5},
}

// Lexicon scores text by matching weighted bullish and bearish keywords.
// It never fails and is safe for concurrent use.
type Lexicon struct {
	bullish []keyword
	bearish []keyword
}

// NewLexicon creates a keyword classifier with the built-in dictionaries.
func NewLexicon() *Lexicon {
	return &Lexicon{bullish: bullishWords, bearish: bearishWords}
}

// Classify converts keyword matches into probabilities. The share of
// probability mass moved away from neutral grows with the number of matches
// (0.35 for one match, capped at 0.85) and is split between positive and
// negative in proportion to the matched weights.
func (l *Lexicon) Classify(_ context.Context, text string) (Probabilities, error) {
	text = CleanText(text)
	if text == "" {
		return NeutralProbabilities, nil
	}
	tokens := tokenize(text)

	bull, bullHits := matchWeights(tokens, l.bullish)
	bear, bearHits := matchWeights(tokens, l.bearish)
	matches := bullHits + bearHits

	total := bull + bear
	if matches == 0 || total == 0 {
		return NeutralProbabilities, nil
	}

	strength := math.Min(float64(matches)*0.15+0.2, 0.85)
	return Probabilities{
		Positive: strength * bull / total,
		Negative: strength * bear / total,
		Neutral:  1 - strength,
	}, nil
}

// inflections accepted after a single-word keyword ("gain" matches "gains").
var suffixes = []string{"", "s", "es", "ed", "d", "ing"}

// tokenize lowercases text and splits it into words. Hyphens stay inside a
// word so "sell-off" and "all-time" survive as one token.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// matchWeights sums the weights of the keywords found in tokens. Keywords
// match whole words only, so "gain" does not fire inside "against". Each
// keyword counts once.
func matchWeights(tokens []string, words []keyword) (sum float64, hits int) {
	var joined string
	for _, w := range words {
		var found bool
		if strings.Contains(w.term, " ") {
			if joined == "" {
				joined = " " + strings.Join(tokens, " ") + " "
			}
			found = strings.Contains(joined, " "+w.term+" ")
		} else {
			found = containsWord(tokens, w.term)
		}
		if found {
			sum += w.weight
			hits++
		}
	}
	return sum, hits
}

func containsWord(tokens []string, term string) bool {
	for _, tok := range tokens {
		rest, ok := strings.CutPrefix(tok, term)
		if !ok {
			continue
		}
		for _, suf := range suffixes {
			if rest == suf {
				return true
			}
		}
	}
	return false
}
