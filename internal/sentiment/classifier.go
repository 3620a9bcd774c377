// Package sentiment classifies financial news text and aggregates per-article
// scores into distribution statistics.
//
// Two classifiers are provided: FinBERT, which calls the Hugging Face
// Inference API, and Lexicon, an offline keyword model used when no model
// endpoint is available.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Classifier provider names accepted by New.
const (
	ProviderFinBERT = "finbert"
	ProviderLexicon = "lexicon"
)

// ErrUnknownProvider is returned by New for an unrecognized provider name.
var ErrUnknownProvider = errors.New("unknown sentiment classifier")

// Probabilities are the class probabilities returned by a classifier.
// Each value is non-negative and the three sum to approximately 1.
type Probabilities struct {
	Positive float64
	Negative float64
	Neutral  float64
}

// Score returns positive - negative, in [-1, 1].
func (p Probabilities) Score() float64 {
	return p.Positive - p.Negative
}

// NeutralProbabilities is the result for empty input.
var NeutralProbabilities = Probabilities{Neutral: 1}

// Classifier assigns sentiment probabilities to a piece of text.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) (Probabilities, error)
}

// CleanText collapses all runs of whitespace into single spaces and trims the result.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Options configures the classifier built by New.
type Options struct {
	Provider string // ProviderFinBERT or ProviderLexicon
	Model    string
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// New builds the classifier named by opts.Provider. An empty provider selects FinBERT.
func New(opts Options) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderFinBERT:
		fopts := []FinBERTOption{WithModel(opts.Model), WithBaseURL(opts.BaseURL)}
		if opts.Timeout > 0 {
			fopts = append(fopts, WithHTTPClient(&http.Client{Timeout: opts.Timeout}))
		}
		return NewFinBERT(opts.APIToken, fopts...), nil
	case ProviderLexicon:
		return NewLexicon(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}
