// Package scoring turns aggregated news sentiment into a bounded 0-100 score,
// a seven-tier recommendation and a confidence label.
package scoring

import (
	"math"
	"time"

	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

// Weights are the composite weights of the four score components.
// A Weights value is copied into each Scorer and never modified.
type Weights struct {
	Sentiment   float64
	Consistency float64
	Volume      float64
	Recency     float64
}

// Composite weights. Volume only penalizes thin coverage and recency barely
// moves the score over the usual 7-day window.
const (
	sentimentWeight   = 0.70
	consistencyWeight = 0.15
	volumeWeight      = 0.10
	recencyWeight     = 0.05
)

// DefaultWeights returns the standard composite weights, which sum to 1.
func DefaultWeights() Weights {
	return Weights{
		Sentiment:   sentimentWeight,
		Consistency: consistencyWeight,
		Volume:      volumeWeight,
		Recency:     recencyWeight,
	}
}

func (w Weights) model() models.ScoreWeights {
	return models.ScoreWeights{
		Sentiment:   w.Sentiment,
		Consistency: w.Consistency,
		Volume:      w.Volume,
		Recency:     w.Recency,
	}
}

const (
	// MinArticlesForConsistency is the article count below which the
	// consistency component is zero.
	MinArticlesForConsistency = 10

	// Amplification stretches composite totals, which rarely leave
	// [-0.3, 0.3], across more of the 0-100 range.
	Amplification = 1.5
)

// Scorer computes ScoringResults. It is safe for concurrent use.
type Scorer struct {
	weights Weights
	now     func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights replaces the default weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithClock sets the clock used for recency. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// NewScorer creates a Scorer with DefaultWeights unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights { return s.weights }

// Score combines the aggregate and the analyzed articles into a ScoringResult.
func (s *Scorer) Score(agg models.AggregatedSentiment, articles []models.Article) models.ScoringResult {
	count := len(articles)

	c := models.ScoreComponents{
		Sentiment:   SentimentComponent(agg),
		Consistency: ConsistencyComponent(agg.StdScore, count),
		Volume:      VolumeComponent(count),
		Recency:     RecencyComponent(articles, s.now()),
	}

	total := c.Sentiment*s.weights.Sentiment +
		c.Consistency*s.weights.Consistency +
		c.Volume*s.weights.Volume +
		c.Recency*s.weights.Recency
	normalized := Normalize(total)

	return models.ScoringResult{
		OverallScore: round(normalized, 2),
		Components: models.ScoreComponents{
			Sentiment:   round(c.Sentiment, 3),
			Consistency: round(c.Consistency, 3),
			Volume:      round(c.Volume, 3),
			Recency:     round(c.Recency, 3),
		},
		Weights:        s.weights.model(),
		Recommendation: Recommend(normalized),
		Confidence:     ConfidenceFor(agg, count),
	}
}

// --- Components ---

// SentimentComponent is the mean article score, in [-1, 1].
func SentimentComponent(agg models.AggregatedSentiment) float64 {
	return agg.MeanScore
}

// ConsistencyComponent rewards agreement between articles: 1 - 2*std clamped
// to [-1, 1], or 0 when fewer than MinArticlesForConsistency articles exist.
func ConsistencyComponent(std float64, count int) float64 {
	if count < MinArticlesForConsistency {
		return 0
	}
	return clamp(1-2*std, -1, 1)
}

// VolumeComponent penalizes thin coverage and never rewards heavy coverage.
func VolumeComponent(count int) float64 {
	switch {
	case count == 0:
		return -1.0
	case count < 5:
		return -0.5
	case count < 10:
		return -0.2
	default:
		return 0.0
	}
}

// RecencyComponent is the mean per-article recency sub-score relative to now.
// Articles whose timestamp cannot be parsed contribute 0.
func RecencyComponent(articles []models.Article, now time.Time) float64 {
	if len(articles) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range articles {
		sum += articleRecency(a.PublishedAt, now)
	}
	return sum / float64(len(articles))
}

func articleRecency(publishedAt string, now time.Time) float64 {
	t, err := utils.ParseTimestamp(publishedAt)
	if err != nil {
		return 0
	}
	switch hours := now.Sub(t).Hours(); {
	case hours < 24:
		return 0.5
	case hours < 48:
		return 0.2
	case hours < 96:
		return 0.0
	default:
		return -0.2
	}
}

// --- Composite ---

// Normalize maps a weighted total onto [0, 100] after amplification.
func Normalize(total float64) float64 {
	return clamp((total*Amplification+1)*50, 0, 100)
}

// Recommend maps an overall score to a recommendation tier.
func Recommend(score float64) models.Recommendation {
	switch {
	case score >= 70:
		return models.StrongBuy
	case score >= 60:
		return models.Buy
	case score >= 55:
		return models.WeakBuy
	case score >= 45:
		return models.Hold
	case score >= 40:
		return models.WeakSell
	case score >= 30:
		return models.Sell
	default:
		return models.StrongSell
	}
}

// ConfidenceFor rates how much the recommendation can be trusted from the
// article count and the score dispersion. Each factor contributes 0-2 points.
// An empty aggregate has std 0 and so still earns the dispersion points.
func ConfidenceFor(agg models.AggregatedSentiment, count int) models.Confidence {
	points := 0

	switch {
	case count >= 20:
		points += 2
	case count >= 10:
		points++
	}

	switch {
	case agg.StdScore < 0.3:
		points += 2
	case agg.StdScore < 0.5:
		points++
	}

	switch {
	case points >= 3:
		return models.ConfidenceHigh
	case points >= 2:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
