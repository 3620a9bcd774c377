package sentiment

import (
	"math"
	"sort"

	"github.com/seenimoa/stocksentinel/pkg/models"
)

// LabelThreshold is the absolute score beyond which a score is labelled
// bullish or bearish.
const LabelThreshold = 0.3

// LabelFor maps a score to a label: above LabelThreshold is bullish,
// below -LabelThreshold is bearish, anything else is neutral.
func LabelFor(score float64) models.SentimentLabel {
	switch {
	case score > LabelThreshold:
		return models.LabelBullish
	case score < -LabelThreshold:
		return models.LabelBearish
	default:
		return models.LabelNeutral
	}
}

// Aggregate summarizes the sentiment of analyzed articles. Ratios are taken
// over each article's label; articles without one count as neutral.
func Aggregate(articles []models.Article) models.AggregatedSentiment {
	if len(articles) == 0 {
		return models.AggregatedSentiment{OverallLabel: models.LabelNeutral}
	}

	scores := make([]float64, len(articles))
	var bullish, bearish, neutral int
	for i, a := range articles {
		scores[i] = a.Score()
		switch a.Label() {
		case models.LabelBullish:
			bullish++
		case models.LabelBearish:
			bearish++
		default:
			neutral++
		}
	}

	n := float64(len(articles))
	mean := meanOf(scores)
	return models.AggregatedSentiment{
		MeanScore:     mean,
		MedianScore:   median(scores),
		StdScore:      stdDev(scores, mean),
		MinScore:      minOf(scores),
		MaxScore:      maxOf(scores),
		PositiveRatio: float64(bullish) / n,
		NegativeRatio: float64(bearish) / n,
		NeutralRatio:  float64(neutral) / n,
		ArticleCount:  len(articles),
		OverallLabel:  LabelFor(mean),
	}
}

// --- Statistics helpers ---

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// median returns the middle value, averaging the two middle values for even lengths.
func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdDev is the population standard deviation (divides by n).
func stdDev(xs []float64, mean float64) float64 {
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = math.Max(m, x)
	}
	return m
}
