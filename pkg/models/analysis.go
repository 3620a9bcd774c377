package models

// AggregatedSentiment is the distribution of sentiment scores across an article set.
// For an empty set every numeric field is zero and OverallLabel is neutral.
type AggregatedSentiment struct {
	MeanScore     float64        `json:"mean_score"     yaml:"mean_score"`
	MedianScore   float64        `json:"median_score"   yaml:"median_score"`
	StdScore      float64        `json:"std_score"      yaml:"std_score"` // population std
	MinScore      float64        `json:"min_score"      yaml:"min_score"`
	MaxScore      float64        `json:"max_score"      yaml:"max_score"`
	PositiveRatio float64        `json:"positive_ratio" yaml:"positive_ratio"`
	NegativeRatio float64        `json:"negative_ratio" yaml:"negative_ratio"`
	NeutralRatio  float64        `json:"neutral_ratio"  yaml:"neutral_ratio"`
	ArticleCount  int            `json:"article_count"  yaml:"article_count"`
	OverallLabel  SentimentLabel `json:"overall_label"  yaml:"overall_label"`
}

// Recommendation is the trade recommendation tier derived from the overall score.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG BUY"
	Buy        Recommendation = "BUY"
	WeakBuy    Recommendation = "WEAK BUY"
	Hold       Recommendation = "HOLD"
	WeakSell   Recommendation = "WEAK SELL"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG SELL"
)

// Confidence is the confidence tier attached to a recommendation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ScoreComponents are the four raw sub-scores, each in a bounded range.
type ScoreComponents struct {
	Sentiment   float64 `json:"sentiment"   yaml:"sentiment"`   // -1.0 to +1.0
	Consistency float64 `json:"consistency" yaml:"consistency"` // -1.0 to +1.0
	Volume      float64 `json:"volume"      yaml:"volume"`      // -1.0 to 0.0
	Recency     float64 `json:"recency"     yaml:"recency"`     // -0.2 to +0.5
}

// ScoreWeights are the fixed weights applied to the score components.
type ScoreWeights struct {
	Sentiment   float64 `json:"sentiment_score"       yaml:"sentiment_score"`
	Consistency float64 `json:"sentiment_consistency" yaml:"sentiment_consistency"`
	Volume      float64 `json:"news_volume"           yaml:"news_volume"`
	Recency     float64 `json:"recency"               yaml:"recency"`
}

// ScoringResult is the output of the scoring engine.
type ScoringResult struct {
	OverallScore   float64         `json:"overall_score"  yaml:"overall_score"` // 0 to 100
	Components     ScoreComponents `json:"components"     yaml:"components"`
	Weights        ScoreWeights    `json:"weights"        yaml:"weights"`
	Recommendation Recommendation  `json:"recommendation" yaml:"recommendation"`
	Confidence     Confidence      `json:"confidence"     yaml:"confidence"`
}
