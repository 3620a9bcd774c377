// Package models defines the core data structures used throughout StockSentinel.
package models

// ArticleSource identifies the news provider an article was collected from.
type ArticleSource string

const (
	SourceNewsAPI      ArticleSource = "newsapi"
	SourceFinnhub      ArticleSource = "finnhub"
	SourceYahooFinance ArticleSource = "yahoo_finance"
)

// SentimentLabel is the discrete label derived from a sentiment score.
type SentimentLabel string

const (
	LabelBullish SentimentLabel = "bullish"
	LabelNeutral SentimentLabel = "neutral"
	LabelBearish SentimentLabel = "bearish"
)

// Article is a single news article normalized from a provider response.
// PublishedAt is kept as the provider's ISO-8601 string; it may be empty or malformed.
type Article struct {
	Source      ArticleSource `json:"source"                    yaml:"source"`
	Title       string        `json:"title"                     yaml:"title"`
	Description string        `json:"description"               yaml:"description"`
	Content     string        `json:"content"                   yaml:"content"`
	URL         string        `json:"url"                       yaml:"url"`
	PublishedAt string        `json:"published_at"              yaml:"published_at"`
	SourceName  string        `json:"source_name"               yaml:"source_name"`

	// Set once by the sentiment analyzer.
	Sentiment      *Sentiment     `json:"sentiment,omitempty"       yaml:"sentiment,omitempty"`
	SentimentLabel SentimentLabel `json:"sentiment_label,omitempty" yaml:"sentiment_label,omitempty"`
}

// Score returns the article's sentiment score, or 0 if it has not been classified.
func (a Article) Score() float64 {
	if a.Sentiment == nil {
		return 0
	}
	return a.Sentiment.Score
}

// Label returns the article's sentiment label, defaulting to neutral.
func (a Article) Label() SentimentLabel {
	if a.SentimentLabel == "" {
		return LabelNeutral
	}
	return a.SentimentLabel
}

// Sentiment holds the classifier probabilities for one article.
type Sentiment struct {
	Positive float64 `json:"positive" yaml:"positive"`
	Negative float64 `json:"negative" yaml:"negative"`
	Neutral  float64 `json:"neutral"  yaml:"neutral"`
	Score    float64 `json:"score"    yaml:"score"` // positive - negative, -1.0 to +1.0
}
