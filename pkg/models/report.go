package models

// TopArticle is the projection of an article included in a report.
type TopArticle struct {
	Title          string         `json:"title"           yaml:"title"`
	SentimentScore float64        `json:"sentiment_score" yaml:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label" yaml:"sentiment_label"`
	URL            string         `json:"url"             yaml:"url"`
	PublishedAt    string         `json:"published_at"    yaml:"published_at"`
}

// Report is the complete result of one analysis.
type Report struct {
	Ticker            string              `json:"ticker"             yaml:"ticker"`
	AnalysisDate      string              `json:"analysis_date"      yaml:"analysis_date"` // ISO-8601
	StockInfo         StockInfo           `json:"stock_info"         yaml:"stock_info"`
	SentimentAnalysis AggregatedSentiment `json:"sentiment_analysis" yaml:"sentiment_analysis"`
	Scoring           ScoringResult       `json:"scoring"            yaml:"scoring"`
	ArticleCount      int                 `json:"article_count"      yaml:"article_count"`
	TopArticles       []TopArticle        `json:"top_articles"       yaml:"top_articles"`
}
