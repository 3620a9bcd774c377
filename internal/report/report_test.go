package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stocksentinel/internal/logging"
	"github.com/seenimoa/stocksentinel/pkg/models"
)

type fakeStocks struct {
	info models.StockInfo
	err  error
}

func (f fakeStocks) Lookup(_ context.Context, _ string) (models.StockInfo, error) {
	return f.info, f.err
}

func scored(title string, score float64, label models.SentimentLabel) models.Article {
	return models.Article{
		Title:          title,
		URL:            "https://example.com/" + title,
		PublishedAt:    "2024-03-15T10:00:00Z",
		Sentiment:      &models.Sentiment{Score: score},
		SentimentLabel: label,
	}
}

func ptr(v float64) *float64 { return &v }

func TestTopArticles(t *testing.T) {
	articles := []models.Article{
		scored("a", 0.1, models.LabelNeutral),
		scored("b", -0.9, models.LabelBearish),
		scored("c", 0.5, models.LabelBullish),
		scored("d", -0.5, models.LabelBearish),
		scored("e", 0.0, models.LabelNeutral),
		scored("f", 0.7, models.LabelBullish),
		{Title: "unscored"},
	}

	top := TopArticles(articles, TopArticleCount)
	require.Len(t, top, 5)

	var titles []string
	for _, a := range top {
		titles = append(titles, a.Title)
	}
	// c and d tie on |score| and keep input order.
	assert.Equal(t, []string{"b", "f", "c", "d", "a"}, titles)
	assert.Equal(t, -0.9, top[0].SentimentScore)
	assert.Equal(t, models.LabelBearish, top[0].SentimentLabel)
	assert.Equal(t, "https://example.com/b", top[0].URL)

	assert.Len(t, TopArticles(articles[:2], TopArticleCount), 2)
	assert.Empty(t, TopArticles(nil, TopArticleCount))

	// The input slice is not reordered.
	assert.Equal(t, "a", articles[0].Title)
}

func TestTopArticlesUnscoredDefaultsNeutral(t *testing.T) {
	top := TopArticles([]models.Article{{Title: "x"}}, 1)
	require.Len(t, top, 1)
	assert.Equal(t, 0.0, top[0].SentimentScore)
	assert.Equal(t, models.LabelNeutral, top[0].SentimentLabel)
}

func TestGenerate(t *testing.T) {
	info := models.StockInfo{Ticker: "AAPL", CompanyName: "Apple Inc.", Sector: "Technology", Industry: "Consumer Electronics"}
	g := NewGenerator(fakeStocks{info: info}, logging.Nop())
	g.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	articles := []models.Article{scored("a", 0.4, models.LabelBullish), scored("b", -0.1, models.LabelNeutral)}
	agg := models.AggregatedSentiment{MeanScore: 0.15, ArticleCount: 2, OverallLabel: models.LabelNeutral}
	sc := models.ScoringResult{OverallScore: 55.5, Recommendation: models.WeakBuy, Confidence: models.ConfidenceLow}

	r := g.Generate(context.Background(), "AAPL", agg, articles, sc)
	assert.Equal(t, "AAPL", r.Ticker)
	assert.Equal(t, "2024-03-15T12:00:00Z", r.AnalysisDate)
	assert.Equal(t, info, r.StockInfo)
	assert.Equal(t, agg, r.SentimentAnalysis)
	assert.Equal(t, sc, r.Scoring)
	assert.Equal(t, 2, r.ArticleCount)
	require.Len(t, r.TopArticles, 2)
	assert.Equal(t, "a", r.TopArticles[0].Title)
}

func TestGenerateFallsBackOnLookupError(t *testing.T) {
	g := NewGenerator(fakeStocks{err: errors.New("upstream down")}, logging.Nop())
	r := g.Generate(context.Background(), "MSFT", models.AggregatedSentiment{}, nil, models.ScoringResult{})

	assert.Equal(t, models.FallbackStockInfo("MSFT"), r.StockInfo)
	assert.Zero(t, r.ArticleCount)
	assert.NotNil(t, r.TopArticles)
	assert.Empty(t, r.TopArticles)

	r = NewGenerator(nil, logging.Nop()).Generate(context.Background(), "MSFT", models.AggregatedSentiment{}, nil, models.ScoringResult{})
	assert.Equal(t, "MSFT", r.StockInfo.CompanyName)
	assert.Equal(t, models.UnknownField, r.StockInfo.Sector)
}

func sampleReport() models.Report {
	return models.Report{
		Ticker:       "AAPL",
		AnalysisDate: "2024-03-15T12:00:00Z",
		StockInfo: models.StockInfo{
			Ticker:           "AAPL",
			CompanyName:      "Apple Inc.",
			Sector:           "Technology",
			Industry:         "Consumer Electronics",
			CurrentPrice:     ptr(172.5),
			MarketCap:        ptr(2.7e12),
			DayChangePercent: 1.25,
		},
		SentimentAnalysis: models.AggregatedSentiment{
			MeanScore: 0.42, ArticleCount: 12, PositiveRatio: 0.75, NegativeRatio: 0.1,
			OverallLabel: models.LabelBullish,
		},
		Scoring: models.ScoringResult{
			OverallScore:   87.54,
			Components:     models.ScoreComponents{Sentiment: 0.5, Consistency: 0.837, Recency: 0.5},
			Recommendation: models.StrongBuy,
			Confidence:     models.ConfidenceHigh,
		},
		ArticleCount: 12,
		TopArticles: []models.TopArticle{
			{Title: "Apple <beats> estimates", SentimentScore: 0.8, SentimentLabel: models.LabelBullish, URL: "https://example.com/1"},
			{Title: "Supply worries", SentimentScore: -0.6, SentimentLabel: models.LabelBearish},
			{Title: "Quiet day", SentimentScore: 0.05, SentimentLabel: models.LabelNeutral},
			{Title: "Fourth", SentimentScore: 0.01, SentimentLabel: models.LabelNeutral},
		},
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleReport()))
	out := buf.String()

	for _, want := range []string{
		"ANALYSIS SUMMARY: AAPL",
		"Company: Apple Inc.",
		"Sector: Technology",
		"Current Price: $172.50",
		"Sentiment Analysis (12 articles):",
		"Overall Label: BULLISH",
		"Positive Ratio: 75.0%",
		"Stock Score: 87.5/100",
		"Recommendation: STRONG BUY",
		"Confidence: HIGH",
		"Consistency: +0.837",
		"1. Apple <beats> estimates",
		"2. Supply worries",
		"Sentiment: BEARISH (-0.600)",
		"Not financial advice.",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Fourth")
}

func TestWriteSummaryFallback(t *testing.T) {
	r := models.Report{Ticker: "ZZZZ", StockInfo: models.FallbackStockInfo("ZZZZ")}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "Company: ZZZZ")
	assert.Contains(t, out, "Sector: Unknown")
	assert.Contains(t, out, "Overall Label: NEUTRAL")
	assert.Contains(t, out, "Recommendation: HOLD")
	assert.NotContains(t, out, "Current Price")
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleReport()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `<span class="ticker-badge">AAPL</span> Apple Inc.`)
	assert.Contains(t, out, `<div class="rec-box strong-buy">`)
	assert.Contains(t, out, "STRONG BUY")
	assert.Contains(t, out, "Score 87.5/100")
	assert.Contains(t, out, "$172.50")
	assert.Contains(t, out, `<span class="signal-badge sell">BEARISH</span>`)
	assert.Contains(t, out, `<a href="https://example.com/1">`)
	// Titles are escaped.
	assert.Contains(t, out, "Apple &lt;beats&gt; estimates")
	assert.NotContains(t, out, "<beats>")
}

func TestRecommendationClass(t *testing.T) {
	tests := map[models.Recommendation]string{
		models.StrongBuy:  "strong-buy",
		models.Buy:        "buy",
		models.WeakBuy:    "buy",
		models.Hold:       "hold",
		models.WeakSell:   "sell",
		models.Sell:       "sell",
		models.StrongSell: "strong-sell",
		"":                "hold",
	}
	for rec, want := range tests {
		assert.Equal(t, want, recommendationClass(rec), string(rec))
	}
}
