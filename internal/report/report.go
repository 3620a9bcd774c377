// Package report assembles analysis results into a Report and renders it
// for the console or as a standalone HTML page.
package report

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/phuslu/log"

	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

// TopArticleCount is the number of articles listed in a report.
const TopArticleCount = 5

// StockInfoProvider resolves stock metadata for a ticker.
type StockInfoProvider interface {
	Lookup(ctx context.Context, ticker string) (models.StockInfo, error)
}

// Generator builds Reports. Metadata lookup failures never fail a report.
type Generator struct {
	stocks StockInfoProvider
	logger *log.Logger
	now    func() time.Time
}

// NewGenerator creates a report generator. stocks may be nil, in which case
// every report carries fallback metadata.
func NewGenerator(stocks StockInfoProvider, logger *log.Logger) *Generator {
	return &Generator{stocks: stocks, logger: logger, now: time.Now}
}

// Generate packages the analysis results for ticker into a Report.
func (g *Generator) Generate(ctx context.Context, ticker string, agg models.AggregatedSentiment,
	articles []models.Article, scoring models.ScoringResult) models.Report {
	return models.Report{
		Ticker:            ticker,
		AnalysisDate:      utils.FormatTimestamp(g.now()),
		StockInfo:         g.stockInfo(ctx, ticker),
		SentimentAnalysis: agg,
		Scoring:           scoring,
		ArticleCount:      len(articles),
		TopArticles:       TopArticles(articles, TopArticleCount),
	}
}

func (g *Generator) stockInfo(ctx context.Context, ticker string) models.StockInfo {
	if g.stocks == nil {
		return models.FallbackStockInfo(ticker)
	}
	info, err := g.stocks.Lookup(ctx, ticker)
	if err != nil {
		g.logger.Error().Err(err).Str("ticker", ticker).Msg("error fetching stock info")
		return models.FallbackStockInfo(ticker)
	}
	return info
}

// TopArticles returns up to n articles with the largest absolute sentiment
// score, most extreme first. Ties keep their input order.
func TopArticles(articles []models.Article, n int) []models.TopArticle {
	sorted := append([]models.Article(nil), articles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Score()) > math.Abs(sorted[j].Score())
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	top := make([]models.TopArticle, 0, len(sorted))
	for _, a := range sorted {
		top = append(top, models.TopArticle{
			Title:          a.Title,
			SentimentScore: a.Score(),
			SentimentLabel: a.Label(),
			URL:            a.URL,
			PublishedAt:    a.PublishedAt,
		})
	}
	return top
}
