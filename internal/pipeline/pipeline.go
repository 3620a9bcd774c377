// Package pipeline runs one end-to-end analysis: collect news for a ticker,
// classify each article, aggregate and score the results, and assemble the
// report. The CLI and the HTTP API both drive analyses through a Service.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phuslu/log"

	"github.com/seenimoa/stocksentinel/internal/config"
	"github.com/seenimoa/stocksentinel/internal/datasource"
	"github.com/seenimoa/stocksentinel/internal/report"
	"github.com/seenimoa/stocksentinel/internal/scoring"
	"github.com/seenimoa/stocksentinel/internal/sentiment"
	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

var (
	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoArticles is returned when no provider returned any article.
	ErrNoArticles = errors.New("no news articles found")
)

// Default request parameters.
const (
	DefaultDays        = 7
	DefaultMaxArticles = 50
)

// Request describes one analysis.
type Request struct {
	Ticker      string `json:"ticker"       validate:"required,alpha,max=5"`
	Days        int    `json:"days"         validate:"min=1,max=30"`
	MaxArticles int    `json:"max_articles" validate:"min=1,max=100"`
}

// Service wires the analysis stages together. It is safe for concurrent use.
type Service struct {
	collector *datasource.Collector
	analyzer  *sentiment.Analyzer
	scorer    *scoring.Scorer
	reports   *report.Generator
	stocks    report.StockInfoProvider

	classifier string
	validate   *validator.Validate
	logger     *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithScorer replaces the default scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(svc *Service) { svc.scorer = s }
}

// NewService builds a Service from its parts. stocks may be nil, in which
// case reports carry fallback stock metadata.
func NewService(collector *datasource.Collector, classifier sentiment.Classifier,
	stocks report.StockInfoProvider, logger *log.Logger, opts ...Option) *Service {
	s := &Service{
		collector:  collector,
		analyzer:   sentiment.NewAnalyzer(classifier, logger),
		scorer:     scoring.NewScorer(),
		reports:    report.NewGenerator(stocks, logger),
		stocks:     stocks,
		classifier: classifierName(classifier),
		validate:   validator.New(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New builds a Service from configuration: the three news providers, the
// configured sentiment classifier and the Yahoo Finance quote lookup.
func New(cfg *config.Config, logger *log.Logger) (*Service, error) {
	p := cfg.Providers
	base := datasource.Options{
		CacheTTL:   time.Duration(p.CacheTTL) * time.Second,
		RatePerSec: p.RatePerSec,
	}
	if p.TimeoutSec > 0 {
		base.Client = datasource.NewHTTPClient(time.Duration(p.TimeoutSec) * time.Second)
	}

	newsAPI := base
	newsAPI.APIKey = p.NewsAPIKey
	finnhub := base
	finnhub.APIKey = p.FinnhubKey

	collector := datasource.NewCollector(logger, p.Concurrent,
		datasource.NewNewsAPI(newsAPI),
		datasource.NewFinnhub(finnhub),
		datasource.NewYahooFinance(base),
	)

	c := cfg.Classifier
	classifier, err := sentiment.New(sentiment.Options{
		Provider: c.Provider,
		Model:    c.Model,
		BaseURL:  c.BaseURL,
		APIToken: c.APIToken,
		Timeout:  time.Duration(c.TimeoutSec) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating sentiment classifier: %w", err)
	}

	return NewService(collector, classifier, datasource.NewYFinance(base), logger), nil
}

// Analyze runs the full pipeline for req. Validation happens before any
// network or model call. It returns ErrInvalidInput or ErrNoArticles
// (possibly wrapped) for the two expected failure modes.
func (s *Service) Analyze(ctx context.Context, req Request) (*models.Report, error) {
	req.Ticker = utils.FormatTicker(req.Ticker)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	s.logger.Info().Str("ticker", req.Ticker).Int("days", req.Days).Int("max_articles", req.MaxArticles).Msg("starting analysis")

	articles := s.collector.CollectAll(ctx, req.Ticker, req.Days, req.MaxArticles)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collecting news for %s: %w", req.Ticker, err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w for ticker %s", ErrNoArticles, req.Ticker)
	}
	s.logger.Info().Str("ticker", req.Ticker).Int("articles", len(articles)).Msg("collected articles")

	analyzed := s.analyzer.AnalyzeArticles(ctx, articles)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyzing sentiment for %s: %w", req.Ticker, err)
	}

	agg := sentiment.Aggregate(analyzed)
	result := s.scorer.Score(agg, analyzed)
	r := s.reports.Generate(ctx, req.Ticker, agg, analyzed, result)

	s.logger.Info().Str("ticker", req.Ticker).
		Float64("score", result.OverallScore).
		Str("recommendation", string(result.Recommendation)).
		Str("confidence", string(result.Confidence)).
		Msg("analysis complete")
	return &r, nil
}

// StockInfo returns metadata for ticker. Lookup failures yield the fallback
// record; only an invalid ticker is an error.
func (s *Service) StockInfo(ctx context.Context, ticker string) (models.StockInfo, error) {
	ticker = utils.FormatTicker(ticker)
	if !utils.IsValidTicker(ticker) {
		return models.StockInfo{}, invalidTicker(ticker)
	}
	if s.stocks == nil {
		return models.FallbackStockInfo(ticker), nil
	}
	info, err := s.stocks.Lookup(ctx, ticker)
	if err != nil {
		s.logger.Error().Err(err).Str("ticker", ticker).Msg("error fetching stock info")
		return models.FallbackStockInfo(ticker), nil
	}
	return info, nil
}

// Components reports the configured stages, for health checks.
func (s *Service) Components() map[string]string {
	names := make([]string, 0, len(s.collector.Fetchers()))
	for _, f := range s.collector.Fetchers() {
		names = append(names, f.Name())
	}
	stocks := "fallback"
	if s.stocks != nil {
		stocks = "ok"
	}
	return map[string]string{
		"news_collector":     strings.Join(names, ", "),
		"sentiment_analyzer": s.classifier,
		"stock_scorer":       "ok",
		"stock_info":         stocks,
	}
}

func (s *Service) validateRequest(req Request) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	switch fe := verrs[0]; fe.Field() {
	case "Ticker":
		return invalidTicker(req.Ticker)
	case "Days":
		return fmt.Errorf("%w: days must be between 1 and 30, got %d", ErrInvalidInput, req.Days)
	case "MaxArticles":
		return fmt.Errorf("%w: max_articles must be between 1 and 100, got %d", ErrInvalidInput, req.MaxArticles)
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidInput, fe.Field(), fe.Tag())
	}
}

func invalidTicker(ticker string) error {
	return fmt.Errorf("%w: invalid ticker symbol %q, please provide a valid stock ticker", ErrInvalidInput, ticker)
}

func classifierName(c sentiment.Classifier) string {
	switch c := c.(type) {
	case *sentiment.FinBERT:
		return sentiment.ProviderFinBERT + " (" + c.Model() + ")"
	case *sentiment.Lexicon:
		return sentiment.ProviderLexicon
	default:
		return "custom"
	}
}
