package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/seenimoa/stocksentinel/internal/infra"
	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

const defaultFinnhubURL = "https://finnhub.io/api/v1/company-news"

// Finnhub fetches company news from the finnhub.io REST API.
type Finnhub struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *infra.Cache[[]models.Article]
	limiter *infra.RateLimiter
	now     func() time.Time
}

// NewFinnhub creates a Finnhub fetcher.
func NewFinnhub(opts Options) *Finnhub {
	return &Finnhub{
		apiKey:  opts.APIKey,
		baseURL: opts.baseURL(defaultFinnhubURL),
		client:  opts.client(),
		cache:   infra.NewCache[[]models.Article](opts.CacheTTL),
		limiter: opts.limiter(),
		now:     time.Now,
	}
}

// Name returns the provider name.
func (f *Finnhub) Name() string { return "Finnhub" }

type finnhubNewsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// Fetch returns company news for ticker over the last days days.
func (f *Finnhub) Fetch(ctx context.Context, ticker string, days int) ([]models.Article, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("finnhub: %w", ErrMissingCredential)
	}
	ticker = utils.FormatTicker(ticker)

	cacheKey := fmt.Sprintf("%s:%d", ticker, days)
	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached, nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	from, to := utils.DateRange(f.now(), days)
	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("from", from)
	params.Set("to", to)
	params.Set("token", f.apiKey)

	var items []finnhubNewsItem
	if err := getJSON(ctx, f.client, f.baseURL+"?"+params.Encode(), &items); err != nil {
		return nil, fmt.Errorf("finnhub %s: %w", ticker, err)
	}

	articles := make([]models.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, models.Article{
			Source:      models.SourceFinnhub,
			Title:       item.Headline,
			Description: item.Summary,
			Content:     item.Summary,
			URL:         item.URL,
			PublishedAt: utils.FormatTimestamp(time.Unix(item.Datetime, 0)),
			SourceName:  coalesce(item.Source, "Finnhub"),
		})
	}

	f.cache.Set(cacheKey, articles)
	return articles, nil
}
