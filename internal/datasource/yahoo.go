package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/stocksentinel/internal/infra"
	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

const defaultYahooFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

// YahooFinance reads the per-ticker Yahoo Finance headline RSS feed.
// No credential is required.
type YahooFinance struct {
	baseURL string
	client  *http.Client
	cache   *infra.Cache[[]models.Article]
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
}

// NewYahooFinance creates a Yahoo Finance headline fetcher.
func NewYahooFinance(opts Options) *YahooFinance {
	return &YahooFinance{
		baseURL: opts.baseURL(defaultYahooFeedURL),
		client:  opts.client(),
		cache:   infra.NewCache[[]models.Article](opts.CacheTTL),
		limiter: opts.limiter(),
		parser:  gofeed.NewParser(),
	}
}

// Name returns the provider name.
func (y *YahooFinance) Name() string { return "Yahoo Finance" }

// Fetch returns the current headline feed for ticker. The feed has no date
// filter, so days only participates in the cache key.
func (y *YahooFinance) Fetch(ctx context.Context, ticker string, days int) ([]models.Article, error) {
	ticker = utils.FormatTicker(ticker)

	cacheKey := fmt.Sprintf("%s:%d", ticker, days)
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached, nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("s", ticker)
	params.Set("region", "US")
	params.Set("lang", "en-US")

	body, _, err := doGet(ctx, y.client, y.baseURL+"?"+params.Encode(), map[string]string{
		"Accept": "application/rss+xml, application/xml, text/xml",
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo finance feed %s: %w", ticker, err)
	}
	defer body.Close()

	feed, err := y.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse yahoo finance feed %s: %w", ticker, err)
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		summary := cleanHTML(item.Description)
		a := models.Article{
			Source:      models.SourceYahooFinance,
			Title:       strings.TrimSpace(item.Title),
			Description: summary,
			Content:     summary,
			URL:         item.Link,
			SourceName:  coalesce(publisher(item), "Yahoo Finance"),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = utils.FormatTimestamp(*item.PublishedParsed)
		} else {
			a.PublishedAt = item.Published
		}
		articles = append(articles, a)
	}

	y.cache.Set(cacheKey, articles)
	return articles, nil
}

// publisher returns the first named author of a feed item, if any.
func publisher(item *gofeed.Item) string {
	for _, p := range item.Authors {
		if p != nil && p.Name != "" {
			return p.Name
		}
	}
	return ""
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
