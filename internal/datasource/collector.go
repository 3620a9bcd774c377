package datasource

import (
	"context"
	"sort"
	"strings"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

// Collector merges news from several providers into one deduplicated,
// newest-first list. Provider failures are logged and never abort collection.
type Collector struct {
	fetchers   []Fetcher
	concurrent bool
	logger     *log.Logger
}

// NewCollector creates a collector over fetchers. Output keeps the order of
// fetchers regardless of concurrent, which only controls whether fetches overlap.
func NewCollector(logger *log.Logger, concurrent bool, fetchers ...Fetcher) *Collector {
	return &Collector{
		fetchers:   fetchers,
		concurrent: concurrent,
		logger:     logger,
	}
}

// Fetchers returns the registered providers in collection order.
func (c *Collector) Fetchers() []Fetcher { return c.fetchers }

// CollectAll fetches news for ticker from every provider, removes duplicate
// titles, sorts by published_at descending and keeps at most maxArticles.
func (c *Collector) CollectAll(ctx context.Context, ticker string, days, maxArticles int) []models.Article {
	ticker = utils.FormatTicker(ticker)
	c.logger.Info().Str("ticker", ticker).Int("days", days).Msg("collecting news from all sources")

	results := make([][]models.Article, len(c.fetchers))
	if c.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for i, f := range c.fetchers {
			g.Go(func() error {
				results[i] = c.fetchOne(gctx, f, ticker, days)
				return nil
			})
		}
		_ = g.Wait() // fetchOne never fails
	} else {
		for i, f := range c.fetchers {
			results[i] = c.fetchOne(ctx, f, ticker, days)
		}
	}

	var all []models.Article
	for _, r := range results {
		all = append(all, r...)
	}

	unique := dedupByTitle(all)
	sortNewestFirst(unique)
	if maxArticles >= 0 && len(unique) > maxArticles {
		unique = unique[:maxArticles]
	}

	c.logger.Info().Str("ticker", ticker).Int("articles", len(unique)).Msg("total unique articles collected")
	return unique
}

// fetchOne runs a single provider, converting any failure into an empty result.
func (c *Collector) fetchOne(ctx context.Context, f Fetcher, ticker string, days int) []models.Article {
	articles, err := f.Fetch(ctx, ticker, days)
	if err != nil {
		c.logger.Error().Err(err).Str("provider", f.Name()).Str("ticker", ticker).Msg("news fetch failed")
		return nil
	}
	c.logger.Info().Str("provider", f.Name()).Str("ticker", ticker).Int("articles", len(articles)).Msg("collected articles")
	return articles
}

// dedupByTitle keeps the first article for each case-insensitive title.
// Articles with an empty title are always kept.
func dedupByTitle(articles []models.Article) []models.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		key := strings.ToLower(a.Title)
		if key != "" {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, a)
	}
	return out
}

// sortNewestFirst orders articles by published_at descending using plain
// string comparison; ties keep their input order.
func sortNewestFirst(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt > articles[j].PublishedAt
	})
}
