package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stocksentinel/internal/logging"
	"github.com/seenimoa/stocksentinel/pkg/models"
)

type fakeFetcher struct {
	name     string
	articles []models.Article
	err      error
	gotTick  string
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(_ context.Context, ticker string, _ int) ([]models.Article, error) {
	f.gotTick = ticker
	return f.articles, f.err
}

func art(src models.ArticleSource, title, published string) models.Article {
	return models.Article{Source: src, Title: title, PublishedAt: published}
}

func TestCollectAllMergesInProviderOrder(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		newsapi := &fakeFetcher{name: "NewsAPI", articles: []models.Article{
			art(models.SourceNewsAPI, "Same time A", "2024-01-01T00:00:00Z"),
		}}
		finnhub := &fakeFetcher{name: "Finnhub", articles: []models.Article{
			art(models.SourceFinnhub, "Same time B", "2024-01-01T00:00:00Z"),
		}}
		yahoo := &fakeFetcher{name: "Yahoo Finance", articles: []models.Article{
			art(models.SourceYahooFinance, "Same time C", "2024-01-01T00:00:00Z"),
		}}

		c := NewCollector(logging.Nop(), concurrent, newsapi, finnhub, yahoo)
		got := c.CollectAll(context.Background(), " aapl ", 7, 50)

		require.Len(t, got, 3)
		// Equal timestamps keep provider order.
		assert.Equal(t, "Same time A", got[0].Title)
		assert.Equal(t, "Same time B", got[1].Title)
		assert.Equal(t, "Same time C", got[2].Title)
		assert.Equal(t, "AAPL", newsapi.gotTick)
	}
}

func TestCollectAllDedupSortTruncate(t *testing.T) {
	newsapi := &fakeFetcher{name: "NewsAPI", articles: []models.Article{
		art(models.SourceNewsAPI, "Apple Rallies", "2024-01-01T10:00:00Z"),
		art(models.SourceNewsAPI, "", "2024-01-03T10:00:00Z"),
	}}
	finnhub := &fakeFetcher{name: "Finnhub", articles: []models.Article{
		art(models.SourceFinnhub, "apple rallies", "2024-01-05T10:00:00Z"),
		art(models.SourceFinnhub, "", "2024-01-02T10:00:00Z"),
		art(models.SourceFinnhub, "Apple slides", "2024-01-04T10:00:00Z"),
	}}

	c := NewCollector(logging.Nop(), false, newsapi, finnhub)

	got := c.CollectAll(context.Background(), "AAPL", 7, 50)
	require.Len(t, got, 4)
	assert.Equal(t, "Apple slides", got[0].Title)
	assert.Equal(t, "", got[1].Title)
	assert.Equal(t, "2024-01-03T10:00:00Z", got[1].PublishedAt)
	assert.Equal(t, "", got[2].Title)
	assert.Equal(t, "Apple Rallies", got[3].Title)
	assert.Equal(t, models.SourceNewsAPI, got[3].Source, "first occurrence wins")

	got = c.CollectAll(context.Background(), "AAPL", 7, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Apple slides", got[0].Title)
}

func TestCollectAllToleratesProviderFailure(t *testing.T) {
	failing := &fakeFetcher{name: "NewsAPI", err: ErrMissingCredential}
	broken := &fakeFetcher{name: "Finnhub", err: errors.New("connection reset")}
	yahoo := &fakeFetcher{name: "Yahoo Finance", articles: []models.Article{
		art(models.SourceYahooFinance, "Only one", "2024-01-01T00:00:00Z"),
	}}

	c := NewCollector(logging.Nop(), true, failing, broken, yahoo)
	got := c.CollectAll(context.Background(), "AAPL", 7, 50)

	require.Len(t, got, 1)
	assert.Equal(t, "Only one", got[0].Title)
}

func TestCollectAllNoArticles(t *testing.T) {
	c := NewCollector(logging.Nop(), true, &fakeFetcher{name: "NewsAPI"})
	assert.Empty(t, c.CollectAll(context.Background(), "AAPL", 7, 50))
}

func TestSortNewestFirstLexicographic(t *testing.T) {
	articles := []models.Article{
		{Title: "malformed", PublishedAt: "yesterday"},
		{Title: "empty", PublishedAt: ""},
		{Title: "iso", PublishedAt: "2024-01-01T00:00:00Z"},
	}
	sortNewestFirst(articles)

	// Plain string ordering: "y" > "2" > "".
	assert.Equal(t, []string{"malformed", "iso", "empty"},
		[]string{articles[0].Title, articles[1].Title, articles[2].Title})
}
