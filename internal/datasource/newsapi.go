package datasource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/seenimoa/stocksentinel/internal/infra"
	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

const (
	defaultNewsAPIURL = "https://newsapi.org/v2/everything"
	newsAPIPageSize   = 100
)

// NewsAPI fetches articles from the newsapi.org "everything" endpoint.
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *infra.Cache[[]models.Article]
	limiter *infra.RateLimiter
	now     func() time.Time
}

// NewNewsAPI creates a NewsAPI fetcher.
func NewNewsAPI(opts Options) *NewsAPI {
	return &NewsAPI{
		apiKey:  opts.APIKey,
		baseURL: opts.baseURL(defaultNewsAPIURL),
		client:  opts.client(),
		cache:   infra.NewCache[[]models.Article](opts.CacheTTL),
		limiter: opts.limiter(),
		now:     time.Now,
	}
}

// Name returns the provider name.
func (n *NewsAPI) Name() string { return "NewsAPI" }

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Fetch returns articles matching "<T> stock OR <T> shares" over the last days days.
func (n *NewsAPI) Fetch(ctx context.Context, ticker string, days int) ([]models.Article, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("newsapi: %w", ErrMissingCredential)
	}
	ticker = utils.FormatTicker(ticker)

	cacheKey := fmt.Sprintf("%s:%d", ticker, days)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached, nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	from, to := utils.DateRange(n.now(), days)
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s stock OR %s shares", ticker, ticker))
	params.Set("from", from)
	params.Set("to", to)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(newsAPIPageSize))
	params.Set("apiKey", n.apiKey)

	var resp newsAPIResponse
	if err := getJSON(ctx, n.client, n.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("newsapi %s: %w", ticker, err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("newsapi %s: %s", ticker, resp.Message)
	}

	articles := make([]models.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, models.Article{
			Source:      models.SourceNewsAPI,
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			SourceName:  coalesce(a.Source.Name, models.UnknownField),
		})
	}

	n.cache.Set(cacheKey, articles)
	return articles, nil
}
