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

const (
	defaultYFinanceURL = "https://query1.finance.yahoo.com"
	stockInfoTTL       = 5 * time.Minute
)

// YFinance resolves stock metadata from the Yahoo Finance quote endpoints.
type YFinance struct {
	baseURL string
	client  *http.Client
	cache   *infra.Cache[models.StockInfo]
	limiter *infra.RateLimiter
}

// NewYFinance creates a Yahoo Finance metadata source. opts.CacheTTL is
// ignored; lookups are cached for five minutes.
func NewYFinance(opts Options) *YFinance {
	return &YFinance{
		baseURL: opts.baseURL(defaultYFinanceURL),
		client:  opts.client(),
		cache:   infra.NewCache[models.StockInfo](stockInfoTTL),
		limiter: opts.limiter(),
	}
}

// Name returns the data source name.
func (y *YFinance) Name() string { return "Yahoo Finance" }

// --- Yahoo Finance API types ---

type yfQuoteResponse struct {
	QuoteResponse struct {
		Result []yfQuoteResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"quoteResponse"`
}

type yfQuoteResult struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	MarketCap                  *float64 `json:"marketCap"`
}

type yfSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile *yfAssetProfile `json:"assetProfile"`
		} `json:"result"`
		Error *yfError `json:"error"`
	} `json:"quoteSummary"`
}

type yfAssetProfile struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Lookup returns company name, prices, sector and industry for ticker.
// A failed profile request leaves sector and industry as "Unknown";
// a failed quote request is returned as an error.
func (y *YFinance) Lookup(ctx context.Context, ticker string) (models.StockInfo, error) {
	ticker = utils.FormatTicker(ticker)

	if cached, ok := y.cache.Get(ticker); ok {
		return cached, nil
	}

	quote, err := y.quote(ctx, ticker)
	if err != nil {
		return models.StockInfo{}, err
	}

	info := models.StockInfo{
		Ticker:        ticker,
		CompanyName:   coalesce(quote.LongName, quote.ShortName, ticker),
		Sector:        models.UnknownField,
		Industry:      models.UnknownField,
		MarketCap:     quote.MarketCap,
		CurrentPrice:  quote.RegularMarketPrice,
		PreviousClose: quote.RegularMarketPreviousClose,
	}
	info.DayChangePercent = models.DayChangePercent(info.CurrentPrice, info.PreviousClose)

	if profile, err := y.profile(ctx, ticker); err == nil {
		info.Sector = coalesce(profile.Sector, models.UnknownField)
		info.Industry = coalesce(profile.Industry, models.UnknownField)
	}

	y.cache.Set(ticker, info)
	return info, nil
}

func (y *YFinance) quote(ctx context.Context, ticker string) (*yfQuoteResult, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.baseURL, url.QueryEscape(ticker))
	var resp yfQuoteResponse
	if err := getJSON(ctx, y.client, u, &resp); err != nil {
		return nil, fmt.Errorf("yfinance quote %s: %w", ticker, err)
	}
	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return &resp.QuoteResponse.Result[0], nil
}

func (y *YFinance) profile(ctx context.Context, ticker string) (*yfAssetProfile, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile", y.baseURL, url.PathEscape(ticker))
	var resp yfSummaryResponse
	if err := getJSON(ctx, y.client, u, &resp); err != nil {
		return nil, fmt.Errorf("yfinance profile %s: %w", ticker, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 || resp.QuoteSummary.Result[0].AssetProfile == nil {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return resp.QuoteSummary.Result[0].AssetProfile, nil
}
