package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

// summaryArticles is the number of top articles printed by WriteSummary.
const summaryArticles = 3

// WriteSummary writes a human-readable analysis summary for the terminal.
func WriteSummary(w io.Writer, r models.Report) error {
	_, err := io.WriteString(w, renderSummary(r))
	return err
}

func renderSummary(r models.Report) string {
	var sb strings.Builder
	line := strings.Repeat("═", 60)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  ANALYSIS SUMMARY: %s\n", r.Ticker))
	sb.WriteString(line + "\n")

	// Company info
	info := r.StockInfo
	sb.WriteString(fmt.Sprintf("\n  Company: %s\n", orDefault(info.CompanyName, r.Ticker)))
	sb.WriteString(fmt.Sprintf("  Sector: %s\n", orDefault(info.Sector, models.UnknownField)))
	if info.CurrentPrice != nil && *info.CurrentPrice != 0 {
		sb.WriteString(fmt.Sprintf("  Current Price: %s\n", utils.FormatUSD(*info.CurrentPrice)))
		sb.WriteString(fmt.Sprintf("  Day Change: %s\n", utils.FormatPct(info.DayChangePercent)))
	}
	if info.MarketCap != nil && *info.MarketCap > 0 {
		sb.WriteString(fmt.Sprintf("  Market Cap: %s\n", utils.FormatCompactUSD(*info.MarketCap)))
	}

	// Sentiment
	s := r.SentimentAnalysis
	sb.WriteString(fmt.Sprintf("\n  Sentiment Analysis (%d articles):\n", s.ArticleCount))
	sb.WriteString(fmt.Sprintf("    Mean Score: %.3f\n", s.MeanScore))
	sb.WriteString(fmt.Sprintf("    Overall Label: %s\n", upper(string(s.OverallLabel), "NEUTRAL")))
	sb.WriteString(fmt.Sprintf("    Positive Ratio: %.1f%%\n", s.PositiveRatio*100))
	sb.WriteString(fmt.Sprintf("    Negative Ratio: %.1f%%\n", s.NegativeRatio*100))

	// Score
	sc := r.Scoring
	sb.WriteString(fmt.Sprintf("\n  Stock Score: %.1f/100\n", sc.OverallScore))
	sb.WriteString(fmt.Sprintf("  Recommendation: %s\n", orDefault(string(sc.Recommendation), string(models.Hold))))
	sb.WriteString(fmt.Sprintf("  Confidence: %s\n", upper(string(sc.Confidence), "MEDIUM")))

	sb.WriteString("\n  Score Components:\n")
	sb.WriteString(fmt.Sprintf("    Sentiment: %+.3f\n", sc.Components.Sentiment))
	sb.WriteString(fmt.Sprintf("    Consistency: %+.3f\n", sc.Components.Consistency))
	sb.WriteString(fmt.Sprintf("    Volume: %+.3f\n", sc.Components.Volume))
	sb.WriteString(fmt.Sprintf("    Recency: %+.3f\n", sc.Components.Recency))

	// Top articles
	sb.WriteString("\n  Top Articles:\n")
	for i, a := range r.TopArticles {
		if i == summaryArticles {
			break
		}
		sb.WriteString(fmt.Sprintf("\n    %d. %s\n", i+1, a.Title))
		sb.WriteString(fmt.Sprintf("       Sentiment: %s (%+.3f)\n", upper(string(a.SentimentLabel), "NEUTRAL"), a.SentimentScore))
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString("  Disclaimer: generated from news sentiment for educational purposes.\n")
	sb.WriteString("  Not financial advice.\n")
	sb.WriteString(line + "\n")

	return sb.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func upper(s, def string) string {
	return strings.ToUpper(orDefault(s, def))
}
