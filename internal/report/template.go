package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

// RenderHTML writes r as a standalone HTML page.
func RenderHTML(w io.Writer, r models.Report) error {
	if err := htmlTemplate.Execute(w, newHTMLView(r)); err != nil {
		return fmt.Errorf("rendering html report: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("report").Parse(reportTemplate))

type htmlView struct {
	Report      models.Report
	CompanyName string
	Sector      string
	Industry    string
	Price       string
	DayChange   string
	DayClass    string
	MarketCap   string
	RecClass    string
	Confidence  string
	Label       string
	PositivePct float64
	NegativePct float64
	Articles    []htmlArticle
}

type htmlArticle struct {
	models.TopArticle
	Class string
	Label string
}

func newHTMLView(r models.Report) htmlView {
	info := r.StockInfo
	v := htmlView{
		Report:      r,
		CompanyName: orDefault(info.CompanyName, r.Ticker),
		Sector:      orDefault(info.Sector, models.UnknownField),
		Industry:    orDefault(info.Industry, models.UnknownField),
		RecClass:    recommendationClass(r.Scoring.Recommendation),
		Confidence:  upper(string(r.Scoring.Confidence), "MEDIUM"),
		Label:       upper(string(r.SentimentAnalysis.OverallLabel), "NEUTRAL"),
		PositivePct: r.SentimentAnalysis.PositiveRatio * 100,
		NegativePct: r.SentimentAnalysis.NegativeRatio * 100,
	}
	if info.CurrentPrice != nil && *info.CurrentPrice != 0 {
		v.Price = utils.FormatUSD(*info.CurrentPrice)
		v.DayChange = utils.FormatPct(info.DayChangePercent)
		v.DayClass = signClass(info.DayChangePercent)
	}
	if info.MarketCap != nil && *info.MarketCap > 0 {
		v.MarketCap = utils.FormatCompactUSD(*info.MarketCap)
	}
	for _, a := range r.TopArticles {
		v.Articles = append(v.Articles, htmlArticle{
			TopArticle: a,
			Class:      labelClass(a.SentimentLabel),
			Label:      upper(string(a.SentimentLabel), "NEUTRAL"),
		})
	}
	return v
}

// recommendationClass maps a tier to one of the five rec-box styles.
func recommendationClass(rec models.Recommendation) string {
	switch rec {
	case models.StrongBuy:
		return "strong-buy"
	case models.Buy, models.WeakBuy:
		return "buy"
	case models.WeakSell, models.Sell:
		return "sell"
	case models.StrongSell:
		return "strong-sell"
	default:
		return "hold"
	}
}

func labelClass(l models.SentimentLabel) string {
	switch l {
	case models.LabelBullish:
		return "buy"
	case models.LabelBearish:
		return "sell"
	default:
		return "neutral"
	}
}

func signClass(v float64) string {
	switch {
	case v > 0:
		return "positive"
	case v < 0:
		return "negative"
	default:
		return ""
	}
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Report.Ticker}} sentiment analysis</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1 { font-size: 1.5rem; margin-bottom: 4px; font-weight: 600; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); font-weight: 600; }
  .muted { color: var(--muted); font-size: 0.85rem; }
  .header { display: flex; justify-content: space-between; border-bottom: 3px solid var(--accent); padding-bottom: 12px; margin-bottom: 16px; }
  .ticker-badge { display: inline-block; background: var(--accent); color: white; padding: 2px 12px; border-radius: 4px; font-weight: 700; margin-right: 8px; }
  .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(140px, 1fr)); gap: 8px; background: var(--section-bg); padding: 12px; border-radius: 8px; }
  .item { text-align: center; }
  .item .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .item .value { font-size: 1rem; font-weight: 600; }
  .positive { color: var(--green); }
  .negative { color: var(--red); }
  .rec-box { padding: 16px; border-radius: 8px; margin: 12px 0; }
  .rec-box.strong-buy { background: #dcfce7; border-left: 5px solid var(--green); }
  .rec-box.buy { background: #ecfdf5; border-left: 5px solid #22c55e; }
  .rec-box.hold { background: #fefce8; border-left: 5px solid #eab308; }
  .rec-box.sell { background: #fef2f2; border-left: 5px solid #f97316; }
  .rec-box.strong-sell { background: #fef2f2; border-left: 5px solid var(--red); }
  .rec-label { font-size: 1.4rem; font-weight: 700; }
  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 8px; font-weight: 600; }
  td { padding: 8px; border-bottom: 1px solid var(--border); }
  .signal-badge { display: inline-block; padding: 1px 8px; border-radius: 3px; font-size: 0.8rem; font-weight: 600; }
  .signal-badge.buy { background: #dcfce7; color: var(--green); }
  .signal-badge.sell { background: #fef2f2; color: var(--red); }
  .signal-badge.neutral { background: #f3f4f6; color: var(--muted); }
  .footer { margin-top: 30px; padding-top: 12px; border-top: 2px solid var(--border); font-size: 0.8rem; color: var(--muted); text-align: center; }
  @media print { body { max-width: 100%; padding: 10px; } }
</style>
</head>
<body>

<div class="header">
  <div>
    <h1><span class="ticker-badge">{{.Report.Ticker}}</span> {{.CompanyName}}</h1>
    <p class="muted">{{.Sector}} · {{.Industry}}</p>
  </div>
  <p class="muted">{{.Report.AnalysisDate}}</p>
</div>

{{if .Price}}
<div class="grid">
  <div class="item"><div class="label">Price</div><div class="value">{{.Price}}</div></div>
  <div class="item"><div class="label">Day Change</div><div class="value {{.DayClass}}">{{.DayChange}}</div></div>
  {{if .MarketCap}}<div class="item"><div class="label">Market Cap</div><div class="value">{{.MarketCap}}</div></div>{{end}}
</div>
{{end}}

<h2>Recommendation</h2>
<div class="rec-box {{.RecClass}}">
  <div class="rec-label">{{.Report.Scoring.Recommendation}}</div>
  <div class="muted">Score {{printf "%.1f" .Report.Scoring.OverallScore}}/100 · Confidence: {{.Confidence}}</div>
</div>
{{with .Report.Scoring.Components}}
<div class="grid">
  <div class="item"><div class="label">Sentiment</div><div class="value">{{printf "%+.3f" .Sentiment}}</div></div>
  <div class="item"><div class="label">Consistency</div><div class="value">{{printf "%+.3f" .Consistency}}</div></div>
  <div class="item"><div class="label">Volume</div><div class="value">{{printf "%+.3f" .Volume}}</div></div>
  <div class="item"><div class="label">Recency</div><div class="value">{{printf "%+.3f" .Recency}}</div></div>
</div>
{{end}}

<h2>Sentiment ({{.Report.SentimentAnalysis.ArticleCount}} articles)</h2>
{{with .Report.SentimentAnalysis}}
<div class="grid">
  <div class="item"><div class="label">Overall</div><div class="value">{{$.Label}}</div></div>
  <div class="item"><div class="label">Mean</div><div class="value">{{printf "%.3f" .MeanScore}}</div></div>
  <div class="item"><div class="label">Median</div><div class="value">{{printf "%.3f" .MedianScore}}</div></div>
  <div class="item"><div class="label">Std Dev</div><div class="value">{{printf "%.3f" .StdScore}}</div></div>
  <div class="item"><div class="label">Positive</div><div class="value positive">{{printf "%.1f%%" $.PositivePct}}</div></div>
  <div class="item"><div class="label">Negative</div><div class="value negative">{{printf "%.1f%%" $.NegativePct}}</div></div>
</div>
{{end}}

{{if .Articles}}
<h2>Top Articles</h2>
<table>
  <thead><tr><th>Title</th><th>Sentiment</th><th>Score</th><th>Published</th></tr></thead>
  <tbody>
  {{range .Articles}}
  <tr>
    <td>{{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td>
    <td><span class="signal-badge {{.Class}}">{{.Label}}</span></td>
    <td>{{printf "%+.3f" .SentimentScore}}</td>
    <td class="muted">{{.PublishedAt}}</td>
  </tr>
  {{end}}
  </tbody>
</table>
{{end}}

<div class="footer">
  <p><strong>Disclaimer:</strong> generated from news sentiment for educational purposes. Not financial advice.</p>
</div>

</body>
</html>`
