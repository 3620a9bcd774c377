package sentiment

import (
	"context"

	"github.com/phuslu/log"

	"github.com/seenimoa/stocksentinel/pkg/models"
)

// progressEvery controls how often AnalyzeArticles logs progress.
const progressEvery = 10

// Analyzer attaches sentiment to articles using a shared Classifier.
type Analyzer struct {
	classifier Classifier
	logger     *log.Logger
}

// NewAnalyzer creates an analyzer over classifier.
func NewAnalyzer(classifier Classifier, logger *log.Logger) *Analyzer {
	return &Analyzer{classifier: classifier, logger: logger}
}

// AnalyzeArticle classifies "title description" and returns a copy of a with
// Sentiment and SentimentLabel set.
func (an *Analyzer) AnalyzeArticle(ctx context.Context, a models.Article) (models.Article, error) {
	probs, err := an.classifier.Classify(ctx, a.Title+" "+a.Description)
	if err != nil {
		return a, err
	}
	score := probs.Score()
	a.Sentiment = &models.Sentiment{
		Positive: probs.Positive,
		Negative: probs.Negative,
		Neutral:  probs.Neutral,
		Score:    score,
	}
	a.SentimentLabel = LabelFor(score)
	return a, nil
}

// AnalyzeArticles classifies articles one at a time, in order. An article
// whose classification fails is logged and left out of the result.
func (an *Analyzer) AnalyzeArticles(ctx context.Context, articles []models.Article) []models.Article {
	an.logger.Info().Int("articles", len(articles)).Msg("analyzing article sentiment")

	analyzed := make([]models.Article, 0, len(articles))
	for i, a := range articles {
		if err := ctx.Err(); err != nil {
			an.logger.Warn().Err(err).Int("remaining", len(articles)-i).Msg("sentiment analysis cancelled")
			break
		}

		out, err := an.AnalyzeArticle(ctx, a)
		if err != nil {
			an.logger.Error().Err(err).Int("index", i).Str("title", a.Title).Msg("error analyzing article")
			continue
		}
		analyzed = append(analyzed, out)

		if (i+1)%progressEvery == 0 {
			an.logger.Info().Msgf("analyzed %d/%d articles", i+1, len(articles))
		}
	}

	an.logger.Info().Int("analyzed", len(analyzed)).Msg("sentiment analysis complete")
	return analyzed
}
