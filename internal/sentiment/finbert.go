package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHFBaseURL = "https://api-inference.huggingface.co"
	defaultModel     = "ProsusAI/finbert"

	// MaxInputRunes bounds the text sent to the model; FinBERT accepts 512 tokens.
	MaxInputRunes = 512
)

// ErrModelUnavailable is returned when the inference endpoint reports the
// model as unavailable, e.g. while it is still loading.
var ErrModelUnavailable = errors.New("sentiment model unavailable")

// FinBERT classifies text with a FinBERT model served by the Hugging Face
// Inference API. It holds no per-call state and is safe for concurrent use.
type FinBERT struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

// FinBERTOption configures the FinBERT classifier.
type FinBERTOption func(*FinBERT)

// WithBaseURL overrides the inference API base URL. Empty keeps the default.
func WithBaseURL(baseURL string) FinBERTOption {
	return func(f *FinBERT) {
		if baseURL != "" {
			f.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithModel sets the model repository id. Empty keeps the default.
func WithModel(model string) FinBERTOption {
	return func(f *FinBERT) {
		if model != "" {
			f.model = model
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FinBERTOption {
	return func(f *FinBERT) { f.client = client }
}

// NewFinBERT creates a FinBERT classifier. token may be empty for anonymous access.
func NewFinBERT(token string, opts ...FinBERTOption) *FinBERT {
	f := &FinBERT{
		baseURL: defaultHFBaseURL,
		model:   defaultModel,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Model returns the model repository id.
func (f *FinBERT) Model() string { return f.model }

type hfRequest struct {
	Inputs  string         `json:"inputs"`
	Options map[string]any `json:"options,omitempty"`
}

type hfLabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Classify returns FinBERT's class probabilities for text.
// Empty text yields NeutralProbabilities without calling the API.
func (f *FinBERT) Classify(ctx context.Context, text string) (Probabilities, error) {
	text = CleanText(text)
	if text == "" {
		return NeutralProbabilities, nil
	}
	if r := []rune(text); len(r) > MaxInputRunes {
		text = string(r[:MaxInputRunes])
	}

	data, err := json.Marshal(hfRequest{
		Inputs:  text,
		Options: map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return Probabilities{}, fmt.Errorf("finbert: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/models/"+f.model, bytes.NewReader(data))
	if err != nil {
		return Probabilities{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Probabilities{}, fmt.Errorf("finbert: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Probabilities{}, fmt.Errorf("finbert: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if resp.StatusCode == http.StatusServiceUnavailable {
				return Probabilities{}, fmt.Errorf("%w: %s", ErrModelUnavailable, apiErr.Error)
			}
			return Probabilities{}, fmt.Errorf("finbert: HTTP %d: %s", resp.StatusCode, apiErr.Error)
		}
		return Probabilities{}, fmt.Errorf("finbert: HTTP %d: %s", resp.StatusCode, truncate(string(body), 256))
	}

	scores, err := parseLabelScores(body)
	if err != nil {
		return Probabilities{}, err
	}
	return toProbabilities(scores)
}

// parseLabelScores accepts both the batched [[{label,score}...]] and the
// flat [{label,score}...] response shapes.
func parseLabelScores(body []byte) ([]hfLabelScore, error) {
	var batched [][]hfLabelScore
	if err := json.Unmarshal(body, &batched); err == nil {
		if len(batched) == 0 {
			return nil, fmt.Errorf("finbert: empty response")
		}
		return batched[0], nil
	}
	var flat []hfLabelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("finbert: decode response: %w", err)
	}
	return flat, nil
}

func toProbabilities(scores []hfLabelScore) (Probabilities, error) {
	var p Probabilities
	seen := 0
	for _, s := range scores {
		switch strings.ToLower(s.Label) {
		case "positive":
			p.Positive = s.Score
		case "negative":
			p.Negative = s.Score
		case "neutral":
			p.Neutral = s.Score
		default:
			continue
		}
		seen++
	}
	if seen == 0 {
		return Probabilities{}, fmt.Errorf("finbert: response has no sentiment labels")
	}
	return p, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
