package api

import (
	"net/http"

	"github.com/seenimoa/stocksentinel/internal/config"
)

// ConfigResponse is the body of GET /api/config. Secrets are reported only
// as masked key status.
type ConfigResponse struct {
	Providers  ProvidersView      `json:"providers"`
	Classifier ClassifierView     `json:"classifier"`
	Analysis   AnalysisView       `json:"analysis"`
	Keys       []config.KeyStatus `json:"keys"`
}

// ProvidersView is the non-secret part of config.ProvidersConfig.
type ProvidersView struct {
	TimeoutSec int     `json:"timeout_sec"`
	CacheTTL   int     `json:"cache_ttl"`
	RatePerSec float64 `json:"rate_per_sec"`
	Concurrent bool    `json:"concurrent"`
}

// ClassifierView is the non-secret part of config.ClassifierConfig.
type ClassifierView struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
}

// AnalysisView mirrors config.AnalysisConfig.
type AnalysisView struct {
	DefaultDays        int `json:"default_days"`
	DefaultMaxArticles int `json:"default_max_articles"`
}

// handleGetConfig returns the running configuration with secrets masked.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, newConfigResponse(s.cfg))
}

func newConfigResponse(cfg *config.Config) ConfigResponse {
	return ConfigResponse{
		Providers: ProvidersView{
			TimeoutSec: cfg.Providers.TimeoutSec,
			CacheTTL:   cfg.Providers.CacheTTL,
			RatePerSec: cfg.Providers.RatePerSec,
			Concurrent: cfg.Providers.Concurrent,
		},
		Classifier: ClassifierView{
			Provider: cfg.Classifier.Provider,
			Model:    cfg.Classifier.Model,
			BaseURL:  cfg.Classifier.BaseURL,
		},
		Analysis: AnalysisView{
			DefaultDays:        cfg.Analysis.DefaultDays,
			DefaultMaxArticles: cfg.Analysis.DefaultMaxArticles,
		},
		Keys: config.CheckAPIKeys(cfg),
	}
}
