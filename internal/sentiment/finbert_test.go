package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinBERTClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/ProsusAI/finbert", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req hfRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Apple beats estimates", req.Inputs)

		_, _ = w.Write([]byte(`[[{"label":"positive","score":0.82},{"label":"neutral","score":0.12},{"label":"negative","score":0.06}]]`))
	}))
	defer srv.Close()

	f := NewFinBERT("hf_test", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
	p, err := f.Classify(context.Background(), "  Apple   beats estimates ")
	require.NoError(t, err)

	assert.InDelta(t, 0.82, p.Positive, 1e-9)
	assert.InDelta(t, 0.06, p.Negative, 1e-9)
	assert.InDelta(t, 0.12, p.Neutral, 1e-9)
	assert.InDelta(t, 0.76, p.Score(), 1e-9)
}

func TestFinBERTFlatResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"Negative","score":0.7},{"label":"Neutral","score":0.2},{"label":"Positive","score":0.1}]`))
	}))
	defer srv.Close()

	f := NewFinBERT("", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	p, err := f.Classify(context.Background(), "Shares slump")
	require.NoError(t, err)
	assert.InDelta(t, -0.6, p.Score(), 1e-9)
}

func TestFinBERTTruncatesInput(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req hfRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		got = req.Inputs
		_, _ = w.Write([]byte(`[[{"label":"neutral","score":1}]]`))
	}))
	defer srv.Close()

	f := NewFinBERT("", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := f.Classify(context.Background(), strings.Repeat("é", 600))
	require.NoError(t, err)
	assert.Equal(t, MaxInputRunes, utf8.RuneCountInString(got))
}

func TestFinBERTEmptyTextSkipsAPI(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	f := NewFinBERT("", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	p, err := f.Classify(context.Background(), " \n ")
	require.NoError(t, err)
	assert.Equal(t, NeutralProbabilities, p)
	assert.Zero(t, calls.Load())
}

func TestFinBERTErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"loading", http.StatusServiceUnavailable, `{"error":"Model ProsusAI/finbert is currently loading","estimated_time":20}`, ErrModelUnavailable},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid credentials"}`, nil},
		{"garbage", http.StatusOK, `not json`, nil},
		{"no labels", http.StatusOK, `[[{"label":"LABEL_0","score":1}]]`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			f := NewFinBERT("", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
			_, err := f.Classify(context.Background(), "text")
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
