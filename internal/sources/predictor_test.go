package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictorPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CCO", req.SMILES)

		w.Write([]byte(`{"log_p":-0.14,"log_s":1.1,"toxicity":0.08}`))
	}))
	defer server.Close()

	client := NewPredictorClient(server.URL, testLogger())

	prediction, err := client.Predict(context.Background(), "CCO")
	require.NoError(t, err)
	require.NotNil(t, prediction.LogP)
	assert.InDelta(t, -0.14, *prediction.LogP, 0.001)
	require.NotNil(t, prediction.ToxicityScore)
	assert.InDelta(t, 0.08, *prediction.ToxicityScore, 0.001)
}

func TestPredictorPartialPropertiesAreValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"log_p":2.1}`))
	}))
	defer server.Close()

	client := NewPredictorClient(server.URL, testLogger())

	prediction, err := client.Predict(context.Background(), "c1ccccc1")
	require.NoError(t, err)
	assert.NotNil(t, prediction.LogP)
	assert.Nil(t, prediction.LogS)
	assert.Nil(t, prediction.ToxicityScore)
}

func TestPredictorFailureModesFoldIntoNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"all properties absent", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}},
		{"toxicity out of range", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"toxicity":3.2}`))
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewPredictorClient(server.URL, testLogger())
			_, err := client.Predict(context.Background(), "CCO")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
