package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/davidkellner/molscope/internal/chem"
)

// PredictorClient implements PropertySource against an ADMET-style property
// prediction service speaking JSON over HTTP.
type PredictorClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Compile-time check that PredictorClient implements PropertySource.
var _ PropertySource = (*PredictorClient)(nil)

// NewPredictorClient creates a property predictor adapter.
func NewPredictorClient(baseURL string, logger *slog.Logger) *PredictorClient {
	return &PredictorClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

type predictRequest struct {
	SMILES string `json:"smiles"`
}

type predictResponse struct {
	LogP     *float64 `json:"log_p"`
	LogS     *float64 `json:"log_s"`
	Toxicity *float64 `json:"toxicity"`
}

// Predict requests property predictions for a SMILES string.
func (c *PredictorClient) Predict(ctx context.Context, smiles string) (*chem.PropertyPrediction, error) {
	body, err := json.Marshal(predictRequest{SMILES: smiles})
	if err != nil {
		return nil, notFound(c.logger, "predictor request marshal failed", "error", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, notFound(c.logger, "predictor request build failed", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, notFound(c.logger, "predictor request failed", "smiles", smiles, "error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, notFound(c.logger, "predictor non-200 response", "smiles", smiles, "status", resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, notFound(c.logger, "predictor response malformed", "smiles", smiles, "error", err)
	}

	prediction := &chem.PropertyPrediction{
		LogP:          parsed.LogP,
		LogS:          parsed.LogS,
		ToxicityScore: parsed.Toxicity,
	}
	if err := prediction.Validate(); err != nil {
		return nil, notFound(c.logger, "predictor values invalid", "smiles", smiles, "error", err)
	}
	if prediction.Empty() {
		return nil, notFound(c.logger, "predictor returned no properties", "smiles", smiles)
	}
	return prediction, nil
}
