package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidkellner/molscope/internal/chem"
)

// ChEMBLClient implements BioactivitySource against the EBI ChEMBL REST API.
type ChEMBLClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Compile-time check that ChEMBLClient implements BioactivitySource.
var _ BioactivitySource = (*ChEMBLClient)(nil)

// NewChEMBLClient creates a ChEMBL adapter.
func NewChEMBLClient(baseURL string, logger *slog.Logger) *ChEMBLClient {
	return &ChEMBLClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// LookupByName searches ChEMBL for a compound by preferred name and maps the
// best hit to a BioactivityRecord.
func (c *ChEMBLClient) LookupByName(ctx context.Context, name string) (*chem.BioactivityRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, notFound(c.logger, "chembl lookup requires a name")
	}

	reqURL := c.baseURL + "/molecule/search.json?limit=1&q=" + url.QueryEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, notFound(c.logger, "chembl request build failed", "name", name, "error", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, notFound(c.logger, "chembl request failed", "name", name, "error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, notFound(c.logger, "chembl non-200 response", "name", name, "status", resp.StatusCode)
	}

	var parsed chemblSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, notFound(c.logger, "chembl response malformed", "name", name, "error", err)
	}

	if len(parsed.Molecules) == 0 {
		return nil, notFound(c.logger, "chembl no match", "name", name)
	}

	record := mapMoleculeToRecord(&parsed.Molecules[0])
	if err := record.Validate(); err != nil {
		return nil, notFound(c.logger, "chembl record invalid", "name", name, "error", err)
	}

	c.logger.Debug("chembl match", "name", name, "chembl_id", record.ChEMBLID)
	return record, nil
}

// mapMoleculeToRecord normalizes a ChEMBL molecule into the internal shape.
// Fields that fail to parse are dropped rather than failing the record:
// every field beyond the identifier is independently optional.
func mapMoleculeToRecord(m *chemblMolecule) *chem.BioactivityRecord {
	record := &chem.BioactivityRecord{
		ChEMBLID:      m.MoleculeChEMBLID,
		PreferredName: m.PrefName,
		Description:   m.IndicationClass,
	}

	if phase, err := m.MaxPhase.Int64(); err == nil && phase >= 0 && phase <= 4 {
		p := int(phase)
		record.MaxPhase = &p
	}

	if m.MoleculeProperties != nil {
		record.MolecularFormula = m.MoleculeProperties.FullMolformula
		if mwt, err := m.MoleculeProperties.FullMWT.Float64(); err == nil && mwt > 0 {
			record.MolecularWeight = &mwt
		}
	}

	return record
}
