package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/davidkellner/molscope/internal/chem"
)

// PubChemClient implements StructureSource against the PubChem PUG REST API.
//
// A full lookup is two sequential calls (SMILES -> CID, then CID -> record);
// PubChem usage policy requires a minimum delay between requests, so the
// client throttles itself. The delay is a correctness requirement, not an
// optimization.
type PubChemClient struct {
	baseURL string
	delay   time.Duration
	client  *http.Client
	logger  *slog.Logger

	mu       sync.Mutex
	lastCall time.Time
}

// Compile-time check that PubChemClient implements StructureSource.
var _ StructureSource = (*PubChemClient)(nil)

// NewPubChemClient creates a PubChem adapter. delay is the minimum spacing
// between consecutive requests (at least 200ms per upstream policy).
func NewPubChemClient(baseURL string, delay time.Duration, logger *slog.Logger) *PubChemClient {
	if delay < 200*time.Millisecond {
		delay = 200 * time.Millisecond
	}
	return &PubChemClient{
		baseURL: baseURL,
		delay:   delay,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// throttle blocks until at least delay has passed since the previous request.
func (c *PubChemClient) throttle(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := c.delay - now.Sub(c.lastCall)
	if wait > 0 {
		c.lastCall = now.Add(wait)
	} else {
		c.lastCall = now
	}
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ResolveIdentifier maps a SMILES string to a PubChem CID.
func (c *PubChemClient) ResolveIdentifier(ctx context.Context, smiles string) (int, error) {
	reqURL := fmt.Sprintf("%s/compound/smiles/%s/cids/JSON", c.baseURL, url.PathEscape(smiles))

	var parsed pubchemCIDResponse
	if err := c.getJSON(ctx, reqURL, &parsed); err != nil {
		return 0, err
	}

	if len(parsed.IdentifierList.CID) == 0 || parsed.IdentifierList.CID[0] <= 0 {
		return 0, notFound(c.logger, "pubchem returned no CID", "smiles", smiles)
	}

	cid := parsed.IdentifierList.CID[0]
	c.logger.Debug("resolved SMILES to CID", "smiles", smiles, "cid", cid)
	return cid, nil
}

// FetchProperties retrieves formula, weight, canonical SMILES, and title
// for a CID.
func (c *PubChemClient) FetchProperties(ctx context.Context, cid int) (*chem.StructureRecord, error) {
	reqURL := fmt.Sprintf(
		"%s/compound/cid/%d/property/MolecularFormula,MolecularWeight,CanonicalSMILES,Title/JSON",
		c.baseURL, cid,
	)

	var parsed pubchemPropertyResponse
	if err := c.getJSON(ctx, reqURL, &parsed); err != nil {
		return nil, err
	}

	props := parsed.PropertyTable.Properties
	if len(props) == 0 {
		return nil, notFound(c.logger, "pubchem returned no properties", "cid", cid)
	}

	weight, err := props[0].MolecularWeight.Float64()
	if err != nil {
		return nil, notFound(c.logger, "pubchem weight not numeric",
			"cid", cid, "weight", props[0].MolecularWeight.String())
	}

	record := &chem.StructureRecord{
		CID:              props[0].CID,
		MolecularFormula: props[0].MolecularFormula,
		CanonicalSMILES:  props[0].CanonicalSMILES,
		MolecularWeight:  weight,
		Name:             props[0].Title,
	}
	if err := record.Validate(); err != nil {
		return nil, notFound(c.logger, "pubchem record incomplete", "cid", cid, "error", err)
	}
	return record, nil
}

// getJSON issues a throttled GET and decodes the body. Any failure mode,
// transport, status, or schema, folds into ErrNotFound.
func (c *PubChemClient) getJSON(ctx context.Context, reqURL string, out any) error {
	if err := c.throttle(ctx); err != nil {
		return fmt.Errorf("pubchem throttle: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return notFound(c.logger, "pubchem request build failed", "url", reqURL, "error", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return notFound(c.logger, "pubchem request failed", "url", reqURL, "error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return notFound(c.logger, "pubchem non-200 response", "url", reqURL, "status", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return notFound(c.logger, "pubchem response malformed", "url", reqURL, "error", err)
	}
	return nil
}
