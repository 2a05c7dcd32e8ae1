package sources

import (
	"context"
	"log/slog"

	"github.com/davidkellner/molscope/internal/chem"
)

// Mock adapters serve fixture data with the exact contracts of their live
// counterparts. They exist so the pipeline can run without credentials or
// network access, and so tests are deterministic.

// MockStructureSource implements StructureSource over fixtures.
type MockStructureSource struct {
	bySMILES map[string]int
	byCID    map[int]*chem.StructureRecord
	logger   *slog.Logger
}

var _ StructureSource = (*MockStructureSource)(nil)

// NewMockStructureSource indexes the compound fixtures.
func NewMockStructureSource(fixtures Fixtures, logger *slog.Logger) *MockStructureSource {
	s := &MockStructureSource{
		bySMILES: make(map[string]int),
		byCID:    make(map[int]*chem.StructureRecord),
		logger:   logger,
	}
	for _, c := range fixtures.Compounds {
		canonical := c.Canonical
		if canonical == "" && len(c.Aliases) > 0 {
			canonical = c.Aliases[0]
		}
		record := &chem.StructureRecord{
			CID:              c.CID,
			MolecularFormula: c.Formula,
			CanonicalSMILES:  canonical,
			MolecularWeight:  c.Weight,
			Name:             c.Name,
		}
		if _, exists := s.byCID[c.CID]; exists {
			continue // first entry wins, allows file overrides
		}
		s.byCID[c.CID] = record
		for _, alias := range c.Aliases {
			if _, exists := s.bySMILES[normKey(alias)]; !exists {
				s.bySMILES[normKey(alias)] = c.CID
			}
		}
	}
	return s
}

// ResolveIdentifier looks up a SMILES alias.
func (s *MockStructureSource) ResolveIdentifier(_ context.Context, smiles string) (int, error) {
	cid, ok := s.bySMILES[normKey(smiles)]
	if !ok {
		return 0, notFound(s.logger, "mock structure source has no entry", "smiles", smiles)
	}
	return cid, nil
}

// FetchProperties returns the fixture record for a CID.
func (s *MockStructureSource) FetchProperties(_ context.Context, cid int) (*chem.StructureRecord, error) {
	record, ok := s.byCID[cid]
	if !ok {
		return nil, notFound(s.logger, "mock structure source has no CID", "cid", cid)
	}
	out := *record
	return &out, nil
}

// MockBioactivitySource implements BioactivitySource over fixtures.
type MockBioactivitySource struct {
	byName map[string]*chem.BioactivityRecord
	logger *slog.Logger
}

var _ BioactivitySource = (*MockBioactivitySource)(nil)

// NewMockBioactivitySource indexes the bioactivity fixtures by name.
func NewMockBioactivitySource(fixtures Fixtures, logger *slog.Logger) *MockBioactivitySource {
	s := &MockBioactivitySource{
		byName: make(map[string]*chem.BioactivityRecord),
		logger: logger,
	}
	for _, b := range fixtures.Bioactivity {
		key := normKey(b.Name)
		if _, exists := s.byName[key]; exists {
			continue
		}
		s.byName[key] = &chem.BioactivityRecord{
			ChEMBLID:         b.ChEMBLID,
			PreferredName:    b.PreferredName,
			MaxPhase:         b.MaxPhase,
			MolecularWeight:  b.Weight,
			MolecularFormula: b.Formula,
			Description:      b.Description,
		}
	}
	return s
}

// LookupByName returns the fixture record for a compound name.
func (s *MockBioactivitySource) LookupByName(_ context.Context, name string) (*chem.BioactivityRecord, error) {
	record, ok := s.byName[normKey(name)]
	if !ok {
		return nil, notFound(s.logger, "mock bioactivity source has no entry", "name", name)
	}
	out := *record
	return &out, nil
}

// MockPropertySource implements PropertySource over fixtures.
type MockPropertySource struct {
	bySMILES map[string]*chem.PropertyPrediction
	logger   *slog.Logger
}

var _ PropertySource = (*MockPropertySource)(nil)

// NewMockPropertySource indexes the property fixtures by SMILES.
func NewMockPropertySource(fixtures Fixtures, logger *slog.Logger) *MockPropertySource {
	s := &MockPropertySource{
		bySMILES: make(map[string]*chem.PropertyPrediction),
		logger:   logger,
	}
	for _, p := range fixtures.Properties {
		key := normKey(p.SMILES)
		if _, exists := s.bySMILES[key]; exists {
			continue
		}
		s.bySMILES[key] = &chem.PropertyPrediction{
			LogP:          p.LogP,
			LogS:          p.LogS,
			ToxicityScore: p.Toxicity,
		}
	}
	return s
}

// Predict returns the fixture prediction for a SMILES string.
func (s *MockPropertySource) Predict(_ context.Context, smiles string) (*chem.PropertyPrediction, error) {
	prediction, ok := s.bySMILES[normKey(smiles)]
	if !ok {
		return nil, notFound(s.logger, "mock property source has no entry", "smiles", smiles)
	}
	out := *prediction
	return &out, nil
}

// MockMechanismSource implements MechanismSource over fixtures.
type MockMechanismSource struct {
	bySMILES map[string]*chem.MechanismPrediction
	logger   *slog.Logger
}

var _ MechanismSource = (*MockMechanismSource)(nil)

// NewMockMechanismSource indexes the mechanism fixtures by SMILES.
func NewMockMechanismSource(fixtures Fixtures, logger *slog.Logger) *MockMechanismSource {
	s := &MockMechanismSource{
		bySMILES: make(map[string]*chem.MechanismPrediction),
		logger:   logger,
	}
	for _, m := range fixtures.Mechanisms {
		key := normKey(m.SMILES)
		if _, exists := s.bySMILES[key]; exists {
			continue
		}
		s.bySMILES[key] = &chem.MechanismPrediction{
			Mechanism:  m.Mechanism,
			Confidence: m.Confidence,
		}
	}
	return s
}

// Predict returns the fixture prediction for a SMILES string.
func (s *MockMechanismSource) Predict(_ context.Context, smiles string) (*chem.MechanismPrediction, error) {
	prediction, ok := s.bySMILES[normKey(smiles)]
	if !ok {
		return nil, notFound(s.logger, "mock mechanism source has no entry", "smiles", smiles)
	}
	out := *prediction
	return &out, nil
}
