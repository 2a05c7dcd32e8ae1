// Package chem defines the data model shared by the analysis pipeline:
// resolved structure records, the optional lookup slots, and the user query.
// No chemistry computation lives here, only plain data types and validation.
package chem

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// StructureRecord is the canonical structure data resolved for a SMILES input.
// It anchors every downstream lookup and is immutable once produced.
type StructureRecord struct {
	// CID is the source-assigned compound identifier.
	CID int `json:"cid"`

	MolecularFormula string  `json:"molecular_formula"`
	CanonicalSMILES  string  `json:"canonical_smiles"`
	MolecularWeight  float64 `json:"molecular_weight"`

	// Name is the preferred human-readable name, when the source knows one.
	Name string `json:"name,omitempty"`
}

// Validate reports whether the record carries all essential fields.
// A record failing validation is treated as "property data incomplete".
func (r *StructureRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("nil structure record")
	}
	if r.CID <= 0 {
		return fmt.Errorf("missing compound identifier")
	}
	if r.MolecularFormula == "" {
		return fmt.Errorf("missing molecular formula")
	}
	if r.CanonicalSMILES == "" {
		return fmt.Errorf("missing canonical SMILES")
	}
	if !(r.MolecularWeight > 0) || math.IsInf(r.MolecularWeight, 0) || math.IsNaN(r.MolecularWeight) {
		return fmt.Errorf("molecular weight %v is not a positive finite number", r.MolecularWeight)
	}
	return nil
}

// BioactivityRecord holds compound metadata from the bioactivity database.
// Absence of the whole record, or of any field, is a normal outcome.
type BioactivityRecord struct {
	ChEMBLID      string `json:"chembl_id"`
	PreferredName string `json:"preferred_name"`

	// MaxPhase is the highest clinical phase reached (0-4).
	// Nil means unknown, which is distinct from phase 0.
	MaxPhase *int `json:"max_phase,omitempty"`

	MolecularWeight  *float64 `json:"molecular_weight,omitempty"`
	MolecularFormula string   `json:"molecular_formula,omitempty"`
	Description      string   `json:"description,omitempty"`
}

// Validate rejects records whose optional fields carry impossible values.
func (r *BioactivityRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("nil bioactivity record")
	}
	if r.ChEMBLID == "" {
		return fmt.Errorf("missing ChEMBL identifier")
	}
	if r.MaxPhase != nil && (*r.MaxPhase < 0 || *r.MaxPhase > 4) {
		return fmt.Errorf("clinical phase %d out of range", *r.MaxPhase)
	}
	return nil
}

// PropertyPrediction holds predicted physicochemical properties.
// Each property is independently optional: either a valid float or absent,
// never a partial value.
type PropertyPrediction struct {
	// LogP is the predicted octanol-water partition coefficient.
	LogP *float64 `json:"log_p,omitempty"`

	// LogS is the predicted aqueous solubility (log mol/L).
	LogS *float64 `json:"log_s,omitempty"`

	// ToxicityScore is a bounded [0,1] toxicity estimate.
	ToxicityScore *float64 `json:"toxicity_score,omitempty"`
}

// Empty reports whether no property was predicted at all.
func (p *PropertyPrediction) Empty() bool {
	return p == nil || (p.LogP == nil && p.LogS == nil && p.ToxicityScore == nil)
}

// Validate rejects predictions with non-finite or out-of-range values.
func (p *PropertyPrediction) Validate() error {
	if p == nil {
		return fmt.Errorf("nil property prediction")
	}
	for name, v := range map[string]*float64{"log_p": p.LogP, "log_s": p.LogS} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("property %s is not a finite number", name)
		}
	}
	if t := p.ToxicityScore; t != nil {
		if math.IsNaN(*t) || *t < 0 || *t > 1 {
			return fmt.Errorf("toxicity score %v outside [0,1]", *t)
		}
	}
	return nil
}

// MechanismPrediction is a model-generated guess at the molecule's
// biological mechanism of action.
type MechanismPrediction struct {
	// Mechanism is required whenever the record exists.
	Mechanism string `json:"mechanism"`

	// Confidence, when present, is strictly within [0,1].
	Confidence *float64 `json:"confidence,omitempty"`
}

// Validate enforces the mechanism/confidence invariants.
func (m *MechanismPrediction) Validate() error {
	if m == nil {
		return fmt.Errorf("nil mechanism prediction")
	}
	if strings.TrimSpace(m.Mechanism) == "" {
		return fmt.Errorf("missing mechanism text")
	}
	if c := m.Confidence; c != nil {
		if math.IsNaN(*c) || *c < 0 || *c > 1 {
			return fmt.Errorf("confidence %v outside [0,1]", *c)
		}
	}
	return nil
}

// MinQuestionLen is the minimum length, in runes, of the free-text question.
const MinQuestionLen = 8

// AnalysisQuery is the user-authored input to one pipeline run.
type AnalysisQuery struct {
	SMILES        string `json:"smiles"`
	TargetProtein string `json:"target_protein,omitempty"`
	Question      string `json:"question"`
}

// Validate checks the query before any network activity.
func (q AnalysisQuery) Validate() error {
	if strings.TrimSpace(q.SMILES) == "" {
		return fmt.Errorf("SMILES string is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(q.Question)) < MinQuestionLen {
		return fmt.Errorf("question must be at least %d characters", MinQuestionLen)
	}
	return nil
}

// Aggregate holds the three independently nullable secondary lookups.
type Aggregate struct {
	Bioactivity *BioactivityRecord   `json:"bioactivity,omitempty"`
	Properties  *PropertyPrediction  `json:"properties,omitempty"`
	Mechanism   *MechanismPrediction `json:"mechanism,omitempty"`
}

// AnalysisResult is the composite output of one pipeline run.
// It is only constructible once resolution has succeeded; the aggregate
// slots may each be present or absent without affecting the others.
type AnalysisResult struct {
	Structure *StructureRecord `json:"structure"`
	Aggregate Aggregate        `json:"aggregate"`
	Narrative string           `json:"narrative"`
}

// NewAnalysisResult creates a result anchored on a resolved structure.
func NewAnalysisResult(structure *StructureRecord) (*AnalysisResult, error) {
	if err := structure.Validate(); err != nil {
		return nil, fmt.Errorf("analysis result requires a resolved structure: %w", err)
	}
	return &AnalysisResult{Structure: structure}, nil
}
