package sources

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixtures holds the deterministic data served by the mock adapters.
// The built-in set covers a handful of well-known compounds; a YAML file can
// extend or override it for demos and tests.
type Fixtures struct {
	Compounds   []CompoundFixture    `yaml:"compounds"`
	Bioactivity []BioactivityFixture `yaml:"bioactivity"`
	Properties  []PropertyFixture    `yaml:"properties"`
	Mechanisms  []MechanismFixture   `yaml:"mechanisms"`
}

// CompoundFixture is a mock structure-database entry. Aliases list every
// SMILES spelling that should resolve to this compound.
type CompoundFixture struct {
	CID     int      `yaml:"cid"`
	Aliases []string `yaml:"smiles"`
	Formula string   `yaml:"formula"`
	Weight  float64  `yaml:"weight"`
	Name    string   `yaml:"name"`

	// Canonical is the canonical SMILES reported back; defaults to the
	// first alias when empty.
	Canonical string `yaml:"canonical"`
}

// BioactivityFixture is a mock bioactivity-database entry keyed by name.
type BioactivityFixture struct {
	Name          string   `yaml:"name"`
	ChEMBLID      string   `yaml:"chembl_id"`
	PreferredName string   `yaml:"preferred_name"`
	MaxPhase      *int     `yaml:"max_phase"`
	Weight        *float64 `yaml:"weight"`
	Formula       string   `yaml:"formula"`
	Description   string   `yaml:"description"`
}

// PropertyFixture is a mock property prediction keyed by SMILES.
type PropertyFixture struct {
	SMILES   string   `yaml:"smiles"`
	LogP     *float64 `yaml:"log_p"`
	LogS     *float64 `yaml:"log_s"`
	Toxicity *float64 `yaml:"toxicity"`
}

// MechanismFixture is a mock mechanism prediction keyed by SMILES.
type MechanismFixture struct {
	SMILES     string   `yaml:"smiles"`
	Mechanism  string   `yaml:"mechanism"`
	Confidence *float64 `yaml:"confidence"`
}

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

// defaultFixtures returns the built-in compound set.
func defaultFixtures() Fixtures {
	return Fixtures{
		Compounds: []CompoundFixture{
			{
				CID:       241,
				Aliases:   []string{"c1ccccc1", "C1=CC=CC=C1"},
				Canonical: "C1=CC=CC=C1",
				Formula:   "C6H6",
				Weight:    78.11,
				Name:      "Benzene",
			},
			{
				CID:       2244,
				Aliases:   []string{"CC(=O)OC1=CC=CC=C1C(=O)O", "CC(=O)Oc1ccccc1C(=O)O"},
				Canonical: "CC(=O)OC1=CC=CC=C1C(=O)O",
				Formula:   "C9H8O4",
				Weight:    180.16,
				Name:      "Aspirin",
			},
			{
				CID:       2519,
				Aliases:   []string{"CN1C=NC2=C1C(=O)N(C(=O)N2C)C", "Cn1cnc2c1c(=O)n(C)c(=O)n2C"},
				Canonical: "CN1C=NC2=C1C(=O)N(C(=O)N2C)C",
				Formula:   "C8H10N4O2",
				Weight:    194.19,
				Name:      "Caffeine",
			},
			{
				CID:       3672,
				Aliases:   []string{"CC(C)CC1=CC=C(C=C1)C(C)C(=O)O", "CC(C)Cc1ccc(cc1)C(C)C(=O)O"},
				Canonical: "CC(C)CC1=CC=C(C=C1)C(C)C(=O)O",
				Formula:   "C13H18O2",
				Weight:    206.28,
				Name:      "Ibuprofen",
			},
			{
				CID:       702,
				Aliases:   []string{"CCO", "OCC"},
				Canonical: "CCO",
				Formula:   "C2H6O",
				Weight:    46.07,
				Name:      "Ethanol",
			},
		},
		Bioactivity: []BioactivityFixture{
			{
				Name:          "aspirin",
				ChEMBLID:      "CHEMBL25",
				PreferredName: "ASPIRIN",
				MaxPhase:      i(4),
				Weight:        f(180.16),
				Formula:       "C9H8O4",
				Description:   "Non-steroidal anti-inflammatory drug; irreversible COX inhibitor.",
			},
			{
				Name:          "caffeine",
				ChEMBLID:      "CHEMBL113",
				PreferredName: "CAFFEINE",
				MaxPhase:      i(4),
				Weight:        f(194.19),
				Formula:       "C8H10N4O2",
				Description:   "CNS stimulant; adenosine receptor antagonist.",
			},
			{
				Name:          "ibuprofen",
				ChEMBLID:      "CHEMBL521",
				PreferredName: "IBUPROFEN",
				MaxPhase:      i(4),
				Weight:        f(206.28),
				Formula:       "C13H18O2",
				Description:   "Non-steroidal anti-inflammatory drug.",
			},
		},
		Properties: []PropertyFixture{
			{SMILES: "C1=CC=CC=C1", LogP: f(2.13), LogS: f(-1.64), Toxicity: f(0.62)},
			{SMILES: "CC(=O)OC1=CC=CC=C1C(=O)O", LogP: f(1.19), LogS: f(-1.72), Toxicity: f(0.18)},
			{SMILES: "CN1C=NC2=C1C(=O)N(C(=O)N2C)C", LogP: f(-0.07), LogS: f(-0.88), Toxicity: f(0.21)},
			{SMILES: "CC(C)CC1=CC=C(C=C1)C(C)C(=O)O", LogP: f(3.5), LogS: f(-3.97), Toxicity: f(0.24)},
			{SMILES: "CCO", LogP: f(-0.14), LogS: f(1.1), Toxicity: f(0.08)},
		},
		Mechanisms: []MechanismFixture{
			{
				SMILES:     "CC(=O)OC1=CC=CC=C1C(=O)O",
				Mechanism:  "Irreversible acetylation of cyclooxygenase (COX-1/COX-2), blocking prostaglandin synthesis.",
				Confidence: f(0.93),
			},
			{
				SMILES:     "CN1C=NC2=C1C(=O)N(C(=O)N2C)C",
				Mechanism:  "Competitive antagonism of adenosine A1/A2A receptors producing CNS stimulation.",
				Confidence: f(0.9),
			},
			{
				SMILES:     "CC(C)CC1=CC=C(C=C1)C(C)C(=O)O",
				Mechanism:  "Reversible non-selective inhibition of cyclooxygenase enzymes.",
				Confidence: f(0.88),
			},
		},
	}
}

// LoadFixtures returns the built-in fixtures, extended by the YAML file at
// path when non-empty. File entries are prepended, so lookups that scan in
// order prefer them over the built-ins.
func LoadFixtures(path string) (Fixtures, error) {
	fixtures := defaultFixtures()
	if path == "" {
		return fixtures, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures file: %w", err)
	}

	var extra Fixtures
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures file: %w", err)
	}

	fixtures.Compounds = append(extra.Compounds, fixtures.Compounds...)
	fixtures.Bioactivity = append(extra.Bioactivity, fixtures.Bioactivity...)
	fixtures.Properties = append(extra.Properties, fixtures.Properties...)
	fixtures.Mechanisms = append(extra.Mechanisms, fixtures.Mechanisms...)
	return fixtures, nil
}

// normKey lowercases and trims a lookup key.
func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
