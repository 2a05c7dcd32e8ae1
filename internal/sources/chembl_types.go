package sources

import "encoding/json"

// Wire types for the ChEMBL REST API molecule search endpoint.
// max_phase and full_mwt are strings in current API revisions.

type chemblSearchResponse struct {
	Molecules []chemblMolecule `json:"molecules"`
}

type chemblMolecule struct {
	MoleculeChEMBLID   string           `json:"molecule_chembl_id"`
	PrefName           string           `json:"pref_name"`
	MaxPhase           json.Number      `json:"max_phase"`
	IndicationClass    string           `json:"indication_class"`
	MoleculeProperties *chemblMolProps  `json:"molecule_properties"`
}

type chemblMolProps struct {
	FullMolformula string      `json:"full_molformula"`
	FullMWT        json.Number `json:"full_mwt"`
}
