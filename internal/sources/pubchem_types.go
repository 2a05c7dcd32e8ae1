package sources

import "encoding/json"

// Wire types for the PubChem PUG REST API. Numeric fields arrive as either
// strings or numbers depending on endpoint revision, hence json.Number.

type pubchemCIDResponse struct {
	IdentifierList struct {
		CID []int `json:"CID"`
	} `json:"IdentifierList"`
}

type pubchemPropertyResponse struct {
	PropertyTable struct {
		Properties []pubchemProperties `json:"Properties"`
	} `json:"PropertyTable"`
}

type pubchemProperties struct {
	CID              int         `json:"CID"`
	MolecularFormula string      `json:"MolecularFormula"`
	MolecularWeight  json.Number `json:"MolecularWeight"`
	CanonicalSMILES  string      `json:"CanonicalSMILES"`
	Title            string      `json:"Title"`
}
