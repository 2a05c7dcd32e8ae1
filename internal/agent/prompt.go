package agent

import (
	"fmt"
	"strings"

	"github.com/davidkellner/molscope/internal/chem"
)

const synthesisSystemPrompt = `You are a medicinal chemistry assistant. Answer the user's question about the molecule based ONLY on the provided analysis data.
Where a data section is marked unavailable, say that the data is missing rather than guessing.
Be concise, mention concrete numbers from the data, and end with a direct answer to the question.`

const toolSystemPrompt = `You are a medicinal chemistry assistant with access to lookup tools.
Use the tools to gather structure, bioactivity, property, and mechanism data about the molecule before answering.
A tool reporting no data is a valid outcome; note the gap and move on.
When you have enough data, answer the user's question concisely, citing concrete numbers.`

// buildAnalysisContext formats the resolved structure and the aggregate into
// a context block for LLM consumption. Absent slots are stated explicitly so
// the model doesn't invent data for them.
func buildAnalysisContext(structure *chem.StructureRecord, agg chem.Aggregate) string {
	var parts []string

	part := fmt.Sprintf("## Structure\nName: %s\nCID: %d\nFormula: %s\nCanonical SMILES: %s\nMolecular weight: %.2f g/mol\n",
		orUnknown(structure.Name), structure.CID, structure.MolecularFormula,
		structure.CanonicalSMILES, structure.MolecularWeight)
	parts = append(parts, part)

	if b := agg.Bioactivity; b != nil {
		part = fmt.Sprintf("## Bioactivity\nChEMBL ID: %s\nPreferred name: %s\n", b.ChEMBLID, orUnknown(b.PreferredName))
		if b.MaxPhase != nil {
			part += fmt.Sprintf("Max clinical phase: %d\n", *b.MaxPhase)
		}
		if b.Description != "" {
			part += "Description: " + b.Description + "\n"
		}
		parts = append(parts, part)
	} else {
		parts = append(parts, "## Bioactivity\nNo bioactivity data available.\n")
	}

	if p := agg.Properties; p != nil {
		part = "## Predicted properties\n"
		if p.LogP != nil {
			part += fmt.Sprintf("LogP: %.2f\n", *p.LogP)
		}
		if p.LogS != nil {
			part += fmt.Sprintf("LogS: %.2f\n", *p.LogS)
		}
		if p.ToxicityScore != nil {
			part += fmt.Sprintf("Toxicity score: %.2f (0 = benign, 1 = toxic)\n", *p.ToxicityScore)
		}
		parts = append(parts, part)
	} else {
		parts = append(parts, "## Predicted properties\nNo property predictions available.\n")
	}

	if m := agg.Mechanism; m != nil {
		part = "## Predicted mechanism\n" + m.Mechanism + "\n"
		if m.Confidence != nil {
			part += fmt.Sprintf("Confidence: %.2f\n", *m.Confidence)
		}
		parts = append(parts, part)
	} else {
		parts = append(parts, "## Predicted mechanism\nNo mechanism prediction available.\n")
	}

	return strings.Join(parts, "\n---\n")
}

// buildUserPrompt renders the question, with the optional protein target.
func buildUserPrompt(query chem.AnalysisQuery, analysisContext string) string {
	var sb strings.Builder
	if analysisContext != "" {
		sb.WriteString("Analysis data:\n")
		sb.WriteString(analysisContext)
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("Molecule SMILES: ")
		sb.WriteString(query.SMILES)
		sb.WriteString("\n\n")
	}
	if query.TargetProtein != "" {
		sb.WriteString("Target protein of interest: ")
		sb.WriteString(query.TargetProtein)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(query.Question)
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
