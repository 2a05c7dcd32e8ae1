package chem

import "regexp"

// formulaPattern matches strings built purely from element-symbol-plus-count
// runs, e.g. "C6H12O6" or "NaCl". Bond, branch, and charge syntax
// ("=", "#", "(", "[", "+", "-", "/", "\\", "@") never matches, and neither
// do aromatic lowercase atoms such as the ring carbons in "c1ccccc1".
var formulaPattern = regexp.MustCompile(`^([A-Z][a-z]?[0-9]*)+$`)

var hasDigit = regexp.MustCompile(`[0-9]`)

// LooksLikeFormula reports whether the input reads like a molecular formula
// rather than a structural line notation. Best-effort heuristic: it is a UX
// hint used to word the "not recognized" message, never a validation gate.
func LooksLikeFormula(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			return false
		}
	}
	// Require at least one multiplicity digit so plain SMILES like "CCO"
	// are not flagged.
	return formulaPattern.MatchString(s) && hasDigit.MatchString(s)
}
