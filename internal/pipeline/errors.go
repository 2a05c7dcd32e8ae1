package pipeline

import (
	"errors"
	"fmt"
)

// Stage identifies where in the run an error occurred.
type Stage string

const (
	StageInput       Stage = "input"
	StageResolution  Stage = "resolution"
	StageAggregation Stage = "aggregation"
	StageSynthesis   Stage = "synthesis"
)

// Hint refines a failure with actionable context for the user.
type Hint int

const (
	HintNone Hint = iota

	// HintLooksLikeFormula means the rejected input resembles a molecular
	// formula (C6H12O6) rather than a SMILES structure string.
	HintLooksLikeFormula

	// HintNotFoundUpstream means the structure database had no match.
	HintNotFoundUpstream
)

// Sentinel errors for the distinct failure classes of a run.
var (
	// ErrInputInvalid means the query failed validation before any lookup.
	ErrInputInvalid = errors.New("invalid input")

	// ErrNotRecognized means the structure database could not identify the
	// molecule.
	ErrNotRecognized = errors.New("structure not recognized")

	// ErrIncompleteRecord means the molecule was identified but its property
	// record was missing essential fields.
	ErrIncompleteRecord = errors.New("property data incomplete")

	// ErrNoNarrative means synthesis produced no usable text. The collected
	// data is still returned alongside this error.
	ErrNoNarrative = errors.New("no narrative produced")
)

// StageError wraps a failure with the stage it occurred in and an optional
// hint. It is the only error type Analyze returns.
type StageError struct {
	Stage Stage
	Hint  Hint
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// UserMessage renders the failure for an end user, without internals.
func (e *StageError) UserMessage() string {
	switch {
	case e.Hint == HintLooksLikeFormula:
		return "That looks like a molecular formula (such as C6H12O6), not a structure. Please provide a SMILES string instead."
	case errors.Is(e.Err, ErrNotRecognized):
		return "The structure could not be identified. Check the SMILES string for typos."
	case errors.Is(e.Err, ErrIncompleteRecord):
		return "The molecule was found but its property record is incomplete, so the analysis cannot proceed."
	case errors.Is(e.Err, ErrNoNarrative):
		return "The lookups succeeded but no summary could be generated. The collected data is shown as-is."
	case e.Stage == StageInput:
		return fmt.Sprintf("Invalid input: %v.", e.Err)
	default:
		return "The analysis failed. See the log for details."
	}
}

func stageErr(stage Stage, hint Hint, err error) *StageError {
	return &StageError{Stage: stage, Hint: hint, Err: err}
}
