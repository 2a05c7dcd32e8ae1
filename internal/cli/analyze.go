package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/pipeline"
)

var (
	analyzeQuestion string
	analyzeTarget   string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <SMILES>",
	Short: "Run the full analysis pipeline for a molecule",
	Long: `Analyze a molecule: resolve the SMILES string to a structure record,
gather bioactivity data, predicted properties, and a likely mechanism of
action concurrently, and synthesize an answer to your question.

Missing data from individual sources is reported, not fatal: the analysis
proceeds with whatever was found.

Examples:
  molscope analyze "CC(=O)OC1=CC=CC=C1C(=O)O" -q "Is this a viable drug candidate?"
  molscope analyze "c1ccccc1" -q "What is this compound used for?" --json
  molscope analyze "CCO" -q "How toxic is this molecule?" -t "ADH1B"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeQuestion, "question", "q", "", "question about the molecule (required, min 8 characters)")
	analyzeCmd.Flags().StringVarP(&analyzeTarget, "target", "t", "", "protein target of interest")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
	_ = analyzeCmd.MarkFlagRequired("question")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	query := chem.AnalysisQuery{
		SMILES:        args[0],
		TargetProtein: analyzeTarget,
		Question:      analyzeQuestion,
	}
	if err := query.Validate(); err != nil {
		exitWithError("%v", err)
	}

	p, err := buildPipeline(ctx)
	if err != nil {
		return err
	}

	var result *chem.AnalysisResult
	if term.IsTerminal(int(os.Stdout.Fd())) && !analyzeJSON {
		result, err = RunAnalysisProgress(ctx, p, query)
	} else {
		result, err = p.Analyze(ctx, query)
	}

	if err != nil {
		var se *pipeline.StageError
		if errors.As(err, &se) {
			// A synthesis failure still produced data worth showing.
			if result != nil {
				printResult(result)
			}
			exitWithError("%s", se.UserMessage())
		}
		return err
	}

	printResult(result)
	return nil
}

// printResult renders the analysis result, as JSON or human-readable text.
func printResult(result *chem.AnalysisResult) {
	if analyzeJSON {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			exitWithError("encode result: %v", err)
		}
		fmt.Println(string(jsonBytes))
		return
	}

	s := result.Structure
	fmt.Printf("\n%s (CID %d)\n", displayName(s), s.CID)
	fmt.Printf("  Formula:  %s\n", s.MolecularFormula)
	fmt.Printf("  SMILES:   %s\n", s.CanonicalSMILES)
	fmt.Printf("  Weight:   %.2f g/mol\n", s.MolecularWeight)

	if b := result.Aggregate.Bioactivity; b != nil {
		fmt.Printf("\nBioactivity (%s)\n", b.ChEMBLID)
		if b.MaxPhase != nil {
			fmt.Printf("  Max clinical phase: %d\n", *b.MaxPhase)
		}
		if b.Description != "" {
			fmt.Printf("  %s\n", b.Description)
		}
	} else {
		fmt.Println("\nBioactivity: no data")
	}

	if props := result.Aggregate.Properties; props != nil {
		fmt.Println("\nPredicted properties")
		if props.LogP != nil {
			fmt.Printf("  LogP:     %.2f\n", *props.LogP)
		}
		if props.LogS != nil {
			fmt.Printf("  LogS:     %.2f\n", *props.LogS)
		}
		if props.ToxicityScore != nil {
			fmt.Printf("  Toxicity: %.2f\n", *props.ToxicityScore)
		}
	} else {
		fmt.Println("\nPredicted properties: no data")
	}

	if m := result.Aggregate.Mechanism; m != nil {
		fmt.Println("\nPredicted mechanism")
		fmt.Printf("  %s\n", m.Mechanism)
		if m.Confidence != nil {
			fmt.Printf("  Confidence: %.2f\n", *m.Confidence)
		}
	} else {
		fmt.Println("\nPredicted mechanism: no data")
	}

	if result.Narrative != "" {
		fmt.Printf("\n%s\n", result.Narrative)
	}
}

func displayName(s *chem.StructureRecord) string {
	if s.Name != "" {
		return s.Name
	}
	return s.CanonicalSMILES
}
