package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidkellner/molscope/internal/metrics"
	"github.com/davidkellner/molscope/internal/pipeline"
)

var resolveJSON bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <SMILES>",
	Short: "Resolve a SMILES string to its structure record",
	Long: `Resolve a SMILES string to the compound's identity: CID, name,
molecular formula, canonical SMILES, and molecular weight. No secondary
lookups and no LLM synthesis, just the structure database.

Examples:
  molscope resolve "c1ccccc1"
  molscope resolve "CC(=O)OC1=CC=CC=C1C(=O)O" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the record as JSON")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	set, _, err := buildSources(ctx)
	if err != nil {
		return err
	}
	resolver := pipeline.NewResolver(set.Structure, metrics.NewCollector(), logger)

	record, err := resolver.Resolve(ctx, args[0])
	if err != nil {
		var se *pipeline.StageError
		if errors.As(err, &se) {
			exitWithError("%s", se.UserMessage())
		}
		return err
	}

	if resolveJSON {
		jsonBytes, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}

	fmt.Printf("%s (CID %d)\n", displayName(record), record.CID)
	fmt.Printf("  Formula:  %s\n", record.MolecularFormula)
	fmt.Printf("  SMILES:   %s\n", record.CanonicalSMILES)
	fmt.Printf("  Weight:   %.2f g/mol\n", record.MolecularWeight)
	return nil
}
