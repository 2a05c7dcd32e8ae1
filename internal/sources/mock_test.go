package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStructureSourceResolvesAliases(t *testing.T) {
	source := NewMockStructureSource(defaultFixtures(), testLogger())
	ctx := context.Background()

	// Both benzene spellings resolve to the same CID.
	cid, err := source.ResolveIdentifier(ctx, "c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, 241, cid)

	cid, err = source.ResolveIdentifier(ctx, "C1=CC=CC=C1")
	require.NoError(t, err)
	assert.Equal(t, 241, cid)

	record, err := source.FetchProperties(ctx, 241)
	require.NoError(t, err)
	assert.Equal(t, "Benzene", record.Name)
	assert.Equal(t, "C6H6", record.MolecularFormula)
	assert.Equal(t, "C1=CC=CC=C1", record.CanonicalSMILES)

	_, err = source.ResolveIdentifier(ctx, "XX-not-a-molecule")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = source.FetchProperties(ctx, 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockStructureSourceReturnsCopies(t *testing.T) {
	source := NewMockStructureSource(defaultFixtures(), testLogger())
	ctx := context.Background()

	first, err := source.FetchProperties(ctx, 241)
	require.NoError(t, err)
	first.Name = "mutated"

	second, err := source.FetchProperties(ctx, 241)
	require.NoError(t, err)
	assert.Equal(t, "Benzene", second.Name)
}

func TestMockBioactivitySource(t *testing.T) {
	source := NewMockBioactivitySource(defaultFixtures(), testLogger())
	ctx := context.Background()

	record, err := source.LookupByName(ctx, "  Aspirin ")
	require.NoError(t, err)
	assert.Equal(t, "CHEMBL25", record.ChEMBLID)
	require.NotNil(t, record.MaxPhase)
	assert.Equal(t, 4, *record.MaxPhase)

	// Benzene has structure data but deliberately no bioactivity entry.
	_, err = source.LookupByName(ctx, "benzene")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockPropertyAndMechanismSources(t *testing.T) {
	fixtures := defaultFixtures()
	ctx := context.Background()

	properties := NewMockPropertySource(fixtures, testLogger())
	prediction, err := properties.Predict(ctx, "C1=CC=CC=C1")
	require.NoError(t, err)
	require.NotNil(t, prediction.LogP)
	assert.InDelta(t, 2.13, *prediction.LogP, 0.001)

	_, err = properties.Predict(ctx, "not-in-fixtures")
	assert.ErrorIs(t, err, ErrNotFound)

	mechanisms := NewMockMechanismSource(fixtures, testLogger())
	mech, err := mechanisms.Predict(ctx, "CC(=O)OC1=CC=CC=C1C(=O)O")
	require.NoError(t, err)
	assert.Contains(t, mech.Mechanism, "cyclooxygenase")

	// Benzene has no mechanism fixture either.
	_, err = mechanisms.Predict(ctx, "C1=CC=CC=C1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFixturesFileOverridesBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
compounds:
  - cid: 241
    smiles: ["c1ccccc1"]
    formula: "C6H6"
    weight: 78.11
    name: "Benzol"
  - cid: 887
    smiles: ["CO"]
    formula: "CH4O"
    weight: 32.04
    name: "Methanol"
`), 0o644))

	fixtures, err := LoadFixtures(path)
	require.NoError(t, err)

	source := NewMockStructureSource(fixtures, testLogger())
	ctx := context.Background()

	// File entry for CID 241 wins over the built-in.
	record, err := source.FetchProperties(ctx, 241)
	require.NoError(t, err)
	assert.Equal(t, "Benzol", record.Name)

	// New compound is available alongside the built-ins.
	cid, err := source.ResolveIdentifier(ctx, "CO")
	require.NoError(t, err)
	assert.Equal(t, 887, cid)

	cid, err = source.ResolveIdentifier(ctx, "CCO")
	require.NoError(t, err)
	assert.Equal(t, 702, cid)
}

func TestLoadFixturesErrors(t *testing.T) {
	_, err := LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compounds: {not: [a, list"), 0o644))
	_, err = LoadFixtures(path)
	assert.Error(t, err)
}
