package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidkellner/molscope/internal/cache"
	"github.com/davidkellner/molscope/internal/chem"
)

type countingStructureSource struct {
	resolves int
	fetches  int
	fail     bool
}

func (s *countingStructureSource) ResolveIdentifier(_ context.Context, smiles string) (int, error) {
	s.resolves++
	if s.fail {
		return 0, ErrNotFound
	}
	return 241, nil
}

func (s *countingStructureSource) FetchProperties(_ context.Context, cid int) (*chem.StructureRecord, error) {
	s.fetches++
	return &chem.StructureRecord{
		CID:              cid,
		MolecularFormula: "C6H6",
		CanonicalSMILES:  "C1=CC=CC=C1",
		MolecularWeight:  78.11,
		Name:             "Benzene",
	}, nil
}

func TestCachedStructureSourceHitSkipsUpstream(t *testing.T) {
	upstream := &countingStructureSource{}
	cached := &CachedStructureSource{inner: upstream, store: cache.NewMemory(), logger: testLogger()}
	ctx := context.Background()

	cid, err := cached.ResolveIdentifier(ctx, "c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, 241, cid)

	cid, err = cached.ResolveIdentifier(ctx, "c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, 241, cid)
	assert.Equal(t, 1, upstream.resolves, "second lookup must come from the cache")

	record, err := cached.FetchProperties(ctx, 241)
	require.NoError(t, err)
	_, err = cached.FetchProperties(ctx, 241)
	require.NoError(t, err)
	assert.Equal(t, "Benzene", record.Name)
	assert.Equal(t, 1, upstream.fetches)
}

func TestCachedLookupDoesNotCacheFailures(t *testing.T) {
	upstream := &countingStructureSource{fail: true}
	cached := &CachedStructureSource{inner: upstream, store: cache.NewMemory(), logger: testLogger()}
	ctx := context.Background()

	_, err := cached.ResolveIdentifier(ctx, "c1ccccc1")
	assert.ErrorIs(t, err, ErrNotFound)

	// The failure went upstream again rather than being served from cache.
	upstream.fail = false
	cid, err := cached.ResolveIdentifier(ctx, "c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, 241, cid)
	assert.Equal(t, 2, upstream.resolves)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}
func (brokenStore) Set(context.Context, string, []byte) error { return errors.New("store down") }
func (brokenStore) Close(context.Context) error               { return nil }

func TestCachedLookupSurvivesStoreErrors(t *testing.T) {
	upstream := &countingStructureSource{}
	cached := &CachedStructureSource{inner: upstream, store: brokenStore{}, logger: testLogger()}

	cid, err := cached.ResolveIdentifier(context.Background(), "c1ccccc1")
	require.NoError(t, err, "cache errors must not fail the lookup")
	assert.Equal(t, 241, cid)
}

func TestWithCacheWrapsWholeSet(t *testing.T) {
	fixtures := defaultFixtures()
	logger := testLogger()
	base := &Set{
		Structure:   NewMockStructureSource(fixtures, logger),
		Bioactivity: NewMockBioactivitySource(fixtures, logger),
		Properties:  NewMockPropertySource(fixtures, logger),
		Mechanism:   NewMockMechanismSource(fixtures, logger),
	}

	store := cache.NewMemory()
	cached := WithCache(base, store, logger)
	ctx := context.Background()

	_, err := cached.Structure.ResolveIdentifier(ctx, "CCO")
	require.NoError(t, err)
	_, err = cached.Bioactivity.LookupByName(ctx, "aspirin")
	require.NoError(t, err)
	_, err = cached.Properties.Predict(ctx, "CCO")
	require.NoError(t, err)
	_, err = cached.Mechanism.Predict(ctx, "CC(C)CC1=CC=C(C=C1)C(C)C(=O)O")
	require.NoError(t, err)

	assert.Equal(t, 4, store.Len())
}
