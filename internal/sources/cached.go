package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/davidkellner/molscope/internal/cache"
	"github.com/davidkellner/molscope/internal/chem"
)

// Cached decorators wrap a source with a cache.Store. Only successful
// lookups are cached; NotFound outcomes always go back upstream so a
// transient failure never becomes sticky. Cache errors are logged and
// otherwise ignored: the cache is an optimization, never a failure source.

// WithCache wraps every adapter in the set with the given store.
func WithCache(set *Set, store cache.Store, logger *slog.Logger) *Set {
	return &Set{
		Structure:   &CachedStructureSource{inner: set.Structure, store: store, logger: logger},
		Bioactivity: &CachedBioactivitySource{inner: set.Bioactivity, store: store, logger: logger},
		Properties:  &CachedPropertySource{inner: set.Properties, store: store, logger: logger},
		Mechanism:   &CachedMechanismSource{inner: set.Mechanism, store: store, logger: logger},
	}
}

// cachedLookup fetches through the cache: hit decodes, miss calls fetch and
// stores the encoded result.
func cachedLookup[T any](ctx context.Context, store cache.Store, logger *slog.Logger, key string, fetch func() (T, error)) (T, error) {
	var zero T

	if payload, ok, err := store.Get(ctx, key); err != nil {
		logger.Warn("cache get failed", "key", key, "error", err)
	} else if ok {
		var value T
		if err := json.Unmarshal(payload, &value); err == nil {
			logger.Debug("cache hit", "key", key)
			return value, nil
		}
		logger.Warn("cache payload undecodable, refetching", "key", key)
	}

	value, err := fetch()
	if err != nil {
		return zero, err
	}

	if payload, err := json.Marshal(value); err == nil {
		if err := store.Set(ctx, key, payload); err != nil {
			logger.Warn("cache set failed", "key", key, "error", err)
		}
	}
	return value, nil
}

// CachedStructureSource caches both structure lookup stages.
type CachedStructureSource struct {
	inner  StructureSource
	store  cache.Store
	logger *slog.Logger
}

var _ StructureSource = (*CachedStructureSource)(nil)

func (s *CachedStructureSource) ResolveIdentifier(ctx context.Context, smiles string) (int, error) {
	return cachedLookup(ctx, s.store, s.logger, "structure:cid:"+normKey(smiles), func() (int, error) {
		return s.inner.ResolveIdentifier(ctx, smiles)
	})
}

func (s *CachedStructureSource) FetchProperties(ctx context.Context, cid int) (*chem.StructureRecord, error) {
	return cachedLookup(ctx, s.store, s.logger, "structure:rec:"+strconv.Itoa(cid), func() (*chem.StructureRecord, error) {
		return s.inner.FetchProperties(ctx, cid)
	})
}

// CachedBioactivitySource caches bioactivity lookups by name.
type CachedBioactivitySource struct {
	inner  BioactivitySource
	store  cache.Store
	logger *slog.Logger
}

var _ BioactivitySource = (*CachedBioactivitySource)(nil)

func (s *CachedBioactivitySource) LookupByName(ctx context.Context, name string) (*chem.BioactivityRecord, error) {
	return cachedLookup(ctx, s.store, s.logger, "bioactivity:"+normKey(name), func() (*chem.BioactivityRecord, error) {
		return s.inner.LookupByName(ctx, name)
	})
}

// CachedPropertySource caches property predictions by SMILES.
type CachedPropertySource struct {
	inner  PropertySource
	store  cache.Store
	logger *slog.Logger
}

var _ PropertySource = (*CachedPropertySource)(nil)

func (s *CachedPropertySource) Predict(ctx context.Context, smiles string) (*chem.PropertyPrediction, error) {
	return cachedLookup(ctx, s.store, s.logger, "properties:"+normKey(smiles), func() (*chem.PropertyPrediction, error) {
		return s.inner.Predict(ctx, smiles)
	})
}

// CachedMechanismSource caches mechanism predictions by SMILES.
type CachedMechanismSource struct {
	inner  MechanismSource
	store  cache.Store
	logger *slog.Logger
}

var _ MechanismSource = (*CachedMechanismSource)(nil)

func (s *CachedMechanismSource) Predict(ctx context.Context, smiles string) (*chem.MechanismPrediction, error) {
	return cachedLookup(ctx, s.store, s.logger, "mechanism:"+normKey(smiles), func() (*chem.MechanismPrediction, error) {
		return s.inner.Predict(ctx, smiles)
	})
}
