package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorTimings(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpResolve, 100*time.Millisecond)
	c.RecordTiming(OpResolve, 300*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.Resolve)
	assert.Equal(t, int64(2), snap.Resolve.Count)
	assert.Equal(t, int64(100), snap.Resolve.MinTimeMs)
	assert.Equal(t, int64(300), snap.Resolve.MaxTimeMs)
	assert.InDelta(t, 200.0, snap.Resolve.AvgTimeMs, 0.1)

	assert.Nil(t, snap.Bioactivity, "untouched ops stay nil")
}

func TestCollectorFailuresDoNotSkewTimings(t *testing.T) {
	c := NewCollector()
	c.RecordFailure(OpBioactivity)
	c.RecordFailure(OpBioactivity)

	snap := c.Snapshot()
	require.NotNil(t, snap.Bioactivity)
	assert.Equal(t, int64(2), snap.Bioactivity.Failures)
	assert.Equal(t, int64(0), snap.Bioactivity.Count)
	assert.Equal(t, float64(0), snap.Bioactivity.AvgTimeMs)
}

func TestCollectorLLMUsage(t *testing.T) {
	c := NewCollector()
	c.RecordLLMUsage(OpSynthesis, 2*time.Second, 1200, 400)
	c.RecordLLMUsage(OpSynthesis, 4*time.Second, 1800, 600)

	snap := c.Snapshot()
	require.NotNil(t, snap.Synthesis)
	assert.Equal(t, int64(2), snap.Synthesis.Count)
	require.NotNil(t, snap.Synthesis.TotalInputTokens)
	assert.Equal(t, int64(3000), *snap.Synthesis.TotalInputTokens)
	require.NotNil(t, snap.Synthesis.AvgOutputTokens)
	assert.InDelta(t, 500.0, *snap.Synthesis.AvgOutputTokens, 0.1)
	require.NotNil(t, snap.Synthesis.MinInputTokens)
	assert.Equal(t, int64(1200), *snap.Synthesis.MinInputTokens)
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpProperties, time.Millisecond)
				c.RecordFailure(OpMechanism)
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	require.NotNil(t, snap.Properties)
	assert.Equal(t, int64(1000), snap.Properties.Count)
	assert.Equal(t, int64(1000), snap.Mechanism.Failures)
}
