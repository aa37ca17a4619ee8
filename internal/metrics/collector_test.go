package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorEmpty(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot()
	assert.Empty(t, snap.Operations)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()
	c.Record("executeSQL", 10*time.Millisecond, false)
	c.Record("executeSQL", 30*time.Millisecond, true)
	c.Record("getAllKeys", 5*time.Millisecond, false)

	snap := c.Snapshot()
	require.Len(t, snap.Operations, 2)

	sql := snap.Operations[0]
	assert.Equal(t, "executeSQL", sql.Name)
	assert.Equal(t, int64(2), sql.Count)
	assert.Equal(t, int64(1), sql.Errors)
	assert.Equal(t, int64(40), sql.TotalTimeMs)
	assert.Equal(t, 20.0, sql.AvgTimeMs)
	assert.Equal(t, int64(10), sql.MinTimeMs)
	assert.Equal(t, int64(30), sql.MaxTimeMs)

	assert.Equal(t, "getAllKeys", snap.Operations[1].Name)
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record("op", time.Millisecond, false)
			_ = c.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), c.Snapshot().Operations[0].Count)
}
