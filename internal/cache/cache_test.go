package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/catalog"
)

type countingSource struct {
	calls int
	snap  catalog.Snapshot
}

func (s *countingSource) Snapshot(context.Context, int64) (catalog.Snapshot, error) {
	s.calls++
	return s.snap, nil
}

func newTestCatalog(t *testing.T) (*Catalog, *countingSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { client.Close() })

	src := &countingSource{snap: catalog.NewSnapshot(
		[]catalog.Printer{{ID: 1, Model: "P1S", PowerWatts: 200}},
		[]catalog.Filament{{ID: 2, SpoolCost: 120, SpoolWeightG: 1000}},
		nil, nil,
	)}
	return NewCatalog(src, client, time.Minute, zap.NewNop()), src, mr
}

func TestCatalog_ReadThrough(t *testing.T) {
	c, src, mr := newTestCatalog(t)
	ctx := context.Background()

	first, err := c.Snapshot(ctx, 7)
	require.NoError(t, err)
	second, err := c.Snapshot(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)
	p, ok := second.Printer(1)
	require.True(t, ok)
	assert.Equal(t, 200.0, p.PowerWatts)

	assert.True(t, mr.Exists("catalog:snapshot:7"))
	assert.Equal(t, time.Minute, mr.TTL("catalog:snapshot:7"))
}

func TestCatalog_Invalidate(t *testing.T) {
	c, src, mr := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.Snapshot(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, 7))
	assert.False(t, mr.Exists("catalog:snapshot:7"))

	_, err = c.Snapshot(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCatalog_FallsBackWhenRedisIsDown(t *testing.T) {
	c, src, mr := newTestCatalog(t)
	mr.Close()

	snap, err := c.Snapshot(context.Background(), 7)
	require.NoError(t, err)
	_, ok := snap.Filament(2)
	assert.True(t, ok)
	assert.Equal(t, 1, src.calls)
}

func TestCatalog_CorruptEntryIsReloaded(t *testing.T) {
	c, src, mr := newTestCatalog(t)
	require.NoError(t, mr.Set("catalog:snapshot:7", "{not json"))

	_, err := c.Snapshot(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
}
