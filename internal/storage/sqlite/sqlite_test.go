package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabric-cost/internal/costing"
	"fabric-cost/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func calculationFixture(t *testing.T, id, customer string, createdAt time.Time) *storage.Calculation {
	t.Helper()

	c := &storage.Calculation{
		ID:           id,
		CustomerName: customer,
		Loom: costing.LoomParams{
			BoxNumber:       "100",
			Threading:       "2",
			FabricWidth:     "150",
			EdgeFinishing:   "2",
			FabricShrinkage: "1.05",
			WeftDensity:     "40",
			MachineSpeed:    "600",
			Efficiency:      "80",
			DailyLaborCost:  "300",
			FixedCost:       "0.5",
		},
		Materials: []costing.Material{{
			Name:          "cotton",
			WarpYarnValue: "300",
			WarpYarnType:  costing.YarnTypeDNumber,
			WeftYarnValue: "40",
			WeftYarnType:  costing.YarnTypeYarnCount,
			WarpYarnPrice: "30",
			WeftYarnPrice: "25",
			WarpRatio:     costing.Ratio("1"),
			WeftRatio:     costing.Ratio("1"),
		}},
		Constants: costing.DefaultConstants(),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	res, err := costing.Calculate(c.Input())
	require.NoError(t, err)
	c.Results = res

	return c
}

func TestStorage_SaveAndGet(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	want := calculationFixture(t, "a1", "Acme Textiles", created)
	require.NoError(t, s.SaveCalculation(ctx, want))

	got, err := s.GetCalculation(ctx, "a1")
	require.NoError(t, err)

	assert.Equal(t, want.CustomerName, got.CustomerName)
	assert.Equal(t, want.Loom, got.Loom)
	assert.Equal(t, want.Materials, got.Materials)
	assert.Equal(t, want.Constants, got.Constants)
	assert.Equal(t, want.Results, got.Results)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.GetCalculation(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_ListNewestFirstWithRange(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d"} {
		c := calculationFixture(t, id, "customer "+id, day.Add(time.Duration(i)*24*time.Hour))
		require.NoError(t, s.SaveCalculation(ctx, c))
	}

	all, err := s.ListCalculations(ctx, storage.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].ID)
	assert.Equal(t, "a", all[3].ID)

	ranged, err := s.ListCalculations(ctx, storage.HistoryFilter{
		From: day.Add(24 * time.Hour),
		To:   day.Add(48*time.Hour + 23*time.Hour + 59*time.Minute + 59*time.Second),
	})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, "c", ranged[0].ID)
	assert.Equal(t, "b", ranged[1].ID)

	limited, err := s.ListCalculations(ctx, storage.HistoryFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "d", limited[0].ID)
}

func TestStorage_UpdateAndDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	c := calculationFixture(t, "x", "old name", created)
	require.NoError(t, s.SaveCalculation(ctx, c))

	c.CustomerName = "new name"
	c.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, s.UpdateCalculation(ctx, c))

	got, err := s.GetCalculation(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "new name", got.CustomerName)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, c.UpdatedAt.Equal(got.UpdatedAt))

	missing := calculationFixture(t, "ghost", "", created)
	assert.ErrorIs(t, s.UpdateCalculation(ctx, missing), storage.ErrNotFound)

	require.NoError(t, s.DeleteCalculation(ctx, "x"))
	assert.ErrorIs(t, s.DeleteCalculation(ctx, "x"), storage.ErrNotFound)
}

func TestStorage_SyncQueue(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveCalculation(ctx, calculationFixture(t, "one", "", t0)))
	require.NoError(t, s.SaveCalculation(ctx, calculationFixture(t, "two", "", t0.Add(time.Minute))))

	queued, err := s.ListUnsynced(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queued, 2)
	assert.Equal(t, "one", queued[0].ID)

	require.NoError(t, s.MarkSynced(ctx, []string{"one", "two"}, t0.Add(30*time.Second)))

	// "two" changed after the push started
	queued, err = s.ListUnsynced(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, "two", queued[0].ID)

	require.NoError(t, s.MarkSynced(ctx, []string{"two"}, t0.Add(time.Hour)))
	queued, err = s.ListUnsynced(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, queued)

	// editing requeues the record
	c, err := s.GetCalculation(ctx, "one")
	require.NoError(t, err)
	c.UpdatedAt = t0.Add(2 * time.Hour)
	require.NoError(t, s.UpdateCalculation(ctx, c))

	queued, err = s.ListUnsynced(ctx, 10)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, "one", queued[0].ID)

	assert.NoError(t, s.MarkSynced(ctx, nil, t0))
}

func TestStorage_Constants(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetConstants(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	c := costing.DefaultConstants()
	c.WarpDivider = 8800
	require.NoError(t, s.UpdateConstants(ctx, c))

	got, err := s.GetConstants(ctx)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	c.DefaultDValue = 5000
	require.NoError(t, s.UpdateConstants(ctx, c))
	got, err = s.GetConstants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, got.DefaultDValue)
}
