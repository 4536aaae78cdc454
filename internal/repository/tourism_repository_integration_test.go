//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/desiverse/api/internal/database/dbtest"
	"github.com/stwalsh4118/desiverse/api/internal/generator"
	"github.com/stwalsh4118/desiverse/api/internal/reference"
)

func TestTourismRepository_Postgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	repo := NewTourismRepository(dbtest.Start(ctx, t))
	records := generator.New(reference.Default(), generator.WithSeed(7)).Generate()

	t.Run("empty table", func(t *testing.T) {
		got, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("replace all", func(t *testing.T) {
		n, err := repo.ReplaceAll(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, int64(len(records)), n)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(len(records)), count)
	})

	t.Run("list round trip is ordered", func(t *testing.T) {
		got, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, got, len(records))

		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]
			ordered := prev.Year < cur.Year ||
				(prev.Year == cur.Year && prev.Month < cur.Month) ||
				(prev.Year == cur.Year && prev.Month == cur.Month && prev.State <= cur.State)
			require.True(t, ordered, "rows %d and %d out of order", i-1, i)
		}
		assert.ElementsMatch(t, records, got)
	})

	t.Run("filter", func(t *testing.T) {
		got, err := repo.List(ctx, Filter{StartYear: 2022, EndYear: 2023, Regions: []string{"South"}})
		require.NoError(t, err)
		require.NotEmpty(t, got)
		for _, r := range got {
			assert.Equal(t, "South", r.Region)
			assert.GreaterOrEqual(t, r.Year, 2022)
			assert.LessOrEqual(t, r.Year, 2023)
		}
	})

	t.Run("append then replace", func(t *testing.T) {
		_, err := repo.Append(ctx, records[:10])
		require.NoError(t, err)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(len(records)+10), count)

		// DISTINCT collapses the duplicated rows.
		got, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, got, len(records))

		_, err = repo.ReplaceAll(ctx, records[:5])
		require.NoError(t, err)
		count, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, ccancel := context.WithCancel(ctx)
		ccancel()
		_, err := repo.List(cctx, Filter{})
		assert.Error(t, err)
	})
}
