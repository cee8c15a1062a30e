package locationrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-advice/internal/domain/advisor"
)

func TestMemoryRepositoryNewestFirstAndBounded(t *testing.T) {
	repo := NewMemoryRepository(2)
	ctx := context.Background()

	for _, name := range []string{"Yokohama", "Sapporo", "Naha"} {
		require.NoError(t, repo.Record(ctx, advisor.Location{Name: name, DisplayName: name}))
	}

	all, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Naha", all[0].Name)
	require.Equal(t, "Sapporo", all[1].Name)

	one, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []advisor.Location{{Name: "Naha", DisplayName: "Naha"}}, one)

	one[0].Name = "mutated"
	again, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Naha", again[0].Name)
}

func TestMemoryRepositoryEmpty(t *testing.T) {
	items, err := NewMemoryRepository(0).Recent(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}
