package group

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g, err := New(0, 1)
	require.NoError(t, err)
	require.True(t, g.IsCoordinator())

	g, err = New(3, 4)
	require.NoError(t, err)
	require.False(t, g.IsCoordinator())
	require.Equal(t, 3, g.Rank)
	require.Equal(t, 4, g.Size)

	_, err = New(0, 0)
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = New(-1, 4)
	require.ErrorIs(t, err, ErrInvalidRank)

	_, err = New(4, 4)
	require.ErrorIs(t, err, ErrInvalidRank)
}

func TestLaunchRunsEveryRank(t *testing.T) {
	const size = 8
	var mu sync.Mutex
	seen := make(map[int]bool)

	err := Launch(context.Background(), size, func(_ context.Context, g Group) error {
		require.Equal(t, size, g.Size)
		mu.Lock()
		defer mu.Unlock()
		require.False(t, seen[g.Rank], "rank %d launched twice", g.Rank)
		seen[g.Rank] = true
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, size)
}

func TestLaunchPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Launch(context.Background(), 4, func(_ context.Context, g Group) error {
		if g.Rank == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestLaunchRejectsInvalidSize(t *testing.T) {
	err := Launch(context.Background(), 0, func(context.Context, Group) error { return nil })
	require.ErrorIs(t, err, ErrInvalidSize)
}
