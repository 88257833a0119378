// Package storagetest содержит общий набор проверок для реализаций storage.EventRepository.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VechkanovVV/webhook-repo/internal/storage"
)

// Factory возвращает репозиторий для одного подтеста.
// Репозиторий может быть общим: перед каждым подтестом он очищается.
type Factory func(t *testing.T) storage.EventRepository

// Run прогоняет контракт EventRepository.
func Run(t *testing.T, newRepo Factory) {
	fresh := func(t *testing.T) storage.EventRepository {
		t.Helper()
		repo := newRepo(t)
		require.NoError(t, repo.Clear(context.Background()))
		return repo
	}

	t.Run("empty store", func(t *testing.T) {
		events, err := fresh(t).Recent(context.Background(), storage.DefaultRecentLimit)
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("round trip", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		want := []storage.Event{
			{
				RequestID:  "7fd1a60b01f91b314f59955a4e4d4e80d8edf11d",
				Author:     "Travis",
				Action:     storage.ActionPush,
				FromBranch: "",
				ToBranch:   "staging",
				Timestamp:  "2021-04-01T21:30:00+00:00",
			},
			{
				RequestID:  "1234567",
				Author:     `Ünïcödé "quoted" O'Brien`,
				Action:     storage.ActionMerge,
				FromBranch: "feature/привет",
				ToBranch:   "master",
				Timestamp:  "2021-04-02T12:00:00.123456+00:00",
			},
		}
		for _, ev := range want {
			require.NoError(t, repo.Append(ctx, ev))
		}

		got, err := repo.Recent(ctx, storage.DefaultRecentLimit)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, want[1], got[0])
		assert.Equal(t, want[0], got[1])
	})

	t.Run("recent is descending and limited", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		stamps := []string{
			"2021-04-03T10:00:00+00:00",
			"2021-04-01T10:00:00+00:00",
			"2021-04-05T10:00:00+00:00",
			"2021-04-02T10:00:00.5+00:00",
			"2021-04-04T10:00:00+00:00",
		}
		for i, ts := range stamps {
			require.NoError(t, repo.Append(ctx, event(i, ts)))
		}

		got, err := repo.Recent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "2021-04-05T10:00:00+00:00", got[0].Timestamp)
		assert.Equal(t, "2021-04-04T10:00:00+00:00", got[1].Timestamp)
		assert.Equal(t, "2021-04-03T10:00:00+00:00", got[2].Timestamp)

		all, err := repo.Recent(ctx, 50)
		require.NoError(t, err)
		require.Len(t, all, len(stamps))
		for i := 1; i < len(all); i++ {
			assert.GreaterOrEqual(t, all[i-1].Timestamp, all[i].Timestamp)
		}
	})

	t.Run("non-positive limit", func(t *testing.T) {
		repo := fresh(t)
		require.NoError(t, repo.Append(context.Background(), event(1, "2021-04-01T10:00:00+00:00")))

		got, err := repo.Recent(context.Background(), 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ties are ordered deterministically", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		for i := 0; i < 4; i++ {
			require.NoError(t, repo.Append(ctx, event(i, "2021-04-01T10:00:00+00:00")))
		}

		first, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		second, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		ev := event(7, "2021-04-01T10:00:00+00:00")
		require.NoError(t, repo.Append(ctx, ev))
		require.NoError(t, repo.Append(ctx, ev))

		got, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		require.NoError(t, repo.Clear(ctx))
		require.NoError(t, repo.Append(ctx, event(1, "2021-04-01T10:00:00+00:00")))
		require.NoError(t, repo.Clear(ctx))
		require.NoError(t, repo.Clear(ctx))

		got, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("concurrent appends", func(t *testing.T) {
		repo := fresh(t)
		ctx := context.Background()

		const writers = 25
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- repo.Append(ctx, event(i, fmt.Sprintf("2021-04-01T10:00:%02d+00:00", i)))
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.Recent(ctx, 100)
		require.NoError(t, err)
		assert.Len(t, got, writers)
	})
}

func event(i int, ts string) storage.Event {
	return storage.Event{
		RequestID:  fmt.Sprintf("req-%d", i),
		Author:     "Travis",
		Action:     storage.ActionPullRequest,
		FromBranch: "staging",
		ToBranch:   "master",
		Timestamp:  ts,
	}
}
