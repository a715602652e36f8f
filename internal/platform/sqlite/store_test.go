package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/platform/sqlite"
	"github.com/phrazzld/scry-deck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, policy store.CorruptionPolicy) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "scry.db"), policy, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scry.db")
	ctx := context.Background()

	first, err := sqlite.Open(ctx, path, store.CorruptionUseDefaults, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := sqlite.Open(ctx, path, store.CorruptionUseDefaults, nil)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestCardsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, store.CorruptionUseDefaults)

	empty, err := s.LoadCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	now := time.Date(2024, 5, 1, 10, 30, 0, 123000, time.UTC)
	tag := "math"
	a, err := domain.NewCard("2+2", "4", &tag, now)
	require.NoError(t, err)
	b, err := domain.NewCard("3*3", "9", nil, now)
	require.NoError(t, err)
	reviewed := now.Add(2 * time.Hour)
	b.LastReviewed = &reviewed
	b.ReviewCount, b.CorrectCount, b.Interval, b.LeitnerBox = 3, 2, 6, 2
	b.ExponentialFactor = 4

	cards := map[string]domain.Card{a.ID: *a, b.ID: *b}
	require.NoError(t, s.SaveCards(ctx, cards))

	loaded, err := s.LoadCards(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	for id, want := range cards {
		got := loaded[id]
		assert.Equal(t, want.Front, got.Front)
		assert.Equal(t, want.Tag, got.Tag)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, want.NextReview.Equal(got.NextReview))
		assert.Equal(t, want.Interval, got.Interval)
		assert.Equal(t, want.LeitnerBox, got.LeitnerBox)
		assert.Equal(t, want.ExponentialFactor, got.ExponentialFactor)
		if want.LastReviewed == nil {
			assert.Nil(t, got.LastReviewed)
		} else {
			require.NotNil(t, got.LastReviewed)
			assert.True(t, want.LastReviewed.Equal(*got.LastReviewed))
		}
	}

	// full overwrite drops cards missing from the snapshot
	require.NoError(t, s.SaveCards(ctx, map[string]domain.Card{a.ID: *a}))
	loaded, err = s.LoadCards(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.Contains(t, loaded, a.ID)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults before first save", func(t *testing.T) {
		s := openStore(t, store.CorruptionFail)
		got, err := s.LoadSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSettings(), got)
	})

	t.Run("save replaces record", func(t *testing.T) {
		s := openStore(t, store.CorruptionFail)
		first := domain.AppSettings{Algorithm: domain.AlgorithmLeitner, LeitnerIntervals: []int{1, 2}, ExponentialBase: 2}
		second := domain.AppSettings{Algorithm: domain.AlgorithmSimpleExponential, LeitnerIntervals: []int{1}, ExponentialBase: 3}

		require.NoError(t, s.SaveSettings(ctx, first))
		require.NoError(t, s.SaveSettings(ctx, second))

		got, err := s.LoadSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, second, got)
	})

	t.Run("corrupt document honours policy", func(t *testing.T) {
		lenient := openStore(t, store.CorruptionUseDefaults)
		_, err := lenient.DB().ExecContext(ctx,
			`INSERT INTO app_settings (id, document, updated_at) VALUES (1, 'garbage', ?)`, time.Now())
		require.NoError(t, err)
		got, err := lenient.LoadSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSettings(), got)

		strict := openStore(t, store.CorruptionFail)
		_, err = strict.DB().ExecContext(ctx,
			`INSERT INTO app_settings (id, document, updated_at) VALUES (1, 'garbage', ?)`, time.Now())
		require.NoError(t, err)
		_, err = strict.LoadSettings(ctx)
		assert.ErrorIs(t, err, store.ErrCorruptSnapshot)
	})
}
