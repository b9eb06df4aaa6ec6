package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divicards/internal/sample"
	"divicards/pkg/logger"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "samples.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newSample(id string, created time.Time) sample.Sample {
	return sample.Sample{
		ID:          id,
		League:      "Settlers",
		PriceLeague: "Standard",
		CreatedAt:   created,
		Cards: []sample.Card{
			{Name: "The Doctor", Amount: 1, Price: 900, Total: 900},
			{Name: "Rain of Chaos", Amount: 15, Price: 0.25, Total: 3.8},
		},
	}
}

func TestDB_SaveAndGet(t *testing.T) {
	db := openDB(t)
	created := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveSample(newSample("s1", created)))

	got, err := db.GetSample("s1")
	require.NoError(t, err)
	assert.Equal(t, "Settlers", got.League)
	assert.Equal(t, "Standard", got.PriceLeague)
	assert.True(t, created.Equal(got.CreatedAt))
	require.Len(t, got.Cards, 2)
	assert.Equal(t, "The Doctor", got.Cards[0].Name)
	assert.Equal(t, 15, got.Cards[1].Amount)
}

func TestDB_SaveReplaces(t *testing.T) {
	db := openDB(t)
	s := newSample("s1", time.Now())
	require.NoError(t, db.SaveSample(s))

	s.Cards = s.Cards[:1]
	require.NoError(t, db.SaveSample(s))

	got, err := db.GetSample("s1")
	require.NoError(t, err)
	assert.Len(t, got.Cards, 1)
}

func TestDB_ListNewestFirst(t *testing.T) {
	db := openDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.SaveSample(newSample("old", now.Add(-time.Hour))))
	require.NoError(t, db.SaveSample(newSample("new", now)))

	list, err := db.ListSamples()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, 16, list[0].CardCount)
	assert.InDelta(t, 903.8, list[0].TotalChaos, 0.001)
}

func TestDB_DeleteAndNotFound(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.SaveSample(newSample("s1", time.Now())))

	require.NoError(t, db.DeleteSample("s1"))
	_, err := db.GetSample("s1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(db.DeleteSample("s1"), ErrNotFound))
}

func TestDB_Cleanup(t *testing.T) {
	db := openDB(t)
	now := time.Now().UTC()
	require.NoError(t, db.SaveSample(newSample("ancient", now.Add(-48*time.Hour))))
	require.NoError(t, db.SaveSample(newSample("fresh", now)))

	n, err := db.Cleanup(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := db.ListSamples()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].ID)
}
