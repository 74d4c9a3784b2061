package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWithSnapshot(t *testing.T, snapshot []Record) *Store {
	t.Helper()
	records := newFakeRecordStore()
	store := NewStore(records)
	t.Cleanup(store.Close)

	store.Bind("user-1")
	records.lastSub().snapshots <- snapshot
	waitForSnapshot(t, store, len(snapshot))
	return store
}

func intptr(v int) *int { return &v }

func TestSortByPopularityDescendingIsStable(t *testing.T) {
	store := storeWithSnapshot(t, []Record{
		{ID: "a", OwnerID: "user-1"},                       // no popularity
		{ID: "b", OwnerID: "user-1", Popularity: intptr(5)},
		{ID: "c", OwnerID: "user-1", Popularity: intptr(2)},
		{ID: "d", OwnerID: "user-1"},                       // no popularity
	})

	sorted := store.SortByPopularity(true)
	require.Len(t, sorted, 4)

	// [None, 5, 2, None] -> [5, 2, None, None], ties keep original order
	assert.Equal(t, "b", sorted[0].ID)
	assert.Equal(t, "c", sorted[1].ID)
	assert.Equal(t, "a", sorted[2].ID)
	assert.Equal(t, "d", sorted[3].ID)
}

func TestSortByPopularityAscending(t *testing.T) {
	store := storeWithSnapshot(t, []Record{
		{ID: "b", OwnerID: "user-1", Popularity: intptr(5)},
		{ID: "c", OwnerID: "user-1", Popularity: intptr(2)},
	})

	sorted := store.SortByPopularity(false)
	require.Len(t, sorted, 2)
	assert.Equal(t, "c", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
}

func TestSortByDate(t *testing.T) {
	now := time.Now().UTC()
	store := storeWithSnapshot(t, []Record{
		{ID: "old", OwnerID: "user-1", CreatedAt: now.Add(-time.Hour)},
		{ID: "new", OwnerID: "user-1", CreatedAt: now},
		{ID: "unset", OwnerID: "user-1"}, // zero time sorts as the minimum
	})

	newest := store.SortByDate(true)
	require.Len(t, newest, 3)
	assert.Equal(t, "new", newest[0].ID)
	assert.Equal(t, "old", newest[1].ID)
	assert.Equal(t, "unset", newest[2].ID)

	oldest := store.SortByDate(false)
	assert.Equal(t, "unset", oldest[0].ID)
	assert.Equal(t, "new", oldest[2].ID)
}

func TestFilterByGenreIsCaseSensitive(t *testing.T) {
	store := storeWithSnapshot(t, []Record{
		{ID: "a", OwnerID: "user-1", Genres: []string{"Action", "Adventure"}},
		{ID: "b", OwnerID: "user-1", Genres: []string{"action"}},
		{ID: "c", OwnerID: "user-1"},
	})

	matches := store.FilterByGenre("Action")
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
}

func TestFavoritesOnly(t *testing.T) {
	store := storeWithSnapshot(t, []Record{
		{ID: "a", OwnerID: "user-1", IsFavorite: true},
		{ID: "b", OwnerID: "user-1"},
	})

	favorites := store.FavoritesOnly()
	require.Len(t, favorites, 1)
	assert.Equal(t, "a", favorites[0].ID)
}

func TestViewsDoNotMutateSnapshot(t *testing.T) {
	store := storeWithSnapshot(t, []Record{
		{ID: "b", OwnerID: "user-1", Popularity: intptr(5)},
		{ID: "c", OwnerID: "user-1", Popularity: intptr(2)},
	})

	_ = store.SortByPopularity(false)

	snapshot := store.Snapshot()
	assert.Equal(t, "b", snapshot[0].ID)
	assert.Equal(t, "c", snapshot[1].ID)
}
