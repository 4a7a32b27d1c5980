// ABOUTME: Tests for the JSON file-backed review store.
// ABOUTME: Covers round-trips, normalization, lookups, filters, edits, deletes and failure atomicity.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/tastelog/internal/models"
	"github.com/2389-research/tastelog/internal/validation"
)

func newTestStore(t *testing.T, opts ...StoreOption) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "app.json"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seed(t *testing.T, store *JSONStore, entries ...models.Entry) {
	t.Helper()
	require.NoError(t, store.Save(entries))
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func pizza(restaurant string, rating float64) models.Entry {
	return models.Entry{
		Date:       "01/02/24",
		Restaurant: restaurant,
		Location:   "nyc",
		Food:       "pizza",
		Review:     "Crispy crust",
		Rating:     rating,
	}
}

func TestNewJSONStoreRequiresPath(t *testing.T) {
	_, err := NewJSONStore("")
	assert.Error(t, err)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestLoadEmptyArrayMatchesMissingFile(t *testing.T) {
	missing := newTestStore(t)
	empty := newTestStore(t)
	require.NoError(t, os.WriteFile(empty.Path(), []byte("[]"), 0644))

	a, err := missing.Load()
	require.NoError(t, err)
	b, err := empty.Load()
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("missing vs empty mismatch (-missing +empty):\n%s", diff)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	store := newTestStore(t)
	want := []models.Entry{
		pizza("cafe a", 4.5),
		{Date: "03/04/24", Restaurant: "sushi bar", Location: "sf", Food: "sushi", Review: "Fresh! Loved It", Rating: 5},
		{Restaurant: "diner", Location: "la", Food: "burger", Rating: 0},
	}

	require.NoError(t, store.Save(want))
	got, err := store.Load()
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveWritesAllKeys(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, models.Entry{Restaurant: "x", Rating: 2})

	data := string(readFile(t, store.Path()))
	for _, key := range models.FieldNames {
		assert.Contains(t, data, `"`+key+`"`)
	}
	assert.Contains(t, data, "\n  {", "expected two-space indentation")
}

func TestLoadToleratesMissingKeys(t *testing.T) {
	store := newTestStore(t)
	raw := `[{"restaurant": "cafe a", "food": "pizza"}, {"rating": 3}]`
	require.NoError(t, os.WriteFile(store.Path(), []byte(raw), 0644))

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.Entry{Restaurant: "cafe a", Food: "pizza"}, entries[0])
	assert.Equal(t, 3.0, entries[1].Rating)
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"whitespace", "  \n"},
		{"truncated", `[{"date": "01/01/24"`},
		{"object", `{"date": "01/01/24"}`},
		{"null", "null"},
		{"string rating", `[{"rating": "four"}]`},
		{"scalar element", `[1, 2]`},
		{"not json", "restaurant,food\ncafe,pizza\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.data), 0644))

			_, err := store.Load()
			var corrupt *CorruptStoreError
			require.True(t, errors.As(err, &corrupt), "expected CorruptStoreError, got %v", err)
			assert.Equal(t, store.Path(), corrupt.Path)
		})
	}
}

func TestAppendNormalizesCase(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Append(models.EntryInput{
		Date:       "05/06/24",
		Restaurant: "Cafe A",
		Location:   "NYC",
		Food:       "PiZZa",
		Review:     "Great Slice",
		Rating:     "4",
	})
	require.NoError(t, err)

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cafe a", entries[0].Restaurant)
	assert.Equal(t, "nyc", entries[0].Location)
	assert.Equal(t, "pizza", entries[0].Food)
	assert.Equal(t, "Great Slice", entries[0].Review, "review keeps its case")
	assert.Equal(t, "05/06/24", entries[0].Date)
	assert.Equal(t, 4.0, entries[0].Rating)
}

func TestAppendPreservesOrder(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"first", "second", "third"} {
		_, err := store.Append(models.EntryInput{Restaurant: name, Rating: "3"})
		require.NoError(t, err)
	}

	entries, err := store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Restaurant)
	assert.Equal(t, "second", entries[1].Restaurant)
	assert.Equal(t, "third", entries[2].Restaurant)
}

func TestAppendInvalidRatingLeavesFileUntouched(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, pizza("cafe a", 4))
	before := readFile(t, store.Path())

	_, err := store.Append(models.EntryInput{Restaurant: "cafe b", Rating: "abc"})

	var invalid *InvalidFieldError
	require.True(t, errors.As(err, &invalid), "expected InvalidFieldError, got %v", err)
	assert.Equal(t, "rating", invalid.Field)
	assert.Equal(t, "abc", invalid.Value)
	assert.ErrorIs(t, err, validation.ErrNotNumeric)
	assert.Equal(t, before, readFile(t, store.Path()))
}

func TestAppendInvalidRatingDoesNotCreateFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Append(models.EntryInput{Rating: "NaN"})
	require.Error(t, err)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestAppendOnCorruptStoreFails(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{oops"), 0644))

	_, err := store.Append(models.EntryInput{Rating: "3"})

	var corrupt *CorruptStoreError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, []byte("{oops"), readFile(t, store.Path()))
}

func TestStrictRatings(t *testing.T) {
	lenient := newTestStore(t)
	assert.False(t, lenient.StrictRatings())
	_, err := lenient.Append(models.EntryInput{Rating: "9"})
	require.NoError(t, err, "range is not enforced by default")

	strict := newTestStore(t, WithStrictRatings(true))
	assert.True(t, strict.StrictRatings())
	_, err = strict.Append(models.EntryInput{Rating: "9"})
	assert.ErrorIs(t, err, validation.ErrOutOfRange)

	_, err = strict.Append(models.EntryInput{Rating: "5"})
	assert.NoError(t, err)
}

func TestFindByKeyReturnsFirstDuplicate(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, pizza("cafe a", 4), pizza("cafe a", 4))

	idx, found, err := store.FindByKey("cafe a", "nyc", "pizza")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, idx)
}

func TestFindByKeySkipsPartialMatches(t *testing.T) {
	store := newTestStore(t)
	seed(t, store,
		models.Entry{Restaurant: "cafe a", Location: "sf", Food: "pizza"},
		models.Entry{Restaurant: "cafe a", Location: "nyc", Food: "pasta"},
		models.Entry{Restaurant: "cafe a", Location: "nyc", Food: "pizza"},
	)

	idx, found, err := store.FindByKey("cafe a", "nyc", "pizza")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, idx)
}

func TestFindByKeyNotFound(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, pizza("cafe a", 4))

	idx, found, err := store.FindByKey("cafe b", "nyc", "pizza")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, -1, idx)
}

func TestFindByKeyMatchesLegacyMixedCase(t *testing.T) {
	store := newTestStore(t)
	raw := `[{"date":"","restaurant":"Cafe A","location":"NYC","food":"Pizza","review":"","rating":4}]`
	require.NoError(t, os.WriteFile(store.Path(), []byte(raw), 0644))

	idx, found, err := store.FindByKey("cafe a", "nyc", "pizza")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, idx)
}

func TestFilterByFood(t *testing.T) {
	store := newTestStore(t)
	seed(t, store,
		models.Entry{Restaurant: "a", Food: "ramen"},
		models.Entry{Restaurant: "b", Food: "sushi", Rating: 4},
		models.Entry{Restaurant: "c", Food: "pizza"},
		models.Entry{Restaurant: "d", Food: "sushi", Rating: 2},
		models.Entry{Restaurant: "e", Food: "tacos"},
	)

	matches, err := store.FilterByFood("sushi")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].Restaurant)
	assert.Equal(t, "d", matches[1].Restaurant)
}

func TestFilterByFoodNoMatches(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, pizza("cafe a", 4))

	matches, err := store.FilterByFood("sushi")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestFilterByFoodAndLocation(t *testing.T) {
	store := newTestStore(t)
	seed(t, store,
		models.Entry{Restaurant: "a", Location: "nyc", Food: "pizza"},
		models.Entry{Restaurant: "b", Location: "sf", Food: "pizza"},
		models.Entry{Restaurant: "c", Location: "nyc", Food: "bagel"},
		models.Entry{Restaurant: "d", Location: "nyc", Food: "pizza"},
	)

	matches, err := store.FilterByFoodAndLocation("pizza", "nyc")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Restaurant)
	assert.Equal(t, "d", matches[1].Restaurant)
}

func TestFilterByFoodAndRestaurant(t *testing.T) {
	store := newTestStore(t)
	seed(t, store,
		models.Entry{Restaurant: "cafe a", Location: "nyc", Food: "pizza"},
		models.Entry{Restaurant: "cafe a", Location: "sf", Food: "pizza"},
		models.Entry{Restaurant: "cafe b", Location: "nyc", Food: "pizza"},
	)

	matches, err := store.FilterByFoodAndRestaurant("pizza", "cafe a")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "nyc", matches[0].Location)
	assert.Equal(t, "sf", matches[1].Location)
}

func TestReplaceAt(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, pizza("cafe a", 3), pizza("cafe b", 2))

	entries, err := store.ReplaceAt(1, models.EntryInput{
		Date:       "09/09/24",
		Restaurant: "Cafe B",
		Location:   "NYC",
		Food:       "Pizza",
		Review:     "Much Better Now",
		Rating:     "4.5",
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, pizza("cafe a", 3), loaded[0])
	assert.Equal(t, models.Entry{
		Date:       "09/09/24",
		Restaurant: "cafe b",
		Location:   "nyc",
		Food:       "pizza",
		Review:     "Much Better Now",
		Rating:     4.5,
	}, loaded[1])
}

func TestReplaceAtOutOfRangeLeavesFileUntouched(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, pizza("a", 1), pizza("b", 2), pizza("c", 3))
	before := readFile(t, store.Path())

	for _, idx := range []int{99, 3, -1} {
		_, err := store.ReplaceAt(idx, models.EntryInput{Rating: "4"})

		var invalid *InvalidIndexError
		require.True(t, errors.As(err, &invalid), "index %d: expected InvalidIndexError, got %v", idx, err)
		assert.Equal(t, idx, invalid.Index)
		assert.Equal(t, 3, invalid.Len)
	}
	assert.Equal(t, before, readFile(t, store.Path()))
}

func TestReplaceAtInvalidRatingLeavesFileUntouched(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, pizza("a", 1))
	before := readFile(t, store.Path())

	_, err := store.ReplaceAt(0, models.EntryInput{Rating: "five"})

	var invalid *InvalidFieldError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, before, readFile(t, store.Path()))
}

func TestRemoveByEqualityOneOfDuplicates(t *testing.T) {
	store := newTestStore(t)
	dup := pizza("cafe a", 4)
	other := pizza("cafe b", 2)
	seed(t, store, dup, other, dup)

	entries, removed, err := store.RemoveByEquality(dup)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []models.Entry{other, dup}, entries)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []models.Entry{other, dup}, loaded)
}

func TestRemoveByEqualityRequiresAllFields(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, pizza("cafe a", 4))
	before := readFile(t, store.Path())

	almost := pizza("cafe a", 4)
	almost.Review = "crispy crust"

	entries, removed, err := store.RemoveByEquality(almost)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, entries, 1)
	assert.Equal(t, before, readFile(t, store.Path()))
}

func TestRemoveByEqualityMissingFileWritesNothing(t *testing.T) {
	store := newTestStore(t)

	_, removed, err := store.RemoveByEquality(pizza("cafe a", 4))
	require.NoError(t, err)
	assert.False(t, removed)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "reviews.json")
	store, err := NewJSONStore(path)
	require.NoError(t, err)

	_, err = store.Append(models.EntryInput{Restaurant: "x", Rating: "1"})
	require.NoError(t, err)

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConcurrentAppendsAreSerialized(t *testing.T) {
	store := newTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Append(models.EntryInput{Restaurant: "r", Rating: "3"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, entries, n, "no append may be lost")
}
