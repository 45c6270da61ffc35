package motor

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pb33f/harview/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(seed ...model.CustomFilter) *MemoryFilterStore {
	store := NewMemoryFilterStore(seed...)
	store.now = func() time.Time { return testEpoch }
	n := 0
	store.newID = func() string {
		n++
		return fmt.Sprintf("custom-%d", n)
	}
	return store
}

func TestMemoryFilterStore_Add(t *testing.T) {
	store := newTestStore()

	added, err := store.Add(FilterInput{Name: "API", Pattern: "/api/", PatternType: model.PatternPath, Icon: "🔷"})
	require.NoError(t, err)

	assert.Equal(t, "custom-1", added.ID)
	assert.Equal(t, testEpoch.UnixMilli(), added.CreatedAt)
	assert.Equal(t, []model.CustomFilter{added}, store.List())

	_, err = store.Add(FilterInput{Name: "bad", Pattern: "(unclosed", PatternType: model.PatternRegex})
	assert.ErrorIs(t, err, ErrInvalidPattern)

	_, err = store.Add(FilterInput{Name: "empty", Pattern: " ", PatternType: model.PatternPath})
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Len(t, store.List(), 1)
}

func TestMemoryFilterStore_Update(t *testing.T) {
	store := newTestStore()
	added, err := store.Add(FilterInput{Name: "API", Pattern: "/api/", PatternType: model.PatternPath})
	require.NoError(t, err)

	name := "Images"
	updated, err := store.Update(added.ID, FilterUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Images", updated.Name)
	assert.Equal(t, "/api/", updated.Pattern)
	assert.Equal(t, added.CreatedAt, updated.CreatedAt)

	regex := model.PatternRegex
	bad := "[z-a]"
	_, err = store.Update(added.ID, FilterUpdate{Pattern: &bad, PatternType: &regex})
	assert.ErrorIs(t, err, ErrInvalidPattern)

	got, ok := store.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, updated, got, "failed update leaves the filter untouched")

	_, err = store.Update("custom-missing", FilterUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrFilterNotFound)
}

func TestMemoryFilterStore_DeleteAndReorder(t *testing.T) {
	store := newTestStore(DefaultCustomFilters()...)
	for _, p := range []string{"/a", "/b", "/c"} {
		_, err := store.Add(FilterInput{Name: p, Pattern: p, PatternType: model.PatternPath})
		require.NoError(t, err)
	}

	ids := func() []string {
		var out []string
		for _, f := range store.List() {
			out = append(out, f.ID)
		}
		return out
	}
	assert.Equal(t, []string{"custom-example", "custom-1", "custom-2", "custom-3"}, ids())

	require.NoError(t, store.Reorder(3, 0))
	assert.Equal(t, []string{"custom-3", "custom-example", "custom-1", "custom-2"}, ids())

	require.NoError(t, store.Reorder(0, 3))
	assert.Equal(t, []string{"custom-example", "custom-1", "custom-2", "custom-3"}, ids())

	assert.Error(t, store.Reorder(0, 4))
	assert.Error(t, store.Reorder(-1, 0))

	require.NoError(t, store.Delete("custom-2"))
	assert.Equal(t, []string{"custom-example", "custom-1", "custom-3"}, ids())
	assert.ErrorIs(t, store.Delete("custom-2"), ErrFilterNotFound)

	// the active selection falls back once its filter is gone
	assert.Equal(t, "all", ResolveSelection("custom-2", store.List()))
}

func TestMemoryFilterStore_ListIsACopy(t *testing.T) {
	store := NewMemoryFilterStore()
	assert.NotNil(t, store.List())

	added, err := store.Add(FilterInput{Name: "API", Pattern: "/api/", PatternType: model.PatternPath})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(added.ID, "custom-"))

	list := store.List()
	list[0].Name = "changed"

	got, _ := store.Get(added.ID)
	assert.Equal(t, "API", got.Name)
}

func TestMemoryFilterStore_Concurrent(t *testing.T) {
	store := NewMemoryFilterStore()
	records := urlRecords(threeURLs...)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Add(FilterInput{Name: "f", Pattern: fmt.Sprintf("/api/foo/%d", i%3), PatternType: model.PatternPath})
			assert.NoError(t, err)
			ComputeFilterCounts(records, store.List())
		}(i)
	}
	wg.Wait()

	filters := store.List()
	assert.Len(t, filters, 20)
	assert.Len(t, ComputeFilterCounts(records, filters), 24)
}
