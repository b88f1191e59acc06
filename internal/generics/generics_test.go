package generics

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	assert.Equal(t, int32(7), Abs(int32(-7)))
	assert.Equal(t, int32(7), Abs(int32(7)))
	assert.Equal(t, 0, Abs(0))
	assert.Equal(t, int64(50_000), Abs(int64(-50_000)))
}

func TestSortedKeys(t *testing.T) {
	m := map[int]string{1: "1", 5: "5", 3: "3"}
	// Since the builtin map iterator in Go is deliberately non-deterministic, we
	// run it a bunch of times to show it is stably sorted.
	want := []int{1, 3, 5}
	for _ = range 100 {
		got := slices.Collect(SortedKeys(m))
		if !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestKeysSlice(t *testing.T) {
	m := map[int]string{1: "1", 5: "5", 3: "3"}
	got := KeysSlice(m)
	slices.Sort(got)
	assert.Equal(t, []int{1, 3, 5}, got)
}

func TestSet(t *testing.T) {
	// Sets are created empty.
	s := MakeSet[int](10)
	assert.Len(t, s, 0)

	// Check inserting and recovery.
	s.Insert(3, 7)
	assert.Len(t, s, 2)
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(7))
	assert.False(t, s.Has(5))

	s2 := SetWith(5, 7)
	assert.Len(t, s2, 2)
	assert.True(t, s2.Has(5))
	assert.True(t, s2.Has(7))
	assert.False(t, s2.Has(3))

	delete(s, 7)
	assert.Len(t, s, 1)
	assert.True(t, s.Has(3))
	assert.False(t, s.Has(7))

	got := slices.Collect(s2.Iter())
	slices.Sort(got)
	assert.Equal(t, []int{5, 7}, got)
}
