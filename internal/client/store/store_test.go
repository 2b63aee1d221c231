package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID   string
	Name string
}

func newStore(records ...rec) *Store[rec] {
	s := New(func(r rec) string { return r.ID })
	s.ReplaceAll(records)
	return s
}

func ids(records []rec) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestUpsert_InsertsAndOverwritesInPlace(t *testing.T) {
	s := newStore(rec{ID: "a", Name: "uno"}, rec{ID: "b", Name: "dos"})

	s.Upsert(rec{ID: "c", Name: "tres"})
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.All()))

	s.Upsert(rec{ID: "a", Name: "uno bis"})
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.All()), "overwrite keeps position")

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "uno bis", got.Name)
}

func TestReplace_SwapsIdentifierKeepingPosition(t *testing.T) {
	s := newStore(rec{ID: "a"}, rec{ID: "tmp-1"}, rec{ID: "c"})

	s.Replace("tmp-1", rec{ID: "B1", Name: "real"})

	assert.Equal(t, []string{"a", "B1", "c"}, ids(s.All()))
	_, ok := s.Get("tmp-1")
	assert.False(t, ok, "temporary identifier must be gone")
	got, ok := s.Get("B1")
	require.True(t, ok)
	assert.Equal(t, "real", got.Name)
}

func TestReplace_AbsentIDIsNoop(t *testing.T) {
	s := newStore(rec{ID: "a"})
	s.Replace("missing", rec{ID: "x"})
	assert.Equal(t, []string{"a"}, ids(s.All()))
}

func TestRemove_IsIdempotent(t *testing.T) {
	s := newStore(rec{ID: "a"}, rec{ID: "b"}, rec{ID: "c"})

	s.Remove("b")
	assert.Equal(t, []string{"a", "c"}, ids(s.All()))

	s.Remove("b")
	s.Remove("nunca-existió")
	assert.Equal(t, []string{"a", "c"}, ids(s.All()))

	// Index stays consistent after the shift.
	got, ok := s.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)
}

func TestReplaceAll_DropsFilter(t *testing.T) {
	s := newStore(rec{ID: "a"}, rec{ID: "b"})
	s.SetFiltered([]rec{{ID: "a"}})
	require.Len(t, s.Filtered(), 1)

	s.ReplaceAll([]rec{{ID: "x"}, {ID: "y"}, {ID: "z"}})
	assert.Equal(t, []string{"x", "y", "z"}, ids(s.Filtered()))
	assert.Equal(t, 3, s.Len())
}

func TestFiltered_DefaultsToFullCollection(t *testing.T) {
	s := newStore(rec{ID: "a"}, rec{ID: "b"})
	assert.Equal(t, []string{"a", "b"}, ids(s.Filtered()))

	s.SetFiltered(nil)
	assert.Empty(t, s.Filtered(), "empty search result is a valid view")

	s.ResetFilter()
	assert.Equal(t, []string{"a", "b"}, ids(s.Filtered()))
}
