package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsEmptyColumnSet(t *testing.T) {
	_, err := New("empty", nil)
	require.ErrorIs(t, err, ErrNoColumns)
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New("dup", []string{"a", "b", "a"})
	require.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestColumns_CanonicalOrder(t *testing.T) {
	tbl, err := New("t", []string{"zeta", "alpha", "mid"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, tbl.Columns())
	assert.Equal(t, 0, tbl.Len())

	cols := tbl.Columns()
	cols[0] = "mutated"
	assert.Equal(t, "alpha", tbl.Columns()[0])
}

func TestPushGet(t *testing.T) {
	tbl, err := New("t", []string{"y", "x"})
	require.NoError(t, err)

	tbl.Push([]float32{1, 10})
	tbl.Push([]float32{2, 20})

	x, ok := tbl.Get("x")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, x)

	y, ok := tbl.Get("y")
	require.True(t, ok)
	assert.Equal(t, []float32{10, 20}, y)

	assert.Equal(t, 2, tbl.Len())

	_, ok = tbl.Get("missing")
	assert.False(t, ok)
}

func TestPush_WidthMismatchPanics(t *testing.T) {
	tbl, err := New("t", []string{"a", "b"})
	require.NoError(t, err)
	assert.Panics(t, func() { tbl.Push([]float32{1}) })
}

func TestNext_Wraps(t *testing.T) {
	tbl, err := New("t", []string{"c", "a", "b"})
	require.NoError(t, err)

	next, ok := tbl.Next("c", 1)
	require.True(t, ok)
	assert.Equal(t, "a", next, "next after the last column wraps to the first")

	prev, ok := tbl.Next("a", -1)
	require.True(t, ok)
	assert.Equal(t, "c", prev)

	same, _ := tbl.Next("b", 3)
	assert.Equal(t, "b", same)

	_, ok = tbl.Next("nope", 1)
	assert.False(t, ok)

	assert.Equal(t, 1, tbl.Index("b"))
	assert.Equal(t, -1, tbl.Index("nope"))
}
