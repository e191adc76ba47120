package main

import (
	"bytes"
	"strings"
	"testing"

	"fluxcore/flux/loader"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, g Generator) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf))
	return buf.Bytes()
}

func TestColumnNames(t *testing.T) {
	assert.Equal(t, []string{"x"}, ColumnNames(1))
	assert.Equal(t, []string{"x", "y", "z", "c3", "c4"}, ColumnNames(5))
}

func TestWriteLoadsBack(t *testing.T) {
	for _, shape := range []string{"clusters", "spiral", "uniform"} {
		t.Run(shape, func(t *testing.T) {
			g := Generator{Shape: shape, Rows: 5000, Columns: 4, Clusters: 3, Seed: 7, Comma: ','}
			out := generate(t, g)
			assert.True(t, strings.HasPrefix(string(out), "x,y,z,c3\n"))

			tbl, err := loader.Read(bytes.NewReader(out), shape, loader.Options{})
			require.NoError(t, err)
			assert.Equal(t, 5000, tbl.Len())
			assert.Equal(t, []string{"c3", "x", "y", "z"}, tbl.Columns())
			for _, c := range tbl.Columns() {
				v, _ := tbl.Get(c)
				for _, x := range v {
					require.False(t, math32.IsNaN(x))
				}
			}
		})
	}
}

func TestWriteDeterministic(t *testing.T) {
	g := Generator{Shape: "clusters", Rows: 300, Columns: 3, Clusters: 2, Seed: 42, Comma: ','}
	assert.Equal(t, generate(t, g), generate(t, g))

	g2 := g
	g2.Seed = 43
	assert.NotEqual(t, generate(t, g), generate(t, g2))
}

func TestWriteNullsAndSeparator(t *testing.T) {
	g := Generator{Shape: "uniform", Rows: 1000, Columns: 2, Seed: 1, Nulls: 0.5, Comma: ';'}
	out := generate(t, g)
	assert.True(t, strings.HasPrefix(string(out), "x;y\n"))

	tbl, err := loader.Read(bytes.NewReader(out), "nulls", loader.Options{Separator: ';'})
	require.NoError(t, err)
	x, _ := tbl.Get("x")
	nan := 0
	for _, v := range x {
		if math32.IsNaN(v) {
			nan++
		}
	}
	assert.Greater(t, nan, 300)
	assert.Less(t, nan, 700)
}

func TestWriteHeaderOnly(t *testing.T) {
	out := generate(t, Generator{Shape: "uniform", Rows: 0, Columns: 2, Comma: ','})
	assert.Equal(t, "x,y\n", string(out))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Generator{Shape: "spiral", Rows: 1, Columns: 1}.Validate())

	err := Generator{Shape: "torus", Rows: -1, Columns: 0, Nulls: 2}.Validate()
	require.Error(t, err)
	for _, want := range []string{"unknown shape", "rows -1", "cols 0", "nulls 2"} {
		assert.Contains(t, err.Error(), want)
	}

	assert.ErrorContains(t, Generator{Shape: "clusters", Columns: 2}.Validate(), "k 0")
}
