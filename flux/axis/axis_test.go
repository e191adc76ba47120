package axis

import (
	"testing"

	"fluxcore/flux/gfx/gfxtest"
	"fluxcore/flux/table"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, cols map[string][]float32) *table.Table {
	t.Helper()
	names := make([]string, 0, len(cols))
	for n := range cols {
		names = append(names, n)
	}
	tbl, err := table.New("test", names)
	require.NoError(t, err)

	var rows int
	for _, v := range cols {
		rows = len(v)
	}
	for i := 0; i < rows; i++ {
		row := make([]float32, 0, len(names))
		for _, n := range tbl.Columns() {
			row = append(row, cols[n][i])
		}
		tbl.Push(row)
	}
	return tbl
}

func bind(t *testing.T, values []float32, depth bool) (*View, *gfxtest.Recorder) {
	t.Helper()
	dev := &gfxtest.Recorder{}
	v, err := Bind(dev, newTable(t, map[string][]float32{"a": values}), "a", 800, 130, depth)
	require.NoError(t, err)
	return v, dev
}

func TestBind(t *testing.T) {
	v, dev := bind(t, []float32{3, math32.NaN(), 1, 5, 2}, false)

	assert.Equal(t, "a", v.Column())
	assert.Equal(t, float32(1), v.Min())
	assert.Equal(t, float32(5), v.Max())
	assert.Equal(t, float32(0), v.Pan())
	assert.InDelta(t, 1-260.0/800, v.Scale(), 1e-6)
	require.Len(t, dev.Uploads, 1)
	assert.Equal(t, 5, v.Buffer().Len())
}

func TestBind_Errors(t *testing.T) {
	tbl := newTable(t, map[string][]float32{"a": {1}})
	dev := &gfxtest.Recorder{}

	_, err := Bind(dev, tbl, "missing", 800, 130, false)
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Contains(t, err.Error(), `"missing"`)

	_, err = Bind(dev, tbl, "a", 0, 130, false)
	assert.ErrorIs(t, err, ErrExtent)
	assert.Empty(t, dev.Uploads)
}

func TestRange(t *testing.T) {
	nan := math32.NaN()
	lo, hi := Range([]float32{nan, 4, -2, nan, 7})
	assert.Equal(t, float32(-2), lo)
	assert.Equal(t, float32(7), hi)

	lo, hi = Range([]float32{nan, nan})
	assert.True(t, math32.IsNaN(lo))
	assert.True(t, math32.IsNaN(hi))

	lo, hi = Range(nil)
	assert.True(t, math32.IsNaN(lo) && math32.IsNaN(hi))

	lo, hi = Range([]float32{1, math32.Inf(1), 2, math32.Inf(-1)})
	assert.Equal(t, float32(1), lo)
	assert.Equal(t, float32(2), hi)

	lo, hi = Range([]float32{math32.Inf(1), nan})
	assert.True(t, math32.IsNaN(lo) && math32.IsNaN(hi))
}

func TestResetLaw(t *testing.T) {
	v, _ := bind(t, []float32{1, 2, 3, 4, 5}, false)
	require.True(t, v.PanBy(0.3))
	require.True(t, v.Rescale(2.5))
	require.True(t, v.ZoomAround(40, 10))

	v.Reset()
	assert.Equal(t, float32(0), v.Pan())
	assert.Equal(t, v.BaseScale(), v.Scale())

	vmin, vmax := v.Visible()
	assert.InDelta(t, 1, vmin, 1e-5)
	assert.InDelta(t, 5, vmax, 1e-5)
}

func TestZoomRoundTrip(t *testing.T) {
	v, _ := bind(t, []float32{1, 2, 3, 4, 5}, false)
	require.True(t, v.PanBy(0.2))
	pan, scale := v.Pan(), v.Scale()

	require.True(t, v.ZoomAround(40, 100))
	require.True(t, v.ZoomAround(100, 40))
	assert.InDelta(t, pan, v.Pan(), 1e-5)
	assert.InDelta(t, scale, v.Scale(), 1e-5)
}

func TestZoomAround_Guards(t *testing.T) {
	v, _ := bind(t, []float32{1, 5}, false)
	pan, scale := v.Pan(), v.Scale()

	assert.False(t, v.ZoomAround(0, 30), "centre pivot")
	assert.False(t, v.ZoomAround(30, 30), "no movement")
	assert.False(t, v.ZoomAround(30, 0), "collapsing to zero scale")
	assert.False(t, v.ZoomAround(30, -30), "flipping sign")
	assert.Equal(t, pan, v.Pan())
	assert.Equal(t, scale, v.Scale())
}

func TestPanBy(t *testing.T) {
	v, _ := bind(t, []float32{1, 5}, false)
	require.True(t, v.PanBy(0.25))
	assert.Equal(t, float32(1), v.Pan(), "range widths")

	d, _ := bind(t, []float32{1, 5}, true)
	require.True(t, d.PanBy(0.25))
	assert.Equal(t, float32(0.25), d.Pan(), "depth pans in data units")

	assert.False(t, v.PanBy(math32.Inf(1)))
	assert.False(t, v.PanBy(math32.NaN()))
	assert.Equal(t, float32(1), v.Pan())
}

func TestPanShiftsVisible(t *testing.T) {
	v, _ := bind(t, []float32{1, 5}, false)
	// the visible range moves by pan/scale data units
	require.True(t, v.PanBy(v.BaseScale()/2))
	vmin, vmax := v.Visible()
	assert.InDelta(t, -1, vmin, 1e-5)
	assert.InDelta(t, 3, vmax, 1e-5)
}

func TestDegenerateColumn(t *testing.T) {
	v, _ := bind(t, []float32{5, 5, 5}, false)
	assert.True(t, v.Degenerate())
	assert.Equal(t, float32(2), v.Offset().Span)

	vmin, vmax := v.Visible()
	assert.Equal(t, float32(5), vmin)
	assert.Equal(t, float32(5), vmax)

	plan := v.CalcAxisMarkers(60)
	assert.Equal(t, []float32{5}, plan.Markers)
	assert.Equal(t, float32(400), v.PixelOf(5))

	require.True(t, v.PanBy(0.25))
	assert.Equal(t, float32(0.5), v.Pan())
}

func TestCalcAxisMarkers_EndToEnd(t *testing.T) {
	v, _ := bind(t, []float32{1, 2, 3, 4, 5}, false)
	plan := v.CalcAxisMarkers(60)

	assert.InDelta(t, 1, plan.VisibleMin, 1e-5)
	assert.InDelta(t, 5, plan.VisibleMax, 1e-5)
	require.GreaterOrEqual(t, len(plan.Markers), 9)
	for i, m := range plan.Markers {
		assert.GreaterOrEqual(t, m, plan.VisibleMin)
		assert.LessOrEqual(t, m, plan.VisibleMax)
		if i > 0 {
			assert.GreaterOrEqual(t, m, plan.Markers[i-1])
		}
	}
}

func TestPixelValueRoundTrip(t *testing.T) {
	v, _ := bind(t, []float32{1, 5}, false)
	assert.InDelta(t, 130, v.PixelOf(1), 1e-4)
	assert.InDelta(t, 670, v.PixelOf(5), 1e-4)
	assert.InDelta(t, 3, v.ValueAt(400), 1e-5)

	require.True(t, v.PanBy(0.1))
	require.True(t, v.Rescale(1.7))
	assert.InDelta(t, 2.2, v.ValueAt(v.PixelOf(2.2)), 1e-4)
}

func TestResize(t *testing.T) {
	v, _ := bind(t, []float32{1, 5}, false)
	require.NoError(t, v.Resize(400))
	assert.Equal(t, 400, v.Extent())
	assert.InDelta(t, 1-260.0/400, v.BaseScale(), 1e-6)
	assert.ErrorIs(t, v.Resize(-1), ErrExtent)
	assert.Equal(t, 400, v.Extent())
}

func TestBaseScaleFloor(t *testing.T) {
	assert.Equal(t, float32(MinBaseScale), BaseScale(200, 130))
	assert.Equal(t, float32(MinBaseScale), BaseScale(260, 130))

	dev := &gfxtest.Recorder{}
	v, err := Bind(dev, newTable(t, map[string][]float32{"a": {1, 5}}), "a", 200, 130, false)
	require.NoError(t, err)
	assert.Equal(t, float32(MinBaseScale), v.Scale())
	assert.True(t, v.Rescale(2))

	v, _ = bind(t, []float32{1, 5}, false)
	require.NoError(t, v.Resize(260))
	v.Reset()
	assert.Greater(t, v.Scale(), float32(0))
	vmin, vmax := v.Visible()
	assert.InDelta(t, 1, vmin, 1e-5)
	assert.InDelta(t, 5, vmax, 1e-5)
}

func TestRelease(t *testing.T) {
	v, dev := bind(t, []float32{1, 5}, false)
	v.Release()
	assert.True(t, dev.Uploads[0].Released)
	assert.Nil(t, v.Buffer())
	v.Release()
}

func TestDimString(t *testing.T) {
	assert.Equal(t, "z", DimZ.String())
	assert.Equal(t, "Dim(7)", Dim(7).String())
}
