package ticks

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNiceNumber_Thresholds(t *testing.T) {
	cases := []struct {
		x     float32
		round bool
		want  float32
	}{
		// Without rounding the leading digit moves up to the next of 2, 5, 10.
		{1.4, false, 2},
		{1.6, false, 2},
		{2.5, false, 5},
		{4, false, 5},
		{5, false, 10},
		{9, false, 10},
		{40, false, 50},
		{0.04, false, 0.05},

		{1.4, true, 1},
		{1.6, true, 2},
		{2.9, true, 2},
		{3, true, 5},
		{6.9, true, 5},
		{7, true, 10},
		{0.625, true, 0.5},
		{250, true, 200},
	}
	for _, tc := range cases {
		got := NiceNumber(tc.x, tc.round)
		assert.InDelta(t, tc.want, got, float64(tc.want)*1e-5, "NiceNumber(%v, %v)", tc.x, tc.round)
	}
}

func TestNiceNumber_Form(t *testing.T) {
	for _, x := range []float32{0.0013, 0.27, 1, 3.3, 17, 420, 9999, 123456} {
		for _, round := range []bool{false, true} {
			v := NiceNumber(x, round)
			exp := math32.Floor(math32.Log10(x))
			d := v / math32.Pow(10, exp)
			ok := false
			for _, want := range []float32{1, 2, 5, 10} {
				if math32.Abs(d-want) < 1e-4 {
					ok = true
				}
			}
			assert.True(t, ok, "NiceNumber(%v, %v)=%v has leading factor %v", x, round, v, d)
		}
	}
}

func TestCompute_EndToEnd(t *testing.T) {
	p := Compute(1, 5, 800, 130, 60)

	require.NotEmpty(t, p.Markers)
	assert.Equal(t, 1, p.FractionDigits)
	assert.InDelta(t, 1, p.Markers[0], 1e-5)
	assert.InDelta(t, 5, p.Markers[len(p.Markers)-1], 1e-5)
	assert.GreaterOrEqual(t, len(p.Markers), 9)

	for i, m := range p.Markers {
		assert.GreaterOrEqual(t, m, p.VisibleMin)
		assert.LessOrEqual(t, m, p.VisibleMax)
		if i > 0 {
			assert.GreaterOrEqual(t, m, p.Markers[i-1], "markers must be non-decreasing")
		}
	}
}

func TestCompute_ClipsToVisibleRange(t *testing.T) {
	p := Compute(0.3, 9.7, 800, 130, 60)
	require.NotEmpty(t, p.Markers)

	assert.Equal(t, float32(0.3), p.Markers[0])
	assert.Equal(t, float32(9.7), p.Markers[len(p.Markers)-1])
	for _, m := range p.Markers {
		assert.GreaterOrEqual(t, m, float32(0.3))
		assert.LessOrEqual(t, m, float32(9.7))
	}
}

func TestCompute_Idempotent(t *testing.T) {
	a := Compute(-3.2, 17.9, 640, 130, 60)
	b := Compute(-3.2, 17.9, 640, 130, 60)
	assert.Equal(t, a, b)
}

func TestCompute_NoRoom(t *testing.T) {
	p := Compute(0, 10, 200, 130, 60)
	assert.Empty(t, p.Markers)
}

func TestCompute_TinyExtentClampsTickCount(t *testing.T) {
	p := Compute(0, 10, 300, 130, 60)
	require.NotEmpty(t, p.Markers)
	for _, m := range p.Markers {
		assert.False(t, math32.IsNaN(m))
	}
}

func TestCompute_Degenerate(t *testing.T) {
	p := Compute(5, 5, 800, 130, 60)
	assert.Equal(t, []float32{5}, p.Markers)
	assert.Equal(t, 0, p.FractionDigits)

	nan := math32.NaN()
	p = Compute(nan, nan, 800, 130, 60)
	assert.Empty(t, p.Markers)
}

func TestCompute_LargeMagnitudeTerminates(t *testing.T) {
	p := Compute(1e8, 1e8+64, 800, 130, 60)
	require.NotEmpty(t, p.Markers)
	assert.LessOrEqual(t, len(p.Markers), 4*9+4)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.50", Format(1.5, 1))
	assert.Equal(t, "20.0", Format(20, 0))
}
