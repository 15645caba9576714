package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Price
	}{
		{"74.78", 747800000},
		{"566.56", 5665600000},
		{"0.10", 1000000},
		{" 1.00 ", 10000000},
		{"-899.50", -8995000000},
		{"1.123456789", 11234567},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePrice("abc")
	assert.ErrorIs(t, err, ErrParsePrice)
}

func TestFromFloatMatchesParse(t *testing.T) {
	t.Parallel()

	for _, f := range []float64{566.56, 74.62, 705.545, 0.5, 10000} {
		assert.Equal(t, ToInternal(decimal.NewFromFloat(f)), FromFloat(f))
	}
	assert.Equal(t, MustParse("566.56"), FromFloat(566.56))
}

func TestToDisplay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "74.65778", ToDisplay(746577777, 5).String())
	assert.Equal(t, "499100.50", Format(4991005000000, 2))
	assert.Equal(t, "-899.50", Format(-8994999800, 2))
	assert.Equal(t, "74.665", Format(746650000, 3))
	assert.InDelta(t, 129.50, Display(1295000000), 1e-9)
}

func TestFloorDiv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b, want int64
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{6, 3, 2},
		{-6, 3, -2},
		{0, 5, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FloorDiv(tt.a, tt.b), "%d/%d", tt.a, tt.b)
	}
}

func TestSignAbs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(-1), Sign(-50))
	assert.Equal(t, int64(0), Sign(0))
	assert.Equal(t, int64(1), Sign(3))
	assert.Equal(t, int64(50), Abs(-50))
	assert.Equal(t, int64(50), Abs(50))
}
