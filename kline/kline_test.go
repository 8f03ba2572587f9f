package kline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candle(ts int64, o, h, l, c, v float64) Candle {
	return Candle{
		Time:   time.Unix(ts, 0).UTC(),
		Open:   decimal.NewFromFloat(o),
		High:   decimal.NewFromFloat(h),
		Low:    decimal.NewFromFloat(l),
		Close:  decimal.NewFromFloat(c),
		Volume: decimal.NewFromFloat(v),
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	c := candle(0, 100, 150, 80, 120, 1000)
	assert.NoError(t, c.Validate())

	bad := candle(0, 100, 90, 80, 85, 1000)
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCandle, "open above high must fail")

	bad = candle(0, 100, 150, 110, 120, 1000)
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCandle, "open below low must fail")

	bad = candle(0, 100, 150, 80, 120, -1)
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCandle, "negative volume must fail")
}

func TestIsGap(t *testing.T) {
	t.Parallel()
	c := candle(0, 100, 100, 100, 100, 0)
	assert.True(t, c.IsGap())
	c = candle(0, 100, 150, 80, 120, 1)
	assert.False(t, c.IsGap())
}

func TestValidateSeries(t *testing.T) {
	t.Parallel()
	series := []Candle{
		candle(0, 100, 150, 80, 120, 1000),
		candle(300, 120, 180, 100, 150, 500),
		candle(600, 150, 250, 100, 140, 250),
	}
	require.NoError(t, ValidateSeries(series, 5*time.Minute))
	assert.ErrorIs(t, ValidateSeries(series, 0), ErrInvalidInterval)
	assert.ErrorIs(t, ValidateSeries(series, time.Minute), ErrSeriesNotContiguous)

	gappy := []Candle{
		candle(0, 100, 150, 80, 120, 1000),
		candle(600, 120, 180, 100, 150, 500),
	}
	assert.ErrorIs(t, ValidateSeries(gappy, 5*time.Minute), ErrSeriesNotContiguous)
}

func TestSliceRange(t *testing.T) {
	t.Parallel()
	series := []Candle{
		candle(0, 100, 150, 80, 120, 1),
		candle(300, 120, 180, 100, 150, 1),
		candle(600, 150, 250, 100, 140, 1),
		candle(900, 140, 150, 80, 100, 1),
	}
	got := SliceRange(series, time.Unix(300, 0), time.Unix(900, 0))
	require.Len(t, got, 2)
	assert.Equal(t, int64(300), got[0].Time.Unix())
	assert.Equal(t, int64(600), got[1].Time.Unix())

	assert.Empty(t, SliceRange(series, time.Unix(1200, 0), time.Unix(1500, 0)))
	assert.Len(t, SliceRange(series, time.Unix(0, 0), time.Unix(10000, 0)), 4)
}
