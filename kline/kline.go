package kline

import (
	"fmt"
	"sort"
	"time"
)

// IsGap reports whether the candle is a synthetic gap marker
func (c *Candle) IsGap() bool {
	return c.Volume.IsZero()
}

// Validate checks the candle price ordering invariant
func (c *Candle) Validate() error {
	if c.Low.GreaterThan(c.Open) ||
		c.Low.GreaterThan(c.Close) ||
		c.High.LessThan(c.Open) ||
		c.High.LessThan(c.Close) {
		return fmt.Errorf("%w at %v", ErrInvalidCandle, c.Time)
	}
	if !c.Open.IsPositive() || !c.Low.IsPositive() || c.Volume.IsNegative() {
		return fmt.Errorf("%w at %v: prices must be positive and volume non-negative",
			ErrInvalidCandle, c.Time)
	}
	return nil
}

// ValidateSeries checks every candle and enforces that consecutive candles
// are exactly one interval apart, the contract the evaluator relies on
func ValidateSeries(candles []Candle, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	for i := range candles {
		if err := candles[i].Validate(); err != nil {
			return err
		}
		if i == 0 {
			continue
		}
		if candles[i].Time.Sub(candles[i-1].Time) != interval {
			return fmt.Errorf("%w: %v does not follow %v by %v",
				ErrSeriesNotContiguous, candles[i].Time, candles[i-1].Time, interval)
		}
	}
	return nil
}

// SliceRange returns the subslice of candles with timestamps in [start, end).
// Candles must already be sorted chronologically.
func SliceRange(candles []Candle, start, end time.Time) []Candle {
	lo := sort.Search(len(candles), func(i int) bool {
		return !candles[i].Time.Before(start)
	})
	hi := sort.Search(len(candles), func(i int) bool {
		return !candles[i].Time.Before(end)
	})
	if lo > hi {
		return candles[lo:lo]
	}
	return candles[lo:hi]
}
