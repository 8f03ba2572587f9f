package kline

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCandle is returned when a candle breaks the
	// low <= {open, close} <= high ordering
	ErrInvalidCandle = errors.New("invalid candle price ordering")
	// ErrSeriesNotContiguous is returned when consecutive candles are not
	// exactly one sampling interval apart
	ErrSeriesNotContiguous = errors.New("candle series not contiguous")
	// ErrInvalidInterval is returned on a non-positive sampling interval
	ErrInvalidInterval = errors.New("sampling interval must be positive")
)

// Candle is one fixed-period OHLCV summary of price activity. A zero volume
// marks a data gap inserted during resampling; gap candles carry the previous
// close in every price field.
type Candle struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}
