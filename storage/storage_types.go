package storage

import "errors"

var (
	// ErrMalformedRecord is returned when a file row cannot be parsed
	ErrMalformedRecord = errors.New("malformed record")
	// ErrNilStore is returned on operations against an unopened store
	ErrNilStore = errors.New("candle store is nil")
)

// csv column counts
const (
	priceRecordFields = 3
	candleFields      = 6
)
