package history

import (
	"errors"
	"time"
)

var (
	// ErrInvalidSamplingRate is returned on a non-positive resampling rate
	ErrInvalidSamplingRate = errors.New("sampling rate must be positive")
	// ErrUnsortedHistory is returned when raw records are not in
	// chronological order
	ErrUnsortedHistory = errors.New("price history must be sorted by timestamp")
)

// Outlier-persistence tuning. A price jump is treated as a genuine regime
// change only when enough of the following samples stay near the jumped
// price; these values were tuned against the reference data set.
var (
	// MaxOutlierLookAhead caps how many valid samples after a jump are examined
	MaxOutlierLookAhead = 10
	// MinPersistentSamples is how many of those must remain beyond the
	// persistence threshold for the jump to be kept
	MinPersistentSamples = 3
	// PersistenceWeight interpolates the persistence threshold between the
	// jumped price and the pre-jump reference price
	PersistenceWeight = 0.8
)

// PriceRecord is one raw price tick prior to cleaning
type PriceRecord struct {
	Time   time.Time
	Price  float64
	Volume float64
}

// Valid reports whether the record carries a usable price and volume
func (r *PriceRecord) Valid() bool {
	return r.Price > 0 && r.Volume >= 0
}

// Gap is a span between two consecutive price records (or between a record
// and the requested range boundary) with no data in between
type Gap struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the gap
func (g *Gap) Duration() time.Duration {
	return g.End.Sub(g.Start)
}
