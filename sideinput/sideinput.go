// Package sideinput provides an immutable timestamp-indexed lookup over an
// auxiliary signal stream, shared read-only across concurrent evaluations.
package sideinput

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrEmptyHistory is returned when constructing from no records
	ErrEmptyHistory = errors.New("side input history cannot be empty")
	// ErrUnsortedHistory is returned when timestamps are not strictly
	// increasing
	ErrUnsortedHistory = errors.New("side input timestamps must be strictly increasing")
	// ErrSignalCountMismatch is returned when records disagree on the number
	// of signals
	ErrSignalCountMismatch = errors.New("side input records must have a fixed signal count")
)

// Record is one timestamped vector of side signals
type Record struct {
	Time    time.Time
	Signals []float64
}

// SideInput is built once from a record stream and is safe for concurrent
// readers after construction
type SideInput struct {
	timestamps []int64
	signals    []float64
	numSignals int
}

// New flattens the record stream into parallel timestamp and signal arrays
func New(records []Record) (*SideInput, error) {
	if len(records) == 0 {
		return nil, ErrEmptyHistory
	}
	numSignals := len(records[0].Signals)
	if numSignals == 0 {
		return nil, ErrSignalCountMismatch
	}
	s := &SideInput{
		timestamps: make([]int64, len(records)),
		signals:    make([]float64, 0, len(records)*numSignals),
		numSignals: numSignals,
	}
	for i := range records {
		if i > 0 && records[i].Time.Unix() <= records[i-1].Time.Unix() {
			return nil, fmt.Errorf("%w: record %d at %v", ErrUnsortedHistory, i, records[i].Time)
		}
		if len(records[i].Signals) != numSignals {
			return nil, fmt.Errorf("%w: record %d has %d signal(s), expected %d",
				ErrSignalCountMismatch, i, len(records[i].Signals), numSignals)
		}
		s.timestamps[i] = records[i].Time.Unix()
		s.signals = append(s.signals, records[i].Signals...)
	}
	return s, nil
}

// Len returns the number of records
func (s *SideInput) Len() int {
	return len(s.timestamps)
}

// NumSignals returns the fixed signal count per record
func (s *SideInput) NumSignals() int {
	return s.numSignals
}

// Index returns the index of the latest record at or before t, or -1 when
// every record is later than t
func (s *SideInput) Index(t time.Time) int {
	ts := t.Unix()
	// first index with timestamp > ts
	i := sort.Search(len(s.timestamps), func(i int) bool {
		return s.timestamps[i] > ts
	})
	return i - 1
}

// IndexSince behaves like Index but exploits the mostly sequential access
// pattern of the simulation loop: when prev (a result of a previous call) or
// one of its two successors already bounds t the binary search is skipped
func (s *SideInput) IndexSince(t time.Time, prev int) int {
	if prev < 0 {
		return s.Index(t)
	}
	ts := t.Unix()
	for i := prev; i < prev+3 && i < len(s.timestamps); i++ {
		if s.timestamps[i] <= ts && (i+1 >= len(s.timestamps) || s.timestamps[i+1] > ts) {
			return i
		}
	}
	// fall back to binary search over the tail
	i := sort.Search(len(s.timestamps)-prev, func(i int) bool {
		return s.timestamps[prev+i] > ts
	})
	return prev + i - 1
}

// Signals returns the signal vector of record i
func (s *SideInput) Signals(i int) []float64 {
	return s.signals[i*s.numSignals : (i+1)*s.numSignals]
}

// SignalAt returns signal k of record i
func (s *SideInput) SignalAt(i, k int) float64 {
	return s.signals[i*s.numSignals+k]
}
