package history

import (
	"math"

	"github.com/petercerno/trader-backtest-sub000/log"
)

// RemoveOutliers walks the history left to right keeping the last accepted
// record as reference. Invalid records are always dropped. A price jump
// beyond the per-minute deviation envelope is kept only when it persists
// across the following samples; transient spikes are dropped. Indices of
// dropped records, relative to the input slice, are appended to
// outlierIndices when non-nil.
func RemoveOutliers(records []PriceRecord, maxDeviationPerMin float64, outlierIndices *[]int) []PriceRecord {
	cleaned := make([]PriceRecord, 0, len(records))
	drop := func(i int) {
		if outlierIndices != nil {
			*outlierIndices = append(*outlierIndices, i)
		}
	}
	var reference *PriceRecord
	for i := range records {
		r := &records[i]
		if !r.Valid() {
			drop(i)
			continue
		}
		if reference == nil {
			reference = r
			cleaned = append(cleaned, *r)
			continue
		}
		durationMin := math.Max(1, r.Time.Sub(reference.Time).Seconds()/60)
		jumpFactor := 1 + maxDeviationPerMin*math.Sqrt(durationMin)
		jumpUp := r.Price > reference.Price*jumpFactor
		jumpDown := r.Price < reference.Price/jumpFactor
		if (jumpUp || jumpDown) && !jumpPersists(records, i, reference.Price, jumpUp) {
			drop(i)
			continue
		}
		reference = r
		cleaned = append(cleaned, *r)
	}
	if n := len(records) - len(cleaned); n > 0 {
		log.Debugf(log.History, "removed %d outlier(s) from %d price record(s)", n, len(records))
	}
	return cleaned
}

// jumpPersists examines up to MaxOutlierLookAhead valid samples following the
// jump at index i and reports whether at least MinPersistentSamples stay
// beyond the interpolated persistence threshold, i.e. the jump is a genuine
// regime change rather than a transient spike.
func jumpPersists(records []PriceRecord, i int, referencePrice float64, jumpUp bool) bool {
	threshold := PersistenceWeight*records[i].Price + (1-PersistenceWeight)*referencePrice
	examined, persistent := 0, 0
	for j := i + 1; j < len(records) && examined < MaxOutlierLookAhead; j++ {
		if !records[j].Valid() {
			continue
		}
		examined++
		if jumpUp && records[j].Price >= threshold {
			persistent++
		} else if !jumpUp && records[j].Price <= threshold {
			persistent++
		}
		if persistent >= MinPersistentSamples {
			return true
		}
	}
	return false
}

// OutlierIndicesWithContext expands the last lastN outlier indices into a
// map covering left/right neighbouring indices, clamped to [0, size).
// Context entries default to false and never overwrite an existing true.
func OutlierIndicesWithContext(outlierIndices []int, size, left, right, lastN int) map[int]bool {
	out := make(map[int]bool)
	if lastN <= 0 {
		return out
	}
	if lastN < len(outlierIndices) {
		outlierIndices = outlierIndices[len(outlierIndices)-lastN:]
	}
	for _, idx := range outlierIndices {
		if idx < 0 || idx >= size {
			continue
		}
		lo := idx - left
		if lo < 0 {
			lo = 0
		}
		hi := idx + right
		if hi >= size {
			hi = size - 1
		}
		for k := lo; k <= hi; k++ {
			if k == idx {
				out[k] = true
			} else if _, seen := out[k]; !seen {
				out[k] = false
			}
		}
	}
	return out
}
