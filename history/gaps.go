package history

import (
	"container/heap"
	"sort"
	"time"
)

// gapHeap is a bounded min-heap keeping the largest gaps seen so far; the
// smallest retained gap sits at the root and is evicted first. Ties on
// duration evict the later start so the earlier gap wins retention.
type gapHeap []Gap

func (h gapHeap) Len() int { return len(h) }

func (h gapHeap) Less(i, j int) bool {
	di, dj := h[i].Duration(), h[j].Duration()
	if di != dj {
		return di < dj
	}
	return h[i].Start.After(h[j].Start)
}

func (h gapHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *gapHeap) Push(x any) { *h = append(*h, x.(Gap)) }

func (h *gapHeap) Pop() any {
	old := *h
	n := len(old)
	g := old[n-1]
	*h = old[:n-1]
	return g
}

// Gaps returns the topN largest spans without price data across the history,
// including the boundary spans before the first and after the last record
// when start/end are set. The result is sorted chronologically.
func Gaps(records []PriceRecord, start, end time.Time, topN int) []Gap {
	if len(records) == 0 || topN <= 0 {
		return nil
	}
	h := make(gapHeap, 0, topN+1)
	push := func(g Gap) {
		if g.End.Before(g.Start) {
			return
		}
		heap.Push(&h, g)
		if h.Len() > topN {
			heap.Pop(&h)
		}
	}
	if !start.IsZero() && records[0].Time.After(start) {
		push(Gap{Start: start, End: records[0].Time})
	}
	for i := 1; i < len(records); i++ {
		push(Gap{Start: records[i-1].Time, End: records[i].Time})
	}
	if !end.IsZero() && end.After(records[len(records)-1].Time) {
		push(Gap{Start: records[len(records)-1].Time, End: end})
	}
	out := make([]Gap, h.Len())
	copy(out, h)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
