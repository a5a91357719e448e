package correlate

import (
	"math"
	"sort"

	"slicedroid/internal/model"
)

// Index answers interval-count queries over the network side stream. It is
// built once per analysis and queried once per window, so each query costs
// two binary searches instead of a scan over the full stream.
type Index struct {
	ts []float64
}

// New builds an index from the net event stream. Records without a usable
// timestamp (NaN) are excluded from all counts. The stream is expected to
// be time-ordered already; if it is not, the index sorts its own copy so
// the searches stay correct.
func New(events []model.NetEvent) *Index {
	ts := make([]float64, 0, len(events))
	for _, ev := range events {
		if math.IsNaN(ev.Timestamp) {
			continue
		}
		ts = append(ts, ev.Timestamp)
	}
	if !sort.Float64sAreSorted(ts) {
		sort.Float64s(ts)
	}
	return &Index{ts: ts}
}

// Count returns how many net events have a timestamp in the closed interval
// [t0, t1]. An empty index or an inverted interval counts zero.
func (ix *Index) Count(t0, t1 float64) int {
	if len(ix.ts) == 0 || t1 < t0 {
		return 0
	}
	lo := sort.SearchFloat64s(ix.ts, t0)
	hi := sort.Search(len(ix.ts), func(i int) bool { return ix.ts[i] > t1 })
	return hi - lo
}

// Len returns the number of indexed net events.
func (ix *Index) Len() int {
	return len(ix.ts)
}
