package vector

import "math"

// Collector maintains the best k matches seen during one linear scan.
//
// While fewer than k candidates have been offered, every candidate is kept
// unconditionally. Once the buffer holds k entries, a new candidate replaces
// the first buffered entry whose similarity equals the current minimum, and
// only when the candidate's similarity is strictly greater than that minimum.
// A NaN similarity never passes the strictly-greater test, so candidates with
// undefined similarity can only enter the buffer while it is still filling.
//
// The collected matches are NOT sorted by similarity: the order reflects
// insertion and replacement history. Replacement cost is O(k) per candidate
// from the linear rescan for the minimum.
type Collector struct {
	k     int
	items []Match
	min   float64 // valid once len(items) == k
}

// NewCollector returns a Collector retaining at most k matches. k must be
// positive.
func NewCollector(k int) *Collector {
	return &Collector{k: k, items: make([]Match, 0, k)}
}

// Offer presents a candidate to the collector.
func (c *Collector) Offer(m Match) {
	if len(c.items) < c.k {
		c.items = append(c.items, m)
		if len(c.items) == c.k {
			c.min = c.minSimilarity()
		}
		return
	}
	// NaN fails this comparison, as does any candidate not strictly better
	// than the weakest buffered entry.
	if !(m.Similarity > c.min) {
		return
	}
	for i := range c.items {
		if c.items[i].Similarity == c.min {
			c.items[i] = m
			break
		}
	}
	c.min = c.minSimilarity()
}

// Matches returns the buffered entries in insertion/replacement order. The
// returned slice is the collector's backing storage; callers own the
// collector once the scan is done.
func (c *Collector) Matches() []Match {
	return c.items
}

// minSimilarity rescans the buffer for the smallest similarity. NaN entries
// never compare less than the running minimum, so they are skipped over; a
// buffer of only NaN entries yields +Inf, which freezes the buffer (nothing
// compares greater than +Inf).
func (c *Collector) minSimilarity() float64 {
	min := math.Inf(1)
	for i := range c.items {
		if c.items[i].Similarity < min {
			min = c.items[i].Similarity
		}
	}
	return min
}
