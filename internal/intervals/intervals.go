// Package intervals provides merged-interval arithmetic over genomic ranges.
package intervals

import "sort"

// Interval is a half-open genomic range [Start, End).
type Interval struct {
	Start int64
	End   int64
}

// Len returns the number of bases covered by the interval.
func (i Interval) Len() int64 {
	if i.End <= i.Start {
		return 0
	}
	return i.End - i.Start
}

// GapMerge coalesces a set of intervals, joining any pair separated by at
// most gap bases. The input is not modified; the result is sorted by Start.
func GapMerge(ivs []Interval, gap int64) []Interval {
	if len(ivs) == 0 {
		return nil
	}

	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End+gap {
			if iv.End > last.End {
				last.End = iv.End
			}
		} else {
			merged = append(merged, iv)
		}
	}
	return merged
}

// totalLen sums the lengths of a merged interval set.
func totalLen(merged []Interval) int64 {
	var n int64
	for _, iv := range merged {
		n += iv.Len()
	}
	return n
}

// intersectionLen returns the number of bases shared by two merged,
// sorted interval sets, using a two-pointer sweep.
func intersectionLen(a, b []Interval) int64 {
	var n int64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := a[i].Start
		if b[j].Start > lo {
			lo = b[j].Start
		}
		hi := a[i].End
		if b[j].End < hi {
			hi = b[j].End
		}
		if hi > lo {
			n += hi - lo
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	return n
}

// AsymmetricJaccard returns the fraction of a's merged footprint covered
// by b's merged footprint. Directional: AsymmetricJaccard(a, b) answers
// "how much of a lies within b". Either set empty yields 0.
func AsymmetricJaccard(a, b []Interval) float64 {
	ma := GapMerge(a, 0)
	mb := GapMerge(b, 0)
	aLen := totalLen(ma)
	if aLen == 0 {
		return 0
	}
	return float64(intersectionLen(ma, mb)) / float64(aLen)
}

// Jaccard returns the intersection-over-union of two interval sets after
// gap-0 merging. Both sets empty yields 0.
func Jaccard(a, b []Interval) float64 {
	ma := GapMerge(a, 0)
	mb := GapMerge(b, 0)
	inter := intersectionLen(ma, mb)
	union := totalLen(ma) + totalLen(mb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
