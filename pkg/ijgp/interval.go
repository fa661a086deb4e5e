package ijgp

import "sort"

// Interval is a half-open integer range [Lo, Hi) paired with a probability
// mass. Intervals for one variable within a table are kept pairwise
// disjoint and covering a subset of its domain.
type Interval struct {
	Lo, Hi int
	P      float64
}

func (iv Interval) length() int { return iv.Hi - iv.Lo }

// sortIntervals returns a copy of L sorted ascending by Lo.
func sortIntervals(l []Interval) []Interval {
	out := make([]Interval, len(l))
	copy(out, l)
	sort.Slice(out, func(i, j int) bool { return out[i].Lo < out[j].Lo })
	return out
}

// MergeIntervals sweeps two sorted, disjoint interval lists and emits one
// interval per overlap region [max(lo1,lo2), min(hi1,hi2)), with
// probability (overlapLen/len1)*p1 * (overlapLen/len2)*p2 — each side's mass
// scaled down by the fraction of its own interval the overlap covers.
//
// The source's advancing rule has a documented typo comparing the second
// cursor against the first list's end; this implementation compares each
// cursor against its own list's length, which is the evident intent.
func MergeIntervals(l1, l2 []Interval) []Interval {
	a := sortIntervals(l1)
	b := sortIntervals(l2)

	var out []Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := a[i].Lo
		if b[j].Lo > lo {
			lo = b[j].Lo
		}
		hi := a[i].Hi
		if b[j].Hi < hi {
			hi = b[j].Hi
		}
		if lo < hi {
			overlapLen := float64(hi - lo)
			fracA := overlapLen / float64(a[i].length())
			fracB := overlapLen / float64(b[j].length())
			out = append(out, Interval{Lo: lo, Hi: hi, P: fracA * a[i].P * fracB * b[j].P})
		}
		if a[i].Hi < b[j].Hi {
			i++
		} else if b[j].Hi < a[i].Hi {
			j++
		} else {
			i++
			j++
		}
	}
	return out
}

// NormalizeIntervals divides every interval's probability by the total mass.
// When the total is zero every interval gets equal mass 1/len; an empty list
// stays empty.
func NormalizeIntervals(l []Interval) []Interval {
	total := 0.0
	for _, iv := range l {
		total += iv.P
	}
	out := make([]Interval, len(l))
	if total <= 0 {
		if len(l) == 0 {
			return out
		}
		uniform := 1.0 / float64(len(l))
		for i, iv := range l {
			out[i] = Interval{Lo: iv.Lo, Hi: iv.Hi, P: uniform}
		}
		return out
	}
	for i, iv := range l {
		out[i] = Interval{Lo: iv.Lo, Hi: iv.Hi, P: iv.P / total}
	}
	return out
}

// JoinIntervals bounds L to at most K (+1 splitting tolerance) intervals:
// first, any interval whose probability is "too probable" (>= 2/K) is split
// into ceil(2*p/(1/K)) equal-width sub-intervals; the resulting list is then
// greedily coalesced, combining adjacent intervals whose cumulative
// probability falls in [1/K, 2/K], preferring to leave a standalone
// high-mass interval unsplit when adding the next one would exceed 1.8/K.
func JoinIntervals(l []Interval, k int) ([]Interval, error) {
	if k <= 0 {
		return nil, ErrConfigInvalid
	}
	unit := 1.0 / float64(k)

	var split []Interval
	for _, iv := range l {
		if iv.P >= 2*unit && iv.length() > 1 {
			parts := int(ceilDiv(2*iv.P, unit))
			if parts < 1 {
				parts = 1
			}
			split = append(split, splitInterval(iv, parts)...)
		} else {
			split = append(split, iv)
		}
	}
	split = sortIntervals(split)

	var out []Interval
	i := 0
	for i < len(split) {
		acc := split[i]
		j := i + 1
		for j < len(split) {
			next := acc.P + split[j].P
			if acc.P >= unit && acc.P <= 2*unit {
				break
			}
			if next > 1.8*unit && acc.P >= unit {
				break
			}
			if next > 2*unit {
				break
			}
			acc = Interval{Lo: acc.Lo, Hi: split[j].Hi, P: next}
			j++
			if acc.P >= unit && acc.P <= 2*unit {
				break
			}
		}
		out = append(out, acc)
		i = j
	}
	return out, nil
}

func ceilDiv(num, denom float64) int {
	q := num / denom
	iq := int(q)
	if float64(iq) < q {
		iq++
	}
	return iq
}

// splitInterval divides iv into n equal-width (as close as integer bounds
// allow) sub-intervals, distributing probability proportionally to width.
func splitInterval(iv Interval, n int) []Interval {
	total := iv.length()
	if n > total {
		n = total
	}
	if n <= 1 {
		return []Interval{iv}
	}
	base := total / n
	extra := total % n
	out := make([]Interval, 0, n)
	lo := iv.Lo
	for i := 0; i < n; i++ {
		width := base
		if i < extra {
			width++
		}
		hi := lo + width
		frac := float64(width) / float64(total)
		out = append(out, Interval{Lo: lo, Hi: hi, P: iv.P * frac})
		lo = hi
	}
	return out
}

// AdjustToDomain keeps only intervals containing at least one member of d,
// replacing each kept interval's endpoints with [firstMember, lastMember+1).
func AdjustToDomain(l []Interval, d *Domain) []Interval {
	var out []Interval
	for _, iv := range l {
		first, last, found := -1, -1, false
		d.IterateAscending(func(v int) {
			if v >= iv.Lo && v < iv.Hi {
				if !found {
					first = v
					found = true
				}
				last = v
			}
		})
		if !found {
			continue
		}
		out = append(out, Interval{Lo: first, Hi: last + 1, P: iv.P})
	}
	return out
}

// UniformIntervals partitions d's current values into k equal-count
// intervals (each of the first len%k intervals holds one extra value), each
// weighted by the fraction of d's values it holds.
func UniformIntervals(d *Domain, k int) ([]Interval, error) {
	if k <= 0 {
		return nil, ErrConfigInvalid
	}
	values := d.ToSlice()
	if len(values) == 0 {
		return nil, nil
	}
	if k > len(values) {
		k = len(values)
	}
	base := len(values) / k
	extra := len(values) % k

	var out []Interval
	idx := 0
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		if size == 0 {
			continue
		}
		lo := values[idx]
		hi := values[idx+size-1] + 1
		out = append(out, Interval{Lo: lo, Hi: hi, P: float64(size) / float64(len(values))})
		idx += size
	}
	return out, nil
}
