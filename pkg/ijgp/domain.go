// Package ijgp implements an Iterative Join-Graph Propagation sampler for
// weighted (soft) constraint satisfaction problems: a schematic mini-bucket
// decomposition builds a join graph, iterative asynchronous message passing propagates
// probability tables around its cycles, and a backtracking sampler uses
// Generalized Arc Consistency (GAC) propagation plus the join graph's
// conditional distributions to draw assignments whose likelihood is
// proportional to the product of constraint values.
package ijgp

import (
	"fmt"
	"math/bits"
	"strings"
	"sync"
)

// Domain pools for reducing allocations during GAC propagation and sampler
// restriction. Separate pools for common domain sizes minimize allocation
// overhead on the hot path (every propagation pass clones and restricts
// domains repeatedly).
var (
	smallDomainPool = sync.Pool{
		New: func() interface{} {
			return &Domain{words: make([]uint64, 1)}
		},
	}
	mediumDomainPool = sync.Pool{
		New: func() interface{} {
			return &Domain{words: make([]uint64, 2)}
		},
	}
	largeDomainPool = sync.Pool{
		New: func() interface{} {
			return &Domain{words: make([]uint64, 4)}
		},
	}
)

// Domain is an ordered, finite set of integers. Unlike a 1-indexed bitset,
// Domain carries an explicit base offset so it can represent arbitrary
// integer ranges (CELAR frequency channels, WCSP tuple values) while still
// using a compact bitset representation. Bit i of the word array represents
// value base+i.
//
// Domain values returned from any operation are always freshly allocated or
// pool-borrowed; callers must not mutate the words slice directly.
type Domain struct {
	base  int
	span  int // number of representable values, i.e. [base, base+span)
	words []uint64
}

func numWords(span int) int {
	if span <= 0 {
		return 0
	}
	return (span + 63) / 64
}

func getDomainFromPool(span int) *Domain {
	n := numWords(span)
	var d *Domain
	switch {
	case n == 1:
		d = smallDomainPool.Get().(*Domain)
	case n == 2:
		d = mediumDomainPool.Get().(*Domain)
	case n <= 4:
		d = largeDomainPool.Get().(*Domain)
	default:
		return nil
	}
	if cap(d.words) < n {
		d.words = make([]uint64, n)
	} else {
		d.words = d.words[:n]
	}
	for i := range d.words {
		d.words[i] = 0
	}
	return d
}

func releaseDomainToPool(d *Domain) {
	if d == nil || d.words == nil {
		return
	}
	switch len(d.words) {
	case 1:
		smallDomainPool.Put(d)
	case 2:
		mediumDomainPool.Put(d)
	case 3, 4:
		largeDomainPool.Put(d)
	}
}

// NewRange returns a Domain containing every integer in [lo, hi] (inclusive).
func NewRange(lo, hi int) *Domain {
	if hi < lo {
		return &Domain{base: lo, span: 0}
	}
	span := hi - lo + 1
	d := getDomainFromPool(span)
	if d == nil {
		d = &Domain{words: make([]uint64, numWords(span))}
	}
	d.base, d.span = lo, span
	for i := 0; i < span; i++ {
		d.words[i/64] |= 1 << uint(i%64)
	}
	return d
}

// NewFromValues returns a Domain containing exactly the given values. base
// and maxSpan establish the addressable range; values outside [base,
// base+maxSpan) are ignored.
func NewFromValues(base, maxSpan int, values []int) *Domain {
	d := getDomainFromPool(maxSpan)
	if d == nil {
		d = &Domain{words: make([]uint64, numWords(maxSpan))}
	}
	d.base, d.span = base, maxSpan
	for _, v := range values {
		i := v - base
		if i >= 0 && i < maxSpan {
			d.words[i/64] |= 1 << uint(i%64)
		}
	}
	return d
}

// Empty returns an empty domain over the same addressable range as d.
func (d *Domain) Empty() *Domain {
	nd := getDomainFromPool(d.span)
	if nd == nil {
		nd = &Domain{words: make([]uint64, numWords(d.span))}
	}
	nd.base, nd.span = d.base, d.span
	return nd
}

// Count returns the number of values currently in the domain.
func (d *Domain) Count() int {
	n := 0
	for _, w := range d.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Has reports whether value is currently in the domain.
func (d *Domain) Has(value int) bool {
	i := value - d.base
	if i < 0 || i >= d.span {
		return false
	}
	return (d.words[i/64]>>uint(i%64))&1 == 1
}

// Erase returns a new domain with value removed.
func (d *Domain) Erase(value int) *Domain {
	if !d.Has(value) {
		return d.Clone()
	}
	nd := d.Clone()
	i := value - d.base
	nd.words[i/64] &^= 1 << uint(i%64)
	return nd
}

// Insert returns a new domain with value added (if addressable).
func (d *Domain) Insert(value int) *Domain {
	i := value - d.base
	if i < 0 || i >= d.span {
		return d.Clone()
	}
	nd := d.Clone()
	nd.words[i/64] |= 1 << uint(i%64)
	return nd
}

// IsSingleton reports whether exactly one value remains.
func (d *Domain) IsSingleton() bool {
	return d.Count() == 1
}

// SingletonValue returns the sole remaining value. Behavior is undefined if
// the domain is not a singleton.
func (d *Domain) SingletonValue() int {
	for wi, w := range d.words {
		if w != 0 {
			return d.base + wi*64 + bits.TrailingZeros64(w)
		}
	}
	panic("ijgp: SingletonValue called on non-singleton domain")
}

// IterateAscending calls f once per value in ascending order.
func (d *Domain) IterateAscending(f func(value int)) {
	for wi, w := range d.words {
		for w != 0 {
			lowest := w & -w
			f(d.base + wi*64 + bits.TrailingZeros64(w))
			w &^= lowest
		}
	}
}

// ToSlice returns every value in the domain in ascending order.
func (d *Domain) ToSlice() []int {
	values := make([]int, 0, d.Count())
	d.IterateAscending(func(v int) { values = append(values, v) })
	return values
}

// CountInRange returns the number of domain values in the half-open range
// [lb, ub).
func (d *Domain) CountInRange(lb, ub int) int {
	n := 0
	d.IterateAscending(func(v int) {
		if v >= lb && v < ub {
			n++
		}
	})
	return n
}

// Clone returns an independent copy of the domain.
func (d *Domain) Clone() *Domain {
	nd := getDomainFromPool(d.span)
	if nd == nil {
		nd = &Domain{words: make([]uint64, len(d.words))}
	}
	nd.base, nd.span = d.base, d.span
	copy(nd.words, d.words)
	return nd
}

// Equal reports whether d and other contain exactly the same values.
func (d *Domain) Equal(other *Domain) bool {
	if d.base != other.base || d.span != other.span {
		return false
	}
	for i := range d.words {
		if d.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Min returns the smallest value in the domain, or 0 if empty.
func (d *Domain) Min() int {
	for wi, w := range d.words {
		if w != 0 {
			return d.base + wi*64 + bits.TrailingZeros64(w)
		}
	}
	return 0
}

// Max returns the largest value in the domain, or 0 if empty.
func (d *Domain) Max() int {
	for wi := len(d.words) - 1; wi >= 0; wi-- {
		if d.words[wi] != 0 {
			return d.base + wi*64 + (63 - bits.LeadingZeros64(d.words[wi]))
		}
	}
	return 0
}

// RestrictTo returns a new domain containing only value, plus the set of
// values removed by the restriction (for later Restore).
func (d *Domain) RestrictTo(value int) (restricted *Domain, removed []int) {
	removed = make([]int, 0, d.Count())
	d.IterateAscending(func(v int) {
		if v != value {
			removed = append(removed, v)
		}
	})
	if d.Has(value) {
		restricted = d.Empty().Insert(value)
	} else {
		restricted = d.Empty()
	}
	return restricted, removed
}

// Restore returns a new domain with every value in removed re-inserted.
func (d *Domain) Restore(removed []int) *Domain {
	nd := d.Clone()
	for _, v := range removed {
		i := v - nd.base
		if i >= 0 && i < nd.span {
			nd.words[i/64] |= 1 << uint(i%64)
		}
	}
	return nd
}

// String renders the domain for debugging, e.g. "{1,3,5}" or "{1..5}".
func (d *Domain) String() string {
	values := d.ToSlice()
	if len(values) == 0 {
		return "{}"
	}
	if len(values) == 1 {
		return fmt.Sprintf("{%d}", values[0])
	}
	consecutive := true
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			consecutive = false
			break
		}
	}
	if consecutive {
		return fmt.Sprintf("{%d..%d}", values[0], values[len(values)-1])
	}
	var b strings.Builder
	b.WriteString("{")
	for i, v := range values {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%d", v)
		if i >= 19 && len(values) > 20 {
			fmt.Fprintf(&b, ",...+%d more", len(values)-20)
			break
		}
	}
	b.WriteString("}")
	return b.String()
}
