package ijgp

import "sort"

// scopeSet is a small helper representing a set of variable ids with
// union/size operations convenient for best-fit bucket packing.
type scopeSet map[VarID]bool

func newScopeSet(ids []VarID) scopeSet {
	s := make(scopeSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

func (s scopeSet) union(other scopeSet) scopeSet {
	out := make(scopeSet, len(s)+len(other))
	for id := range s {
		out[id] = true
	}
	for id := range other {
		out[id] = true
	}
	return out
}

func (s scopeSet) toSlice() []VarID {
	out := make([]VarID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MiniBucket is one packed scope within a bucket, produced by best-fit
// packing bounded by the schematizer's bound i.
type MiniBucket struct {
	Scope       []VarID
	Constraints []Constraint
}

// OutsideArc records that the mini-bucket at (bucket, index) must send its
// residual scope (its scope minus the bucket's pivot variable) to the
// mini-bucket identified by (targetBucket, targetIndex), found in a
// later-processed bucket (lower ordering index; buckets are processed from
// the highest index down).
type OutsideArc struct {
	FromBucket, FromIndex int
	ToBucket, ToIndex     int
	Separator             []VarID
}

// MiniBucketSchema is the result of schematic mini-bucket decomposition:
// one slice of MiniBuckets per position in the elimination ordering, plus
// the outside-bucket arcs recorded while packing.
type MiniBucketSchema struct {
	Ordering []VarID
	Buckets  [][]*MiniBucket
	Arcs     []OutsideArc
}

// SchematicMiniBucket partitions every constraint's scope into buckets keyed
// by the highest-ordering-index variable in its scope, then packs each
// bucket into mini-buckets of size <= bound using best-fit packing
// (preferring the mini-bucket whose union with the new scope is smallest,
// breaking ties toward exact containment), recording outside-bucket arcs for
// residual scopes that still contain un-eliminated variables. Grounded on
// the original schematicMiniBucket's futureArcPool bookkeeping.
func (p *Problem) SchematicMiniBucket(ordering []VarID, bound int) (*MiniBucketSchema, error) {
	if len(ordering) == 0 {
		return nil, ErrConfigInvalid
	}
	if bound < 1 {
		return nil, ErrConfigInvalid
	}

	position := make(map[VarID]int, len(ordering))
	for i, v := range ordering {
		position[v] = i
	}

	n := len(ordering)
	bucketScopes := make([][]scopeSet, n)

	for _, c := range p.constraints {
		scope := c.Scope()
		highest := -1
		for _, v := range scope {
			if pos, ok := position[v]; ok && pos > highest {
				highest = pos
			}
		}
		if highest < 0 {
			continue
		}
		bucketScopes[highest] = append(bucketScopes[highest], newScopeSet(scope))
	}

	schema := &MiniBucketSchema{
		Ordering: ordering,
		Buckets:  make([][]*MiniBucket, n),
	}

	// pendingResiduals[bucket] holds residual scopes re-queued from a
	// later (already-processed) bucket's mini-bucket, to be packed once we
	// reach this bucket during the top-down pass.
	pendingResiduals := make(map[int][]residualRef)

	for k := n - 1; k >= 0; k-- {
		scopes := bucketScopes[k]
		for _, r := range pendingResiduals[k] {
			scopes = append(scopes, r.scope)
		}

		packed := packBestFit(scopes, bound)
		buckets := make([]*MiniBucket, len(packed))
		for i, s := range packed {
			buckets[i] = &MiniBucket{Scope: s.toSlice()}
		}
		schema.Buckets[k] = buckets

		for i, s := range packed {
			residual := make(scopeSet)
			for v := range s {
				if v != ordering[k] {
					residual[v] = true
				}
			}
			if len(residual) == 0 {
				continue
			}
			target := -1
			for v := range residual {
				if pos := position[v]; target < 0 || pos > target {
					target = pos
				}
			}
			if target < 0 || target >= k {
				continue
			}
			pendingResiduals[target] = append(pendingResiduals[target], residualRef{scope: residual, fromBucket: k, fromIndex: i})
		}
	}

	// Second pass: resolve outside-arcs now that every bucket's packing is
	// known, by locating which mini-bucket in the target bucket absorbed
	// each residual.
	for targetBucket, refs := range pendingResiduals {
		for _, r := range refs {
			toIndex := findAbsorbingMiniBucket(schema.Buckets[targetBucket], r.scope)
			if toIndex < 0 {
				continue
			}
			schema.Arcs = append(schema.Arcs, OutsideArc{
				FromBucket: r.fromBucket,
				FromIndex:  r.fromIndex,
				ToBucket:   targetBucket,
				ToIndex:    toIndex,
				Separator:  r.scope.toSlice(),
			})
		}
	}

	// Attach original constraints to the mini-bucket(s) whose scope
	// contains them (a constraint may be referenced by exactly the
	// mini-bucket it was packed into).
	for _, c := range p.constraints {
		scope := c.Scope()
		highest := -1
		for _, v := range scope {
			if pos, ok := position[v]; ok && pos > highest {
				highest = pos
			}
		}
		if highest < 0 {
			continue
		}
		for _, mb := range schema.Buckets[highest] {
			if scopeSubsetOf(scope, mb.Scope) {
				mb.Constraints = append(mb.Constraints, c)
				break
			}
		}
	}

	return schema, nil
}

type residualRef struct {
	scope      scopeSet
	fromBucket int
	fromIndex  int
}

func findAbsorbingMiniBucket(buckets []*MiniBucket, residual scopeSet) int {
	for i, b := range buckets {
		bs := newScopeSet(b.Scope)
		contained := true
		for v := range residual {
			if !bs[v] {
				contained = false
				break
			}
		}
		if contained {
			return i
		}
	}
	return -1
}

// packBestFit implements the best-fit mini-bucket packing: scopes are
// processed largest-first; each scope is merged into the existing
// mini-bucket whose union with it is smallest (and no larger than bound),
// or starts a new mini-bucket if none qualifies.
func packBestFit(scopes []scopeSet, bound int) []scopeSet {
	sorted := make([]scopeSet, len(scopes))
	copy(sorted, scopes)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	var buckets []scopeSet
	for _, s := range sorted {
		bestIdx := -1
		bestSize := bound + 1
		for i, b := range buckets {
			u := s.union(b)
			if len(u) > bound {
				continue
			}
			if len(u) == len(b) {
				// s is already contained in b: exact containment, take it
				// immediately rather than keep scanning for a smaller union.
				bestIdx = i
				bestSize = len(u)
				break
			}
			if len(u) < bestSize {
				bestSize = len(u)
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			// No existing mini-bucket fits within bound (including the
			// case where s itself already exceeds bound, per the
			// schematizer's size-exemption for oversized original scopes):
			// start a new singleton mini-bucket.
			buckets = append(buckets, s)
		} else {
			buckets[bestIdx] = s.union(buckets[bestIdx])
		}
	}
	return buckets
}
