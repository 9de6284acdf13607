package rangelist

import "fmt"

type positionKind uint8

const (
	// positionAboveAll: the point is at or past the end of every stored
	// range, or the list is empty.
	positionAboveAll positionKind = iota
	// positionBelowAll: the point is before the start of every stored range.
	positionBelowAll
	// positionWithin: the point falls inside the stored range at index.
	positionWithin
	// positionBetween: the point falls in the gap between the stored ranges
	// at index and next (next == index+1), contained by neither.
	positionBetween
)

type position struct {
	kind  positionKind
	index int
	next  int
}

// locate classifies where p falls relative to the stored ranges. It narrows a
// window [begin, end] of candidate indices by binary search until at most two
// candidates remain, then resolves the residual window explicitly. The
// containment check tests begin before end, which covers the one-element
// window (begin == end) without a separate case.
func (r *RangeList) locate(p int64) (position, error) {
	begin, end := 0, r.store.Size()-1

	for end-begin > 1 {
		mid := (begin + end) / 2
		e, ok := r.store.At(mid)
		if !ok {
			return position{}, fmt.Errorf("%w: index %d missing during search", ErrInvariant, mid)
		}
		switch {
		case e.Contains(p):
			return position{kind: positionWithin, index: mid}, nil
		case e.Low > p:
			end = mid
		default:
			begin = mid
		}
	}

	if r.store.Size() == 0 {
		return position{kind: positionAboveAll}, nil
	}
	first, ok := r.store.At(begin)
	if !ok {
		return position{}, fmt.Errorf("%w: index %d missing resolving window", ErrInvariant, begin)
	}
	last, ok := r.store.At(end)
	if !ok {
		return position{}, fmt.Errorf("%w: index %d missing resolving window", ErrInvariant, end)
	}
	switch {
	case first.Contains(p):
		return position{kind: positionWithin, index: begin}, nil
	case last.Contains(p):
		return position{kind: positionWithin, index: end}, nil
	case p < first.Low:
		return position{kind: positionBelowAll}, nil
	case p >= last.High:
		return position{kind: positionAboveAll}, nil
	default:
		return position{kind: positionBetween, index: begin, next: end}, nil
	}
}
