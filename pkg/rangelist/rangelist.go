package rangelist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/henderiw/rangelist/pkg/store"
)

// ErrInvariant signals that the stored ranges and the search over them
// disagree. It marks a defect in the merge/split bookkeeping, never a caller
// mistake, and is returned undisguised so the corruption is not papered over.
var ErrInvariant = errors.New("range list invariant violated")

// RangeList maintains a sorted sequence of disjoint half-open integer ranges.
// Add and Remove keep the sequence minimal: overlapping and touching ranges
// are merged, removals split stored ranges where needed, and no two
// consecutive stored ranges ever satisfy a.High == b.Low.
//
// A RangeList is not safe for concurrent use; callers needing that must
// serialize access externally.
type RangeList struct {
	store store.Store[*Range]
}

func New() *RangeList {
	return &RangeList{
		store: store.New[*Range](func(a, b *Range) bool {
			return a.Low < b.Low
		}),
	}
}

// Add inserts the integers covered by [low, high) into the list, merging with
// any stored range it overlaps or touches. A call with low >= high is ignored.
func (r *RangeList) Add(low, high int64) error {
	if !(Range{Low: low, High: high}).IsValid() {
		return nil
	}

	lowPos, err := r.locate(low)
	if err != nil {
		return err
	}
	// high-1 is the last integer the operand covers; the range is half-open.
	highPos, err := r.locate(high - 1)
	if err != nil {
		return err
	}

	switch {
	case lowPos.kind == positionAboveAll:
		if last, ok := r.store.At(r.store.Size() - 1); ok && last.High == low {
			last.High = high
			return nil
		}
		r.store.Insert(&Range{Low: low, High: high})
		return nil
	case highPos.kind == positionBelowAll:
		if first, ok := r.store.At(0); ok && first.Low == high {
			first.Low = low
			return nil
		}
		r.store.Insert(&Range{Low: low, High: high})
		return nil
	}

	mergeStart, floor, err := r.addFloor(lowPos, low)
	if err != nil {
		return err
	}
	mergeStop, ceiling, err := r.addCeiling(highPos, high)
	if err != nil {
		return err
	}

	if mergeStart > mergeStop {
		// The operand sits in a gap, touching nothing.
		r.store.Insert(&Range{Low: low, High: high})
		return nil
	}
	r.store.DeleteRange(mergeStart, mergeStop-mergeStart+1)
	r.store.Insert(&Range{Low: floor, High: ceiling})
	return nil
}

// addFloor resolves the low anchor of the merge window: the first stored
// index the operand consolidates, and the low bound of the replacement.
func (r *RangeList) addFloor(pos position, low int64) (int, int64, error) {
	switch pos.kind {
	case positionBelowAll:
		return 0, low, nil
	case positionWithin:
		e, ok := r.store.At(pos.index)
		if !ok {
			return 0, 0, fmt.Errorf("%w: low anchor %d absent", ErrInvariant, pos.index)
		}
		return pos.index, e.Low, nil
	case positionBetween:
		left, ok := r.store.At(pos.index)
		if !ok {
			return 0, 0, fmt.Errorf("%w: low anchor %d absent", ErrInvariant, pos.index)
		}
		if left.High == low {
			// Touching the left neighbor: it merges too.
			return pos.index, left.Low, nil
		}
		return pos.next, low, nil
	default:
		return 0, 0, fmt.Errorf("%w: unexpected low anchor position %d", ErrInvariant, pos.kind)
	}
}

// addCeiling resolves the high anchor: the last stored index the operand
// consolidates, and the high bound of the replacement.
func (r *RangeList) addCeiling(pos position, high int64) (int, int64, error) {
	switch pos.kind {
	case positionAboveAll:
		return r.store.Size() - 1, high, nil
	case positionWithin:
		e, ok := r.store.At(pos.index)
		if !ok {
			return 0, 0, fmt.Errorf("%w: high anchor %d absent", ErrInvariant, pos.index)
		}
		return pos.index, e.High, nil
	case positionBetween:
		right, ok := r.store.At(pos.next)
		if !ok {
			return 0, 0, fmt.Errorf("%w: high anchor %d absent", ErrInvariant, pos.next)
		}
		if right.Low == high {
			// Touching the right neighbor: it merges too.
			return pos.next, right.High, nil
		}
		return pos.index, high, nil
	default:
		return 0, 0, fmt.Errorf("%w: unexpected high anchor position %d", ErrInvariant, pos.kind)
	}
}

// Remove deletes the integers covered by [low, high) from the list, trimming
// or splitting the stored ranges it intersects. A call with low >= high is
// ignored, as is a range that covers nothing stored.
func (r *RangeList) Remove(low, high int64) error {
	if !(Range{Low: low, High: high}).IsValid() {
		return nil
	}
	if r.store.Size() == 0 {
		return nil
	}

	lowPos, err := r.locate(low)
	if err != nil {
		return err
	}
	if lowPos.kind == positionAboveAll {
		return nil
	}
	highPos, err := r.locate(high - 1)
	if err != nil {
		return err
	}
	if highPos.kind == positionBelowAll {
		return nil
	}

	removeStart := 0
	switch lowPos.kind {
	case positionBelowAll:
		removeStart = 0
	case positionWithin:
		removeStart = lowPos.index
	case positionBetween:
		removeStart = lowPos.next
	}
	removeStop := r.store.Size() - 1
	switch highPos.kind {
	case positionAboveAll:
		removeStop = r.store.Size() - 1
	case positionWithin:
		removeStop = highPos.index
	case positionBetween:
		removeStop = highPos.index
	}

	startRange, ok := r.store.At(removeStart)
	if !ok {
		return fmt.Errorf("%w: remove start %d absent", ErrInvariant, removeStart)
	}
	stopRange, ok := r.store.At(removeStop)
	if !ok {
		return fmt.Errorf("%w: remove stop %d absent", ErrInvariant, removeStop)
	}
	left := *startRange
	right := *stopRange

	r.store.DeleteRange(removeStart, removeStop-removeStart+1)

	if low > left.Low {
		r.store.Insert(&Range{Low: left.Low, High: low})
	}
	if right.Low < high && high < right.High {
		r.store.Insert(&Range{Low: high, High: right.High})
	}
	return nil
}

// Has reports whether p is covered by a stored range.
func (r *RangeList) Has(p int64) bool {
	pos, err := r.locate(p)
	if err != nil {
		return false
	}
	return pos.kind == positionWithin
}

func (r *RangeList) Count() int {
	return r.store.Size()
}

// Ranges returns a copy of the stored ranges in ascending order.
func (r *RangeList) Ranges() []Range {
	ranges := make([]Range, 0, r.store.Size())
	r.store.ForEach(func(_ int, e *Range) {
		ranges = append(ranges, *e)
	})
	return ranges
}

// String renders the stored ranges in ascending order, each as "[low,high)"
// followed by a space.
func (r *RangeList) String() string {
	var sb strings.Builder
	r.store.ForEach(func(_ int, e *Range) {
		fmt.Fprintf(&sb, "%s ", e)
	})
	return sb.String()
}
