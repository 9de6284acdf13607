package store

import "sort"

// Store is an ordered, mutable sequence of elements. Ordering is defined by
// the less function supplied at construction; Insert keeps the sequence
// sorted, all other access is positional. Elements are held by value, so a
// pointer element type gives callers in-place mutation through At/ForEach.
type Store[E any] interface {
	Insert(e E)
	DeleteRange(start, count int)
	At(i int) (E, bool)
	Size() int
	ForEach(fn func(i int, e E))
}

type LessFn[E any] func(a, b E) bool

func New[E any](less LessFn[E]) Store[E] {
	return &store[E]{
		less: less,
	}
}

type store[E any] struct {
	elems []E
	less  LessFn[E]
}

func (r *store[E]) Insert(e E) {
	i := sort.Search(len(r.elems), func(i int) bool {
		return r.less(e, r.elems[i])
	})
	r.elems = append(r.elems, e)
	copy(r.elems[i+1:], r.elems[i:])
	r.elems[i] = e
}

func (r *store[E]) DeleteRange(start, count int) {
	if start < 0 || start >= len(r.elems) || count <= 0 {
		return
	}
	r.elems = append(r.elems[:start], r.elems[start+count:]...)
}

func (r *store[E]) At(i int) (E, bool) {
	if i < 0 || i >= len(r.elems) {
		var e E
		return e, false
	}
	return r.elems[i], true
}

func (r *store[E]) Size() int {
	return len(r.elems)
}

func (r *store[E]) ForEach(fn func(i int, e E)) {
	for i, e := range r.elems {
		fn(i, e)
	}
}
