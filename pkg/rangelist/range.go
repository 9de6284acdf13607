package rangelist

import "fmt"

// Range is a half-open interval of integers: Low is included, High is not.
// A Range is only valid when Low < High; zero-width and inverted ranges are
// never stored.
type Range struct {
	Low  int64
	High int64
}

func RangeFrom(low, high int64) Range {
	return Range{Low: low, High: high}
}

func (r Range) IsValid() bool {
	return r.Low < r.High
}

// Contains reports whether p falls inside r.
func (r Range) Contains(p int64) bool {
	return r.Low <= p && p < r.High
}

// Overlaps reports whether r and other share at least one integer.
func (r Range) Overlaps(other Range) bool {
	return r.Low < other.High && other.Low < r.High
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Low, r.High)
}
