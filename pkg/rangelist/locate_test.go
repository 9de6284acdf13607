package rangelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocate(t *testing.T) {
	cases := map[string]struct {
		ranges   []Range
		point    int64
		expected position
	}{
		"Empty": {
			ranges:   nil,
			point:    5,
			expected: position{kind: positionAboveAll},
		},
		"SingleWithin": {
			ranges:   []Range{{1, 5}},
			point:    1,
			expected: position{kind: positionWithin, index: 0},
		},
		"SingleBelow": {
			ranges:   []Range{{1, 5}},
			point:    0,
			expected: position{kind: positionBelowAll},
		},
		"SingleAbove": {
			ranges:   []Range{{1, 5}},
			point:    5,
			expected: position{kind: positionAboveAll},
		},
		"PairBetween": {
			ranges:   []Range{{1, 5}, {10, 20}},
			point:    7,
			expected: position{kind: positionBetween, index: 0, next: 1},
		},
		"PairBetweenAtHigh": {
			ranges:   []Range{{1, 5}, {10, 20}},
			point:    5,
			expected: position{kind: positionBetween, index: 0, next: 1},
		},
		"PairWithinSecond": {
			ranges:   []Range{{1, 5}, {10, 20}},
			point:    19,
			expected: position{kind: positionWithin, index: 1},
		},
		"ManyWithinMiddle": {
			ranges:   []Range{{0, 2}, {4, 6}, {8, 10}, {12, 14}, {16, 18}},
			point:    9,
			expected: position{kind: positionWithin, index: 2},
		},
		"ManyBetweenMiddle": {
			ranges:   []Range{{0, 2}, {4, 6}, {8, 10}, {12, 14}, {16, 18}},
			point:    10,
			expected: position{kind: positionBetween, index: 2, next: 3},
		},
		"ManyBelow": {
			ranges:   []Range{{0, 2}, {4, 6}, {8, 10}, {12, 14}, {16, 18}},
			point:    -1,
			expected: position{kind: positionBelowAll},
		},
		"ManyAbove": {
			ranges:   []Range{{0, 2}, {4, 6}, {8, 10}, {12, 14}, {16, 18}},
			point:    18,
			expected: position{kind: positionAboveAll},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rl := New()
			for _, vr := range tc.ranges {
				assert.NoError(t, rl.Add(vr.Low, vr.High))
			}

			pos, err := rl.locate(tc.point)
			assert.NoError(t, err)
			if pos != tc.expected {
				t.Errorf("%s: -want %+v, +got: %+v\n", name, tc.expected, pos)
			}
		})
	}
}
