package rangeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MergeSorted(t *testing.T) {
	testCases := []struct {
		name   string
		input  []Range
		expect []Range
	}{
		{
			name:   "empty",
			input:  nil,
			expect: nil,
		},
		{
			name:   "single range",
			input:  []Range{{'a', 'z'}},
			expect: []Range{{'a', 'z'}},
		},
		{
			name:   "adjacent ranges merge",
			input:  []Range{{'a', 'c'}, {'d', 'f'}},
			expect: []Range{{'a', 'f'}},
		},
		{
			name:   "overlapping ranges merge",
			input:  []Range{{'a', 'm'}, {'g', 'z'}},
			expect: []Range{{'a', 'z'}},
		},
		{
			name:   "disjoint ranges stay separate",
			input:  []Range{{'a', 'c'}, {'e', 'g'}},
			expect: []Range{{'a', 'c'}, {'e', 'g'}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			actual := MergeSorted(tc.input)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_SplitToUnits(t *testing.T) {
	assert := assert.New(t)

	units := SplitToUnits([]Range{{'a', 'z'}, {'c', 'e'}})

	// every boundary implied by the inputs must exist as a unit edge, and the
	// units must be disjoint and cover exactly the merged span.
	assert.Equal([]Range{{'a', 'b'}, {'c', 'e'}, {'f', 'z'}}, units)
}

func Test_SplitToUnits_threeWay(t *testing.T) {
	assert := assert.New(t)

	units := SplitToUnits([]Range{{'0', '9'}, {'5', '5'}})

	assert.Equal([]Range{{'0', '4'}, {'5', '5'}, {'6', '9'}}, units)
}

func Test_Complement(t *testing.T) {
	assert := assert.New(t)

	comp := Complement([]Range{{'0', '9'}}, 0, 127)

	assert.Equal(Range{0, '0' - 1}, comp[0])
	assert.Equal(Range{'9' + 1, 127}, comp[len(comp)-1])

	for _, r := range comp {
		for c := r.Lo; c <= r.Hi; c++ {
			assert.False(c >= '0' && c <= '9')
		}
	}
}

func Test_FindUnit(t *testing.T) {
	assert := assert.New(t)

	units := []Range{{'a', 'f'}, {'g', 'm'}, {'n', 'z'}}

	idx, ok := FindUnit(units, 'h')
	assert.True(ok)
	assert.Equal(1, idx)

	_, ok = FindUnit(units, '0')
	assert.False(ok)
}
