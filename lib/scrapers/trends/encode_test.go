package trends

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignComparisonItems(t *testing.T) {
	t.Run("all scalars", func(t *testing.T) {
		items, err := alignComparisonItems(
			[]string{"coffee"}, []string{"now 7-d"}, []string{"US"},
		)
		require.NoError(t, err)
		require.Equal(t, []ComparisonItem{
			{Keyword: "coffee", Geo: "US", Time: "now 7-d"},
		}, items)
	})

	t.Run("scalar inputs broadcast over keywords", func(t *testing.T) {
		items, err := alignComparisonItems(
			[]string{"coffee", "tea", "water"}, []string{"now 7-d"}, []string{"US"},
		)
		require.NoError(t, err)
		require.Len(t, items, 3)
		for i, kw := range []string{"coffee", "tea", "water"} {
			require.Equal(t, kw, items[i].Keyword)
			require.Equal(t, "now 7-d", items[i].Time)
			require.Equal(t, "US", items[i].Geo)
		}
	})

	t.Run("timeframes canonicalized per item", func(t *testing.T) {
		items, err := alignComparisonItems(
			[]string{"coffee"}, []string{"2024-09-12T23 5-H"}, []string{""},
		)
		require.NoError(t, err)
		require.Equal(t, "2024-09-12T18 2024-09-12T23", items[0].Time)
	})

	t.Run("non-divisor length rejected", func(t *testing.T) {
		_, err := alignComparisonItems(
			[]string{"a", "b", "c"}, []string{"now 7-d"}, []string{"US", "GB"},
		)
		var sizeErr *CombinationSizeError
		require.ErrorAs(t, err, &sizeErr)
		require.Equal(t, 3, sizeErr.Keywords)
		require.Equal(t, 1, sizeErr.Timeframes)
		require.Equal(t, 2, sizeErr.Geos)
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := alignComparisonItems(nil, []string{"now 7-d"}, []string{"US"})
		var sizeErr *CombinationSizeError
		require.ErrorAs(t, err, &sizeErr)
	})

	// The padding strategy doubles lists instead of broadcasting by
	// index, so a list whose ratio to the target is not a power of two
	// overshoots. The item count stays pinned at the longest input's
	// length; the overshoot is asserted below against the padding
	// helper, matching the behavior the service client has always had.
	t.Run("doubling overshoot", func(t *testing.T) {
		items, err := alignComparisonItems(
			[]string{"a", "b", "c"},
			[]string{"now 1-H", "now 4-H", "now 1-d", "now 7-d", "today 1-m", "today 3-m"},
			[]string{"US"},
		)
		require.NoError(t, err)
		require.Len(t, items, 6)
		require.Equal(t, "a", items[3].Keyword)
		require.Equal(t, "now 7-d", items[3].Time)
	})
}

func TestDoubleToAtLeast(t *testing.T) {
	cases := []struct {
		list   []string
		n      int
		expect int
	}{
		{list: []string{"a"}, n: 1, expect: 1},
		{list: []string{"a"}, n: 4, expect: 4},
		// power-of-two ratios land exactly on target
		{list: []string{"a", "b", "c"}, n: 6, expect: 6},
		// a 3x ratio overshoots: 2 -> 4 -> 8
		{list: []string{"a", "b"}, n: 6, expect: 8},
		// 1 -> 2 -> 4 -> 8
		{list: []string{"a"}, n: 6, expect: 8},
	}
	for _, test := range cases {
		require.Len(t, doubleToAtLeast(test.list, test.n), test.expect,
			"len %d to %d", len(test.list), test.n)
	}
}

func TestRequireSingleKeyword(t *testing.T) {
	require.NoError(t, requireSingleKeyword([]string{"coffee"}))

	err := requireSingleKeyword([]string{"coffee", "tea"})
	var single *SingleKeywordError
	require.ErrorAs(t, err, &single)
	require.Equal(t, 2, single.Count)
}
