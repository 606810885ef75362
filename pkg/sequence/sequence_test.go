package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftconn/craftconn/pkg/vector"
)

func TestFilterCollect(t *testing.T) {
	got := From([]int{1, 2, 3, 4, 5, 6}).
		Filter(func(n int) bool { return n%2 == 0 }).
		Collect()
	require.Equal(t, []int{2, 4, 6}, got)
}

func TestFromSeqOverRange(t *testing.T) {
	r, err := vector.NewRange(vector.Vector{}, vector.New(4, 4, 4))
	require.NoError(t, err)

	surface := FromSeq(r.Seq()).
		Filter(func(v vector.Vector) bool { return v.Y == 3 }).
		Count()
	require.Equal(t, 16, surface)
}

func TestTakeShortCircuits(t *testing.T) {
	pulls := 0
	it := FromSeq(func(yield func(int) bool) {
		for n := 0; ; n++ {
			pulls++
			if !yield(n) {
				return
			}
		}
	})
	require.Equal(t, []int{0, 1, 2}, it.Take(3).Collect())
	require.LessOrEqual(t, pulls, 4)
}

func TestMapChain(t *testing.T) {
	doubled := Map(From([]int{1, 2}), func(n int) int { return n * 2 })
	joined := Chain(doubled, From([]int{9})).Collect()
	require.Equal(t, []int{2, 4, 9}, joined)
}

func TestFirstAnyAll(t *testing.T) {
	it := From([]string{"a", "bb", "ccc"})
	first, ok := it.First()
	require.True(t, ok)
	require.Equal(t, "a", first)

	require.True(t, it.Any(func(s string) bool { return len(s) == 3 }))
	require.False(t, it.All(func(s string) bool { return len(s) > 1 }))

	_, ok = From([]string(nil)).First()
	require.False(t, ok)
}

func TestGroupBy(t *testing.T) {
	groups := GroupBy(From([]int{1, 2, 3, 4, 5}), func(n int) int { return n % 2 })
	require.Equal(t, []int{2, 4}, groups[0])
	require.Equal(t, []int{1, 3, 5}, groups[1])
}

func TestEach(t *testing.T) {
	sum := 0
	From([]int{1, 2, 3}).Each(func(n int) { sum += n })
	require.Equal(t, 6, sum)
}
