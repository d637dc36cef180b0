package tree

import (
	"math"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestAVLTree_AscendingInsert(t *testing.T) {
	m := NewAVLTreeMap[int, int]()
	for i := 1; i <= 7; i++ {
		m.Set(i, i)
		require.NoError(t, ValidateTreeMap(m))
	}
	root, err := m.Root().Element()
	require.NoError(t, err)
	require.Equal(t, 4, root.Key())
	require.Equal(t, 2, m.Tree().TreeHeight())
	require.Equal(t, []int{4, 2, 1, 3, 6, 5, 7}, itemKeys(m.Tree().Preorder().Collect()))
}

/*
Deleting 1 leaves 2 unbalanced, the tall child 4 holds two grandchildren of
equal height. The one aligned with 4 must be picked, a single rotation.

	    2                    4
	   / \                  / \
	  1   4      ====>     2   5
	     / \                \
	    3   5                3
*/
func TestAVLTree_TallGrandchildTieBreak(t *testing.T) {
	m := NewAVLTreeMap[int, int]()
	for _, key := range []int{2, 1, 4, 3, 5} {
		m.Set(key, key)
	}
	_, err := m.Delete(1)
	require.NoError(t, err)
	require.NoError(t, ValidateTreeMap(m))
	root, err := m.Root().Element()
	require.NoError(t, err)
	require.Equal(t, 4, root.Key())
	require.Equal(t, []int{4, 2, 3, 5}, itemKeys(m.Tree().Preorder().Collect()))

	// Mirrored.
	m = NewAVLTreeMap[int, int]()
	for _, key := range []int{4, 5, 2, 1, 3} {
		m.Set(key, key)
	}
	_, err = m.Delete(5)
	require.NoError(t, err)
	require.NoError(t, ValidateTreeMap(m))
	require.Equal(t, []int{2, 1, 4, 3}, itemKeys(m.Tree().Preorder().Collect()))
}

// 0, n-1, 1, n-2, ...
func zigzagKeys(n int) []int {
	keys := make([]int, 0, n)
	for i, j := 0, n-1; i <= j; i, j = i+1, j-1 {
		keys = append(keys, i)
		if i != j {
			keys = append(keys, j)
		}
	}
	return keys
}

func TestAVLTree_HeightBound(t *testing.T) {
	bound := func(n int) int {
		return int(math.Floor(1.4405*math.Log2(float64(n+2)) - 0.3277))
	}
	testcases := []struct {
		name string
		keys []int
	}{
		{name: "ascending", keys: lo.Range(4096)},
		{name: "descending", keys: lo.Reverse(lo.Range(4096))},
		{name: "random", keys: lo.Shuffle(lo.Range(4096))},
		{name: "zigzag", keys: zigzagKeys(4096)},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			m := NewAVLTreeMap[int, struct{}]()
			for i, key := range tc.keys {
				m.Set(key, struct{}{})
				if i%64 == 0 || i == len(tc.keys)-1 {
					require.LessOrEqual(tt, m.Tree().TreeHeight(), bound(i+1))
				}
			}
			require.NoError(tt, ValidateTreeMap(m))

			for i, key := range lo.Shuffle(tc.keys) {
				_, err := m.Delete(key)
				require.NoError(tt, err)
				if i%128 == 0 {
					require.NoError(tt, ValidateTreeMap(m))
					require.LessOrEqual(tt, m.Tree().TreeHeight(), bound(int(m.Len())))
				}
			}
			require.True(tt, m.IsEmpty())
		})
	}
}

func TestAVLTree_RandomInsertAndRemove(t *testing.T) {
	for _, rmBySucc := range []bool{false, true} {
		opts := make([]TreeMapOption[int, int], 0, 1)
		if rmBySucc {
			opts = append(opts, WithTreeMapRemoveBorrowSucc[int, int]())
		}
		m := NewAVLTreeMap[int, int](opts...)
		keys := lo.Shuffle(lo.Range(1000))
		for _, key := range keys {
			m.Set(key, key)
			require.NoError(t, ValidateTreeMap(m))
		}
		for _, key := range lo.Shuffle(keys)[:500] {
			_, err := m.Delete(key)
			require.NoError(t, err)
			require.NoError(t, ValidateTreeMap(m))
		}
		require.Equal(t, int64(500), m.Len())
	}
}
