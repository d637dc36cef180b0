package tree

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func requireSplayRoot(t *testing.T, m *TreeMap[int, int], key int) {
	t.Helper()
	root, err := m.Root().Element()
	require.NoError(t, err)
	require.Equal(t, key, root.Key())
}

func TestSplayTree_AccessMovesToRoot(t *testing.T) {
	m := NewSplayTreeMap[int, int]()
	keys := lo.Shuffle(lo.Range(256))
	for _, key := range keys {
		m.Set(key, key)
		requireSplayRoot(t, m, key)
	}
	require.NoError(t, ValidateTreeMap(m))

	for _, key := range lo.Shuffle(keys)[:64] {
		val, err := m.Get(key)
		require.NoError(t, err)
		require.Equal(t, key, val)
		requireSplayRoot(t, m, key)

		m.Set(key, -key)
		requireSplayRoot(t, m, key)
	}

	// Access on a present key through the nearest queries.
	_, ok := m.FindGE(100)
	require.True(t, ok)
	requireSplayRoot(t, m, 100)
	require.NoError(t, ValidateTreeMap(m))
}

func TestSplayTree_MissSplaysLastVisited(t *testing.T) {
	m := NewSplayTreeMap[int, int]()
	for _, key := range []int{10, 20, 30, 40, 50} {
		m.Set(key, key)
	}
	_, err := m.Get(25)
	require.ErrorIs(t, err, ErrKeyNotFound)
	root, err := m.Root().Element()
	require.NoError(t, err)
	require.Contains(t, []int{20, 30}, root.Key())

	_, err = m.Delete(45)
	require.ErrorIs(t, err, ErrKeyNotFound)
	root, err = m.Root().Element()
	require.NoError(t, err)
	require.Contains(t, []int{40, 50}, root.Key())
	require.Equal(t, int64(5), m.Len())
}

// After a delete the parent of the spliced node is the new root.
func TestSplayTree_DeleteSplaysParent(t *testing.T) {
	for _, rmBySucc := range []bool{false, true} {
		opts := make([]TreeMapOption[int, int], 0, 1)
		if rmBySucc {
			opts = append(opts, WithTreeMapRemoveBorrowSucc[int, int]())
		}
		m := NewSplayTreeMap[int, int](opts...)
		keys := lo.Shuffle(lo.Range(512))
		for _, key := range keys {
			m.Set(key, key)
		}
		for _, key := range lo.Shuffle(keys)[:256] {
			h := m.search(key)
			removed := h
			if m.tree.leftOf(h) != nilHandle && m.tree.rightOf(h) != nilHandle {
				if rmBySucc {
					removed = m.tree.subtreeFirst(m.tree.rightOf(h))
				} else {
					removed = m.tree.subtreeLast(m.tree.leftOf(h))
				}
			}
			parent := m.tree.parentOf(removed)

			_, err := m.Delete(key)
			require.NoError(t, err)
			if parent != nilHandle {
				require.Equal(t, parent, m.tree.root)
			}
			require.NoError(t, ValidateTreeMap(m))
		}
		require.Equal(t, int64(256), m.Len())
	}
}

func TestSplayTree_SequentialChain(t *testing.T) {
	m := NewSplayTreeMap[int, int]()
	total := 1024
	for i := 0; i < total; i++ {
		m.Set(i, i)
	}
	// Every insert of a new max splays it up, so the tree is a left chain.
	require.Equal(t, total-1, m.Tree().TreeHeight())

	_, err := m.Get(0)
	require.NoError(t, err)
	requireSplayRoot(t, m, 0)
	require.Less(t, m.Tree().TreeHeight(), total-1)
	require.Equal(t, lo.Range(total), treeMapKeys(m))
	require.NoError(t, ValidateTreeMap(m))
}
