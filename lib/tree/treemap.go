package tree

import (
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

var _ OrderedMap[uint8, struct{}] = (*TreeMap[uint8, struct{}])(nil)

// Item is a key-value pair ordered by its key only.
type Item[K infra.OrderedKey, V any] struct {
	key K
	val V
}

func NewItem[K infra.OrderedKey, V any](key K, val V) Item[K, V] {
	return Item[K, V]{key: key, val: val}
}

func (item Item[K, V]) Key() K { return item.key }
func (item Item[K, V]) Val() V { return item.val }

// Bound is one end of a key range, possibly open.
type Bound[K infra.OrderedKey] struct {
	key K
	ok  bool
}

func KeyBound[K infra.OrderedKey](key K) Bound[K] {
	return Bound[K]{key: key, ok: true}
}

func NoBound[K infra.OrderedKey]() Bound[K] {
	return Bound[K]{}
}

// TreeMap is a sorted map on a binary search tree. The tree shape policy is
// delegated to a Balancer. Not safe for concurrent use.
type TreeMap[K infra.OrderedKey, V any] struct {
	tree           *BinaryTree[Item[K, V]]
	balancer       Balancer[Item[K, V]]
	keyCompare     infra.OrderedKeyComparator[K]
	isDesc         bool
	isRmBorrowSucc bool
	logger         xlog.XLogger
	statsName      string
}

func (m *TreeMap[K, V]) Len() int64 {
	return m.tree.Len()
}

func (m *TreeMap[K, V]) IsEmpty() bool {
	return m.tree.IsEmpty()
}

// Tree exposes the underlying positional tree, read-only use is expected.
func (m *TreeMap[K, V]) Tree() *BinaryTree[Item[K, V]] {
	return m.tree
}

// Height of the underlying tree, -1 when empty.
func (m *TreeMap[K, V]) Height() int {
	return m.tree.TreeHeight()
}

func (m *TreeMap[K, V]) Root() Position[Item[K, V]] {
	return m.tree.Root()
}

func (m *TreeMap[K, V]) keyOf(h nodeHandle) K {
	return m.tree.nodes[h].elem.key
}

// search returns the node holding key, or the last node visited before
// falling off the tree. nilHandle only for an empty tree.
func (m *TreeMap[K, V]) search(key K) nodeHandle {
	aux := m.tree.root
	for aux != nilHandle {
		res := m.keyCompare(key, m.keyOf(aux))
		var next nodeHandle
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			next = m.tree.leftOf(aux)
		} else /* greater */ {
			next = m.tree.rightOf(aux)
		}
		if next == nilHandle {
			return aux
		}
		aux = next
	}
	return nilHandle
}

func (m *TreeMap[K, V]) access(h nodeHandle) {
	m.balancer.AfterAccess(m.tree, m.tree.makePosition(h))
}

func (m *TreeMap[K, V]) Get(key K) (V, error) {
	var zero V
	h := m.search(key)
	if h == nilHandle {
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	m.access(h)
	if m.keyCompare(key, m.keyOf(h)) != 0 {
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return m.tree.nodes[h].elem.val, nil
}

func (m *TreeMap[K, V]) Set(key K, val V) {
	_ = m.Insert(key, val)
}

// Insert adds key with val. An existing key has its value overwritten unless
// ifNotPresent is true, then ErrReplaceDisabled is returned.
func (m *TreeMap[K, V]) Insert(key K, val V, ifNotPresent ...bool) error {
	item := Item[K, V]{key: key, val: val}
	if m.tree.root == nilHandle {
		p, err := m.tree.AddRoot(item)
		if err != nil {
			return err
		}
		m.balancer.AfterInsert(m.tree, p)
		return nil
	}

	h := m.search(key)
	res := m.keyCompare(key, m.keyOf(h))
	if /* equal */ res == 0 {
		if len(ifNotPresent) > 0 && ifNotPresent[0] {
			m.access(h)
			return ErrReplaceDisabled
		}
		m.tree.nodes[h].elem.val = val
		m.access(h)
		return nil
	}

	var (
		leaf Position[Item[K, V]]
		err  error
	)
	if /* less */ res < 0 {
		leaf, err = m.tree.AddLeft(m.tree.makePosition(h), item)
	} else /* greater */ {
		leaf, err = m.tree.AddRight(m.tree.makePosition(h), item)
	}
	if err != nil {
		return err
	}
	m.balancer.AfterInsert(m.tree, leaf)
	return nil
}

func (m *TreeMap[K, V]) Delete(key K) (V, error) {
	var zero V
	h := m.search(key)
	if h == nilHandle {
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	if m.keyCompare(key, m.keyOf(h)) != 0 {
		m.access(h)
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return m.deleteNode(h).val, nil
}

func (m *TreeMap[K, V]) DeletePosition(p Position[Item[K, V]]) (Item[K, V], error) {
	h, err := m.tree.validate(p)
	if err != nil {
		return Item[K, V]{}, err
	}
	return m.deleteNode(h), nil
}

// DeleteMin removes the item with the least key.
func (m *TreeMap[K, V]) DeleteMin() (Item[K, V], error) {
	if m.tree.root == nilHandle {
		return Item[K, V]{}, ErrKeyNotFound
	}
	return m.deleteNode(m.tree.subtreeFirst(m.tree.root)), nil
}

// DeleteMax removes the item with the greatest key.
func (m *TreeMap[K, V]) DeleteMax() (Item[K, V], error) {
	if m.tree.root == nilHandle {
		return Item[K, V]{}, ErrKeyNotFound
	}
	return m.deleteNode(m.tree.subtreeLast(m.tree.root)), nil
}

/*
A node with two children borrows the item of its in-order pred (or succ)
and the borrowed node, which has at most one child, is spliced out instead.

	  |                    |
	  X                    L
	 / \                  / \
	..  ..  copy(L, X)   ..  ..
	  \     =========>     \
	   L                   (L removed)
*/
func (m *TreeMap[K, V]) deleteNode(h nodeHandle) Item[K, V] {
	removed := m.tree.nodes[h].elem
	if m.tree.leftOf(h) != nilHandle && m.tree.rightOf(h) != nilHandle {
		var borrow nodeHandle
		if m.isRmBorrowSucc {
			borrow = m.tree.subtreeFirst(m.tree.rightOf(h))
		} else {
			borrow = m.tree.subtreeLast(m.tree.leftOf(h))
		}
		m.tree.nodes[h].elem = m.tree.nodes[borrow].elem
		h = borrow
	}
	parent := m.tree.parentOf(h)
	m.tree.splice(h)
	m.balancer.AfterDelete(m.tree, m.tree.makePosition(parent))
	return removed
}

// FindPosition returns the position holding key, or its nearest neighbor on
// the search path. Nil position for an empty map.
func (m *TreeMap[K, V]) FindPosition(key K) Position[Item[K, V]] {
	h := m.search(key)
	if h == nilHandle {
		return Position[Item[K, V]]{}
	}
	m.access(h)
	return m.tree.makePosition(h)
}

func (m *TreeMap[K, V]) First() Position[Item[K, V]] {
	if m.tree.root == nilHandle {
		return Position[Item[K, V]]{}
	}
	return m.tree.makePosition(m.tree.subtreeFirst(m.tree.root))
}

func (m *TreeMap[K, V]) Last() Position[Item[K, V]] {
	if m.tree.root == nilHandle {
		return Position[Item[K, V]]{}
	}
	return m.tree.makePosition(m.tree.subtreeLast(m.tree.root))
}

// Before returns the position just before p in key order, nil for the first.
func (m *TreeMap[K, V]) Before(p Position[Item[K, V]]) (Position[Item[K, V]], error) {
	h, err := m.tree.validate(p)
	if err != nil {
		return Position[Item[K, V]]{}, err
	}
	return m.tree.makePosition(m.tree.pred(h)), nil
}

// After returns the position just after p in key order, nil for the last.
func (m *TreeMap[K, V]) After(p Position[Item[K, V]]) (Position[Item[K, V]], error) {
	h, err := m.tree.validate(p)
	if err != nil {
		return Position[Item[K, V]]{}, err
	}
	return m.tree.makePosition(m.tree.succ(h)), nil
}

func (m *TreeMap[K, V]) itemAt(h nodeHandle) (Item[K, V], bool) {
	if h == nilHandle {
		return Item[K, V]{}, false
	}
	return m.tree.nodes[h].elem, true
}

func (m *TreeMap[K, V]) FindMin() (Item[K, V], bool) {
	if m.tree.root == nilHandle {
		return Item[K, V]{}, false
	}
	return m.itemAt(m.tree.subtreeFirst(m.tree.root))
}

func (m *TreeMap[K, V]) FindMax() (Item[K, V], bool) {
	if m.tree.root == nilHandle {
		return Item[K, V]{}, false
	}
	return m.itemAt(m.tree.subtreeLast(m.tree.root))
}

// findNearest runs the accessed search and then steps once along the key
// order when the landing node falls on the wrong side of key.
func (m *TreeMap[K, V]) findNearest(key K, stepAfter func(res int64) bool, stepBefore func(res int64) bool) (Item[K, V], bool) {
	h := m.search(key)
	if h == nilHandle {
		return Item[K, V]{}, false
	}
	m.access(h)
	res := m.keyCompare(m.keyOf(h), key)
	if stepAfter != nil && stepAfter(res) {
		h = m.tree.succ(h)
	} else if stepBefore != nil && stepBefore(res) {
		h = m.tree.pred(h)
	}
	return m.itemAt(h)
}

// FindGE returns the item with the least key greater than or equal to key.
func (m *TreeMap[K, V]) FindGE(key K) (Item[K, V], bool) {
	return m.findNearest(key, func(res int64) bool { return res < 0 }, nil)
}

// FindGT returns the item with the least key strictly greater than key.
func (m *TreeMap[K, V]) FindGT(key K) (Item[K, V], bool) {
	return m.findNearest(key, func(res int64) bool { return res <= 0 }, nil)
}

// FindLT returns the item with the greatest key strictly less than key.
func (m *TreeMap[K, V]) FindLT(key K) (Item[K, V], bool) {
	return m.findNearest(key, nil, func(res int64) bool { return res >= 0 })
}

// FindLE returns the item with the greatest key less than or equal to key.
func (m *TreeMap[K, V]) FindLE(key K) (Item[K, V], bool) {
	return m.findNearest(key, nil, func(res int64) bool { return res > 0 })
}

// FindRange iterates lazily over start <= key < stop in key order. An open
// bound runs from the first or through the last key.
func (m *TreeMap[K, V]) FindRange(start, stop Bound[K]) *RangeIter[K, V] {
	return &RangeIter[K, V]{
		m:     m,
		start: start,
		stop:  stop,
	}
}

// Iter walks every key in order.
func (m *TreeMap[K, V]) Iter() *RangeIter[K, V] {
	return m.FindRange(NoBound[K](), NoBound[K]())
}

// Inorder traversal without touching the balancer.
func (m *TreeMap[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	if m.tree.root == nilHandle {
		return
	}
	idx := int64(0)
	for aux := m.tree.subtreeFirst(m.tree.root); aux != nilHandle; aux = m.tree.succ(aux) {
		item := m.tree.nodes[aux].elem
		if !action(idx, item.key, item.val) {
			return
		}
		idx++
	}
}

func (m *TreeMap[K, V]) Release() {
	m.tree.Release()
	if r, ok := m.balancer.(interface{ reset() }); ok {
		r.reset()
	}
}

// RangeIter is a single pass iterator over a key range.
// Deleting the current item or releasing the map ends the iteration, and Err
// reports ErrInvalidPosition afterwards. Other mutations keep the in-order
// walk going from the current item.
type RangeIter[K infra.OrderedKey, V any] struct {
	m       *TreeMap[K, V]
	start   Bound[K]
	stop    Bound[K]
	cur     Position[Item[K, V]]
	err     error
	started bool
	done    bool
}

func (it *RangeIter[K, V]) Next() bool {
	if it.done {
		return false
	}
	m := it.m
	var h nodeHandle
	if !it.started {
		it.started = true
		if m.tree.root == nilHandle {
			it.done = true
			return false
		}
		if !it.start.ok {
			h = m.tree.subtreeFirst(m.tree.root)
		} else {
			h = m.search(it.start.key)
			m.access(h)
			if m.keyCompare(m.keyOf(h), it.start.key) < 0 {
				h = m.tree.succ(h)
			}
		}
	} else {
		cur, err := m.tree.validate(it.cur)
		if err != nil {
			it.err = err
			it.done = true
			it.cur = Position[Item[K, V]]{}
			return false
		}
		h = m.tree.succ(cur)
	}
	if h == nilHandle || (it.stop.ok && m.keyCompare(m.keyOf(h), it.stop.key) >= 0) {
		it.done = true
		it.cur = Position[Item[K, V]]{}
		return false
	}
	it.cur = m.tree.makePosition(h)
	return true
}

// Err reports why the iteration stopped early, nil on a normal end.
func (it *RangeIter[K, V]) Err() error {
	return it.err
}

// Position of the current item.
func (it *RangeIter[K, V]) Position() Position[Item[K, V]] {
	return it.cur
}

func (it *RangeIter[K, V]) Key() K {
	return it.Item().key
}

func (it *RangeIter[K, V]) Val() V {
	return it.Item().val
}

func (it *RangeIter[K, V]) Item() Item[K, V] {
	item, _ := it.cur.Element()
	return item
}

// Collect drains the remaining items into a slice.
func (it *RangeIter[K, V]) Collect() []Item[K, V] {
	res := make([]Item[K, V], 0)
	for it.Next() {
		res = append(res, it.Item())
	}
	return res
}
