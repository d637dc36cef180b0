package tree

import (
	"fmt"
)

var _ Balancer[struct{}] = (*avlBalancer[struct{}])(nil)

// avlBalancer keeps |height(left) - height(right)| <= 1 on every node.
// A leaf has height 0 and a missing child counts as -1.
type avlBalancer[E any] struct {
	heights sideTable[int32]
}

func (b *avlBalancer[E]) height(h nodeHandle) int32 {
	if h == nilHandle {
		return -1
	}
	return b.heights.get(h)
}

func (b *avlBalancer[E]) leftHeight(t *BinaryTree[E], h nodeHandle) int32 {
	return b.height(t.leftOf(h))
}

func (b *avlBalancer[E]) rightHeight(t *BinaryTree[E], h nodeHandle) int32 {
	return b.height(t.rightOf(h))
}

func (b *avlBalancer[E]) recomputeHeight(t *BinaryTree[E], h nodeHandle) {
	b.heights.set(h, 1+max(b.leftHeight(t, h), b.rightHeight(t, h)))
}

func (b *avlBalancer[E]) isBalanced(t *BinaryTree[E], h nodeHandle) bool {
	diff := b.leftHeight(t, h) - b.rightHeight(t, h)
	return -1 <= diff && diff <= 1
}

// tallChild picks the taller child, a tie goes left only when favorLeft.
func (b *avlBalancer[E]) tallChild(t *BinaryTree[E], h nodeHandle, favorLeft bool) nodeHandle {
	bonus := int32(0)
	if favorLeft {
		bonus = 1
	}
	if b.leftHeight(t, h)+bonus > b.rightHeight(t, h) {
		return t.leftOf(h)
	}
	return t.rightOf(h)
}

// tallGrandchild breaks grandchild ties toward the side of the tall child so
// the restructure is a single rotation whenever that resolves the imbalance.
func (b *avlBalancer[E]) tallGrandchild(t *BinaryTree[E], h nodeHandle) nodeHandle {
	child := b.tallChild(t, h, false)
	alignment := child == t.leftOf(h)
	return b.tallChild(t, child, alignment)
}

/*
rebalance climbs from h towards the root. An unbalanced node z is fixed by
the trinode restructuring of its tall grandchild x:

	    z                                 y
	   / \                              /   \
	  T0  y      restructure(x)        z     x
	     / \     ============>        / \   / \
	    T1  x                        T0 T1 T2 T3
	       / \
	      T2  T3

The climb stops once a subtree height comes out unchanged.
*/
func (b *avlBalancer[E]) rebalance(t *BinaryTree[E], h nodeHandle) {
	levels := int64(0)
	for h != nilHandle {
		levels++
		oldHeight := b.height(h)
		if !b.isBalanced(t, h) {
			h = t.restructure(b.tallGrandchild(t, h))
			b.recomputeHeight(t, t.leftOf(h))
			b.recomputeHeight(t, t.rightOf(h))
		}
		b.recomputeHeight(t, h)
		if b.height(h) == oldHeight {
			break
		}
		h = t.parentOf(h)
	}
	t.stats.RecordRebalanceDepth(levels)
}

func (b *avlBalancer[E]) AfterInsert(t *BinaryTree[E], p Position[E]) {
	b.heights.set(p.h, 0)
	b.rebalance(t, t.parentOf(p.h))
}

func (b *avlBalancer[E]) AfterDelete(t *BinaryTree[E], parent Position[E]) {
	if parent.IsNil() {
		return
	}
	b.rebalance(t, parent.h)
}

func (b *avlBalancer[E]) AfterAccess(*BinaryTree[E], Position[E]) {}

func (b *avlBalancer[E]) reset() {
	b.heights.reset()
}

// validate recomputes every height bottom-up and compares it with the
// stored one and the balance bound.
func (b *avlBalancer[E]) validate(t *BinaryTree[E]) error {
	if t.root == nilHandle {
		return nil
	}
	actual := make(map[nodeHandle]int32, t.count)
	it := t.Postorder()
	for it.Next() {
		h := it.cur
		lh, rh := int32(-1), int32(-1)
		if l := t.leftOf(h); l != nilHandle {
			lh = actual[l]
		}
		if r := t.rightOf(h); r != nilHandle {
			rh = actual[r]
		}
		if diff := lh - rh; diff < -1 || diff > 1 {
			return fmt.Errorf("%w: handle %d left %d right %d", ErrAVLViolation, h, lh, rh)
		}
		actual[h] = 1 + max(lh, rh)
		if stored := b.height(h); stored != actual[h] {
			return fmt.Errorf("%w: handle %d stored height %d actual %d", ErrAVLViolation, h, stored, actual[h])
		}
	}
	return nil
}
