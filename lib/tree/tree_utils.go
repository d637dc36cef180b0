package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

type validator[E any] interface {
	validate(t *BinaryTree[E]) error
}

// ValidateTreeMap checks the binary search order, the parent/child links,
// the size counter and the invariant of the installed balancer. Every
// violation found is reported.
func ValidateTreeMap[K infra.OrderedKey, V any](m *TreeMap[K, V]) error {
	var merr error
	merr = multierr.Append(merr, orderViolationValidate(m))
	merr = multierr.Append(merr, linkViolationValidate(m.tree))
	if v, ok := m.balancer.(validator[Item[K, V]]); ok {
		merr = multierr.Append(merr, v.validate(m.tree))
	}
	return merr
}

// Inorder keys must be strictly ascending under the map comparator.
func orderViolationValidate[K infra.OrderedKey, V any](m *TreeMap[K, V]) error {
	var (
		prev    K
		hasPrev bool
		err     error
	)
	it := m.tree.Inorder()
	for it.Next() {
		key := it.Element().key
		if hasPrev && m.keyCompare(prev, key) >= 0 {
			err = fmt.Errorf("%w: %v is not before %v", ErrOrderViolation, prev, key)
			break
		}
		prev, hasPrev = key, true
	}
	return err
}

func linkViolationValidate[E any](t *BinaryTree[E]) error {
	if t.root == nilHandle {
		if t.count != 0 {
			return fmt.Errorf("%w: empty tree counts %d", ErrSizeViolation, t.count)
		}
		return nil
	}
	if t.parentOf(t.root) != nilHandle {
		return fmt.Errorf("%w: root has a parent", ErrLinkViolation)
	}

	var merr error
	reached := int64(0)
	it := t.Preorder()
	for it.Next() {
		h := it.cur
		reached++
		if !t.nodes[h].live {
			merr = multierr.Append(merr, fmt.Errorf("%w: released handle %d is reachable", ErrLinkViolation, h))
		}
		for _, c := range [2]nodeHandle{t.leftOf(h), t.rightOf(h)} {
			if c != nilHandle && t.parentOf(c) != h {
				merr = multierr.Append(merr, fmt.Errorf("%w: handle %d does not point back to %d", ErrLinkViolation, c, h))
			}
		}
		if reached > t.count {
			// A cycle would never end the walk.
			return multierr.Append(merr, fmt.Errorf("%w: more nodes reachable than %d", ErrSizeViolation, t.count))
		}
	}
	if reached != t.count {
		merr = multierr.Append(merr, fmt.Errorf("%w: reachable %d, counted %d", ErrSizeViolation, reached, t.count))
	}
	return merr
}

func (b *rbBalancer[E]) blackDepthTo(t *BinaryTree[E], target, to nodeHandle) int {
	depth := 0
	for aux := target; aux != to; aux = t.parentOf(aux) {
		if !b.isRed(aux) {
			depth++
		}
	}
	return depth
}

// Inorder traversal to validate the red rule.
func (b *rbBalancer[E]) redViolationValidate(t *BinaryTree[E]) error {
	it := t.Inorder()
	for it.Next() {
		aux := it.cur
		if b.isRed(aux) && (b.isRed(t.leftOf(aux)) || b.isRed(t.rightOf(aux))) {
			return fmt.Errorf("%w: red handle %d has a red child", ErrRedViolation, aux)
		}
	}
	return nil
}

// BFS traversal to load every node owning a nil child.
func (b *rbBalancer[E]) bfsLeaves(t *BinaryTree[E]) []nodeHandle {
	leaves := make([]nodeHandle, 0, t.count>>1+1)
	it := t.BreadthFirst()
	for it.Next() {
		aux := it.cur
		if /* nil leaves, keep one */ t.leftOf(aux) == nilHandle || t.rightOf(aux) == nilHandle {
			leaves = append(leaves, aux)
		}
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

Each nil leaf to root black depth is equal.
*/
func (b *rbBalancer[E]) blackViolationValidate(t *BinaryTree[E]) error {
	leaves := b.bfsLeaves(t)
	if len(leaves) == 0 {
		return nil
	}

	blackDepth := b.blackDepthTo(t, leaves[0], nilHandle)
	for i := 1; i < len(leaves); i++ {
		if depth := b.blackDepthTo(t, leaves[i], nilHandle); depth != blackDepth {
			return fmt.Errorf("%w: handle %d black depth %d, expected %d", ErrBlackViolation, leaves[i], depth, blackDepth)
		}
	}
	return nil
}
