package tree

var _ Balancer[struct{}] = (*rbBalancer[struct{}])(nil)

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// rbtree properties:
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red leaf,
//   otherwise the NIL descendants of X would sit at different black depths.

type rbBalancer[E any] struct {
	colors sideTable[RBColor]
}

func (b *rbBalancer[E]) isRed(h nodeHandle) bool {
	return h != nilHandle && b.colors.get(h) == Red
}

func (b *rbBalancer[E]) isRedLeaf(t *BinaryTree[E], h nodeHandle) bool {
	return b.isRed(h) && t.numChildren(h) == 0
}

func (b *rbBalancer[E]) setRed(h nodeHandle)   { b.colors.set(h, Red) }
func (b *rbBalancer[E]) setBlack(h nodeHandle) { b.colors.set(h, Black) }

func (b *rbBalancer[E]) setColor(h nodeHandle, red bool) {
	if red {
		b.setRed(h)
		return
	}
	b.setBlack(h)
}

// Color reports the color of p, NIL positions are black.
func (b *rbBalancer[E]) Color(p Position[E]) RBColor {
	if p.IsNil() {
		return Black
	}
	return b.colors.get(p.h)
}

// redChild returns a red child of h. Both children may be red (a black
// sibling holding two red nephews), then the outer child is preferred so
// the restructure is a single rotation.
func (b *rbBalancer[E]) redChild(t *BinaryTree[E], h nodeHandle) nodeHandle {
	l, r := t.leftOf(h), t.rightOf(h)
	outer, inner := r, l
	if t.direction(h) == Left {
		outer, inner = l, r
	}
	if b.isRed(outer) {
		return outer
	}
	if b.isRed(inner) {
		return inner
	}
	return nilHandle
}

func (b *rbBalancer[E]) AfterInsert(t *BinaryTree[E], p Position[E]) {
	b.setRed(p.h)
	b.resolveRed(t, p.h)
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X is the root, paint it black.

im2: X's parent P is black, nothing is violated.

im3: Both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
Repaint and push the violation two levels up to G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
Restructure X, P and G (single rotation if X and P lean the same way,
double rotation otherwise), paint the middle black and its children red.

	    [G]                  <P>               [P]
	    / \   restructure    / \    repaint    / \
	  <P> [U]  ========>   <X> [G]  ======>  <X> <G>
	  /                          \                 \
	<X>                          [U]               [U]
*/
func (b *rbBalancer[E]) resolveRed(t *BinaryTree[E], x nodeHandle) {
	levels := int64(0)
	defer func() {
		t.stats.RecordRebalanceDepth(levels)
	}()
	for {
		levels++
		if /* im1 */ x == t.root {
			b.setBlack(x)
			return
		}
		parent := t.parentOf(x)
		if /* im2 */ !b.isRed(parent) {
			return
		}
		if uncle := t.sibling(parent); /* im4 */ !b.isRed(uncle) {
			middle := t.restructure(x)
			b.setBlack(middle)
			b.setRed(t.leftOf(middle))
			b.setRed(t.rightOf(middle))
			return
		}
		/* im3 */
		grand := t.parentOf(parent)
		b.setRed(grand)
		b.setBlack(t.leftOf(grand))
		b.setBlack(t.rightOf(grand))
		x = grand
	}
}

/*
AfterDelete receives P, the former parent of the spliced node R.

rm1: Only one node left, paint it black.

rm2: P has two children now, so R was black and its only child C, a red
leaf, took its place. Paint C black. The sibling of R can not be a red
leaf because it has the same black height as R.

rm3: P has one child S now. If S is a red leaf R was a red leaf too and
nothing is violated. Otherwise R was a black leaf and P carries a black
deficit on R's side, fix it with S as the heavy side.
*/
func (b *rbBalancer[E]) AfterDelete(t *BinaryTree[E], parent Position[E]) {
	if /* rm1 */ t.count == 1 {
		b.setBlack(t.root)
		return
	}
	if parent.IsNil() {
		if t.root != nilHandle {
			b.setBlack(t.root)
		}
		return
	}
	p := parent.h
	switch t.numChildren(p) {
	case /* rm3 */ 1:
		c := t.leftOf(p)
		if c == nilHandle {
			c = t.rightOf(p)
		}
		if !b.isRedLeaf(t, c) {
			b.fixDeficit(t, p, c)
		}
	case /* rm2 */ 2:
		if b.isRedLeaf(t, t.leftOf(p)) {
			b.setBlack(t.leftOf(p))
		} else {
			b.setBlack(t.rightOf(p))
		}
	default:
	}
}

/*
fixDeficit resolves a black deficit at Z, where Y is the root of Z's
heavier side.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

fd1: Y is black and has a red child X. Restructure X, the middle takes Z's
old color and both of its children are painted black. Terminal.

	   {Z}                      {Y}
	   / \     restructure      / \
	 ...  [Y]  ==========>    [Z] [X]
	        \
	        <X>

fd2: Y is black with black children. Paint Y red. If Z was red paint it
black (terminal), otherwise the deficit moves up to Z's parent.

	   {Z}             [Z]
	   / \             / \
	 ...  [Y]  ====>  ...  <Y>

fd3: Y is red. Rotate Y above Z, paint Y black and Z red, then Z's new
heavy side is Y's former inner child, which is black, so fd1 or fd2
finishes the job.

	   [Z]                  [Y]
	   / \     rotate(Y)    / \
	 ...  <Y>  ========>  <Z> ...
	      / \             / \
	     A   B          ...  A
*/
func (b *rbBalancer[E]) fixDeficit(t *BinaryTree[E], z, y nodeHandle) {
	levels := int64(0)
	defer func() {
		t.stats.RecordRebalanceDepth(levels)
	}()
	for {
		levels++
		if !b.isRed(y) {
			if /* fd1 */ x := b.redChild(t, y); x != nilHandle {
				oldRed := b.isRed(z)
				middle := t.restructure(x)
				b.setColor(middle, oldRed)
				b.setBlack(t.leftOf(middle))
				b.setBlack(t.rightOf(middle))
				return
			}
			/* fd2 */
			b.setRed(y)
			if b.isRed(z) {
				b.setBlack(z)
				return
			}
			if z == t.root {
				return
			}
			z, y = t.parentOf(z), t.sibling(z)
			continue
		}
		/* fd3 */
		t.rotate(y)
		b.setBlack(y)
		b.setRed(z)
		if z == t.rightOf(y) {
			y = t.leftOf(z)
		} else {
			y = t.rightOf(z)
		}
	}
}

func (b *rbBalancer[E]) AfterAccess(*BinaryTree[E], Position[E]) {}

func (b *rbBalancer[E]) reset() {
	b.colors.reset()
}

func (b *rbBalancer[E]) validate(t *BinaryTree[E]) error {
	if t.root == nilHandle {
		return nil
	}
	if b.isRed(t.root) {
		return ErrRootColorViolate
	}
	if err := b.redViolationValidate(t); err != nil {
		return err
	}
	return b.blackViolationValidate(t)
}
