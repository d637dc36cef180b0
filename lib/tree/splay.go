package tree

var _ Balancer[struct{}] = (*splayBalancer[struct{}])(nil)

// splayBalancer moves every touched node to the root. No metadata is kept,
// the cost bound is amortized only.
type splayBalancer[E any] struct{}

/*
splay(X) until X is the root. P is X's parent, G is its grandparent.

zig: P is the root, rotate(X).

zig-zig: X and P lean the same way, rotate(P) then rotate(X).

	      G                X
	     /                  \
	    P       ======>      P
	   /                      \
	  X                        G

zig-zag: X and P lean opposite ways, rotate(X) twice.

	    G                  X
	   /                  / \
	  P        ======>   P   G
	   \
	    X
*/
func (b *splayBalancer[E]) splay(t *BinaryTree[E], x nodeHandle) {
	levels := int64(0)
	for x != t.root {
		levels++
		parent := t.parentOf(x)
		grand := t.parentOf(parent)
		if /* zig */ grand == nilHandle {
			t.rotate(x)
		} else if /* zig-zig */ (parent == t.leftOf(grand)) == (x == t.leftOf(parent)) {
			t.rotate(parent)
			t.rotate(x)
		} else /* zig-zag */ {
			t.rotate(x)
			t.rotate(x)
		}
	}
	t.stats.RecordRebalanceDepth(levels)
}

func (b *splayBalancer[E]) AfterInsert(t *BinaryTree[E], p Position[E]) {
	b.splay(t, p.h)
}

func (b *splayBalancer[E]) AfterDelete(t *BinaryTree[E], parent Position[E]) {
	if parent.IsNil() {
		return
	}
	b.splay(t, parent.h)
}

func (b *splayBalancer[E]) AfterAccess(t *BinaryTree[E], p Position[E]) {
	if p.IsNil() {
		return
	}
	b.splay(t, p.h)
}
