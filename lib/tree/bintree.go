package tree

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/xlog"
)

// Nodes live in an arena slice and are linked by handles. A released slot
// bumps its generation so positions pointing at it go stale, and the slot is
// recycled through the free list.

type nodeHandle int32

const nilHandle nodeHandle = -1

type binNode[E any] struct {
	elem   E
	parent nodeHandle
	left   nodeHandle
	right  nodeHandle
	gen    uint32
	live   bool
}

// Position is a stable handle to a live node of the tree that produced it.
// The zero Position stands for "no node".
type Position[E any] struct {
	tree  *BinaryTree[E]
	h     nodeHandle
	gen   uint32
	epoch uint32
}

func (p Position[E]) IsNil() bool {
	return p.tree == nil
}

// Element loads the element stored at p.
func (p Position[E]) Element() (E, error) {
	if p.tree == nil {
		var e E
		return e, fmt.Errorf("%w: nil position", ErrInvalidPosition)
	}
	return p.tree.Element(p)
}

type BinaryTree[E any] struct {
	nodes  []binNode[E]
	free   []nodeHandle
	root   nodeHandle
	count  int64
	epoch  uint32
	logger xlog.XLogger
	stats  *treeStats
}

type BinaryTreeOption[E any] func(t *BinaryTree[E])

// WithBinaryTreeLogger reports rejected positions and precondition
// violations at Warn level.
func WithBinaryTreeLogger[E any](logger xlog.XLogger) BinaryTreeOption[E] {
	return func(t *BinaryTree[E]) {
		if logger != nil {
			t.logger = logger.Named("xtree")
		}
	}
}

// WithBinaryTreeStats publishes otel metrics under the meter xtree/<name>.
// A blank name falls back to "default".
func WithBinaryTreeStats[E any](name string) BinaryTreeOption[E] {
	return func(t *BinaryTree[E]) {
		if len(strings.TrimSpace(name)) == 0 {
			name = "default"
		}
		t.stats = newTreeStats(name)
	}
}

func NewBinaryTree[E any](opts ...BinaryTreeOption[E]) *BinaryTree[E] {
	t := &BinaryTree[E]{
		root: nilHandle,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *BinaryTree[E]) Len() int64 {
	return t.count
}

func (t *BinaryTree[E]) IsEmpty() bool {
	return t.count == 0
}

func (t *BinaryTree[E]) node(h nodeHandle) *binNode[E] {
	return &t.nodes[h]
}

func (t *BinaryTree[E]) alloc(e E, parent nodeHandle) nodeHandle {
	var h nodeHandle
	if n := len(t.free); n > 0 {
		h = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.nodes = append(t.nodes, binNode[E]{})
		h = nodeHandle(len(t.nodes) - 1)
	}
	n := t.node(h)
	n.elem = e
	n.parent, n.left, n.right = parent, nilHandle, nilHandle
	n.live = true
	t.count++
	t.stats.RecordNodeCount(1)
	return h
}

func (t *BinaryTree[E]) release(h nodeHandle) {
	n := t.node(h)
	var zero E
	n.elem = zero
	n.parent, n.left, n.right = nilHandle, nilHandle, nilHandle
	n.live = false
	n.gen++
	t.free = append(t.free, h)
	t.count--
	t.stats.RecordNodeCount(-1)
}

func (t *BinaryTree[E]) makePosition(h nodeHandle) Position[E] {
	if h == nilHandle {
		return Position[E]{}
	}
	return Position[E]{
		tree:  t,
		h:     h,
		gen:   t.nodes[h].gen,
		epoch: t.epoch,
	}
}

func (t *BinaryTree[E]) validate(p Position[E]) (nodeHandle, error) {
	var reason string
	switch {
	case p.tree == nil:
		reason = "nil position"
	case p.tree != t:
		reason = "position belongs to another tree"
	case p.epoch != t.epoch || p.h < 0 || int(p.h) >= len(t.nodes):
		reason = "position outlived its tree"
	case !t.nodes[p.h].live || t.nodes[p.h].gen != p.gen:
		reason = "position is no longer valid"
	default:
		return p.h, nil
	}
	if t.logger != nil {
		t.logger.Warn("[xtree] reject position",
			zap.String("reason", reason),
			zap.Int32("handle", int32(p.h)),
		)
	}
	return nilHandle, fmt.Errorf("%w: %s", ErrInvalidPosition, reason)
}

func (t *BinaryTree[E]) violate(err error, h nodeHandle) error {
	if t.logger != nil {
		t.logger.Warn("[xtree] precondition violation",
			zap.String("error", err.Error()),
			zap.Int32("handle", int32(h)),
		)
	}
	return err
}

func (t *BinaryTree[E]) parentOf(h nodeHandle) nodeHandle { return t.nodes[h].parent }
func (t *BinaryTree[E]) leftOf(h nodeHandle) nodeHandle   { return t.nodes[h].left }
func (t *BinaryTree[E]) rightOf(h nodeHandle) nodeHandle  { return t.nodes[h].right }

func (t *BinaryTree[E]) direction(h nodeHandle) Direction {
	p := t.nodes[h].parent
	if p == nilHandle {
		return Root
	}
	if t.nodes[p].left == h {
		return Left
	}
	return Right
}

func (t *BinaryTree[E]) sibling(h nodeHandle) nodeHandle {
	p := t.nodes[h].parent
	if p == nilHandle {
		return nilHandle
	}
	if t.nodes[p].left == h {
		return t.nodes[p].right
	}
	return t.nodes[p].left
}

func (t *BinaryTree[E]) numChildren(h nodeHandle) int {
	n, count := t.node(h), 0
	if n.left != nilHandle {
		count++
	}
	if n.right != nilHandle {
		count++
	}
	return count
}

func (t *BinaryTree[E]) subtreeFirst(h nodeHandle) nodeHandle {
	for ; t.nodes[h].left != nilHandle; h = t.nodes[h].left {
	}
	return h
}

func (t *BinaryTree[E]) subtreeLast(h nodeHandle) nodeHandle {
	for ; t.nodes[h].right != nilHandle; h = t.nodes[h].right {
	}
	return h
}

// The pred node of the current node is its previous node in sorted order.
func (t *BinaryTree[E]) pred(h nodeHandle) nodeHandle {
	if l := t.nodes[h].left; l != nilHandle {
		return t.subtreeLast(l)
	}
	aux := t.nodes[h].parent
	// Backtrack to the first ancestor reached from its right side.
	for aux != nilHandle && h == t.nodes[aux].left {
		h = aux
		aux = t.nodes[aux].parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (t *BinaryTree[E]) succ(h nodeHandle) nodeHandle {
	if r := t.nodes[h].right; r != nilHandle {
		return t.subtreeFirst(r)
	}
	aux := t.nodes[h].parent
	for aux != nilHandle && h == t.nodes[aux].right {
		h = aux
		aux = t.nodes[aux].parent
	}
	return aux
}

func (t *BinaryTree[E]) Root() Position[E] {
	return t.makePosition(t.root)
}

func (t *BinaryTree[E]) Element(p Position[E]) (E, error) {
	h, err := t.validate(p)
	if err != nil {
		var e E
		return e, err
	}
	return t.nodes[h].elem, nil
}

func (t *BinaryTree[E]) Parent(p Position[E]) (Position[E], error) {
	h, err := t.validate(p)
	if err != nil {
		return Position[E]{}, err
	}
	return t.makePosition(t.parentOf(h)), nil
}

func (t *BinaryTree[E]) Left(p Position[E]) (Position[E], error) {
	h, err := t.validate(p)
	if err != nil {
		return Position[E]{}, err
	}
	return t.makePosition(t.leftOf(h)), nil
}

func (t *BinaryTree[E]) Right(p Position[E]) (Position[E], error) {
	h, err := t.validate(p)
	if err != nil {
		return Position[E]{}, err
	}
	return t.makePosition(t.rightOf(h)), nil
}

func (t *BinaryTree[E]) Sibling(p Position[E]) (Position[E], error) {
	h, err := t.validate(p)
	if err != nil {
		return Position[E]{}, err
	}
	return t.makePosition(t.sibling(h)), nil
}

// Children returns the existing children of p, left first.
func (t *BinaryTree[E]) Children(p Position[E]) ([]Position[E], error) {
	h, err := t.validate(p)
	if err != nil {
		return nil, err
	}
	children := make([]Position[E], 0, 2)
	if l := t.leftOf(h); l != nilHandle {
		children = append(children, t.makePosition(l))
	}
	if r := t.rightOf(h); r != nilHandle {
		children = append(children, t.makePosition(r))
	}
	return children, nil
}

func (t *BinaryTree[E]) NumChildren(p Position[E]) (int, error) {
	h, err := t.validate(p)
	if err != nil {
		return 0, err
	}
	return t.numChildren(h), nil
}

func (t *BinaryTree[E]) IsLeaf(p Position[E]) (bool, error) {
	n, err := t.NumChildren(p)
	return err == nil && n == 0, err
}

func (t *BinaryTree[E]) IsRoot(p Position[E]) (bool, error) {
	h, err := t.validate(p)
	if err != nil {
		return false, err
	}
	return h == t.root, nil
}

// Depth counts the edges between p and the root.
func (t *BinaryTree[E]) Depth(p Position[E]) (int, error) {
	h, err := t.validate(p)
	if err != nil {
		return 0, err
	}
	depth := 0
	for aux := t.parentOf(h); aux != nilHandle; aux = t.parentOf(aux) {
		depth++
	}
	return depth, nil
}

// Height of the subtree rooted at p, a leaf is 0.
func (t *BinaryTree[E]) Height(p Position[E]) (int, error) {
	h, err := t.validate(p)
	if err != nil {
		return 0, err
	}
	return t.height(h), nil
}

// TreeHeight is the height of the whole tree, -1 when empty.
func (t *BinaryTree[E]) TreeHeight() int {
	if t.root == nilHandle {
		return -1
	}
	return t.height(t.root)
}

// Level by level, so degenerate trees do not grow the goroutine stack.
func (t *BinaryTree[E]) height(h nodeHandle) int {
	level := []nodeHandle{h}
	height := -1
	for len(level) > 0 {
		height++
		next := make([]nodeHandle, 0, len(level)<<1)
		for _, aux := range level {
			if l := t.leftOf(aux); l != nilHandle {
				next = append(next, l)
			}
			if r := t.rightOf(aux); r != nilHandle {
				next = append(next, r)
			}
		}
		level = next
	}
	return height
}

func (t *BinaryTree[E]) AddRoot(e E) (Position[E], error) {
	if t.root != nilHandle {
		return Position[E]{}, t.violate(ErrRootExists, t.root)
	}
	t.root = t.alloc(e, nilHandle)
	return t.makePosition(t.root), nil
}

func (t *BinaryTree[E]) AddLeft(p Position[E], e E) (Position[E], error) {
	h, err := t.validate(p)
	if err != nil {
		return Position[E]{}, err
	}
	if t.leftOf(h) != nilHandle {
		return Position[E]{}, t.violate(fmt.Errorf("%w: left", ErrChildExists), h)
	}
	child := t.alloc(e, h)
	t.node(h).left = child
	return t.makePosition(child), nil
}

func (t *BinaryTree[E]) AddRight(p Position[E], e E) (Position[E], error) {
	h, err := t.validate(p)
	if err != nil {
		return Position[E]{}, err
	}
	if t.rightOf(h) != nilHandle {
		return Position[E]{}, t.violate(fmt.Errorf("%w: right", ErrChildExists), h)
	}
	child := t.alloc(e, h)
	t.node(h).right = child
	return t.makePosition(child), nil
}

// Replace swaps the element at p in place and returns the old one.
func (t *BinaryTree[E]) Replace(p Position[E], e E) (E, error) {
	h, err := t.validate(p)
	if err != nil {
		var zero E
		return zero, err
	}
	old := t.nodes[h].elem
	t.nodes[h].elem = e
	return old, nil
}

// Delete removes the node at p and splices its only child into its slot.
func (t *BinaryTree[E]) Delete(p Position[E]) (E, error) {
	h, err := t.validate(p)
	if err != nil {
		var zero E
		return zero, err
	}
	if t.numChildren(h) == 2 {
		var zero E
		return zero, t.violate(ErrTwoChildren, h)
	}
	return t.splice(h), nil
}

func (t *BinaryTree[E]) splice(h nodeHandle) E {
	n := t.node(h)
	if n.left != nilHandle && n.right != nilHandle {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] splice a node with two children")
	}
	child := n.left
	if child == nilHandle {
		child = n.right
	}
	if child != nilHandle {
		t.node(child).parent = n.parent
	}
	switch t.direction(h) {
	case Root:
		t.root = child
	case Left:
		t.node(n.parent).left = child
	case Right:
		t.node(n.parent).right = child
	default:
	}
	elem := n.elem
	t.release(h)
	return elem
}

func (t *BinaryTree[E]) relink(parent, child nodeHandle, makeLeft bool) {
	if makeLeft {
		t.node(parent).left = child
	} else {
		t.node(parent).right = child
	}
	if child != nilHandle {
		t.node(child).parent = parent
	}
}

/*
rotate(X) promotes X above its parent Y. The inner subtree of X moves
across to Y, so the in-order sequence is unchanged.

	      |                    |
	      Y                    X
	     / \    rotate(X)     / \
	    X   C   ========>    A   Y
	   / \                      / \
	  A   B                    B   C
*/
func (t *BinaryTree[E]) rotate(x nodeHandle) {
	y := t.parentOf(x)
	if y == nilHandle {
		// impossible run to here
		panic( /* debug assertion */ "[xtree] rotate the root node")
	}
	z := t.parentOf(y)
	if z == nilHandle {
		t.root = x
		t.node(x).parent = nilHandle
	} else {
		t.relink(z, x, y == t.leftOf(z))
	}
	if x == t.leftOf(y) {
		t.relink(y, t.rightOf(x), true)
		t.relink(x, y, false)
	} else {
		t.relink(y, t.leftOf(x), false)
		t.relink(x, y, true)
	}
	t.stats.IncreaseRotationCount()
}

// restructure performs the trinode restructuring of x, its parent y and its
// grandparent z, returning the new subtree root. Aligned x and y take a
// single rotation of y, a zig-zag takes two rotations of x.
func (t *BinaryTree[E]) restructure(x nodeHandle) nodeHandle {
	y := t.parentOf(x)
	z := t.parentOf(y)
	t.stats.IncreaseRestructureCount()
	if (x == t.rightOf(y)) == (y == t.rightOf(z)) {
		t.rotate(y)
		return y
	}
	t.rotate(x)
	t.rotate(x)
	return x
}

func (t *BinaryTree[E]) Rotate(p Position[E]) error {
	h, err := t.validate(p)
	if err != nil {
		return err
	}
	if t.parentOf(h) == nilHandle {
		return t.violate(ErrNoParent, h)
	}
	t.rotate(h)
	return nil
}

func (t *BinaryTree[E]) Restructure(p Position[E]) (Position[E], error) {
	h, err := t.validate(p)
	if err != nil {
		return Position[E]{}, err
	}
	if y := t.parentOf(h); y == nilHandle {
		return Position[E]{}, t.violate(ErrNoParent, h)
	} else if t.parentOf(y) == nilHandle {
		return Position[E]{}, t.violate(ErrNoGrandparent, h)
	}
	return t.makePosition(t.restructure(h)), nil
}

// Attach moves all nodes of left and right under the leaf p, as its left and
// right subtrees. Both sources end up empty and their positions go stale.
func (t *BinaryTree[E]) Attach(p Position[E], left, right *BinaryTree[E]) error {
	h, err := t.validate(p)
	if err != nil {
		return err
	}
	if t.numChildren(h) != 0 {
		return t.violate(ErrNotLeaf, h)
	}
	if left == t || right == t || (left != nil && left == right && !left.IsEmpty()) {
		return t.violate(ErrInvalidAttach, h)
	}
	// graft grows the arena, so no node pointer may be held across it.
	if left != nil && !left.IsEmpty() {
		sub := t.graft(left, h)
		t.relink(h, sub, true)
		left.Release()
	}
	if right != nil && !right.IsEmpty() {
		sub := t.graft(right, h)
		t.relink(h, sub, false)
		right.Release()
	}
	return nil
}

// graft copies src into this arena below parent and returns the copied root.
func (t *BinaryTree[E]) graft(src *BinaryTree[E], parent nodeHandle) nodeHandle {
	type frame struct {
		from     nodeHandle
		toParent nodeHandle
		isLeft   bool
	}
	newRoot := t.alloc(src.nodes[src.root].elem, parent)
	stack := []frame{
		{src.rightOf(src.root), newRoot, false},
		{src.leftOf(src.root), newRoot, true},
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.from == nilHandle {
			continue
		}
		to := t.alloc(src.nodes[f.from].elem, f.toParent)
		t.relink(f.toParent, to, f.isLeft)
		stack = append(stack,
			frame{src.rightOf(f.from), to, false},
			frame{src.leftOf(f.from), to, true},
		)
	}
	return newRoot
}

// Release drops every node. All positions handed out so far go stale.
func (t *BinaryTree[E]) Release() {
	if t.logger != nil {
		t.logger.Debug("[xtree] release", zap.Int64("size", t.count))
	}
	t.stats.RecordNodeCount(-t.count)
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = nilHandle
	t.count = 0
	t.epoch++
}
