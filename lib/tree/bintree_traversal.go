package tree

import (
	"github.com/benz9527/xtree/lib/queue"
)

type TraversalOrder uint8

const (
	Preorder TraversalOrder = iota
	Inorder
	Postorder
	BreadthFirst
)

// Traversal walks the tree lazily. It is single pass: once Next reports
// false it stays exhausted, take a fresh traversal for another pass.
// Mutating the tree during a walk leaves the walk undefined.
type Traversal[E any] struct {
	tree    *BinaryTree[E]
	order   TraversalOrder
	stack   []nodeHandle
	fifo    queue.Queue[Position[E]]
	walk    nodeHandle // postorder descent cursor
	last    nodeHandle // postorder last emitted node
	cur     nodeHandle
	started bool
	done    bool
}

func (t *BinaryTree[E]) traversal(order TraversalOrder, fifo queue.Queue[Position[E]]) *Traversal[E] {
	return &Traversal[E]{
		tree:  t,
		order: order,
		fifo:  fifo,
		walk:  nilHandle,
		last:  nilHandle,
		cur:   nilHandle,
	}
}

func (t *BinaryTree[E]) Preorder() *Traversal[E] {
	return t.traversal(Preorder, nil)
}

func (t *BinaryTree[E]) Inorder() *Traversal[E] {
	return t.traversal(Inorder, nil)
}

func (t *BinaryTree[E]) Postorder() *Traversal[E] {
	return t.traversal(Postorder, nil)
}

// BreadthFirst visits level by level. The FIFO may be supplied by the caller,
// a linked queue is used otherwise.
func (t *BinaryTree[E]) BreadthFirst(fifo ...queue.Queue[Position[E]]) *Traversal[E] {
	var q queue.Queue[Position[E]]
	if len(fifo) > 0 && fifo[0] != nil {
		q = fifo[0]
		q.Clear()
	} else {
		q = queue.NewLinkedQueue[Position[E]]()
	}
	return t.traversal(BreadthFirst, q)
}

// Positions enumerates every position in preorder.
func (t *BinaryTree[E]) Positions() *Traversal[E] {
	return t.Preorder()
}

func (it *Traversal[E]) pushLeftSpine(h nodeHandle) {
	for ; h != nilHandle; h = it.tree.leftOf(h) {
		it.stack = append(it.stack, h)
	}
}

func (it *Traversal[E]) pop() nodeHandle {
	n := len(it.stack)
	h := it.stack[n-1]
	it.stack = it.stack[:n-1]
	return h
}

func (it *Traversal[E]) start() {
	it.started = true
	root := it.tree.root
	if root == nilHandle {
		it.done = true
		return
	}
	switch it.order {
	case Preorder:
		it.stack = append(it.stack, root)
	case Inorder:
		it.pushLeftSpine(root)
	case Postorder:
		it.walk = root
	case BreadthFirst:
		it.fifo.Enqueue(it.tree.makePosition(root))
	default:
	}
}

func (it *Traversal[E]) Next() bool {
	if !it.started {
		it.start()
	}
	if it.done {
		return false
	}

	var ok bool
	switch it.order {
	case Preorder:
		ok = it.nextPreorder()
	case Inorder:
		ok = it.nextInorder()
	case Postorder:
		ok = it.nextPostorder()
	case BreadthFirst:
		ok = it.nextBreadthFirst()
	default:
	}
	if !ok {
		it.done = true
		it.cur = nilHandle
		clear(it.stack)
		it.stack = nil
	}
	return ok
}

func (it *Traversal[E]) nextPreorder() bool {
	if len(it.stack) == 0 {
		return false
	}
	h := it.pop()
	if r := it.tree.rightOf(h); r != nilHandle {
		it.stack = append(it.stack, r)
	}
	if l := it.tree.leftOf(h); l != nilHandle {
		it.stack = append(it.stack, l)
	}
	it.cur = h
	return true
}

func (it *Traversal[E]) nextInorder() bool {
	if len(it.stack) == 0 {
		return false
	}
	h := it.pop()
	it.pushLeftSpine(it.tree.rightOf(h))
	it.cur = h
	return true
}

func (it *Traversal[E]) nextPostorder() bool {
	for {
		it.pushLeftSpine(it.walk)
		it.walk = nilHandle
		if len(it.stack) == 0 {
			return false
		}
		top := it.stack[len(it.stack)-1]
		if r := it.tree.rightOf(top); r != nilHandle && r != it.last {
			it.walk = r
			continue
		}
		it.pop()
		it.last, it.cur = top, top
		return true
	}
}

func (it *Traversal[E]) nextBreadthFirst() bool {
	p, ok := it.fifo.Dequeue()
	if !ok {
		return false
	}
	h := p.h
	if l := it.tree.leftOf(h); l != nilHandle {
		it.fifo.Enqueue(it.tree.makePosition(l))
	}
	if r := it.tree.rightOf(h); r != nilHandle {
		it.fifo.Enqueue(it.tree.makePosition(r))
	}
	it.cur = h
	return true
}

func (it *Traversal[E]) Position() Position[E] {
	return it.tree.makePosition(it.cur)
}

func (it *Traversal[E]) Element() E {
	if it.cur == nilHandle {
		var zero E
		return zero
	}
	return it.tree.nodes[it.cur].elem
}

// Collect drains the remaining elements into a slice.
func (it *Traversal[E]) Collect() []E {
	res := make([]E, 0, it.tree.count)
	for it.Next() {
		res = append(res, it.Element())
	}
	return res
}
