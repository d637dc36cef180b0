package queue

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

var _ Queue[struct{}] = (*linkedQueue[struct{}])(nil)

// linkedQueue adapts the untyped gods linked list queue to Queue[E].
type linkedQueue[E any] struct {
	q *linkedlistqueue.Queue
}

func (lq *linkedQueue[E]) Len() int64 {
	return int64(lq.q.Size())
}

func (lq *linkedQueue[E]) IsEmpty() bool {
	return lq.q.Empty()
}

func (lq *linkedQueue[E]) Enqueue(item E) {
	lq.q.Enqueue(item)
}

func (lq *linkedQueue[E]) Dequeue() (item E, ok bool) {
	v, ok := lq.q.Dequeue()
	if !ok {
		return item, false
	}
	return v.(E), true
}

func (lq *linkedQueue[E]) Peek() (item E, ok bool) {
	v, ok := lq.q.Peek()
	if !ok {
		return item, false
	}
	return v.(E), true
}

func (lq *linkedQueue[E]) Clear() {
	lq.q.Clear()
}

func NewLinkedQueue[E any]() Queue[E] {
	return &linkedQueue[E]{
		q: linkedlistqueue.New(),
	}
}
