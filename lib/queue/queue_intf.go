package queue

// Queue is a plain FIFO queue.
type Queue[E any] interface {
	Len() int64
	IsEmpty() bool
	Enqueue(item E)
	// Dequeue returns false if the queue is empty.
	Dequeue() (E, bool)
	Peek() (E, bool)
	Clear()
}
