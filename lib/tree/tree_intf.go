package tree

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrKeyNotFound      = errors.New("[xtree] key not found")
	ErrReplaceDisabled  = errors.New("[xtree] value replace is disabled")
	ErrInvalidPosition  = errors.New("[xtree] invalid position")
	ErrRootExists       = errors.New("[xtree] root exists")
	ErrChildExists      = errors.New("[xtree] child exists")
	ErrTwoChildren      = errors.New("[xtree] position has two children")
	ErrNotLeaf          = errors.New("[xtree] position is not a leaf")
	ErrNoParent         = errors.New("[xtree] position has no parent")
	ErrNoGrandparent    = errors.New("[xtree] position has no grandparent")
	ErrInvalidAttach    = errors.New("[xtree] invalid attach source")
	ErrUnknownStrategy  = errors.New("[xtree] unknown balance strategy")
	ErrOrderViolation   = errors.New("[xtree] binary search order violation")
	ErrLinkViolation    = errors.New("[xtree] parent child link violation")
	ErrSizeViolation    = errors.New("[xtree] size violation")
	ErrAVLViolation     = errors.New("[xtree] avl balance violation")
	ErrRedViolation     = errors.New("[xtree] rbtree red violation")
	ErrBlackViolation   = errors.New("[xtree] rbtree black violation")
	ErrRootColorViolate = errors.New("[xtree] rbtree root is not black")
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	if c == Red {
		return "Red"
	}
	return "Black"
}

type Direction int8

const (
	Left Direction = -1 + iota
	Root
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
	}
	return "Root"
}

// Balancer restores a shape invariant after the ordered map changed the tree.
// The map never inspects which balancer is installed.
type Balancer[E any] interface {
	// AfterInsert runs once p has been attached as a new leaf (or root).
	AfterInsert(tree *BinaryTree[E], p Position[E])
	// AfterDelete runs once a node has been spliced out; parent is the
	// former parent of the removed node and is nil when the root was removed.
	AfterDelete(tree *BinaryTree[E], parent Position[E])
	// AfterAccess runs after a lookup or in-place update landed on p.
	AfterAccess(tree *BinaryTree[E], p Position[E])
}

type OrderedMap[K infra.OrderedKey, V any] interface {
	Len() int64
	IsEmpty() bool
	Get(key K) (V, error)
	Set(key K, val V)
	Insert(key K, val V, ifNotPresent ...bool) error
	Delete(key K) (V, error)
	DeletePosition(p Position[Item[K, V]]) (Item[K, V], error)
	DeleteMin() (Item[K, V], error)
	DeleteMax() (Item[K, V], error)
	FindPosition(key K) Position[Item[K, V]]
	First() Position[Item[K, V]]
	Last() Position[Item[K, V]]
	Before(p Position[Item[K, V]]) (Position[Item[K, V]], error)
	After(p Position[Item[K, V]]) (Position[Item[K, V]], error)
	FindMin() (Item[K, V], bool)
	FindMax() (Item[K, V], bool)
	FindGE(key K) (Item[K, V], bool)
	FindGT(key K) (Item[K, V], bool)
	FindLT(key K) (Item[K, V], bool)
	FindLE(key K) (Item[K, V], bool)
	FindRange(start, stop Bound[K]) *RangeIter[K, V]
	Iter() *RangeIter[K, V]
	Foreach(action func(idx int64, key K, val V) bool)
	Release()
}
